package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
)

// HTTPTool executes one tenant-declared custom tool against its HTTP
// endpoint. Call shape is derived from the declaration: {param} path
// placeholders consume matching arguments, remaining arguments become query
// parameters for GET and the JSON body otherwise. The method defaults to
// POST. Declarations come from tenant input, so every missing piece is a
// failed result, never a panic.
type HTTPTool struct {
	spec   config.CustomTool
	client *http.Client
	creds  config.CredentialResolver
}

// NewHTTPTool wraps a custom tool declaration.
func NewHTTPTool(spec config.CustomTool, client *http.Client, creds config.CredentialResolver) *HTTPTool {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTool{spec: spec, client: client, creds: creds}
}

// Name implements Tool.
func (t *HTTPTool) Name() string { return t.spec.Name }

// Description implements Tool.
func (t *HTTPTool) Description() string { return t.spec.Description }

// Parameters implements Tool.
func (t *HTTPTool) Parameters() map[string]any {
	if t.spec.ParametersSchema != nil {
		return t.spec.ParametersSchema
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// Call implements Tool.
func (t *HTTPTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	if t.spec.BaseURL == "" {
		return core.FailResult(fmt.Sprintf("custom tool %q has no base URL configured", t.spec.Name))
	}

	remaining := make(map[string]any, len(args))
	for k, v := range args {
		remaining[k] = v
	}
	path := expandPath(t.spec.Path, remaining)

	method := strings.ToUpper(t.spec.Method)
	if method == "" {
		method = http.MethodPost
	}

	target := strings.TrimRight(t.spec.BaseURL, "/")
	if path != "" {
		target += "/" + strings.TrimLeft(path, "/")
	}

	var body io.Reader
	if method == http.MethodGet {
		if len(remaining) > 0 {
			query := url.Values{}
			for k, v := range remaining {
				query.Set(k, fmt.Sprintf("%v", v))
			}
			target += "?" + query.Encode()
		}
	} else if len(remaining) > 0 {
		encoded, err := json.Marshal(remaining)
		if err != nil {
			return core.FailResult(fmt.Sprintf("encode request body: %v", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return core.FailResult(fmt.Sprintf("build request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if t.spec.CredentialRef != "" && t.creds != nil {
		secret, err := t.creds.Resolve(ctx, t.spec.CredentialRef)
		if err != nil {
			return core.FailResult(fmt.Sprintf("resolve credential: %v", err))
		}
		if secret != "" {
			req.Header.Set("Authorization", "Bearer "+secret)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return core.FailResult(fmt.Sprintf("call %s: %v", t.spec.Name, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.FailResult(fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.FailResult(fmt.Sprintf("%s returned status %d: %s", t.spec.Name, resp.StatusCode, truncate(string(respBody), 200)))
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// Non-JSON responses are still usable as text.
		return core.OKResult(map[string]any{"response": string(respBody)})
	}
	return core.OKResult(parsed)
}

// expandPath substitutes {param} placeholders from the argument map,
// consuming each used argument. Unmatched placeholders are left in place.
func expandPath(path string, args map[string]any) string {
	if path == "" || !strings.Contains(path, "{") {
		return path
	}
	var b strings.Builder
	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			b.WriteString(rest)
			break
		}
		closing += open
		name := rest[open+1 : closing]
		b.WriteString(rest[:open])
		if v, ok := args[name]; ok {
			b.WriteString(url.PathEscape(fmt.Sprintf("%v", v)))
			delete(args, name)
		} else {
			b.WriteString(rest[open : closing+1])
		}
		rest = rest[closing+1:]
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
