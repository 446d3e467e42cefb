package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDoc is the on-disk shape of a configuration fixture file.
type fileDoc struct {
	Agents []AgentConfig `yaml:"agents"`
}

// LoadFile reads agent configurations from a YAML file. Used to seed the
// in-memory store for local development and tests.
func LoadFile(path string) ([]AgentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes agent configurations from YAML bytes and normalizes each one.
func Parse(data []byte) ([]AgentConfig, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	for i := range doc.Agents {
		if doc.Agents[i].TenantID == "" || doc.Agents[i].AgentID == "" {
			return nil, fmt.Errorf("agent %d: tenant_id and agent_id are required", i)
		}
		doc.Agents[i].Normalize()
	}
	return doc.Agents, nil
}
