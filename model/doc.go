// Package model defines the normalized request/response contract between the
// orchestrator and heterogeneous LLM backends, the Router that caches one
// adapter client per (provider, credential) pair, and the static price table
// used for cost estimation. Vendor-specific request shapes and usage-field
// naming live in the adapter subpackages (openai, anthropic, ollama).
package model
