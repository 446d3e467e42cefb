// Package core defines the shared vocabulary of the agent pipeline: turn
// identity, conversation messages, actions, tool results and the response
// contract returned to every caller. It has no dependencies on the other
// packages so that config, model, tool, store and orchestrator can all speak
// the same types without import cycles.
package core
