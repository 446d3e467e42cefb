package core

import "errors"

// ErrConfigNotFound is returned when no agent configuration exists for a
// (tenant, agent) pair. It is fatal for the turn and propagates to the
// caller; every other failure degrades into a valid AgentResponse.
var ErrConfigNotFound = errors.New("agent configuration not found")
