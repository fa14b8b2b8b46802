package citydesk

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// Agent binds an instruction (the capability boundary the model must obey),
// a model ID, and the registry of tools it may call. Immutable after
// construction.
type Agent struct {
	name        string
	model       string
	description string
	instruction string
	registry    *Registry
}

// AgentConfig carries the fields NewAgent validates.
type AgentConfig struct {
	Name        string
	Model       string
	Description string
	Instruction string
	Registry    *Registry
}

// toolRef matches snake_case identifiers, the naming shape of tool names.
// Used to cross-check the instruction text against the registry.
var toolRef = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:_[a-z0-9]+)+\b`)

// NewAgent validates the configuration and returns an Agent. The model must
// be set, the registry must be non-nil and non-empty, and every tool-shaped
// identifier mentioned in the instruction must resolve in the registry.
// The last check keeps the instruction from promising a capability the
// agent cannot dispatch.
func NewAgent(cfg AgentConfig) (*Agent, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("agent %q: model is empty: %w", cfg.Name, ErrValidation)
	}
	if cfg.Registry == nil || cfg.Registry.Len() == 0 {
		return nil, fmt.Errorf("agent %q: registry is empty: %w", cfg.Name, ErrValidation)
	}
	for _, ref := range toolRef.FindAllString(cfg.Instruction, -1) {
		if !cfg.Registry.Has(ref) {
			return nil, fmt.Errorf("agent %q: instruction references unknown tool %q: %w", cfg.Name, ref, ErrValidation)
		}
	}
	return &Agent{
		name:        cfg.Name,
		model:       cfg.Model,
		description: cfg.Description,
		instruction: cfg.Instruction,
		registry:    cfg.Registry,
	}, nil
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Model returns the model ID the agent is bound to.
func (a *Agent) Model() string { return a.model }

// Description returns the agent's description.
func (a *Agent) Description() string { return a.description }

// Instruction returns the capability-boundary text sent as the system
// instruction.
func (a *Agent) Instruction() string { return a.instruction }

// Tools returns the schemas of every registered tool in registration order.
func (a *Agent) Tools() []Definition {
	return a.registry.Definitions()
}

// Dispatch resolves a tool name against the registry and invokes it.
// An unknown name returns an error wrapping [ErrToolNotFound] without
// invoking anything; the caller turns that into a refusal. A known tool
// always yields an envelope, success or error.
func (a *Agent) Dispatch(ctx context.Context, name string, args json.RawMessage) (Envelope, error) {
	t, ok := a.registry.Lookup(name)
	if !ok {
		return Envelope{}, fmt.Errorf("tool %q: %w", name, ErrToolNotFound)
	}
	return t.Run(ctx, args), nil
}
