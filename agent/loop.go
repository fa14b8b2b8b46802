// Package agent orchestrates dispatch turns between a Provider and an Agent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/citydesk/citydesk"
)

// Loop drives the conversation: it sends the session to the provider,
// dispatches any tool calls through the agent's registry, and repeats until
// the model replies without requesting a tool.
type Loop struct {
	provider citydesk.Provider
	agent    *citydesk.Agent
}

// New creates a new Loop with the given provider and agent.
func New(provider citydesk.Provider, agent *citydesk.Agent) *Loop {
	return &Loop{provider: provider, agent: agent}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	model    string
	logger   *slog.Logger
	onResult func(name string, env citydesk.Envelope)
}

// WithModel overrides the agent's model ID for this run.
func WithModel(model string) RunOption {
	return func(c *runConfig) {
		c.model = model
	}
}

// WithLogger sets a logger for dispatch events. Defaults to a discarding
// logger.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithResultObserver sets a callback invoked after every tool dispatch with
// the tool name and its envelope. Used by the UI to surface tool activity.
func WithResultObserver(fn func(name string, env citydesk.Envelope)) RunOption {
	return func(c *runConfig) {
		c.onResult = fn
	}
}

// Run executes dispatch turns until the model stops requesting tools,
// appending all traffic to session.Messages. The final assistant message is
// the composed reply. Tool calls are synchronous, pure, and idempotent, so
// there is no retry logic.
func (l *Loop) Run(ctx context.Context, session *citydesk.Session, opts ...RunOption) error {
	cfg := runConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	for {
		cont, err := l.turn(ctx, session, &cfg)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// turn executes a single request/dispatch cycle. It returns true if the
// loop should continue (tool calls were made), false if it should stop.
func (l *Loop) turn(ctx context.Context, session *citydesk.Session, cfg *runConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	model := cfg.model
	if model == "" {
		model = l.agent.Model()
	}
	req := citydesk.Request{
		Model:       model,
		Instruction: l.agent.Instruction(),
		Messages:    session.Messages,
		Tools:       l.agent.Tools(),
	}

	msg, err := l.provider.Generate(ctx, req)
	if err != nil {
		return false, fmt.Errorf("generate: %w", err)
	}

	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = time.Now()

	calls := msg.ToolCalls()
	if len(calls) == 0 {
		return false, nil
	}

	for _, call := range calls {
		env, err := l.agent.Dispatch(ctx, call.Name, call.Arguments)
		switch {
		case errors.Is(err, citydesk.ErrToolNotFound):
			// No tool executed. Hand the refusal back to the model so it
			// narrates it within its capability boundary.
			cfg.logger.Debug("tool not found", "tool", call.Name)
			env = citydesk.Failuref("unknown tool: %s", call.Name)
		case err != nil:
			return false, fmt.Errorf("dispatch %s: %w", call.Name, err)
		default:
			cfg.logger.Debug("tool dispatched", "tool", call.Name, "status", env.Status())
		}
		if cfg.onResult != nil {
			cfg.onResult(call.Name, env)
		}

		session.Messages = append(session.Messages, citydesk.ToolResultMessage{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Result:     env,
			Timestamp:  time.Now(),
		})
	}
	session.UpdatedAt = time.Now()

	return true, nil
}
