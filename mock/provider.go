// Package mock provides test doubles for citydesk interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/citydesk/citydesk"
)

// Interface compliance check.
var _ citydesk.Provider = (*Provider)(nil)

// Provider is a test double for citydesk.Provider.
// Set GenerateFn before calling Generate.
type Provider struct {
	GenerateFn func(ctx context.Context, req citydesk.Request) (citydesk.AssistantMessage, error)

	// Requests records every request passed to Generate, in order.
	Requests []citydesk.Request
}

// Generate records the request and delegates to GenerateFn.
func (p *Provider) Generate(ctx context.Context, req citydesk.Request) (citydesk.AssistantMessage, error) {
	p.Requests = append(p.Requests, req)
	return p.GenerateFn(ctx, req)
}

// Script returns a Provider that replays the given messages in order,
// one per Generate call. It panics when called more times than it has
// messages.
func Script(msgs ...citydesk.AssistantMessage) *Provider {
	i := 0
	p := &Provider{}
	p.GenerateFn = func(_ context.Context, _ citydesk.Request) (citydesk.AssistantMessage, error) {
		msg := msgs[i]
		i++
		return msg, nil
	}
	return p
}
