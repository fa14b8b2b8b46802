package citydesk

import (
	"context"
	"encoding/json"
)

// ToolFunc is a tool's behavior. It never returns a Go error: domain and
// lookup failures are reported through an error [Envelope] so the model can
// read and narrate the failure instead of crashing the turn.
type ToolFunc func(ctx context.Context, args json.RawMessage) Envelope

// Tool is a single named capability exposed to the model: a schema the model
// grounds on plus the function that runs when the model calls it.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Run         ToolFunc
}

// Definition is the schema portion of a Tool, sent to the model.
type Definition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Definition returns the tool's schema without its behavior.
func (t Tool) Definition() Definition {
	return Definition{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
}
