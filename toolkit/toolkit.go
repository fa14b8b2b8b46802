// Package toolkit provides the built-in tools for the citydesk agent.
//
// Every tool takes a single "city" string argument and reports through the
// uniform envelope contract: a supported city yields a success report, an
// unsupported city yields an error envelope the model can narrate. Matching
// is a case-insensitive exact comparison against a fixed supported set —
// no fuzzy or partial lookup.
package toolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citydesk/citydesk"
)

// All returns every built-in tool in presentation order.
func All() []citydesk.Tool {
	return []citydesk.Tool{
		Weather(),
		CurrentTime(),
	}
}

// ByName selects built-in tools for an agent declaration. Order follows the
// requested names. Unknown names fail with [citydesk.ErrToolNotFound].
func ByName(names ...string) ([]citydesk.Tool, error) {
	byName := make(map[string]citydesk.Tool)
	for _, t := range All() {
		byName[t.Name] = t
	}
	tools := make([]citydesk.Tool, 0, len(names))
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("built-in tool %q: %w", name, citydesk.ErrToolNotFound)
		}
		tools = append(tools, t)
	}
	return tools, nil
}

type cityArgs struct {
	City string `json:"city"`
}

// parseCity unmarshals and trims the city argument. The returned envelope is
// non-nil when the arguments are unusable.
func parseCity(args json.RawMessage) (string, *citydesk.Envelope) {
	var a cityArgs
	if err := json.Unmarshal(args, &a); err != nil {
		e := citydesk.Failuref("invalid arguments: %s", err)
		return "", &e
	}
	city := strings.TrimSpace(a.City)
	if city == "" {
		e := citydesk.Failure("city is required")
		return "", &e
	}
	return city, nil
}

// normalize canonicalizes a city name for supported-set membership checks.
func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// cityParameters is the JSON Schema shared by the built-in tools.
func cityParameters(description string) json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"city"},
	}
	data, _ := json.Marshal(schema)
	return data
}
