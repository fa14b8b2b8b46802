package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/citydesk/citydesk"
	"gopkg.in/yaml.v3"
)

// Declaration is the agent declaration document: the name, model,
// capability-boundary instruction, and tool names an agent is built from.
type Declaration struct {
	Name        string   `yaml:"name"`
	Model       string   `yaml:"model"`
	Description string   `yaml:"description"`
	Instruction string   `yaml:"instruction"`
	Tools       []string `yaml:"tools"`
}

// DefaultDeclaration is the built-in agent used when no declaration file is
// given: a city concierge scoped to the supported city set.
func DefaultDeclaration() Declaration {
	return Declaration{
		Name:        "city_desk_agent",
		Model:       "gemini-3.1-pro-preview",
		Description: "Agent to answer questions about the time and weather in a city.",
		Instruction: "You are a helpful agent who can answer user questions about the time and weather in a city. " +
			"Call get_weather for weather questions and get_current_time for time questions. " +
			"When a tool reports an error, relay its message conversationally and explain that you only cover supported cities. " +
			"Never invent weather or time information.",
		Tools: []string{"get_weather", "get_current_time"},
	}
}

// LoadDeclaration reads and validates an agent declaration YAML file.
// Unknown document fields are rejected.
func LoadDeclaration(path string) (Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Declaration{}, fmt.Errorf("read declaration: %w", err)
	}
	return ParseDeclaration(data)
}

// ParseDeclaration parses and validates an agent declaration document.
func ParseDeclaration(data []byte) (Declaration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Declaration
	if err := dec.Decode(&d); err != nil {
		return Declaration{}, fmt.Errorf("parse declaration: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Declaration{}, err
	}
	return d, nil
}

// Validate checks the declaration's structural constraints. Tool names are
// only checked for presence and uniqueness here; existence is checked when
// the registry is assembled.
func (d Declaration) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("declaration: name is empty: %w", citydesk.ErrValidation)
	}
	if d.Model == "" {
		return fmt.Errorf("declaration %q: model is empty: %w", d.Name, citydesk.ErrValidation)
	}
	if d.Instruction == "" {
		return fmt.Errorf("declaration %q: instruction is empty: %w", d.Name, citydesk.ErrValidation)
	}
	if len(d.Tools) == 0 {
		return fmt.Errorf("declaration %q: no tools declared: %w", d.Name, citydesk.ErrValidation)
	}
	seen := make(map[string]bool, len(d.Tools))
	for _, name := range d.Tools {
		if name == "" {
			return fmt.Errorf("declaration %q: empty tool name: %w", d.Name, citydesk.ErrValidation)
		}
		if seen[name] {
			return fmt.Errorf("declaration %q: tool %q listed twice: %w", d.Name, name, citydesk.ErrValidation)
		}
		seen[name] = true
	}
	return nil
}
