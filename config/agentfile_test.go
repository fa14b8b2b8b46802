package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/citydesk/citydesk"
	"github.com/citydesk/citydesk/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const declarationYAML = `name: city_desk_agent
model: gemini-3.1-pro-preview
description: Agent to answer questions about the time and weather in a city.
instruction: >
  You are a helpful agent who can answer user questions about the time and
  weather in a city.
tools:
  - get_weather
  - get_current_time
`

func TestParseDeclaration(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		d, err := config.ParseDeclaration([]byte(declarationYAML))
		require.NoError(t, err)
		assert.Equal(t, "city_desk_agent", d.Name)
		assert.Equal(t, "gemini-3.1-pro-preview", d.Model)
		assert.Equal(t, []string{"get_weather", "get_current_time"}, d.Tools)
		assert.Contains(t, d.Instruction, "time and")
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseDeclaration([]byte(declarationYAML + "retries: 3\n"))
		assert.Error(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			doc  string
		}{
			{"missing name", "model: m\ninstruction: i\ntools: [a]\n"},
			{"missing model", "name: n\ninstruction: i\ntools: [a]\n"},
			{"missing instruction", "name: n\nmodel: m\ntools: [a]\n"},
			{"no tools", "name: n\nmodel: m\ninstruction: i\n"},
			{"duplicate tool", "name: n\nmodel: m\ninstruction: i\ntools: [a, a]\n"},
			{"empty tool name", "name: n\nmodel: m\ninstruction: i\ntools: ['']\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := config.ParseDeclaration([]byte(tt.doc))
				assert.ErrorIs(t, err, citydesk.ErrValidation)
			})
		}
	})
}

func TestLoadDeclaration(t *testing.T) {
	t.Parallel()

	t.Run("reads from file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "agent.yaml")
		require.NoError(t, os.WriteFile(path, []byte(declarationYAML), 0o644))

		d, err := config.LoadDeclaration(path)
		require.NoError(t, err)
		assert.Equal(t, "city_desk_agent", d.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := config.LoadDeclaration(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestDefaultDeclaration(t *testing.T) {
	t.Parallel()

	d := config.DefaultDeclaration()
	require.NoError(t, d.Validate())
	assert.Equal(t, []string{"get_weather", "get_current_time"}, d.Tools)
}
