package citydesk_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/citydesk/citydesk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTool(name string) citydesk.Tool {
	return citydesk.Tool{
		Name:        name,
		Description: "stub",
		Parameters:  json.RawMessage(`{"type":"object"}`),
		Run: func(_ context.Context, _ json.RawMessage) citydesk.Envelope {
			return citydesk.Success(name)
		},
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("preserves registration order", func(t *testing.T) {
		t.Parallel()
		r, err := citydesk.NewRegistry(stubTool("alpha"), stubTool("beta"), stubTool("gamma"))
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())

		defs := r.Definitions()
		require.Len(t, defs, 3)
		assert.Equal(t, "alpha", defs[0].Name)
		assert.Equal(t, "gamma", defs[2].Name)
	})

	t.Run("lookup finds registered tool", func(t *testing.T) {
		t.Parallel()
		r, err := citydesk.NewRegistry(stubTool("alpha"))
		require.NoError(t, err)

		tool, ok := r.Lookup("alpha")
		require.True(t, ok)
		assert.Equal(t, "alpha", tool.Name)

		_, ok = r.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("duplicate name leaves registry unchanged", func(t *testing.T) {
		t.Parallel()
		r, err := citydesk.NewRegistry()
		require.NoError(t, err)

		first := stubTool("alpha")
		first.Description = "first"
		require.NoError(t, r.Register(first))

		second := stubTool("alpha")
		second.Description = "second"
		err = r.Register(second)
		assert.ErrorIs(t, err, citydesk.ErrDuplicateTool)

		got, ok := r.Lookup("alpha")
		require.True(t, ok)
		assert.Equal(t, "first", got.Description)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("duplicate in constructor fails", func(t *testing.T) {
		t.Parallel()
		_, err := citydesk.NewRegistry(stubTool("alpha"), stubTool("alpha"))
		assert.ErrorIs(t, err, citydesk.ErrDuplicateTool)
	})

	t.Run("rejects unnamed tool", func(t *testing.T) {
		t.Parallel()
		r, err := citydesk.NewRegistry()
		require.NoError(t, err)
		err = r.Register(citydesk.Tool{Run: stubTool("x").Run})
		assert.ErrorIs(t, err, citydesk.ErrValidation)
	})

	t.Run("rejects tool without behavior", func(t *testing.T) {
		t.Parallel()
		r, err := citydesk.NewRegistry()
		require.NoError(t, err)
		err = r.Register(citydesk.Tool{Name: "inert"})
		assert.ErrorIs(t, err, citydesk.ErrValidation)
	})
}
