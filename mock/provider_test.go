package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/citydesk/citydesk"
	"github.com/citydesk/citydesk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	t.Parallel()

	t.Run("delegates to GenerateFn and records requests", func(t *testing.T) {
		t.Parallel()
		want := citydesk.AssistantMessage{Content: []citydesk.ContentBlock{citydesk.TextBlock{Text: "hi"}}}
		p := &mock.Provider{
			GenerateFn: func(_ context.Context, _ citydesk.Request) (citydesk.AssistantMessage, error) {
				return want, nil
			},
		}

		got, err := p.Generate(context.Background(), citydesk.Request{Model: "m"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		require.Len(t, p.Requests, 1)
		assert.Equal(t, "m", p.Requests[0].Model)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		p := &mock.Provider{
			GenerateFn: func(_ context.Context, _ citydesk.Request) (citydesk.AssistantMessage, error) {
				return citydesk.AssistantMessage{}, wantErr
			},
		}
		_, err := p.Generate(context.Background(), citydesk.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when GenerateFn not set", func(t *testing.T) {
		t.Parallel()
		p := &mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Generate(context.Background(), citydesk.Request{})
		})
	})
}

func TestScript(t *testing.T) {
	t.Parallel()

	first := citydesk.AssistantMessage{Content: []citydesk.ContentBlock{citydesk.TextBlock{Text: "one"}}}
	second := citydesk.AssistantMessage{Content: []citydesk.ContentBlock{citydesk.TextBlock{Text: "two"}}}
	p := mock.Script(first, second)

	got, err := p.Generate(context.Background(), citydesk.Request{})
	require.NoError(t, err)
	assert.Equal(t, "one", got.Text())

	got, err = p.Generate(context.Background(), citydesk.Request{})
	require.NoError(t, err)
	assert.Equal(t, "two", got.Text())

	assert.Panics(t, func() {
		_, _ = p.Generate(context.Background(), citydesk.Request{})
	})
}
