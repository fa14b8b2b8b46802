package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/citydesk/citydesk"
	"github.com/citydesk/citydesk/agent"
	"github.com/citydesk/citydesk/mock"
	"github.com/citydesk/citydesk/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCityAgent(t *testing.T) *citydesk.Agent {
	t.Helper()
	registry, err := citydesk.NewRegistry(toolkit.All()...)
	require.NoError(t, err)
	a, err := citydesk.NewAgent(citydesk.AgentConfig{
		Name:        "city_desk_agent",
		Model:       "gemini-3.1-pro-preview",
		Instruction: "Answer questions about the time and weather in a city using get_weather and get_current_time.",
		Registry:    registry,
	})
	require.NoError(t, err)
	return a
}

func userMessage(text string) citydesk.UserMessage {
	return citydesk.UserMessage{
		Content:   []citydesk.ContentBlock{citydesk.TextBlock{Text: text}},
		Timestamp: time.Now(),
	}
}

func toolCallReply(id, name, args string) citydesk.AssistantMessage {
	return citydesk.AssistantMessage{
		Content: []citydesk.ContentBlock{
			citydesk.ToolCallBlock{ID: id, Name: name, Arguments: json.RawMessage(args)},
		},
		StopReason: citydesk.StopToolUse,
	}
}

func textReply(text string) citydesk.AssistantMessage {
	return citydesk.AssistantMessage{
		Content:    []citydesk.ContentBlock{citydesk.TextBlock{Text: text}},
		StopReason: citydesk.StopEndTurn,
	}
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()

	t.Run("text response ends turn", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(textReply("Hello! Ask me about New York."))
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("Hi")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		require.NoError(t, err)

		require.Len(t, session.Messages, 2)
		reply, ok := session.Messages[1].(citydesk.AssistantMessage)
		require.True(t, ok)
		assert.Equal(t, "Hello! Ask me about New York.", reply.Text())
	})

	t.Run("weather question dispatches get_weather", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(
			toolCallReply("call-1", "get_weather", `{"city":"New York"}`),
			textReply("It is sunny in New York, 25 degrees Celsius."),
		)
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("What's the weather in New York?")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		require.NoError(t, err)

		// user, tool-call reply, tool result, final reply
		require.Len(t, session.Messages, 4)

		result, ok := session.Messages[2].(citydesk.ToolResultMessage)
		require.True(t, ok)
		assert.Equal(t, "call-1", result.ToolCallID)
		assert.Equal(t, "get_weather", result.ToolName)
		require.Equal(t, citydesk.StatusSuccess, result.Result.Status())
		assert.Contains(t, result.Result.Report(), "sunny")
		assert.Contains(t, result.Result.Report(), "25 degrees")

		final, ok := session.Messages[3].(citydesk.AssistantMessage)
		require.True(t, ok)
		assert.Contains(t, final.Text(), "sunny")
	})

	t.Run("unsupported city surfaces the tool error verbatim", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(
			toolCallReply("call-1", "get_weather", `{"city":"London"}`),
			textReply("I'm sorry, I only have weather information for New York."),
		)
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("What's the weather in London?")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		require.NoError(t, err)

		result, ok := session.Messages[2].(citydesk.ToolResultMessage)
		require.True(t, ok)
		require.Equal(t, citydesk.StatusError, result.Result.Status())
		assert.Equal(t, "Weather information for 'London' is not available.", result.Result.ErrorMessage())

		// The second request must carry the error envelope back to the model.
		p := provider
		require.Len(t, p.Requests, 2)
	})

	t.Run("unknown tool becomes a refusal result without invoking anything", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(
			toolCallReply("call-1", "get_stock_price", `{"city":"New York"}`),
			textReply("I can only help with time and weather."),
		)
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("What's the AAPL price?")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		require.NoError(t, err)

		result, ok := session.Messages[2].(citydesk.ToolResultMessage)
		require.True(t, ok)
		require.Equal(t, citydesk.StatusError, result.Result.Status())
		assert.Equal(t, "unknown tool: get_stock_price", result.Result.ErrorMessage())

		final, ok := session.Messages[3].(citydesk.AssistantMessage)
		require.True(t, ok)
		assert.Contains(t, final.Text(), "only help")
	})

	t.Run("request carries instruction, tools, and model", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(textReply("ok"))
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("Hi")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		require.NoError(t, err)

		require.Len(t, provider.Requests, 1)
		req := provider.Requests[0]
		assert.Equal(t, "gemini-3.1-pro-preview", req.Model)
		assert.Contains(t, req.Instruction, "time and weather")
		require.Len(t, req.Tools, 2)
		assert.Equal(t, "get_weather", req.Tools[0].Name)
		assert.Equal(t, "get_current_time", req.Tools[1].Name)
	})

	t.Run("model override", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(textReply("ok"))
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("Hi")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session, agent.WithModel("gemini-flash"))
		require.NoError(t, err)
		assert.Equal(t, "gemini-flash", provider.Requests[0].Model)
	})

	t.Run("result observer sees every dispatch", func(t *testing.T) {
		t.Parallel()
		provider := mock.Script(
			toolCallReply("call-1", "get_weather", `{"city":"New York"}`),
			textReply("done"),
		)
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("Weather?")}}

		var seen []string
		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session,
			agent.WithResultObserver(func(name string, env citydesk.Envelope) {
				seen = append(seen, name+":"+string(env.Status()))
			}))
		require.NoError(t, err)
		assert.Equal(t, []string{"get_weather:success"}, seen)
	})

	t.Run("provider error stops the loop", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("transport down")
		provider := &mock.Provider{
			GenerateFn: func(_ context.Context, _ citydesk.Request) (citydesk.AssistantMessage, error) {
				return citydesk.AssistantMessage{}, wantErr
			},
		}
		session := &citydesk.Session{Messages: []citydesk.Message{userMessage("Hi")}}

		err := agent.New(provider, newCityAgent(t)).Run(context.Background(), session)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("cancelled context stops before calling the provider", func(t *testing.T) {
		t.Parallel()
		provider := &mock.Provider{
			GenerateFn: func(_ context.Context, _ citydesk.Request) (citydesk.AssistantMessage, error) {
				t.Fatal("provider should not be called")
				return citydesk.AssistantMessage{}, nil
			},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		session := &citydesk.Session{}
		err := agent.New(provider, newCityAgent(t)).Run(ctx, session)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
