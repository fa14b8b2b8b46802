package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/citydesk/citydesk"
	"github.com/citydesk/citydesk/config"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ citydesk.Provider = (*Client)(nil)

// Client implements [citydesk.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the default model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a Gemini [Client] from resolved credentials. The credentials
// decide the backend: API-key mode talks to the Gemini API, Vertex mode
// talks to Vertex AI.
func New(ctx context.Context, creds config.Credentials, opts ...Option) (*Client, error) {
	cc, err := creds.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Generate sends a unary request to the Gemini API and returns the
// assembled assistant message.
func (c *Client) Generate(ctx context.Context, req citydesk.Request) (citydesk.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return citydesk.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	contents := ConvertMessages(req.Messages)
	cfg := buildConfig(req)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return citydesk.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	msg, err := ConvertResponse(resp)
	if err != nil {
		return citydesk.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	msg.Timestamp = time.Now()
	return msg, nil
}

func buildConfig(req citydesk.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Tools:           ConvertTools(req.Tools),
	}

	if req.Instruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instruction}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		cfg.Temperature = &temp
	}

	return cfg
}
