package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/citydesk/citydesk"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// ConvertMessages converts citydesk Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []citydesk.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case citydesk.UserMessage:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: convertBlocks(m.Content),
			})
		case citydesk.AssistantMessage:
			result = append(result, &genai.Content{
				Role:  "model",
				Parts: convertBlocks(m.Content),
			})
		case citydesk.ToolResultMessage:
			result = append(result, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       m.ToolCallID,
						Name:     m.ToolName,
						Response: m.Result.Response(),
					},
				}},
			})
		}
	}
	return result
}

func convertBlocks(blocks []citydesk.ContentBlock) []*genai.Part {
	var parts []*genai.Part
	for _, b := range blocks {
		switch bl := b.(type) {
		case citydesk.TextBlock:
			parts = append(parts, &genai.Part{Text: bl.Text})
		case citydesk.ToolCallBlock:
			// Arguments is json.RawMessage — always valid JSON from domain types.
			var args map[string]any
			_ = json.Unmarshal(bl.Arguments, &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   bl.ID,
					Name: bl.Name,
					Args: args,
				},
			})
		}
	}
	return parts
}

// ConvertTools converts tool definitions to genai Tools.
// Exported for testing.
func ConvertTools(defs []citydesk.Definition) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(defs))
	for i, d := range defs {
		// Parameters is json.RawMessage — always valid JSON from domain types.
		var schema map[string]any
		_ = json.Unmarshal(d.Parameters, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 d.Name,
			Description:          d.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ConvertResponse converts a genai response to an AssistantMessage.
// Function calls arriving without an ID get a generated one so tool results
// can be correlated on the way back. Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) (citydesk.AssistantMessage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return citydesk.AssistantMessage{}, fmt.Errorf("empty response")
	}
	cand := resp.Candidates[0]

	var msg citydesk.AssistantMessage
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.NewString()
				}
				args, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					return citydesk.AssistantMessage{}, fmt.Errorf("marshal args for %s: %w", part.FunctionCall.Name, err)
				}
				msg.Content = append(msg.Content, citydesk.ToolCallBlock{
					ID:        id,
					Name:      part.FunctionCall.Name,
					Arguments: args,
				})
			case part.Text != "":
				msg.Content = append(msg.Content, citydesk.TextBlock{Text: part.Text})
			}
		}
	}

	msg.RawStopReason = string(cand.FinishReason)
	msg.StopReason = mapFinishReason(cand.FinishReason, len(msg.ToolCalls()) > 0)

	if resp.UsageMetadata != nil {
		msg.Usage = citydesk.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return msg, nil
}

func mapFinishReason(reason genai.FinishReason, hasToolCalls bool) citydesk.StopReason {
	switch reason {
	case genai.FinishReasonStop:
		if hasToolCalls {
			return citydesk.StopToolUse
		}
		return citydesk.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return citydesk.StopLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return citydesk.StopError
	default:
		return citydesk.StopUnknown
	}
}
