// Package jsonstore persists sessions as JSON files. The sealed Message and
// ContentBlock interfaces are encoded through typed DTOs with a type
// discriminator.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/citydesk/citydesk"
)

// fileEnvelope is the v1 wire format for a persisted session.
type fileEnvelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a Message with a type discriminator.
type messageDTO struct {
	Type          string             `json:"type"`
	Content       []contentBlockDTO  `json:"content,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	StopReason    *string            `json:"stop_reason,omitempty"`
	RawStopReason *string            `json:"raw_stop_reason,omitempty"`
	Usage         *usageDTO          `json:"usage,omitempty"`
	ToolCallID    *string            `json:"tool_call_id,omitempty"`
	ToolName      *string            `json:"tool_name,omitempty"`
	Result        *citydesk.Envelope `json:"result,omitempty"`
}

// contentBlockDTO is the JSON representation of a ContentBlock with a type
// discriminator.
type contentBlockDTO struct {
	Type      string           `json:"type"`
	Text      *string          `json:"text,omitempty"`
	ID        *string          `json:"id,omitempty"`
	Name      *string          `json:"name,omitempty"`
	Arguments *json.RawMessage `json:"arguments,omitempty"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MarshalSession serializes a Session to JSON in v1 format.
func MarshalSession(s citydesk.Session) ([]byte, error) {
	env := fileEnvelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 format.
func UnmarshalSession(data []byte) (citydesk.Session, error) {
	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return citydesk.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if env.Version != 1 {
		return citydesk.Session{}, fmt.Errorf("unsupported session version: %d", env.Version)
	}
	msgs := make([]citydesk.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return citydesk.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = msg
	}
	return citydesk.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

func marshalMessage(msg citydesk.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case citydesk.UserMessage:
		blocks, err := marshalBlocks(m.Content)
		if err != nil {
			return messageDTO{}, err
		}
		return messageDTO{Type: "user", Content: blocks, Timestamp: m.Timestamp}, nil
	case citydesk.AssistantMessage:
		blocks, err := marshalBlocks(m.Content)
		if err != nil {
			return messageDTO{}, err
		}
		stop := string(m.StopReason)
		raw := m.RawStopReason
		usage := usageDTO{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens}
		return messageDTO{
			Type:          "assistant",
			Content:       blocks,
			Timestamp:     m.Timestamp,
			StopReason:    &stop,
			RawStopReason: &raw,
			Usage:         &usage,
		}, nil
	case citydesk.ToolResultMessage:
		result := m.Result
		return messageDTO{
			Type:       "tool_result",
			Timestamp:  m.Timestamp,
			ToolCallID: &m.ToolCallID,
			ToolName:   &m.ToolName,
			Result:     &result,
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (citydesk.Message, error) {
	switch dto.Type {
	case "user":
		blocks, err := unmarshalBlocks(dto.Content)
		if err != nil {
			return nil, err
		}
		return citydesk.UserMessage{Content: blocks, Timestamp: dto.Timestamp}, nil
	case "assistant":
		blocks, err := unmarshalBlocks(dto.Content)
		if err != nil {
			return nil, err
		}
		m := citydesk.AssistantMessage{Content: blocks, Timestamp: dto.Timestamp}
		if dto.StopReason != nil {
			m.StopReason = citydesk.StopReason(*dto.StopReason)
		}
		if dto.RawStopReason != nil {
			m.RawStopReason = *dto.RawStopReason
		}
		if dto.Usage != nil {
			m.Usage = citydesk.Usage{InputTokens: dto.Usage.InputTokens, OutputTokens: dto.Usage.OutputTokens}
		}
		return m, nil
	case "tool_result":
		m := citydesk.ToolResultMessage{Timestamp: dto.Timestamp}
		if dto.ToolCallID != nil {
			m.ToolCallID = *dto.ToolCallID
		}
		if dto.ToolName != nil {
			m.ToolName = *dto.ToolName
		}
		if dto.Result == nil {
			return nil, fmt.Errorf("tool_result message missing result")
		}
		m.Result = *dto.Result
		return m, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", dto.Type)
	}
}

func marshalBlocks(blocks []citydesk.ContentBlock) ([]contentBlockDTO, error) {
	dtos := make([]contentBlockDTO, len(blocks))
	for i, b := range blocks {
		switch bl := b.(type) {
		case citydesk.TextBlock:
			text := bl.Text
			dtos[i] = contentBlockDTO{Type: "text", Text: &text}
		case citydesk.ToolCallBlock:
			id, name := bl.ID, bl.Name
			args := bl.Arguments
			dtos[i] = contentBlockDTO{Type: "tool_call", ID: &id, Name: &name, Arguments: &args}
		default:
			return nil, fmt.Errorf("unknown content block type %T", b)
		}
	}
	return dtos, nil
}

func unmarshalBlocks(dtos []contentBlockDTO) ([]citydesk.ContentBlock, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	blocks := make([]citydesk.ContentBlock, len(dtos))
	for i, dto := range dtos {
		switch dto.Type {
		case "text":
			var text string
			if dto.Text != nil {
				text = *dto.Text
			}
			blocks[i] = citydesk.TextBlock{Text: text}
		case "tool_call":
			b := citydesk.ToolCallBlock{}
			if dto.ID != nil {
				b.ID = *dto.ID
			}
			if dto.Name != nil {
				b.Name = *dto.Name
			}
			if dto.Arguments != nil {
				b.Arguments = *dto.Arguments
			}
			blocks[i] = b
		default:
			return nil, fmt.Errorf("unknown content block type %q", dto.Type)
		}
	}
	return blocks, nil
}
