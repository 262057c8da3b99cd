// Package llm speaks the streaming chat-completion wire protocols of
// OpenAI-compatible servers and Anthropic directly over HTTP.
package llm

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Provider streams a chat completion for the given conversation.
type Provider interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (Stream, error)
}

// Stream yields completion chunks until io.EOF. Callers must Close it.
type Stream interface {
	Recv() (Chunk, error)
	Close() error
}

// Chunk is one streamed delta. Either Content or ToolCalls is set.
type Chunk struct {
	Content   string
	ToolCalls []ToolCall
}

// Message is a single conversation turn in provider-neutral form.
type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Name       string `json:"name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Tool describes a function the model may call.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall is a model-requested function invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// eventStream adapts a server-sent-events response body into a Stream.
// The decode function translates one event payload into a Chunk.
type eventStream struct {
	resp   *http.Response
	reader *bufio.Reader
	decode func([]byte) (Chunk, error)
}

func newSSEStream(resp *http.Response, decode func([]byte) (Chunk, error)) Stream {
	return &eventStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
		decode: decode,
	}
}

func (s *eventStream) Close() error {
	return s.resp.Body.Close()
}

func (s *eventStream) Recv() (Chunk, error) {
	for {
		payload, err := s.nextEvent()
		if err != nil {
			return Chunk{}, err
		}
		trimmed := strings.TrimSpace(string(payload))
		if trimmed == "" {
			continue
		}
		if trimmed == "[DONE]" {
			return Chunk{}, io.EOF
		}
		chunk, err := s.decode(payload)
		if err != nil {
			return Chunk{}, err
		}
		// Skip keepalive and metadata-only events.
		if chunk.Content == "" && len(chunk.ToolCalls) == 0 {
			continue
		}
		return chunk, nil
	}
}

// nextEvent reads one SSE event, joining multi-line data fields.
func (s *eventStream) nextEvent() ([]byte, error) {
	var data []string
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if len(data) > 0 {
				return []byte(strings.Join(data, "\n")), nil
			}
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			continue
		}
		if strings.HasPrefix(line, "data:") {
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
		if errors.Is(err, io.EOF) {
			if len(data) > 0 {
				return []byte(strings.Join(data, "\n")), nil
			}
			return nil, io.EOF
		}
	}
}
