package rephrase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FilippTrigub/showNDev/pkg/llm"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

// fakeStream yields the given chunks then EOF.
type fakeStream struct {
	chunks []string
	err    error
	pos    int
}

func (f *fakeStream) Recv() (llm.Chunk, error) {
	if f.pos < len(f.chunks) {
		chunk := llm.Chunk{Content: f.chunks[f.pos]}
		f.pos++
		return chunk, nil
	}
	if f.err != nil {
		return llm.Chunk{}, f.err
	}
	return llm.Chunk{}, io.EOF
}

func (f *fakeStream) Close() error { return nil }

type fakeProvider struct {
	stream     llm.Stream
	err        error
	lastPrompt string
}

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message, _ []llm.Tool) (llm.Stream, error) {
	for _, m := range messages {
		if m.Role == "user" {
			f.lastPrompt = m.Content
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func TestService_Rephrase_CollectsStream(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{chunks: []string{"Release ", "v2 is ", "live!"}}}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	out, err := svc.Rephrase(context.Background(), "v2 released", 0.5)
	if err != nil {
		t.Fatalf("Rephrase returned error: %v", err)
	}
	if out != "Release v2 is live!" {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(provider.lastPrompt, "0.50") {
		t.Fatalf("expected tone interpolated into prompt, got %q", provider.lastPrompt)
	}
	if !strings.Contains(provider.lastPrompt, "v2 released") {
		t.Fatalf("expected original text in prompt, got %q", provider.lastPrompt)
	}
}

func TestService_Rephrase_ClampsTone(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{chunks: []string{"ok"}}}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	if _, err := svc.Rephrase(context.Background(), "text", 7.0); err != nil {
		t.Fatalf("Rephrase returned error: %v", err)
	}
	if !strings.Contains(provider.lastPrompt, "1.00") {
		t.Fatalf("expected tone clamped to 1.00, got %q", provider.lastPrompt)
	}
}

func TestService_Rephrase_TimeoutClassified(t *testing.T) {
	provider := &fakeProvider{err: context.DeadlineExceeded}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	_, err := svc.Rephrase(context.Background(), "text", 0.2)
	if !errors.Is(err, ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
}

func TestService_Rephrase_FailureClassifiedUnavailable(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("connection refused")}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	_, err := svc.Rephrase(context.Background(), "text", 0.2)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestService_Rephrase_MidStreamErrorClassified(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{
		chunks: []string{"partial "},
		err:    fmt.Errorf("stream reset"),
	}}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	_, err := svc.Rephrase(context.Background(), "text", 0.2)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable on mid-stream failure, got %v", err)
	}
}

func TestService_Rephrase_EmptyResultIsUnavailable(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{chunks: []string{"  "}}}
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	_, err := svc.Rephrase(context.Background(), "text", 0.2)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for empty output, got %v", err)
	}
}

func TestService_Rephrase_AgainstOpenAIStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"Shipped "}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"it."}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	provider := llm.NewOpenAIProvider(llm.Config{
		Model:  "gpt-test",
		APIKey: "key",
		APIURL: server.URL,
	})
	svc := NewService(provider, logging.NewLoggerWithService("test"))

	out, err := svc.Rephrase(context.Background(), "we shipped", 0.9)
	if err != nil {
		t.Fatalf("Rephrase returned error: %v", err)
	}
	if out != "Shipped it." {
		t.Fatalf("unexpected output %q", out)
	}
}
