package rephrase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/FilippTrigub/showNDev/pkg/llm"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

const rephraseTimeout = 30 * time.Second

var (
	// ErrProviderTimeout is returned when the LLM call exceeds its deadline.
	ErrProviderTimeout = errors.New("rephrase provider timed out")

	// ErrProviderUnavailable is returned for any other provider failure.
	ErrProviderUnavailable = errors.New("rephrase provider unavailable")
)

const systemPrompt = `You rewrite social media posts without changing their meaning.
Keep the key facts, links, and mentions from the original.
Stay within the original post's approximate length.
Respond with ONLY the rewritten post text, nothing else.`

// Service rewrites post text at a requested tone.
type Service struct {
	llm    llm.Provider
	logger logging.Logger
}

func NewService(provider llm.Provider, logger logging.Logger) *Service {
	return &Service{llm: provider, logger: logger}
}

// Rephrase rewrites text at tone in [0,1], 0 strictly formal and
// 1 fully casual. On failure the caller keeps the previous content.
func (s *Service) Rephrase(ctx context.Context, text string, tone float64) (string, error) {
	if s.llm == nil {
		return "", ErrProviderUnavailable
	}
	if tone < 0 {
		tone = 0
	}
	if tone > 1 {
		tone = 1
	}

	ctx, cancel := context.WithTimeout(ctx, rephraseTimeout)
	defer cancel()

	stream, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(text, tone)},
	}, nil)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer stream.Close()

	var out strings.Builder
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", classify(ctx, recvErr)
		}
		out.WriteString(chunk.Content)
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", ErrProviderUnavailable
	}

	s.logger.WithFields(logging.Fields{
		"tone":       tone,
		"input_len":  len(text),
		"output_len": len(result),
	}).Debug("Rephrased content")
	return result, nil
}

func buildPrompt(text string, tone float64) string {
	return fmt.Sprintf(
		"Rewrite the following post with a tone of %.2f on a scale where 0.00 is strictly formal and 1.00 is fully casual (%s).\n\nPost:\n%s",
		tone, describeTone(tone), text)
}

func describeTone(tone float64) string {
	switch {
	case tone < 0.25:
		return "professional and precise"
	case tone < 0.5:
		return "approachable but polished"
	case tone < 0.75:
		return "friendly and relaxed"
	default:
		return "playful and informal"
	}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
