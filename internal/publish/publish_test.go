package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/pkg/clients/twitter"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

// memCreds is an in-memory credential store for tests.
type memCreds map[string]string

func (m memCreds) Get(_ context.Context, name string) (string, error) { return m[name], nil }
func (m memCreds) Set(_ context.Context, name, value string) error    { m[name] = value; return nil }
func (m memCreds) Delete(_ context.Context, name string) error        { delete(m, name); return nil }
func (m memCreds) DeleteAll(_ context.Context) error                  { return nil }
func (m memCreds) Status(_ context.Context) (map[string]bool, error)  { return nil, nil }

func testRegistry(creds memCreds, interval time.Duration) *Registry {
	return NewRegistry(creds, NewThrottle(interval), logging.NewLoggerWithService("test"))
}

func TestTwitterAdapter_RejectsOverlongText(t *testing.T) {
	adapter := NewTwitterAdapter(nil)
	_, err := adapter.Publish(context.Background(), Request{
		Text: strings.Repeat("a", TwitterMaxChars+1),
	})

	var pubErr *Error
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pubErr.Kind != KindValidation {
		t.Fatalf("expected validation_error, got %s", pubErr.Kind)
	}
}

func TestTwitterAdapter_PublishReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "777", "text": "hi"},
		})
	}))
	defer server.Close()

	adapter := NewTwitterAdapter(twitter.NewClient(twitter.Config{
		BaseURL: server.URL,
		APIKey:  "k", APISecret: "s", AccessToken: "t", AccessTokenSecret: "ts",
	}))

	receipt, err := adapter.Publish(context.Background(), Request{Text: "hi"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if receipt.ExternalID != "777" {
		t.Fatalf("expected external id 777, got %q", receipt.ExternalID)
	}
	if receipt.ExternalURL != "https://twitter.com/status/777" {
		t.Fatalf("unexpected external url %q", receipt.ExternalURL)
	}
}

func TestTwitterAdapter_ClassifiesDuplicateAsPlatformRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "duplicate content"})
	}))
	defer server.Close()

	adapter := NewTwitterAdapter(twitter.NewClient(twitter.Config{
		BaseURL: server.URL,
		APIKey:  "k", APISecret: "s", AccessToken: "t", AccessTokenSecret: "ts",
	}))

	_, err := adapter.Publish(context.Background(), Request{Text: "hi"})
	var pubErr *Error
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pubErr.Kind != KindPlatformRejected {
		t.Fatalf("expected platform_rejected, got %s", pubErr.Kind)
	}
}

func TestRegistry_UnsupportedPlatform(t *testing.T) {
	registry := testRegistry(memCreds{}, 0)

	_, err := registry.Publish(context.Background(), content.PlatformTikTok, Request{Text: "hi"})
	var pubErr *Error
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pubErr.Kind != KindValidation {
		t.Fatalf("expected validation_error for tiktok, got %s", pubErr.Kind)
	}
}

func TestRegistry_MissingCredentialsIsAuthError(t *testing.T) {
	registry := testRegistry(memCreds{"twitter_api_key": "only-one"}, 0)

	_, err := registry.Publish(context.Background(), content.PlatformTwitter, Request{Text: "hi"})
	var pubErr *Error
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pubErr.Kind != KindAuth {
		t.Fatalf("expected auth_error, got %s", pubErr.Kind)
	}
}

type stubAdapter struct {
	platform content.Platform
	receipt  *Receipt
	err      error
	calls    int
}

func (s *stubAdapter) Platform() content.Platform { return s.platform }
func (s *stubAdapter) Publish(_ context.Context, _ Request) (*Receipt, error) {
	s.calls++
	return s.receipt, s.err
}

func TestRegistry_ThrottleDeniesSecondImmediatePublish(t *testing.T) {
	registry := testRegistry(memCreds{}, time.Second)
	stub := &stubAdapter{
		platform: content.PlatformTwitter,
		receipt:  &Receipt{ExternalID: "1"},
	}
	registry.Register(stub)

	if _, err := registry.Publish(context.Background(), content.PlatformTwitter, Request{Text: "a"}); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	_, err := registry.Publish(context.Background(), content.PlatformTwitter, Request{Text: "b"})
	var pubErr *Error
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pubErr.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited, got %s", pubErr.Kind)
	}
	if stub.calls != 1 {
		t.Fatalf("expected denied publish to skip the adapter, got %d calls", stub.calls)
	}
}

func TestRegistry_ThrottleIsPerPlatform(t *testing.T) {
	registry := testRegistry(memCreds{}, time.Second)
	tw := &stubAdapter{platform: content.PlatformTwitter, receipt: &Receipt{ExternalID: "1"}}
	bs := &stubAdapter{platform: content.PlatformBluesky, receipt: &Receipt{ExternalURI: "at://x"}}
	registry.Register(tw)
	registry.Register(bs)

	if _, err := registry.Publish(context.Background(), content.PlatformTwitter, Request{Text: "a"}); err != nil {
		t.Fatalf("twitter publish failed: %v", err)
	}
	if _, err := registry.Publish(context.Background(), content.PlatformBluesky, Request{Text: "b"}); err != nil {
		t.Fatalf("bluesky publish should not share twitter's throttle: %v", err)
	}
}

func TestValidateLength_CountsRunes(t *testing.T) {
	// 280 multibyte runes are within the limit.
	text := strings.Repeat("é", TwitterMaxChars)
	if err := validateLength(content.PlatformTwitter, text, TwitterMaxChars); err != nil {
		t.Fatalf("expected rune-counted text to pass, got %v", err)
	}
}
