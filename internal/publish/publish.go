package publish

import (
	"context"
	"fmt"

	"github.com/FilippTrigub/showNDev/internal/content"
)

// Character limits enforced before any network call.
const (
	TwitterMaxChars  = 280
	BlueskyMaxChars  = 300
	LinkedInMaxChars = 3000
)

// Request carries the text and media references to publish.
type Request struct {
	Text   string
	Images []string
	Videos []string
	Audio  []string
}

// Receipt is the normalized result of a successful publish. Which
// fields are set depends on the platform.
type Receipt struct {
	ExternalID  string
	ExternalURL string
	ExternalURI string
	ExternalCID string
}

// Adapter publishes to one platform.
type Adapter interface {
	Platform() content.Platform
	Publish(ctx context.Context, req Request) (*Receipt, error)
}

// ErrorKind classifies publish failures for the HTTP boundary.
type ErrorKind string

const (
	KindAuth             ErrorKind = "auth_error"
	KindRateLimited      ErrorKind = "rate_limited"
	KindValidation       ErrorKind = "validation_error"
	KindTransport        ErrorKind = "transport_error"
	KindPlatformRejected ErrorKind = "platform_rejected"
)

// Error is a classified publish failure.
type Error struct {
	Kind     ErrorKind
	Platform content.Platform
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s publish %s: %v", e.Platform, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s publish %s", e.Platform, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(platform content.Platform, kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Platform: platform, Err: err}
}

// validateLength rejects text over the platform limit before touching
// the network.
func validateLength(platform content.Platform, text string, limit int) *Error {
	if n := len([]rune(text)); n > limit {
		return newError(platform, KindValidation,
			fmt.Errorf("content is %d characters, limit is %d", n, limit))
	}
	return nil
}
