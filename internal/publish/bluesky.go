package publish

import (
	"context"
	"errors"
	"net/http"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/pkg/clients/bluesky"
)

// BlueskyAdapter publishes app.bsky.feed.post records.
type BlueskyAdapter struct {
	client *bluesky.Client
}

func NewBlueskyAdapter(client *bluesky.Client) *BlueskyAdapter {
	return &BlueskyAdapter{client: client}
}

func (a *BlueskyAdapter) Platform() content.Platform {
	return content.PlatformBluesky
}

func (a *BlueskyAdapter) Publish(ctx context.Context, req Request) (*Receipt, error) {
	if err := validateLength(content.PlatformBluesky, req.Text, BlueskyMaxChars); err != nil {
		return nil, err
	}

	record, err := a.client.CreatePost(ctx, req.Text)
	if err != nil {
		return nil, classifyBlueskyError(err)
	}

	return &Receipt{
		ExternalURI: record.URI,
		ExternalCID: record.CID,
	}, nil
}

func classifyBlueskyError(err error) *Error {
	var apiErr *bluesky.APIError
	if !errors.As(err, &apiErr) {
		return newError(content.PlatformBluesky, KindTransport, err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return newError(content.PlatformBluesky, KindAuth, err)
	case http.StatusTooManyRequests:
		return newError(content.PlatformBluesky, KindRateLimited, err)
	case http.StatusBadRequest:
		return newError(content.PlatformBluesky, KindValidation, err)
	default:
		return newError(content.PlatformBluesky, KindTransport, err)
	}
}
