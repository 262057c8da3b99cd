package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/pkg/clients/twitter"
)

// TwitterAdapter publishes tweets via the v2 API.
type TwitterAdapter struct {
	client *twitter.Client
}

func NewTwitterAdapter(client *twitter.Client) *TwitterAdapter {
	return &TwitterAdapter{client: client}
}

func (a *TwitterAdapter) Platform() content.Platform {
	return content.PlatformTwitter
}

func (a *TwitterAdapter) Publish(ctx context.Context, req Request) (*Receipt, error) {
	if err := validateLength(content.PlatformTwitter, req.Text, TwitterMaxChars); err != nil {
		return nil, err
	}

	tweet, err := a.client.PostTweet(ctx, req.Text)
	if err != nil {
		return nil, classifyTwitterError(err)
	}

	return &Receipt{
		ExternalID:  tweet.ID,
		ExternalURL: fmt.Sprintf("https://twitter.com/status/%s", tweet.ID),
	}, nil
}

func classifyTwitterError(err error) *Error {
	var apiErr *twitter.APIError
	if !errors.As(err, &apiErr) {
		return newError(content.PlatformTwitter, KindTransport, err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return newError(content.PlatformTwitter, KindAuth, err)
	case http.StatusForbidden:
		// Duplicate content and other platform business rules.
		return newError(content.PlatformTwitter, KindPlatformRejected, err)
	case http.StatusTooManyRequests:
		return newError(content.PlatformTwitter, KindRateLimited, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return newError(content.PlatformTwitter, KindValidation, err)
	default:
		return newError(content.PlatformTwitter, KindTransport, err)
	}
}
