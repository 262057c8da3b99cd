package publish

import (
	"context"
	"errors"
	"net/http"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/pkg/clients/linkedin"
)

// LinkedInAdapter publishes UGC posts.
type LinkedInAdapter struct {
	client *linkedin.Client
}

func NewLinkedInAdapter(client *linkedin.Client) *LinkedInAdapter {
	return &LinkedInAdapter{client: client}
}

func (a *LinkedInAdapter) Platform() content.Platform {
	return content.PlatformLinkedIn
}

func (a *LinkedInAdapter) Publish(ctx context.Context, req Request) (*Receipt, error) {
	if err := validateLength(content.PlatformLinkedIn, req.Text, LinkedInMaxChars); err != nil {
		return nil, err
	}

	urn, err := a.client.CreatePost(ctx, req.Text)
	if err != nil {
		return nil, classifyLinkedInError(err)
	}

	return &Receipt{ExternalID: urn}, nil
}

func classifyLinkedInError(err error) *Error {
	var apiErr *linkedin.APIError
	if !errors.As(err, &apiErr) {
		return newError(content.PlatformLinkedIn, KindTransport, err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return newError(content.PlatformLinkedIn, KindAuth, err)
	case http.StatusTooManyRequests:
		return newError(content.PlatformLinkedIn, KindRateLimited, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return newError(content.PlatformLinkedIn, KindValidation, err)
	case http.StatusConflict:
		return newError(content.PlatformLinkedIn, KindPlatformRejected, err)
	default:
		return newError(content.PlatformLinkedIn, KindTransport, err)
	}
}
