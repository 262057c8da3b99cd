package handlers

import (
	"context"

	"github.com/FilippTrigub/showNDev/internal/content"
)

// Lifecycle is the controller surface the content handlers drive.
type Lifecycle interface {
	Edit(ctx context.Context, id, text string) (content.Item, error)
	Rephrase(ctx context.Context, id string, tone float64) (content.Item, error)
	Approve(ctx context.Context, id string) (content.Item, error)
	Reject(ctx context.Context, id string) (content.Item, error)
}

// ContentReader lists and fetches items for the dashboard views.
type ContentReader interface {
	Get(ctx context.Context, id string) (content.Item, error)
	List(ctx context.Context, f content.Filter) ([]content.Item, error)
}

// CredentialStore is the social-env surface.
type CredentialStore interface {
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
	Status(ctx context.Context) (map[string]bool, error)
}
