package lifecycle

import (
	"context"
	"fmt"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/internal/publish"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

// Rephraser rewrites post text at a tone in [0,1].
type Rephraser interface {
	Rephrase(ctx context.Context, text string, tone float64) (string, error)
}

// Controller drives the review state machine. Every transition
// re-reads the item and applies the change through a revision-guarded
// conditional update, so a concurrent mutation surfaces as
// content.ErrConflict instead of a lost update.
type Controller struct {
	store     content.Store
	publisher publish.Publisher
	rephraser Rephraser
	logger    logging.Logger
}

func NewController(store content.Store, publisher publish.Publisher, rephraser Rephraser, logger logging.Logger) *Controller {
	return &Controller{
		store:     store,
		publisher: publisher,
		rephraser: rephraser,
		logger:    logger,
	}
}

// Edit replaces the item text. Allowed only while the item is pending
// or rephrased; the status is preserved.
func (c *Controller) Edit(ctx context.Context, id, text string) (content.Item, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		return content.Item{}, err
	}
	if !item.Status.Editable() {
		return content.Item{}, content.ErrConflict
	}

	return c.store.UpdateText(ctx, id, item.Revision, text, item.Status)
}

// Rephrase rewrites the item text at the given tone and flips
// pending to rephrased. On a provider failure the stored content is
// untouched and the error surfaces to the caller.
func (c *Controller) Rephrase(ctx context.Context, id string, tone float64) (content.Item, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		return content.Item{}, err
	}
	if !item.Status.Editable() {
		return content.Item{}, content.ErrConflict
	}

	rewritten, err := c.rephraser.Rephrase(ctx, item.Content, tone)
	if err != nil {
		c.logger.WithError(err).WithField("content_id", id).Warn("Rephrase failed, content unchanged")
		return content.Item{}, err
	}

	return c.store.UpdateText(ctx, id, item.Revision, rewritten, content.StatusRephrased)
}

// Approve publishes the item and stamps the receipt. The publish call
// happens exactly once per invocation; MarkPublished is guarded by the
// pre-call revision, so if anything mutated the item while the adapter
// ran, the result is ErrConflict rather than a double stamp. A retry
// after a lost success response can still re-post on the platform
// side; that risk is accepted rather than hidden behind a retry loop.
func (c *Controller) Approve(ctx context.Context, id string) (content.Item, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		return content.Item{}, err
	}
	if !item.Status.Editable() {
		return content.Item{}, content.ErrConflict
	}

	receipt, err := c.publisher.Publish(ctx, item.Platform, publish.Request{
		Text:   item.Content,
		Images: item.ImageContent,
		Videos: item.VideoContent,
		Audio:  item.AudioContent,
	})
	if err != nil {
		return content.Item{}, err
	}

	published, err := c.store.MarkPublished(ctx, id, item.Revision, content.Receipt{
		ExternalID:  receipt.ExternalID,
		ExternalURL: receipt.ExternalURL,
		ExternalURI: receipt.ExternalURI,
		ExternalCID: receipt.ExternalCID,
	})
	if err != nil {
		return content.Item{}, fmt.Errorf("published to %s but failed to record receipt: %w", item.Platform, err)
	}

	c.logger.WithFields(logging.Fields{
		"content_id": id,
		"platform":   string(item.Platform),
	}).Info("Content approved and published")
	return published, nil
}

// Reject flips the item to rejected. Rejecting an already-terminal
// item returns ErrConflict.
func (c *Controller) Reject(ctx context.Context, id string) (content.Item, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		return content.Item{}, err
	}
	if item.Status.Terminal() {
		return content.Item{}, content.ErrConflict
	}

	return c.store.UpdateStatus(ctx, id, item.Revision, content.StatusRejected)
}
