package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/internal/publish"
	"github.com/FilippTrigub/showNDev/internal/rephrase"
	"github.com/FilippTrigub/showNDev/pkg/logging"
	"github.com/FilippTrigub/showNDev/pkg/middleware"
)

type ContentHandler struct {
	reader    ContentReader
	lifecycle Lifecycle
	logger    logging.Logger
	metrics   *ContentMetrics
}

func NewContentHandler(reader ContentReader, lifecycle Lifecycle, logger logging.Logger, metrics *ContentMetrics) *ContentHandler {
	return &ContentHandler{
		reader:    reader,
		lifecycle: lifecycle,
		logger:    logger,
		metrics:   metrics,
	}
}

// itemResponse is the wire shape of a content item. Status carries the
// UI label, not the canonical enum word.
type itemResponse struct {
	ID           string   `json:"id"`
	Repository   string   `json:"repository"`
	CommitSHA    string   `json:"commit_sha,omitempty"`
	Branch       string   `json:"branch,omitempty"`
	Platform     string   `json:"platform"`
	Content      string   `json:"content"`
	Status       string   `json:"status"`
	ImageContent []string `json:"image_content,omitempty"`
	VideoContent []string `json:"video_content,omitempty"`
	AudioContent []string `json:"audio_content,omitempty"`
	ExternalID   string   `json:"external_id,omitempty"`
	ExternalURL  string   `json:"external_url,omitempty"`
	ExternalURI  string   `json:"external_uri,omitempty"`
	ExternalCID  string   `json:"external_cid,omitempty"`
	Revision     int      `json:"revision"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toResponse(item content.Item) itemResponse {
	return itemResponse{
		ID:           item.ID,
		Repository:   item.Repository,
		CommitSHA:    item.CommitSHA,
		Branch:       item.Branch,
		Platform:     string(item.Platform),
		Content:      item.Content,
		Status:       labelFor(item.Status),
		ImageContent: item.ImageContent,
		VideoContent: item.VideoContent,
		AudioContent: item.AudioContent,
		ExternalID:   item.Receipt.ExternalID,
		ExternalURL:  item.Receipt.ExternalURL,
		ExternalURI:  item.Receipt.ExternalURI,
		ExternalCID:  item.Receipt.ExternalCID,
		Revision:     item.Revision,
		CreatedAt:    item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    item.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List handles GET /api/content with optional repository, branch,
// status and platform filters.
func (h *ContentHandler) List(c *gin.Context) {
	filter := content.Filter{
		Repository: c.Query("repository"),
		Branch:     c.Query("branch"),
	}
	if label := c.Query("status"); label != "" {
		status, ok := statusFor(label)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + label})
			return
		}
		filter.Status = status
	}
	if p := c.Query("platform"); p != "" {
		platform := content.Platform(p)
		if !content.KnownPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform " + p})
			return
		}
		filter.Platform = platform
	}

	items, err := h.reader.List(c.Request.Context(), filter)
	if err != nil {
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to list content")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list content"})
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

// Get handles GET /api/content/:id.
func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.reader.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(item))
}

// Edit handles PATCH /api/content/:id.
func (h *ContentHandler) Edit(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	item, err := h.lifecycle.Edit(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(item))
}

// Rephrase handles POST /api/content/:id/rephrase. Tone arrives as the
// UI slider value 0-100 and maps to 0-1 by plain division.
func (h *ContentHandler) Rephrase(c *gin.Context) {
	var req struct {
		Tone *float64 `json:"tone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tone is required"})
		return
	}
	if *req.Tone < 0 || *req.Tone > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tone must be between 0 and 100"})
		return
	}

	item, err := h.lifecycle.Rephrase(c.Request.Context(), c.Param("id"), *req.Tone/100)
	if err != nil {
		h.metrics.IncRephrase("error")
		h.writeError(c, err)
		return
	}

	h.metrics.IncRephrase("success")
	c.JSON(http.StatusOK, toResponse(item))
}

// Approve handles POST /api/content/:id/approve.
func (h *ContentHandler) Approve(c *gin.Context) {
	item, err := h.lifecycle.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		var pubErr *publish.Error
		if errors.As(err, &pubErr) {
			h.metrics.IncPublish(string(pubErr.Platform), string(pubErr.Kind))
		}
		h.writeError(c, err)
		return
	}

	h.metrics.IncPublish(string(item.Platform), "success")
	c.JSON(http.StatusOK, toResponse(item))
}

// Reject handles POST /api/content/:id/reject.
func (h *ContentHandler) Reject(c *gin.Context) {
	item, err := h.lifecycle.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(item))
}

// writeError maps domain errors onto HTTP statuses. Publish error
// kinds travel verbatim in the body.
func (h *ContentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "content item not found"})
	case errors.Is(err, content.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "operation not allowed in current state"})
	case errors.Is(err, rephrase.ErrProviderTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "rephrase provider timed out"})
	case errors.Is(err, rephrase.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "rephrase provider unavailable"})
	default:
		var pubErr *publish.Error
		if errors.As(err, &pubErr) {
			c.JSON(publishStatus(pubErr.Kind), gin.H{
				"error":      pubErr.Error(),
				"error_kind": string(pubErr.Kind),
				"platform":   string(pubErr.Platform),
			})
			return
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Unhandled content error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func publishStatus(kind publish.ErrorKind) int {
	switch kind {
	case publish.KindRateLimited:
		return http.StatusTooManyRequests
	case publish.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
