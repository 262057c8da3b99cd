package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FilippTrigub/showNDev/internal/credentials"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

type SocialEnvHandler struct {
	store  CredentialStore
	logger logging.Logger
}

func NewSocialEnvHandler(store CredentialStore, logger logging.Logger) *SocialEnvHandler {
	return &SocialEnvHandler{store: store, logger: logger}
}

// Status handles GET /api/social-env/status. Values never leave the
// backend, only configured-or-not booleans.
func (h *SocialEnvHandler) Status(c *gin.Context) {
	status, err := h.store.Status(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to read credential status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read credential status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Upsert handles POST /api/social-env. The body is a map of field name
// to value; an empty string clears the field. Unknown fields are
// rejected so typos do not silently create dead entries.
func (h *SocialEnvHandler) Upsert(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields provided"})
		return
	}

	for name := range req {
		if !credentials.KnownField(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown credential field " + name})
			return
		}
	}

	ctx := c.Request.Context()
	for name, value := range req {
		var err error
		if value == "" {
			err = h.store.Delete(ctx, name)
		} else {
			err = h.store.Set(ctx, name, value)
		}
		if err != nil {
			h.logger.WithError(err).WithField("field", name).Error("Failed to persist credential")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist credentials"})
			return
		}
	}

	status, err := h.store.Status(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to refresh credential status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read credential status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Clear handles DELETE /api/social-env.
func (h *SocialEnvHandler) Clear(c *gin.Context) {
	if err := h.store.DeleteAll(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear credentials")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
