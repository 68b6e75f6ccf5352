package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"building-registry/internal/lookup"
)

// GetLookups returns the fixed location, type and category value sets.
func (h *Handler) GetLookups(c *gin.Context) {
	c.JSON(http.StatusOK, lookup.All())
}

// Healthz reports the storage readiness. Anything but ready is a 503.
func (h *Handler) Healthz(c *gin.Context) {
	status := h.db.Status()
	code := http.StatusOK
	if status != "ready" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}
