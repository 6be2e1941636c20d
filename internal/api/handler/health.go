package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports liveness plus the hub's headline counts.
func (h *Handler) Healthz(c *gin.Context) {
	stats := h.Hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"connected":    stats.Connected,
		"queue_len":    stats.QueueLen,
		"active_rooms": stats.ActiveRooms,
	})
}
