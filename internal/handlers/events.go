package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/internal/utils"
	"github.com/ValterGames-Coder/IDMS/pkg/logger"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

// EventsHandler streams diagram lock changes over Server-Sent Events so
// every open editor sees locks appear and vanish in real time.
type EventsHandler struct {
	hub *services.LockEventHub
}

func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		hub: services.GetLockEventHub(),
	}
}

// StreamLockEvents is the SSE endpoint. EventSource cannot set headers,
// so the token may also arrive as a query parameter.
// GET /api/events/locks?token=xxx
func (h *EventsHandler) StreamLockEvents(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if token == "" {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if _, err := utils.ParseToken(token); err != nil {
		response.Unauthorized(c, "Invalid token")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientID := uuid.New().String()
	events := h.hub.Subscribe(clientID)
	defer h.hub.Unsubscribe(clientID)

	logger.Info().Str("client_id", clientID).Int("total", h.hub.ClientCount()).Msg("Lock event client connected")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error().Err(err).Msg("Lock event marshal error")
				return true
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			c.Writer.Flush()
			return true
		case <-c.Request.Context().Done():
			logger.Info().Str("client_id", clientID).Msg("Lock event client disconnected")
			return false
		}
	})
}
