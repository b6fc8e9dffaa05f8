package handlers

import (
	"github.com/gin-gonic/gin"

	"crmdash/internal/realtime"
)

type BoardFeedHandler struct {
	Hub *realtime.Hub
}

func NewBoardFeedHandler(hub *realtime.Hub) *BoardFeedHandler {
	return &BoardFeedHandler{Hub: hub}
}

// Serve upgrades to a websocket that streams pipeline events.
func (h *BoardFeedHandler) Serve(c *gin.Context) {
	if err := h.Hub.ServeWS(c.Writer, c.Request); err != nil {
		_ = c.Error(err)
	}
}
