package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/core"
)

const defaultDiagnosticText = "testing data"

// DebugHandlers exposes manual verification hooks for dashboard developers.
type DebugHandlers struct {
	relay *core.Relay
	room  string
	log   *zerolog.Logger
}

// NewDebugHandlers creates debug handlers targeting room. An empty room
// disables them.
func NewDebugHandlers(relay *core.Relay, room string, logger *zerolog.Logger) *DebugHandlers {
	return &DebugHandlers{relay: relay, room: room, log: logger}
}

type diagnosticRequest struct {
	Data string `json:"data"`
}

// DiagnosticResponse reports how many clients received the test event.
type DiagnosticResponse struct {
	Room      string `json:"room"`
	Delivered int    `json:"delivered"`
}

// EmitTest sends a "test" event to the diagnostic room.
// POST /debug/test
func (h *DebugHandlers) EmitTest(c *gin.Context) {
	if h.room == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "diagnostic room not configured"})
		return
	}

	text := defaultDiagnosticText
	var req diagnosticRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Data != "" {
		text = req.Data
	}

	delivered := h.relay.Diagnostic(h.room, text)
	h.log.Debug().Str("room", h.room).Int("delivered", delivered).Msg("diagnostic event sent")
	c.JSON(http.StatusOK, DiagnosticResponse{Room: h.room, Delivered: delivered})
}
