package handlers

import (
	"net/http"

	"github.com/Project-Sylos/Courier/internal/sandbox"
	"go.uber.org/zap"
)

// SystemHandler handles sandbox maintenance endpoints
type SystemHandler struct {
	BaseHandler
	sb *sandbox.Sandbox
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(sb *sandbox.Sandbox, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: BaseHandler{log: logger},
		sb:          sb,
	}
}

// Reset handles the reset endpoint. The demo tree is seeded again when
// seeding is enabled.
func (h *SystemHandler) Reset(w http.ResponseWriter, req *http.Request) {
	if err := h.sb.Reset(); err != nil {
		h.sendError(w, err)
		return
	}

	seeded, err := h.sb.Seed()
	if err != nil {
		h.sendError(w, err)
		return
	}

	h.sendSuccess(w, map[string]int{"seeded": seeded})
}
