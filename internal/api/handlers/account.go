package handlers

import (
	"net/http"

	"github.com/Project-Sylos/Courier/internal/api/models"
	"github.com/Project-Sylos/Courier/internal/sandbox"
	"go.uber.org/zap"
)

// AccountHandler handles the account endpoint
type AccountHandler struct {
	BaseHandler
	sb *sandbox.Sandbox
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(sb *sandbox.Sandbox, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: BaseHandler{log: logger},
		sb:          sb,
	}
}

// GetAccountDetails handles the getAccountDetails endpoint
func (h *AccountHandler) GetAccountDetails(w http.ResponseWriter, req *http.Request) {
	request := models.NewAccountDetailsRequest(req, req.URL.Query())

	details, err := h.sb.GetAccountDetails(request.Token, request.AllDetails)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, details)
}
