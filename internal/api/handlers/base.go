package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Project-Sylos/Courier/internal/sandbox"
	"github.com/Project-Sylos/Courier/internal/types"
	"go.uber.org/zap"
)

// statusInternal reports failures that are not the client's doing
const statusInternal = "error-internal"

// envelope is the body of every response
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// BaseHandler provides common functionality for all API handlers
type BaseHandler struct {
	log *zap.Logger
}

// httpStatus maps an envelope status to the HTTP status code sent with it
func httpStatus(status string) int {
	switch status {
	case types.StatusOK:
		return http.StatusOK
	case types.StatusAuth, types.StatusNoAuth:
		return http.StatusUnauthorized
	case types.StatusNotFound:
		return http.StatusNotFound
	case types.StatusNotPremium:
		return http.StatusForbidden
	case types.StatusRateLimit:
		return http.StatusTooManyRequests
	case types.StatusWrongServer, types.StatusBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendJSON sends a JSON response with the given status code and data
func (h *BaseHandler) sendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil && h.log != nil {
		h.log.Warn("failed to write response", zap.Error(err))
	}
}

// sendError sends the envelope status carried by err
func (h *BaseHandler) sendError(w http.ResponseWriter, err error) {
	status := sandbox.StatusOf(err)
	if status == "" {
		status = statusInternal
		if h.log != nil {
			h.log.Error("request failed", zap.Error(err))
		}
	}
	h.sendJSON(w, httpStatus(status), envelope{
		Status: status,
		Data:   map[string]string{"message": err.Error()},
	})
}

// sendBadRequest sends an error-badRequest envelope
func (h *BaseHandler) sendBadRequest(w http.ResponseWriter, message string) {
	h.sendJSON(w, http.StatusBadRequest, envelope{
		Status: types.StatusBadRequest,
		Data:   map[string]string{"message": message},
	})
}

// sendSuccess sends an ok envelope around data
func (h *BaseHandler) sendSuccess(w http.ResponseWriter, data any) {
	if data == nil {
		data = struct{}{}
	}
	h.sendJSON(w, http.StatusOK, envelope{
		Status: types.StatusOK,
		Data:   data,
	})
}
