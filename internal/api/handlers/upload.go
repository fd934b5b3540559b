package handlers

import (
	"io"
	"net/http"

	"github.com/Project-Sylos/Courier/internal/api/models"
	"github.com/Project-Sylos/Courier/internal/sandbox"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxFieldBytes caps the size of a non-file multipart field
const maxFieldBytes = 4096

// UploadHandler handles the server lookup and upload endpoints
type UploadHandler struct {
	BaseHandler
	sb *sandbox.Sandbox
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(sb *sandbox.Sandbox, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: BaseHandler{log: logger},
		sb:          sb,
	}
}

// GetServer handles the getServer endpoint
func (h *UploadHandler) GetServer(w http.ResponseWriter, req *http.Request) {
	h.sendSuccess(w, types.Server{Server: h.sb.Server()})
}

// UploadFile handles the uploadFile endpoint. The multipart body is
// streamed, so the token and folderId fields must precede the file part.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, req *http.Request) {
	reader, err := req.MultipartReader()
	if err != nil {
		h.sendBadRequest(w, "multipart body required: "+err.Error())
		return
	}

	query := req.URL.Query()
	token := models.Token(req, query)
	folderID := query.Get("folderId")

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			h.sendBadRequest(w, "file part is missing")
			return
		}
		if err != nil {
			h.sendBadRequest(w, "invalid multipart body: "+err.Error())
			return
		}

		switch part.FormName() {
		case "file":
			result, err := h.sb.UploadFile(chi.URLParam(req, "server"), token, folderID, part.FileName(), part)
			part.Close()
			if err != nil {
				h.sendError(w, err)
				return
			}
			h.sendSuccess(w, result)
			return
		case "token", "folderId":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			part.Close()
			if err != nil {
				h.sendBadRequest(w, "invalid multipart field: "+err.Error())
				return
			}
			if part.FormName() == "token" {
				token = string(value)
			} else {
				folderID = string(value)
			}
		default:
			part.Close()
		}
	}
}
