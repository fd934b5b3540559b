package handlers

import (
	"net/http"
	"net/url"

	"github.com/Project-Sylos/Courier/internal/api/models"
	"github.com/Project-Sylos/Courier/internal/sandbox"
	"go.uber.org/zap"
)

// ContentHandler handles the file and folder endpoints
type ContentHandler struct {
	BaseHandler
	sb *sandbox.Sandbox
}

// NewContentHandler creates a new content handler
func NewContentHandler(sb *sandbox.Sandbox, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: BaseHandler{log: logger},
		sb:          sb,
	}
}

// form parses the request parameters, answering bad requests itself
func (h *ContentHandler) form(w http.ResponseWriter, req *http.Request) (url.Values, bool) {
	values, err := models.ParseForm(req)
	if err != nil {
		h.sendBadRequest(w, err.Error())
		return nil, false
	}
	return values, true
}

// GetContent handles the getContent endpoint
func (h *ContentHandler) GetContent(w http.ResponseWriter, req *http.Request) {
	values, ok := h.form(w, req)
	if !ok {
		return
	}
	request := models.NewGetContentRequest(req, values)

	content, err := h.sb.GetContent(request.Token, request.ContentID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, content)
}

// CreateFolder handles the createFolder endpoint
func (h *ContentHandler) CreateFolder(w http.ResponseWriter, req *http.Request) {
	values, ok := h.form(w, req)
	if !ok {
		return
	}
	request := models.NewCreateFolderRequest(req, values)

	folder, err := h.sb.CreateFolder(request.Token, request.ParentFolderID, request.FolderName)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, folder)
}

// SetFolderOption handles the setFolderOption endpoint
func (h *ContentHandler) SetFolderOption(w http.ResponseWriter, req *http.Request) {
	values, ok := h.form(w, req)
	if !ok {
		return
	}
	request := models.NewSetFolderOptionRequest(req, values)

	if err := h.sb.SetFolderOption(request.Token, request.FolderID, request.Option, request.Value); err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, nil)
}

// CopyContent handles the copyContent endpoint
func (h *ContentHandler) CopyContent(w http.ResponseWriter, req *http.Request) {
	values, ok := h.form(w, req)
	if !ok {
		return
	}
	request := models.NewCopyContentRequest(req, values)

	if err := h.sb.CopyContent(request.Token, request.ContentIDs, request.FolderIDDest); err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, nil)
}

// DeleteContent handles the deleteContent endpoint
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, req *http.Request) {
	values, ok := h.form(w, req)
	if !ok {
		return
	}
	request := models.NewDeleteContentRequest(req, values)

	result, err := h.sb.DeleteContent(request.Token, request.ContentIDs)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendSuccess(w, result)
}
