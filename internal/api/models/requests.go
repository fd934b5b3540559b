package models

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Project-Sylos/Courier/internal/utils"
)

// maxFormBytes caps url-encoded request bodies
const maxFormBytes = 1 << 20

// ParseForm returns the query parameters merged with the url-encoded body.
// Bodies are read for every method, DELETE included.
func ParseForm(r *http.Request) (url.Values, error) {
	values := r.URL.Query()
	if r.Body == nil {
		return values, nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return values, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return values, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxFormBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxFormBytes)
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	for key, vs := range form {
		values[key] = append(values[key], vs...)
	}
	return values, nil
}

// Token returns the bearer token of r, or the token parameter
func Token(r *http.Request, values url.Values) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return values.Get("token")
}

// GetContentRequest represents the query of getContent
type GetContentRequest struct {
	ContentID string
	Token     string
}

// NewGetContentRequest reads a GetContentRequest
func NewGetContentRequest(r *http.Request, values url.Values) GetContentRequest {
	return GetContentRequest{
		ContentID: values.Get("contentId"),
		Token:     Token(r, values),
	}
}

// CreateFolderRequest represents the form of createFolder
type CreateFolderRequest struct {
	ParentFolderID string
	FolderName     string
	Token          string
}

// NewCreateFolderRequest reads a CreateFolderRequest
func NewCreateFolderRequest(r *http.Request, values url.Values) CreateFolderRequest {
	return CreateFolderRequest{
		ParentFolderID: values.Get("parentFolderId"),
		FolderName:     values.Get("folderName"),
		Token:          Token(r, values),
	}
}

// SetFolderOptionRequest represents the form of setFolderOption
type SetFolderOptionRequest struct {
	FolderID string
	Option   string
	Value    string
	Token    string
}

// NewSetFolderOptionRequest reads a SetFolderOptionRequest
func NewSetFolderOptionRequest(r *http.Request, values url.Values) SetFolderOptionRequest {
	return SetFolderOptionRequest{
		FolderID: values.Get("folderId"),
		Option:   values.Get("option"),
		Value:    values.Get("value"),
		Token:    Token(r, values),
	}
}

// CopyContentRequest represents the form of copyContent
type CopyContentRequest struct {
	ContentIDs   []string
	FolderIDDest string
	Token        string
}

// NewCopyContentRequest reads a CopyContentRequest
func NewCopyContentRequest(r *http.Request, values url.Values) CopyContentRequest {
	return CopyContentRequest{
		ContentIDs:   utils.SplitList(values.Get("contentsId")),
		FolderIDDest: values.Get("folderIdDest"),
		Token:        Token(r, values),
	}
}

// DeleteContentRequest represents the form of deleteContent
type DeleteContentRequest struct {
	ContentIDs []string
	Token      string
}

// NewDeleteContentRequest reads a DeleteContentRequest
func NewDeleteContentRequest(r *http.Request, values url.Values) DeleteContentRequest {
	return DeleteContentRequest{
		ContentIDs: utils.SplitList(values.Get("contentsId")),
		Token:      Token(r, values),
	}
}

// AccountDetailsRequest represents the query of getAccountDetails
type AccountDetailsRequest struct {
	Token      string
	AllDetails bool
}

// NewAccountDetailsRequest reads an AccountDetailsRequest. An unparsable
// allDetails counts as false.
func NewAccountDetailsRequest(r *http.Request, values url.Values) AccountDetailsRequest {
	all, _ := strconv.ParseBool(values.Get("allDetails"))
	return AccountDetailsRequest{
		Token:      Token(r, values),
		AllDetails: all,
	}
}
