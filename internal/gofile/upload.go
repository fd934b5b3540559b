package gofile

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UploadOptions are the optional parameters of UploadFile
type UploadOptions struct {
	// Token of the account receiving the file. When empty the client
	// default is used; when that is empty too the file goes to a new guest
	// account whose token is returned in UploadResult.GuestToken.
	Token string

	// FolderID of the destination folder. Requires a token.
	FolderID string
}

// GetServer returns the name of the server to upload to
func (c *Client) GetServer(ctx context.Context) (string, error) {
	var result types.Server
	err := c.call(ctx, &opts{
		method:   http.MethodGet,
		endpoint: endpointGetServer,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Server == "" {
		return "", errors.Errorf("%s: empty server name", endpointGetServer)
	}
	return result.Server, nil
}

// UploadFile uploads the file at path. The body is streamed so the file is
// never held in memory.
func (c *Client) UploadFile(ctx context.Context, path string, options UploadOptions) (*types.UploadResult, error) {
	if path == "" {
		return nil, invalid("path", "a file path is required")
	}
	token := c.resolveToken(options.Token)
	if options.FolderID != "" && token == "" {
		return nil, invalid("token", "a token is required when uploading to a folder")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, invalid("path", "%s does not exist", path)
		}
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}
	if info.IsDir() {
		return nil, invalid("path", "%s is a directory", path)
	}

	server, err := c.GetServer(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if token != "" {
		fields["token"] = token
	}
	if options.FolderID != "" {
		fields["folderId"] = options.FolderID
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, f, filepath.Base(path), fields))
	}()

	c.log.Debug("uploading",
		zap.String("file", filepath.Base(path)),
		zap.Int64("size", info.Size()),
		zap.String("server", server),
	)

	var result types.UploadResult
	err = c.call(ctx, &opts{
		method:      http.MethodPost,
		endpoint:    endpointUploadFile,
		rootURL:     c.UploadURLFor(server),
		body:        pr,
		contentType: mw.FormDataContentType(),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// writeMultipart writes the form fields followed by the file part and
// closes the multipart writer
func writeMultipart(mw *multipart.Writer, r io.Reader, name string, fields map[string]string) error {
	for _, key := range []string{"token", "folderId"} {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if err := mw.WriteField(key, value); err != nil {
			return errors.Wrapf(err, "failed to write %s field", key)
		}
	}

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return errors.Wrap(err, "failed to create form file")
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.Wrap(err, "failed to copy file")
	}
	return mw.Close()
}
