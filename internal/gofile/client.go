// Package gofile wraps the gofile.io HTTP API.
//
// Reads are sent as GET requests with query parameters, writes as PUT or
// DELETE requests with form encoded bodies, and uploads as streamed
// multipart POSTs to the server returned by getServer. Failures are never
// retried.
package gofile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Project-Sylos/Courier/internal/config"
	"github.com/Project-Sylos/Courier/internal/logging"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Endpoints
const (
	endpointGetServer         = "getServer"
	endpointUploadFile        = "uploadFile"
	endpointGetContent        = "getContent"
	endpointCreateFolder      = "createFolder"
	endpointSetFolderOption   = "setFolderOption"
	endpointCopyContent       = "copyContent"
	endpointDeleteContent     = "deleteContent"
	endpointGetAccountDetails = "getAccountDetails"
)

// maxErrorBody bounds how much of an undecodable body ends up in an error
const maxErrorBody = 512

// Options configures a Client
type Options struct {
	BaseURL       string        // defaults to https://api.gofile.io/
	UploadURL     string        // template containing {server}
	HTTPClient    *http.Client  // defaults to a new client with Timeout
	Timeout       time.Duration // 0 means no client side timeout
	Token         string        // default credential for account scoped calls
	Logger        *zap.Logger
	AllowInsecure bool // accept http:// URLs, for the local sandbox
}

// Client issues requests against the gofile API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	uploadURL string
	http      *http.Client
	token     string
	log       *zap.Logger
}

// New creates a client from opts
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.UploadURL == "" {
		opts.UploadURL = config.DefaultUploadURL
	}

	base, err := checkURL(opts.BaseURL, opts.AllowInsecure)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if !strings.Contains(opts.UploadURL, config.ServerPlaceholder) {
		return nil, invalid("upload URL", "%q has no %s placeholder", opts.UploadURL, config.ServerPlaceholder)
	}
	if _, err := checkURL(strings.ReplaceAll(opts.UploadURL, config.ServerPlaceholder, "server"), opts.AllowInsecure); err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		uploadURL: opts.UploadURL,
		http:      httpClient,
		token:     opts.Token,
		log:       logger.Named("gofile"),
	}, nil
}

// NewFromConfig creates a client from the API and account sections of cfg
func NewFromConfig(cfg *types.Config, logger *zap.Logger) (*Client, error) {
	return New(Options{
		BaseURL:       cfg.API.BaseURL,
		UploadURL:     cfg.API.UploadURL,
		Timeout:       time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Token:         cfg.Account.Token,
		Logger:        logger,
		AllowInsecure: cfg.API.Insecure,
	})
}

func checkURL(raw string, insecure bool) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, invalid("URL", "%q: %v", raw, err)
	}
	if u.Host == "" {
		return nil, invalid("URL", "%q is not absolute", raw)
	}
	if u.Scheme != "https" && !(insecure && u.Scheme == "http") {
		return nil, invalid("URL", "%q must use https", raw)
	}
	return u, nil
}

// Token returns the default credential
func (c *Client) Token() string {
	return c.token
}

// resolveToken returns token, or the default credential when empty
func (c *Client) resolveToken(token string) string {
	if token != "" {
		return token
	}
	return c.token
}

// requireToken resolves the credential and fails validation without one
func (c *Client) requireToken(token string) (string, error) {
	token = c.resolveToken(token)
	if token == "" {
		return "", invalid("token", "a token is required for this operation")
	}
	return token, nil
}

// UploadURLFor returns the upload endpoint on the given server
func (c *Client) UploadURLFor(server string) string {
	return strings.ReplaceAll(c.uploadURL, config.ServerPlaceholder, server)
}

// opts contains the parameters of one call
type opts struct {
	method      string
	endpoint    string
	rootURL     string     // overrides baseURL + endpoint
	parameters  url.Values // query string
	form        url.Values // form encoded body
	body        io.Reader  // raw body, exclusive with form
	contentType string
}

// call performs the request described by o and decodes the data member of
// the envelope into result (when result is not nil)
func (c *Client) call(ctx context.Context, o *opts, result any) error {
	target := o.rootURL
	if target == "" {
		target = c.baseURL.ResolveReference(&url.URL{Path: o.endpoint}).String()
	}
	if len(o.parameters) > 0 {
		target += "?" + o.parameters.Encode()
	}

	body := o.body
	contentType := o.contentType
	if o.form != nil {
		body = strings.NewReader(o.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, o.method, target, body)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to create request", o.endpoint)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", o.method),
			zap.String("url", logging.RedactURL(target)),
			zap.Error(err),
		)
		return errors.Wrapf(err, "%s: request failed", o.endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to read response", o.endpoint)
	}

	c.log.Debug("request",
		zap.String("method", o.method),
		zap.String("url", logging.RedactURL(target)),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := ProcessResponse(o.endpoint, resp.StatusCode, raw)
	if err != nil {
		return err
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return errors.Wrapf(err, "%s: failed to decode data", o.endpoint)
	}
	return nil
}

// ProcessResponse validates the {status, data} envelope of a response body
// and returns the data member. A status other than "ok" becomes an
// *APIError carrying the raw body.
func ProcessResponse(endpoint string, httpStatus int, body []byte) (json.RawMessage, error) {
	var envelope types.Response
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Status == "" {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		if err == nil {
			err = errors.New("missing status field")
		}
		return nil, errors.Errorf("%s: failed to decode response (HTTP %d): %v: %q",
			endpoint, httpStatus, err, bytes.TrimSpace(snippet))
	}

	if envelope.Status != types.StatusOK {
		return nil, &APIError{
			Endpoint:   endpoint,
			Status:     envelope.Status,
			Category:   categorize(envelope.Status),
			HTTPStatus: httpStatus,
			Body:       body,
		}
	}

	return envelope.Data, nil
}
