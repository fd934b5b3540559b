package sdk

import (
	"context"
	"fmt"
	"io"

	"github.com/Project-Sylos/Courier/internal/config"
	"github.com/Project-Sylos/Courier/internal/gofile"
	"github.com/Project-Sylos/Courier/internal/logging"
	"github.com/Project-Sylos/Courier/internal/tree"
	"github.com/Project-Sylos/Courier/internal/types"
)

// Client is the public SDK interface for the gofile API.
// This wraps the internal implementation to provide a clean public API
type Client struct {
	impl *gofile.Client
}

// Options configures a Client, see gofile.Options
type Options = gofile.Options

// New creates a client from opts. The zero Options talk to the public API
// without a default token.
func New(opts Options) (*Client, error) {
	impl, err := gofile.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}
	return &Client{impl: impl}, nil
}

// NewFromConfig creates a client from a config file, the .env file and the
// environment, the way the command line does. A missing file at the
// default path is tolerated.
func NewFromConfig(configPath string) (*Client, error) {
	required := configPath != ""
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.Load(configPath, required)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	impl, err := gofile.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}
	return &Client{impl: impl}, nil
}

// GetServer returns the server to upload to
func (c *Client) GetServer(ctx context.Context) (string, error) {
	return c.impl.GetServer(ctx)
}

// UploadFile uploads the file at path
func (c *Client) UploadFile(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error) {
	return c.impl.UploadFile(ctx, path, opts)
}

// GetContent returns a file or a folder with its direct children
func (c *Client) GetContent(ctx context.Context, contentID, token string) (*Content, error) {
	return c.impl.GetContent(ctx, contentID, token)
}

// CreateFolder creates folderName inside parentFolderID
func (c *Client) CreateFolder(ctx context.Context, parentFolderID, folderName, token string) (*Content, error) {
	return c.impl.CreateFolder(ctx, parentFolderID, folderName, token)
}

// SetFolderOption sets one option of a folder
func (c *Client) SetFolderOption(ctx context.Context, folderID, option string, value any, token string) error {
	return c.impl.SetFolderOption(ctx, folderID, option, value, token)
}

// CopyContent copies contentIDs into folderIDDest
func (c *Client) CopyContent(ctx context.Context, contentIDs []string, folderIDDest, token string) error {
	return c.impl.CopyContent(ctx, contentIDs, folderIDDest, token)
}

// DeleteContent deletes contentIDs and returns the per id status
func (c *Client) DeleteContent(ctx context.Context, contentIDs []string, token string) (map[string]string, error) {
	return c.impl.DeleteContent(ctx, contentIDs, token)
}

// GetAccountDetails returns the account owning token
func (c *Client) GetAccountDetails(ctx context.Context, token string, allDetails bool) (*Account, error) {
	return c.impl.GetAccountDetails(ctx, token, allDetails)
}

// Tree pulls rootID and every sub-folder down to depth levels (0 for all)
func (c *Client) Tree(ctx context.Context, rootID, token string, depth int) (*Content, error) {
	return tree.Fetch(ctx, c.impl, rootID, token, tree.FetchOptions{MaxDepth: depth})
}

// Walk visits root and its descendants depth first in pre-order
func Walk(root *Content, visit tree.VisitFunc) error {
	return tree.Walk(root, visit)
}

// Render prints root and its descendants indented by depth
func Render(w io.Writer, root *Content, opts RenderOptions) error {
	return tree.Render(w, root, opts)
}

// Re-export types for convenience
type (
	Content         = types.Content
	Account         = types.Account
	UploadResult    = types.UploadResult
	UploadOptions   = gofile.UploadOptions
	RenderOptions   = tree.RenderOptions
	APIError        = gofile.APIError
	ValidationError = gofile.ValidationError
)

// Re-export errors and helpers
var (
	SkipChildren       = tree.SkipChildren
	ErrCycle           = tree.ErrCycle
	ErrInvalidArgument = gofile.ErrInvalidArgument

	IsAuthError            = gofile.IsAuthError
	IsWrongServer          = gofile.IsWrongServer
	IsValidation           = gofile.IsValidation
	ParseFolderOptionValue = gofile.ParseFolderOptionValue
)

// Re-export constants
const (
	ContentTypeFolder = types.ContentTypeFolder
	ContentTypeFile   = types.ContentTypeFile

	OptionPublic      = types.OptionPublic
	OptionPassword    = types.OptionPassword
	OptionDescription = types.OptionDescription
	OptionExpire      = types.OptionExpire
	OptionTags        = types.OptionTags
)
