// Package sandbox implements an offline, gofile-compatible content service
// backed by the DuckDB store.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Project-Sylos/Courier/internal/db"
	"github.com/Project-Sylos/Courier/internal/generator"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/Project-Sylos/Courier/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sandbox serves the gofile operations against a local database
type Sandbox struct {
	db  *db.DB
	cfg types.SandboxConfig
	log *zap.Logger

	// mu serializes operations spanning several statements and guards rng
	mu  sync.Mutex
	rng *generator.RNG
}

// New creates a sandbox over database and makes sure the configured
// account exists
func New(database *db.DB, cfg types.SandboxConfig, logger *zap.Logger) (*Sandbox, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("sandbox token cannot be empty")
	}
	if cfg.Server == "" {
		return nil, fmt.Errorf("sandbox server name cannot be empty")
	}

	s := &Sandbox{
		db:  database,
		cfg: cfg,
		log: logger,
		rng: generator.NewRNG(cfg.Seed.Seed),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ensureAccount(cfg.Token, cfg.Email, types.TierStandard); err != nil {
		return nil, err
	}
	return s, nil
}

// Server returns the name of the upload server
func (s *Sandbox) Server() string {
	return s.cfg.Server
}

// Close closes the database
func (s *Sandbox) Close() error {
	return s.db.Close()
}

// ensureAccount returns the account of token, creating it with an empty
// root folder when missing
func (s *Sandbox) ensureAccount(token, email, tier string) (*db.Account, error) {
	account, err := s.db.GetAccount(token)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	root := &db.Content{
		ID:         uuid.New().String(),
		Owner:      token,
		Name:       "root",
		Type:       types.ContentTypeFolder,
		Code:       generator.NewCode(s.rng),
		Server:     s.cfg.Server,
		CreateTime: now,
	}
	if err := s.db.InsertContent(root); err != nil {
		return nil, fmt.Errorf("failed to create root folder: %w", err)
	}

	account = &db.Account{
		Token:      token,
		Email:      email,
		Tier:       tier,
		RootFolder: root.ID,
		CreatedAt:  now,
	}
	if err := s.db.InsertAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.log.Info("account created", zap.String("tier", tier), zap.String("root_folder", root.ID))
	return account, nil
}

// Seed fills the root folder of the configured account with a demo tree
// when the folder is empty. It returns the number of contents created.
func (s *Sandbox) Seed() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Seed.MaxDepth == 0 {
		return 0, nil
	}

	account, err := s.db.GetAccount(s.cfg.Token)
	if err != nil {
		return 0, err
	}
	root, err := s.db.GetContent(account.RootFolder)
	if err != nil {
		return 0, err
	}
	children, err := s.db.GetChildren(root.ID)
	if err != nil {
		return 0, err
	}
	if len(children) > 0 {
		return 0, nil
	}

	contents, err := generator.GenerateTree(root, s.rng, &s.cfg.Seed)
	if err != nil {
		return 0, fmt.Errorf("failed to generate demo tree: %w", err)
	}
	if err := s.db.BulkInsertContents(contents); err != nil {
		return 0, err
	}

	s.log.Info("demo tree seeded", zap.Int("contents", len(contents)))
	return len(contents), nil
}

// Reset removes every account and content, then recreates the configured
// account
func (s *Sandbox) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteAll(); err != nil {
		return fmt.Errorf("failed to delete all contents: %w", err)
	}

	// Reset random number generator with same seed for reproducibility
	s.rng = generator.NewRNG(s.cfg.Seed.Seed)

	if _, err := s.ensureAccount(s.cfg.Token, s.cfg.Email, types.TierStandard); err != nil {
		return err
	}
	return nil
}

// authenticate returns the account owning token
func (s *Sandbox) authenticate(token string) (*db.Account, error) {
	if token == "" {
		return nil, errNoAuth()
	}
	account, err := s.db.GetAccount(token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errAuth("unknown token")
		}
		return nil, err
	}
	return account, nil
}

// owned returns the content id when it belongs to account
func (s *Sandbox) owned(account *db.Account, id string) (*db.Content, error) {
	content, err := s.db.GetContent(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errNotFound(id)
		}
		return nil, err
	}
	if content.Owner != account.Token {
		return nil, errAuth("content %s belongs to another account", id)
	}
	return content, nil
}

// ownedFolder is owned restricted to folders
func (s *Sandbox) ownedFolder(account *db.Account, id string) (*db.Content, error) {
	content, err := s.owned(account, id)
	if err != nil {
		return nil, err
	}
	if content.Type != types.ContentTypeFolder {
		return nil, errBadRequest("content %s is not a folder", id)
	}
	return content, nil
}

// downloadPage returns the download page of a folder code
func (s *Sandbox) downloadPage(code string) string {
	host := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	return fmt.Sprintf("http://%s/d/%s", host, code)
}

// toContent converts a stored row into its wire form
func (s *Sandbox) toContent(c *db.Content) *types.Content {
	content := &types.Content{
		ID:            c.ID,
		Type:          c.Type,
		Name:          c.Name,
		ParentFolder:  c.ParentID,
		CreateTime:    c.CreateTime.Unix(),
		DownloadCount: c.DownloadCount,
		IsOwner:       true,
	}
	if c.Type == types.ContentTypeFolder {
		content.Code = c.Code
		content.Link = s.downloadPage(c.Code)
		content.Public = c.Public
		content.Password = c.Password != ""
		content.Description = c.Description
		content.Expire = c.Expire
		content.Tags = c.Tags
		return content
	}
	content.Size = c.Size
	content.MD5 = c.MD5
	content.MimeType = c.MimeType
	return content
}

// GetContent returns a content. Folders carry their direct children.
func (s *Sandbox) GetContent(token, id string) (*types.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errBadRequest("contentId is required")
	}
	if _, err := s.owned(account, id); err != nil {
		return nil, err
	}

	rows, err := s.db.GetParentAndChildren(id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNotFound(id)
	}

	content := s.toContent(rows[0])
	if !content.IsFolder() {
		return content, nil
	}

	content.Childs = []string{}
	content.Contents = make(map[string]*types.Content, len(rows)-1)
	for _, row := range rows[1:] {
		child := s.toContent(row)
		content.Childs = append(content.Childs, child.ID)
		content.Contents[child.ID] = child
		content.TotalSize += child.Size
		content.TotalDownloadCount += child.DownloadCount
	}
	return content, nil
}

// CreateFolder creates an empty folder below parentID
func (s *Sandbox) CreateFolder(token, parentID, name string) (*types.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errBadRequest("folderName is required")
	}
	if parentID == "" {
		parentID = account.RootFolder
	}
	parent, err := s.ownedFolder(account, parentID)
	if err != nil {
		return nil, err
	}

	folder := &db.Content{
		ID:         uuid.New().String(),
		Owner:      account.Token,
		ParentID:   parent.ID,
		Name:       name,
		Type:       types.ContentTypeFolder,
		Code:       generator.NewCode(s.rng),
		Server:     s.cfg.Server,
		CreateTime: time.Now().UTC(),
	}
	if err := s.db.InsertContent(folder); err != nil {
		return nil, err
	}
	return s.toContent(folder), nil
}

// decodeOption converts the form text of a folder option into the column
// value
func decodeOption(option, raw string) (any, error) {
	switch option {
	case types.OptionPublic:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errBadRequest("public must be true or false")
		}
		return v, nil
	case types.OptionExpire:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errBadRequest("expire must be a unix timestamp")
		}
		return v, nil
	case types.OptionTags:
		return strings.Join(utils.SplitList(raw), ","), nil
	case types.OptionPassword, types.OptionDescription:
		return raw, nil
	default:
		return nil, errBadRequest("unknown option %q", option)
	}
}

// SetFolderOption sets one option of a folder
func (s *Sandbox) SetFolderOption(token, folderID, option, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return err
	}
	value, err := decodeOption(option, raw)
	if err != nil {
		return err
	}
	if _, err := s.ownedFolder(account, folderID); err != nil {
		return err
	}
	return s.db.UpdateFolderOption(folderID, option, value)
}

// CopyContent copies contents, folders with their whole subtree, into
// destID. Copies get fresh ids.
func (s *Sandbox) CopyContent(token string, ids []string, destID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errBadRequest("contentsId is required")
	}
	if _, err := s.ownedFolder(account, destID); err != nil {
		return err
	}

	var copies []*db.Content
	now := time.Now().UTC()
	for _, id := range ids {
		if _, err := s.owned(account, id); err != nil {
			return err
		}
		subtree, err := s.db.GetSubtree(id)
		if err != nil {
			return err
		}

		// GetSubtree lists parents first, so every parent is mapped before
		// its children
		newIDs := map[string]string{}
		for _, c := range subtree {
			clone := *c
			clone.ID = uuid.New().String()
			newIDs[c.ID] = clone.ID
			if c.ID == id {
				clone.ParentID = destID
			} else {
				clone.ParentID = newIDs[c.ParentID]
			}
			if clone.Type == types.ContentTypeFolder {
				clone.Code = generator.NewCode(s.rng)
			}
			clone.DownloadCount = 0
			clone.CreateTime = now
			copies = append(copies, &clone)
		}
	}
	return s.db.BulkInsertContents(copies)
}

// DeleteContent deletes contents and their subtrees. The result maps every
// id to "ok" or to the status explaining why it was kept.
func (s *Sandbox) DeleteContent(token string, ids []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errBadRequest("contentsId is required")
	}

	result := make(map[string]string, len(ids))
	for _, id := range ids {
		if id == account.RootFolder {
			result[id] = types.StatusBadRequest
			continue
		}
		if _, err := s.owned(account, id); err != nil {
			status := StatusOf(err)
			if status == "" {
				return nil, err
			}
			result[id] = status
			continue
		}
		if _, err := s.db.DeleteSubtree(id); err != nil {
			return nil, err
		}
		result[id] = types.StatusOK
	}
	return result, nil
}

// GetAccountDetails returns the account fields of token. allDetails adds
// the folder count and creation time.
func (s *Sandbox) GetAccountDetails(token string, allDetails bool) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}
	totals, err := s.db.Totals(account.Token)
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"token":              account.Token,
		"email":              account.Email,
		"tier":               account.Tier,
		"rootFolder":         account.RootFolder,
		"filesCount":         totals.Files,
		"totalSize":          totals.Size,
		"totalDownloadCount": totals.DownloadCount,
	}
	if allDetails {
		details["foldersCount"] = totals.Folders
		details["createTime"] = account.CreatedAt.Unix()
	}
	return details, nil
}

// UploadFile stores a file read from r. Without a token a guest account is
// created and its token returned. server must name this sandbox.
func (s *Sandbox) UploadFile(server, token, folderID, fileName string, r io.Reader) (*types.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if server != s.cfg.Server {
		return nil, statusErrorf(types.StatusWrongServer, "upload server is %s, not %s", s.cfg.Server, server)
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, errBadRequest("file name is required")
	}

	var account *db.Account
	var guestToken string
	var err error
	if token == "" {
		if folderID != "" {
			return nil, errNoAuth()
		}
		guestToken = uuid.New().String()
		account, err = s.ensureAccount(guestToken, "", types.TierGuest)
	} else {
		account, err = s.authenticate(token)
	}
	if err != nil {
		return nil, err
	}

	if folderID == "" {
		folderID = account.RootFolder
	}
	folder, err := s.ownedFolder(account, folderID)
	if err != nil {
		return nil, err
	}

	size, checksum, err := generator.ChecksumReader(r)
	if err != nil {
		return nil, errBadRequest("failed to read file: %v", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &db.Content{
		ID:         uuid.New().String(),
		Owner:      account.Token,
		ParentID:   folder.ID,
		Name:       fileName,
		Type:       types.ContentTypeFile,
		Size:       size,
		MD5:        checksum,
		MimeType:   mimeType,
		Server:     s.cfg.Server,
		CreateTime: time.Now().UTC(),
	}
	if err := s.db.InsertContent(file); err != nil {
		return nil, err
	}

	s.log.Debug("file uploaded",
		zap.String("file_id", file.ID),
		zap.String("folder_id", folder.ID),
		zap.Int64("size", size),
	)

	return &types.UploadResult{
		DownloadPage: s.downloadPage(folder.Code),
		Code:         folder.Code,
		ParentFolder: folder.ID,
		FileID:       file.ID,
		FileName:     file.Name,
		MD5:          checksum,
		GuestToken:   guestToken,
	}, nil
}
