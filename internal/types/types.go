package types

import (
	"encoding/json"
	"time"
)

// Config represents the complete configuration for Courier
type Config struct {
	API     APIConfig     `json:"api"`
	Account AccountConfig `json:"account"`
	Logging LogConfig     `json:"logging"`
	Sandbox SandboxConfig `json:"sandbox"`
}

// APIConfig describes how to reach the remote service
type APIConfig struct {
	BaseURL        string `json:"base_url"`
	UploadURL      string `json:"upload_url"` // must contain the {server} placeholder
	TimeoutSeconds int    `json:"timeout_seconds"`
	Insecure       bool   `json:"insecure"` // allow plain http (sandbox only)
}

// AccountConfig holds the default credential and where to look for it
type AccountConfig struct {
	Token   string `json:"token"`
	EnvFile string `json:"env_file"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // console, json
	Output string `json:"output"` // stderr, stdout or a file path
}

// SandboxConfig configures the offline gofile-compatible server
type SandboxConfig struct {
	Host   string     `json:"host"`
	Port   int        `json:"port"`
	DBPath string     `json:"db_path"`
	Token  string     `json:"token"`
	Email  string     `json:"email"`
	Server string     `json:"server"`
	Seed   SeedConfig `json:"seed"`
}

// SeedConfig controls the optional demo tree created when the sandbox starts
type SeedConfig struct {
	MaxDepth   int   `json:"max_depth"` // 0 disables seeding
	MinFolders int   `json:"min_folders"`
	MaxFolders int   `json:"max_folders"`
	MinFiles   int   `json:"min_files"`
	MaxFiles   int   `json:"max_files"`
	Seed       int64 `json:"seed"`
}

// Response is the envelope every endpoint answers with
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Content is a file or folder record. Folders carry their direct
// children in Contents, keyed by id.
type Content struct {
	ID                 string              `json:"id"`
	Type               string              `json:"type"`
	Name               string              `json:"name"`
	ParentFolder       string              `json:"parentFolder,omitempty"`
	Code               string              `json:"code,omitempty"`
	CreateTime         int64               `json:"createTime,omitempty"`
	Size               int64               `json:"size,omitempty"`
	MD5                string              `json:"md5,omitempty"`
	MimeType           string              `json:"mimetype,omitempty"`
	DownloadCount      int64               `json:"downloadCount,omitempty"`
	Link               string              `json:"link,omitempty"`
	IsOwner            bool                `json:"isOwner,omitempty"`
	Public             bool                `json:"public,omitempty"`
	Password           bool                `json:"password,omitempty"`
	Description        string              `json:"description,omitempty"`
	Expire             int64               `json:"expire,omitempty"`
	Tags               string              `json:"tags,omitempty"`
	TotalSize          int64               `json:"totalSize,omitempty"`
	TotalDownloadCount int64               `json:"totalDownloadCount,omitempty"`
	Childs             []string            `json:"childs,omitempty"`
	Contents           map[string]*Content `json:"contents,omitempty"`
}

// IsFolder reports whether the content is a folder
func (c *Content) IsFolder() bool {
	return c != nil && c.Type == ContentTypeFolder
}

// Created returns CreateTime as a time.Time
func (c *Content) Created() time.Time {
	return time.Unix(c.CreateTime, 0)
}

// Server is the answer of getServer
type Server struct {
	Server string `json:"server"`
}

// UploadResult is the answer of uploadFile
type UploadResult struct {
	DownloadPage string `json:"downloadPage"`
	Code         string `json:"code"`
	ParentFolder string `json:"parentFolder"`
	FileID       string `json:"fileId"`
	FileName     string `json:"fileName"`
	MD5          string `json:"md5"`
	GuestToken   string `json:"guestToken,omitempty"`
}

// Account is the answer of getAccountDetails
type Account struct {
	Token              string `json:"token"`
	Email              string `json:"email"`
	Tier               string `json:"tier"`
	RootFolder         string `json:"rootFolder"`
	FilesCount         int64  `json:"filesCount"`
	FoldersCount       int64  `json:"foldersCount,omitempty"`
	TotalSize          int64  `json:"totalSize"`
	TotalDownloadCount int64  `json:"totalDownloadCount"`

	// Extra keeps every field of the payload, including the ones only
	// returned with allDetails=true
	Extra map[string]json.RawMessage `json:"-"`
}

// Content type constants
const (
	ContentTypeFolder = "folder"
	ContentTypeFile   = "file"
)

// Status constants of the response envelope
const (
	StatusOK          = "ok"
	StatusAuth        = "error-auth"
	StatusNoAuth      = "error-noAuth"
	StatusWrongServer = "error-wrongServer"
	StatusNotFound    = "error-notFound"
	StatusNotPremium  = "error-notPremium"
	StatusRateLimit   = "error-rateLimit"
	StatusBadRequest  = "error-badRequest"
)

// Folder option names
const (
	OptionPublic      = "public"
	OptionPassword    = "password"
	OptionDescription = "description"
	OptionExpire      = "expire"
	OptionTags        = "tags"
)

// FolderOptions lists the accepted folder option names in display order
var FolderOptions = []string{
	OptionPublic,
	OptionPassword,
	OptionDescription,
	OptionExpire,
	OptionTags,
}

// Account tiers
const (
	TierGuest    = "guest"
	TierStandard = "standard"
	TierPremium  = "premium"
)
