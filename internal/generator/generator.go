package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Project-Sylos/Courier/internal/db"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/google/uuid"
)

// codeAlphabet is the character set of download codes
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of generated download codes
const CodeLength = 6

// SeedFileSize is the size of generated demo files
const SeedFileSize = 1024

// RNG wraps math/rand.Rand for seeded random generation
type RNG struct {
	*rand.Rand
}

// NewRNG creates a new seeded random number generator
func NewRNG(seed int64) *RNG {
	return &RNG{
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// NewCode returns a random download code
func NewCode(rng *RNG) string {
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(code)
}

// GenerateChildren generates the children of parent, which sits at depth.
// Nothing is generated at or below cfg.MaxDepth.
func GenerateChildren(parent *db.Content, depth int, rng *RNG, cfg *types.SeedConfig) ([]*db.Content, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var children []*db.Content

	// Don't generate children if we've reached max depth
	if depth >= cfg.MaxDepth {
		return children, nil
	}

	folderCount := rng.Intn(cfg.MaxFolders-cfg.MinFolders+1) + cfg.MinFolders
	for i := 0; i < folderCount; i++ {
		children = append(children, generateFolder(parent, i+1, rng))
	}

	fileCount := rng.Intn(cfg.MaxFiles-cfg.MinFiles+1) + cfg.MinFiles
	for i := 0; i < fileCount; i++ {
		children = append(children, generateFile(parent, i+1, rng))
	}

	return children, nil
}

// GenerateTree generates the whole demo tree below root, breadth first,
// parents before children
func GenerateTree(root *db.Content, rng *RNG, cfg *types.SeedConfig) ([]*db.Content, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	type pending struct {
		node  *db.Content
		depth int
	}

	var all []*db.Content
	queue := []pending{{node: root, depth: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := GenerateChildren(current.node, current.depth, rng, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to generate children of %s: %w", current.node.ID, err)
		}
		for _, child := range children {
			all = append(all, child)
			if child.Type == types.ContentTypeFolder {
				queue = append(queue, pending{node: child, depth: current.depth + 1})
			}
		}
	}
	return all, nil
}

// generateFolder creates a new folder owned by the parent's owner
func generateFolder(parent *db.Content, index int, rng *RNG) *db.Content {
	return &db.Content{
		ID:         uuid.New().String(),
		Owner:      parent.Owner,
		ParentID:   parent.ID,
		Name:       fmt.Sprintf("folder_%d", index),
		Type:       types.ContentTypeFolder,
		Code:       NewCode(rng),
		CreateTime: time.Now(),
	}
}

// generateFile creates a new file with generated content
func generateFile(parent *db.Content, index int, rng *RNG) *db.Content {
	_, checksum := GenerateFileData(rng, SeedFileSize)

	return &db.Content{
		ID:         uuid.New().String(),
		Owner:      parent.Owner,
		ParentID:   parent.ID,
		Name:       fmt.Sprintf("file_%d.txt", index),
		Type:       types.ContentTypeFile,
		Size:       SeedFileSize,
		MD5:        checksum,
		MimeType:   "text/plain",
		Server:     parent.Server,
		CreateTime: time.Now(),
	}
}

// ValidateConfig validates the generator configuration
func ValidateConfig(cfg *types.SeedConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}
	if cfg.MinFolders < 0 || cfg.MaxFolders < cfg.MinFolders {
		return fmt.Errorf("invalid folder count range: min=%d, max=%d", cfg.MinFolders, cfg.MaxFolders)
	}
	if cfg.MinFiles < 0 || cfg.MaxFiles < cfg.MinFiles {
		return fmt.Errorf("invalid file count range: min=%d, max=%d", cfg.MinFiles, cfg.MaxFiles)
	}
	return nil
}
