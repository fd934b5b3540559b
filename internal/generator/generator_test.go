package generator

import (
	"testing"
	"time"

	"github.com/Project-Sylos/Courier/internal/db"
	"github.com/Project-Sylos/Courier/internal/types"
)

func testRoot() *db.Content {
	return &db.Content{
		ID:         "root",
		Owner:      "sandbox-token",
		Name:       "root",
		Type:       types.ContentTypeFolder,
		Server:     "sandbox1",
		CreateTime: time.Now(),
	}
}

// TestRNG tests the random number generator functionality
func TestRNG(t *testing.T) {
	// Test with same seed produces same sequence
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 100; i++ {
		val1 := rng1.Intn(1000)
		val2 := rng2.Intn(1000)
		if val1 != val2 {
			t.Errorf("Same seed should produce same sequence. Iteration %d: got %d and %d", i, val1, val2)
		}
	}

	// Test Intn returns values in range [0, n)
	n := 10
	for i := 0; i < 1000; i++ {
		val := rng1.Intn(n)
		if val < 0 || val >= n {
			t.Errorf("Intn(%d) should return value in range [0, %d), got %d", n, n, val)
		}
	}
}

// TestNewCode tests download code generation
func TestNewCode(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 100; i++ {
		code := NewCode(rng)
		if len(code) != CodeLength {
			t.Fatalf("NewCode() = %q, want length %d", code, CodeLength)
		}
		for _, r := range code {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				t.Fatalf("NewCode() = %q contains %q", code, r)
			}
		}
	}
}

// TestGenerateChildren tests the children generation functionality
func TestGenerateChildren(t *testing.T) {
	cfg := &types.SeedConfig{MaxDepth: 2, MinFolders: 1, MaxFolders: 3, MinFiles: 2, MaxFiles: 2}

	tests := []struct {
		name          string
		depth         int
		expectedEmpty bool
	}{
		{name: "root level", depth: 0},
		{name: "one below max", depth: 1},
		{name: "at max depth", depth: 2, expectedEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testRoot()
			children, err := GenerateChildren(root, tt.depth, NewRNG(42), cfg)
			if err != nil {
				t.Fatalf("GenerateChildren() error = %v", err)
			}
			if tt.expectedEmpty {
				if len(children) != 0 {
					t.Errorf("GenerateChildren() returned %d children, want 0", len(children))
				}
				return
			}

			folders, files := 0, 0
			for _, child := range children {
				if child.ParentID != root.ID {
					t.Errorf("child %s has parent %s, want %s", child.Name, child.ParentID, root.ID)
				}
				if child.Owner != root.Owner {
					t.Errorf("child %s has owner %s, want %s", child.Name, child.Owner, root.Owner)
				}
				if child.ID == "" {
					t.Errorf("child %s has no id", child.Name)
				}
				switch child.Type {
				case types.ContentTypeFolder:
					folders++
					if child.Code == "" {
						t.Errorf("folder %s has no code", child.Name)
					}
				case types.ContentTypeFile:
					files++
					if child.Size != SeedFileSize || len(child.MD5) != 32 {
						t.Errorf("file %s has size %d md5 %q", child.Name, child.Size, child.MD5)
					}
				}
			}
			if folders < cfg.MinFolders || folders > cfg.MaxFolders {
				t.Errorf("GenerateChildren() made %d folders, want [%d, %d]", folders, cfg.MinFolders, cfg.MaxFolders)
			}
			if files != 2 {
				t.Errorf("GenerateChildren() made %d files, want 2", files)
			}
		})
	}

	if _, err := GenerateChildren(testRoot(), 0, NewRNG(1), nil); err == nil {
		t.Error("GenerateChildren() with nil config expected error")
	}
}

// TestGenerateTree tests that trees are complete and parents come first
func TestGenerateTree(t *testing.T) {
	cfg := &types.SeedConfig{MaxDepth: 3, MinFolders: 1, MaxFolders: 2, MinFiles: 1, MaxFiles: 2}
	root := testRoot()

	nodes, err := GenerateTree(root, NewRNG(42), cfg)
	if err != nil {
		t.Fatalf("GenerateTree() error = %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("GenerateTree() returned no nodes")
	}

	depth := map[string]int{root.ID: 0}
	for _, node := range nodes {
		parentDepth, ok := depth[node.ParentID]
		if !ok {
			t.Fatalf("node %s appears before its parent %s", node.ID, node.ParentID)
		}
		if parentDepth >= cfg.MaxDepth {
			t.Errorf("node %s sits below max depth", node.ID)
		}
		depth[node.ID] = parentDepth + 1
	}

	// Same seed, same shape
	again, err := GenerateTree(testRoot(), NewRNG(42), cfg)
	if err != nil {
		t.Fatalf("GenerateTree() error = %v", err)
	}
	if len(again) != len(nodes) {
		t.Errorf("GenerateTree() made %d nodes, then %d with the same seed", len(nodes), len(again))
	}

	empty, err := GenerateTree(testRoot(), NewRNG(42), &types.SeedConfig{})
	if err != nil {
		t.Fatalf("GenerateTree() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("GenerateTree() with max depth 0 made %d nodes", len(empty))
	}
}

// TestValidateConfig tests the configuration checks
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *types.SeedConfig
		expectError bool
	}{
		{name: "nil", cfg: nil, expectError: true},
		{name: "zero", cfg: &types.SeedConfig{}},
		{name: "valid", cfg: &types.SeedConfig{MaxDepth: 2, MinFolders: 1, MaxFolders: 3, MinFiles: 1, MaxFiles: 4}},
		{name: "negative depth", cfg: &types.SeedConfig{MaxDepth: -1}, expectError: true},
		{name: "folder range", cfg: &types.SeedConfig{MinFolders: 3, MaxFolders: 1}, expectError: true},
		{name: "file range", cfg: &types.SeedConfig{MinFiles: -1, MaxFiles: 1}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateConfig() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func BenchmarkGenerateTree(b *testing.B) {
	cfg := &types.SeedConfig{MaxDepth: 3, MinFolders: 1, MaxFolders: 3, MinFiles: 1, MaxFiles: 4}
	rng := NewRNG(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := GenerateTree(testRoot(), rng, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
