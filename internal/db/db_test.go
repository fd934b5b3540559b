package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory database closed with the test
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testFolder(id, owner, parent, name string) *Content {
	return &Content{ID: id, Owner: owner, ParentID: parent, Name: name, Type: "folder", Code: id + "-code", CreateTime: time.Now()}
}

func testFile(id, owner, parent, name string, size int64) *Content {
	return &Content{ID: id, Owner: owner, ParentID: parent, Name: name, Type: "file", Size: size, MD5: "md5-" + id, CreateTime: time.Now()}
}

// seedTree inserts root -> {a.txt, docs -> {b.txt, deep -> {c.txt}}}
func seedTree(t *testing.T, db *DB) {
	t.Helper()
	require.NoError(t, db.InsertAccount(&Account{Token: "tok", Email: "me@example.com", Tier: "standard", RootFolder: "root", CreatedAt: time.Now()}))
	require.NoError(t, db.BulkInsertContents([]*Content{
		testFolder("root", "tok", "", "root"),
		testFile("a", "tok", "root", "a.txt", 10),
		testFolder("docs", "tok", "root", "docs"),
		testFile("b", "tok", "docs", "b.txt", 20),
		testFolder("deep", "tok", "docs", "deep"),
		testFile("c", "tok", "deep", "c.txt", 30),
	}))
}

// TestNewDB tests the New function
func TestNewDB(t *testing.T) {
	tests := []struct {
		name        string
		expectError bool
		setup       func() string
		cleanup     func(string)
	}{
		{
			name:        "in-memory database",
			expectError: false,
			setup:       func() string { return "" },
		},
		{
			name:        "temporary file database",
			expectError: false,
			setup: func() string {
				tmpFile, err := os.CreateTemp("", "test-*.db")
				if err != nil {
					t.Fatal(err)
				}
				tmpFile.Close()
				os.Remove(tmpFile.Name()) // DuckDB refuses an empty file
				return tmpFile.Name()
			},
			cleanup: func(path string) {
				os.Remove(path)
				os.Remove(path + ".wal")
			},
		},
		{
			name:        "missing directory",
			expectError: true,
			setup: func() string {
				return filepath.Join(t.TempDir(), "missing", "sandbox.db")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup()
			if tt.cleanup != nil {
				defer tt.cleanup(dbPath)
			}

			db, err := New(dbPath)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, db)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, db.conn)
			defer db.Close()

			// Schema creation is idempotent
			assert.NoError(t, db.InitializeSchema())
		})
	}
}

// TestAccounts tests account rows
func TestAccounts(t *testing.T) {
	db := newTestDB(t)

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.InsertAccount(&Account{Token: "tok", Email: "me@example.com", Tier: "standard", RootFolder: "root", CreatedAt: created}))

	account, err := db.GetAccount("tok")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", account.Email)
	assert.Equal(t, "root", account.RootFolder)
	assert.True(t, created.Equal(account.CreatedAt.UTC()))

	_, err = db.GetAccount("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Error(t, db.InsertAccount(&Account{Token: "tok", Tier: "standard", RootFolder: "x", CreatedAt: created}), "duplicate token")
}

// TestDBMethods tests the content methods
func TestDBMethods(t *testing.T) {
	db := newTestDB(t)
	seedTree(t, db)

	t.Run("GetContent", func(t *testing.T) {
		c, err := db.GetContent("b")
		require.NoError(t, err)
		assert.Equal(t, "b.txt", c.Name)
		assert.Equal(t, "docs", c.ParentID)
		assert.EqualValues(t, 20, c.Size)
		assert.Equal(t, "md5-b", c.MD5)

		_, err = db.GetContent("missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("GetChildren", func(t *testing.T) {
		children, err := db.GetChildren("docs")
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "deep", children[0].ID, "folders first")
		assert.Equal(t, "b", children[1].ID)
	})

	t.Run("GetParentAndChildren", func(t *testing.T) {
		nodes, err := db.GetParentAndChildren("root")
		require.NoError(t, err)
		require.Len(t, nodes, 3)
		assert.Equal(t, "root", nodes[0].ID)
		assert.Equal(t, "docs", nodes[1].ID)
		assert.Equal(t, "a", nodes[2].ID)

		nodes, err = db.GetParentAndChildren("missing")
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("GetSubtree", func(t *testing.T) {
		nodes, err := db.GetSubtree("docs")
		require.NoError(t, err)
		var ids []string
		for _, n := range nodes {
			ids = append(ids, n.ID)
		}
		assert.Equal(t, []string{"docs", "b", "deep", "c"}, ids)
	})

	t.Run("UpdateFolderOption", func(t *testing.T) {
		require.NoError(t, db.UpdateFolderOption("docs", "public", true))
		require.NoError(t, db.UpdateFolderOption("docs", "tags", "x,y"))
		require.NoError(t, db.UpdateFolderOption("docs", "expire", int64(1700000000)))

		c, err := db.GetContent("docs")
		require.NoError(t, err)
		assert.True(t, c.Public)
		assert.Equal(t, "x,y", c.Tags)
		assert.EqualValues(t, 1700000000, c.Expire)

		assert.Error(t, db.UpdateFolderOption("docs", "color", "red"))
		assert.True(t, errors.Is(db.UpdateFolderOption("b", "public", true), ErrNotFound), "files have no options")
	})

	t.Run("Totals", func(t *testing.T) {
		totals, err := db.Totals("tok")
		require.NoError(t, err)
		assert.Equal(t, Totals{Files: 3, Folders: 2, Size: 60}, *totals)

		empty, err := db.Totals("nobody")
		require.NoError(t, err)
		assert.Equal(t, Totals{}, *empty)
	})

	t.Run("DeleteSubtree", func(t *testing.T) {
		removed, err := db.DeleteSubtree("docs")
		require.NoError(t, err)
		assert.EqualValues(t, 4, removed)

		_, err = db.GetContent("c")
		assert.True(t, errors.Is(err, ErrNotFound))

		count, err := db.CountContents()
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		_, err = db.DeleteSubtree("docs")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("DeleteAll", func(t *testing.T) {
		require.NoError(t, db.DeleteAll())
		count, err := db.CountContents()
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		_, err = db.GetAccount("tok")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

// TestBulkInsertRollback tests that a failing bulk insert leaves no rows
func TestBulkInsertRollback(t *testing.T) {
	db := newTestDB(t)

	err := db.BulkInsertContents([]*Content{
		testFolder("x", "tok", "", "x"),
		testFolder("x", "tok", "", "duplicate"),
	})
	require.Error(t, err)

	count, err := db.CountContents()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	assert.NoError(t, db.BulkInsertContents(nil))
}
