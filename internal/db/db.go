package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned when a looked up row does not exist
var ErrNotFound = errors.New("not found")

// Account is a row of the accounts table
type Account struct {
	Token      string
	Email      string
	Tier       string
	RootFolder string
	CreatedAt  time.Time
}

// Content is a row of the contents table
type Content struct {
	ID            string
	Owner         string // token of the owning account
	ParentID      string // empty for root folders
	Name          string
	Type          string
	Code          string
	Size          int64
	MD5           string
	MimeType      string
	Server        string
	DownloadCount int64
	Public        bool
	Password      string
	Description   string
	Expire        int64
	Tags          string
	CreateTime    time.Time
}

// Totals aggregates the contents of an account
type Totals struct {
	Files         int64
	Folders       int64
	Size          int64
	DownloadCount int64
}

// DB wraps the DuckDB connection. Every method holds the mutex for the
// duration of its statements.
type DB struct {
	conn *sql.DB
	mu   sync.Mutex
}

// New opens the database at dbPath, "" being in-memory, and creates the
// schema when missing
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	// One connection, statements are serialized by mu
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.InitializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// InitializeSchema creates the tables and indexes
func (db *DB) InitializeSchema() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, stmt := range schemaSQL {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertAccount inserts a new account
func (db *DB) InsertAccount(account *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		`INSERT INTO accounts (token, email, tier, root_folder, created_at) VALUES (?, ?, ?, ?, ?)`,
		account.Token, account.Email, account.Tier, account.RootFolder, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount returns the account owning token
func (db *DB) GetAccount(token string) (*Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	account := &Account{}
	err := db.conn.QueryRow(
		`SELECT token, email, tier, root_folder, created_at FROM accounts WHERE token = ?`, token,
	).Scan(&account.Token, &account.Email, &account.Tier, &account.RootFolder, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func contentValues(c *Content) []any {
	return []any{
		c.ID, c.Owner, c.ParentID, c.Name, c.Type, c.Code, c.Size, c.MD5, c.MimeType, c.Server,
		c.DownloadCount, c.Public, c.Password, c.Description, c.Expire, c.Tags, c.CreateTime,
	}
}

const insertContentSQL = `INSERT INTO contents (` + contentColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertContent inserts a new file or folder
func (db *DB) InsertContent(c *Content) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(insertContentSQL, contentValues(c)...); err != nil {
		return fmt.Errorf("failed to insert content %s: %w", c.ID, err)
	}
	return nil
}

// BulkInsertContents inserts contents in a single transaction
func (db *DB) BulkInsertContents(contents []*Content) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(contents) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertContentSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range contents {
		if _, err := stmt.Exec(contentValues(c)...); err != nil {
			return fmt.Errorf("failed to insert content %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*Content, error) {
	c := &Content{}
	err := row.Scan(
		&c.ID, &c.Owner, &c.ParentID, &c.Name, &c.Type, &c.Code, &c.Size, &c.MD5, &c.MimeType, &c.Server,
		&c.DownloadCount, &c.Public, &c.Password, &c.Description, &c.Expire, &c.Tags, &c.CreateTime,
	)
	return c, err
}

func scanContents(rows *sql.Rows) ([]*Content, error) {
	defer rows.Close()

	var contents []*Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contents: %w", err)
	}
	return contents, nil
}

// GetContent returns the content with the given id
func (db *DB) GetContent(id string) (*Content, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, err := scanContent(db.conn.QueryRow(`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get content %s: %w", id, err)
	}
	return c, nil
}

// GetChildren returns the direct children of parentID, folders first
func (db *DB) GetChildren(parentID string) ([]*Content, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(`SELECT `+contentColumns+` FROM contents WHERE parent_id = ? ORDER BY type DESC, name`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of %s: %w", parentID, err)
	}
	return scanContents(rows)
}

// GetParentAndChildren returns a content followed by its direct children in
// one query. The result is empty when id does not exist.
func (db *DB) GetParentAndChildren(id string) ([]*Content, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(`SELECT `+contentColumns+` FROM contents
WHERE id = ? OR parent_id = ?
ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END, type DESC, name`, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s and children: %w", id, err)
	}
	return scanContents(rows)
}

// GetSubtree returns a content and all of its descendants, parents before
// children
func (db *DB) GetSubtree(id string) ([]*Content, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(subtreeSQL+`
SELECT `+prefixed("c", contentColumns)+` FROM contents c JOIN subtree s ON c.id = s.id
ORDER BY s.lvl, c.name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtree of %s: %w", id, err)
	}
	return scanContents(rows)
}

// prefixed qualifies every column of a column list with alias
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// UpdateFolderOption sets the column backing option on a folder
func (db *DB) UpdateFolderOption(id, option string, value any) error {
	column, ok := optionColumns[option]
	if !ok {
		return fmt.Errorf("unknown folder option %q", option)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.Exec(`UPDATE contents SET `+column+` = ? WHERE id = ? AND type = 'folder'`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s of %s: %w", option, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSubtree deletes a content and all of its descendants and returns
// the number of rows removed
func (db *DB) DeleteSubtree(id string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.Exec(`DELETE FROM contents WHERE id IN (`+subtreeSQL+` SELECT id FROM subtree)`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	return rowsAffected, nil
}

// Totals returns the counters of the contents owned by token, root folder
// excluded
func (db *DB) Totals(token string) (*Totals, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	totals := &Totals{}
	err := db.conn.QueryRow(`SELECT
	CAST(COALESCE(SUM(CASE WHEN type = 'file' THEN 1 ELSE 0 END), 0) AS BIGINT),
	CAST(COALESCE(SUM(CASE WHEN type = 'folder' AND parent_id <> '' THEN 1 ELSE 0 END), 0) AS BIGINT),
	CAST(COALESCE(SUM(size), 0) AS BIGINT),
	CAST(COALESCE(SUM(download_count), 0) AS BIGINT)
FROM contents WHERE owner = ?`, token).Scan(&totals.Files, &totals.Folders, &totals.Size, &totals.DownloadCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}
	return totals, nil
}

// CountContents returns the number of rows in the contents table
func (db *DB) CountContents() (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var count int64
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM contents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contents: %w", err)
	}
	return count, nil
}

// DeleteAll removes every account and content
func (db *DB) DeleteAll() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, table := range []string{tableContents, tableAccounts} {
		if _, err := db.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to delete from %s table: %w", table, err)
		}
	}
	return nil
}
