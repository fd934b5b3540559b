package db

// Table names
const (
	tableAccounts = "accounts"
	tableContents = "contents"
)

// contentColumns is the column list shared by every contents query
const contentColumns = `id, owner, parent_id, name, type, code, size, md5, mimetype, server,
download_count, public, password, description, expire, tags, create_time`

// schemaSQL lists the statements creating the sandbox tables
var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableAccounts + ` (
	token       VARCHAR PRIMARY KEY,
	email       VARCHAR NOT NULL DEFAULT '',
	tier        VARCHAR NOT NULL,
	root_folder VARCHAR NOT NULL,
	created_at  TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + tableContents + ` (
	id             VARCHAR PRIMARY KEY,
	owner          VARCHAR NOT NULL,
	parent_id      VARCHAR NOT NULL DEFAULT '',
	name           VARCHAR NOT NULL,
	type           VARCHAR NOT NULL,
	code           VARCHAR NOT NULL DEFAULT '',
	size           BIGINT NOT NULL DEFAULT 0,
	md5            VARCHAR NOT NULL DEFAULT '',
	mimetype       VARCHAR NOT NULL DEFAULT '',
	server         VARCHAR NOT NULL DEFAULT '',
	download_count BIGINT NOT NULL DEFAULT 0,
	public         BOOLEAN NOT NULL DEFAULT FALSE,
	password       VARCHAR NOT NULL DEFAULT '',
	description    VARCHAR NOT NULL DEFAULT '',
	expire         BIGINT NOT NULL DEFAULT 0,
	tags           VARCHAR NOT NULL DEFAULT '',
	create_time    TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_parent ON ` + tableContents + ` (parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_owner ON ` + tableContents + ` (owner)`,
}

// subtreeSQL selects the ids of a content and all of its descendants,
// parents before children
const subtreeSQL = `WITH RECURSIVE subtree(id, lvl) AS (
	SELECT id, 0 FROM contents WHERE id = ?
	UNION ALL
	SELECT c.id, s.lvl + 1 FROM contents c JOIN subtree s ON c.parent_id = s.id
)`

// optionColumns maps folder option names to their column
var optionColumns = map[string]string{
	"public":      "public",
	"password":    "password",
	"description": "description",
	"expire":      "expire",
	"tags":        "tags",
}
