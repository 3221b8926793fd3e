package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"cabinets/internal/database"
)

// schemaSQL creates every table for one prefix. Arguments, in order:
// cabinets, documents, document_cabinets, permission_grants, access_entries, events.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT REFERENCES %[1]s(id) ON DELETE CASCADE,
	label      TEXT NOT NULL CHECK (length(label) BETWEEN 1 AND 128),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK (parent_id IS NULL OR parent_id <> id)
);
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_root_label_idx
	ON %[1]s (label) WHERE parent_id IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_sibling_label_idx
	ON %[1]s (parent_id, label) WHERE parent_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS %[2]s (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[3]s (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	cabinet_id  TEXT NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
	document_id TEXT NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
	added_at    TEXT NOT NULL,
	UNIQUE (cabinet_id, document_id)
);
CREATE INDEX IF NOT EXISTS %[3]s_document_idx ON %[3]s (document_id);

CREATE TABLE IF NOT EXISTS %[4]s (
	user_id    TEXT NOT NULL,
	permission TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, permission)
);

CREATE TABLE IF NOT EXISTS %[5]s (
	user_id     TEXT NOT NULL,
	object_type TEXT NOT NULL,
	object_id   TEXT NOT NULL,
	permission  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (user_id, object_type, object_id, permission)
);
CREATE INDEX IF NOT EXISTS %[5]s_object_idx ON %[5]s (object_type, object_id);

CREATE TABLE IF NOT EXISTS %[6]s (
	id                 TEXT PRIMARY KEY,
	namespace          TEXT NOT NULL,
	name               TEXT NOT NULL,
	actor_id           TEXT NOT NULL,
	target_type        TEXT NOT NULL,
	target_id          TEXT NOT NULL,
	action_object_type TEXT,
	action_object_id   TEXT,
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS %[6]s_target_idx ON %[6]s (target_type, target_id, created_at);
`

// Migrate creates the schema for the given table names (idempotent)
func Migrate(ctx context.Context, db *sql.DB, tables *database.TableNames) error {
	query := fmt.Sprintf(schemaSQL,
		tables.Cabinets,
		tables.Documents,
		tables.DocumentCabinets,
		tables.PermissionGrants,
		tables.AccessEntries,
		tables.Events,
	)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// DropAll drops every table for the given table names
func DropAll(ctx context.Context, db *sql.DB, tables *database.TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", all[i])); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
