// Package sqlite stores script records in SQLite through modernc.org/sqlite
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// ScriptStore implements store.ScriptStore for SQLite
type ScriptStore struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// Open opens a SQLite database, e.g. "file:scripts.db" or ":memory:"
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewScriptStore(db *sql.DB, serializer *serialization.Serializer) *ScriptStore {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &ScriptStore{
		db:         db,
		serializer: serializer,
		tableName:  "scripts",
	}
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection via identifiers.
func (s *ScriptStore) WithTableName(name string) *ScriptStore {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Save inserts or replaces a record
func (s *ScriptStore) Save(ctx context.Context, r *store.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	script, err := s.serializer.Serialize(r.Script)
	if err != nil {
		return fmt.Errorf("failed to serialize script: %w", err)
	}
	metadataJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, name, script, metadata, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		r.ID.String(), r.Name, script, string(metadataJSON), r.UpdatedAt.UnixNano(), r.Version)
	if err != nil {
		return fmt.Errorf("failed to save script: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *ScriptStore) Load(ctx context.Context, id uuid.UUID) (*store.Record, error) {
	if id == uuid.Nil {
		return nil, store.ErrInvalidRecordID
	}

	query := fmt.Sprintf(`
		SELECT id, name, script, metadata, updated_at, version
		FROM %s
		WHERE id = ?
	`, s.tableName)

	r, err := s.scan(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return r, nil
}

// List retrieves records based on filter criteria
func (s *ScriptStore) List(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	query, args := s.buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var records []*store.Record
	for rows.Next() {
		r, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan script row: %w", err)
		}
		if filter.Tag != "" && !r.HasTag(filter.Tag) {
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	if filter.Tag != "" {
		records = filter.Page(records)
	}
	return records, nil
}

// Delete removes a record by ID
func (s *ScriptStore) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return store.ErrInvalidRecordID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	result, err := s.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *ScriptStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			script BLOB NOT NULL,
			metadata TEXT,
			updated_at INTEGER NOT NULL,
			version TEXT NOT NULL DEFAULT '1.0'
		);

		CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name);
		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *ScriptStore) scan(row scanner) (*store.Record, error) {
	var (
		r            store.Record
		id           string
		script       []byte
		metadataJSON sql.NullString
		updatedAt    int64
	)
	if err := row.Scan(&id, &r.Name, &script, &metadataJSON, &updatedAt, &r.Version); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", id, err)
	}
	r.ID = parsed
	r.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if err := s.serializer.Deserialize(script, &r.Script); err != nil {
		return nil, fmt.Errorf("failed to deserialize script: %w", err)
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to deserialize metadata: %w", err)
		}
	}
	return &r, nil
}

// buildListQuery constructs the SQL query for listing records.
// Tags live in the metadata blob, so a tag filter disables SQL paging.
func (s *ScriptStore) buildListQuery(filter store.Filter) (string, []any) {
	query := fmt.Sprintf("SELECT id, name, script, metadata, updated_at, version FROM %s WHERE 1=1", s.tableName)
	args := make([]any, 0)

	if filter.Name != "" {
		query += " AND name = ?"
		args = append(args, filter.Name)
	}
	if filter.Since != nil {
		query += " AND updated_at > ?"
		args = append(args, filter.Since.UnixNano())
	}
	if filter.Before != nil {
		query += " AND updated_at < ?"
		args = append(args, filter.Before.UnixNano())
	}

	query += " ORDER BY updated_at DESC"
	if filter.Tag != "" {
		return query, args
	}
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit == 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}
	return query, args
}

// Close closes the database connection
func (s *ScriptStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
