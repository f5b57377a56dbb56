// Package postgres stores script records in PostgreSQL through pgx
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// ScriptStore implements store.ScriptStore for PostgreSQL
type ScriptStore struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// Connect opens a pool for dsn and checks it is reachable
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func NewScriptStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *ScriptStore {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &ScriptStore{
		pool:       pool,
		serializer: serializer,
		tableName:  "scripts",
	}
}

// WithTableName overrides the table; names other than [A-Za-z0-9_]+ are ignored
func (s *ScriptStore) WithTableName(name string) *ScriptStore {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// Save inserts a record or replaces the stored one
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
		INSERT INTO %s (id, name, script, metadata, tags, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			script = EXCLUDED.script,
			metadata = EXCLUDED.metadata,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
	`, s.tableName)

	tags := r.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err = s.pool.Exec(ctx, query, r.ID, r.Name, script, metadataJSON, tags, r.UpdatedAt, r.Version)
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
		WHERE id = $1
	`, s.tableName)

	r, err := s.scan(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := s.pool.Query(ctx, query, args...)
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
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	return records, nil
}

// Delete removes a record by ID
func (s *ScriptStore) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return store.ErrInvalidRecordID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *ScriptStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			script BYTEA NOT NULL,
			metadata JSONB,
			tags TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version VARCHAR(50) NOT NULL DEFAULT '1.0'
		);

		CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name);
		CREATE INDEX IF NOT EXISTS idx_%s_tags ON %s USING GIN (tags);
		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *ScriptStore) scan(row pgx.Row) (*store.Record, error) {
	var (
		r            store.Record
		script       []byte
		metadataJSON []byte
	)
	if err := row.Scan(&r.ID, &r.Name, &script, &metadataJSON, &r.UpdatedAt, &r.Version); err != nil {
		return nil, err
	}
	if err := s.serializer.Deserialize(script, &r.Script); err != nil {
		return nil, fmt.Errorf("failed to deserialize script: %w", err)
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to deserialize metadata: %w", err)
		}
	}
	return &r, nil
}

// buildListQuery constructs the SQL query for listing records
func (s *ScriptStore) buildListQuery(filter store.Filter) (string, []any) {
	query := fmt.Sprintf("SELECT id, name, script, metadata, updated_at, version FROM %s WHERE 1=1", s.tableName)
	args := make([]any, 0)
	argCount := 0

	if filter.Name != "" {
		argCount++
		query += fmt.Sprintf(" AND name = $%d", argCount)
		args = append(args, filter.Name)
	}
	if filter.Tag != "" {
		argCount++
		query += fmt.Sprintf(" AND $%d = ANY(tags)", argCount)
		args = append(args, filter.Tag)
	}
	if filter.Since != nil {
		argCount++
		query += fmt.Sprintf(" AND updated_at > $%d", argCount)
		args = append(args, *filter.Since)
	}
	if filter.Before != nil {
		argCount++
		query += fmt.Sprintf(" AND updated_at < $%d", argCount)
		args = append(args, *filter.Before)
	}

	query += " ORDER BY updated_at DESC"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}
	return query, args
}

// Close closes the database connection pool
func (s *ScriptStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
