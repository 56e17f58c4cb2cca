// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps fetched CEDAR instances in a local SQLite database so
// the ontology can be rebuilt without contacting the server. It stores the
// input records only; the ontology is always rebuilt from them.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

const dbFile = "cedar2ccf.db"

// ErrNotCached is returned when a template has never been stored.
var ErrNotCached = errors.New("template not in cache")

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	dir string
	now func() time.Time
}

// NewStore opens or creates the cache database at dir/cedar2ccf.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".cedar2ccf"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, dir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS templates (
			iri TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			instance_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS instances (
			template TEXT NOT NULL REFERENCES templates(iri) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id TEXT,
			record TEXT NOT NULL,
			PRIMARY KEY (template, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_instances_id ON instances(id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put replaces the cached instances of template with instances, keeping
// their order.
func (s *Store) Put(ctx context.Context, template string, instances []types.MetadataInstance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM instances WHERE template = ?`, template); err != nil {
		return fmt.Errorf("deleting old instances: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO templates (iri, fetched_at, instance_count) VALUES (?, ?, ?)
		 ON CONFLICT(iri) DO UPDATE SET fetched_at=excluded.fetched_at, instance_count=excluded.instance_count`,
		template, s.now().UTC().Format(time.RFC3339Nano), len(instances),
	)
	if err != nil {
		return fmt.Errorf("upserting template: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO instances (template, position, id, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, inst := range instances {
		record, err := json.Marshal(inst)
		if err != nil {
			return fmt.Errorf("encoding instance %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, template, i, inst.ID, string(record)); err != nil {
			return fmt.Errorf("inserting instance %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Instances returns the cached instances of template in stored order, or
// ErrNotCached.
func (s *Store) Instances(ctx context.Context, template string) ([]types.MetadataInstance, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT instance_count FROM templates WHERE iri = ?`, template).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", template, ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up template: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM instances WHERE template = ? ORDER BY position`, template)
	if err != nil {
		return nil, fmt.Errorf("querying instances: %w", err)
	}
	defer rows.Close()

	instances := make([]types.MetadataInstance, 0, count)
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning instance: %w", err)
		}
		var inst types.MetadataInstance
		if err := json.Unmarshal([]byte(record), &inst); err != nil {
			return nil, fmt.Errorf("decoding cached instance: %w", err)
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// Template summarizes one cached template.
type Template struct {
	IRI       string    `json:"iri" yaml:"iri"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Count     int       `json:"instance_count" yaml:"instance_count"`
}

// Templates lists cached templates ordered by IRI.
func (s *Store) Templates(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT iri, fetched_at, instance_count FROM templates ORDER BY iri`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		var fetchedAt string
		if err := rows.Scan(&t.IRI, &fetchedAt, &t.Count); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			t.FetchedAt = ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
