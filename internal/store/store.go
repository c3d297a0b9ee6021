/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store persists uploaded datasets and their profiles in a local
// SQLite catalog.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
)

// ErrNotFound reports a lookup for a dataset id the catalog does not hold.
var ErrNotFound = errors.New("dataset not found")

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	fingerprint  TEXT NOT NULL UNIQUE,
	n_rows       INTEGER NOT NULL,
	n_cols       INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	table_json   TEXT NOT NULL,
	profile_json TEXT
);`

// Dataset is one catalog entry.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	NRows       int    `json:"n_rows"`
	NCols       int    `json:"n_cols"`
	CreatedAt   string `json:"created_at"`
}

// Store is a SQLite-backed dataset catalog. All methods are safe for
// concurrent use; SQLite serializes the writes.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at path. Use ":memory:" for
// an ephemeral catalog.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save registers a table under the given display name. Content is
// deduplicated on the table fingerprint: re-uploading identical content
// returns the existing entry with created = false. A taken display name
// gets a numeric suffix, so "file.csv" becomes "file (1).csv".
func (s *Store) Save(ctx context.Context, name string, tbl *dataset.Table) (Dataset, bool, error) {
	fingerprint := tbl.Fingerprint()

	existing, err := s.byFingerprint(ctx, fingerprint)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Dataset{}, false, err
	}

	tableJSON, err := json.Marshal(tbl)
	if err != nil {
		return Dataset{}, false, fmt.Errorf("failed to encode table: %w", err)
	}

	uniqueName, err := s.uniqueName(ctx, name)
	if err != nil {
		return Dataset{}, false, err
	}

	entry := Dataset{
		ID:          uuid.NewString(),
		Name:        uniqueName,
		Fingerprint: fingerprint,
		NRows:       tbl.NumRows(),
		NCols:       tbl.NumCols(),
		CreatedAt:   time.Now().UTC().Format(dataset.TimestampLayout),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (id, name, fingerprint, n_rows, n_cols, created_at, table_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Name, entry.Fingerprint, entry.NRows, entry.NCols,
		entry.CreatedAt, string(tableJSON))
	if err != nil {
		return Dataset{}, false, fmt.Errorf("failed to insert dataset: %w", err)
	}
	return entry, true, nil
}

// uniqueName appends " (n)" before the extension until the name is free.
func (s *Store) uniqueName(ctx context.Context, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 1; ; n++ {
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM datasets WHERE name = ?`, candidate).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check name %q: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}

func (s *Store) byFingerprint(ctx context.Context, fingerprint string) (Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, n_rows, n_cols, created_at
		FROM datasets WHERE fingerprint = ?`, fingerprint)
	return scanDataset(row)
}

// Get returns one catalog entry by id.
func (s *Store) Get(ctx context.Context, id string) (Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, n_rows, n_cols, created_at
		FROM datasets WHERE id = ?`, id)
	return scanDataset(row)
}

// GetTable returns the stored table for a dataset id.
func (s *Store) GetTable(ctx context.Context, id string) (*dataset.Table, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT table_json FROM datasets WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	var tbl dataset.Table
	if err := json.Unmarshal([]byte(raw), &tbl); err != nil {
		return nil, fmt.Errorf("failed to decode stored table: %w", err)
	}
	return &tbl, nil
}

// List returns all catalog entries, newest first; creation-time ties fall
// back to name order so the listing stays stable.
func (s *Store) List(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fingerprint, n_rows, n_cols, created_at
		FROM datasets ORDER BY created_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var entries []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.Fingerprint, &d.NRows, &d.NCols, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		entries = append(entries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dataset rows: %w", err)
	}
	return entries, nil
}

// Delete removes a dataset and its profile.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveProfile persists the computed profile alongside the dataset.
func (s *Store) SaveProfile(ctx context.Context, id string, p *profiler.DatasetProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE datasets SET profile_json = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProfile returns the stored profile, or ErrNotFound when the dataset
// is unknown or has not been profiled yet.
func (s *Store) GetProfile(ctx context.Context, id string) (*profiler.DatasetProfile, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM datasets WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !raw.Valid {
		return nil, ErrNotFound
	}

	var p profiler.DatasetProfile
	if err := json.Unmarshal([]byte(raw.String), &p); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (Dataset, error) {
	var d Dataset
	err := row.Scan(&d.ID, &d.Name, &d.Fingerprint, &d.NRows, &d.NCols, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, ErrNotFound
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to scan dataset: %w", err)
	}
	return d, nil
}
