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

package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// Dialect abstracts what differs between SQL engines: how to open a
// connection pool (standard or through the Cloud SQL connector) and how to
// quote identifiers.
type Dialect interface {
	CreateStandardPool(cfg Config) (*sql.DB, error)
	CreateCloudSQLPool(cfg Config) (*sql.DB, error)
	QuoteIdentifier(name string) string
}

// sqlSource fetches one table or query result over database/sql.
type sqlSource struct {
	pool    *sql.DB
	dialect Dialect
	cfg     Config
}

// NewSQL opens a pool for the dialect and wraps it as a Source. Drivers
// whose name starts with "cloudsql" route through the Cloud SQL connector.
func NewSQL(cfg Config, d Dialect) (Source, error) {
	if cfg.Table == "" && cfg.Query == "" {
		return nil, fmt.Errorf("driver %s requires a table name or a query", cfg.Driver)
	}

	var pool *sql.DB
	var err error
	if strings.HasPrefix(cfg.Driver, "cloudsql") {
		pool, err = d.CreateCloudSQLPool(cfg)
	} else {
		pool, err = d.CreateStandardPool(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool for driver %s: %w", cfg.Driver, err)
	}

	return &sqlSource{pool: pool, dialect: d, cfg: cfg}, nil
}

// NewSQLWithPool wraps an existing pool. Tests use it to substitute a mock
// connection.
func NewSQLWithPool(cfg Config, d Dialect, pool *sql.DB) Source {
	return &sqlSource{pool: pool, dialect: d, cfg: cfg}
}

func (s *sqlSource) Name() string {
	if s.cfg.Table != "" {
		return s.cfg.Table
	}
	return "query"
}

func (s *sqlSource) Close() error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

func (s *sqlSource) Fetch(ctx context.Context) (*dataset.Table, error) {
	if err := s.pool.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database for driver %s: %w", s.cfg.Driver, err)
	}

	query := s.cfg.Query
	if query == "" {
		query = fmt.Sprintf("SELECT * FROM %s", s.dialect.QuoteIdentifier(s.cfg.Table))
	}

	rows, err := s.pool.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("result set has no columns")
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.Column{Name: name}
	}

	limit := s.cfg.maxRows()
	count := 0
	cells := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if count >= limit {
			return nil, &ErrTooManyRows{Limit: limit}
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning row %d: %w", count+1, err)
		}
		for i, cell := range cells {
			columns[i].Values = append(columns[i].Values, cellValue(cell))
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return dataset.New(columns)
}

// cellValue maps a database/sql scan result onto a typed cell.
func cellValue(cell any) dataset.Value {
	switch v := cell.(type) {
	case nil:
		return dataset.Null()
	case bool:
		return dataset.BoolValue(v)
	case int64:
		return dataset.IntValue(v)
	case float64:
		return dataset.FloatValue(v)
	case time.Time:
		return dataset.TimeValue(v)
	case []byte:
		return dataset.StringValue(string(v))
	case string:
		return dataset.StringValue(v)
	default:
		return dataset.StringValue(fmt.Sprintf("%v", v))
	}
}
