// Package sqlite registers a source driver for local SQLite files, backed
// by the pure-Go modernc.org/sqlite driver so builds stay cgo-free.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source"
)

type sqliteDialect struct{}

var _ source.Dialect = (*sqliteDialect)(nil)

func (d sqliteDialect) CreateStandardPool(cfg source.Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("driver sqlite requires a file path")
	}
	pool, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open (sqlite): %w", err)
	}
	return pool, nil
}

func (d sqliteDialect) CreateCloudSQLPool(cfg source.Config) (*sql.DB, error) {
	return nil, fmt.Errorf("sqlite has no Cloud SQL variant")
}

func (d sqliteDialect) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, `"`, `""`)
	return fmt.Sprintf(`"%s"`, name)
}

func init() {
	source.Register("sqlite", func(cfg source.Config) (source.Source, error) {
		return source.NewSQL(cfg, sqliteDialect{})
	})
}
