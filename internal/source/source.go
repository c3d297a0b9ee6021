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

// Package source loads tabular data into in-memory tables from files and
// SQL databases. Concrete drivers register themselves by name; callers go
// through Open so the CLI stays agnostic of which drivers were compiled in.
package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// DefaultMaxRows caps ingestion when the caller does not set a limit.
const DefaultMaxRows = 100000

// Config carries everything a driver may need to reach its data. File
// drivers read Path; SQL drivers read the connection fields plus either
// Table or Query.
type Config struct {
	Driver string

	// File-backed drivers.
	Path string

	// SQL drivers.
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Cloud SQL connector settings, used by the cloudsql* drivers.
	CloudSQLInstanceConnectionName string
	UsePrivateIP                   bool

	// What to fetch: a bare table name or a full SELECT. Query wins when
	// both are set.
	Table string
	Query string

	// Ingestion guards. MaxRows ≤ 0 means DefaultMaxRows. NullMarkers are
	// the cell spellings a file driver treats as missing.
	MaxRows     int
	NullMarkers []string
}

func (c Config) maxRows() int {
	if c.MaxRows <= 0 {
		return DefaultMaxRows
	}
	return c.MaxRows
}

// Source is a handle on one loadable dataset.
type Source interface {
	// Name identifies the dataset for catalog display: a file base name or
	// a table name.
	Name() string
	Fetch(ctx context.Context) (*dataset.Table, error)
	Close() error
}

// Factory builds a Source for one driver name.
type Factory func(cfg Config) (Source, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register installs a driver factory under the given name. Drivers call
// this from init.
func Register(driver string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[driver]; exists {
		zap.L().Warn("source driver is being overwritten", zap.String("driver", driver))
	}
	factories[driver] = factory
}

// Open builds a Source for cfg.Driver.
func Open(cfg Config) (Source, error) {
	mu.RLock()
	factory, ok := factories[cfg.Driver]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported source driver: %s (available: %v)", cfg.Driver, Drivers())
	}
	return factory(cfg)
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrTooManyRows reports an ingestion aborted by the row cap.
type ErrTooManyRows struct {
	Limit int
}

func (e *ErrTooManyRows) Error() string {
	return fmt.Sprintf("source exceeds the row limit of %d", e.Limit)
}
