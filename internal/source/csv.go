package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// DefaultNullMarkers are the cell spellings treated as missing when the
// config does not override them.
var DefaultNullMarkers = []string{"", "na", "n/a", "null", "none", "nan"}

// csvSource reads a single CSV file with a header row. Cells are loaded as
// strings (or nulls); type detection happens downstream during profiling.
type csvSource struct {
	cfg   Config
	nulls map[string]bool
}

func newCSV(cfg Config) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("driver csv requires a file path")
	}
	markers := cfg.NullMarkers
	if markers == nil {
		markers = DefaultNullMarkers
	}
	nulls := make(map[string]bool, len(markers))
	for _, m := range markers {
		nulls[strings.ToLower(m)] = true
	}
	return &csvSource{cfg: cfg, nulls: nulls}, nil
}

func (s *csvSource) Name() string { return filepath.Base(s.cfg.Path) }

func (s *csvSource) Close() error { return nil }

func (s *csvSource) Fetch(ctx context.Context) (*dataset.Table, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file %s is empty", s.cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]dataset.Column, len(header))
	for i, name := range header {
		columns[i] = dataset.Column{Name: name}
	}

	limit := s.cfg.maxRows()
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", count+2, err)
		}
		if count >= limit {
			return nil, &ErrTooManyRows{Limit: limit}
		}
		for i, cell := range record {
			columns[i].Values = append(columns[i].Values, s.cell(cell))
		}
		count++
	}

	return dataset.New(columns)
}

// Marker comparison is case-insensitive so "NA" and "na" both read as
// missing.
func (s *csvSource) cell(raw string) dataset.Value {
	if s.nulls[strings.ToLower(raw)] {
		return dataset.Null()
	}
	return dataset.StringValue(raw)
}

func init() {
	Register("csv", newCSV)
}
