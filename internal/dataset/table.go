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
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Column is one named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Table is an immutable in-memory rectangular table. Callers hand it to the
// profiler and question generator, which only ever read it.
type Table struct {
	columns []Column
	nRows   int
}

// New validates column shape and builds a Table. Every column must carry the
// same number of values and column names must be unique and non-empty; a
// mismatch is a malformed-input error, not something to truncate around.
func New(columns []Column) (*Table, error) {
	nRows := 0
	if len(columns) > 0 {
		nRows = len(columns[0].Values)
	}
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
		if len(col.Values) != nRows {
			return nil, fmt.Errorf("column %q has %d values, expected %d", col.Name, len(col.Values), nRows)
		}
	}
	return &Table{columns: columns, nRows: nRows}, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.nRows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.columns) }

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order. The slice and the cells it
// references must not be mutated.
func (t *Table) Columns() []Column { return t.columns }

// Row returns row i as cells in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Fingerprint derives a stable content identity for the table: column
// names, first row, last row and shape hashed together. Two uploads of the
// same content always map to the same fingerprint, which keys the profile
// cache and the catalog's dedup check.
func (t *Table) Fingerprint() string {
	parts := []string{
		strings.Join(t.ColumnNames(), ","),
		t.rowJSON(0),
		t.rowJSON(t.nRows - 1),
		strconv.Itoa(t.nRows),
		strconv.Itoa(len(t.columns)),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

func (t *Table) rowJSON(i int) string {
	if i < 0 || i >= t.nRows {
		return ""
	}
	rec := make(map[string]any, len(t.columns))
	for _, col := range t.columns {
		rec[col.Name] = col.Values[i].Native()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	return string(b)
}

// SampleRecords returns up to n leading rows as name→value records with
// timestamps rendered ISO-8601, suitable for a preview of the table.
func (t *Table) SampleRecords(n int) []map[string]any {
	if n > t.nRows {
		n = t.nRows
	}
	if n < 0 {
		n = 0
	}
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(t.columns))
		for _, col := range t.columns {
			rec[col.Name] = col.Values[i].Native()
		}
		records = append(records, rec)
	}
	return records
}
