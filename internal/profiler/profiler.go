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

// Package profiler turns an in-memory table into a structural profile:
// per-column semantic types and statistics plus dataset-level feature
// flags. Profiling is a pure function of the table content, so the same
// table always produces an identical profile.
package profiler

import (
	"strings"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// Options bounds the profile. Zero values fall back to the defaults, which
// match the reference behavior of the serving system.
type Options struct {
	ExampleCount       int // distinct sample values kept per column
	TopK               int // frequency-table length for categorical columns
	CardinalityCeiling int // max unique_count for a pivot-candidate column
	MaxPivotPairs      int // cap on emitted pivot pairs
}

// DefaultOptions are the fixed bounds used in production.
var DefaultOptions = Options{
	ExampleCount:       5,
	TopK:               5,
	CardinalityCeiling: 20,
	MaxPivotPairs:      8,
}

func (o Options) withDefaults() Options {
	if o.ExampleCount <= 0 {
		o.ExampleCount = DefaultOptions.ExampleCount
	}
	if o.TopK <= 0 {
		o.TopK = DefaultOptions.TopK
	}
	if o.CardinalityCeiling <= 0 {
		o.CardinalityCeiling = DefaultOptions.CardinalityCeiling
	}
	if o.MaxPivotPairs <= 0 {
		o.MaxPivotPairs = DefaultOptions.MaxPivotPairs
	}
	return o
}

// Features are dataset-level flags and reshaping hints derived from the
// column profiles.
type Features struct {
	HasNumeric           bool        `json:"has_numeric"`
	HasDatetime          bool        `json:"has_datetime"`
	HasCategorical       bool        `json:"has_categorical"`
	PivotCandidates      [][2]string `json:"pivot_candidates"`
	WideToLongCandidates [][]string  `json:"wide_to_long_candidates"`
}

// DatasetProfile is the full structural summary of a table.
type DatasetProfile struct {
	ContentHash string          `json:"content_hash"`
	NRows       int             `json:"n_rows"`
	NCols       int             `json:"n_cols"`
	Columns     []ColumnProfile `json:"columns"`
	Features    Features        `json:"features"`
}

// Column returns the profile of the named column, or nil.
func (p *DatasetProfile) Column(name string) *ColumnProfile {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// Profile summarizes a table with the default bounds.
func Profile(t *dataset.Table) *DatasetProfile {
	return ProfileWithOptions(t, DefaultOptions)
}

// ProfileWithOptions runs classification and the statistics builder once
// per column, preserving column order, then derives the dataset-level
// features. A zero-row or zero-column table degrades to an empty but valid
// profile.
func ProfileWithOptions(t *dataset.Table, opts Options) *DatasetProfile {
	opts = opts.withDefaults()

	profile := &DatasetProfile{
		ContentHash: t.Fingerprint(),
		NRows:       t.NumRows(),
		NCols:       t.NumCols(),
		Columns:     make([]ColumnProfile, 0, t.NumCols()),
	}

	for _, col := range t.Columns() {
		dtype := Classify(col.Values)
		profile.Columns = append(profile.Columns, ProfileColumn(col.Name, col.Values, dtype, opts))
	}

	profile.Features = deriveFeatures(profile, opts)
	return profile
}

func deriveFeatures(p *DatasetProfile, opts Options) Features {
	f := Features{
		PivotCandidates:      [][2]string{},
		WideToLongCandidates: [][]string{},
	}

	var categorical []*ColumnProfile
	for i := range p.Columns {
		col := &p.Columns[i]
		switch {
		case col.IsNumeric():
			f.HasNumeric = true
		case col.DType == DTypeDatetime:
			f.HasDatetime = true
		case col.DType == DTypeString:
			f.HasCategorical = true
		}
		if col.DType == DTypeString &&
			col.UniqueCount >= 2 && col.UniqueCount <= opts.CardinalityCeiling &&
			col.NullCount < p.NRows {
			categorical = append(categorical, col)
		}
	}

	// Pairs ordered by column position, bounded like the serving layer
	// bounds them.
pairs:
	for i := 0; i < len(categorical); i++ {
		for j := i + 1; j < len(categorical); j++ {
			f.PivotCandidates = append(f.PivotCandidates, [2]string{categorical[i].Name, categorical[j].Name})
			if len(f.PivotCandidates) >= opts.MaxPivotPairs {
				break pairs
			}
		}
	}

	f.WideToLongCandidates = wideToLongGroups(p.Columns)
	return f
}

// wideToLongGroups clusters column names that share a textual prefix
// (sales_2020/sales_2021, q1/q2/q3). Informational only: a hint that the
// table may be reshapeable from wide to long form.
func wideToLongGroups(columns []ColumnProfile) [][]string {
	groups := make(map[string][]string)
	var order []string
	for _, col := range columns {
		key := prefixKey(col.Name)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], col.Name)
	}

	var out [][]string
	for _, key := range order {
		if len(groups[key]) >= 2 {
			out = append(out, groups[key])
		}
	}
	if out == nil {
		out = [][]string{}
	}
	return out
}

func prefixKey(name string) string {
	trimmed := strings.TrimRight(name, "0123456789")
	if trimmed != name {
		return strings.TrimRight(trimmed, "_")
	}
	if i := strings.LastIndex(name, "_"); i > 0 {
		return name[:i]
	}
	return ""
}
