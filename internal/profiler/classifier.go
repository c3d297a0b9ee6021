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
package profiler

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// DType is the classified semantic type of a column.
type DType string

const (
	DTypeInteger  DType = "integer"
	DTypeFloat    DType = "float"
	DTypeBoolean  DType = "boolean"
	DTypeDatetime DType = "datetime"
	DTypeString   DType = "string"
)

// AllDTypes lists every classifiable type, in the order they are offered as
// multiple-choice options.
var AllDTypes = []DType{DTypeInteger, DTypeFloat, DTypeBoolean, DTypeDatetime, DTypeString}

// timestampLayouts is the fixed, ordered list of accepted date/time
// representations for string cells. First match wins.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Classify infers the semantic type of a column from its raw cells.
//
// Non-null cells are scanned once: all boolean → boolean, else all integral
// → integer, else all numeric → float, else all recognized timestamps →
// datetime, else string. A single non-conforming cell demotes the whole
// column; an all-null column classifies as string. Pure and total: never
// returns an error.
func Classify(values []dataset.Value) DType {
	sawNonNull := false
	allBool, allInt, allFloat, allTime := true, true, true, true

	for _, v := range values {
		if v.IsNull() {
			continue
		}
		sawNonNull = true
		if allBool {
			_, ok := asBool(v)
			allBool = ok
		}
		if allInt {
			_, ok := asIntegral(v)
			allInt = ok
		}
		if allFloat {
			_, ok := asFloat(v)
			allFloat = ok
		}
		if allTime {
			_, ok := asTime(v)
			allTime = ok
		}
		if !allBool && !allInt && !allFloat && !allTime {
			return DTypeString
		}
	}
	if !sawNonNull {
		return DTypeString
	}

	switch {
	case allBool:
		return DTypeBoolean
	case allInt:
		return DTypeInteger
	case allFloat:
		return DTypeFloat
	case allTime:
		return DTypeDatetime
	}
	return DTypeString
}

func asBool(v dataset.Value) (bool, bool) {
	switch v.Kind {
	case dataset.KindBool:
		return v.Bool, true
	case dataset.KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// asIntegral accepts cells whose value is exactly integral: typed integers,
// floats without a fractional part, and strings that parse as base-10
// integers. Integral floats outside int64 range are rejected so the
// column stays float instead of overflowing.
func asIntegral(v dataset.Value) (int64, bool) {
	switch v.Kind {
	case dataset.KindInt:
		return v.Int, true
	case dataset.KindFloat:
		if v.Float == math.Trunc(v.Float) && v.Float >= -(1<<63) && v.Float < 1<<63 {
			return int64(v.Float), true
		}
	case dataset.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

func asFloat(v dataset.Value) (float64, bool) {
	switch v.Kind {
	case dataset.KindInt:
		return float64(v.Int), true
	case dataset.KindFloat:
		return v.Float, true
	case dataset.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func asTime(v dataset.Value) (time.Time, bool) {
	switch v.Kind {
	case dataset.KindTime:
		return v.Time, true
	case dataset.KindString:
		s := strings.TrimSpace(v.Str)
		for _, layout := range timestampLayouts {
			ts, err := time.Parse(layout, s)
			if err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
