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

// Package quiz generates deterministic practice questions from a dataset
// profile and scores submitted answers against their embedded ground
// truths. For a fixed (dataset content, seed, limit), generation is
// byte-for-byte reproducible; question ids are stable across regenerations
// of the same set.
package quiz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the closed set of question kinds.
type Kind string

const (
	KindDtypeIdentification Kind = "dtype-identification"
	KindMissingPercentage   Kind = "missing-percentage"
	KindUniqueCount         Kind = "unique-count"
	KindTopKValue           Kind = "top-k-value"
	KindNumericMin          Kind = "numeric-min"
	KindNumericMax          Kind = "numeric-max"
	KindNumericMean         Kind = "numeric-mean"
	KindDateRange           Kind = "date-range"
)

// Truth is the ground-truth value embedded in a question. A closed tagged
// union: the concrete type is fixed by the question kind, so grading can
// switch exhaustively instead of sniffing a dynamic value.
type Truth interface {
	// Text renders the canonical short-answer form of the ground truth.
	Text() string
	truthMarker()
}

// TextTruth is a literal answer: a dtype name or a categorical value.
type TextTruth string

// NumberTruth is a numeric statistic, already rounded to Decimals places
// when a rounding rule applies (Decimals < 0 means no rule).
type NumberTruth struct {
	Value    float64
	Decimals int
}

// CountTruth is a non-negative integer answer.
type CountTruth int

// DateRangeTruth is a min/max timestamp pair in ISO-8601 without offset.
type DateRangeTruth struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (t TextTruth) Text() string { return string(t) }
func (t TextTruth) truthMarker() {}
func (t NumberTruth) Text() string {
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}
func (t NumberTruth) truthMarker() {}
func (t CountTruth) Text() string  { return strconv.Itoa(int(t)) }
func (t CountTruth) truthMarker()  {}
func (t DateRangeTruth) Text() string {
	return t.Min + " → " + t.Max
}
func (t DateRangeTruth) truthMarker() {}

// Metadata carries the source column and any rounding rule the template
// applied to the ground truth.
type Metadata struct {
	Column string `json:"column"`
	Round  int    `json:"round,omitempty"`
}

// Question is a generated value object. Choices present means
// multiple-choice; absent means short-answer.
type Question struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices,omitempty"`
	Truth    Truth    `json:"answer"`
	Metadata Metadata `json:"metadata"`
}

// IsMultipleChoice reports whether the question is answered by choosing an
// option index.
func (q *Question) IsMultipleChoice() bool { return len(q.Choices) > 0 }

// QuestionSet is the ordered result of one generation request.
type QuestionSet struct {
	DatasetID string     `json:"dataset_id"`
	Seed      int64      `json:"seed"`
	Count     int        `json:"count"`
	Questions []Question `json:"questions"`
}

// questionWire is the serialized shape; answer is typed per question kind.
type questionWire struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"type"`
	Prompt   string          `json:"prompt"`
	Choices  []string        `json:"choices,omitempty"`
	Answer   json.RawMessage `json:"answer"`
	Metadata Metadata        `json:"metadata"`
}

// MarshalJSON renders the ground truth in the shape consumers expect:
// strings for textual answers, numbers for statistics and counts, a
// {min,max} object for date ranges.
func (q Question) MarshalJSON() ([]byte, error) {
	var answer any
	switch t := q.Truth.(type) {
	case TextTruth:
		answer = string(t)
	case NumberTruth:
		answer = t.Value
	case CountTruth:
		answer = int(t)
	case DateRangeTruth:
		answer = t
	default:
		return nil, fmt.Errorf("question %s: unknown ground truth type %T", q.ID, q.Truth)
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionWire{
		ID:       q.ID,
		Kind:     q.Kind,
		Prompt:   q.Prompt,
		Choices:  q.Choices,
		Answer:   raw,
		Metadata: q.Metadata,
	})
}

// UnmarshalJSON restores the typed ground truth from the kind tag.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	q.ID = w.ID
	q.Kind = w.Kind
	q.Prompt = w.Prompt
	q.Choices = w.Choices
	q.Metadata = w.Metadata

	switch w.Kind {
	case KindDtypeIdentification, KindTopKValue:
		var s string
		if err := json.Unmarshal(w.Answer, &s); err != nil {
			return fmt.Errorf("question %s: %w", w.ID, err)
		}
		q.Truth = TextTruth(s)
	case KindMissingPercentage, KindNumericMin, KindNumericMax, KindNumericMean:
		var f float64
		if err := json.Unmarshal(w.Answer, &f); err != nil {
			return fmt.Errorf("question %s: %w", w.ID, err)
		}
		q.Truth = NumberTruth{Value: f, Decimals: w.Metadata.Round}
	case KindUniqueCount:
		var n int
		if err := json.Unmarshal(w.Answer, &n); err != nil {
			return fmt.Errorf("question %s: %w", w.ID, err)
		}
		q.Truth = CountTruth(n)
	case KindDateRange:
		var r DateRangeTruth
		if err := json.Unmarshal(w.Answer, &r); err != nil {
			return fmt.Errorf("question %s: %w", w.ID, err)
		}
		q.Truth = r
	default:
		return fmt.Errorf("question %s: unknown kind %q", w.ID, w.Kind)
	}
	return nil
}
