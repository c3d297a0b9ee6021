/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// Submitted is one answer from the client. For multiple-choice questions
// the client may send either the chosen index or the choice text; for
// short-answer questions only Text is meaningful.
type Submitted struct {
	ChoiceIndex *int   `json:"choice_index,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Result records the grading outcome for one question.
type Result struct {
	QuestionID string `json:"question_id"`
	Answered   bool   `json:"answered"`
	Correct    bool   `json:"correct"`
}

// Report is the graded outcome for a full question set.
type Report struct {
	Total   int      `json:"total"`
	Correct int      `json:"correct"`
	Results []Result `json:"results"`
}

// normalizeText canonicalizes free-text input before comparison: trim,
// collapse interior whitespace runs to single spaces, lowercase.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// IsCorrect reports whether the submission answers the question correctly.
//
// Multiple-choice submissions may name the choice by index or by text; an
// out-of-range index is simply wrong. Text comparison is whitespace- and
// case-insensitive. Numeric ground truths additionally accept any textual
// form that parses to the same float64, so "25.0" matches 25 while "31.6"
// still misses 31.67. An empty submission is never correct.
func IsCorrect(q *Question, sub Submitted) bool {
	truth := q.Truth.Text()
	if strings.TrimSpace(truth) == "" {
		return false
	}

	answered := sub.Text
	if q.IsMultipleChoice() && sub.ChoiceIndex != nil {
		idx := *sub.ChoiceIndex
		if idx < 0 || idx >= len(q.Choices) {
			return false
		}
		answered = q.Choices[idx]
	}

	got := normalizeText(answered)
	if got == "" {
		return false
	}
	if got == normalizeText(truth) {
		return true
	}

	switch q.Truth.(type) {
	case NumberTruth, CountTruth:
		want, err := strconv.ParseFloat(truth, 64)
		if err != nil {
			return false
		}
		have, err := strconv.ParseFloat(got, 64)
		if err != nil {
			return false
		}
		return have == want
	}
	return false
}

// Grade scores a full set of submissions against the question set. Grading
// is a pure re-derivation from the stored questions: nothing about the set
// is mutated and grading twice yields identical reports. Questions with no
// submission are marked unanswered and incorrect. A multiple-choice
// question whose stored choices no longer contain its own ground truth is
// corrupt and aborts grading.
func Grade(set *QuestionSet, answers map[string]Submitted) (*Report, error) {
	report := &Report{
		Total:   len(set.Questions),
		Results: make([]Result, 0, len(set.Questions)),
	}
	for i := range set.Questions {
		q := &set.Questions[i]
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		res := Result{QuestionID: q.ID}
		if sub, ok := answers[q.ID]; ok {
			res.Answered = sub.ChoiceIndex != nil || strings.TrimSpace(sub.Text) != ""
			res.Correct = res.Answered && IsCorrect(q, sub)
		}
		if res.Correct {
			report.Correct++
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
