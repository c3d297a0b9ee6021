package quiz

import (
	"fmt"
	"strings"
)

// validateQuestion enforces the structural invariants a question must hold
// before it can be served or graded.
//
// Multiple-choice: choices are non-empty, pairwise distinct, and the ground
// truth appears among them exactly once. Short-answer: the truth text is
// non-empty after trimming. Violations point at a template bug, not bad
// input, so callers treat them as internal errors.
func validateQuestion(q *Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if q.Truth == nil {
		return fmt.Errorf("missing ground truth")
	}
	truth := q.Truth.Text()
	if strings.TrimSpace(truth) == "" {
		return fmt.Errorf("empty ground truth")
	}

	if !q.IsMultipleChoice() {
		return nil
	}

	seen := make(map[string]struct{}, len(q.Choices))
	matches := 0
	for _, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("blank choice")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate choice %q", c)
		}
		seen[c] = struct{}{}
		if c == truth {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("ground truth %q appears %d times in choices", truth, matches)
	}
	return nil
}
