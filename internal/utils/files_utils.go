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
package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/quiz"
)

// WriteJSON pretty-prints v into the given file, or to stdout when path is
// empty.
func WriteJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	raw = append(raw, '\n')

	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadAnswersFile loads submitted answers keyed by question id. Each entry
// is either a bare string (shorthand for a text answer) or an object with
// choice_index and/or text fields:
//
//	{"ab12cd34ef56": "integer", "0f9e8d7c6b5a": {"choice_index": 2}}
func ReadAnswersFile(path string) (map[string]quiz.Submitted, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answers file %s: %w", path, err)
	}

	answers := make(map[string]quiz.Submitted, len(raw))
	for id, entry := range raw {
		var text string
		if err := json.Unmarshal(entry, &text); err == nil {
			answers[id] = quiz.Submitted{Text: text}
			continue
		}
		var sub quiz.Submitted
		if err := json.Unmarshal(entry, &sub); err != nil {
			return nil, fmt.Errorf("invalid answer for question %s: %w", id, err)
		}
		answers[id] = sub
	}
	return answers, nil
}

// DefaultOutputFilePath derives the output file name for a command from
// the dataset's display name.
func DefaultOutputFilePath(datasetName, commandName string) string {
	base := strings.TrimSuffix(datasetName, ".csv")
	switch commandName {
	case "profile":
		return fmt.Sprintf("%s_profile.json", base)
	case "questions":
		return fmt.Sprintf("%s_questions.json", base)
	case "grade":
		return fmt.Sprintf("%s_report.json", base)
	default:
		return fmt.Sprintf("%s_%s.json", base, commandName)
	}
}

// ResolveOutputPath maps an --output flag value to a WriteJSON
// destination: "-" selects stdout, empty derives the default file name
// from the dataset, anything else is taken verbatim.
func ResolveOutputPath(flagValue, datasetName, commandName string) string {
	switch flagValue {
	case "-":
		return ""
	case "":
		return DefaultOutputFilePath(datasetName, commandName)
	default:
		return flagValue
	}
}

// ConfirmAction prompts on stdin before a destructive operation.
func ConfirmAction(actionDescription string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("About to %s.\n", actionDescription)
	fmt.Print("Continue? (yes/no): ")
	text, _ := reader.ReadString('\n')
	action := strings.TrimSpace(strings.ToLower(text))
	return action == "yes" || action == "y"
}
