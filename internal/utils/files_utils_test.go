package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/quiz"
)

func TestReadAnswersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"ab12cd34ef56": "integer",
		"0f9e8d7c6b5a": {"choice_index": 2},
		"123456abcdef": {"text": "25.0"}
	}`), 0o644))

	answers, err := ReadAnswersFile(path)
	require.NoError(t, err)
	require.Len(t, answers, 3)

	assert.Equal(t, quiz.Submitted{Text: "integer"}, answers["ab12cd34ef56"])
	require.NotNil(t, answers["0f9e8d7c6b5a"].ChoiceIndex)
	assert.Equal(t, 2, *answers["0f9e8d7c6b5a"].ChoiceIndex)
	assert.Equal(t, "25.0", answers["123456abcdef"].Text)
}

func TestReadAnswersFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2, 3]`), 0o644))

	_, err := ReadAnswersFile(path)
	assert.Error(t, err)
}

func TestReadAnswersFileMissing(t *testing.T) {
	_, err := ReadAnswersFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, map[string]int{"total": 3}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 3}`, string(content))
}

func TestDefaultOutputFilePath(t *testing.T) {
	assert.Equal(t, "sales_profile.json", DefaultOutputFilePath("sales.csv", "profile"))
	assert.Equal(t, "sales_questions.json", DefaultOutputFilePath("sales.csv", "questions"))
	assert.Equal(t, "orders_report.json", DefaultOutputFilePath("orders", "grade"))
}

func TestResolveOutputPath(t *testing.T) {
	// empty flag derives the per-command default file name
	assert.Equal(t, "sales_profile.json", ResolveOutputPath("", "sales.csv", "profile"))
	// "-" forces stdout (the empty WriteJSON destination)
	assert.Equal(t, "", ResolveOutputPath("-", "sales.csv", "profile"))
	// anything else wins as-is
	assert.Equal(t, "custom.json", ResolveOutputPath("custom.json", "sales.csv", "grade"))
}
