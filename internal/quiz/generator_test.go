package quiz

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
)

func sampleProfile(t *testing.T) *profiler.DatasetProfile {
	t.Helper()
	ts := func(s string) dataset.Value {
		parsed, err := time.Parse(dataset.TimestampLayout, s)
		require.NoError(t, err)
		return dataset.TimeValue(parsed)
	}
	tbl, err := dataset.New([]dataset.Column{
		{Name: "age", Values: []dataset.Value{
			dataset.IntValue(25), dataset.IntValue(30), dataset.Null(), dataset.IntValue(40),
		}},
		{Name: "city", Values: []dataset.Value{
			dataset.StringValue("NY"), dataset.StringValue("SF"),
			dataset.StringValue("NY"), dataset.StringValue("LA"),
		}},
		{Name: "signup", Values: []dataset.Value{
			ts("2021-01-01T00:00:00"), ts("2021-06-15T12:30:00"),
			ts("2022-03-01T08:00:00"), ts("2023-11-30T23:59:59"),
		}},
	})
	require.NoError(t, err)
	return profiler.Profile(tbl)
}

func TestGenerateDeterministic(t *testing.T) {
	p := sampleProfile(t)

	first, err := Generate(p, "ds-1", 42, 10)
	require.NoError(t, err)
	second, err := Generate(p, "ds-1", 42, 10)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestGenerateBoundedByLimit(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 5)
	require.NoError(t, err)
	assert.Len(t, set.Questions, 5)
	assert.Equal(t, 5, set.Count)
}

func TestGenerateStarvationYieldsSmallerSet(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 100)
	require.NoError(t, err)
	// dtype+missing+unique on 3 columns, top-k on city, min/max/mean on
	// age, date range on signup.
	assert.Len(t, set.Questions, 14)
}

func TestGenerateNoDuplicatePairs(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 64)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, q := range set.Questions {
		key := string(q.Kind) + "|" + q.Metadata.Column
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
	}
}

func TestGenerateZeroLimit(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 0)
	require.NoError(t, err)
	assert.Empty(t, set.Questions)
	assert.Equal(t, 0, set.Count)
}

func TestGenerateEmptyProfile(t *testing.T) {
	set, err := Generate(&profiler.DatasetProfile{ContentHash: "deadbeef"}, "ds-1", 7, 10)
	require.NoError(t, err)
	assert.Empty(t, set.Questions)
}

func TestGenerateStableIDs(t *testing.T) {
	p := sampleProfile(t)

	first, err := Generate(p, "ds-1", 42, 14)
	require.NoError(t, err)
	second, err := Generate(p, "ds-1", 42, 14)
	require.NoError(t, err)

	require.Equal(t, len(first.Questions), len(second.Questions))
	for i := range first.Questions {
		assert.Equal(t, first.Questions[i].ID, second.Questions[i].ID)
		assert.Len(t, first.Questions[i].ID, 12)
	}
}

func TestGenerateSeedChangesIDs(t *testing.T) {
	p := sampleProfile(t)

	a, err := Generate(p, "ds-1", 1, 14)
	require.NoError(t, err)
	b, err := Generate(p, "ds-1", 2, 14)
	require.NoError(t, err)

	aIDs := make(map[string]bool)
	for _, q := range a.Questions {
		aIDs[q.ID] = true
	}
	for _, q := range b.Questions {
		assert.False(t, aIDs[q.ID], "id %s reused across seeds", q.ID)
	}
}

func TestGenerateGroundTruthInChoices(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 64)
	require.NoError(t, err)

	for _, q := range set.Questions {
		if !q.IsMultipleChoice() {
			continue
		}
		assert.Contains(t, q.Choices, q.Truth.Text(), "question %s", q.ID)
	}
}

func TestGenerateQuestionSetRoundTripsJSON(t *testing.T) {
	p := sampleProfile(t)

	set, err := Generate(p, "ds-1", 7, 64)
	require.NoError(t, err)

	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded QuestionSet
	require.NoError(t, json.Unmarshal(raw, &decoded))

	again, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(again))
}

func TestHashSeedStable(t *testing.T) {
	a := HashSeed("abc123", "questions")
	b := HashSeed("abc123", "questions")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, HashSeed("abc123", "other"))
	assert.NotEqual(t, a, HashSeed("abc124", "questions"))
}
