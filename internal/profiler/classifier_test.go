package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

func TestClassify(t *testing.T) {
	ts := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		values   []dataset.Value
		expected DType
	}{
		{
			name:     "typed integers",
			values:   []dataset.Value{dataset.IntValue(1), dataset.IntValue(2)},
			expected: DTypeInteger,
		},
		{
			name:     "integer strings",
			values:   []dataset.Value{dataset.StringValue("1"), dataset.StringValue("-42")},
			expected: DTypeInteger,
		},
		{
			name:     "integral floats stay integer",
			values:   []dataset.Value{dataset.FloatValue(2.0), dataset.IntValue(3)},
			expected: DTypeInteger,
		},
		{
			name:     "fractional value demotes to float",
			values:   []dataset.Value{dataset.IntValue(1), dataset.FloatValue(1.5)},
			expected: DTypeFloat,
		},
		{
			name:     "float strings",
			values:   []dataset.Value{dataset.StringValue("1.25"), dataset.StringValue("3")},
			expected: DTypeFloat,
		},
		{
			name:     "integral float beyond int64 range stays float",
			values:   []dataset.Value{dataset.FloatValue(1e30)},
			expected: DTypeFloat,
		},
		{
			name:     "huge float mixed with integers demotes to float",
			values:   []dataset.Value{dataset.IntValue(1), dataset.FloatValue(-1e19)},
			expected: DTypeFloat,
		},
		{
			name:     "booleans",
			values:   []dataset.Value{dataset.BoolValue(true), dataset.StringValue("false")},
			expected: DTypeBoolean,
		},
		{
			name:     "typed timestamps",
			values:   []dataset.Value{dataset.TimeValue(ts), dataset.TimeValue(ts.Add(time.Hour))},
			expected: DTypeDatetime,
		},
		{
			name: "date strings in accepted layouts",
			values: []dataset.Value{
				dataset.StringValue("2020-01-01"),
				dataset.StringValue("2020-01-02T10:30:00"),
				dataset.StringValue("2020-01-03 08:00:00"),
			},
			expected: DTypeDatetime,
		},
		{
			name:     "single non-numeric cell demotes whole column",
			values:   []dataset.Value{dataset.StringValue("1"), dataset.StringValue("2"), dataset.StringValue("oops")},
			expected: DTypeString,
		},
		{
			name:     "nulls are skipped",
			values:   []dataset.Value{dataset.Null(), dataset.IntValue(7), dataset.Null()},
			expected: DTypeInteger,
		},
		{
			name:     "all null falls back to string",
			values:   []dataset.Value{dataset.Null(), dataset.Null()},
			expected: DTypeString,
		},
		{
			name:     "empty column falls back to string",
			values:   nil,
			expected: DTypeString,
		},
		{
			name:     "unrecognized date format is string",
			values:   []dataset.Value{dataset.StringValue("Jan 5 2020")},
			expected: DTypeString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.values))
		})
	}
}

func TestClassifyBooleanBeforeInteger(t *testing.T) {
	// "true"/"false" never parse as integers, but typed bools must win even
	// if a future parser change made them numeric-ish.
	values := []dataset.Value{dataset.BoolValue(true), dataset.BoolValue(false)}
	assert.Equal(t, DTypeBoolean, Classify(values))
}
