package quiz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
)

// minChoicesForTopK is the top_k length at which the most-frequent-value
// question upgrades from short-answer to multiple choice.
const minChoicesForTopK = 3

// template produces one question kind from a column profile. Templates read
// only the profile (never raw rows) and draw any randomness they need,
// such as choice shuffling, from the generator's seeded stream.
type template struct {
	kind     Kind
	eligible func(p *profiler.DatasetProfile, col *profiler.ColumnProfile) bool
	build    func(p *profiler.DatasetProfile, col *profiler.ColumnProfile, rng *rand.Rand) Question
}

// templateCatalog is the fixed, ordered library of question kinds.
// Candidate enumeration walks this order, so reordering it changes
// generated sets; append new kinds at the end.
var templateCatalog = []template{
	{
		kind:     KindDtypeIdentification,
		eligible: func(*profiler.DatasetProfile, *profiler.ColumnProfile) bool { return true },
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, rng *rand.Rand) Question {
			choices := make([]string, len(profiler.AllDTypes))
			for i, d := range profiler.AllDTypes {
				choices[i] = string(d)
			}
			rng.Shuffle(len(choices), func(i, j int) {
				choices[i], choices[j] = choices[j], choices[i]
			})
			return Question{
				Kind:     KindDtypeIdentification,
				Prompt:   fmt.Sprintf("What is the data type of column `%s`?", col.Name),
				Choices:  choices,
				Truth:    TextTruth(col.DType),
				Metadata: Metadata{Column: col.Name},
			}
		},
	},
	{
		kind: KindMissingPercentage,
		eligible: func(p *profiler.DatasetProfile, _ *profiler.ColumnProfile) bool {
			return p.NRows > 0
		},
		build: func(p *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			pct := round(float64(col.NullCount)/float64(p.NRows)*100, 1)
			return Question{
				Kind:     KindMissingPercentage,
				Prompt:   fmt.Sprintf("What percentage of values are missing in `%s`? (round to 1 decimal)", col.Name),
				Truth:    NumberTruth{Value: pct, Decimals: 1},
				Metadata: Metadata{Column: col.Name, Round: 1},
			}
		},
	},
	{
		kind:     KindUniqueCount,
		eligible: func(*profiler.DatasetProfile, *profiler.ColumnProfile) bool { return true },
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			return Question{
				Kind:     KindUniqueCount,
				Prompt:   fmt.Sprintf("How many unique non-missing values are in `%s`?", col.Name),
				Truth:    CountTruth(col.UniqueCount),
				Metadata: Metadata{Column: col.Name},
			}
		},
	},
	{
		kind: KindTopKValue,
		eligible: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile) bool {
			// A blank most-frequent value has no presentable answer, so
			// the column is skipped rather than failing validation.
			return (col.DType == profiler.DTypeString || col.DType == profiler.DTypeBoolean) &&
				len(col.TopK) > 0 && strings.TrimSpace(col.TopK[0].Value) != ""
		},
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, rng *rand.Rand) Question {
			q := Question{
				Kind:     KindTopKValue,
				Prompt:   fmt.Sprintf("Which value appears most often in `%s`?", col.Name),
				Truth:    TextTruth(col.TopK[0].Value),
				Metadata: Metadata{Column: col.Name},
			}
			var choices []string
			for _, vc := range col.TopK {
				if strings.TrimSpace(vc.Value) != "" {
					choices = append(choices, vc.Value)
				}
			}
			if len(choices) >= minChoicesForTopK {
				rng.Shuffle(len(choices), func(i, j int) {
					choices[i], choices[j] = choices[j], choices[i]
				})
				q.Choices = choices
			}
			return q
		},
	},
	{
		kind:     KindNumericMin,
		eligible: numericWithStats,
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			return Question{
				Kind:     KindNumericMin,
				Prompt:   fmt.Sprintf("What is the minimum value of `%s`? (exact)", col.Name),
				Truth:    NumberTruth{Value: *col.Min, Decimals: -1},
				Metadata: Metadata{Column: col.Name},
			}
		},
	},
	{
		kind:     KindNumericMax,
		eligible: numericWithStats,
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			return Question{
				Kind:     KindNumericMax,
				Prompt:   fmt.Sprintf("What is the maximum value of `%s`? (exact)", col.Name),
				Truth:    NumberTruth{Value: *col.Max, Decimals: -1},
				Metadata: Metadata{Column: col.Name},
			}
		},
	},
	{
		kind:     KindNumericMean,
		eligible: numericWithStats,
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			return Question{
				Kind:     KindNumericMean,
				Prompt:   fmt.Sprintf("What is the mean of `%s`? (round to 2 decimals)", col.Name),
				Truth:    NumberTruth{Value: *col.Mean, Decimals: 2},
				Metadata: Metadata{Column: col.Name, Round: 2},
			}
		},
	},
	{
		kind: KindDateRange,
		eligible: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile) bool {
			return col.DType == profiler.DTypeDatetime && col.MinTS != "" && col.MaxTS != ""
		},
		build: func(_ *profiler.DatasetProfile, col *profiler.ColumnProfile, _ *rand.Rand) Question {
			return Question{
				Kind:     KindDateRange,
				Prompt:   fmt.Sprintf("What is the min and max timestamp of `%s`? (ISO, no timezone)", col.Name),
				Truth:    DateRangeTruth{Min: col.MinTS, Max: col.MaxTS},
				Metadata: Metadata{Column: col.Name},
			}
		},
	},
}

func numericWithStats(_ *profiler.DatasetProfile, col *profiler.ColumnProfile) bool {
	return col.IsNumeric() && col.Min != nil && col.Max != nil && col.Mean != nil
}

func round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}
