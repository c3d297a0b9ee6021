package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/config"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/quiz"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var (
	questionsSeed   int64
	questionsLimit  int
	questionsOutput string
)

var questionsCmd = &cobra.Command{
	Use:   "questions <dataset-id>",
	Short: "Generate a deterministic question set for a dataset",
	Long: `questions generates practice questions over the dataset's profile.
The same dataset content, seed and limit always produce the identical
question set, ids and choice order included.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entry, p, err := ensureProfile(cmd.Context(), st, id, false)
		if err != nil {
			return err
		}

		limit := questionsLimit
		if limit == 0 {
			limit = cfg.Quiz.DefaultLimit
		}
		limit = config.ClampQuestionLimit(limit)

		set, err := quiz.Generate(p, id, questionsSeed, limit)
		if err != nil {
			return err
		}
		logger.Info("questions generated",
			zap.String("dataset", id),
			zap.Int64("seed", questionsSeed),
			zap.Int("count", set.Count))

		return utils.WriteJSON(utils.ResolveOutputPath(questionsOutput, entry.Name, "questions"), set)
	},
}

func init() {
	questionsCmd.Flags().Int64Var(&questionsSeed, "seed", 0, "Seed for deterministic generation")
	questionsCmd.Flags().IntVar(&questionsLimit, "limit", 0, "Maximum questions to generate (0 uses the configured default)")
	questionsCmd.Flags().StringVar(&questionsOutput, "output", "", `Output file ("-" for stdout, default <name>_questions.json)`)
}
