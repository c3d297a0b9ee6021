package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/config"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/quiz"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var (
	gradeSeed    int64
	gradeLimit   int
	gradeAnswers string
	gradeOutput  string
)

var gradeCmd = &cobra.Command{
	Use:   "grade <dataset-id>",
	Short: "Grade submitted answers against a regenerated question set",
	Long: `grade re-derives the question set for the given dataset, seed and
limit, then scores the submitted answers against the ground truths. Nothing
about the stored dataset changes, so grading is repeatable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		answers, err := utils.ReadAnswersFile(gradeAnswers)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entry, p, err := ensureProfile(cmd.Context(), st, id, false)
		if err != nil {
			return err
		}

		limit := gradeLimit
		if limit == 0 {
			limit = cfg.Quiz.DefaultLimit
		}
		limit = config.ClampQuestionLimit(limit)

		set, err := quiz.Generate(p, id, gradeSeed, limit)
		if err != nil {
			return err
		}

		report, err := quiz.Grade(set, answers)
		if err != nil {
			return err
		}
		logger.Info("answers graded",
			zap.String("dataset", id),
			zap.Int64("seed", gradeSeed),
			zap.Int("total", report.Total),
			zap.Int("correct", report.Correct))

		return utils.WriteJSON(utils.ResolveOutputPath(gradeOutput, entry.Name, "grade"), report)
	},
}

func init() {
	gradeCmd.Flags().Int64Var(&gradeSeed, "seed", 0, "Seed the question set was generated with")
	gradeCmd.Flags().IntVar(&gradeLimit, "limit", 0, "Limit the question set was generated with (0 uses the configured default)")
	gradeCmd.Flags().StringVar(&gradeAnswers, "answers", "", "Path to a JSON file of answers keyed by question id")
	gradeCmd.Flags().StringVar(&gradeOutput, "output", "", `Output file ("-" for stdout, default <name>_report.json)`)
	gradeCmd.MarkFlagRequired("answers")
}
