package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <dataset-id>",
	Short: "Remove a dataset and its profile from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entry, err := st.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		if !deleteYes && !utils.ConfirmAction(fmt.Sprintf("delete dataset %q (%s)", entry.Name, entry.ID)) {
			logger.Info("delete aborted", zap.String("id", entry.ID))
			return nil
		}

		if err := st.Delete(cmd.Context(), id); err != nil {
			return err
		}
		logger.Info("dataset deleted", zap.String("id", entry.ID), zap.String("name", entry.Name))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Skip the confirmation prompt")
}
