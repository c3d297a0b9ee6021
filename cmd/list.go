package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/store"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the datasets in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []store.Dataset{}
		}
		return utils.WriteJSON("", entries)
	},
}
