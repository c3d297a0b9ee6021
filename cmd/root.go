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
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/config"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/logging"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/store"
)

var (
	cfgFile   string
	debug     bool
	storePath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dataset_quizzer",
	Short: "Profile tabular datasets and generate practice questions",
	Long: `dataset_quizzer ingests tabular data from files and SQL databases,
profiles every column, and generates deterministic practice questions with
verifiable answers over the profiled statistics.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfigAndLogger,
}

func initConfigAndLogger(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = storePath
	}

	logger, err = logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	return nil
}

// openStore opens the dataset catalog configured for this invocation.
func openStore() (*store.Store, error) {
	return store.Open(cfg.StorePath)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file (default searches ./dataset_quizzer.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the dataset catalog (SQLite file)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(gradeCmd)
}
