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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source"
	_ "github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source/mysql"
	_ "github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source/postgres"
	_ "github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source/sqlite"
	_ "github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/source/sqlserver"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var (
	srcDriver                      string
	srcPath                        string
	srcHost                        string
	srcPort                        int
	srcUser                        string
	srcPassword                    string
	srcDBName                      string
	srcSSLMode                     string
	cloudSQLInstanceConnectionName string
	cloudSQLUsePrivateIP           bool
	srcTable                       string
	srcQuery                       string
	srcMaxRows                     int
	datasetName                    string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Load a dataset into the catalog",
	Long: `upload ingests a dataset from a CSV file or a SQL database and
registers it in the catalog. Re-uploading identical content returns the
existing entry instead of creating a duplicate.`,
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	srcCfg := sourceConfig(cmd)
	if err := validateDriver(srcCfg.Driver); err != nil {
		return err
	}

	src, err := source.Open(srcCfg)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Info("fetching dataset",
		zap.String("driver", srcCfg.Driver),
		zap.String("source", src.Name()))

	tbl, err := src.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	name := datasetName
	if name == "" {
		name = src.Name()
	}

	entry, created, err := st.Save(cmd.Context(), name, tbl)
	if err != nil {
		return err
	}
	if created {
		logger.Info("dataset registered",
			zap.String("id", entry.ID),
			zap.String("name", entry.Name),
			zap.Int("rows", entry.NRows),
			zap.Int("cols", entry.NCols))
	} else {
		logger.Info("identical content already registered, reusing entry",
			zap.String("id", entry.ID),
			zap.String("name", entry.Name))
	}

	out := struct {
		Dataset any              `json:"dataset"`
		Created bool             `json:"created"`
		Sample  []map[string]any `json:"sample"`
	}{
		Dataset: entry,
		Created: created,
		Sample:  tbl.SampleRecords(5),
	}
	return utils.WriteJSON("", out)
}

// sourceConfig merges the configured source settings with any flags set on
// this invocation.
func sourceConfig(cmd *cobra.Command) source.Config {
	s := cfg.Source
	flags := cmd.Flags()
	if flags.Changed("driver") {
		s.Driver = srcDriver
	}
	if flags.Changed("file") {
		s.Path = srcPath
	}
	if flags.Changed("host") {
		s.Host = srcHost
	}
	if flags.Changed("port") {
		s.Port = srcPort
	}
	if flags.Changed("username") {
		s.User = srcUser
	}
	if flags.Changed("password") {
		s.Password = srcPassword
	}
	if flags.Changed("database") {
		s.DBName = srcDBName
	}
	if flags.Changed("sslmode") {
		s.SSLMode = srcSSLMode
	}
	if flags.Changed("cloudsql-instance-connection-name") {
		s.CloudSQLInstanceConnectionName = cloudSQLInstanceConnectionName
	}
	if flags.Changed("cloudsql-use-private-ip") {
		s.UsePrivateIP = cloudSQLUsePrivateIP
	}
	if flags.Changed("table") {
		s.Table = srcTable
	}
	if flags.Changed("query") {
		s.Query = srcQuery
	}
	if flags.Changed("max-rows") {
		s.MaxRows = srcMaxRows
	}
	return source.Config{
		Driver:                         s.Driver,
		Path:                           s.Path,
		Host:                           s.Host,
		Port:                           s.Port,
		User:                           s.User,
		Password:                       s.Password,
		DBName:                         s.DBName,
		SSLMode:                        s.SSLMode,
		CloudSQLInstanceConnectionName: s.CloudSQLInstanceConnectionName,
		UsePrivateIP:                   s.UsePrivateIP,
		Table:                          s.Table,
		Query:                          s.Query,
		MaxRows:                        s.MaxRows,
		NullMarkers:                    s.NullMarkers,
	}
}

func validateDriver(driver string) error {
	for _, supported := range source.Drivers() {
		if driver == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported driver: %s (only %s are supported)",
		driver, strings.Join(source.Drivers(), ", "))
}

func init() {
	uploadCmd.Flags().StringVar(&srcDriver, "driver", "csv", fmt.Sprintf("Source driver (%s)", strings.Join([]string{"csv", "postgres", "mysql", "sqlserver", "sqlite", "cloudsqlpostgres", "cloudsqlmysql", "cloudsqlsqlserver"}, ", ")))
	uploadCmd.Flags().StringVar(&srcPath, "file", "", "Path to a CSV or SQLite file")
	uploadCmd.Flags().StringVar(&srcHost, "host", "", "Database host")
	uploadCmd.Flags().IntVar(&srcPort, "port", 0, "Database port")
	uploadCmd.Flags().StringVar(&srcUser, "username", "", "Database username")
	uploadCmd.Flags().StringVar(&srcPassword, "password", "", "Database password")
	uploadCmd.Flags().StringVar(&srcDBName, "database", "", "Database name")
	uploadCmd.Flags().StringVar(&srcSSLMode, "sslmode", "disable", "PostgreSQL SSL mode")
	uploadCmd.Flags().StringVar(&cloudSQLInstanceConnectionName, "cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for cloudsql* drivers)")
	uploadCmd.Flags().BoolVar(&cloudSQLUsePrivateIP, "cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection")
	uploadCmd.Flags().StringVar(&srcTable, "table", "", "Table to ingest (SQL drivers)")
	uploadCmd.Flags().StringVar(&srcQuery, "query", "", "SELECT to ingest instead of a full table (SQL drivers)")
	uploadCmd.Flags().IntVar(&srcMaxRows, "max-rows", 0, "Abort ingestion past this many rows (0 uses the configured cap)")
	uploadCmd.Flags().StringVar(&datasetName, "name", "", "Display name for the dataset (defaults to the file or table name)")
}
