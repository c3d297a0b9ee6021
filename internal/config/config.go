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
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Limits on the number of questions a single generation may request.
const (
	MinQuestionLimit = 1
	MaxQuestionLimit = 64
)

// Config holds all configuration for the application.
type Config struct {
	StorePath string        `mapstructure:"store_path"`
	Debug     bool          `mapstructure:"debug"`
	Source    SourceConfig  `mapstructure:"source"`
	Profile   ProfileConfig `mapstructure:"profile"`
	Quiz      QuizConfig    `mapstructure:"quiz"`
}

// SourceConfig holds data source connection configuration.
type SourceConfig struct {
	Driver                         string   `mapstructure:"driver"`
	Path                           string   `mapstructure:"path"`
	Host                           string   `mapstructure:"host"`
	Port                           int      `mapstructure:"port"`
	User                           string   `mapstructure:"user"`
	Password                       string   `mapstructure:"password"`
	DBName                         string   `mapstructure:"dbname"`
	SSLMode                        string   `mapstructure:"sslmode"`
	CloudSQLInstanceConnectionName string   `mapstructure:"cloudsql_instance"`
	UsePrivateIP                   bool     `mapstructure:"use_private_ip"`
	Table                          string   `mapstructure:"table"`
	Query                          string   `mapstructure:"query"`
	MaxRows                        int      `mapstructure:"max_rows"`
	NullMarkers                    []string `mapstructure:"null_markers"`
}

// ProfileConfig tunes the dataset profiler.
type ProfileConfig struct {
	ExampleCount       int `mapstructure:"example_count"`
	TopK               int `mapstructure:"top_k"`
	CardinalityCeiling int `mapstructure:"cardinality_ceiling"`
	MaxPivotPairs      int `mapstructure:"max_pivot_pairs"`
}

// QuizConfig tunes question generation.
type QuizConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
}

// Load reads configuration from defaults, then an optional config file,
// then DATASET_QUIZZER_* environment variables. A missing config file is
// fine; a malformed one is an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("store_path", "datasets.db")
	v.SetDefault("debug", false)
	v.SetDefault("source.driver", "csv")
	v.SetDefault("source.host", "localhost")
	v.SetDefault("source.port", 5432)
	v.SetDefault("source.sslmode", "disable")
	v.SetDefault("source.max_rows", 100000)
	v.SetDefault("profile.example_count", 5)
	v.SetDefault("profile.top_k", 5)
	v.SetDefault("profile.cardinality_ceiling", 20)
	v.SetDefault("profile.max_pivot_pairs", 8)
	v.SetDefault("quiz.default_limit", 10)

	v.SetEnvPrefix("DATASET_QUIZZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("dataset_quizzer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dataset_quizzer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ClampQuestionLimit forces a requested question count into the allowed
// range.
func ClampQuestionLimit(n int) int {
	if n < MinQuestionLimit {
		return MinQuestionLimit
	}
	if n > MaxQuestionLimit {
		return MaxQuestionLimit
	}
	return n
}
