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
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/store"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/utils"
)

var (
	profileOutput  string
	profileRefresh bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <dataset-id>",
	Short: "Compute (or reuse) the column profile of a dataset",
	Long: `profile classifies every column of the stored dataset, computes
per-column statistics, and derives dataset-level features. The result is
cached in the catalog; identical content never recomputes unless --refresh
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entry, p, err := ensureProfile(cmd.Context(), st, args[0], profileRefresh)
		if err != nil {
			return err
		}
		return utils.WriteJSON(utils.ResolveOutputPath(profileOutput, entry.Name, "profile"), p)
	},
}

// profileCache keeps profiles computed in this process, keyed by content
// fingerprint, so commands touching the same dataset twice never recompute.
var profileCache = profiler.NewCache()

// ensureProfile returns the catalog entry and stored profile for the
// dataset, computing and persisting the profile first when absent (or when
// refresh forces it).
func ensureProfile(ctx context.Context, st *store.Store, id string, refresh bool) (store.Dataset, *profiler.DatasetProfile, error) {
	entry, err := st.Get(ctx, id)
	if err != nil {
		return store.Dataset{}, nil, err
	}

	if !refresh {
		if p, ok := profileCache.Get(entry.Fingerprint); ok {
			logger.Debug("using in-memory profile", zap.String("dataset", id))
			return entry, p, nil
		}
		p, err := st.GetProfile(ctx, id)
		if err == nil {
			logger.Debug("using cached profile", zap.String("dataset", id))
			profileCache.Put(entry.Fingerprint, p)
			return entry, p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return store.Dataset{}, nil, err
		}
	}

	tbl, err := st.GetTable(ctx, id)
	if err != nil {
		return store.Dataset{}, nil, err
	}

	logger.Info("profiling dataset",
		zap.String("dataset", id),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("cols", tbl.NumCols()))

	p := profiler.ProfileWithOptions(tbl, profiler.Options{
		ExampleCount:       cfg.Profile.ExampleCount,
		TopK:               cfg.Profile.TopK,
		CardinalityCeiling: cfg.Profile.CardinalityCeiling,
		MaxPivotPairs:      cfg.Profile.MaxPivotPairs,
	})
	if err := st.SaveProfile(ctx, id, p); err != nil {
		return store.Dataset{}, nil, err
	}
	profileCache.Put(entry.Fingerprint, p)
	return entry, p, nil
}

func init() {
	profileCmd.Flags().StringVar(&profileOutput, "output", "", `Output file ("-" for stdout, default <name>_profile.json)`)
	profileCmd.Flags().BoolVar(&profileRefresh, "refresh", false, "Recompute the profile even when cached")
}
