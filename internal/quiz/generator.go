package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
)

// HashSeed mixes a content hash and a salt key into a 32-bit seed, the same
// recipe the serving layer has always used for deterministic sampling.
func HashSeed(contentHash, key string) uint32 {
	sum := sha256.Sum256([]byte(contentHash + key))
	n, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
	if err != nil {
		// 8 hex chars always parse; unreachable.
		panic(err)
	}
	return uint32(n)
}

// candidate is one eligible (template, column) pairing.
type candidate struct {
	tmpl template
	col  *profiler.ColumnProfile
}

// Generate produces a deterministic question set for the profiled dataset.
//
// The RNG is seeded from the caller's seed XOR a hash of the dataset
// content, so the same content and seed always yield the identical set —
// ids, order, choices and answers — while different content reshuffles even
// under the same seed. Eligible (kind, column) pairs are enumerated in
// catalog-then-column order, shuffled once by the seeded stream, and the
// first `limit` are built; template-internal draws (choice shuffles) pull
// from the same stream. A limit ≤ 0, an empty dataset, or starvation
// (fewer candidates than limit) are not errors: the set is simply smaller,
// possibly empty. The only error is an internal consistency failure, where
// a template emits a multiple-choice question whose ground truth is absent
// from its own choices.
func Generate(p *profiler.DatasetProfile, datasetID string, seed int64, limit int) (*QuestionSet, error) {
	set := &QuestionSet{
		DatasetID: datasetID,
		Seed:      seed,
		Questions: []Question{},
	}
	if limit <= 0 {
		return set, nil
	}

	var candidates []candidate
	for _, tmpl := range templateCatalog {
		for i := range p.Columns {
			col := &p.Columns[i]
			if tmpl.eligible(p, col) {
				candidates = append(candidates, candidate{tmpl: tmpl, col: col})
			}
		}
	}
	if len(candidates) == 0 {
		return set, nil
	}

	mix := seed ^ int64(HashSeed(p.ContentHash, "questions"))
	rng := rand.New(rand.NewSource(mix))

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if limit < len(candidates) {
		candidates = candidates[:limit]
	}

	for pos, c := range candidates {
		q := c.tmpl.build(p, c.col, rng)
		q.ID = questionID(datasetID, seed, pos, q.Kind, c.col.Name)
		if err := validateQuestion(&q); err != nil {
			return nil, fmt.Errorf("template %s on column %q: %w", q.Kind, c.col.Name, err)
		}
		set.Questions = append(set.Questions, q)
	}
	set.Count = len(set.Questions)
	return set, nil
}

// questionID derives a stable id from the dataset identity, the seed and
// the question's position and pairing, so regenerating the same set yields
// the same ids.
func questionID(datasetID string, seed int64, position int, kind Kind, column string) string {
	core := fmt.Sprintf("%s|%d|%d|%s|%s", datasetID, seed, position, kind, column)
	sum := sha256.Sum256([]byte(core))
	return hex.EncodeToString(sum[:])[:12]
}
