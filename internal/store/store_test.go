package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/profiler"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTable(t *testing.T, ages ...int64) *dataset.Table {
	t.Helper()
	values := make([]dataset.Value, len(ages))
	for i, a := range ages {
		values[i] = dataset.IntValue(a)
	}
	tbl, err := dataset.New([]dataset.Column{{Name: "age", Values: values}})
	require.NoError(t, err)
	return tbl
}

func TestSaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	tbl := makeTable(t, 25, 30, 40)

	entry, created, err := s.Save(ctx, "ages.csv", tbl)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "ages.csv", entry.Name)
	assert.Equal(t, tbl.Fingerprint(), entry.Fingerprint)
	assert.Equal(t, 3, entry.NRows)
	assert.Equal(t, 1, entry.NCols)

	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	loaded, err := s.GetTable(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, tbl.Fingerprint(), loaded.Fingerprint())
}

func TestSaveDeduplicatesContent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, created, err := s.Save(ctx, "a.csv", makeTable(t, 1, 2))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.Save(ctx, "b.csv", makeTable(t, 1, 2))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a.csv", second.Name, "original name wins on duplicate content")

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveUniquesDisplayNames(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, _, err := s.Save(ctx, "data.csv", makeTable(t, 1))
	require.NoError(t, err)

	second, created, err := s.Save(ctx, "data.csv", makeTable(t, 2))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "data (1).csv", second.Name)

	third, _, err := s.Save(ctx, "data.csv", makeTable(t, 3))
	require.NoError(t, err)
	assert.Equal(t, "data (2).csv", third.Name)
}

func TestGetUnknownID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetTable(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	entry, _, err := s.Save(ctx, "x.csv", makeTable(t, 1))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, entry.ID))
	_, err = s.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	tbl := makeTable(t, 25, 30, 40)

	entry, _, err := s.Save(ctx, "ages.csv", tbl)
	require.NoError(t, err)

	_, err = s.GetProfile(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound, "profile missing until computed")

	p := profiler.Profile(tbl)
	require.NoError(t, s.SaveProfile(ctx, entry.ID, p))

	got, err := s.GetProfile(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ContentHash, got.ContentHash)
	assert.Equal(t, p.NRows, got.NRows)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, p.Columns[0], got.Columns[0])

	err = s.SaveProfile(ctx, "nope", p)
	assert.ErrorIs(t, err, ErrNotFound)
}
