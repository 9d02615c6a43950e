package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SauloRodrigues20/agroqr/store"
)

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()

	s, err := store.NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	gens, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, gens)

	first := &store.Generation{
		Path:      "download_qrcode.png",
		Payload:   "https://example.com",
		Engine:    "skip2",
		Level:     "L",
		Version:   2,
		Width:     330,
		Height:    330,
		Checksum:  "abc",
		CreatedAt: 100,
	}
	second := *first
	second.Checksum = "def"
	second.CreatedAt = 200

	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, &second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	gens, err = s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, gens, 2)
	assert.Equal(t, "def", gens[0].Checksum)
	assert.Equal(t, *first, gens[1])

	gens, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, gens, 1)
}

func TestHistoryStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := store.NewHistoryStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, &store.Generation{Path: "a.png", Engine: "skip2", Level: "L", Checksum: "x"}))
	require.NoError(t, s.Close())

	s, err = store.NewHistoryStore(path)
	require.NoError(t, err)
	defer s.Close()

	gens, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, gens, 1)
}
