// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2pptx/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ok := types.RunRecord{
		ID:        "run-ok",
		Input:     "deck.pdf",
		Output:    "deck.pptx",
		Pages:     3,
		Format:    types.FormatPNG,
		Status:    types.RunSucceeded,
		StartedAt: base,
		Duration:  1500 * time.Millisecond,
	}
	failed := types.RunRecord{
		ID:        "run-failed",
		Input:     "slides.pptx",
		Format:    types.FormatJPG,
		Flattened: true,
		Status:    types.RunFailed,
		Error:     "presentation application not available",
		StartedAt: base.Add(time.Minute),
		Duration:  20 * time.Millisecond,
	}
	require.NoError(t, store.Record(ctx, ok))
	require.NoError(t, store.Record(ctx, failed))

	runs, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, failed, runs[0], "newest first")
	assert.Equal(t, ok, runs[1])
}

func TestRecentLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, types.RunRecord{
			ID:        fmt.Sprintf("run-%d", i),
			Input:     "deck.pdf",
			Format:    types.FormatJPG,
			Status:    types.RunSucceeded,
			StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
}

func TestRecordReplacesSameID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	r := types.RunRecord{ID: "same", Input: "a.pdf", Format: types.FormatJPG, Status: types.RunFailed, StartedAt: time.Now()}
	require.NoError(t, store.Record(ctx, r))
	r.Status = types.RunSucceeded
	require.NoError(t, store.Record(ctx, r))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, types.RunSucceeded, runs[0].Status)
}
