package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/articulos/article"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: open an archive in a temporary directory
func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

// Test helper: a run starting now
func newRun() Run {
	now := time.Now().UTC()
	return Run{
		ID:         uuid.New(),
		Source:     "https://blog.angular.dev/",
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
}

// TestArchive_SaveAndList verifies records round-trip in order
func TestArchive_SaveAndList(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()
	run := newRun()
	records := sampleRecords()

	require.NoError(t, archive.SaveRun(ctx, run, records))

	stored, err := archive.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, records, stored)

	got, err := archive.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Source, got.Source)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.True(t, run.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, len(records), got.ArticleCount)
}

// TestArchive_KeepsOrigin verifies the reconciliation path is stored
func TestArchive_KeepsOrigin(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()
	run := newRun()

	require.NoError(t, archive.SaveRun(ctx, run, sampleRecords()))

	stored, err := archive.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, article.OriginEnriched, stored[0].Origin)
	assert.Equal(t, article.OriginPlaceholder, stored[1].Origin)
	assert.Equal(t, article.OriginErrored, stored[2].Origin)
	assert.Nil(t, stored[1].Link)
}

// TestArchive_AppendOnly verifies the same articles are stored once per run
func TestArchive_AppendOnly(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	first := newRun()
	second := newRun()
	second.StartedAt = first.StartedAt.Add(time.Second)

	require.NoError(t, archive.SaveRun(ctx, first, sampleRecords()))
	require.NoError(t, archive.SaveRun(ctx, second, sampleRecords()))

	runs, err := archive.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, second.ID, runs[1].ID)
}

// TestArchive_DuplicateRun verifies a run ID can only be saved once
func TestArchive_DuplicateRun(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()
	run := newRun()

	require.NoError(t, archive.SaveRun(ctx, run, sampleRecords()))
	assert.Error(t, archive.SaveRun(ctx, run, sampleRecords()))

	stored, err := archive.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3, "failed save leaves the first run intact")
}

// TestArchive_RunNotFound verifies missing runs
func TestArchive_RunNotFound(t *testing.T) {
	archive := openTestArchive(t)

	_, err := archive.GetRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)

	records, err := archive.ListRecords(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestArchive_Reopen verifies data survives closing the database
func TestArchive_Reopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archive.db")
	ctx := context.Background()
	run := newRun()

	archive, err := OpenArchive(dsn)
	require.NoError(t, err)
	require.NoError(t, archive.SaveRun(ctx, run, sampleRecords()))
	require.NoError(t, archive.Close())

	archive, err = OpenArchive(dsn)
	require.NoError(t, err)
	defer archive.Close()

	stored, err := archive.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
