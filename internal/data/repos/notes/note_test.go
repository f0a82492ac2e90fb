package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/noteeline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

func TestNoteRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewNoteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, &types.Note{Name: "Bio 101"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	_, err = repo.Create(ctx, nil, &types.Note{Name: "Bio 101"})
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	pts := []types.NotePoint{{Text: "cells", CreatedAt: 4.5, WallTime: 1000}}
	require.NoError(t, repo.UpdateContent(ctx, nil, created.ID, pts))
	require.NoError(t, repo.UpdateExpansions(ctx, nil, created.ID, []types.Expansion{{Point: "cells", Expansion: "Cells are units."}}))
	require.NoError(t, repo.UpdateVideo(ctx, nil, created.ID, "abc"))
	require.NoError(t, repo.UpdateTranscript(ctx, nil, created.ID, []types.TranscriptSegment{{Text: "hi", OffsetMs: 0, DurationMs: 900}}))
	require.NoError(t, repo.UpdateSummary(ctx, nil, created.ID, "transcript summary"))
	require.NoError(t, repo.UpdatePointSummary(ctx, nil, created.ID, "point summary"))
	require.NoError(t, repo.UpdateRecordingStart(ctx, nil, created.ID, 77))
	require.NoError(t, repo.IncrementCounter(ctx, nil, created.ID, CounterExpand))
	require.NoError(t, repo.IncrementCounter(ctx, nil, created.ID, CounterExpand))
	require.NoError(t, repo.IncrementCounter(ctx, nil, created.ID, CounterTheme))
	require.ErrorIs(t, repo.IncrementCounter(ctx, nil, created.ID, "bogus"), apperrors.ErrInvalidArgument)

	got, err := repo.GetByName(ctx, nil, "Bio 101")
	require.NoError(t, err)
	gotPts, err := got.Points()
	require.NoError(t, err)
	assert.Equal(t, pts, gotPts)
	xs, err := got.ExpansionList()
	require.NoError(t, err)
	assert.Len(t, xs, 1)
	segs, err := got.TranscriptSegments()
	require.NoError(t, err)
	assert.Equal(t, int64(900), segs[0].DurationMs)
	assert.Equal(t, "abc", got.VideoID)
	assert.Equal(t, "transcript summary", got.GeneratedSummary)
	assert.Equal(t, "point summary", got.GeneratedSummaryP)
	assert.Equal(t, int64(77), got.RecordingStart)
	assert.Equal(t, types.ButtonStats{ThemeCount: 1, ExpandCount: 2}, got.Stats())

	require.NoError(t, repo.Rename(ctx, nil, created.ID, "Bio 102"))
	_, err = repo.GetByName(ctx, nil, "Bio 101")
	require.ErrorIs(t, err, ErrNoteNotFound)

	list, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bio 102", list[0].Name)

	require.NoError(t, repo.Delete(ctx, nil, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, nil, created.ID), ErrNoteNotFound)
	require.ErrorIs(t, repo.UpdateVideo(ctx, nil, created.ID, "x"), ErrNoteNotFound)
}

func TestOnboardingRepoBoundsCorpus(t *testing.T) {
	db := testutil.DB(t)
	repo := NewOnboardingRepo(db, testutil.Logger(t))
	ctx := context.Background()

	section := func(id, note string) *types.OnboardingSection {
		s := &types.OnboardingSection{ID: id, Note: note, Transcript: "t"}
		require.NoError(t, s.SetKeypoints([]string{"k1", "k2"}))
		return s
	}

	for _, id := range []string{"1", "2", "3"} {
		_, err := repo.Upsert(ctx, nil, section(id, "note "+id))
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, nil, section("4", "overflow"))
	require.ErrorIs(t, err, ErrCorpusFull)

	_, err = repo.Upsert(ctx, nil, section("2", "rewritten"))
	require.NoError(t, err)

	list, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, types.MaxOnboardingSections)
	assert.Equal(t, "rewritten", list[1].Note)
	ex, err := list[1].Example()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, ex.Keypoints)

	_, err = repo.Upsert(ctx, nil, &types.OnboardingSection{})
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
