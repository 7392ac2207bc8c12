package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

func TestArtifactRepository_UpsertKeepsOneRowPerKind(t *testing.T) {
	repo := NewArtifactRepository(newTestDB(t))
	ctx := context.Background()
	meetingID := uuid.New()

	first, err := repo.Upsert(ctx, entities.NewArtifact(meetingID, entities.ArtifactKindSummary, "artifacts/s.pdf", entities.ArtifactFormatPDF))
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, entities.NewArtifact(meetingID, entities.ArtifactKindSummary, "artifacts/s.txt", entities.ArtifactFormatText))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "artifacts/s.txt", second.Path)
	assert.Equal(t, entities.ArtifactFormatText, second.Format)

	list, err := repo.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArtifactRepository_UpdateLocation(t *testing.T) {
	repo := NewArtifactRepository(newTestDB(t))
	ctx := context.Background()
	meetingID := uuid.New()

	a, err := repo.Upsert(ctx, entities.NewArtifact(meetingID, entities.ArtifactKindTranscript, "artifacts/t.pdf", entities.ArtifactFormatPDF))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLocation(ctx, a.ID, "fallback/t.txt", entities.ArtifactFormatText))

	got, err := repo.Get(ctx, meetingID, entities.ArtifactKindTranscript)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "fallback/t.txt", got.Path)

	assert.ErrorIs(t, repo.UpdateLocation(ctx, uuid.New(), "x", entities.ArtifactFormatText), entities.ErrArtifactNotFound)
}

func TestArtifactRepository_DeleteByKind(t *testing.T) {
	repo := NewArtifactRepository(newTestDB(t))
	ctx := context.Background()
	meetingID := uuid.New()

	_, err := repo.Upsert(ctx, entities.NewArtifact(meetingID, entities.ArtifactKindTranslation, "a", entities.ArtifactFormatPDF))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, entities.NewArtifact(meetingID, entities.ArtifactKindReport, "b", entities.ArtifactFormatPDF))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByKind(ctx, meetingID, entities.ArtifactKindTranslation))

	gone, err := repo.Get(ctx, meetingID, entities.ArtifactKindTranslation)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.Get(ctx, meetingID, entities.ArtifactKindReport)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
