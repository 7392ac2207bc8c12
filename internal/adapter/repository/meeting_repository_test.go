package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
)

func TestMeetingRepository_CreateAndGet(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t))
	ctx := context.Background()

	m := entities.NewMeeting("Standup", "en", "UTC", "audio/standup.wav")
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Standup", got.Title)
	assert.Equal(t, entities.MeetingStatusUploaded, got.Status)
	assert.Nil(t, got.Transcript)

	missing, err := repo.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMeetingRepository_ListNewestFirst(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t))
	ctx := context.Background()

	older := entities.NewMeeting("First", "en", "UTC", "a")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := entities.NewMeeting("Second", "en", "UTC", "b")
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)

	page, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "First", page[0].Title)
}

func TestMeetingRepository_ApplyResultKeepsEarlierFields(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t))
	ctx := context.Background()

	m := entities.NewMeeting("Standup", "en", "UTC", "a")
	require.NoError(t, repo.Create(ctx, m))
	require.NoError(t, repo.SetTranslation(ctx, m.ID, "Hola"))

	err := repo.ApplyResult(ctx, m.ID, repositories.MeetingResult{
		Status:      entities.MeetingStatusComplete,
		Language:    entities.StringPtr("es"),
		Transcript:  entities.StringPtr("hello"),
		Summary:     entities.StringPtr("short"),
		ActionItems: entities.StringPtr("• Ann: ship"),
		AudioInfo:   []byte(`{"format":"WAV","estimated":false}`),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusComplete, got.Status)
	assert.Equal(t, "es", got.Language)
	assert.Equal(t, "hello", entities.StringValue(got.Transcript))
	assert.Equal(t, "Hola", entities.StringValue(got.Translation))
	info, err := got.GetAudioInfo()
	require.NoError(t, err)
	assert.Equal(t, "WAV", info.Format)
}

func TestMeetingRepository_MissingMeeting(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t))
	ctx := context.Background()
	id := uuid.New()

	assert.ErrorIs(t, repo.ApplyResult(ctx, id, repositories.MeetingResult{Status: entities.MeetingStatusComplete}), entities.ErrMeetingNotFound)
	assert.ErrorIs(t, repo.ApplyMinimal(ctx, id, entities.StringPtr("t"), nil, nil), entities.ErrMeetingNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, id, entities.MeetingStatusAnalyzing, nil), entities.ErrMeetingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), entities.ErrMeetingNotFound)
}

func TestMeetingRepository_DeleteCascadesArtifacts(t *testing.T) {
	db := newTestDB(t)
	meetings := NewMeetingRepository(db)
	artifacts := NewArtifactRepository(db)
	ctx := context.Background()

	m := entities.NewMeeting("Standup", "en", "UTC", "a")
	require.NoError(t, meetings.Create(ctx, m))
	_, err := artifacts.Upsert(ctx, entities.NewArtifact(m.ID, entities.ArtifactKindReport, "artifacts/r.pdf", entities.ArtifactFormatPDF))
	require.NoError(t, err)

	require.NoError(t, meetings.Delete(ctx, m.ID))

	list, err := artifacts.ListByMeeting(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
