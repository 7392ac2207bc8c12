package artifact

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/internal/testutil"
)

type failingRenderer struct {
	format entities.ArtifactFormat
}

func (r failingRenderer) Format() entities.ArtifactFormat { return r.format }

func (r failingRenderer) Render(doc Document) ([]byte, error) {
	return nil, errors.New("renderer exploded")
}

// failingStore rejects writes under the given prefixes
type failingStore struct {
	storage.Store
	prefixes []string
}

func (s *failingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	for _, p := range s.prefixes {
		if strings.HasPrefix(key, p) {
			return "", errors.New("disk full")
		}
	}
	return s.Store.Put(ctx, key, r, size, contentType)
}

type cacheFixture struct {
	cache     *Cache
	meetings  *repository.MeetingRepository
	artifacts *repository.ArtifactRepository
	store     *storage.LocalStore
}

func newCacheFixture(t *testing.T, rich, plain Renderer, failPrefixes ...string) *cacheFixture {
	t.Helper()
	db := testutil.NewDB(t)
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	f := &cacheFixture{
		meetings:  repository.NewMeetingRepository(db),
		artifacts: repository.NewArtifactRepository(db),
		store:     local,
	}
	var store storage.Store = local
	if len(failPrefixes) > 0 {
		store = &failingStore{Store: local, prefixes: failPrefixes}
	}
	f.cache = NewCache(f.meetings, f.artifacts, store, rich, plain, nil)
	return f
}

func (f *cacheFixture) createMeeting(t *testing.T, m *entities.Meeting) *entities.Meeting {
	t.Helper()
	require.NoError(t, f.meetings.Create(context.Background(), m))
	return m
}

func readAll(t *testing.T, f *cacheFixture, ref *FileRef) string {
	t.Helper()
	rc, err := f.cache.Open(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestGetOrGenerate_RichDocument(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := f.createMeeting(t, sampleMeeting())

	ref, err := f.cache.GetOrGenerate(context.Background(), m.ID, "report")
	require.NoError(t, err)

	assert.Equal(t, entities.ArtifactFormatPDF, ref.Format)
	assert.Equal(t, "application/pdf", ref.MIME)
	assert.Equal(t, "Standup_report.pdf", ref.DownloadName)
	assert.True(t, strings.HasPrefix(ref.Location, "artifacts/report_"+m.ID.String()))
	assert.True(t, strings.HasPrefix(readAll(t, f, ref), "%PDF"))

	again, err := f.cache.GetOrGenerate(context.Background(), m.ID, "report")
	require.NoError(t, err)
	assert.Equal(t, ref.ArtifactID, again.ArtifactID)
	assert.Equal(t, ref.Location, again.Location)
}

func TestGetOrGenerate_SummaryBeforeAnalysis(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := sampleMeeting()
	m.Summary = nil
	m.ActionItems = nil
	f.createMeeting(t, m)

	_, err := f.cache.GetOrGenerate(context.Background(), m.ID, "summary")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_FAILED_PRECONDITION))

	rows, err := f.artifacts.ListByMeeting(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetOrGenerate_MissingFileIsRegeneratedInPlace(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := f.createMeeting(t, sampleMeeting())
	ctx := context.Background()

	first, err := f.cache.GetOrGenerate(ctx, m.ID, "report")
	require.NoError(t, err)
	require.NoError(t, f.store.Remove(ctx, first.Location))

	healed, err := f.cache.GetOrGenerate(ctx, m.ID, "report")
	require.NoError(t, err)

	assert.Equal(t, first.ArtifactID, healed.ArtifactID)
	assert.True(t, strings.HasPrefix(healed.Location, "fallback/"))
	assert.Equal(t, entities.ArtifactFormatText, healed.Format)
	assert.Equal(t, "Standup_report.txt", healed.DownloadName)

	content := readAll(t, f, healed)
	assert.Contains(t, content, "=== REPORT: Standup ===")
	assert.Contains(t, content, "Release shipped.")

	row, err := f.artifacts.Get(ctx, m.ID, entities.ArtifactKindReport)
	require.NoError(t, err)
	assert.Equal(t, healed.Location, row.Path)
	assert.Equal(t, entities.ArtifactFormatText, row.Format)
}

func TestGetOrGenerate_FallsBackToPlainText(t *testing.T) {
	f := newCacheFixture(t, failingRenderer{format: entities.ArtifactFormatPDF}, TextRenderer{})
	m := f.createMeeting(t, sampleMeeting())

	ref, err := f.cache.GetOrGenerate(context.Background(), m.ID, "transcript")
	require.NoError(t, err)

	assert.Equal(t, entities.ArtifactFormatText, ref.Format)
	assert.True(t, strings.HasPrefix(ref.Location, "artifacts/transcript_"))
	assert.True(t, strings.HasSuffix(ref.Location, ".txt"))
	assert.Equal(t, "=== TRANSCRIPT: Standup ===\n\nSpeaker A: shipped it\n\nSpeaker B: great", readAll(t, f, ref))
}

func TestGetOrGenerate_NonLatinTextFallsBackToPlainText(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := sampleMeeting()
	m.Language = "zh"
	m.Transcript = entities.StringPtr("说话人 A: 我们周五发布")
	f.createMeeting(t, m)

	ref, err := f.cache.GetOrGenerate(context.Background(), m.ID, "transcript")
	require.NoError(t, err)

	assert.Equal(t, entities.ArtifactFormatText, ref.Format)
	assert.True(t, strings.HasPrefix(ref.Location, "artifacts/"))
	assert.Contains(t, readAll(t, f, ref), "我们周五发布")
}

func TestGetOrGenerate_EmergencyFile(t *testing.T) {
	f := newCacheFixture(t,
		failingRenderer{format: entities.ArtifactFormatPDF},
		failingRenderer{format: entities.ArtifactFormatText},
	)
	m := f.createMeeting(t, sampleMeeting())

	ref, err := f.cache.GetOrGenerate(context.Background(), m.ID, "summary")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref.Location, "emergency/"))
	content := readAll(t, f, ref)
	assert.Contains(t, content, "renderer exploded")
	assert.Contains(t, content, "Release shipped.")
	assert.Contains(t, content, "• Ann: write notes")
	assert.Contains(t, content, "Speaker A: shipped it")
}

func TestGetOrGenerate_AllWritesFail(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{}, AreaArtifacts, AreaEmergency)
	m := f.createMeeting(t, sampleMeeting())

	_, err := f.cache.GetOrGenerate(context.Background(), m.ID, "transcript")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_REPORT_GENERATION_FAILED))
}

func TestGetOrGenerate_BadInput(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := f.createMeeting(t, sampleMeeting())

	_, err := f.cache.GetOrGenerate(context.Background(), m.ID, "minutes")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_ARTIFACT_INVALID_KIND))

	_, err = f.cache.GetOrGenerate(context.Background(), uuid.New(), "transcript")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_MEETING_NOT_FOUND))
}

func TestPregenerateAndPurge(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := f.createMeeting(t, sampleMeeting())
	ctx := context.Background()

	f.cache.Pregenerate(ctx, m.ID)

	rows, err := f.artifacts.ListByMeeting(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.NoError(t, f.cache.Purge(ctx, m.ID))

	for _, row := range rows {
		exists, err := f.store.Exists(ctx, row.Path)
		require.NoError(t, err)
		assert.False(t, exists, row.Path)
	}
	rows, err = f.artifacts.ListByMeeting(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInvalidate(t *testing.T) {
	f := newCacheFixture(t, NewPDFRenderer(nil), TextRenderer{})
	m := sampleMeeting()
	m.Translation = entities.StringPtr("hola")
	f.createMeeting(t, m)
	ctx := context.Background()

	ref, err := f.cache.GetOrGenerate(ctx, m.ID, "translation")
	require.NoError(t, err)

	require.NoError(t, f.cache.Invalidate(ctx, m.ID, entities.ArtifactKindTranslation))

	exists, err := f.store.Exists(ctx, ref.Location)
	require.NoError(t, err)
	assert.False(t, exists)

	row, err := f.artifacts.Get(ctx, m.ID, entities.ArtifactKindTranslation)
	require.NoError(t, err)
	assert.Nil(t, row)

	assert.NoError(t, f.cache.Invalidate(ctx, m.ID, entities.ArtifactKindTranslation))
}
