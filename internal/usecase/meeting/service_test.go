package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/meeting-analyzer/pkg/ai"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

type recordingSubmitter struct {
	mu   sync.Mutex
	jobs []Job
}

func (s *recordingSubmitter) Submit(ctx context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

type countingTranslator struct {
	calls   int
	sources []string
	err     error

	// the first call loses its second chunk
	partialFirst bool
}

func (c *countingTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	c.calls++
	c.sources = append(c.sources, source+">"+target)
	if c.err != nil {
		return "", c.err
	}
	if c.partialFirst && c.calls == 1 {
		return "[" + target + "] " + text + "\n\n[Translation error for chunk 2]",
			fmt.Errorf("%w: 1 of 2 chunks failed: status 503", pkgai.ErrPartialTranslation)
	}
	return "[" + target + "] " + text, nil
}

func newTestService(f *fixture, sub Submitter, tr Translator) Service {
	return NewService(ServiceDeps{
		Meetings:       f.meetings,
		Store:          f.store,
		Artifacts:      f.artifacts,
		Submitter:      sub,
		Translator:     tr,
		Resolver:       f.resolver,
		Cache:          f.kv,
		Feed:           f.feed,
		TranslationTTL: time.Hour,
	})
}

func TestUpload_StoresAudioAndQueuesJob(t *testing.T) {
	f := newFixture(t)
	sub := &recordingSubmitter{}
	svc := newTestService(f, sub, &countingTranslator{})

	m, err := svc.Upload(context.Background(), UploadInput{
		Title:       "  Weekly sync ",
		Language:    "Spanish",
		FileName:    "sync.WAV",
		ContentType: "audio/wav",
		Size:        4,
		Reader:      strings.NewReader("RIFF"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Weekly sync", m.Title)
	assert.Equal(t, "es", m.Language)
	assert.Equal(t, entities.MeetingStatusUploaded, m.Status)
	assert.Equal(t, "audio/"+m.ID.String()+".wav", m.AudioPath)

	exists, err := f.store.Exists(context.Background(), m.AudioPath)
	require.NoError(t, err)
	assert.True(t, exists)

	require.Len(t, sub.jobs, 1)
	assert.Equal(t, m.ID, sub.jobs[0].MeetingID)
	assert.Equal(t, "sync.WAV", sub.jobs[0].Audio.Name)

	stored := f.reload(t, m)
	require.NotNil(t, stored)
	assert.Equal(t, "es", stored.Language)
}

func TestUpload_QueueFullStillReturnsMeeting(t *testing.T) {
	f := newFixture(t)
	pool := NewPool(processorFunc(func(ctx context.Context, job Job) error { return nil }),
		f.meetings, &config.PipelineConfig{Workers: 1, QueueSize: 1}, nil)
	require.NoError(t, pool.Submit(context.Background(), Job{MeetingID: uuid.New()}))

	svc := newTestService(f, pool, &countingTranslator{})
	m, err := svc.Upload(context.Background(), UploadInput{
		Title:    "Overflow",
		FileName: "a.mp3",
		Size:     3,
		Reader:   strings.NewReader("abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribeFailed, m.Status)
	assert.Equal(t, entities.MeetingStatusTranscribeFailed, f.reload(t, m).Status)
}

func TestUpload_RequiresFile(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})

	_, err := svc.Upload(context.Background(), UploadInput{Title: "empty"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_UPLOAD_INVALID_FILE))
}

func TestTranslate(t *testing.T) {
	ctx := context.Background()

	t.Run("no transcript", func(t *testing.T) {
		f := newFixture(t)
		svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
		m, _ := f.upload(t, "Fresh")

		_, err := svc.Translate(ctx, m.ID, "es")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_FAILED_PRECONDITION))
	})

	t.Run("unknown meeting", func(t *testing.T) {
		f := newFixture(t)
		svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})

		_, err := svc.Translate(ctx, uuid.New(), "es")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_MEETING_NOT_FOUND))
	})

	t.Run("unsupported target", func(t *testing.T) {
		f := newFixture(t)
		svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
		m := processedMeeting(t, f)

		_, err := svc.Translate(ctx, m.ID, "klingon")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_INVALID_ARGUMENT))
	})

	t.Run("cached and stored", func(t *testing.T) {
		f := newFixture(t)
		tr := &countingTranslator{}
		svc := newTestService(f, &recordingSubmitter{}, tr)
		m := processedMeeting(t, f)

		out, err := svc.Translate(ctx, m.ID, "Chinese")
		require.NoError(t, err)
		assert.Equal(t, "[zh-CN] Alice: ship it. Bob: ok.", out)

		again, err := svc.Translate(ctx, m.ID, "zh")
		require.NoError(t, err)
		assert.Equal(t, out, again)
		assert.Equal(t, 1, tr.calls)
		assert.Equal(t, []string{"en>zh-CN"}, tr.sources)
		assert.Equal(t, out, entities.StringValue(f.reload(t, m).Translation))
	})

	t.Run("new translation replaces stored document", func(t *testing.T) {
		f := newFixture(t)
		svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
		m := processedMeeting(t, f)

		_, err := svc.Translate(ctx, m.ID, "es")
		require.NoError(t, err)
		_, rc, err := svc.GetArtifact(ctx, m.ID, "translation")
		require.NoError(t, err)
		rc.Close()

		_, err = svc.Translate(ctx, m.ID, "fr")
		require.NoError(t, err)
		ref, rc, err := svc.GetArtifact(ctx, m.ID, "translation")
		require.NoError(t, err)
		defer rc.Close()
		buf := new(strings.Builder)
		_, err = io.Copy(buf, rc)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "[fr]")
		assert.NotEmpty(t, ref.DownloadName)
	})

	t.Run("partial translation is stored but not cached", func(t *testing.T) {
		f := newFixture(t)
		tr := &countingTranslator{partialFirst: true}
		svc := newTestService(f, &recordingSubmitter{}, tr)
		m := processedMeeting(t, f)

		first, err := svc.Translate(ctx, m.ID, "es")
		require.NoError(t, err)
		assert.Contains(t, first, "[Translation error for chunk 2]")
		assert.Equal(t, first, entities.StringValue(f.reload(t, m).Translation))

		retry, err := svc.Translate(ctx, m.ID, "es")
		require.NoError(t, err)
		assert.Equal(t, 2, tr.calls)
		assert.Equal(t, "[es] Alice: ship it. Bob: ok.", retry)
		assert.Equal(t, retry, entities.StringValue(f.reload(t, m).Translation))
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(t)
		svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{err: errors.New("quota")})
		m := processedMeeting(t, f)

		_, err := svc.Translate(ctx, m.ID, "es")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_AI_TRANSLATION_FAILED))
		assert.Nil(t, f.reload(t, m).Translation)
	})
}

func TestDelete_RemovesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
	m := processedMeeting(t, f)

	ref, rc, err := svc.GetArtifact(ctx, m.ID, "report")
	require.NoError(t, err)
	rc.Close()

	require.NoError(t, svc.Delete(ctx, m.ID))

	_, _, err = svc.GetArtifact(ctx, m.ID, "report")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_MEETING_NOT_FOUND))

	for _, key := range []string{m.AudioPath, ref.Location} {
		exists, err := f.store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists, key)
	}
	_, ok := f.feed.Get(ctx, m.ID)
	assert.False(t, ok)

	err = svc.Delete(ctx, m.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_MEETING_NOT_FOUND))
}

func TestStatus_PrefersLiveProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
	m, _ := f.upload(t, "Live")

	f.feed.Publish(ctx, m.ID, PipelineStatus{Stage: entities.MeetingStatusTranscribing, JobID: "j1", JobState: transcription.JobPolling})
	view, err := svc.Status(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusUploaded, view.Status)
	assert.Equal(t, entities.MeetingStatusTranscribing, view.Stage)
	assert.Equal(t, "j1", view.JobID)

	require.NoError(t, f.meetings.UpdateStatus(ctx, m.ID, entities.MeetingStatusTranscribeFailed, entities.StringPtr("boom")))
	view, err = svc.Status(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribeFailed, view.Stage)
	assert.Empty(t, view.JobID)
	assert.Equal(t, "boom", entities.StringValue(view.LastError))
}

func TestList_ClampsPaging(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(f, &recordingSubmitter{}, &countingTranslator{})
	for i := 0; i < 3; i++ {
		f.upload(t, "m")
	}

	all, err := svc.List(context.Background(), -5, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

// processedMeeting runs the pipeline for a fresh upload
func processedMeeting(t *testing.T, f *fixture) *entities.Meeting {
	t.Helper()
	m, job := f.upload(t, "Standup")
	provider := &stubProvider{result: &transcription.Result{Text: "Alice: ship it. Bob: ok.", State: transcription.JobSucceeded}}
	llm := &scriptedLLM{replies: []string{`{"summary": "Team agreed to ship.", "action_items": "Alice: ship it"}`}}
	require.NoError(t, f.coordinator(provider, llm).Process(context.Background(), job))
	return f.reload(t, m)
}
