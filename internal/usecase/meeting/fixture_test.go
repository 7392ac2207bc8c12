package meeting

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/internal/testutil"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/artifact"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
)

// stubProvider returns a fixed result and records calls
type stubProvider struct {
	mu     sync.Mutex
	result *transcription.Result
	err    error
	calls  int
	before func(ctx context.Context)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Transcribe(ctx context.Context, audio transcription.AudioRef, hint string) (*transcription.Result, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.before != nil {
		p.before(ctx)
	}
	if p.err != nil {
		return nil, p.err
	}
	res := *p.result
	return &res, nil
}

// scriptedLLM answers prompts in order
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", context.DeadlineExceeded
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

type fixture struct {
	meetings  *repository.MeetingRepository
	artifacts *artifact.Cache
	store     *storage.LocalStore
	kv        *cache.MemoryStore
	feed      *StatusFeed
	resolver  *language.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	kv := cache.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	meetings := repository.NewMeetingRepository(db)
	return &fixture{
		meetings:  meetings,
		artifacts: artifact.NewCache(meetings, repository.NewArtifactRepository(db), store, artifact.TextRenderer{}, artifact.TextRenderer{}, nil),
		store:     store,
		kv:        kv,
		feed:      NewStatusFeed(kv, 0, nil),
		resolver:  language.NewResolver(language.DefaultCode),
	}
}

func (f *fixture) coordinator(provider transcription.Provider, llm analysis.Completer) *Coordinator {
	engine := analysis.NewEngine(llm, nil, nil)
	return NewCoordinator(f.meetings, provider, engine, f.resolver, nil, f.store, f.artifacts, f.feed, nil)
}

// upload stores audio and creates the meeting row the way the service does
func (f *fixture) upload(t *testing.T, title string) (*entities.Meeting, Job) {
	t.Helper()
	ctx := context.Background()
	m := entities.NewMeeting(title, "en", "UTC", "")
	key := "audio/" + m.ID.String() + ".mp3"
	_, err := f.store.Put(ctx, key, strings.NewReader("fake audio bytes"), 16, "audio/mpeg")
	require.NoError(t, err)
	m.AudioPath = key
	require.NoError(t, f.meetings.Create(ctx, m))

	return m, Job{MeetingID: m.ID, Audio: transcription.AudioRef{Key: key, Name: title + ".mp3", Size: 16, ContentType: "audio/mpeg"}}
}

func (f *fixture) reload(t *testing.T, m *entities.Meeting) *entities.Meeting {
	t.Helper()
	got, err := f.meetings.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	return got
}
