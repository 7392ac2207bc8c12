package meeting

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/artifact"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/meeting-analyzer/pkg/ai"
)

// UploadInput is a new recording and its form fields
type UploadInput struct {
	Title       string
	Language    string
	Timezone    string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StatusView combines the stored status with live pipeline progress
type StatusView struct {
	MeetingID uuid.UUID              `json:"meeting_id"`
	Status    entities.MeetingStatus `json:"status"`
	Stage     entities.MeetingStatus `json:"stage"`
	JobID     string                 `json:"job_id,omitempty"`
	JobState  transcription.JobState `json:"job_state,omitempty"`
	LastError *string                `json:"last_error,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Translator translates text between provider language codes.
// An error wrapping pkgai.ErrPartialTranslation comes with usable text that
// is stored but not cached.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Submitter hands jobs to background processing
type Submitter interface {
	Submit(ctx context.Context, job Job) error
}

// Service defines meeting operations
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*entities.Meeting, error)
	ProcessUpload(ctx context.Context, meetingID uuid.UUID, audio transcription.AudioRef) error
	GetArtifact(ctx context.Context, meetingID uuid.UUID, kind string) (*artifact.FileRef, io.ReadCloser, error)
	Translate(ctx context.Context, meetingID uuid.UUID, target string) (string, error)
	Get(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context, skip, limit int) ([]entities.Meeting, error)
	Delete(ctx context.Context, meetingID uuid.UUID) error
	Status(ctx context.Context, meetingID uuid.UUID) (*StatusView, error)
}

type meetingService struct {
	meetings       repositories.MeetingRepository
	store          storage.Store
	artifacts      *artifact.Cache
	submitter      Submitter
	translator     Translator
	resolver       *language.Resolver
	cache          cache.Store
	feed           *StatusFeed
	translationTTL time.Duration
	logger         *zap.Logger
}

// ServiceDeps are the collaborators of the meeting service
type ServiceDeps struct {
	Meetings       repositories.MeetingRepository
	Store          storage.Store
	Artifacts      *artifact.Cache
	Submitter      Submitter
	Translator     Translator
	Resolver       *language.Resolver
	Cache          cache.Store
	Feed           *StatusFeed
	TranslationTTL time.Duration
	Logger         *zap.Logger
}

// NewService constructs the meeting service
func NewService(deps ServiceDeps) Service {
	if deps.Resolver == nil {
		deps.Resolver = language.NewResolver(language.DefaultCode)
	}
	return &meetingService{
		meetings:       deps.Meetings,
		store:          deps.Store,
		artifacts:      deps.Artifacts,
		submitter:      deps.Submitter,
		translator:     deps.Translator,
		resolver:       deps.Resolver,
		cache:          deps.Cache,
		feed:           deps.Feed,
		translationTTL: deps.TranslationTTL,
		logger:         deps.Logger,
	}
}

// Upload stores the audio, creates the meeting and queues processing. It
// returns before any processing happens.
func (s *meetingService) Upload(ctx context.Context, in UploadInput) (*entities.Meeting, error) {
	if in.Reader == nil {
		return nil, apperrors.ErrInvalidUpload("audio file is required")
	}

	m := entities.NewMeeting(strings.TrimSpace(in.Title), s.resolver.Canonicalize(in.Language), in.Timezone, "")
	key := "audio/" + m.ID.String() + strings.ToLower(filepath.Ext(in.FileName))

	if _, err := s.store.Put(ctx, key, in.Reader, in.Size, in.ContentType); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to store uploaded audio",
				zap.String("file", in.FileName),
				zap.Error(err),
			)
		}
		return nil, apperrors.ErrUploadStorage(err)
	}
	m.AudioPath = key

	if err := s.meetings.Create(ctx, m); err != nil {
		_ = s.store.Remove(ctx, key)
		return nil, apperrors.ErrDBQueryFailed("create meeting", err)
	}

	if s.logger != nil {
		s.logger.Info("📥 Meeting uploaded",
			zap.String("meeting_id", m.ID.String()),
			zap.String("title", m.Title),
			zap.Int64("size", in.Size),
		)
	}

	audio := transcription.AudioRef{Key: key, Name: in.FileName, Size: in.Size, ContentType: in.ContentType}
	if err := s.ProcessUpload(ctx, m.ID, audio); err != nil {
		m.Status = entities.MeetingStatusTranscribeFailed
		m.LastError = entities.StringPtr(err.Error())
	}
	return m, nil
}

// ProcessUpload hands the meeting to the worker pool
func (s *meetingService) ProcessUpload(ctx context.Context, meetingID uuid.UUID, audio transcription.AudioRef) error {
	s.feed.Publish(ctx, meetingID, PipelineStatus{Stage: entities.MeetingStatusUploaded})
	return s.submitter.Submit(ctx, Job{MeetingID: meetingID, Audio: audio})
}

// GetArtifact returns the document reference and an open reader
func (s *meetingService) GetArtifact(ctx context.Context, meetingID uuid.UUID, kind string) (*artifact.FileRef, io.ReadCloser, error) {
	ref, err := s.artifacts.GetOrGenerate(ctx, meetingID, kind)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.artifacts.Open(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return ref, rc, nil
}

// Translate translates the transcript into target, stores it on the meeting
// and drops the stale translation document.
func (s *meetingService) Translate(ctx context.Context, meetingID uuid.UUID, target string) (string, error) {
	m, err := s.load(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if !m.HasTranscript() {
		return "", apperrors.ErrPrecondition("Meeting has no transcription")
	}

	targetCode, ok := s.resolver.Recognize(target)
	if !ok {
		return "", apperrors.ErrInvalidArgument("unsupported target language: " + target)
	}

	transcript := *m.Transcript
	cacheKey := translationCacheKey(transcript, targetCode)

	translated, hit := s.cachedTranslation(ctx, cacheKey)
	if !hit {
		source := s.resolver.ProviderCode(m.Language, language.DialectGoogle)
		dest := s.resolver.ProviderCode(targetCode, language.DialectGoogle)

		translated, err = s.translator.Translate(ctx, transcript, source, dest)
		partial := errors.Is(err, pkgai.ErrPartialTranslation)
		if err != nil && !partial {
			return "", apperrors.ErrTranslationFailed(err)
		}
		if partial && s.logger != nil {
			s.logger.Warn("⚠️ Translation incomplete, not caching",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		if s.cache != nil && !partial {
			if err := s.cache.Set(ctx, cacheKey, translated, s.translationTTL); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to cache translation", zap.Error(err))
			}
		}
	}

	if err := s.meetings.SetTranslation(ctx, meetingID, translated); err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return "", apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return "", apperrors.ErrDBQueryFailed("save translation", err)
	}

	if err := s.artifacts.Invalidate(ctx, meetingID, entities.ArtifactKindTranslation); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to drop stale translation document",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}

	if s.logger != nil {
		s.logger.Info("🌐 Meeting translated",
			zap.String("meeting_id", meetingID.String()),
			zap.String("target", targetCode),
			zap.Bool("cached", hit),
		)
	}
	return translated, nil
}

func (s *meetingService) cachedTranslation(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	v, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return "", false
	}
	return v, true
}

func translationCacheKey(text, target string) string {
	sum := sha256.Sum256([]byte(text))
	return "translation:" + hex.EncodeToString(sum[:]) + ":" + target
}

// Get returns one meeting
func (s *meetingService) Get(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	return s.load(ctx, meetingID)
}

// List returns meetings, newest first
func (s *meetingService) List(ctx context.Context, skip, limit int) ([]entities.Meeting, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	meetings, err := s.meetings.List(ctx, skip, limit)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("list meetings", err)
	}
	return meetings, nil
}

// Delete removes the meeting, its documents and its audio. File removal is
// best-effort.
func (s *meetingService) Delete(ctx context.Context, meetingID uuid.UUID) error {
	m, err := s.load(ctx, meetingID)
	if err != nil {
		return err
	}

	if err := s.artifacts.Purge(ctx, meetingID); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to purge meeting documents",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
	if m.AudioPath != "" {
		if err := s.store.Remove(ctx, m.AudioPath); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to remove audio file",
				zap.String("path", m.AudioPath),
				zap.Error(err),
			)
		}
	}

	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return apperrors.ErrDBQueryFailed("delete meeting", err)
	}
	s.feed.Clear(ctx, meetingID)

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted", zap.String("meeting_id", meetingID.String()))
	}
	return nil
}

// Status reports live progress, falling back to the stored status
func (s *meetingService) Status(ctx context.Context, meetingID uuid.UUID) (*StatusView, error) {
	m, err := s.load(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		MeetingID: m.ID,
		Status:    m.Status,
		Stage:     m.Status,
		LastError: m.LastError,
		UpdatedAt: m.UpdatedAt,
	}
	if live, ok := s.feed.Get(ctx, meetingID); ok && !m.Status.IsTerminal() {
		view.Stage = live.Stage
		view.JobID = live.JobID
		view.JobState = live.JobState
		view.UpdatedAt = live.UpdatedAt
	}
	return view, nil
}

func (s *meetingService) load(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("get meeting", err)
	}
	if m == nil {
		return nil, apperrors.ErrMeetingNotFound(meetingID.String())
	}
	return m, nil
}
