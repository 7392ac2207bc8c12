// Package meeting runs the upload-to-analysis pipeline and exposes the
// meeting operations used by the HTTP layer.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/media"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-analyzer/pkg/metrics"
)

// Pipeline stage names used for metrics
const (
	stageTranscription = "transcription"
	stageAnalysis      = "analysis"
	stagePersist       = "persist"
)

// Results are written after the job deadline may have passed, so the final
// writes get their own budget.
const (
	persistTimeout     = 30 * time.Second
	pregenerateTimeout = 2 * time.Minute
)

// detach keeps ctx values but drops its deadline and cancellation
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// Job is one meeting handed to the pipeline
type Job struct {
	MeetingID uuid.UUID
	Audio     transcription.AudioRef
}

// Analyzer produces summary and action items
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) analysis.Result
}

// AudioProber reads audio duration and format
type AudioProber interface {
	Probe(ctx context.Context, src media.Source) media.Info
}

// Pregenerator builds documents after processing
type Pregenerator interface {
	Pregenerate(ctx context.Context, meetingID uuid.UUID)
}

// Coordinator drives one meeting through transcription, analysis and
// persistence. It never leaves a meeting without a terminal status unless
// the meeting was deleted while running.
type Coordinator struct {
	meetings  repositories.MeetingRepository
	provider  transcription.Provider
	analyzer  Analyzer
	resolver  *language.Resolver
	prober    AudioProber
	store     storage.Store
	artifacts Pregenerator
	feed      *StatusFeed
	logger    *zap.Logger
}

// NewCoordinator creates a pipeline coordinator
func NewCoordinator(
	meetings repositories.MeetingRepository,
	provider transcription.Provider,
	analyzer Analyzer,
	resolver *language.Resolver,
	prober AudioProber,
	store storage.Store,
	artifacts Pregenerator,
	feed *StatusFeed,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		meetings:  meetings,
		provider:  provider,
		analyzer:  analyzer,
		resolver:  resolver,
		prober:    prober,
		store:     store,
		artifacts: artifacts,
		feed:      feed,
		logger:    logger,
	}
}

// Process runs the pipeline for job. Stage failures are persisted on the
// meeting; the returned error is reserved for failures to record them.
func (c *Coordinator) Process(ctx context.Context, job Job) error {
	id := job.MeetingID

	if !c.setStatus(ctx, id, entities.MeetingStatusTranscribing) {
		return nil
	}

	info := c.probe(ctx, job.Audio)

	start := time.Now()
	observed := transcription.WithObserver(ctx, func(jobID string, state transcription.JobState) {
		c.feed.Publish(ctx, id, PipelineStatus{
			Stage:    entities.MeetingStatusTranscribing,
			JobID:    jobID,
			JobState: state,
		})
	})
	res, err := c.provider.Transcribe(observed, job.Audio, "")
	if err != nil {
		metrics.RecordStage(stageTranscription, "failed", time.Since(start))
		return c.persistTranscriptionFailure(ctx, id, info, err)
	}
	metrics.RecordStage(stageTranscription, "success", time.Since(start))

	if c.logger != nil {
		c.logger.Info("✅ Transcription finished",
			zap.String("meeting_id", id.String()),
			zap.String("provider", c.provider.Name()),
			zap.Int("chars", len(res.Text)),
			zap.Bool("demo", res.Demo),
		)
	}

	var result repositories.MeetingResult
	if res.Demo {
		result = c.demoResult(info)
	} else {
		var ok bool
		if result, ok = c.analyze(ctx, id, res, info); !ok {
			return nil
		}
	}

	stored, err := c.persist(ctx, id, result)
	if err != nil || !stored {
		return err
	}
	if c.artifacts != nil {
		genCtx, cancel := detach(ctx, pregenerateTimeout)
		defer cancel()
		c.artifacts.Pregenerate(genCtx, id)
	}
	return nil
}

func (c *Coordinator) analyze(ctx context.Context, id uuid.UUID, res *transcription.Result, info media.Info) (repositories.MeetingResult, bool) {
	if !c.setStatus(ctx, id, entities.MeetingStatusAnalyzing) {
		return repositories.MeetingResult{}, false
	}

	start := time.Now()
	out := c.analyzer.Analyze(ctx, res.Text)

	result := repositories.MeetingResult{
		Status:      entities.MeetingStatusComplete,
		Transcript:  entities.StringPtr(res.Text),
		Summary:     entities.StringPtr(out.Summary),
		ActionItems: entities.StringPtr(out.ActionItems),
	}
	if out.Failed() {
		metrics.RecordStage(stageAnalysis, "failed", time.Since(start))
		result.Status = entities.MeetingStatusAnalyzeFailed
		result.LastError = entities.StringPtr("analysis failed on every model tier")
	} else {
		metrics.RecordStage(stageAnalysis, "success", time.Since(start))
	}

	if code, ok := c.resolver.Recognize(res.DetectedLanguage); ok {
		result.Language = entities.StringPtr(code)
		result.DetectedLanguage = entities.StringPtr(c.resolver.DisplayName(code))
	} else if res.DetectedLanguage != "" {
		result.DetectedLanguage = entities.StringPtr(res.DetectedLanguage)
	}

	if res.DurationSeconds > 0 && info.Estimated {
		info.DurationSeconds = res.DurationSeconds
		info.Display = media.FormatDuration(res.DurationSeconds)
		info.Estimated = false
	}
	c.attachAudioInfo(&result, info, res.Speakers)
	return result, true
}

func (c *Coordinator) demoResult(info media.Info) repositories.MeetingResult {
	return DemoResult(c.resolver, info.Format, info.SizeBytes)
}

func (c *Coordinator) persistTranscriptionFailure(ctx context.Context, id uuid.UUID, info media.Info, cause error) error {
	if c.logger != nil {
		c.logger.Error("❌ Transcription failed",
			zap.String("meeting_id", id.String()),
			zap.String("provider", c.provider.Name()),
			zap.Error(cause),
		)
	}

	result := repositories.MeetingResult{
		Status:     entities.MeetingStatusTranscribeFailed,
		Transcript: entities.StringPtr(fmt.Sprintf("Transcription failed: %v", cause)),
		LastError:  entities.StringPtr(cause.Error()),
	}
	c.attachAudioInfo(&result, info, nil)
	_, err := c.persist(ctx, id, result)
	return err
}

// persist writes result in one transaction, then falls back to the text
// fields only. stored is false when the meeting was deleted meanwhile.
func (c *Coordinator) persist(ctx context.Context, id uuid.UUID, result repositories.MeetingResult) (stored bool, err error) {
	ctx, cancel := detach(ctx, persistTimeout)
	defer cancel()
	start := time.Now()

	err = c.meetings.ApplyResult(ctx, id, result)
	if err == nil {
		metrics.RecordStage(stagePersist, "success", time.Since(start))
		c.feed.Publish(ctx, id, PipelineStatus{Stage: result.Status})
		return true, nil
	}
	if errors.Is(err, entities.ErrMeetingNotFound) {
		c.logDeleted(id)
		return false, nil
	}

	if c.logger != nil {
		c.logger.Warn("⚠️ Failed to persist pipeline result, retrying with text fields only",
			zap.String("meeting_id", id.String()),
			zap.Error(err),
		)
	}

	err = c.meetings.ApplyMinimal(ctx, id, result.Transcript, result.Summary, result.ActionItems)
	if err == nil {
		metrics.RecordStage(stagePersist, "minimal", time.Since(start))
		if serr := c.meetings.UpdateStatus(ctx, id, result.Status, result.LastError); serr != nil && c.logger != nil {
			c.logger.Warn("⚠️ Failed to record final status",
				zap.String("meeting_id", id.String()),
				zap.Error(serr),
			)
		}
		c.feed.Publish(ctx, id, PipelineStatus{Stage: result.Status})
		return true, nil
	}
	if errors.Is(err, entities.ErrMeetingNotFound) {
		c.logDeleted(id)
		return false, nil
	}

	metrics.RecordStage(stagePersist, "failed", time.Since(start))
	if c.logger != nil {
		c.logger.Error("❌ Failed to persist pipeline result",
			zap.String("meeting_id", id.String()),
			zap.Error(err),
		)
	}
	return false, fmt.Errorf("persist meeting %s: %w", id, err)
}

// setStatus reports false when the meeting no longer exists
func (c *Coordinator) setStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) bool {
	c.feed.Publish(ctx, id, PipelineStatus{Stage: status})

	err := c.meetings.UpdateStatus(ctx, id, status, nil)
	if err == nil {
		return true
	}
	if errors.Is(err, entities.ErrMeetingNotFound) {
		c.logDeleted(id)
		return false
	}
	if c.logger != nil {
		c.logger.Warn("⚠️ Failed to update meeting status",
			zap.String("meeting_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
	return true
}

func (c *Coordinator) probe(ctx context.Context, audio transcription.AudioRef) media.Info {
	if c.prober == nil {
		return media.Info{Format: media.FormatTag(audio.Name), SizeBytes: audio.Size}
	}
	src := media.Source{
		Name: audio.Name,
		Size: audio.Size,
		Open: func() (io.ReadCloser, error) { return c.store.Open(ctx, audio.Key) },
	}
	if lp, ok := c.store.(storage.LocalPather); ok {
		src.LocalPath = lp.LocalPath(audio.Key)
	}
	return c.prober.Probe(ctx, src)
}

func (c *Coordinator) attachAudioInfo(result *repositories.MeetingResult, info media.Info, speakers []string) {
	if info.Display != "" {
		result.AudioDuration = entities.StringPtr(info.Display)
	}
	m := entities.Meeting{}
	err := m.SetAudioInfo(entities.AudioInfo{
		Format:          info.Format,
		Speakers:        speakers,
		DurationSeconds: info.DurationSeconds,
		Estimated:       info.Estimated,
		SizeBytes:       info.SizeBytes,
	})
	if err == nil {
		result.AudioInfo = m.AudioInfo
	}
}

func (c *Coordinator) logDeleted(id uuid.UUID) {
	if c.logger != nil {
		c.logger.Info("ℹ️ Meeting deleted during processing, stopping",
			zap.String("meeting_id", id.String()),
		)
	}
}
