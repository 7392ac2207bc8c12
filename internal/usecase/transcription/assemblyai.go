package transcription

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/pkg/ai"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// AssemblyAPI is the subset of the AssemblyAI client used here
type AssemblyAPI interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
	Submit(ctx context.Context, audioURL, languageCode string) (string, error)
	Get(ctx context.Context, id string) (*ai.AssemblyTranscript, error)
}

// AssemblyAIProvider uploads audio, submits a job, and polls until it finishes
type AssemblyAIProvider struct {
	api      AssemblyAPI
	audio    AudioOpener
	gate     UploadGate
	resolver *language.Resolver
	poll     PollConfig
	logger   *zap.Logger
}

// NewAssemblyAIProvider creates the submit-and-poll AssemblyAI provider
func NewAssemblyAIProvider(api AssemblyAPI, audio AudioOpener, gate UploadGate, resolver *language.Resolver, poll PollConfig, logger *zap.Logger) *AssemblyAIProvider {
	return &AssemblyAIProvider{
		api:      api,
		audio:    audio,
		gate:     gate,
		resolver: resolver,
		poll:     poll,
		logger:   logger,
	}
}

// Name returns the provider name
func (p *AssemblyAIProvider) Name() string { return config.ProviderAssemblyAI }

// Transcribe runs the full upload, submit, poll cycle
func (p *AssemblyAIProvider) Transcribe(ctx context.Context, audio AudioRef, hint string) (*Result, error) {
	uploadURL, err := p.upload(ctx, audio)
	if err != nil {
		return nil, apperrors.ErrProvider(p.Name(), err)
	}

	var code string
	if hint != "" {
		code = p.resolver.ProviderCode(hint, language.DialectAssemblyAI)
	}

	jobID, err := p.api.Submit(ctx, uploadURL, code)
	if err != nil {
		return nil, apperrors.ErrProvider(p.Name(), err)
	}
	NotifyState(ctx, jobID, JobSubmitted)

	if p.logger != nil {
		p.logger.Info("🎙️ Transcription job submitted",
			zap.String("provider", p.Name()),
			zap.String("job_id", jobID),
			zap.String("language", code),
		)
	}

	var final *ai.AssemblyTranscript
	err = Poll(ctx, p.Name(), jobID, p.poll, p.logger, func(ctx context.Context) (JobState, error) {
		t, err := p.api.Get(ctx, jobID)
		if err != nil {
			return JobPolling, err
		}
		switch t.Status {
		case ai.AssemblyStatusCompleted:
			final = t
			return JobSucceeded, nil
		case ai.AssemblyStatusError:
			return JobFailed, fmt.Errorf("assemblyai error: %s", t.Error)
		}
		return JobPolling, nil
	})
	if err != nil {
		return nil, err
	}

	text, speakers := renderUtterances(final)
	return &Result{
		Text:             text,
		DetectedLanguage: final.LanguageCode,
		DurationSeconds:  final.DurationSeconds,
		Speakers:         speakers,
		JobID:            jobID,
		State:            JobSucceeded,
	}, nil
}

func (p *AssemblyAIProvider) upload(ctx context.Context, audio AudioRef) (string, error) {
	if p.gate != nil {
		if err := p.gate.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer p.gate.Release(1)
	}

	rc, err := p.audio.Open(ctx, audio.Key)
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer rc.Close()

	if p.logger != nil {
		p.logger.Info("📤 Uploading file to AssemblyAI",
			zap.String("key", audio.Key),
			zap.Int64("size", audio.Size),
		)
	}
	return p.api.Upload(ctx, rc)
}

// renderUtterances formats speaker turns as "Speaker A: text" paragraphs and
// falls back to the plain text when diarization is missing.
func renderUtterances(t *ai.AssemblyTranscript) (string, []string) {
	if len(t.Utterances) == 0 {
		return strings.TrimSpace(t.Text), nil
	}

	var sb strings.Builder
	seen := make(map[string]bool)
	var speakers []string
	for _, u := range t.Utterances {
		label := "Speaker " + u.Speaker
		if !seen[label] {
			seen[label] = true
			speakers = append(speakers, label)
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(u.Text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), speakers
}
