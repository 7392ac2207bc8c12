package transcription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/pkg/metrics"
)

// PollConfig is the fixed-interval polling budget
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// CheckFunc reports the remote job state. An error with a non-terminal state
// is logged and polling continues.
type CheckFunc func(ctx context.Context) (JobState, error)

var errStillRunning = errors.New("transcription job still running")

// Poll calls check at a fixed interval until the job succeeds, fails, or the
// attempt budget runs out. Exhaustion yields AI_TRANSCRIPTION_TIMEOUT, a
// failed job yields AI_TRANSCRIPTION_FAILED.
func Poll(ctx context.Context, provider, jobID string, cfg PollConfig, logger *zap.Logger, check CheckFunc) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}

	attempts := 0
	op := func() error {
		attempts++
		state, err := check(ctx)
		metrics.RecordPoll(provider, string(state))

		switch state {
		case JobSucceeded:
			NotifyState(ctx, jobID, JobSucceeded)
			return nil
		case JobFailed:
			NotifyState(ctx, jobID, JobFailed)
			if err == nil {
				err = fmt.Errorf("job %s failed", jobID)
			}
			return backoff.Permanent(err)
		}

		NotifyState(ctx, jobID, JobPolling)
		if err != nil && logger != nil {
			logger.Warn("⚠️ Transcription poll failed, will retry",
				zap.String("provider", provider),
				zap.String("job_id", jobID),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
		}
		return errStillRunning
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Interval), uint64(cfg.MaxAttempts-1)),
		ctx,
	)

	err := backoff.Retry(op, policy)
	if err == nil {
		return nil
	}

	if errors.Is(err, errStillRunning) || errors.Is(err, context.DeadlineExceeded) {
		NotifyState(ctx, jobID, JobTimedOut)
		return apperrors.ErrTranscriptionTimeout(provider, jobID, attempts)
	}
	return apperrors.ErrProvider(provider, err)
}
