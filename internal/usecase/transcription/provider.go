// Package transcription turns stored audio into text through a pluggable
// speech-to-text backend.
package transcription

import (
	"context"
	"io"
	"time"
)

// JobState tracks a remote transcription job
type JobState string

const (
	JobSubmitted JobState = "SUBMITTED"
	JobPolling   JobState = "POLLING"
	JobSucceeded JobState = "SUCCEEDED"
	JobFailed    JobState = "FAILED"
	JobTimedOut  JobState = "TIMED_OUT"
)

// AudioRef points at uploaded audio in object storage
type AudioRef struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
}

// Result is the outcome of a finished transcription
type Result struct {
	Text             string
	DetectedLanguage string // provider label, resolved by the caller
	DurationSeconds  float64
	Speakers         []string
	JobID            string
	State            JobState
	Demo             bool
}

// Provider transcribes audio. hint is a canonical language code or "" for
// automatic detection.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audio AudioRef, hint string) (*Result, error)
}

// StateObserver receives job state transitions
type StateObserver func(jobID string, state JobState)

type observerKey struct{}

// WithObserver attaches an observer to ctx for providers to report to
func WithObserver(ctx context.Context, obs StateObserver) context.Context {
	if obs == nil {
		return ctx
	}
	return context.WithValue(ctx, observerKey{}, obs)
}

// NotifyState reports a job state to the observer attached to ctx, if any
func NotifyState(ctx context.Context, jobID string, state JobState) {
	if obs, ok := ctx.Value(observerKey{}).(StateObserver); ok && obs != nil {
		obs(jobID, state)
	}
}

// AudioOpener reads stored audio
type AudioOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// URLSigner hands out time-limited URLs for stored audio
type URLSigner interface {
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UploadGate bounds concurrent audio uploads to remote providers
type UploadGate interface {
	Acquire(ctx context.Context, n int64) error
	Release(n int64)
}
