package transcription

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"
)

type memAudio map[string][]byte

func (m memAudio) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, ok := m[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type fixedSigner string

func (s fixedSigner) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return string(s) + "/" + key, nil
}

type stateLog struct {
	mu     sync.Mutex
	states []JobState
}

func (l *stateLog) observe(jobID string, state JobState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, state)
}

func (l *stateLog) all() []JobState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]JobState(nil), l.states...)
}

var fastPoll = PollConfig{Interval: time.Millisecond, MaxAttempts: 5}
