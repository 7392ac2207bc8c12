package meeting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
)

// PipelineStatus is the live progress entry of one meeting
type PipelineStatus struct {
	Stage     entities.MeetingStatus `json:"stage"`
	JobID     string                 `json:"job_id,omitempty"`
	JobState  transcription.JobState `json:"job_state,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// StatusFeed publishes pipeline progress to the cache under meeting:{id}:status
type StatusFeed struct {
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatusFeed creates a status feed. A nil cache disables publishing.
func NewStatusFeed(store cache.Store, ttl time.Duration, logger *zap.Logger) *StatusFeed {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StatusFeed{cache: store, ttl: ttl, logger: logger}
}

func statusKey(id uuid.UUID) string {
	return "meeting:" + id.String() + ":status"
}

// Publish stores st; failures are logged only
func (f *StatusFeed) Publish(ctx context.Context, id uuid.UUID, st PipelineStatus) {
	if f == nil || f.cache == nil {
		return
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(st)
	if err == nil {
		err = f.cache.Set(ctx, statusKey(id), string(b), f.ttl)
	}
	if err != nil && f.logger != nil {
		f.logger.Warn("⚠️ Failed to publish pipeline status",
			zap.String("meeting_id", id.String()),
			zap.Error(err),
		)
	}
}

// Get returns the last published status
func (f *StatusFeed) Get(ctx context.Context, id uuid.UUID) (*PipelineStatus, bool) {
	if f == nil || f.cache == nil {
		return nil, false
	}
	raw, ok, err := f.cache.Get(ctx, statusKey(id))
	if err != nil || !ok {
		return nil, false
	}
	var st PipelineStatus
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, false
	}
	return &st, true
}

// Clear drops the entry of a deleted meeting
func (f *StatusFeed) Clear(ctx context.Context, id uuid.UUID) {
	if f == nil || f.cache == nil {
		return
	}
	_ = f.cache.Delete(ctx, statusKey(id))
}
