package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
)

func TestStatusFeed(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()
	defer kv.Close()
	feed := NewStatusFeed(kv, time.Minute, nil)
	id := uuid.New()

	_, ok := feed.Get(ctx, id)
	assert.False(t, ok)

	feed.Publish(ctx, id, PipelineStatus{Stage: entities.MeetingStatusTranscribing, JobID: "abc", JobState: transcription.JobSubmitted})
	st, ok := feed.Get(ctx, id)
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusTranscribing, st.Stage)
	assert.Equal(t, "abc", st.JobID)
	assert.False(t, st.UpdatedAt.IsZero())

	raw, ok, err := kv.Get(ctx, "meeting:"+id.String()+":status")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"job_state":"SUBMITTED"`)

	feed.Clear(ctx, id)
	_, ok = feed.Get(ctx, id)
	assert.False(t, ok)
}

func TestStatusFeed_NilIsNoop(t *testing.T) {
	var feed *StatusFeed
	feed.Publish(context.Background(), uuid.New(), PipelineStatus{})
	_, ok := feed.Get(context.Background(), uuid.New())
	assert.False(t, ok)

	disabled := NewStatusFeed(nil, 0, nil)
	disabled.Publish(context.Background(), uuid.New(), PipelineStatus{})
	disabled.Clear(context.Background(), uuid.New())
}
