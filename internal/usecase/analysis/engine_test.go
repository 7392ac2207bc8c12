package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// scriptedLLM replies in order and records prompts
type scriptedLLM struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
}

type reply struct {
	text string
	err  error
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

func TestAnalyze_StructuredTier(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{{text: "```json\n{\"summary\": \"Team synced on release.\", \"action_items\": \"• Ann: ship build by Friday\\n• Bob: update docs\"}\n```"}}}
	engine := NewEngine(llm, &config.AnalysisConfig{}, nil)

	res := engine.Analyze(context.Background(), "Ann: I'll ship the build by Friday. Bob: docs are mine.")

	assert.Equal(t, TierStructured, res.Tier)
	assert.Equal(t, "Team synced on release.", res.Summary)
	assert.Equal(t, "• Ann: ship build by Friday\n• Bob: update docs", res.ActionItems)
	assert.False(t, res.Failed())
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Format your response as JSON")
}

func TestAnalyze_FallsBackToTwoCalls(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{
		{text: "Sure! Here is the summary you asked for."},
		{text: "- Release is on track\n- QA needs one more day"},
		{text: "Action Items:\n1. Ann: ship build\n2) Bob: update docs"},
	}}
	engine := NewEngine(llm, nil, nil)

	res := engine.Analyze(context.Background(), "transcript")

	assert.Equal(t, TierTwoCall, res.Tier)
	assert.Equal(t, "- Release is on track\n- QA needs one more day", res.Summary)
	assert.Equal(t, "• Ann: ship build\n• Bob: update docs", res.ActionItems)
	require.Len(t, llm.prompts, 3)
	assert.True(t, strings.HasPrefix(llm.prompts[1], "Summarize this meeting transcript in 3-5 bullet points: "))
	assert.Contains(t, llm.prompts[2], "person responsible, followed by a colon")
}

func TestAnalyze_AllTiersFailGivesSentinels(t *testing.T) {
	boom := errors.New("503 service unavailable")
	llm := &scriptedLLM{replies: []reply{{err: boom}, {err: boom}, {err: boom}}}
	engine := NewEngine(llm, nil, nil)

	res := engine.Analyze(context.Background(), "transcript")

	assert.Equal(t, TierSentinel, res.Tier)
	assert.Equal(t, "Failed to generate summary due to API error", res.Summary)
	assert.Equal(t, "No action items found", res.ActionItems)
	assert.True(t, res.Failed())
}

func TestAnalyze_TwoCallFailsOnSecondCall(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{
		{err: errors.New("timeout")},
		{text: "- summary"},
		{err: errors.New("timeout")},
	}}

	res := NewEngine(llm, nil, nil).Analyze(context.Background(), "transcript")
	assert.Equal(t, TierSentinel, res.Tier)
}

func TestAnalyze_CapsTranscript(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{{text: `{"summary":"ok","action_items":""}`}}}
	engine := NewEngine(llm, &config.AnalysisConfig{MaxTranscriptChars: 10}, nil)

	res := engine.Analyze(context.Background(), "0123456789abcdefghij")

	assert.Equal(t, TierStructured, res.Tier)
	assert.Equal(t, "No action items found", res.ActionItems)
	assert.Contains(t, llm.prompts[0], "0123456789\n")
	assert.NotContains(t, llm.prompts[0], "abcdefghij")
}

func TestTruncate_CountsRunes(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "", Truncate("", 3))
	assert.Equal(t, "粤语", Truncate("粤语转写", 2))
}
