package analysis

import (
	"context"
	"fmt"
	"strings"
)

const structuredPrompt = `You are an AI assistant that analyzes meeting transcripts.

Please analyze the following meeting transcript and provide:
1. A concise summary of the key points discussed
2. A list of action items in format: [Person] - [Action] - [Deadline if mentioned]

Meeting Transcript:
%s

Format your response as JSON with two keys: 'summary' and 'action_items'.
For action_items, make sure to provide a STRING of bullet points, NOT a list/array.

Each action item should start with the person's name followed by a colon.
For example:
"action_items": "• John: Submit the report by Friday\n• Sarah: Schedule follow-up meeting\n• Team: Review documentation"`

const summaryPrompt = "Summarize this meeting transcript in 3-5 bullet points: %s"

const actionItemsPrompt = `Extract all action items from this meeting transcript as a bulleted list.
Format each action item starting with the person responsible, followed by a colon, then the action.
If deadline is mentioned, include it.
Example format:
• John: Submit the report by Friday
• Sarah: Schedule follow-up meeting
• Team: Review documentation

Meeting transcript: %s`

// StructuredStrategy asks for a single JSON object
type StructuredStrategy struct {
	llm Completer
}

// NewStructuredStrategy creates the JSON tier
func NewStructuredStrategy(llm Completer) *StructuredStrategy {
	return &StructuredStrategy{llm: llm}
}

func (s *StructuredStrategy) Tier() Tier { return TierStructured }

func (s *StructuredStrategy) Run(ctx context.Context, transcript string) (*Result, error) {
	raw, err := s.llm.Complete(ctx, fmt.Sprintf(structuredPrompt, transcript))
	if err != nil {
		return nil, err
	}
	summary, items, err := ParseStructured(raw)
	if err != nil {
		return nil, err
	}
	return &Result{Summary: summary, ActionItems: items}, nil
}

// TwoCallStrategy asks for the summary and the action items separately
type TwoCallStrategy struct {
	llm Completer
}

// NewTwoCallStrategy creates the two-prompt tier
func NewTwoCallStrategy(llm Completer) *TwoCallStrategy {
	return &TwoCallStrategy{llm: llm}
}

func (s *TwoCallStrategy) Tier() Tier { return TierTwoCall }

func (s *TwoCallStrategy) Run(ctx context.Context, transcript string) (*Result, error) {
	summary, err := s.llm.Complete(ctx, fmt.Sprintf(summaryPrompt, transcript))
	if err != nil {
		return nil, fmt.Errorf("summary call: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("summary call returned no text")
	}

	items, err := s.llm.Complete(ctx, fmt.Sprintf(actionItemsPrompt, transcript))
	if err != nil {
		return nil, fmt.Errorf("action items call: %w", err)
	}
	return &Result{Summary: strings.TrimSpace(summary), ActionItems: items}, nil
}

// SentinelStrategy always succeeds with fixed placeholder text
type SentinelStrategy struct{}

func (SentinelStrategy) Tier() Tier { return TierSentinel }

func (SentinelStrategy) Run(ctx context.Context, transcript string) (*Result, error) {
	r := sentinelResult()
	return &r, nil
}

func sentinelResult() Result {
	return Result{Summary: SentinelSummary, ActionItems: SentinelActionItems, Tier: TierSentinel}
}
