// Package analysis produces a summary and action items from a transcript.
package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
	"github.com/johnquangdev/meeting-analyzer/pkg/metrics"
)

// Sentinel outputs of the last-resort tier
const (
	SentinelSummary     = "Failed to generate summary due to API error"
	SentinelActionItems = "No action items found"
)

// DefaultMaxTranscriptChars caps what is sent to the model
const DefaultMaxTranscriptChars = 48000

// Tier names the strategy that produced a result
type Tier string

const (
	TierStructured Tier = "structured"
	TierTwoCall    Tier = "two_call"
	TierSentinel   Tier = "sentinel"
)

// Result is the analysis outcome
type Result struct {
	Summary     string
	ActionItems string
	Tier        Tier
}

// Failed reports whether every model-backed tier failed
func (r Result) Failed() bool {
	return r.Tier == TierSentinel
}

// Completer sends one prompt to a language model
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Strategy is one attempt at analysis. An error advances the chain.
type Strategy interface {
	Tier() Tier
	Run(ctx context.Context, transcript string) (*Result, error)
}

// Engine runs strategies in order until one succeeds
type Engine struct {
	strategies []Strategy
	maxChars   int
	logger     *zap.Logger
}

// NewEngine builds the default chain: structured, two-call, sentinel
func NewEngine(llm Completer, cfg *config.AnalysisConfig, logger *zap.Logger) *Engine {
	maxChars := DefaultMaxTranscriptChars
	if cfg != nil && cfg.MaxTranscriptChars > 0 {
		maxChars = cfg.MaxTranscriptChars
	}
	return NewEngineWithStrategies(maxChars, logger,
		NewStructuredStrategy(llm),
		NewTwoCallStrategy(llm),
		SentinelStrategy{},
	)
}

// NewEngineWithStrategies builds an engine from an explicit chain. A sentinel
// tier is still used when every strategy fails.
func NewEngineWithStrategies(maxChars int, logger *zap.Logger, strategies ...Strategy) *Engine {
	if maxChars <= 0 {
		maxChars = DefaultMaxTranscriptChars
	}
	return &Engine{strategies: strategies, maxChars: maxChars, logger: logger}
}

// Analyze never fails. Action items are normalized on every tier.
func (e *Engine) Analyze(ctx context.Context, transcript string) Result {
	input := Truncate(transcript, e.maxChars)
	if e.logger != nil && len(input) < len(transcript) {
		e.logger.Warn("⚠️ Transcript truncated before analysis",
			zap.Int("max_chars", e.maxChars),
		)
	}

	for _, s := range e.strategies {
		start := time.Now()
		res, err := s.Run(ctx, input)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("⚠️ Analysis strategy failed, falling back",
					zap.String("tier", string(s.Tier())),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
			}
			continue
		}

		res.Tier = s.Tier()
		res.ActionItems = NormalizeActionItems(res.ActionItems)
		metrics.RecordAnalysisTier(string(res.Tier))
		if e.logger != nil {
			e.logger.Info("🧠 Analysis complete", zap.String("tier", string(res.Tier)))
		}
		return *res
	}

	metrics.RecordAnalysisTier(string(TierSentinel))
	return sentinelResult()
}

// Truncate cuts s to at most max runes
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
