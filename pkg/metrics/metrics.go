// Package metrics exposes Prometheus collectors for the meeting pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// pipelineJobsTotal counts finished pipeline stages.
	// Labels:
	//   - stage: transcription, analysis, persist, artifacts
	//   - result: success, failed, timeout, skipped
	pipelineJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_pipeline_jobs_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "result"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meeting_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"stage"},
	)

	analysisTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_analysis_tier_total",
			Help: "Analysis results by the strategy tier that produced them",
		},
		[]string{"tier"},
	)

	artifactGenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_artifact_generation_total",
			Help: "Generated artifact files by kind and output format",
		},
		[]string{"kind", "format"},
	)

	transcriptionPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_transcription_polls_total",
			Help: "Transcription status polls by provider and observed job state",
		},
		[]string{"provider", "state"},
	)
)

func init() {
	prometheus.MustRegister(pipelineJobsTotal)
	prometheus.MustRegister(stageDuration)
	prometheus.MustRegister(analysisTierTotal)
	prometheus.MustRegister(artifactGenerationTotal)
	prometheus.MustRegister(transcriptionPollsTotal)
}

// RecordStage records the outcome and duration of one pipeline stage.
func RecordStage(stage, result string, elapsed time.Duration) {
	pipelineJobsTotal.WithLabelValues(stage, result).Inc()
	stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// RecordAnalysisTier records which analysis strategy produced a result.
func RecordAnalysisTier(tier string) {
	analysisTierTotal.WithLabelValues(tier).Inc()
}

// RecordArtifact records a written artifact file.
func RecordArtifact(kind, format string) {
	artifactGenerationTotal.WithLabelValues(kind, format).Inc()
}

// RecordPoll records a single transcription status poll.
func RecordPoll(provider, state string) {
	transcriptionPollsTotal.WithLabelValues(provider, state).Inc()
}
