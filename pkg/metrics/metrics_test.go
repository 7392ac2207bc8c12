package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordStage(t *testing.T) {
	pipelineJobsTotal.Reset()
	stageDuration.Reset()

	RecordStage("transcription", "success", 2*time.Second)
	RecordStage("transcription", "success", time.Second)
	RecordStage("transcription", "timeout", time.Minute)

	assert.Equal(t, 2.0, counterValue(t, pipelineJobsTotal.WithLabelValues("transcription", "success")))
	assert.Equal(t, 1.0, counterValue(t, pipelineJobsTotal.WithLabelValues("transcription", "timeout")))

	m := &dto.Metric{}
	require.NoError(t, stageDuration.WithLabelValues("transcription").(interface{ Write(*dto.Metric) error }).Write(m))
	assert.Equal(t, uint64(3), m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 63.0, m.GetHistogram().GetSampleSum(), 0.001)
}

func TestRecordAnalysisTier(t *testing.T) {
	analysisTierTotal.Reset()

	RecordAnalysisTier("structured")
	RecordAnalysisTier("sentinel")
	RecordAnalysisTier("structured")

	assert.Equal(t, 2.0, counterValue(t, analysisTierTotal.WithLabelValues("structured")))
	assert.Equal(t, 1.0, counterValue(t, analysisTierTotal.WithLabelValues("sentinel")))
}

func TestRecordArtifactAndPoll(t *testing.T) {
	artifactGenerationTotal.Reset()
	transcriptionPollsTotal.Reset()

	RecordArtifact("report", "pdf")
	RecordPoll("assemblyai", "POLLING")
	RecordPoll("assemblyai", "POLLING")

	assert.Equal(t, 1.0, counterValue(t, artifactGenerationTotal.WithLabelValues("report", "pdf")))
	assert.Equal(t, 2.0, counterValue(t, transcriptionPollsTotal.WithLabelValues("assemblyai", "POLLING")))
}
