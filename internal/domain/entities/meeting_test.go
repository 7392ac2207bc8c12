package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeeting_Defaults(t *testing.T) {
	m := NewMeeting("Standup", "", "", "audio/x.wav")

	assert.Equal(t, "en", m.Language)
	assert.Equal(t, "UTC", m.Timezone)
	assert.Equal(t, MeetingStatusUploaded, m.Status)
	assert.False(t, m.HasTranscript())
	assert.False(t, m.HasAnalysis())
}

func TestMeeting_AudioInfoRoundTrip(t *testing.T) {
	m := NewMeeting("Standup", "en", "UTC", "a.mp3")

	info, err := m.GetAudioInfo()
	require.NoError(t, err)
	assert.Equal(t, AudioInfo{}, info)

	require.NoError(t, m.SetAudioInfo(AudioInfo{Format: "MP3", Speakers: []string{"Speaker 1"}, DurationSeconds: 12.5}))
	info, err = m.GetAudioInfo()
	require.NoError(t, err)
	assert.Equal(t, "MP3", info.Format)
	assert.Equal(t, 12.5, info.DurationSeconds)
}

func TestMeetingStatus_IsTerminal(t *testing.T) {
	assert.True(t, MeetingStatusComplete.IsTerminal())
	assert.True(t, MeetingStatusTranscribeFailed.IsTerminal())
	assert.True(t, MeetingStatusAnalyzeFailed.IsTerminal())
	assert.False(t, MeetingStatusAnalyzing.IsTerminal())
}

func TestParseArtifactKind(t *testing.T) {
	k, ok := ParseArtifactKind("report")
	assert.True(t, ok)
	assert.Equal(t, ArtifactKindReport, k)

	_, ok = ParseArtifactKind("minutes")
	assert.False(t, ok)

	assert.Equal(t, "pdf", ArtifactFormatPDF.Extension())
	assert.Equal(t, "text/plain", ArtifactFormatText.MIME())
}
