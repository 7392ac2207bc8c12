package artifact

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9_\-. ]+$`)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Standup", "Standup"},
		{"Q3 Planning: roadmap/OKRs?", "Q3 Planning_ roadmap_OKRs_"},
		{"Café Réunion", "Cafe Reunion"},
		{"粤语会议", "untitled"},
		{"", "untitled"},
		{"   ", "untitled"},
		{"ﬁle №1", "file No1"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_AlwaysSafe(t *testing.T) {
	inputs := []string{
		"../../etc/passwd",
		"a\x00b\nc\td",
		"emoji 🎙️ meeting",
		"<script>alert('x')</script>",
		strings.Repeat("é", 200),
		"Ärger über Öl",
	}
	for _, in := range inputs {
		got := SanitizeFilename(in)
		assert.Regexp(t, safeName, got, in)
		assert.LessOrEqual(t, len(got), 50, in)
	}
}

func TestStorageKeyAndDownloadName(t *testing.T) {
	m := &entities.Meeting{ID: uuid.MustParse("6f1c7c1e-0000-4000-8000-000000000001"), Title: "Weekly sync"}

	assert.Equal(t,
		"artifacts/report_6f1c7c1e-0000-4000-8000-000000000001_Weekly sync.pdf",
		StorageKey(AreaArtifacts, m, entities.ArtifactKindReport, entities.ArtifactFormatPDF),
	)
	assert.Equal(t, "Weekly sync_summary.txt", DownloadName(m.Title, entities.ArtifactKindSummary, entities.ArtifactFormatText))
}
