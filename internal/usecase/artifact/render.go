package artifact

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

const defaultReportActionItems = "No action items"

// Document is the format-independent content of an artifact
type Document struct {
	Kind     entities.ArtifactKind
	Title    string
	Sections []Section
}

// Section is one block of a document. Label heads the plain layout, Heading
// the rich one; both are empty for single-body documents.
type Section struct {
	Label   string
	Heading string
	Body    string
	Bullets bool
}

// Heading is the rich document title, e.g. "Meeting Report: Standup"
func (d Document) Heading() string {
	return fmt.Sprintf("Meeting %s: %s", cases.Title(language.English).String(string(d.Kind)), d.Title)
}

// Renderer turns a document into file bytes
type Renderer interface {
	Format() entities.ArtifactFormat
	Render(doc Document) ([]byte, error)
}

// CheckPreconditions reports which meeting fields a kind needs
func CheckPreconditions(m *entities.Meeting, kind entities.ArtifactKind) error {
	switch kind {
	case entities.ArtifactKindTranscript:
		if !present(m.Transcript) {
			return apperrors.ErrPrecondition("Meeting has no transcription")
		}
	case entities.ArtifactKindSummary:
		if !present(m.Summary) || !present(m.ActionItems) {
			return apperrors.ErrPrecondition("Meeting has no summary or action items")
		}
	case entities.ArtifactKindReport:
		if !present(m.Transcript) || !present(m.Summary) {
			return apperrors.ErrPrecondition("Meeting incomplete")
		}
	case entities.ArtifactKindTranslation:
		if !present(m.Translation) {
			return apperrors.ErrPrecondition("Meeting has no translation")
		}
	default:
		return apperrors.ErrInvalidArtifactKind(string(kind))
	}
	return nil
}

// BuildDocument assembles the sections for kind. Callers check
// preconditions first.
func BuildDocument(m *entities.Meeting, kind entities.ArtifactKind) Document {
	doc := Document{Kind: kind, Title: m.Title}

	switch kind {
	case entities.ArtifactKindTranscript:
		doc.Sections = []Section{{Body: entities.StringValue(m.Transcript)}}
	case entities.ArtifactKindSummary:
		doc.Sections = []Section{
			{Label: "SUMMARY", Heading: "Summary", Body: entities.StringValue(m.Summary)},
			{Label: "ACTION ITEMS", Heading: "Action Items", Body: entities.StringValue(m.ActionItems), Bullets: true},
		}
	case entities.ArtifactKindReport:
		items := entities.StringValue(m.ActionItems)
		if strings.TrimSpace(items) == "" {
			items = defaultReportActionItems
		}
		doc.Sections = []Section{
			{Label: "SUMMARY", Heading: "Executive Summary", Body: entities.StringValue(m.Summary)},
			{Label: "ACTION ITEMS", Heading: "Action Items", Body: items, Bullets: true},
			{Label: "TRANSCRIPT", Heading: "Full Transcript", Body: entities.StringValue(m.Transcript)},
		}
	case entities.ArtifactKindTranslation:
		doc.Sections = []Section{{Body: entities.StringValue(m.Translation)}}
	}
	return doc
}

// TextRenderer writes the plain "=== KIND: title ===" layout
type TextRenderer struct{}

func (TextRenderer) Format() entities.ArtifactFormat { return entities.ArtifactFormatText }

func (TextRenderer) Render(doc Document) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s: %s ===\n\n", strings.ToUpper(string(doc.Kind)), doc.Title)

	for i, s := range doc.Sections {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if s.Label != "" {
			sb.WriteString(s.Label)
			sb.WriteString(":\n")
		}
		sb.WriteString(s.Body)
	}
	return []byte(sb.String()), nil
}

// emergencyText dumps whatever the meeting holds next to the failure cause
func emergencyText(m *entities.Meeting, kind entities.ArtifactKind, cause error) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s: %s ===\n\n", strings.ToUpper(string(kind)), m.Title)
	fmt.Fprintf(&sb, "Document generation failed: %v\n", cause)

	fields := []struct {
		label string
		value *string
	}{
		{"SUMMARY", m.Summary},
		{"ACTION ITEMS", m.ActionItems},
		{"TRANSCRIPT", m.Transcript},
		{"TRANSLATION", m.Translation},
	}
	for _, f := range fields {
		if present(f.value) {
			fmt.Fprintf(&sb, "\n%s:\n%s\n", f.label, *f.value)
		}
	}
	return []byte(sb.String())
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
