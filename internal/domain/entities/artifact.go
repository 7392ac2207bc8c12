package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtifactKind names a downloadable document derived from a meeting
type ArtifactKind string

const (
	ArtifactKindTranscript  ArtifactKind = "transcript"
	ArtifactKindSummary     ArtifactKind = "summary"
	ArtifactKindReport      ArtifactKind = "report"
	ArtifactKindTranslation ArtifactKind = "translation"
)

// ArtifactKinds lists every valid kind
var ArtifactKinds = []ArtifactKind{
	ArtifactKindTranscript,
	ArtifactKindSummary,
	ArtifactKindReport,
	ArtifactKindTranslation,
}

// ParseArtifactKind validates a raw kind string
func ParseArtifactKind(raw string) (ArtifactKind, bool) {
	for _, k := range ArtifactKinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// ArtifactFormat is the rendering used for a stored artifact
type ArtifactFormat string

const (
	ArtifactFormatPDF  ArtifactFormat = "pdf"  // rich
	ArtifactFormatText ArtifactFormat = "text" // plain
)

// Extension returns the file extension for the format
func (f ArtifactFormat) Extension() string {
	if f == ArtifactFormatPDF {
		return "pdf"
	}
	return "txt"
}

// MIME returns the content type for the format
func (f ArtifactFormat) MIME() string {
	if f == ArtifactFormatPDF {
		return "application/pdf"
	}
	return "text/plain"
}

// Artifact records where a generated document is stored.
// There is at most one row per (meeting, kind).
type Artifact struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex:idx_meeting_artifacts_meeting_kind"`
	Kind      ArtifactKind   `json:"kind" gorm:"type:varchar(32);not null;uniqueIndex:idx_meeting_artifacts_meeting_kind"`
	Path      string         `json:"path" gorm:"type:text;not null"`
	Format    ArtifactFormat `json:"format" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewArtifact creates an artifact row
func NewArtifact(meetingID uuid.UUID, kind ArtifactKind, path string, format ArtifactFormat) *Artifact {
	return &Artifact{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Kind:      kind,
		Path:      path,
		Format:    format,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// BeforeCreate assigns an ID when the caller did not
func (a *Artifact) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Artifact) TableName() string {
	return "meeting_artifacts"
}
