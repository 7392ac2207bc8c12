package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingStatus represents where a meeting is in the processing pipeline
type MeetingStatus string

const (
	MeetingStatusUploaded         MeetingStatus = "uploaded"          // Audio stored, waiting for a worker
	MeetingStatusTranscribing     MeetingStatus = "transcribing"      // Speech-to-text in progress
	MeetingStatusAnalyzing        MeetingStatus = "analyzing"         // Summary and action items in progress
	MeetingStatusComplete         MeetingStatus = "complete"          // All stages finished
	MeetingStatusTranscribeFailed MeetingStatus = "transcribe_failed" // Terminal: transcription failed
	MeetingStatusAnalyzeFailed    MeetingStatus = "analyze_failed"    // Terminal: analysis fell back to sentinels
)

// IsTerminal reports whether no further stage will run
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusComplete, MeetingStatusTranscribeFailed, MeetingStatusAnalyzeFailed:
		return true
	}
	return false
}

// Meeting is an uploaded recording together with everything derived from it
type Meeting struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Language  string    `json:"language" gorm:"type:varchar(16);not null;default:'en'"`
	Timezone  string    `json:"timezone" gorm:"type:varchar(64);not null;default:'UTC'"`
	AudioPath string    `json:"audio_path" gorm:"type:text;not null"`

	Transcript       *string `json:"transcript,omitempty" gorm:"type:text"`
	DetectedLanguage *string `json:"detected_language,omitempty" gorm:"type:varchar(64)"`
	AudioDuration    *string `json:"audio_duration,omitempty" gorm:"type:varchar(64)"`
	Summary          *string `json:"summary,omitempty" gorm:"type:text"`
	ActionItems      *string `json:"action_items,omitempty" gorm:"type:text"`
	Translation      *string `json:"translation,omitempty" gorm:"type:text"`

	AudioInfo datatypes.JSON `json:"audio_info,omitempty" gorm:"type:jsonb"`
	Status    MeetingStatus  `json:"status" gorm:"type:varchar(32);not null;index;default:'uploaded'"`
	IsDemo    bool           `json:"is_demo" gorm:"not null;default:false"`
	LastError *string        `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AudioInfo is the metadata stored in Meeting.AudioInfo
type AudioInfo struct {
	Format          string   `json:"format,omitempty"`
	Speakers        []string `json:"speakers,omitempty"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	Estimated       bool     `json:"estimated"`
	SizeBytes       int64    `json:"size_bytes,omitempty"`
}

// NewMeeting creates a meeting record for freshly stored audio
func NewMeeting(title, language, timezone, audioPath string) *Meeting {
	if language == "" {
		language = "en"
	}
	if timezone == "" {
		timezone = "UTC"
	}
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Language:  language,
		Timezone:  timezone,
		AudioPath: audioPath,
		Status:    MeetingStatusUploaded,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// BeforeCreate assigns an ID when the caller did not
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SetAudioInfo encodes info into the JSON column
func (m *Meeting) SetAudioInfo(info AudioInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	m.AudioInfo = datatypes.JSON(b)
	return nil
}

// GetAudioInfo decodes the JSON column; an empty column yields a zero value
func (m *Meeting) GetAudioInfo() (AudioInfo, error) {
	var info AudioInfo
	if len(m.AudioInfo) == 0 {
		return info, nil
	}
	err := json.Unmarshal(m.AudioInfo, &info)
	return info, err
}

// HasTranscript reports whether a transcript has been produced
func (m *Meeting) HasTranscript() bool {
	return m.Transcript != nil && *m.Transcript != ""
}

// HasAnalysis reports whether summary and action items are present
func (m *Meeting) HasAnalysis() bool {
	return m.Summary != nil && *m.Summary != "" && m.ActionItems != nil && *m.ActionItems != ""
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// StringValue dereferences p, returning "" for nil
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
