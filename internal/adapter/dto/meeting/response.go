package meeting

import (
	"time"
)

// AudioInfoResponse describes the uploaded audio
type AudioInfoResponse struct {
	Format          string   `json:"format,omitempty"`
	Speakers        []string `json:"speakers,omitempty"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	Estimated       bool     `json:"estimated"`
	SizeBytes       int64    `json:"size_bytes,omitempty"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Language         string             `json:"language"`
	Timezone         string             `json:"timezone"`
	Status           string             `json:"status"`
	Transcript       *string            `json:"transcript,omitempty"`
	DetectedLanguage *string            `json:"detected_language,omitempty"`
	AudioDuration    *string            `json:"audio_duration,omitempty"`
	Summary          *string            `json:"summary,omitempty"`
	ActionItems      *string            `json:"action_items,omitempty"`
	Translation      *string            `json:"translation,omitempty"`
	AudioInfo        *AudioInfoResponse `json:"audio_info,omitempty"`
	IsDemo           bool               `json:"is_demo"`
	LastError        *string            `json:"last_error,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// MeetingListResponse represents a page of meetings
type MeetingListResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
	Skip     int                `json:"skip"`
	Limit    int                `json:"limit"`
}

// StatusResponse reports pipeline progress
type StatusResponse struct {
	MeetingID string    `json:"meeting_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage"`
	JobID     string    `json:"job_id,omitempty"`
	JobState  string    `json:"job_state,omitempty"`
	LastError *string   `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TranslateResponse carries the translated transcript
type TranslateResponse struct {
	MeetingID      string `json:"meeting_id"`
	TargetLanguage string `json:"target_language"`
	Translation    string `json:"translation"`
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	MeetingID string `json:"meeting_id"`
	Deleted   bool   `json:"deleted"`
}
