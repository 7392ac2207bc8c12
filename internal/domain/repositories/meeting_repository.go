package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

// MeetingResult carries the fields produced by one pipeline run.
// Nil fields are left untouched so earlier results are never cleared.
type MeetingResult struct {
	Status           entities.MeetingStatus
	Language         *string
	Transcript       *string
	DetectedLanguage *string
	AudioDuration    *string
	Summary          *string
	ActionItems      *string
	AudioInfo        datatypes.JSON
	IsDemo           bool
	LastError        *string
}

// MeetingRepository defines persistence operations for meetings.
// Mutations on a missing meeting return entities.ErrMeetingNotFound.
type MeetingRepository interface {
	Create(ctx context.Context, m *entities.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context, skip, limit int) ([]entities.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, lastError *string) error
	ApplyResult(ctx context.Context, id uuid.UUID, result MeetingResult) error
	ApplyMinimal(ctx context.Context, id uuid.UUID, transcript, summary, actionItems *string) error
	SetTranslation(ctx context.Context, id uuid.UUID, translation string) error
}
