package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

// ArtifactRepository defines persistence operations for generated documents
type ArtifactRepository interface {
	Get(ctx context.Context, meetingID uuid.UUID, kind entities.ArtifactKind) (*entities.Artifact, error)
	Upsert(ctx context.Context, a *entities.Artifact) (*entities.Artifact, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, path string, format entities.ArtifactFormat) error
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Artifact, error)
	DeleteByKind(ctx context.Context, meetingID uuid.UUID, kind entities.ArtifactKind) error
	DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error
}
