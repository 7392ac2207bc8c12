package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
)

// ArtifactRepository handles generated document rows
type ArtifactRepository struct {
	db *gorm.DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *gorm.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

var _ repositories.ArtifactRepository = (*ArtifactRepository)(nil)

// Get retrieves the artifact for (meeting, kind), returning (nil, nil) when absent
func (r *ArtifactRepository) Get(ctx context.Context, meetingID uuid.UUID, kind entities.ArtifactKind) (*entities.Artifact, error) {
	var a entities.Artifact
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND kind = ?", meetingID, kind).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Upsert inserts the row or, when (meeting, kind) already exists, updates its
// location in place. The stored row is returned.
func (r *ArtifactRepository) Upsert(ctx context.Context, a *entities.Artifact) (*entities.Artifact, error) {
	if a == nil {
		return nil, errors.New("artifact cannot be nil")
	}
	a.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"path", "format", "updated_at"}),
	}).Create(a).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, a.MeetingID, a.Kind)
}

// UpdateLocation points an existing row at a new file
func (r *ArtifactRepository) UpdateLocation(ctx context.Context, id uuid.UUID, path string, format entities.ArtifactFormat) error {
	res := r.db.WithContext(ctx).Model(&entities.Artifact{}).Where("id = ?", id).Updates(map[string]interface{}{
		"path":       path,
		"format":     format,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entities.ErrArtifactNotFound
	}
	return nil
}

// ListByMeeting returns every artifact of a meeting
func (r *ArtifactRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Artifact, error) {
	var artifacts []entities.Artifact
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("kind").
		Find(&artifacts).Error; err != nil {
		return nil, err
	}
	return artifacts, nil
}

// DeleteByKind removes one artifact row
func (r *ArtifactRepository) DeleteByKind(ctx context.Context, meetingID uuid.UUID, kind entities.ArtifactKind) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND kind = ?", meetingID, kind).
		Delete(&entities.Artifact{}).Error
}

// DeleteByMeeting removes all artifact rows of a meeting
func (r *ArtifactRepository) DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.Artifact{}).Error
}
