package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

var _ repositories.MeetingRepository = (*MeetingRepository)(nil)

// Create inserts a new meeting
func (r *MeetingRepository) Create(ctx context.Context, m *entities.Meeting) error {
	if m == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID retrieves a meeting by ID, returning (nil, nil) when it does not exist
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var m entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// List returns meetings newest first
func (r *MeetingRepository) List(ctx context.Context, skip, limit int) ([]entities.Meeting, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// Delete removes a meeting and its artifact rows in one transaction
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.Artifact{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Meeting{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrMeetingNotFound
		}
		return nil
	})
}

// UpdateStatus sets the pipeline status and, when given, the last error
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, lastError *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if lastError != nil {
		updates["last_error"] = *lastError
	}
	return r.update(r.db.WithContext(ctx), id, updates)
}

// ApplyResult writes all fields of a pipeline run atomically
func (r *MeetingRepository) ApplyResult(ctx context.Context, id uuid.UUID, result repositories.MeetingResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Meeting{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entities.ErrMeetingNotFound
		}

		updates := map[string]interface{}{
			"updated_at": time.Now(),
			"is_demo":    result.IsDemo,
		}
		if result.Status != "" {
			updates["status"] = result.Status
		}
		setIfPresent(updates, "language", result.Language)
		setIfPresent(updates, "transcript", result.Transcript)
		setIfPresent(updates, "detected_language", result.DetectedLanguage)
		setIfPresent(updates, "audio_duration", result.AudioDuration)
		setIfPresent(updates, "summary", result.Summary)
		setIfPresent(updates, "action_items", result.ActionItems)
		setIfPresent(updates, "last_error", result.LastError)
		if len(result.AudioInfo) > 0 {
			updates["audio_info"] = result.AudioInfo
		}

		return r.update(tx, id, updates)
	})
}

// ApplyMinimal persists only the text results. Used when ApplyResult fails.
func (r *MeetingRepository) ApplyMinimal(ctx context.Context, id uuid.UUID, transcript, summary, actionItems *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	setIfPresent(updates, "transcript", transcript)
	setIfPresent(updates, "summary", summary)
	setIfPresent(updates, "action_items", actionItems)
	return r.update(r.db.WithContext(ctx), id, updates)
}

// SetTranslation stores the latest translation
func (r *MeetingRepository) SetTranslation(ctx context.Context, id uuid.UUID, translation string) error {
	return r.update(r.db.WithContext(ctx), id, map[string]interface{}{
		"translation": translation,
		"updated_at":  time.Now(),
	})
}

func (r *MeetingRepository) update(db *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	res := db.Model(&entities.Meeting{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entities.ErrMeetingNotFound
	}
	return nil
}

func setIfPresent(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
