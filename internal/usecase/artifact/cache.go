// Package artifact materializes downloadable documents for meetings on demand.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/pkg/metrics"
)

// Storage areas
const (
	AreaArtifacts = "artifacts"
	AreaFallback  = "fallback"
	AreaEmergency = "emergency"
)

// PregeneratedKinds are built right after processing
var PregeneratedKinds = []entities.ArtifactKind{
	entities.ArtifactKindTranscript,
	entities.ArtifactKindSummary,
	entities.ArtifactKindReport,
}

// FileRef locates a generated document
type FileRef struct {
	ArtifactID   uuid.UUID
	Location     string
	Format       entities.ArtifactFormat
	MIME         string
	DownloadName string
}

// Cache returns stored documents and generates missing ones
type Cache struct {
	meetings  repositories.MeetingRepository
	artifacts repositories.ArtifactRepository
	store     storage.Store
	rich      Renderer
	plain     Renderer
	logger    *zap.Logger
}

// NewCache creates an artifact cache
func NewCache(
	meetings repositories.MeetingRepository,
	artifacts repositories.ArtifactRepository,
	store storage.Store,
	rich Renderer,
	plain Renderer,
	logger *zap.Logger,
) *Cache {
	if plain == nil {
		plain = TextRenderer{}
	}
	return &Cache{
		meetings:  meetings,
		artifacts: artifacts,
		store:     store,
		rich:      rich,
		plain:     plain,
		logger:    logger,
	}
}

// GetOrGenerate returns the stored document for (meetingID, kind), building
// it when it does not exist yet.
func (c *Cache) GetOrGenerate(ctx context.Context, meetingID uuid.UUID, rawKind string) (*FileRef, error) {
	kind, ok := entities.ParseArtifactKind(rawKind)
	if !ok {
		return nil, apperrors.ErrInvalidArtifactKind(rawKind)
	}

	meeting, err := c.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("get meeting", err)
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound(meetingID.String())
	}
	if err := CheckPreconditions(meeting, kind); err != nil {
		return nil, err
	}

	row, err := c.artifacts.Get(ctx, meetingID, kind)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("get artifact", err)
	}

	if row != nil {
		exists, err := c.store.Exists(ctx, row.Path)
		if err != nil {
			return nil, apperrors.ErrStorageFailed("stat artifact", err)
		}
		if exists {
			return c.fileRef(meeting, row), nil
		}
		return c.heal(ctx, meeting, row)
	}

	path, format, err := c.generate(ctx, meeting, kind)
	if err != nil {
		return nil, err
	}

	saved, err := c.artifacts.Upsert(ctx, entities.NewArtifact(meetingID, kind, path, format))
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("save artifact", err)
	}
	return c.fileRef(meeting, saved), nil
}

// heal regenerates a row whose file disappeared as plain text under
// fallback/ and repoints the row in place.
func (c *Cache) heal(ctx context.Context, meeting *entities.Meeting, row *entities.Artifact) (*FileRef, error) {
	if c.logger != nil {
		c.logger.Warn("⚠️ Artifact file missing, regenerating",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("kind", string(row.Kind)),
			zap.String("path", row.Path),
		)
	}

	doc := BuildDocument(meeting, row.Kind)
	key := StorageKey(AreaFallback, meeting, row.Kind, entities.ArtifactFormatText)
	format := entities.ArtifactFormatText

	if err := c.render(ctx, c.plain, doc, key); err != nil {
		key, err = c.writeEmergency(ctx, meeting, row.Kind, err)
		if err != nil {
			return nil, apperrors.ErrArtifactGeneration(string(row.Kind), err)
		}
	}

	if err := c.artifacts.UpdateLocation(ctx, row.ID, key, format); err != nil {
		return nil, apperrors.ErrDBQueryFailed("update artifact", err)
	}
	row.Path = key
	row.Format = format
	return c.fileRef(meeting, row), nil
}

// generate walks rich, plain, emergency and returns the first stored location
func (c *Cache) generate(ctx context.Context, meeting *entities.Meeting, kind entities.ArtifactKind) (string, entities.ArtifactFormat, error) {
	doc := BuildDocument(meeting, kind)

	var lastErr error
	for _, r := range []Renderer{c.rich, c.plain} {
		if r == nil {
			continue
		}
		key := StorageKey(AreaArtifacts, meeting, kind, r.Format())
		err := c.render(ctx, r, doc, key)
		if err == nil {
			return key, r.Format(), nil
		}

		lastErr = apperrors.ErrArtifactGeneration(string(kind), err)
		if c.logger != nil {
			c.logger.Warn("⚠️ Artifact rendering failed, trying next format",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("kind", string(kind)),
				zap.String("format", string(r.Format())),
				zap.Error(err),
			)
		}
	}

	key, err := c.writeEmergency(ctx, meeting, kind, lastErr)
	if err != nil {
		return "", "", apperrors.ErrArtifactGeneration(string(kind), err)
	}
	return key, entities.ArtifactFormatText, nil
}

func (c *Cache) render(ctx context.Context, r Renderer, doc Document, key string) error {
	data, err := r.Render(doc)
	if err != nil {
		return err
	}
	if _, err := c.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), r.Format().MIME()); err != nil {
		return err
	}
	metrics.RecordArtifact(string(doc.Kind), string(r.Format()))
	return nil
}

func (c *Cache) writeEmergency(ctx context.Context, meeting *entities.Meeting, kind entities.ArtifactKind, cause error) (string, error) {
	key := StorageKey(AreaEmergency, meeting, kind, entities.ArtifactFormatText)
	data := emergencyText(meeting, kind, cause)

	if _, err := c.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), entities.ArtifactFormatText.MIME()); err != nil {
		if c.logger != nil {
			c.logger.Error("❌ Emergency artifact write failed",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("emergency write after %v: %w", cause, err)
	}
	metrics.RecordArtifact(string(kind), "emergency")
	return key, nil
}

func (c *Cache) fileRef(meeting *entities.Meeting, row *entities.Artifact) *FileRef {
	return &FileRef{
		ArtifactID:   row.ID,
		Location:     row.Path,
		Format:       row.Format,
		MIME:         row.Format.MIME(),
		DownloadName: DownloadName(meeting.Title, row.Kind, row.Format),
	}
}

// Open reads a generated document
func (c *Cache) Open(ctx context.Context, ref *FileRef) (io.ReadCloser, error) {
	rc, err := c.store.Open(ctx, ref.Location)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("open artifact", err)
	}
	return rc, nil
}

// Pregenerate builds the transcript, summary and report documents. Failures
// are logged and dropped.
func (c *Cache) Pregenerate(ctx context.Context, meetingID uuid.UUID) {
	for _, kind := range PregeneratedKinds {
		if _, err := c.GetOrGenerate(ctx, meetingID, string(kind)); err != nil {
			if c.logger != nil {
				c.logger.Warn("⚠️ Artifact pregeneration skipped",
					zap.String("meeting_id", meetingID.String()),
					zap.String("kind", string(kind)),
					zap.Error(err),
				)
			}
		}
	}
}

// Invalidate drops one stored document so the next request rebuilds it
func (c *Cache) Invalidate(ctx context.Context, meetingID uuid.UUID, kind entities.ArtifactKind) error {
	row, err := c.artifacts.Get(ctx, meetingID, kind)
	if err != nil {
		return apperrors.ErrDBQueryFailed("get artifact", err)
	}
	if row == nil {
		return nil
	}
	c.removeFile(ctx, row)
	if err := c.artifacts.DeleteByKind(ctx, meetingID, kind); err != nil {
		return apperrors.ErrDBQueryFailed("delete artifact", err)
	}
	return nil
}

// Purge removes every document of a meeting. File removal is best-effort.
func (c *Cache) Purge(ctx context.Context, meetingID uuid.UUID) error {
	rows, err := c.artifacts.ListByMeeting(ctx, meetingID)
	if err != nil {
		return apperrors.ErrDBQueryFailed("list artifacts", err)
	}
	for i := range rows {
		c.removeFile(ctx, &rows[i])
	}
	if err := c.artifacts.DeleteByMeeting(ctx, meetingID); err != nil {
		return apperrors.ErrDBQueryFailed("delete artifacts", err)
	}
	return nil
}

func (c *Cache) removeFile(ctx context.Context, row *entities.Artifact) {
	if err := c.store.Remove(ctx, row.Path); err != nil && c.logger != nil {
		c.logger.Warn("⚠️ Failed to remove artifact file",
			zap.String("path", row.Path),
			zap.Error(err),
		)
	}
}
