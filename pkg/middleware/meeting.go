package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

// MeetingContextKey holds the meeting loaded by RequireMeeting
const MeetingContextKey = "meeting"

// MeetingGetter loads one meeting
type MeetingGetter interface {
	Get(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)
}

// RequireMeeting resolves the :id path parameter to an existing meeting.
// Errors are returned to the echo error handler.
func RequireMeeting(meetings MeetingGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			meetingID, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return apperrors.ErrInvalidArgument("meeting ID must be a valid UUID")
			}
			m, err := meetings.Get(c.Request().Context(), meetingID)
			if err != nil {
				return err
			}
			c.Set(MeetingContextKey, m)
			return next(c)
		}
	}
}

// MeetingFromContext returns the meeting set by RequireMeeting
func MeetingFromContext(c echo.Context) (*entities.Meeting, bool) {
	m, ok := c.Get(MeetingContextKey).(*entities.Meeting)
	return m, ok && m != nil
}
