package entities

import "errors"

// Domain errors
var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrInvalidMeetingID = errors.New("invalid meeting id")
)
