package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", ErrTranscriptionTimeout("assemblyai", "job-1", 60))

	assert.True(t, IsCode(err, ErrorCode_AI_TRANSCRIPTION_TIMEOUT))
	assert.False(t, IsCode(err, ErrorCode_AI_TRANSCRIPTION_FAILED))
	assert.Equal(t, ErrorCode_AI_TRANSCRIPTION_TIMEOUT, CodeOf(err))
	assert.False(t, IsCode(nil, ErrorCode_INTERNAL))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorCode_INTERNAL, CodeOf(stdErrors.New("boom")))
}

func TestAppError_UnwrapAndMessage(t *testing.T) {
	raw := stdErrors.New("disk full")
	err := ErrUploadStorage(raw)

	assert.ErrorIs(t, err, raw)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "[UPLOAD_STORAGE_FAILED] Failed to store uploaded audio: disk full", err.Error())
}

func TestWithDetail_DoesNotShareMaps(t *testing.T) {
	base := ErrMeetingNotFound("m-1")
	derived := base.WithDetail("kind", "report")

	assert.Equal(t, "m-1", derived.Details["meeting_id"])
	assert.Equal(t, "report", derived.Details["kind"])
	_, leaked := base.Details["kind"]
	assert.False(t, leaked)
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "FAILED_PRECONDITION", ErrorCode_FAILED_PRECONDITION.String())
	assert.Equal(t, "UNKNOWN", ErrorCode(-1).String())

	text, err := ErrorCode_NOT_FOUND.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", string(text))
}
