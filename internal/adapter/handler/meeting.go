package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/presenter"
	meetingUsecase "github.com/johnquangdev/meeting-analyzer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-analyzer/pkg/middleware"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	service        meetingUsecase.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler. maxUploadMB <= 0 disables
// the size check.
func NewMeetingHandler(service meetingUsecase.Service, maxUploadMB int64, logger *zap.Logger) *Meeting {
	return &Meeting{
		service:        service,
		maxUploadBytes: maxUploadMB << 20,
		logger:         logger,
	}
}

// Upload handles POST /meetings/upload
// @Summary      Upload meeting audio
// @Description  Stores the audio, creates the meeting and queues transcription and analysis. Returns before processing starts.
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Param        title     formData  string  true   "Meeting title"
// @Param        language  formData  string  false  "Spoken language label or code (default: en)"
// @Param        timezone  formData  string  false  "IANA timezone (default: UTC)"
// @Param        file      formData  file    true   "Audio file"
// @Success      202  {object}  meeting.MeetingResponse  "Meeting accepted for processing"
// @Failure      400  {object}  map[string]interface{}  "Invalid form or file"
// @Failure      500  {object}  map[string]interface{}  "Failed to store audio"
// @Router       /meetings/upload [post]
func (h *Meeting) Upload(c echo.Context) error {
	var req meeting.UploadMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		// Older clients send the file as audio_file
		if fh, err = c.FormFile("audio_file"); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidUpload("audio file is required"))
		}
	}
	if fh.Size <= 0 {
		return HandleError(h.logger, c, apperrors.ErrInvalidUpload("audio file is empty"))
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return HandleError(h.logger, c, apperrors.ErrInvalidUpload(
			fmt.Sprintf("audio file exceeds the %d MB limit", h.maxUploadBytes>>20)))
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidUpload("could not read audio file"))
	}
	defer f.Close()

	m, err := h.service.Upload(c.Request().Context(), meetingUsecase.UploadInput{
		Title:       req.Title,
		Language:    req.Language,
		Timezone:    req.Timezone,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessWithStatus(h.logger, c, http.StatusAccepted, presenter.ToMeetingResponse(m))
}

// List handles GET /meetings
// @Summary      List meetings
// @Description  Returns meetings, newest first
// @Tags         Meetings
// @Produce      json
// @Param        skip   query     int  false  "Offset (default: 0)"
// @Param        limit  query     int  false  "Page size (default and max: 100)"
// @Success      200    {object}  meeting.MeetingListResponse  "Meetings"
// @Failure      400    {object}  map[string]interface{}  "Invalid paging"
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	var req meeting.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}
	if req.Limit == 0 {
		req.Limit = 100
	}

	meetings, err := h.service.List(c.Request().Context(), req.Skip, req.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings, req.Skip, req.Limit))
}

// Get handles GET /meetings/:id
// @Summary      Get meeting details
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse  "Meeting details"
// @Failure      400  {object}  map[string]interface{}  "Invalid meeting ID"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	m, ok := middleware.MeetingFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrNotFound("meeting"))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// Status handles GET /meetings/:id/status
// @Summary      Get processing status
// @Description  Live pipeline stage and transcription job state, falling back to the stored status
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.StatusResponse  "Status"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id}/status [get]
func (h *Meeting) Status(c echo.Context) error {
	m, ok := middleware.MeetingFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrNotFound("meeting"))
	}
	view, err := h.service.Status(c.Request().Context(), m.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToStatusResponse(view))
}

// Artifact handles GET /meetings/:id/artifacts/:kind
// @Summary      Download a meeting document
// @Description  Returns the stored document, generating it on first request. PDF when possible, plain text otherwise.
// @Tags         Meetings
// @Produce      application/pdf
// @Produce      text/plain
// @Param        id    path  string  true  "Meeting ID (UUID)"
// @Param        kind  path  string  true  "transcript, summary, report or translation"
// @Success      200   {file}    file  "Document"
// @Failure      400   {object}  map[string]interface{}  "Unknown kind"
// @Failure      404   {object}  map[string]interface{}  "Meeting not found"
// @Failure      409   {object}  map[string]interface{}  "Meeting has no content for this kind yet"
// @Router       /meetings/{id}/artifacts/{kind} [get]
func (h *Meeting) Artifact(c echo.Context) error {
	m, ok := middleware.MeetingFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrNotFound("meeting"))
	}

	var req meeting.ArtifactRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArtifactKind(req.Kind))
	}

	ref, rc, err := h.service.GetArtifact(c.Request().Context(), m.ID, req.Kind)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": ref.DownloadName}))
	return c.Stream(http.StatusOK, ref.MIME, rc)
}

// Translate handles POST /meetings/:id/translate
// @Summary      Translate the transcript
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Meeting ID (UUID)"
// @Param        request  body      meeting.TranslateRequest  true  "Target language"
// @Success      200      {object}  meeting.TranslateResponse  "Translation"
// @Failure      400      {object}  map[string]interface{}  "Invalid target language"
// @Failure      404      {object}  map[string]interface{}  "Meeting not found"
// @Failure      409      {object}  map[string]interface{}  "Meeting has no transcription"
// @Failure      502      {object}  map[string]interface{}  "Translation failed"
// @Router       /meetings/{id}/translate [post]
func (h *Meeting) Translate(c echo.Context) error {
	m, ok := middleware.MeetingFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrNotFound("meeting"))
	}

	var req meeting.TranslateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	translated, err := h.service.Translate(c.Request().Context(), m.ID, req.TargetLanguage)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &meeting.TranslateResponse{
		MeetingID:      m.ID.String(),
		TargetLanguage: req.TargetLanguage,
		Translation:    translated,
	})
}

// Delete handles DELETE /meetings/:id
// @Summary      Delete a meeting
// @Description  Removes the meeting, its documents and its audio
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.DeleteResponse  "Deleted"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	m, ok := middleware.MeetingFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrNotFound("meeting"))
	}
	if err := h.service.Delete(c.Request().Context(), m.ID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &meeting.DeleteResponse{MeetingID: m.ID.String(), Deleted: true})
}
