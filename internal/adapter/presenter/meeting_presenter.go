package presenter

import (
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	meetingUsecase "github.com/johnquangdev/meeting-analyzer/internal/usecase/meeting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &meeting.MeetingResponse{
		ID:               m.ID.String(),
		Title:            m.Title,
		Language:         m.Language,
		Timezone:         m.Timezone,
		Status:           string(m.Status),
		Transcript:       m.Transcript,
		DetectedLanguage: m.DetectedLanguage,
		AudioDuration:    m.AudioDuration,
		Summary:          m.Summary,
		ActionItems:      m.ActionItems,
		Translation:      m.Translation,
		IsDemo:           m.IsDemo,
		LastError:        m.LastError,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	// Malformed audio info is left out rather than failing the response
	if len(m.AudioInfo) > 0 {
		if info, err := m.GetAudioInfo(); err == nil {
			response.AudioInfo = &meeting.AudioInfoResponse{
				Format:          info.Format,
				Speakers:        info.Speakers,
				DurationSeconds: info.DurationSeconds,
				Estimated:       info.Estimated,
				SizeBytes:       info.SizeBytes,
			}
		}
	}

	return response
}

// ToMeetingListResponse converts a page of meetings
func ToMeetingListResponse(meetings []entities.Meeting, skip, limit int) *meeting.MeetingListResponse {
	items := make([]*meeting.MeetingResponse, len(meetings))
	for i := range meetings {
		items[i] = ToMeetingResponse(&meetings[i])
	}
	return &meeting.MeetingListResponse{
		Meetings: items,
		Skip:     skip,
		Limit:    limit,
	}
}

// ToStatusResponse converts a pipeline status view
func ToStatusResponse(v *meetingUsecase.StatusView) *meeting.StatusResponse {
	if v == nil {
		return nil
	}
	return &meeting.StatusResponse{
		MeetingID: v.MeetingID.String(),
		Status:    string(v.Status),
		Stage:     string(v.Stage),
		JobID:     v.JobID,
		JobState:  string(v.JobState),
		LastError: v.LastError,
		UpdatedAt: v.UpdatedAt,
	}
}
