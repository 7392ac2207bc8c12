package meeting

import (
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
)

// Demo bundle stored when the demo provider is configured
const (
	DemoDetectedLanguage = "English (en-US)"
	DemoDuration         = "5 minutes 23 seconds"
	demoDurationSeconds  = 323
)

// DemoSpeakers are the speaker labels of the demo transcript
var DemoSpeakers = []string{"Speaker 1", "Speaker 2"}

const demoTranscript = `Speaker 1: Good morning everyone. Let's start with a quick status update on the mobile release.

Speaker 2: Sure. The login flow is finished and QA signed off yesterday. We still have two open bugs in the settings screen.

Speaker 1: Are those blockers for Friday?

Speaker 2: One of them is. The notification toggle doesn't persist after a restart. I can have a fix ready by Wednesday.

Speaker 1: Great. I'll update the release notes and check with marketing about the announcement date.

Speaker 2: We should also schedule a short retro after launch to go over the crash reports.

Speaker 1: Agreed. I'll send an invite for next Tuesday. Anything else? No? Then that's it for today, thanks everyone.`

const demoSummary = `• The login flow for the mobile release is complete and has passed QA.
• Two bugs remain in the settings screen; the notification toggle issue blocks Friday's release.
• A fix for the blocking bug is expected by Wednesday.
• Release notes and the announcement date will be coordinated with marketing.
• A post-launch retro will review crash reports.`

const demoActionItems = `• Speaker 2: Fix the notification toggle persistence bug by Wednesday
• Speaker 1: Update the release notes
• Speaker 1: Confirm the announcement date with marketing
• Speaker 1: Send an invite for the post-launch retro next Tuesday`

func demoAudioInfo(format string, size int64) entities.AudioInfo {
	return entities.AudioInfo{
		Format:          format,
		Speakers:        DemoSpeakers,
		DurationSeconds: demoDurationSeconds,
		SizeBytes:       size,
	}
}

// DemoResult is the complete result stored for a demo run
func DemoResult(resolver *language.Resolver, format string, size int64) repositories.MeetingResult {
	result := repositories.MeetingResult{
		Status:           entities.MeetingStatusComplete,
		Transcript:       entities.StringPtr(demoTranscript),
		Summary:          entities.StringPtr(demoSummary),
		ActionItems:      entities.StringPtr(demoActionItems),
		DetectedLanguage: entities.StringPtr(DemoDetectedLanguage),
		AudioDuration:    entities.StringPtr(DemoDuration),
		IsDemo:           true,
	}
	if resolver != nil {
		if code, ok := resolver.Recognize(DemoDetectedLanguage); ok {
			result.Language = entities.StringPtr(code)
		}
	}

	m := entities.Meeting{}
	if err := m.SetAudioInfo(demoAudioInfo(format, size)); err == nil {
		result.AudioInfo = m.AudioInfo
	}
	return result
}
