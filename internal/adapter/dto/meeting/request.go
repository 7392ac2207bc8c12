package meeting

// UploadMeetingRequest holds the form fields sent with the audio file
type UploadMeetingRequest struct {
	Title    string `form:"title" validate:"required,min=1,max=255"`
	Language string `form:"language" validate:"omitempty,lang_label"`
	Timezone string `form:"timezone" validate:"omitempty,max=64"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0,max=100"`
}

// ArtifactRequest identifies a downloadable document
type ArtifactRequest struct {
	Kind string `param:"kind" validate:"required,artifact_kind"`
}

// TranslateRequest represents the request to translate a transcript
type TranslateRequest struct {
	TargetLanguage string `json:"target_language" validate:"required,lang_label"`
}
