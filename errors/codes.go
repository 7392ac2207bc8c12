package errors

// ErrorCode identifies an application error independently of its HTTP status
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL            ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT    ErrorCode = 1001
	ErrorCode_NOT_FOUND           ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS      ErrorCode = 1003
	ErrorCode_FAILED_PRECONDITION ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD     ErrorCode = 1005

	// Meetings
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 2000
	ErrorCode_UPLOAD_STORAGE_FAILED ErrorCode = 2001
	ErrorCode_UPLOAD_INVALID_FILE   ErrorCode = 2002
	ErrorCode_PIPELINE_QUEUE_FULL   ErrorCode = 2003

	// AI
	ErrorCode_AI_TRANSCRIPTION_FAILED  ErrorCode = 3000
	ErrorCode_AI_TRANSCRIPTION_TIMEOUT ErrorCode = 3001
	ErrorCode_AI_ANALYSIS_FAILED       ErrorCode = 3002
	ErrorCode_AI_PARSE_FAILED          ErrorCode = 3003
	ErrorCode_AI_TRANSLATION_FAILED    ErrorCode = 3004
	ErrorCode_AI_SERVICE_UNAVAILABLE   ErrorCode = 3005

	// Artifacts
	ErrorCode_ARTIFACT_NOT_FOUND       ErrorCode = 4000
	ErrorCode_ARTIFACT_INVALID_KIND    ErrorCode = 4001
	ErrorCode_REPORT_GENERATION_FAILED ErrorCode = 4002

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 5002
	ErrorCode_DB_TRANSACTION_FAILED      ErrorCode = 5003
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_FAILED_PRECONDITION:        "FAILED_PRECONDITION",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_UPLOAD_STORAGE_FAILED:      "UPLOAD_STORAGE_FAILED",
	ErrorCode_UPLOAD_INVALID_FILE:        "UPLOAD_INVALID_FILE",
	ErrorCode_PIPELINE_QUEUE_FULL:        "PIPELINE_QUEUE_FULL",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_TRANSCRIPTION_TIMEOUT:   "AI_TRANSCRIPTION_TIMEOUT",
	ErrorCode_AI_ANALYSIS_FAILED:         "AI_ANALYSIS_FAILED",
	ErrorCode_AI_PARSE_FAILED:            "AI_PARSE_FAILED",
	ErrorCode_AI_TRANSLATION_FAILED:      "AI_TRANSLATION_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_ARTIFACT_NOT_FOUND:         "ARTIFACT_NOT_FOUND",
	ErrorCode_ARTIFACT_INVALID_KIND:      "ARTIFACT_INVALID_KIND",
	ErrorCode_REPORT_GENERATION_FAILED:   "REPORT_GENERATION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:      "DB_TRANSACTION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON payloads
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
