package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// AssemblyAIClient wraps the official SDK with the calls the pipeline needs
type AssemblyAIClient struct {
	sdk *aai.Client
}

// AssemblyTranscript is the subset of a transcript the pipeline reads
type AssemblyTranscript struct {
	ID              string
	Status          string
	Text            string
	LanguageCode    string
	DurationSeconds float64
	Utterances      []Utterance
	Error           string
}

// Utterance is one speaker turn
type Utterance struct {
	Speaker string
	Text    string
}

// Transcript status values
const (
	AssemblyStatusQueued     = string(aai.TranscriptStatusQueued)
	AssemblyStatusProcessing = string(aai.TranscriptStatusProcessing)
	AssemblyStatusCompleted  = string(aai.TranscriptStatusCompleted)
	AssemblyStatusError      = string(aai.TranscriptStatusError)
)

// NewAssemblyAIClient creates a client from config. BaseURL is optional.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}
	return &AssemblyAIClient{sdk: aai.NewClientWithOptions(opts...)}
}

// Upload streams audio to AssemblyAI and returns the private upload URL
func (c *AssemblyAIClient) Upload(ctx context.Context, r io.Reader) (string, error) {
	uploadURL, err := c.sdk.Upload(ctx, r)
	if err != nil {
		return "", fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}
	return uploadURL, nil
}

// Submit queues a transcription job. An empty languageCode enables detection.
func (c *AssemblyAIClient) Submit(ctx context.Context, audioURL, languageCode string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if languageCode == "" {
		params.LanguageDetection = aai.Bool(true)
	} else {
		params.LanguageCode = aai.TranscriptLanguageCode(languageCode)
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcript: %w", err)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}
	return *transcript.ID, nil
}

// Get fetches the current state of a transcript
func (c *AssemblyAIClient) Get(ctx context.Context, id string) (*AssemblyTranscript, error) {
	transcript, err := c.sdk.Transcripts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript %s: %w", id, err)
	}

	out := &AssemblyTranscript{
		ID:           id,
		Status:       string(transcript.Status),
		LanguageCode: string(transcript.LanguageCode),
	}
	if transcript.Text != nil {
		out.Text = *transcript.Text
	}
	if transcript.AudioDuration != nil {
		out.DurationSeconds = float64(*transcript.AudioDuration)
	}
	if transcript.Error != nil {
		out.Error = *transcript.Error
	}
	for _, utt := range transcript.Utterances {
		u := Utterance{}
		if utt.Speaker != nil {
			u.Speaker = *utt.Speaker
		}
		if utt.Text != nil {
			u.Text = strings.TrimSpace(*utt.Text)
		}
		out.Utterances = append(out.Utterances, u)
	}
	return out, nil
}
