package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// DashScopeProvider drives the DashScope asynchronous file transcription API.
// Audio is handed over as a presigned storage URL.
type DashScopeProvider struct {
	apiKey   string
	baseURL  string
	model    string
	signer   URLSigner
	expiry   time.Duration
	resolver *language.Resolver
	poll     PollConfig
	client   *http.Client
	logger   *zap.Logger
}

// NewDashScopeProvider creates the submit-and-poll DashScope provider
func NewDashScopeProvider(cfg *config.DashScopeConfig, signer URLSigner, expiry time.Duration, resolver *language.Resolver, poll PollConfig, logger *zap.Logger) *DashScopeProvider {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &DashScopeProvider{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		signer:   signer,
		expiry:   expiry,
		resolver: resolver,
		poll:     poll,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Name returns the provider name
func (p *DashScopeProvider) Name() string { return config.ProviderDashScope }

type dashSubmitRequest struct {
	Model      string              `json:"model"`
	Input      dashSubmitInput     `json:"input"`
	Parameters dashSubmitParameter `json:"parameters,omitempty"`
}

type dashSubmitInput struct {
	FileURLs []string `json:"file_urls"`
}

type dashSubmitParameter struct {
	LanguageHints []string `json:"language_hints,omitempty"`
}

type dashTaskResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
		Message    string `json:"message"`
		Results    []struct {
			TranscriptionURL string `json:"transcription_url"`
			SubtaskStatus    string `json:"subtask_status"`
			Message          string `json:"message"`
		} `json:"results"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dashTranscription struct {
	Properties struct {
		OriginalDurationMs int64  `json:"original_duration_in_milliseconds"`
		Language           string `json:"language"`
	} `json:"properties"`
	Transcripts []struct {
		Text      string `json:"text"`
		Sentences []struct {
			Text      string `json:"text"`
			SpeakerID *int   `json:"speaker_id"`
		} `json:"sentences"`
	} `json:"transcripts"`
}

// Transcribe submits the audio URL and polls the task
func (p *DashScopeProvider) Transcribe(ctx context.Context, audio AudioRef, hint string) (*Result, error) {
	audioURL, err := p.signer.SignedURL(ctx, audio.Key, p.expiry)
	if err != nil {
		return nil, apperrors.ErrProvider(p.Name(), err)
	}

	req := dashSubmitRequest{Model: p.model, Input: dashSubmitInput{FileURLs: []string{audioURL}}}
	if hint != "" {
		req.Parameters.LanguageHints = []string{p.resolver.ProviderCode(hint, language.DialectBCP47)}
	}

	var submitted dashTaskResponse
	if err := p.doJSON(ctx, http.MethodPost, p.baseURL+"/api/v1/services/audio/asr/transcription", req, true, &submitted); err != nil {
		return nil, apperrors.ErrProvider(p.Name(), err)
	}
	jobID := submitted.Output.TaskID
	if jobID == "" {
		return nil, apperrors.ErrProvider(p.Name(), fmt.Errorf("no task_id in response: %s", submitted.Message))
	}
	NotifyState(ctx, jobID, JobSubmitted)

	var transcriptionURL string
	err = Poll(ctx, p.Name(), jobID, p.poll, p.logger, func(ctx context.Context) (JobState, error) {
		var task dashTaskResponse
		if err := p.doJSON(ctx, http.MethodGet, p.baseURL+"/api/v1/tasks/"+jobID, nil, false, &task); err != nil {
			return JobPolling, err
		}
		switch strings.ToUpper(task.Output.TaskStatus) {
		case "SUCCEEDED", "SUCCESS":
			for _, r := range task.Output.Results {
				if r.TranscriptionURL != "" {
					transcriptionURL = r.TranscriptionURL
					return JobSucceeded, nil
				}
			}
			return JobFailed, fmt.Errorf("task succeeded without a transcription url")
		case "FAILED":
			msg := task.Output.Message
			if msg == "" && len(task.Output.Results) > 0 {
				msg = task.Output.Results[0].Message
			}
			return JobFailed, fmt.Errorf("dashscope task failed: %s", msg)
		}
		return JobPolling, nil
	})
	if err != nil {
		return nil, err
	}

	var result dashTranscription
	if err := p.doJSON(ctx, http.MethodGet, transcriptionURL, nil, false, &result); err != nil {
		return nil, apperrors.ErrProvider(p.Name(), fmt.Errorf("fetch transcription: %w", err))
	}

	text, speakers := renderSentences(&result)
	return &Result{
		Text:             text,
		DetectedLanguage: result.Properties.Language,
		DurationSeconds:  float64(result.Properties.OriginalDurationMs) / 1000,
		Speakers:         speakers,
		JobID:            jobID,
		State:            JobSucceeded,
	}, nil
}

func (p *DashScopeProvider) doJSON(ctx context.Context, method, url string, body interface{}, async bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	// Result URLs are presigned and reject extra auth headers.
	if strings.HasPrefix(url, p.baseURL) {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if async {
		req.Header.Set("X-DashScope-Async", "enable")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("dashscope returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode dashscope response: %w", err)
	}
	return nil
}

func renderSentences(t *dashTranscription) (string, []string) {
	var sb strings.Builder
	seen := make(map[string]bool)
	var speakers []string

	for _, tr := range t.Transcripts {
		if len(tr.Sentences) == 0 || tr.Sentences[0].SpeakerID == nil {
			sb.WriteString(strings.TrimSpace(tr.Text))
			sb.WriteString("\n\n")
			continue
		}
		for _, s := range tr.Sentences {
			label := "Speaker 1"
			if s.SpeakerID != nil {
				label = fmt.Sprintf("Speaker %d", *s.SpeakerID+1)
			}
			if !seen[label] {
				seen[label] = true
				speakers = append(speakers, label)
			}
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(strings.TrimSpace(s.Text))
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(sb.String()), speakers
}
