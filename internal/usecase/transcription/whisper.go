package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// WhisperProvider calls an OpenAI-compatible /v1/audio/transcriptions
// endpoint in a single synchronous request.
type WhisperProvider struct {
	apiKey   string
	baseURL  string
	model    string
	audio    AudioOpener
	gate     UploadGate
	resolver *language.Resolver
	client   *http.Client
	logger   *zap.Logger
}

// NewWhisperProvider creates the synchronous-call provider
func NewWhisperProvider(cfg *config.WhisperConfig, audio AudioOpener, gate UploadGate, resolver *language.Resolver, logger *zap.Logger) *WhisperProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &WhisperProvider{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		audio:    audio,
		gate:     gate,
		resolver: resolver,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Name returns the provider name
func (p *WhisperProvider) Name() string { return config.ProviderWhisper }

type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcribe streams the audio as multipart form data
func (p *WhisperProvider) Transcribe(ctx context.Context, audio AudioRef, hint string) (*Result, error) {
	if p.gate != nil {
		if err := p.gate.Acquire(ctx, 1); err != nil {
			return nil, apperrors.ErrProvider(p.Name(), err)
		}
		defer p.gate.Release(1)
	}

	rc, err := p.audio.Open(ctx, audio.Key)
	if err != nil {
		return nil, apperrors.ErrProvider(p.Name(), fmt.Errorf("failed to open audio: %w", err))
	}
	defer rc.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(p.writeForm(mw, rc, audio, hint))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/audio/transcriptions", pr)
	if err != nil {
		pr.Close()
		return nil, apperrors.ErrProvider(p.Name(), err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		pr.Close()
		return nil, apperrors.ErrProvider(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.ErrProvider(p.Name(), fmt.Errorf("whisper returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.ErrParse("whisper", err)
	}

	return &Result{
		Text:             strings.TrimSpace(out.Text),
		DetectedLanguage: out.Language,
		DurationSeconds:  out.Duration,
		State:            JobSucceeded,
	}, nil
}

func (p *WhisperProvider) writeForm(mw *multipart.Writer, audio io.Reader, ref AudioRef, hint string) error {
	if err := mw.WriteField("model", p.model); err != nil {
		return err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return err
	}
	if hint != "" {
		code := p.resolver.Canonicalize(hint)
		if code == "yue" {
			code = "zh"
		}
		if err := mw.WriteField("language", code); err != nil {
			return err
		}
	}

	name := ref.Name
	if name == "" {
		name = filepath.Base(ref.Key)
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	return mw.Close()
}
