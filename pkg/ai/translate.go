package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// ErrPartialTranslation is wrapped by the error returned alongside a
// translation in which some chunks failed
var ErrPartialTranslation = errors.New("translation incomplete")

// Translator calls the public Google translate endpoint (client=gtx)
type Translator struct {
	baseURL   string
	chunkSize int
	demo      bool
	client    *http.Client
	logger    *zap.Logger
}

// NewTranslator creates a Translator from config
func NewTranslator(cfg *config.TranslationConfig, logger *zap.Logger) *Translator {
	base := cfg.BaseURL
	if base == "" {
		base = "https://translate.googleapis.com"
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = 1000
	}
	return &Translator{
		baseURL:   strings.TrimRight(base, "/"),
		chunkSize: chunk,
		demo:      cfg.Demo,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// Translate translates text from source (use "auto" to detect) into target.
// Chunks that fail are replaced by a marker and the text is returned with an
// error wrapping ErrPartialTranslation. When every chunk fails no text is
// returned.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if t.demo {
		return fmt.Sprintf("[Demo translation to %s] %s", target, text), nil
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if source == "" {
		source = "auto"
	}

	chunks := SplitChunks(text, t.chunkSize)
	out := make([]string, 0, len(chunks))
	failed := 0
	var lastErr error

	for i, chunk := range chunks {
		translated, err := t.translateChunk(ctx, chunk, source, target)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			failed++
			lastErr = err
			if t.logger != nil {
				t.logger.Warn("⚠️ Translation chunk failed",
					zap.Int("chunk", i+1),
					zap.Int("chunks", len(chunks)),
					zap.Error(err),
				)
			}
			out = append(out, fmt.Sprintf("[Translation error for chunk %d]", i+1))
			continue
		}
		out = append(out, translated)
	}

	if failed == len(chunks) {
		return "", lastErr
	}
	joined := strings.Join(out, "\n\n")
	if failed > 0 {
		return joined, fmt.Errorf("%w: %d of %d chunks failed: %v", ErrPartialTranslation, failed, len(chunks), lastErr)
	}
	return joined, nil
}

func (t *Translator) translateChunk(ctx context.Context, chunk, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", chunk)
	endpoint := t.baseURL + "/translate_a/single?" + params.Encode()

	var result string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			se := &StatusError{Service: "translate", StatusCode: resp.StatusCode, Body: string(snippet)}
			if se.Retryable() {
				return se
			}
			return backoff.Permanent(se)
		}

		var data []interface{}
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return backoff.Permanent(fmt.Errorf("decode translate response: %w", err))
		}
		text, err := joinSegments(data)
		if err != nil {
			return backoff.Permanent(err)
		}
		result = html.UnescapeString(text)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, 2), ctx)); err != nil {
		return "", err
	}
	return result, nil
}

// joinSegments reads the nested array response: [[["translated","source",...],...],...]
func joinSegments(data []interface{}) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("unexpected translate response format")
	}
	segments, ok := data[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected translate response format")
	}
	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// SplitChunks splits text on paragraph boundaries into chunks shorter than
// size. A single paragraph longer than size becomes its own chunk.
func SplitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, paragraph := range strings.Split(text, "\n\n") {
		if current.Len()+len(paragraph) < size {
			current.WriteString(paragraph)
			current.WriteString("\n\n")
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
		}
		current.Reset()
		current.WriteString(paragraph)
		current.WriteString("\n\n")
	}
	if current.Len() > 0 {
		if last := strings.TrimSpace(current.String()); last != "" {
			chunks = append(chunks, last)
		}
	}
	return chunks
}
