// Package media extracts duration and format metadata from stored audio.
package media

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Estimation assumes 16 kHz, 16-bit mono PCM.
const estimateBytesPerMinute = 16000 * 2 * 60

// Info describes an audio file
type Info struct {
	Format          string  // upper-cased extension, e.g. "WAV"
	DurationSeconds float64 // zero when unknown
	Display         string  // "M minutes S seconds" or "X.XX minutes (estimated)"
	Estimated       bool
	SizeBytes       int64
}

// Source is the audio to probe. LocalPath enables ffprobe; Open is used to
// read container headers.
type Source struct {
	Name      string
	Size      int64
	LocalPath string
	Open      func() (io.ReadCloser, error)
}

// Prober resolves audio metadata: WAV header first, then ffprobe, then a
// size based estimate.
type Prober struct {
	ffprobe string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProber creates a Prober. An empty binary disables ffprobe lookups
// unless "ffprobe" is found on PATH.
func NewProber(ffprobeBinary string, logger *zap.Logger) *Prober {
	if ffprobeBinary == "" {
		if path, err := exec.LookPath("ffprobe"); err == nil {
			ffprobeBinary = path
		}
	}
	return &Prober{ffprobe: ffprobeBinary, timeout: 30 * time.Second, logger: logger}
}

// Probe never fails; when nothing precise is available the duration is estimated
func (p *Prober) Probe(ctx context.Context, src Source) Info {
	info := Info{
		Format:    FormatTag(src.Name),
		SizeBytes: src.Size,
	}

	if seconds, err := p.precise(ctx, src); err == nil && seconds > 0 {
		info.DurationSeconds = seconds
		info.Display = FormatDuration(seconds)
		return info
	} else if err != nil && p.logger != nil {
		p.logger.Debug("audio duration probe failed, estimating",
			zap.String("name", src.Name),
			zap.Error(err),
		)
	}

	info.Estimated = true
	info.Display = EstimateDuration(src.Size)
	return info
}

func (p *Prober) precise(ctx context.Context, src Source) (float64, error) {
	var errs []error

	if strings.EqualFold(filepath.Ext(src.Name), ".wav") && src.Open != nil {
		rc, err := src.Open()
		if err == nil {
			seconds, werr := WAVDuration(rc)
			rc.Close()
			if werr == nil {
				return seconds, nil
			}
			errs = append(errs, werr)
		} else {
			errs = append(errs, err)
		}
	}

	if p.ffprobe != "" && src.LocalPath != "" {
		seconds, err := p.ffprobeDuration(ctx, src.LocalPath)
		if err == nil {
			return seconds, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return 0, errors.New("no precise duration source available")
	}
	return 0, errors.Join(errs...)
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) ffprobeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.ffprobe, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result ffprobeFormat
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	return seconds, nil
}

// WAVDuration reads a RIFF/WAVE header and returns data length / byte rate
func WAVDuration(r io.Reader) (float64, error) {
	br := bufio.NewReader(r)

	var header [12]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return 0, fmt.Errorf("wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, errors.New("not a RIFF/WAVE file")
	}

	var byteRate uint32
	for i := 0; i < 64; i++ {
		var chunk [8]byte
		if _, err := io.ReadFull(br, chunk[:]); err != nil {
			return 0, fmt.Errorf("wav chunk: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return 0, errors.New("wav fmt chunk too short")
			}
			var fmtData [16]byte
			if _, err := io.ReadFull(br, fmtData[:]); err != nil {
				return 0, fmt.Errorf("wav fmt chunk: %w", err)
			}
			byteRate = binary.LittleEndian.Uint32(fmtData[8:12])
			rest := int64(size) - 16 + int64(size%2)
			if _, err := io.CopyN(io.Discard, br, rest); err != nil {
				return 0, fmt.Errorf("wav fmt chunk: %w", err)
			}
		case "data":
			if byteRate == 0 {
				return 0, errors.New("wav data chunk before fmt chunk")
			}
			return float64(size) / float64(byteRate), nil
		default:
			skip := int64(size) + int64(size%2)
			if _, err := io.CopyN(io.Discard, br, skip); err != nil {
				return 0, fmt.Errorf("wav skip chunk %q: %w", id, err)
			}
		}
	}
	return 0, errors.New("wav data chunk not found")
}

// FormatDuration renders seconds as "M minutes S seconds"
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d minutes %d seconds", total/60, total%60)
}

// EstimateDuration renders a size based estimate as "X.XX minutes (estimated)"
func EstimateDuration(size int64) string {
	return fmt.Sprintf("%.2f minutes (estimated)", float64(size)/estimateBytesPerMinute)
}

// FormatTag returns the upper-cased extension without the dot
func FormatTag(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}
