package transcription

import (
	"context"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// DemoText is returned by the demo provider
const DemoText = "This is a demo transcription. The actual transcription would be generated from the audio file in production mode."

// DemoProvider returns a fixed transcript without calling any remote service
type DemoProvider struct{}

// NewDemoProvider creates the demo-stub provider
func NewDemoProvider() *DemoProvider { return &DemoProvider{} }

// Name returns the provider name
func (p *DemoProvider) Name() string { return config.ProviderDemo }

// Transcribe returns DemoText flagged as demo data
func (p *DemoProvider) Transcribe(ctx context.Context, audio AudioRef, hint string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Text:             DemoText,
		DetectedLanguage: "en-US",
		JobID:            "demo",
		State:            JobSucceeded,
		Demo:             true,
	}, nil
}
