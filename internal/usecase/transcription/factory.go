package transcription

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/pkg/ai"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// Deps are the collaborators providers may need
type Deps struct {
	Audio    AudioOpener
	Signer   URLSigner // required by dashscope
	Gate     UploadGate
	Resolver *language.Resolver
	Logger   *zap.Logger
}

// New selects the provider named by cfg.Transcription.Provider
func New(cfg *config.Config, deps Deps) (Provider, error) {
	if deps.Resolver == nil {
		deps.Resolver = language.NewResolver(language.DefaultCode)
	}
	poll := PollConfig{
		Interval:    cfg.Transcription.PollInterval,
		MaxAttempts: cfg.Transcription.MaxPollAttempts,
	}

	switch cfg.Transcription.Provider {
	case config.ProviderDemo, "":
		return NewDemoProvider(), nil
	case config.ProviderAssemblyAI:
		return NewAssemblyAIProvider(ai.NewAssemblyAIClient(&cfg.Assembly), deps.Audio, deps.Gate, deps.Resolver, poll, deps.Logger), nil
	case config.ProviderDashScope:
		if deps.Signer == nil {
			return nil, fmt.Errorf("provider %q needs a storage backend that can sign URLs", config.ProviderDashScope)
		}
		return NewDashScopeProvider(&cfg.DashScope, deps.Signer, cfg.Storage.PresignExpiry, deps.Resolver, poll, deps.Logger), nil
	case config.ProviderWhisper:
		return NewWhisperProvider(&cfg.Whisper, deps.Audio, deps.Gate, deps.Resolver, deps.Logger), nil
	}
	return nil, fmt.Errorf("unknown transcription provider %q", cfg.Transcription.Provider)
}
