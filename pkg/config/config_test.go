package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRANSCRIPTION_PROVIDER", "")
	require.NoError(t, os.Unsetenv("TRANSCRIPTION_PROVIDER"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderDemo, cfg.Transcription.Provider)
	assert.Equal(t, 5*time.Second, cfg.Transcription.PollInterval)
	assert.Equal(t, 60, cfg.Transcription.MaxPollAttempts)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 1000, cfg.Translation.ChunkSize)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.True(t, cfg.IsDemo())
}

func TestLoad_ReadsNestedVariables(t *testing.T) {
	t.Setenv("TRANSCRIPTION_PROVIDER", ProviderAssemblyAI)
	t.Setenv("ASSEMBLYAI_API_KEY", "key-123")
	t.Setenv("TRANSCRIPTION_POLL_INTERVAL", "250ms")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("PIPELINE_WORKERS", "4")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.Assembly.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Transcription.PollInterval)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Contains(t, cfg.GetDatabaseDSN(), "port=6543")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:       StorageConfig{Type: StorageLocal},
			Transcription: TranscriptionConfig{Provider: ProviderDemo, MaxPollAttempts: 1},
			Pipeline:      PipelineConfig{Workers: 1, MaxUploads: 1},
			Translation:   TranslationConfig{ChunkSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid demo", mutate: func(c *Config) {}},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "s3" }, wantErr: "STORAGE_TYPE"},
		{name: "unknown provider", mutate: func(c *Config) { c.Transcription.Provider = "vosk" }, wantErr: "unknown TRANSCRIPTION_PROVIDER"},
		{name: "assemblyai without key", mutate: func(c *Config) { c.Transcription.Provider = ProviderAssemblyAI }, wantErr: "ASSEMBLYAI_API_KEY"},
		{name: "dashscope on local storage", mutate: func(c *Config) {
			c.Transcription.Provider = ProviderDashScope
			c.DashScope.APIKey = "k"
		}, wantErr: "STORAGE_TYPE=minio"},
		{name: "whisper without key", mutate: func(c *Config) { c.Transcription.Provider = ProviderWhisper }, wantErr: "WHISPER_API_KEY"},
		{name: "zero workers", mutate: func(c *Config) { c.Pipeline.Workers = 0 }, wantErr: "PIPELINE_WORKERS"},
		{name: "zero poll attempts", mutate: func(c *Config) { c.Transcription.MaxPollAttempts = 0 }, wantErr: "MAX_POLL_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
