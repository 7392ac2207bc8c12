package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Transcription provider names
const (
	ProviderAssemblyAI = "assemblyai"
	ProviderDashScope  = "dashscope"
	ProviderWhisper    = "whisper"
	ProviderDemo       = "demo"
)

// Storage backend names
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Config holds application configuration.
// Every leaf field carries its full environment variable name; envconfig
// resolves nested fields through that name when the prefixed key is unset.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Transcription TranscriptionConfig
	Assembly      AssemblyAIConfig
	DashScope     DashScopeConfig
	Whisper       WhisperConfig
	Groq          GroqConfig
	Translation   TranslationConfig
	Analysis      AnalysisConfig
	Pipeline      PipelineConfig
	Artifact      ArtifactConfig
	Log           LogConfig
	Metrics       MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int64    `envconfig:"MAX_UPLOAD_MB" default:"200"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_analyzer"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string        `envconfig:"STORAGE_TYPE" default:"local"` // "local" or "minio"
	LocalRoot       string        `envconfig:"STORAGE_LOCAL_ROOT" default:"./data"`
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"meeting-analyzer"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	PresignExpiry   time.Duration `envconfig:"STORAGE_PRESIGN_EXPIRY" default:"1h"`
}

// TranscriptionConfig selects the speech-to-text backend and its polling budget
type TranscriptionConfig struct {
	Provider        string        `envconfig:"TRANSCRIPTION_PROVIDER" default:"demo"`
	PollInterval    time.Duration `envconfig:"TRANSCRIPTION_POLL_INTERVAL" default:"5s"`
	MaxPollAttempts int           `envconfig:"TRANSCRIPTION_MAX_POLL_ATTEMPTS" default:"60"`
}

// AssemblyAIConfig holds AssemblyAI credentials
type AssemblyAIConfig struct {
	APIKey  string `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL string `envconfig:"ASSEMBLYAI_BASE_URL"`
}

// DashScopeConfig holds Alibaba DashScope async ASR settings
type DashScopeConfig struct {
	APIKey  string `envconfig:"DASHSCOPE_API_KEY"`
	BaseURL string `envconfig:"DASHSCOPE_BASE_URL" default:"https://dashscope.aliyuncs.com"`
	Model   string `envconfig:"DASHSCOPE_MODEL" default:"paraformer-v2"`
}

// WhisperConfig holds settings for an OpenAI-compatible transcription endpoint
type WhisperConfig struct {
	APIKey  string        `envconfig:"WHISPER_API_KEY"`
	BaseURL string        `envconfig:"WHISPER_BASE_URL" default:"https://api.openai.com"`
	Model   string        `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	Timeout time.Duration `envconfig:"WHISPER_TIMEOUT" default:"10m"`
}

// GroqConfig holds Groq chat completion settings
type GroqConfig struct {
	APIKey  string        `envconfig:"GROQ_API_KEY"`
	BaseURL string        `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com"`
	Model   string        `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
	Timeout time.Duration `envconfig:"GROQ_TIMEOUT" default:"60s"`
}

// TranslationConfig holds translation settings
type TranslationConfig struct {
	BaseURL   string        `envconfig:"TRANSLATION_BASE_URL" default:"https://translate.googleapis.com"`
	ChunkSize int           `envconfig:"TRANSLATION_CHUNK_SIZE" default:"1000"`
	Demo      bool          `envconfig:"TRANSLATION_DEMO" default:"false"`
	CacheTTL  time.Duration `envconfig:"TRANSLATION_CACHE_TTL" default:"24h"`
}

// AnalysisConfig bounds what is shipped to the language model
type AnalysisConfig struct {
	MaxTranscriptChars int `envconfig:"ANALYSIS_MAX_TRANSCRIPT_CHARS" default:"48000"`
}

// PipelineConfig sizes the background processing pool
type PipelineConfig struct {
	Workers    int           `envconfig:"PIPELINE_WORKERS" default:"2"`
	QueueSize  int           `envconfig:"PIPELINE_QUEUE_SIZE" default:"64"`
	MaxUploads int64         `envconfig:"PIPELINE_MAX_UPLOADS" default:"2"`
	JobTimeout time.Duration `envconfig:"PIPELINE_JOB_TIMEOUT" default:"30m"`
	StatusTTL  time.Duration `envconfig:"PIPELINE_STATUS_TTL" default:"24h"`
}

// ArtifactConfig holds document rendering settings
type ArtifactConfig struct {
	FontPath     string `envconfig:"ARTIFACT_FONT_PATH"`
	BoldFontPath string `envconfig:"ARTIFACT_BOLD_FONT_PATH"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"10"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageLocal, StorageMinIO:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageLocal, StorageMinIO, c.Storage.Type)
	}

	switch c.Transcription.Provider {
	case ProviderDemo:
	case ProviderAssemblyAI:
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required for provider %q", ProviderAssemblyAI)
		}
	case ProviderDashScope:
		if c.DashScope.APIKey == "" {
			return fmt.Errorf("DASHSCOPE_API_KEY is required for provider %q", ProviderDashScope)
		}
		if c.Storage.Type != StorageMinIO {
			return fmt.Errorf("provider %q needs STORAGE_TYPE=%s to expose audio URLs", ProviderDashScope, StorageMinIO)
		}
	case ProviderWhisper:
		if c.Whisper.APIKey == "" {
			return fmt.Errorf("WHISPER_API_KEY is required for provider %q", ProviderWhisper)
		}
	default:
		return fmt.Errorf("unknown TRANSCRIPTION_PROVIDER %q", c.Transcription.Provider)
	}

	if c.Transcription.MaxPollAttempts <= 0 {
		return fmt.Errorf("TRANSCRIPTION_MAX_POLL_ATTEMPTS must be positive")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("PIPELINE_WORKERS must be positive")
	}
	if c.Pipeline.MaxUploads <= 0 {
		return fmt.Errorf("PIPELINE_MAX_UPLOADS must be positive")
	}
	if c.Translation.ChunkSize <= 0 {
		return fmt.Errorf("TRANSLATION_CHUNK_SIZE must be positive")
	}
	return nil
}

// IsDemo reports whether transcription runs without live credentials
func (c *Config) IsDemo() bool {
	return c.Transcription.Provider == ProviderDemo
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
