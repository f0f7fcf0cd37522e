package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Pipeline  PipelineConfig
	Conductor ConductorConfig
	GitHub    GitHubConfig
	LLM       LLMConfig
	TTS       TTSConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PipelineConfig selects where podcast generation runs: "conductor" proxies
// every request to Orkes Conductor, "local" enqueues work for cmd/worker.
type PipelineConfig struct {
	Mode string
}

type ConductorConfig struct {
	BaseURL         string
	KeyID           string
	KeySecret       string
	WorkflowName    string
	WorkflowVersion int
}

type GitHubConfig struct {
	Token string
}

type LLMConfig struct {
	AnthropicKey     string
	OpenAIKey        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
	MaxRetries       int
}

type TTSConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Format         string
	SampleRate     int
	Seed           int
	HostVoice      string
	ExpertVoice    string
	TimeoutSeconds int
}

type StorageConfig struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	workflowVersion, err := getEnvInt("CONDUCTOR_WORKFLOW_VERSION", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid CONDUCTOR_WORKFLOW_VERSION: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	sampleRate, err := getEnvInt("TTS_SAMPLE_RATE", 24000)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_SAMPLE_RATE: %w", err)
	}

	seed, err := getEnvInt("TTS_SEED", 123)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_SEED: %w", err)
	}

	ttsTimeout, err := getEnvInt("TTS_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Pipeline: PipelineConfig{
			Mode: getEnv("PIPELINE_MODE", "local"),
		},
		Conductor: ConductorConfig{
			BaseURL:         getEnv("CONDUCTOR_BASE_URL", "https://developer.orkescloud.com"),
			KeyID:           getEnv("CONDUCTOR_KEY_ID", ""),
			KeySecret:       getEnv("CONDUCTOR_KEY_SECRET", ""),
			WorkflowName:    getEnv("CONDUCTOR_WORKFLOW_NAME", "GitTranslate_v3"),
			WorkflowVersion: workflowVersion,
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		LLM: LLMConfig{
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "anthropic"),
			DefaultModel:     getEnv("LLM_DEFAULT_MODEL", "claude-3-5-sonnet-20240620"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		TTS: TTSConfig{
			APIKey:         getEnv("LMNT_API_KEY", ""),
			BaseURL:        getEnv("LMNT_BASE_URL", "https://api.lmnt.com"),
			Model:          getEnv("TTS_MODEL", "blizzard"),
			Format:         getEnv("TTS_FORMAT", "mp3"),
			SampleRate:     sampleRate,
			Seed:           seed,
			HostVoice:      getEnv("TTS_HOST_VOICE", "brandon"),
			ExpertVoice:    getEnv("TTS_EXPERT_VOICE", "juniper"),
			TimeoutSeconds: ttsTimeout,
		},
		Storage: StorageConfig{
			Bucket:    getEnv("S3_BUCKET", "github-podcasts"),
			Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) TTSTimeout() time.Duration {
	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	var missing []string
	switch c.Pipeline.Mode {
	case "conductor":
		if c.Conductor.KeyID == "" {
			missing = append(missing, "CONDUCTOR_KEY_ID")
		}
		if c.Conductor.KeySecret == "" {
			missing = append(missing, "CONDUCTOR_KEY_SECRET")
		}
	case "local":
		if c.LLM.AnthropicKey == "" && c.LLM.OpenAIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY or OPENAI_API_KEY")
		}
		if c.TTS.APIKey == "" {
			missing = append(missing, "LMNT_API_KEY")
		}
	default:
		return fmt.Errorf("invalid PIPELINE_MODE %q (want \"conductor\" or \"local\")", c.Pipeline.Mode)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
