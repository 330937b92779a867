package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Search SearchConfig
	Upload UploadConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	upload, err := loadUploadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Search: loadSearchConfig(),
		Upload: upload,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "4000"
	}

	if strings.Contains(port, ":") {
		// Accept ":4000" or "127.0.0.1:4000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the completion service endpoint.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether the required completion credentials are present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds the OpenAI-compatible chat model from the config.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("completion credentials missing: set OPENAI_API_KEY and OPENAI_MODEL")
	}

	return einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Timeout: c.Timeout,
	})
}

func loadAIConfig() (AIConfig, error) {
	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("OPENAI_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("OPENAI_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return AIConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://models.github.ai/inference"),
		Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// SearchConfig describes the web search service. A missing key disables only
// the citation endpoint.
type SearchConfig struct {
	APIKey   string
	Language string
	Country  string
}

// Enabled reports whether the search credential is present.
func (c SearchConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		APIKey:   strings.TrimSpace(os.Getenv("SERPAPI_KEY")),
		Language: getEnvOrDefault("SEARCH_LANGUAGE", "en"),
		Country:  getEnvOrDefault("SEARCH_COUNTRY", "us"),
	}
}

// UploadConfig bounds the extracted document snapshot.
type UploadConfig struct {
	MaxDocumentChars int
}

func loadUploadConfig() (UploadConfig, error) {
	maxChars := 12000
	if override, err := parseOptionalIntEnv("UPLOAD_MAX_DOCUMENT_CHARS"); err != nil {
		return UploadConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return UploadConfig{}, fmt.Errorf("UPLOAD_MAX_DOCUMENT_CHARS must be positive, got %d", *override)
		}
		maxChars = *override
	}

	return UploadConfig{MaxDocumentChars: maxChars}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
