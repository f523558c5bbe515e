package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config holds application configuration.
type Config struct {
	Env             string `koanf:"env"`
	Host            string `koanf:"host"`
	Port            string `koanf:"port"`
	CORSAllowOrigin string `koanf:"cors_allow_origins"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	CatalogSource   string `koanf:"catalog_source"`
	CatalogPath     string `koanf:"catalog_path"`
	CatalogBaseDir  string `koanf:"catalog_base_dir"`
	CatalogS3Bucket string `koanf:"catalog_s3_bucket"`
	AWSRegion       string `koanf:"aws_region"`
	DatabaseURL     string `koanf:"database_url"`

	LLMProvider           string  `koanf:"llm_provider"`
	LLMModel              string  `koanf:"llm_model"`
	LLMTemperature        float64 `koanf:"llm_temperature"`
	LLMTimeoutSeconds     int     `koanf:"llm_timeout_seconds"`
	OpenAIAPIKey          string  `koanf:"openai_api_key"`
	GeminiAPIKey          string  `koanf:"gemini_api_key"`
	LLMBreakerEnabled     bool    `koanf:"llm_breaker_enabled"`
	LLMBreakerFailures    int     `koanf:"llm_breaker_failures"`
	LLMBreakerOpenSeconds int     `koanf:"llm_breaker_open_seconds"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Env:             "dev",
		Host:            "0.0.0.0",
		Port:            "8000",
		CORSAllowOrigin: "*",

		LogLevel:  "info",
		LogFormat: "json",

		CatalogSource:  "file",
		CatalogPath:    "data/rackets.json",
		CatalogBaseDir: ".",

		LLMProvider:           "openai",
		LLMModel:              "gpt-3.5-turbo",
		LLMTemperature:        0.7,
		LLMTimeoutSeconds:     120,
		LLMBreakerEnabled:     true,
		LLMBreakerFailures:    5,
		LLMBreakerOpenSeconds: 30,
	}
}

// Load reads configuration from defaults, an optional YAML file and the environment, in that order.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	k := koanf.New(".")
	defaults := Defaults()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	known := make(map[string]struct{})
	for _, key := range k.Keys() {
		known[key] = struct{}{}
	}
	envProvider := env.Provider("", ".", func(key string) string {
		key = strings.ToLower(key)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CatalogSource = normalizeCatalogSource(cfg.CatalogSource)
	cfg.LLMProvider = normalizeProvider(cfg.LLMProvider)
	return cfg, nil
}

// CORSOrigins splits the comma-separated origin list.
func (c Config) CORSOrigins() []string {
	return splitAndTrim(c.CORSAllowOrigin)
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeCatalogSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "postgres", "pg", "db":
		return "postgres"
	default:
		return "file"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "none", "off", "disabled":
		return "none"
	default:
		return "openai"
	}
}
