package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultRedisAddr = "127.0.0.1:6379"
)

// Config captures runtime options sourced from the environment.
type Config struct {
	AppID           int64
	PrivateKeyPEM   []byte
	InstallationID  int64
	PipelineName    string
	ImageTag        string
	SpecPath        string
	GitHubBaseURL   string
	GitHubUploadURL string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EventPath       string
	OutputPath      string
	DryRun          bool
	Verbose         bool
	LogLevel        string
	LogFormat       string
}

// LoadConfig reads options from the environment, applies defaults, and
// performs validation.
func LoadConfig() (Config, error) {
	cfg := Config{
		PipelineName: strings.TrimSpace(os.Getenv("PIPELINE_NAME")),
		ImageTag:     strings.TrimSpace(os.Getenv("IMAGE_TAG")),
		SpecPath:     strings.TrimSpace(os.Getenv("SPEC_PATH")),
		RedisAddr:    strings.TrimSpace(envOrDefault("REDIS_ADDR", defaultRedisAddr)),
		LogLevel:     strings.ToLower(strings.TrimSpace(envOrDefault("LOG_LEVEL", defaultLogLevel))),
		LogFormat:    strings.ToLower(strings.TrimSpace(envOrDefault("LOG_FORMAT", defaultLogFormat))),
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.GitHubBaseURL = strings.TrimSpace(os.Getenv("GITHUB_BASE_URL"))
	cfg.GitHubUploadURL = strings.TrimSpace(os.Getenv("GITHUB_UPLOAD_URL"))
	cfg.EventPath = strings.TrimSpace(os.Getenv("GITHUB_EVENT_PATH"))
	cfg.OutputPath = strings.TrimSpace(os.Getenv("OUTPUT_PATH"))

	if rawAppID := strings.TrimSpace(os.Getenv("APP_ID")); rawAppID != "" {
		appID, err := strconv.ParseInt(rawAppID, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse APP_ID: %w", err)
		}
		cfg.AppID = appID
	}

	if rawInstallation := strings.TrimSpace(os.Getenv("INSTALLATION_ID")); rawInstallation != "" {
		installationID, err := strconv.ParseInt(rawInstallation, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse INSTALLATION_ID: %w", err)
		}
		cfg.InstallationID = installationID
	}

	if rawDB := strings.TrimSpace(os.Getenv("REDIS_DB")); rawDB != "" {
		db, err := strconv.Atoi(rawDB)
		if err != nil {
			return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if rawDryRun := strings.TrimSpace(os.Getenv("DRY_RUN")); rawDryRun != "" {
		dryRun, err := strconv.ParseBool(rawDryRun)
		if err != nil {
			return Config{}, fmt.Errorf("parse DRY_RUN: %w", err)
		}
		cfg.DryRun = dryRun
	}

	if rawVerbose := strings.TrimSpace(os.Getenv("VERBOSE")); rawVerbose != "" {
		verbose, err := strconv.ParseBool(rawVerbose)
		if err != nil {
			return Config{}, fmt.Errorf("parse VERBOSE: %w", err)
		}
		cfg.Verbose = verbose
	}

	key := os.Getenv("PRIVATE_KEY")
	if key == "" {
		if path := strings.TrimSpace(os.Getenv("PRIVATE_KEY_PATH")); path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return Config{}, fmt.Errorf("read PRIVATE_KEY_PATH: %w", err)
			}
			key = string(raw)
		}
	}
	cfg.PrivateKeyPEM = []byte(key)

	if cfg.AppID <= 0 {
		return Config{}, fmt.Errorf("APP_ID is required and must be positive")
	}

	if len(cfg.PrivateKeyPEM) == 0 {
		return Config{}, fmt.Errorf("github app private key is required (set PRIVATE_KEY or PRIVATE_KEY_PATH)")
	}

	if cfg.PipelineName == "" {
		return Config{}, fmt.Errorf("PIPELINE_NAME is required")
	}

	if (cfg.GitHubBaseURL == "") != (cfg.GitHubUploadURL == "") {
		return Config{}, fmt.Errorf("GITHUB_BASE_URL and GITHUB_UPLOAD_URL must both be set for GitHub Enterprise")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}

	supportedFormats := map[string]struct{}{"text": {}, "json": {}}
	if _, ok := supportedFormats[cfg.LogFormat]; !ok {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
