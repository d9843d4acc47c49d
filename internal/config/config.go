// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/finops-claw-gang/infracost-comment/internal/report"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
)

// Conventional locations tried after the explicit and environment-configured ones.
var (
	DefaultDiffPaths = []string{"infracost.out.json", "infracost/infracost.out.json", "infracost-diff.json"}
	DefaultBasePaths = []string{"infracost-base.json", "infracost/infracost-base.json"}
	DefaultPRPaths   = []string{"infracost-pr.json", "infracost/infracost-pr.json"}
)

// Config holds all application configuration.
type Config struct {
	// Input and output locations (file paths or s3:// URLs).
	DiffPath    string
	BasePath    string
	PRPath      string
	CommentPath string

	// Comment content.
	Author         string
	MentionHandles string
	MentionAuthor  bool
	MentionList    bool
	Title          string
	Currency       string
	CurrencyFlag   string
	Marker         string

	LogLevel    string
	OTelEnabled bool

	// S3 access for s3:// locations.
	AWSRegion  string
	AWSProfile string
	S3RoleARN  string
	S3Endpoint string

	// API server settings.
	APIPort      string
	CORSOrigins  []string
	OIDCIssuer   string
	OIDCAudience string
	APIRateLimit float64
}

// LoadFromEnv reads configuration from environment variables with sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		DiffPath:       os.Getenv("INFRACOST_OUT_PATH"),
		BasePath:       os.Getenv("INFRACOST_BASE_PATH"),
		PRPath:         os.Getenv("INFRACOST_PR_PATH"),
		CommentPath:    os.Getenv("INFRACOST_COMMENT_PATH"),
		Author:         os.Getenv("PR_AUTHOR"),
		MentionHandles: os.Getenv("MENTION_HANDLES"),
		Title:          envOr("COMMENT_TITLE", report.DefaultTitle),
		Currency:       strings.ToUpper(os.Getenv("CURRENCY")),
		CurrencyFlag:   os.Getenv("CURRENCY_FLAG"),
		Marker:         envOr("COMMENT_MARKER", report.DefaultMarker),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		AWSRegion:      envOr("AWS_REGION", "us-east-1"),
		AWSProfile:     os.Getenv("AWS_PROFILE"),
		S3RoleARN:      os.Getenv("INFRACOST_S3_ROLE_ARN"),
		S3Endpoint:     os.Getenv("INFRACOST_S3_ENDPOINT"),
		APIPort:        envOr("INFRACOST_API_PORT", "8080"),
		CORSOrigins:    parseCORSOrigins(os.Getenv("INFRACOST_CORS_ORIGINS")),
		OIDCIssuer:     os.Getenv("OIDC_ISSUER"),
		OIDCAudience:   os.Getenv("OIDC_AUDIENCE"),
	}

	var err error
	if cfg.MentionAuthor, err = envBool("MENTION_AUTHOR", true); err != nil {
		return Config{}, err
	}
	if cfg.MentionList, err = envBool("MENTION_LIST", false); err != nil {
		return Config{}, err
	}
	if cfg.OTelEnabled, err = envBool("OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}

	cfg.APIRateLimit = 5
	if raw := os.Getenv("INFRACOST_API_RPS"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return Config{}, fmt.Errorf("config: invalid INFRACOST_API_RPS %q (must be a positive number)", raw)
		}
		cfg.APIRateLimit = v
	}

	if strings.TrimSpace(cfg.Marker) == "" {
		return Config{}, fmt.Errorf("config: COMMENT_MARKER must not be blank")
	}
	if (cfg.OIDCIssuer == "") != (cfg.OIDCAudience == "") {
		return Config{}, fmt.Errorf("config: OIDC_ISSUER and OIDC_AUDIENCE must be set together")
	}

	return cfg, nil
}

// OIDCEnabled reports whether bearer-token authentication is configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCAudience != ""
}

// ReportOptions maps the comment settings onto renderer options.
func (c Config) ReportOptions() report.Options {
	return report.Options{
		Author:         c.Author,
		MentionHandles: c.MentionHandles,
		MentionAuthor:  c.MentionAuthor,
		MentionList:    c.MentionList,
		Title:          c.Title,
		Marker:         c.Marker,
	}
}

// S3 returns the S3 access settings.
func (c Config) S3() storage.S3Config {
	return storage.S3Config{
		Region:   c.AWSRegion,
		Profile:  c.AWSProfile,
		RoleARN:  c.S3RoleARN,
		Endpoint: c.S3Endpoint,
	}
}

// DiffCandidates lists where to look for the diff document: explicit, then
// environment, then conventional defaults.
func (c Config) DiffCandidates(explicit string) []storage.Location {
	return candidates(explicit, c.DiffPath, DefaultDiffPaths)
}

// BaseCandidates lists where to look for the base breakdown.
func (c Config) BaseCandidates(explicit string) []storage.Location {
	return candidates(explicit, c.BasePath, DefaultBasePaths)
}

// PRCandidates lists where to look for the pull request breakdown.
func (c Config) PRCandidates(explicit string) []storage.Location {
	return candidates(explicit, c.PRPath, DefaultPRPaths)
}

// Output returns the explicit output location, else the environment one, else zero
// (meaning: derive from the first located input).
func (c Config) Output(explicit string) storage.Location {
	if explicit != "" {
		return storage.ParseLocation(explicit)
	}
	return storage.ParseLocation(c.CommentPath)
}

func candidates(explicit, env string, defaults []string) []storage.Location {
	raws := append([]string{explicit, env}, defaults...)
	return storage.ParseLocations(raws...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q (must be true or false)", key, raw)
	}
	return v, nil
}

func parseCORSOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
