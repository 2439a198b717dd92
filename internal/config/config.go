// Package config loads the uploader's settings from environment variables.
// Every field is described by struct tags: env (primary name), envAlt
// (fallback name), default and required.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all uploader configuration.
type Config struct {
	PIM      PIMConfig
	Catalog  CatalogConfig
	Input    InputConfig
	Download DownloadConfig
	Logging  LoggingConfig
}

// PIMConfig holds the PIM REST API connection settings.
type PIMConfig struct {
	BaseURL      string `env:"AKENEO_BASE_URL" required:"true"`
	ClientID     string `env:"AKENEO_CLIENT_ID" required:"true"`
	ClientSecret string `env:"AKENEO_SECRET" envAlt:"AKENEO_CLIENT_SECRET" required:"true"`
	Username     string `env:"AKENEO_USERNAME" required:"true"`
	Password     string `env:"AKENEO_PASSWORD" required:"true"`

	// RequestTimeout bounds a single API call (default: 60s)
	RequestTimeout time.Duration `env:"PIM_REQUEST_TIMEOUT" default:"60s"`

	// RequestsPerSecond throttles API calls; 0 disables throttling
	RequestsPerSecond float64 `env:"PIM_REQUEST_RPS" default:"0"`
}

// CatalogConfig names the PIM asset family and product attributes that
// receive the images.
type CatalogConfig struct {
	AssetFamily    string `env:"ASSET_FAMILY_CODE" default:"product_images"`
	MainAttribute  string `env:"MAIN_IMAGE_ATTRIBUTE" default:"product_image_main"`
	OtherAttribute string `env:"OTHER_IMAGES_ATTRIBUTE" default:"product_images"`
	LabelLocale    string `env:"ASSET_LABEL_LOCALE" default:"de_DE"`
}

// InputConfig locates the product image export.
type InputConfig struct {
	Path string `env:"INPUT_CSV_PATH" default:"export_assets_to_akeneo.csv"`
}

// DownloadConfig controls how image bytes are fetched from their source.
type DownloadConfig struct {
	Timeout time.Duration `env:"DOWNLOAD_TIMEOUT" default:"20s"`
	Retries int           `env:"DOWNLOAD_RETRIES" default:"2"`

	// S3Enabled allows s3://bucket/key image URLs
	S3Enabled  bool   `env:"IMAGE_S3_ENABLED" default:"false"`
	S3Endpoint string `env:"AWS_S3_ENDPOINT"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is console or json (default: console)
	Format string `env:"LOG_FORMAT" default:"console"`
}

// Validate checks value ranges that the loader cannot express in tags.
func (c *Config) Validate() error {
	var errs []string

	if !strings.HasPrefix(c.PIM.BaseURL, "http://") && !strings.HasPrefix(c.PIM.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("AKENEO_BASE_URL (%q) must be an http(s) URL", c.PIM.BaseURL))
	}
	if c.PIM.RequestTimeout <= 0 {
		errs = append(errs, "PIM_REQUEST_TIMEOUT must be positive")
	}
	if c.PIM.RequestsPerSecond < 0 {
		errs = append(errs, "PIM_REQUEST_RPS must be non-negative")
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, "DOWNLOAD_TIMEOUT must be positive")
	}
	if c.Download.Retries < 0 {
		errs = append(errs, "DOWNLOAD_RETRIES must be non-negative")
	}
	if c.Catalog.AssetFamily == "" || c.Catalog.MainAttribute == "" || c.Catalog.OtherAttribute == "" {
		errs = append(errs, "ASSET_FAMILY_CODE, MAIN_IMAGE_ATTRIBUTE and OTHER_IMAGES_ATTRIBUTE must not be empty")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: console, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a representation safe for logging; credentials are masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{PIM: {BaseURL: %q, ClientID: %q, Secret: [MASKED], Username: %q, Password: [MASKED]}, "+
			"Catalog: {Family: %q, Main: %q, Other: %q, Locale: %q}, Input: %q, "+
			"Download: {Timeout: %s, Retries: %d, S3: %v}}",
		c.PIM.BaseURL, c.PIM.ClientID, c.PIM.Username,
		c.Catalog.AssetFamily, c.Catalog.MainAttribute, c.Catalog.OtherAttribute, c.Catalog.LabelLocale,
		c.Input.Path, c.Download.Timeout, c.Download.Retries, c.Download.S3Enabled,
	)
}
