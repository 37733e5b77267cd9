package main

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// configPrefix keeps our knobs out of the CGI variable namespace.
const configPrefix = "CGIREPORT"

const (
	variantReport    = "report"
	variantGet       = "get"
	variantPost      = "post"
	variantDirectory = "directory"
)

const (
	formatAuto = ""
	formatHTML = "html"
	formatJSON = "json"
)

// Config is read from CGIREPORT_* variables. No field may carry an `envconfig`
// tag: envconfig falls back to the bare tag name when the prefixed key is
// missing, and names like CONTENT_TYPE belong to the request.
type Config struct {
	Variant      string `split_words:"true"`
	Format       string `split_words:"true"`
	ResponseType string `split_words:"true" default:"text/html"`
	Placeholder  string `split_words:"true" default:"N/A"`
	ProbeFile    string `split_words:"true" default:"test.py"`
	LogLevel     string `split_words:"true" default:"info"`
	LogFormat    string `split_words:"true" default:"text"`
}

func defaultConfig() Config {
	return Config{
		ResponseType: "text/html",
		Placeholder:  "N/A",
		ProbeFile:    "test.py",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// loadConfig never fails the request: on a bad value it returns the defaults
// alongside the error so the caller can log it and carry on.
func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(configPrefix, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("reading %s_* settings: %w", configPrefix, err)
	}
	if err := cfg.validate(); err != nil {
		return defaultConfig(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Variant {
	case "", variantReport, variantGet, variantPost, variantDirectory:
	default:
		return fmt.Errorf("unknown %s_VARIANT %q", configPrefix, c.Variant)
	}
	switch c.Format {
	case formatAuto, formatHTML, formatJSON:
	default:
		return fmt.Errorf("unknown %s_FORMAT %q", configPrefix, c.Format)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown %s_LOG_FORMAT %q", configPrefix, c.LogFormat)
	}
	mt, _, err := mime.ParseMediaType(c.ResponseType)
	if err != nil {
		return fmt.Errorf("bad %s_RESPONSE_TYPE %q: %w", configPrefix, c.ResponseType, err)
	}
	// the configured type is what the HTML pages go out as
	if mt != "text/html" {
		return fmt.Errorf("bad %s_RESPONSE_TYPE %q: want text/html", configPrefix, c.ResponseType)
	}
	return nil
}

// resolveVariant picks the page to render: explicit config first, then the
// name we were invoked as (so one binary can be symlinked as test_get.cgi etc).
func (c Config) resolveVariant(argv0 string) string {
	if c.Variant != "" {
		return c.Variant
	}
	name := filepath.Base(argv0)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	switch name {
	case "test_get", variantGet:
		return variantGet
	case "test_post", variantPost:
		return variantPost
	case "directory_test", variantDirectory:
		return variantDirectory
	}
	return variantReport
}
