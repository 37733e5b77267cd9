package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("CGIREPORT_VARIANT", "post")
		t.Setenv("CGIREPORT_FORMAT", "json")
		t.Setenv("CGIREPORT_RESPONSE_TYPE", "text/html; charset=utf-8")
		t.Setenv("CGIREPORT_PLACEHOLDER", "-")
		t.Setenv("CGIREPORT_PROBE_FILE", "index.html")
		t.Setenv("CGIREPORT_LOG_LEVEL", "debug")
		t.Setenv("CGIREPORT_LOG_FORMAT", "json")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, Config{
			Variant:      "post",
			Format:       "json",
			ResponseType: "text/html; charset=utf-8",
			Placeholder:  "-",
			ProbeFile:    "index.html",
			LogLevel:     "debug",
			LogFormat:    "json",
		}, cfg)
	})

	t.Run("Request variables do not leak in", func(t *testing.T) {
		t.Setenv("CONTENT_TYPE", "application/x-www-form-urlencoded")
		t.Setenv("RESPONSE_TYPE", "application/octet-stream")
		t.Setenv("VARIANT", "directory")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "text/html", cfg.ResponseType)
		assert.Equal(t, "", cfg.Variant)
	})

	for name, kv := range map[string][2]string{
		"Unknown variant":     {"CGIREPORT_VARIANT", "nope"},
		"Unknown format":      {"CGIREPORT_FORMAT", "xml"},
		"Unknown log format":  {"CGIREPORT_LOG_FORMAT", "logfmt"},
		"Bad response type":   {"CGIREPORT_RESPONSE_TYPE", "html"},
		"JSON response type":  {"CGIREPORT_RESPONSE_TYPE", "application/json"},
		"Plain response type": {"CGIREPORT_RESPONSE_TYPE", "text/plain; charset=utf-8"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			cfg, err := loadConfig()
			require.Error(t, err)
			assert.Equal(t, defaultConfig(), cfg)
		})
	}
}

func TestResolveVariant(t *testing.T) {
	for _, tc := range []struct {
		configured string
		argv0      string
		want       string
	}{
		{"", "/usr/lib/cgi-bin/test.cgi", variantReport},
		{"", "/usr/lib/cgi-bin/test_get.cgi", variantGet},
		{"", "test_post", variantPost},
		{"", "./directory_test.py", variantDirectory},
		{"", "/srv/www/get", variantGet},
		{"", "cgi-envreport", variantReport},
		{variantDirectory, "/usr/lib/cgi-bin/test_get.cgi", variantDirectory},
	} {
		t.Run(tc.argv0, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Variant = tc.configured
			assert.Equal(t, tc.want, cfg.resolveVariant(tc.argv0))
		})
	}
}
