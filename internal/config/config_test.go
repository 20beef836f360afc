package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DatabasePath == "" {
		t.Error("DatabasePath empty")
	}
	if cfg.FetchTimeout <= 0 {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.Strategy != "dom" && cfg.Strategy != "regex" {
		t.Errorf("Strategy = %q", cfg.Strategy)
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"duration string", "45s", 45 * time.Second},
		{"bare seconds", "10", 10 * time.Second},
		{"garbage falls back", "soon", 30 * time.Second},
		{"empty falls back", "", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getDuration("TEST_DURATION", 30*time.Second); got != tt.want {
				t.Errorf("getDuration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultSiteProfile(t *testing.T) {
	p := DefaultSiteProfile()

	if len(p.AllowedDomains) == 0 {
		t.Fatal("no allowed domains")
	}
	if p.MultimediaGlobal == "" || p.ConfigGlobal == "" {
		t.Error("structured-data global names missing")
	}
	if p.ImageLowResSegment == p.ImageHighResSegment {
		t.Error("image segments must differ for the rewrite to do anything")
	}
}
