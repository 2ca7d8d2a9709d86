package torchext

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := func() BuildConfig {
		cfg := DefaultConfig()
		cfg.ProjectRoot = "/src/torchrl"
		return cfg
	}

	testCases := []struct {
		name    string
		mutate  func(*BuildConfig)
		wantErr bool
	}{
		{"defaults with project root", func(c *BuildConfig) {}, false},
		{"missing target name", func(c *BuildConfig) { c.TargetName = "" }, true},
		{"no sources", func(c *BuildConfig) { c.Sources = nil }, true},
		{"empty source entry", func(c *BuildConfig) { c.Sources = []string{""} }, true},
		{"missing project root", func(c *BuildConfig) { c.ProjectRoot = "" }, true},
		{"negative probe timeout", func(c *BuildConfig) { c.ProbeTimeout = -time.Second }, true},
		{"zero probe timeout allowed", func(c *BuildConfig) { c.ProbeTimeout = 0 }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected valid config, got error: %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Enabled {
		t.Error("extension build must default to disabled")
	}
	if cfg.TargetName != "_torchrl" {
		t.Errorf("expected default target _torchrl, got %s", cfg.TargetName)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "torchrl/csrc/pybind.cpp" {
		t.Errorf("unexpected default sources: %v", cfg.Sources)
	}
	if !cfg.VerifyRuntimeBinding {
		t.Error("runtime binding verification must default on")
	}
}
