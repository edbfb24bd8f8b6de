package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quaddeck.yaml")
	contents := "sample_rate: 44100\nbuffer_size: 256\nloader_workers: 2\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.BufferSize != 256 {
		t.Fatalf("BufferSize = %d, want 256", cfg.BufferSize)
	}
	if cfg.LoaderWorkers != 2 {
		t.Fatalf("LoaderWorkers = %d, want 2", cfg.LoaderWorkers)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/quaddeck.yaml"); err == nil {
		t.Fatal("expected an error reading a missing config file")
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := []Config{
		{SampleRate: 0, BufferSize: 512, LoaderWorkers: 1},
		{SampleRate: 48000, BufferSize: 0, LoaderWorkers: 1},
		{SampleRate: 48000, BufferSize: 99999, LoaderWorkers: 1},
		{SampleRate: 48000, BufferSize: 512, LoaderWorkers: 0},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected Validate() error for %+v", i, c)
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate() on defaults: %v", err)
	}
}
