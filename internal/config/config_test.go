package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROMPTNS_REPO", "")
	t.Setenv("PROMPTNS_LOG_LEVEL", "")
	t.Setenv("PROMPTNS_LOG_FILE", "")
	t.Setenv("PROMPTNS_DEBOUNCE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Repo != "" || cfg.LogFile != "" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.Debounce != DefaultDebounce {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PROMPTNS_REPO", "/src/project")
	t.Setenv("PROMPTNS_LOG_LEVEL", "debug")
	t.Setenv("PROMPTNS_LOG_FILE", "/tmp/promptns.log")
	t.Setenv("PROMPTNS_DEBOUNCE", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Repo != "/src/project" || cfg.LogFile != "/tmp/promptns.log" {
		t.Fatalf("paths not loaded: %+v", cfg)
	}
	if cfg.Debounce != time.Second {
		t.Fatalf("Debounce = %s", cfg.Debounce)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("Level() = %v, %v", level, err)
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("PROMPTNS_LOG_LEVEL", "chatty")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidate_NegativeDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debounce = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error")
	}
}
