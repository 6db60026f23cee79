package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/spr/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cfg.Apply(model.DefaultSettings())
	if got != model.DefaultSettings() {
		t.Fatalf("empty config changed settings: %+v", got)
	}
}

func TestLoadConfigApply(t *testing.T) {
	path := writeConfig(t, `
[reader]
wpm = 450
orp-mode = "long"
warmup = false
sentence-pause = 3.0
context = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := model.DefaultSettings()
	base.SkipSize = 25
	got := cfg.Apply(base)
	if got.WPM != 450 || got.ORPMode != model.OrpLong || got.WarmupEnabled {
		t.Fatalf("unexpected settings %+v", got)
	}
	if got.SentencePauseMultiplier != 3.0 || !got.ContextEnabled {
		t.Fatalf("unexpected settings %+v", got)
	}
	if got.SkipSize != 25 {
		t.Fatalf("unset key overwrote stored value: %d", got.SkipSize)
	}
}

func TestApplyClampsWPM(t *testing.T) {
	path := writeConfig(t, "[reader]\nwpm = 5000\nmax-wpm = 900\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cfg.Apply(model.DefaultSettings())
	if got.MaxWPM != 900 || got.WPM != 900 {
		t.Fatalf("expected wpm clamped to 900, got %+v", got)
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	path := writeConfig(t, "[reader]\norp-mode = \"huge\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for invalid orp-mode")
	}
}

func TestLoadConfigDecodeError(t *testing.T) {
	path := writeConfig(t, "[reader\nwpm = ")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "spr", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "spr", "spr.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestFromSettingsEncodesLoadableConfig(t *testing.T) {
	want := model.DefaultSettings()
	want.WPM = 420
	want.ORPMode = model.OrpShort
	want.ContextEnabled = true

	var buf bytes.Buffer
	if err := FromSettings(want).Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), "[reader]") || !strings.Contains(buf.String(), "orp-mode = \"short\"") {
		t.Fatalf("unexpected toml:\n%s", buf.String())
	}
	cfg, err := LoadConfig(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Apply(model.Settings{}); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
