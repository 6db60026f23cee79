// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/spr/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Reader ReaderConfig `toml:"reader"`
}

// ReaderConfig maps reader settings. Unset keys leave the stored value alone.
type ReaderConfig struct {
	WPM            *int     `toml:"wpm"`
	MinWPM         *int     `toml:"min-wpm"`
	MaxWPM         *int     `toml:"max-wpm"`
	WPMStep        *int     `toml:"wpm-step"`
	Skip           *int     `toml:"skip"`
	ORP            *bool    `toml:"orp"`
	ORPMode        *string  `toml:"orp-mode"`
	PausePunct     *bool    `toml:"pause-punct"`
	SentencePause  *float64 `toml:"sentence-pause"`
	ClausePause    *float64 `toml:"clause-pause"`
	PauseParagraph *bool    `toml:"pause-paragraph"`
	ParagraphPause *float64 `toml:"paragraph-pause"`
	Warmup         *bool    `toml:"warmup"`
	Ghost          *bool    `toml:"ghost"`
	Progress       *bool    `toml:"progress"`
	Context        *bool    `toml:"context"`
}

// Template is written by `spr config` when no file exists yet.
const Template = `# spr configuration
# Values here override the settings saved by the reader.

[reader]
# wpm = 300
# min-wpm = 50
# max-wpm = 1200
# wpm-step = 10
# skip = 10
# orp = true
# orp-mode = "medium"   # short | medium | long
# pause-punct = true
# sentence-pause = 2.4
# clause-pause = 1.6
# pause-paragraph = true
# paragraph-pause = 2.5
# warmup = true
# ghost = true
# progress = true
# context = false
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Reader.ORPMode != nil && !model.OrpMode(*cfg.Reader.ORPMode).Valid() {
		return FileConfig{}, fmt.Errorf("invalid orp-mode %q", *cfg.Reader.ORPMode)
	}
	return cfg, nil
}

// Apply overlays the configured values on settings and normalizes the result.
func (c FileConfig) Apply(settings model.Settings) model.Settings {
	r := c.Reader
	setInt(&settings.MinWPM, r.MinWPM)
	setInt(&settings.MaxWPM, r.MaxWPM)
	setInt(&settings.WPM, r.WPM)
	setInt(&settings.WPMStep, r.WPMStep)
	setInt(&settings.SkipSize, r.Skip)
	setBool(&settings.ORPEnabled, r.ORP)
	if r.ORPMode != nil {
		settings.ORPMode = model.OrpMode(*r.ORPMode)
	}
	setBool(&settings.PauseOnPunctuation, r.PausePunct)
	setFloat(&settings.SentencePauseMultiplier, r.SentencePause)
	setFloat(&settings.ClausePauseMultiplier, r.ClausePause)
	setBool(&settings.PauseOnParagraph, r.PauseParagraph)
	setFloat(&settings.ParagraphPauseMultiplier, r.ParagraphPause)
	setBool(&settings.WarmupEnabled, r.Warmup)
	setBool(&settings.ShowGhostPreview, r.Ghost)
	setBool(&settings.ShowProgressBar, r.Progress)
	setBool(&settings.ContextEnabled, r.Context)
	return settings.Normalize()
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

// FromSettings returns a config holding every value of settings.
func FromSettings(s model.Settings) FileConfig {
	mode := string(s.ORPMode)
	return FileConfig{Reader: ReaderConfig{
		WPM:            &s.WPM,
		MinWPM:         &s.MinWPM,
		MaxWPM:         &s.MaxWPM,
		WPMStep:        &s.WPMStep,
		Skip:           &s.SkipSize,
		ORP:            &s.ORPEnabled,
		ORPMode:        &mode,
		PausePunct:     &s.PauseOnPunctuation,
		SentencePause:  &s.SentencePauseMultiplier,
		ClausePause:    &s.ClausePauseMultiplier,
		PauseParagraph: &s.PauseOnParagraph,
		ParagraphPause: &s.ParagraphPauseMultiplier,
		Warmup:         &s.WarmupEnabled,
		Ghost:          &s.ShowGhostPreview,
		Progress:       &s.ShowProgressBar,
		Context:        &s.ContextEnabled,
	}}
}

// Encode writes cfg as TOML.
func (c FileConfig) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
