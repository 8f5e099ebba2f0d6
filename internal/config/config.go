/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"stageview/internal/history"
	applog "stageview/internal/log"
	"stageview/internal/viewport"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables prefixed STAGEVIEW_ are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown keys are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version" ignored:"true"`
	Scene         string         `yaml:"scene"`
	Viewport      ViewportConfig `yaml:"viewport" envconfig:"viewport"`
	Logging       LoggingConfig  `yaml:"logging" envconfig:"log"`
	Trace         TraceConfig    `yaml:"trace" envconfig:"trace"`
}

// ViewportConfig tunes the stage controller.
type ViewportConfig struct {
	MinScale         float64 `yaml:"min_scale" split_words:"true"`
	MaxScale         float64 `yaml:"max_scale" split_words:"true"`
	PinchMinScale    float64 `yaml:"pinch_min_scale" split_words:"true"`
	PinchMaxScale    float64 `yaml:"pinch_max_scale" split_words:"true"`
	ScaleBy          float64 `yaml:"scale_by" split_words:"true"`
	FitThreshold     float64 `yaml:"fit_threshold" split_words:"true"`
	ScrollbarWidth   float64 `yaml:"scrollbar_width" split_words:"true"`
	FadeStep         float64 `yaml:"fade_step" split_words:"true"`
	ControlsMinScale float64 `yaml:"controls_min_scale" split_words:"true"`
	HistoryDepth     int     `yaml:"history_depth" split_words:"true"`
	// HistoryCoalesce merges transforms committed closer together than this.
	HistoryCoalesce time.Duration `yaml:"history_coalesce" split_words:"true"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	Format     string `yaml:"format" split_words:"true"`
	Source     bool   `yaml:"source" split_words:"true"`
	File       string `yaml:"file" split_words:"true"`
	MaxSizeMB  int    `yaml:"max_size_mb" split_words:"true"`
	MaxBackups int    `yaml:"max_backups" split_words:"true"`
}

// TraceConfig controls gesture recording. An empty Path disables it.
type TraceConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix is the prefix of all override variables.
const EnvPrefix = "STAGEVIEW"

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Viewport: ViewportConfig{
			MinScale:         viewport.DefaultLimits.Min,
			MaxScale:         viewport.DefaultLimits.Max,
			PinchMinScale:    viewport.DefaultPinchLimits.Min,
			PinchMaxScale:    viewport.DefaultPinchLimits.Max,
			ScaleBy:          viewport.DefaultScaleBy,
			FitThreshold:     viewport.DefaultChangeThreshold,
			ScrollbarWidth:   10,
			FadeStep:         viewport.DefaultFadeStep,
			ControlsMinScale: 1,
			HistoryDepth:     64,
			HistoryCoalesce:  250 * time.Millisecond,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "StageView")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "StageView")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "stageview")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "stageview")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides and validates the result.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// keys absent from the file keep their defaults
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

// ApplyEnv overlays STAGEVIEW_* variables onto cfg. Unset variables leave
// fields untouched. Leaf fields carry no envconfig tag, so unprefixed
// variables such as PATH or LEVEL are never consulted.
func ApplyEnv(cfg *AppConfig) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	return nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func normalize(cfg *AppConfig) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Scene = strings.TrimSpace(cfg.Scene)
}

// Validate rejects settings the controller cannot honor.
func (c AppConfig) Validate() error {
	v := c.Viewport
	if !(viewport.Limits{Min: v.MinScale, Max: v.MaxScale}).Valid() {
		return fmt.Errorf("%w: scale limits [%v, %v]", ErrInvalid, v.MinScale, v.MaxScale)
	}
	if !(viewport.Limits{Min: v.PinchMinScale, Max: v.PinchMaxScale}).Valid() {
		return fmt.Errorf("%w: pinch limits [%v, %v]", ErrInvalid, v.PinchMinScale, v.PinchMaxScale)
	}
	if !(v.ScaleBy > 1) {
		return fmt.Errorf("%w: scale_by %v must be greater than 1", ErrInvalid, v.ScaleBy)
	}
	if v.FitThreshold < 0 {
		return fmt.Errorf("%w: fit_threshold %v is negative", ErrInvalid, v.FitThreshold)
	}
	if !(v.ScrollbarWidth > 0) {
		return fmt.Errorf("%w: scrollbar_width %v", ErrInvalid, v.ScrollbarWidth)
	}
	if !(v.FadeStep > 0) || v.FadeStep > 1 {
		return fmt.Errorf("%w: fade_step %v not in (0, 1]", ErrInvalid, v.FadeStep)
	}
	if v.HistoryDepth < 0 || v.HistoryCoalesce < 0 {
		return fmt.Errorf("%w: negative history settings", ErrInvalid)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	l := c.Logging
	return applog.Options{
		Level:      l.Level,
		Format:     l.Format,
		AddSource:  l.Source,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// ViewportOptions builds controller options with a fresh history manager.
func (c AppConfig) ViewportOptions() viewport.Options {
	v := c.Viewport
	o := viewport.DefaultOptions()
	o.Limits = viewport.Limits{Min: v.MinScale, Max: v.MaxScale}
	o.PinchLimits = viewport.Limits{Min: v.PinchMinScale, Max: v.PinchMaxScale}
	o.ScaleBy = v.ScaleBy
	o.FitThreshold = v.FitThreshold
	o.ScrollbarWidth = v.ScrollbarWidth
	o.FadeStep = v.FadeStep
	o.ControlsMinScale = v.ControlsMinScale
	o.History = history.NewManager[viewport.Transform](history.Config{
		MaxDepth:    v.HistoryDepth,
		MinInterval: v.HistoryCoalesce,
	})
	return o
}

// EnvOverrideFor returns the env var name if the key is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	name := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer("logging.", "log_", ".", "_").Replace(key))
	if os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}
