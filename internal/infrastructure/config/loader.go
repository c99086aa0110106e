// Package config loads the static YAML configuration. The config is read
// once at process start; there is no hot-reload contract.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aida-go/assets"
	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.aida/config.yaml (overridable
// via AIDA_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is seeded from the
// embedded defaults, then written back so the user has something to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg = hydrateDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Path reports where the configuration is read from.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("AIDA_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".aida", "config.yaml")
}

// Validate rejects configurations the pipeline cannot run with.
func Validate(cfg domain.Config) error {
	if len(cfg.Providers) == 0 {
		return errors.New("config: at least one provider must be defined")
	}
	if cfg.Gate.ConfidenceMid >= cfg.Gate.ConfidenceHigh {
		return fmt.Errorf("config: gate.confidence_mid (%v) must be below gate.confidence_high (%v)",
			cfg.Gate.ConfidenceMid, cfg.Gate.ConfidenceHigh)
	}
	if cfg.Context.WindowSize <= 0 {
		return errors.New("config: context.window_size must be positive")
	}
	for _, def := range cfg.Providers {
		if def.Name == "" {
			return errors.New("config: every provider needs a name")
		}
		// Offline providers run locally and carry no endpoint.
		if def.Endpoint == "" && !strings.Contains(def.Name, "offline") && !strings.Contains(def.Name, "heuristic") {
			return fmt.Errorf("config: provider %q needs an endpoint", def.Name)
		}
	}
	return nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Pipeline.ProviderTimeoutMS == 0 {
		cfg.Pipeline.ProviderTimeoutMS = 8000
	}
	if cfg.Pipeline.CommandLikelihoodThreshold == 0 {
		cfg.Pipeline.CommandLikelihoodThreshold = 0.6
	}
	if cfg.Gate.ConfidenceHigh == 0 {
		cfg.Gate.ConfidenceHigh = 0.8
	}
	if cfg.Gate.ConfidenceMid == 0 {
		cfg.Gate.ConfidenceMid = 0.5
	}
	if cfg.Context.WindowSize == 0 {
		cfg.Context.WindowSize = 10
	}
	if len(cfg.Selection.DefaultProviderOrder) == 0 {
		for _, def := range cfg.Providers {
			cfg.Selection.DefaultProviderOrder = append(cfg.Selection.DefaultProviderOrder, def.Name)
		}
	}
	if cfg.Memory.Database == "" {
		cfg.Memory.Database = filepath.Join(userHomeDir(), ".aida", "memory", "aida.db")
	} else {
		cfg.Memory.Database = expandPath(cfg.Memory.Database)
	}
	if cfg.Intent.RulesFile != "" {
		cfg.Intent.RulesFile = expandPath(cfg.Intent.RulesFile)
	}
	return cfg
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
