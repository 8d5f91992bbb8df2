package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Playground playgroundConfig `toml:"playground"`
	Guide      guideConfig      `toml:"guide"`
}

type playgroundConfig struct {
	StepBudget int    `toml:"step_budget"`
	Language   string `toml:"language"`
}

type guideConfig struct {
	Dir  string `toml:"dir"`
	Jobs int    `toml:"jobs"`
}

// findSandpitToml ищет sandpit.toml вверх от стартовой директории.
func findSandpitToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sandpit.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest загружает манифест, если он есть. Отсутствие манифеста
// не ошибка: все настройки имеют рабочие значения по умолчанию.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findSandpitToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// effectiveBudget объединяет флаг и манифест: флаг сильнее.
func effectiveBudget(flagValue int, manifest *projectManifest) int {
	if flagValue != 0 {
		return flagValue
	}
	if manifest != nil {
		return manifest.Config.Playground.StepBudget
	}
	return 0
}
