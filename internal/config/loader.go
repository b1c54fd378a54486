package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables overriding file configuration.
const (
	EnvLockPolicy = "TASKBOARD_LOCK_POLICY"
	EnvLocale     = "TASKBOARD_LOCALE"
	EnvDataFile   = "TASKBOARD_DATA"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Files ending in .toml are parsed as TOML, everything else as JSON.
// Missing files are not errors; malformed files are.
func Load(globalPath, projectPath string) (*BoardConfig, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from conventional paths and applies environment overrides.
// Global: ~/.taskboard/config.toml or config.json
// Project: .taskboard/config.toml or config.json (relative to cwd)
func LoadDefault() (*BoardConfig, error) {
	globalDir, projectDir, err := DefaultDirs()
	if err != nil {
		return nil, err
	}

	cfg, err := Load(findConfigFile(globalDir), findConfigFile(projectDir))
	if err != nil {
		return nil, err
	}

	ApplyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, nil
}

// DefaultDirs returns the global and project configuration directories.
func DefaultDirs() (globalDir, projectDir string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".taskboard"), ".taskboard", nil
}

// ApplyEnv overrides cfg with any non-empty environment values.
func ApplyEnv(cfg *BoardConfig, getenv func(string) string) {
	cfg.merge(&BoardConfig{
		LockPolicy: strings.TrimSpace(getenv(EnvLockPolicy)),
		Locale:     strings.TrimSpace(getenv(EnvLocale)),
		DataFile:   strings.TrimSpace(getenv(EnvDataFile)),
	})
}

// findConfigFile prefers config.toml over config.json in dir.
// Returns the JSON path when neither exists so Load skips it.
func findConfigFile(dir string) string {
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(dir, "config.json")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// mergeConfigFile reads a config file and merges it into the base config.
// Missing files are silently skipped.
func mergeConfigFile(base *BoardConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded BoardConfig
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &loaded); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	base.merge(&loaded)
	return nil
}
