package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from defaults, config files, and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.PageLimit = DefaultPageLimit
	cfg.DetailWorkers = DefaultDetailWorkers
	cfg.TasksCSV = DefaultTasksCSV
	cfg.HabitsCSV = DefaultHabitsCSV
	cfg.HabitCutoff = DefaultHabitCutoff
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// findUserConfigFile returns the user-level config path, or "" if absent.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".taskdash", "taskdash.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// findProjectConfigFile returns the project-level config path, or "" if
// absent. taskdash.toml is preferred over .taskdash.toml.
func findProjectConfigFile() string {
	for _, name := range []string{"taskdash.toml", ".taskdash.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// finalize computes derived values and normalizes paths.
func finalize(cfg *Config) error {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.TasksCSV = resolvePath(cfg.ProjectRoot, cfg.TasksCSV)
	cfg.HabitsCSV = resolvePath(cfg.ProjectRoot, cfg.HabitsCSV)
	if cfg.Snapshot != "" {
		cfg.Snapshot = resolvePath(cfg.ProjectRoot, cfg.Snapshot)
	}
	return nil
}

// resolvePath expands a leading ~ and anchors relative paths at root.
func resolvePath(root, p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}
