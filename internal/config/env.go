package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// dotenvPath is the conventional location of the credential file, kept
// out of the repo root so it is easy to gitignore.
const dotenvPath = "private/.env"

// loadFromEnv overrides config from environment variables. A private/.env
// dotenv file, when present, is merged into the environment first without
// overriding variables that are already set.
func loadFromEnv(cfg *Config) {
	// Ignore a missing dotenv file; it is optional.
	_ = godotenv.Load(dotenvPath)

	if v := os.Getenv("TODOIST_API_KEY"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("TASKDASH_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageLimit = n
		}
	}
	if v := os.Getenv("TASKDASH_DETAIL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DetailWorkers = n
		}
	}
	if v := os.Getenv("TASKDASH_TASKS_CSV"); v != "" {
		cfg.TasksCSV = v
	}
	if v := os.Getenv("TASKDASH_HABITS_CSV"); v != "" {
		cfg.HabitsCSV = v
	}
	if v := os.Getenv("TASKDASH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDASH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
