// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
//  1. Built-in defaults
//  2. User config file (~/.taskdash/taskdash.toml)
//  3. Project config file (taskdash.toml or .taskdash.toml in the working
//     directory)
//  4. Environment variables (TODOIST_API_KEY, TASKDASH_*), including a
//     private/.env dotenv file when present
//
// CLI flags are applied on top by the cmd package, so flags take precedence.
// The API token is never hardcoded and never written back to disk.
package config
