// Package config provides configuration management for the admin.
//
// Settings are read once at process start by Load and returned as an
// immutable *Config that the caller passes to every component that needs it.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing order of precedence:
//
//   - Built-in defaults
//   - The YAML file admin.yml in ADMIN_CONFIG_PATH (optional)
//   - A dotenv file, .env by default or ADMIN_ENV_FILE (optional)
//   - Environment variables
//
// # Key Configuration Options
//
//   - SECRET_KEY: Token signing secret (required)
//   - DATABASE_URL: Database connection (required)
//   - TOKEN_EXPIRATION_MINUTES: Token lifetime, default 60
//   - ADMIN_LOG_LEVEL: Logging verbosity
//   - ADMIN_BASE_PATH: URL prefix the admin is mounted under
//
// Load fails with an error wrapping ErrMissingSetting when a required value
// is absent; the process is expected to abort.
package config
