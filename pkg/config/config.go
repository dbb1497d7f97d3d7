package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/admin-in-go"
	ConfigFileName    = "admin.yml"
	DefaultEnvFile    = ".env"

	DefaultTokenExpirationMinutes = 60
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "text"
)

// ErrMissingSetting is wrapped by every error about an absent required value.
var ErrMissingSetting = errors.New("required setting missing")

// Config holds the admin settings. It is never mutated after Load returns.
type Config struct {
	// SecretKey signs bearer tokens
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// TokenExpirationMinutes is the bearer token lifetime
	TokenExpirationMinutes int `yaml:"token_expiration_minutes" json:"token_expiration_minutes"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is "text" or "json"
	LogFormat string `yaml:"log_format" json:"log_format"`

	// BasePath is the URL prefix the admin is mounted under
	BasePath string `yaml:"base_path" json:"base_path"`

	// CORSOrigins lists origins allowed to call the admin from a browser
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	sources        map[string]string
	configFilePath string
	envFilePath    string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// envConfig is the envdecode target. Empty strings mean "not set".
type envConfig struct {
	SecretKey              string      `env:"SECRET_KEY"`
	TokenExpirationMinutes optionalInt `env:"TOKEN_EXPIRATION_MINUTES"`
	DatabaseURL            string      `env:"DATABASE_URL"`
	LogLevel               string      `env:"ADMIN_LOG_LEVEL"`
	LogFormat              string      `env:"ADMIN_LOG_FORMAT"`
	BasePath               string      `env:"ADMIN_BASE_PATH"`
	CORSOrigins            string      `env:"ADMIN_CORS_ORIGINS"`
}

// optionalInt tells an explicit 0 apart from an unset variable.
type optionalInt struct {
	Set   bool
	Value int
}

// Decode implements envdecode.Decoder.
func (o *optionalInt) Decode(raw string) error {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	o.Set, o.Value = true, v
	return nil
}

func newDefault() *Config {
	return &Config{
		TokenExpirationMinutes: DefaultTokenExpirationMinutes,
		LogLevel:               DefaultLogLevel,
		LogFormat:              DefaultLogFormat,
		CORSOrigins:            []string{},
		sources:                make(map[string]string),
	}
}

// Load loads configuration from the config file, the dotenv file and the
// environment, in increasing order of precedence, and validates the result.
func Load() (*Config, error) {
	config := newDefault()
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ADMIN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.envFilePath = os.Getenv("ADMIN_ENV_FILE")
	if config.envFilePath == "" {
		config.envFilePath = DefaultEnvFile
	}
	dotenv, err := readDotenv(config.envFilePath)
	if err != nil {
		return nil, err
	}

	if err := config.applyEnvConfig(dotenv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// readDotenv loads the dotenv file into the process environment without
// overriding variables that are already set, and returns the keys it added.
func readDotenv(path string) (map[string]bool, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	added := make(map[string]bool, len(values))
	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, err
		}
		added[key] = true
	}
	return added, nil
}

func attributeNames() []string {
	return []string{
		"secret_key", "token_expiration_minutes", "database_url",
		"log_level", "log_format", "base_path", "cors_origins",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
		c.sources["secret_key"] = "file"
	}
	if file.TokenExpirationMinutes != 0 {
		c.TokenExpirationMinutes = file.TokenExpirationMinutes
		c.sources["token_expiration_minutes"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
		c.sources["log_format"] = "file"
	}
	if file.BasePath != "" {
		c.BasePath = file.BasePath
		c.sources["base_path"] = "file"
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
		c.sources["cors_origins"] = "file"
	}
}

func (c *Config) applyEnvConfig(dotenv map[string]bool) error {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	source := func(key string) string {
		if dotenv[key] {
			return "dotenv"
		}
		return "environment"
	}

	if env.SecretKey != "" {
		c.SecretKey = env.SecretKey
		c.sources["secret_key"] = source("SECRET_KEY")
	}
	if env.TokenExpirationMinutes.Set {
		c.TokenExpirationMinutes = env.TokenExpirationMinutes.Value
		c.sources["token_expiration_minutes"] = source("TOKEN_EXPIRATION_MINUTES")
	}
	if env.DatabaseURL != "" {
		c.DatabaseURL = env.DatabaseURL
		c.sources["database_url"] = source("DATABASE_URL")
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
		c.sources["log_level"] = source("ADMIN_LOG_LEVEL")
	}
	if env.LogFormat != "" {
		c.LogFormat = env.LogFormat
		c.sources["log_format"] = source("ADMIN_LOG_FORMAT")
	}
	if env.BasePath != "" {
		c.BasePath = env.BasePath
		c.sources["base_path"] = source("ADMIN_BASE_PATH")
	}
	if env.CORSOrigins != "" {
		c.CORSOrigins = splitAndTrim(env.CORSOrigins)
		c.sources["cors_origins"] = source("ADMIN_CORS_ORIGINS")
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: SECRET_KEY", ErrMissingSetting)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	if c.TokenExpirationMinutes <= 0 {
		return fmt.Errorf("invalid token_expiration_minutes value: %d", c.TokenExpirationMinutes)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("invalid base_path value: %s (must start with /)", c.BasePath)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format value: %s", c.LogFormat)
	}
	return nil
}

// TokenTTL returns the token lifetime as a duration
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpirationMinutes) * time.Minute
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are masked.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "secret_key", Value: mask(c.SecretKey), Source: c.Source("secret_key")},
		{Name: "token_expiration_minutes", Value: strconv.Itoa(c.TokenExpirationMinutes), Source: c.Source("token_expiration_minutes")},
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "base_path", Value: c.BasePath, Source: c.Source("base_path")},
		{Name: "cors_origins", Value: strings.Join(c.CORSOrigins, ","), Source: c.Source("cors_origins")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("Env file:    %s\n\n", c.envFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"env_file":    c.envFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

var dsnPassword = regexp.MustCompile(`(?i)\bpassword\s*=\s*('(?:[^'\\]|\\.)*'|\S+)`)

// redactURL masks the password of a postgres:// URL or of a keyword/value DSN.
func redactURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return dsnPassword.ReplaceAllString(raw, "password=xxxxx")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return dsnPassword.ReplaceAllString(raw, "password=xxxxx")
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
	}
	if q := u.Query(); q.Has("password") {
		q.Set("password", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
