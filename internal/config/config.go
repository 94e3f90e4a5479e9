package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"redshift-backend/internal/artifact"
	"redshift-backend/internal/schema"

	"github.com/joho/godotenv"
)

// Server configuration for the HTTP listener
type Server struct {
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
	MaxUploadBytes int64    `json:"max_upload_bytes"`
}

// Artifacts says where the fitted scaler and model live
type Artifacts struct {
	Backend    string                    `json:"backend"` // "file", "postgres", "mysql"
	Dir        string                    `json:"dir"`
	ScalerName string                    `json:"scaler_name"`
	ModelName  string                    `json:"model_name"`
	Database   artifact.DataSourceConfig `json:"database"`
}

// Schema lists the feature columns the model was fitted on
type Schema struct {
	AllColumns         []string `json:"all_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// Auth configures the upstream identity check
type Auth struct {
	Header   string `json:"header"`
	Disabled bool   `json:"disabled"`
}

// Config is the application configuration
type Config struct {
	Server    Server    `json:"server"`
	Artifacts Artifacts `json:"artifacts"`
	Schema    Schema    `json:"schema"`
	Auth      Auth      `json:"auth"`
}

// Defaults
const (
	DefaultPort           = 8001
	DefaultMaxUploadBytes = 200 << 20
	DefaultArtifactDir    = "./artifacts"
	DefaultScalerName     = "scaler_model"
	DefaultModelName      = "random_forest_regression"
	DefaultAuthHeader     = "X-Forwarded-User"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from an optional JSON file, then applies
// environment overrides and defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := json.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(c *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if maxBytes := os.Getenv("MAX_UPLOAD_BYTES"); maxBytes != "" {
		n, err := strconv.ParseInt(maxBytes, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", maxBytes, err)
		}
		c.Server.MaxUploadBytes = n
	}

	if backend := os.Getenv("ARTIFACT_BACKEND"); backend != "" {
		c.Artifacts.Backend = backend
	}
	if dir := os.Getenv("ARTIFACT_DIR"); dir != "" {
		c.Artifacts.Dir = dir
	}
	if name := os.Getenv("SCALER_ARTIFACT"); name != "" {
		c.Artifacts.ScalerName = name
	}
	if name := os.Getenv("MODEL_ARTIFACT"); name != "" {
		c.Artifacts.ModelName = name
	}

	db := &c.Artifacts.Database
	if host := os.Getenv("ARTIFACT_DB_HOST"); host != "" {
		db.Host = host
	}
	if port := os.Getenv("ARTIFACT_DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid ARTIFACT_DB_PORT %q: %w", port, err)
		}
		db.Port = p
	}
	if user := os.Getenv("ARTIFACT_DB_USER"); user != "" {
		db.User = user
	}
	if password := os.Getenv("ARTIFACT_DB_PASSWORD"); password != "" {
		db.Password = password
	}
	if name := os.Getenv("ARTIFACT_DB_NAME"); name != "" {
		db.DBName = name
	}
	if sslMode := os.Getenv("ARTIFACT_DB_SSLMODE"); sslMode != "" {
		db.SSLMode = sslMode
	}
	if table := os.Getenv("ARTIFACT_DB_TABLE"); table != "" {
		db.Table = table
	}

	if header := os.Getenv("AUTH_HEADER"); header != "" {
		c.Auth.Header = header
	}
	if disabled := os.Getenv("AUTH_DISABLED"); disabled != "" {
		d, err := strconv.ParseBool(disabled)
		if err != nil {
			return fmt.Errorf("invalid AUTH_DISABLED %q: %w", disabled, err)
		}
		c.Auth.Disabled = d
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if c.Artifacts.Backend == "" {
		c.Artifacts.Backend = "file"
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = DefaultArtifactDir
	}
	if c.Artifacts.ScalerName == "" {
		c.Artifacts.ScalerName = DefaultScalerName
	}
	if c.Artifacts.ModelName == "" {
		c.Artifacts.ModelName = DefaultModelName
	}
	if c.Artifacts.Backend != "file" {
		c.Artifacts.Database.Type = c.Artifacts.Backend
		if c.Artifacts.Database.Port == 0 {
			switch c.Artifacts.Backend {
			case "postgres":
				c.Artifacts.Database.Port = 5432
			case "mysql":
				c.Artifacts.Database.Port = 3306
			}
		}
		if c.Artifacts.Database.Table == "" {
			c.Artifacts.Database.Table = artifact.DefaultTable
		}
	}

	if len(c.Schema.AllColumns) == 0 {
		c.Schema.AllColumns = append([]string(nil), schema.DefaultAllColumns...)
		if c.Schema.CategoricalColumns == nil {
			c.Schema.CategoricalColumns = append([]string(nil), schema.DefaultCategoricalColumns...)
		}
	}

	if c.Auth.Header == "" {
		c.Auth.Header = DefaultAuthHeader
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return errors.New("max upload bytes must not be negative")
	}
	switch c.Artifacts.Backend {
	case "file", "postgres", "mysql":
	default:
		return fmt.Errorf("unknown artifact backend %q", c.Artifacts.Backend)
	}
	if c.Artifacts.Backend != "file" && c.Artifacts.Database.Host == "" {
		return fmt.Errorf("artifact backend %s needs a database host", c.Artifacts.Backend)
	}
	if _, err := c.FeatureSchema(); err != nil {
		return err
	}
	return nil
}

// FeatureSchema builds the schema described by the config.
func (c *Config) FeatureSchema() (*schema.FeatureSchema, error) {
	return schema.New(c.Schema.AllColumns, c.Schema.CategoricalColumns)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
