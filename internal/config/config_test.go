package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"redshift-backend/internal/schema"
)

var envKeys = []string{
	"PORT", "ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES",
	"ARTIFACT_BACKEND", "ARTIFACT_DIR", "SCALER_ARTIFACT", "MODEL_ARTIFACT",
	"ARTIFACT_DB_HOST", "ARTIFACT_DB_PORT", "ARTIFACT_DB_USER", "ARTIFACT_DB_PASSWORD",
	"ARTIFACT_DB_NAME", "ARTIFACT_DB_SSLMODE", "ARTIFACT_DB_TABLE",
	"AUTH_HEADER", "AUTH_DISABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != DefaultPort || cfg.Server.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Artifacts.Backend != "file" || cfg.Artifacts.Dir != DefaultArtifactDir {
		t.Errorf("artifacts = %+v", cfg.Artifacts)
	}
	if cfg.Artifacts.ScalerName != "scaler_model" || cfg.Artifacts.ModelName != "random_forest_regression" {
		t.Errorf("artifact names = %q, %q", cfg.Artifacts.ScalerName, cfg.Artifacts.ModelName)
	}
	if !reflect.DeepEqual(cfg.Schema.AllColumns, schema.DefaultAllColumns) {
		t.Errorf("columns = %v", cfg.Schema.AllColumns)
	}
	if cfg.Auth.Header != DefaultAuthHeader || cfg.Auth.Disabled {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{
		"server": {"port": 9000},
		"artifacts": {"backend": "postgres", "database": {"host": "db", "dbname": "astro"}},
		"schema": {"all_columns": ["a", "b", "c"], "categorical_columns": ["b"]}
	}`)
	t.Setenv("PORT", "9100")
	t.Setenv("ARTIFACT_DB_USER", "reader")
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
	db := cfg.Artifacts.Database
	if db.Type != "postgres" || db.Port != 5432 || db.User != "reader" || db.Table != "model_artifacts" {
		t.Errorf("database = %+v", db)
	}
	if !cfg.Auth.Disabled {
		t.Error("auth should be disabled")
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}

	s, err := cfg.FeatureSchema()
	if err != nil {
		t.Fatalf("FeatureSchema failed: %v", err)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(s.ContinuousColumns(), want) {
		t.Errorf("continuous = %v", s.ContinuousColumns())
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad json", file: `{`},
		{name: "bad port", env: map[string]string{"PORT": "eighty"}},
		{name: "unknown backend", env: map[string]string{"ARTIFACT_BACKEND": "s3"}},
		{name: "db without host", env: map[string]string{"ARTIFACT_BACKEND": "mysql"}},
		{name: "bad auth flag", env: map[string]string{"AUTH_DISABLED": "maybe"}},
		{name: "bad schema", file: `{"schema": {"all_columns": ["a"], "categorical_columns": ["z"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "config.json", tt.file)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "REDSHIFT_TEST_ENV_VALUE"
	t.Setenv(key, "")
	os.Unsetenv(key)

	path := writeFile(t, ".env", key+"=from-file\n")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
