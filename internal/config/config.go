package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	BackendURL  string `json:"backend_url"`
	SessionPath string `json:"session_path"`
	ServePort   int    `json:"serve_port"`
	ServeDBPath string `json:"serve_db_path"`
}

func Default() Config {
	return Config{ServePort: 8080}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskdeck", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overlays environment values on top of the file-backed config.
// Flags are applied after this and win over both.
func ApplyEnv(cfg Config) Config {
	if value := os.Getenv("TASKDECK_BACKEND_URL"); value != "" {
		cfg.BackendURL = value
	}
	return cfg
}
