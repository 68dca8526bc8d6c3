package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL   string `yaml:"server_url"`
	HistoryPath string `yaml:"history_path"`
	SearchPath  string `yaml:"search_path"`
	ClearPath   string `yaml:"clear_path"`
	LogFile     string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		HistoryPath: "/chat_completions.json",
		SearchPath:  "/search",
		ClearPath:   "/clear_chat",
		LogFile:     DefaultLogPath(),
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = "/chat_completions.json"
	}
	if cfg.SearchPath == "" {
		cfg.SearchPath = "/search"
	}
	if cfg.ClearPath == "" {
		cfg.ClearPath = "/clear_chat"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "kb-console", "config.yml")
}

func DefaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "kb-console.log"
	}
	return filepath.Join(base, "kb-console", "kb-console.log")
}
