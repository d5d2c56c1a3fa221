package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikanfactory/hibiki/internal/model"
)

const DefaultDebounce = 350 * time.Millisecond
const DefaultPollInterval = 3 * time.Second

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.DebounceMs == 0 {
		cfg.DebounceMs = int(DefaultDebounce / time.Millisecond)
	}
	if cfg.PollIntervalMs == 0 {
		cfg.PollIntervalMs = int(DefaultPollInterval / time.Millisecond)
	}

	for i, project := range cfg.RemoteProjects {
		if project.Path == "" || project.ConnectionID == "" || project.Host == "" {
			return model.Config{}, fmt.Errorf(
				"remote project %d: path, connection_id and host are required", i)
		}
		if project.RemotePath == "" {
			cfg.RemoteProjects[i].RemotePath = project.Path
		}
		if project.KeyPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return model.Config{}, fmt.Errorf("getting home directory: %w", err)
			}
			cfg.RemoteProjects[i].KeyPath = filepath.Join(home, ".ssh", "id_rsa")
		} else if strings.HasPrefix(project.KeyPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return model.Config{}, fmt.Errorf("expanding home directory: %w", err)
			}
			cfg.RemoteProjects[i].KeyPath = filepath.Join(home, project.KeyPath[2:])
		}
	}

	return cfg, nil
}

// ResolveConfigPath determines the config file path from flag or default location.
func ResolveConfigPath(flagPath string) (string, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", flagPath)
		}
		return flagPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hibiki", "config.yaml"), nil
}

// EnsureDefaultConfig creates a commented config template if none
// exists. Returns the config path and whether a file was created.
func EnsureDefaultConfig() (string, bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("getting home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "hibiki")
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return configPath, false, nil
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating config directory %s: %w", configDir, err)
	}

	content := "# debounce_ms: 350\n# poll_interval_ms: 3000\n#\n# remote_projects:\n#   - path: /home/me/checkouts/api\n#     connection_id: build-box\n#     host: build.example.com\n#     user: me\n#     key_path: ~/.ssh/id_ed25519\n#     remote_path: /srv/checkouts/api\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("writing default config: %w", err)
	}

	return configPath, true, nil
}

// ResolveRemoteProject looks up the remote project whose path contains
// the given working-tree path. Nil means the path is local.
func ResolveRemoteProject(cfg model.Config, path string) *model.RemoteProject {
	path = filepath.Clean(path)
	for i, project := range cfg.RemoteProjects {
		root := filepath.Clean(project.Path)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return &cfg.RemoteProjects[i]
		}
	}
	return nil
}

// Debounce returns the configured debounce delay.
func Debounce(cfg model.Config) time.Duration {
	return time.Duration(cfg.DebounceMs) * time.Millisecond
}

// PollInterval returns the configured remote poll interval.
func PollInterval(cfg model.Config) time.Duration {
	return time.Duration(cfg.PollIntervalMs) * time.Millisecond
}
