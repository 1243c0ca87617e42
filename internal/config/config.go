// Package config handles loading tix.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProjectFile is the name of the per-project configuration file.
const ProjectFile = "tix.toml"

// Config represents the merged tix configuration.
type Config struct {
	Tickets Tickets `toml:"tickets"`
	Output  Output  `toml:"output"`
	Storage Storage `toml:"storage"`
}

// Tickets contains defaults applied to new tickets.
type Tickets struct {
	// DefaultPriority is used when a new ticket names no priority.
	DefaultPriority string `toml:"default-priority"`
	// DefaultType is used when a new ticket names no type.
	DefaultType string `toml:"default-type"`
	// DefaultPrivacy is used when a new ticket names no privacy.
	DefaultPrivacy string `toml:"default-privacy"`
	// MaxTitleLength bounds ticket titles, in characters. Zero uses the
	// built-in default.
	MaxTitleLength int `toml:"max-title-length"`
}

// Output contains presentation settings.
type Output struct {
	// Format is the default output format: table, compact, or json.
	Format string `toml:"format"`
}

// Storage locates the ticket store.
type Storage struct {
	// Path is the store file. A leading ~ expands to the home directory.
	Path string `toml:"path"`
}

// Load loads configuration from the project directory and the global config
// file. Project values override global ones key by key. Returns an empty
// config if no config files exist.
func Load(projectDir string) (*Config, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	cfg := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if cfg.Tickets.MaxTitleLength < 0 {
		return nil, fmt.Errorf("config tickets.max-title-length must not be negative: %d", cfg.Tickets.MaxTitleLength)
	}
	return cfg, nil
}

// GlobalPath returns the location of the global config file.
func GlobalPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tix", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Tickets.DefaultPriority = mergeString(projectMeta.IsDefined("tickets", "default-priority"), projectCfg.Tickets.DefaultPriority, globalCfg.Tickets.DefaultPriority)
	merged.Tickets.DefaultType = mergeString(projectMeta.IsDefined("tickets", "default-type"), projectCfg.Tickets.DefaultType, globalCfg.Tickets.DefaultType)
	merged.Tickets.DefaultPrivacy = mergeString(projectMeta.IsDefined("tickets", "default-privacy"), projectCfg.Tickets.DefaultPrivacy, globalCfg.Tickets.DefaultPrivacy)
	merged.Output.Format = mergeString(projectMeta.IsDefined("output", "format"), projectCfg.Output.Format, globalCfg.Output.Format)
	merged.Storage.Path = mergeString(projectMeta.IsDefined("storage", "path"), projectCfg.Storage.Path, globalCfg.Storage.Path)
	if projectMeta.IsDefined("tickets", "max-title-length") {
		merged.Tickets.MaxTitleLength = projectCfg.Tickets.MaxTitleLength
	} else if globalMeta.IsDefined("tickets", "max-title-length") {
		merged.Tickets.MaxTitleLength = globalCfg.Tickets.MaxTitleLength
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
