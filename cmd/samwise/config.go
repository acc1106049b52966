// Config loading for the samwise CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/samwise/internal/paths"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend           = "backend"
	cfgKeyOwner             = "owner"
	cfgKeyDataDir           = "data_dir"
	cfgKeyLogLevel          = "log_level"
	cfgKeyLogFormat         = "log_format"
	cfgKeySelectorCacheSize = "selector_cache_size"
)

// configFile is the structure written to config.yaml on first run.
type configFile struct {
	Backend           string `yaml:"backend"`
	Owner             string `yaml:"owner"`
	DataDir           string `yaml:"data_dir,omitempty"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	SelectorCacheSize int    `yaml:"selector_cache_size"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:           types.BackendSQLite,
		Owner:             types.DefaultOwner,
		LogLevel:          types.DefaultLogLevel,
		LogFormat:         types.DefaultLogFormat,
		SelectorCacheSize: types.DefaultSelectorCacheSize,
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A config.yaml that vanishes between the two
// steps is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if _, err := writeConfigIfMissing(configDir, defaultConfigFile()); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyOwner, types.DefaultOwner)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, types.DefaultLogFormat)
	v.SetDefault(cfgKeySelectorCacheSize, types.DefaultSelectorCacheSize)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates configDir and writes c as config.yaml unless
// the file exists. It reports whether the file was written.
func writeConfigIfMissing(configDir string, c configFile) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(configDir, paths.ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	data = append([]byte("# samwise configuration\n"), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// configFromViper assembles the backend config for dataDir.
func configFromViper(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:           v.GetString(cfgKeyBackend),
		DataDir:           dataDir,
		Owner:             v.GetString(cfgKeyOwner),
		LogLevel:          v.GetString(cfgKeyLogLevel),
		LogFormat:         v.GetString(cfgKeyLogFormat),
		SelectorCacheSize: v.GetInt(cfgKeySelectorCacheSize),
	}
}
