// Config loading for the casekeeper CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyBaseDir     = "base_dir"
	cfgKeyExportDir   = "export_dir"
	cfgKeyTypeFolders = "type_folders"

	// Default metadata backend DSN.
	defaultBackend = "file"
)

// cfg is the loaded configuration, set by the root command's
// PersistentPreRunE before any subcommand runs.
var cfg *viper.Viper

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Casekeeper CLI configuration

# Metadata backend DSN. Supported schemes:
#   file                          JSON file under the data directory
#   file:///path/to/cases.json    JSON file at an explicit path
#   sqlite                        SQLite database under the data directory
#   sqlite:///path/to/cases.db    SQLite database at an explicit path
#   postgres://user@host/db       PostgreSQL connection string
#   memory                        in-memory, discarded on exit
backend: file

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Base directory of the mirrored case folder tree
# (default: <data_dir>/cases)
# base_dir:

# Directory for tabular exports (default: <data_dir>/exports)
# export_dir:

# Case-type to folder-name mapping. Unlisted types use the raw type
# string as the folder name.
# type_folders:
#   civil: Civil Cases
#   criminal: Criminal Cases
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
