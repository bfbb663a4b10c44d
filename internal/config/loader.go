package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for in the
// current directory and then in the user's home directory.
const DefaultConfigFile = ".pagelang"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML shape of the .pagelang configuration file.
// Credentials deliberately have no place here; see ErrNoCredentials.
type File struct {
	Endpoint  string `yaml:"endpoint"`
	Language  string `yaml:"language"`
	PagesFile string `yaml:"pages_file"`
	UserAgent string `yaml:"user_agent"`
}

// LoadConfigFile loads a .pagelang YAML file. A missing file returns
// ErrConfigNotFound so callers can decide whether that is fatal (the
// user named the path explicitly) or fine (nothing found in the search
// path).
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile resolves the configuration file path: an explicit path
// wins, otherwise .pagelang in the current directory, then in the home
// directory. Returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
