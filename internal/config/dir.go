package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	APP_NAME  = "quill"
	YAML_FILE = "config.yml"
	TOML_FILE = "config.toml"
)

// Dir returns the directory holding Quill's configuration, creating it if
// needed. It honours XDG_CONFIG_HOME and APPDATA on Windows.
func Dir() (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, APP_NAME)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), APP_NAME)
		} else {
			configDir = filepath.Join(homeDir, ".config", APP_NAME)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}

// FindFile returns the configuration file of dir. config.toml wins over
// config.yml. When neither exists, config.yml is created with the defaults.
func FindFile(dir string) (string, error) {
	tomlPath := filepath.Join(dir, TOML_FILE)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}

	yamlPath := filepath.Join(dir, YAML_FILE)
	_, err := os.Stat(yamlPath)
	switch {
	case err == nil:
		return yamlPath, nil
	case errors.Is(err, os.ErrNotExist):
		if err := writeStringToFile(yamlPath, DEFAULT_YAML_FILE); err != nil {
			return "", fmt.Errorf("creating default config: %w", err)
		}
		return yamlPath, nil
	default:
		return "", err
	}
}

func writeStringToFile(fileName, content string) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}
