package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dirs resolves per-user directories for the application.
type Dirs interface {
	ConfigDir(appName string) (string, error)
	DataDir(appName string) (string, error)
}

type platformDirs struct {
	getenv  func(string) string
	homeDir func() (string, error)
}

// NewDirs returns the resolver for the current OS.
func NewDirs() Dirs {
	return &platformDirs{getenv: os.Getenv, homeDir: os.UserHomeDir}
}

// ConfigDir returns the OS-standard configuration directory for appName.
func (dirs *platformDirs) ConfigDir(appName string) (string, error) {
	if err := checkAppName(appName); err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := dirs.homeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return filepath.Join(fallbackConfigDir(homeDir), appName), nil
}

// DataDir returns the per-user directory for application data such as the database.
func (dirs *platformDirs) DataDir(appName string) (string, error) {
	if err := checkAppName(appName); err != nil {
		return "", fmt.Errorf("get data dir: %w", err)
	}

	if base := dirs.envDataDir(); base != "" {
		return filepath.Join(base, appName), nil
	}

	homeDir, err := dirs.homeDir()
	if err != nil || homeDir == "" {
		homeDir = "."
	}
	return filepath.Join(fallbackDataDir(homeDir), appName), nil
}

func checkAppName(appName string) error {
	if strings.TrimSpace(appName) == "" {
		return errors.New("app name is empty")
	}
	return nil
}
