//go:build darwin

package platform

import "path/filepath"

func (dirs *platformDirs) envDataDir() string {
	return ""
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func fallbackDataDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}
