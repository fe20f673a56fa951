//go:build windows

package platform

import "path/filepath"

func (dirs *platformDirs) envDataDir() string {
	return dirs.getenv("LOCALAPPDATA")
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func fallbackDataDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Local")
}
