//go:build linux

package platform

import "path/filepath"

func (dirs *platformDirs) envDataDir() string {
	return dirs.getenv("XDG_DATA_HOME")
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func fallbackDataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share")
}
