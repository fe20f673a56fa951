package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("roth-pomodoro")
	assert.Equal(t, port, portFromName("roth-pomodoro"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSingleInstance(t *testing.T) {
	appName := fmt.Sprintf("roth-pomodoro-test-%d", time.Now().UnixNano())

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	_, err = AcquireSingleInstance(appName)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	var activations atomic.Int32
	done := make(chan struct{})
	go func() {
		guard.Serve(func() { activations.Add(1) })
		close(done)
	}()

	require.NoError(t, ActivateRunningInstance(appName))
	require.Eventually(t, func() bool { return activations.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())
	<-done

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	guard.Serve(nil)
}

func TestDataDir(t *testing.T) {
	dirs := &platformDirs{
		getenv:  func(string) string { return "" },
		homeDir: func() (string, error) { return "/home/ada", nil },
	}

	dataDir, err := dirs.DataDir("roth-pomodoro")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fallbackDataDir("/home/ada"), "roth-pomodoro"), dataDir)

	_, err = dirs.DataDir("  ")
	assert.Error(t, err)
}

func TestDataDirPrefersEnvironment(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("no data dir environment variable on darwin")
	}
	dirs := &platformDirs{
		getenv:  func(string) string { return "/srv/data" },
		homeDir: func() (string, error) { return "", errors.New("no home") },
	}

	dataDir, err := dirs.DataDir("roth-pomodoro")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/data", "roth-pomodoro"), dataDir)
}

func TestDataDirWithoutHome(t *testing.T) {
	dirs := &platformDirs{
		getenv:  func(string) string { return "" },
		homeDir: func() (string, error) { return "", errors.New("no home") },
	}

	dataDir, err := dirs.DataDir("roth-pomodoro")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fallbackDataDir("."), "roth-pomodoro"), dataDir)
}

func TestConfigDirAppendsAppName(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData", "Roaming"))

	configDir, err := NewDirs().ConfigDir("roth-pomodoro")
	require.NoError(t, err)
	assert.Equal(t, "roth-pomodoro", filepath.Base(configDir))
}
