package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	flag "github.com/spf13/pflag"

	"pomodoro/internal/audio"
	"pomodoro/internal/config"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
	"pomodoro/internal/logging"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/tray"
	"pomodoro/internal/ui/window"
	"pomodoro/resources"
)

const (
	appName  = "roth-pomodoro"
	appID    = "com.roth.pomodoro"
	appTitle = "Pomodoro"
)

type options struct {
	configPath string
	dataDir    string
	verbose    int
	history    int
	noAudio    bool
}

func main() {
	var opts options
	flags := flag.NewFlagSet(appName, flag.ExitOnError)
	flags.StringVar(&opts.configPath, "config", "", "path to config.yaml")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the database")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.IntVar(&opts.history, "history", 0, "print the `N` most recent periods and exit")
	flags.BoolVar(&opts.noAudio, "no-audio", false, "disable the alarm sound")
	_ = flags.Parse(os.Args[1:])

	if err := run(opts); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logging.SetVerbosity(opts.verbose)
	dirs := platform.NewDirs()

	cfg := loadConfig(dirs, opts.configPath)
	if opts.verbose == 0 {
		logging.SetLevel(cfg.Level())
	}
	if opts.noAudio {
		cfg.Audio.Enabled = false
	}

	dataDir, err := resolveDataDir(dirs, opts.dataDir, cfg.DataDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.history > 0 {
		store, err := storage.Open(ctx, dataDir)
		if err != nil {
			return err
		}
		defer store.Close()
		return printHistory(ctx, os.Stdout, store, opts.history)
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logging.Infof("single instance: %v", err)
			if activateErr := platform.ActivateRunningInstance(appName); activateErr != nil {
				logging.Warnf("%v", activateErr)
			}
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	store := openStore(ctx, dataDir)
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warnf("%v", err)
		}
	}()

	queue := audio.NewQueue()
	var player audio.Player = audio.NoopPlayer{}
	if cfg.Audio.Enabled {
		player = audio.NewBeepPlayer()
	}
	worker := audio.NewWorker(queue, player, audio.WorkerConfig{PollInterval: cfg.Audio.PollInterval})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx); err != nil {
			logging.Warnf("audio disabled: %v", err)
		}
	}()

	session := pomodoro.NewSession(ctx, store, queue, pomodoro.Config{TickInterval: cfg.TickInterval})

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconWork))
	desktopApp, hasTray := fyneApp.(desktop.App)

	mainWindow := window.New(fyneApp, session, window.Config{
		Title:       appTitle,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		HideOnClose: hasTray,
	})
	go mainWindow.Watch(session.Subscribe(1))

	if hasTray {
		trayManager := tray.New(desktopApp, appTitle, tray.Icons{
			Work:  resources.MustIcon(resources.IconWork),
			Break: resources.MustIcon(resources.IconBreak),
		}, tray.Callbacks{
			OnShow:   mainWindow.Show,
			OnToggle: session.StartStop,
			OnReset:  session.Reset,
			OnSettings: func() {
				// Already open: keep the draft being edited.
				if session.Snapshot().Screen != model.ScreenSettings {
					session.OpenSettings()
				}
				mainWindow.Show()
			},
			OnQuit: fyneApp.Quit,
		})
		trayManager.Update(session.Snapshot())
		trayUpdates := session.Subscribe(1)
		go func() {
			for state := range trayUpdates {
				fyne.Do(func() {
					trayManager.Update(state)
				})
			}
		}()
	} else {
		logging.Infof("system tray unsupported on this platform")
	}

	go guard.Serve(func() {
		fyne.Do(mainWindow.Show)
	})

	mainWindow.ShowAndRun()

	// Nothing sends after the session is closed, so the queue can be closed once the worker exits.
	session.Close()
	cancel()
	<-workerDone
	queue.Close()
	return nil
}

func loadConfig(dirs platform.Dirs, path string) config.Config {
	if path == "" {
		configDir, err := dirs.ConfigDir(appName)
		if err != nil {
			logging.Warnf("%v, using default config", err)
			return config.Default()
		}
		path = filepath.Join(configDir, config.FileName)
	}

	cfg, found, err := config.Load(path)
	if err != nil {
		logging.Warnf("%v, using default config", err)
		return cfg
	}
	if !found {
		if err := config.Save(path, cfg); err != nil {
			logging.Warnf("%v", err)
		} else {
			logging.Infof("wrote default config to %s", path)
		}
	}
	return cfg
}

func resolveDataDir(dirs platform.Dirs, flagValue, configValue string) (string, error) {
	switch {
	case flagValue != "":
		return flagValue, nil
	case configValue != "":
		return configValue, nil
	}
	dataDir, err := dirs.DataDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dataDir, nil
}

// openStore falls back to an in-memory database so the timer still runs.
func openStore(ctx context.Context, dataDir string) *storage.Store {
	store, err := storage.Open(ctx, dataDir)
	if err == nil {
		logging.Debugf("database in %s", dataDir)
		return store
	}
	logging.Warnf("%v, settings will not persist", err)

	store, err = storage.OpenFile(ctx, ":memory:")
	if err != nil {
		// The sqlite driver is linked in; an in-memory database only fails on a broken build.
		panic(fmt.Sprintf("open in-memory store: %v", err))
	}
	return store
}
