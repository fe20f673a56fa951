package audio

import (
	"context"
	"fmt"
	"time"

	"pomodoro/internal/logging"
)

// DefaultPollInterval is coarser than the timer tick.
const DefaultPollInterval = 250 * time.Millisecond

// Player owns the output device.
type Player interface {
	Open() error
	// Alarm blocks until the whole sequence has played.
	Alarm()
	Stop()
	Close() error
}

// WorkerConfig contains runtime options for Worker.
type WorkerConfig struct {
	PollInterval time.Duration
}

// Worker executes queued commands serially on its own goroutine.
type Worker struct {
	queue   *Queue
	player  Player
	options WorkerConfig
}

// NewWorker creates a worker reading from queue.
func NewWorker(queue *Queue, player Player, options WorkerConfig) *Worker {
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	return &Worker{
		queue:   queue,
		player:  player,
		options: options,
	}
}

// Run opens the device and polls the queue until ctx is cancelled.
// If the device cannot be opened the queue is detached and the error returned.
func (worker *Worker) Run(ctx context.Context) error {
	if err := worker.player.Open(); err != nil {
		worker.queue.Detach()
		return fmt.Errorf("open audio device: %w", err)
	}
	defer func() {
		if err := worker.player.Close(); err != nil {
			logging.Warnf("close audio device: %v", err)
		}
	}()

	ticker := time.NewTicker(worker.options.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			worker.poll()
		}
	}
}

// poll executes at most one pending command and reports whether it found one.
func (worker *Worker) poll() bool {
	command, ok := worker.queue.TryReceive()
	if !ok {
		return false
	}
	worker.execute(command)
	return true
}

func (worker *Worker) execute(command Command) {
	logging.Debugf("audio: %s", command)
	switch command {
	case CommandAlarm:
		worker.player.Alarm()
	case CommandStop:
		worker.player.Stop()
	default:
		logging.Warnf("audio: unknown command %d", int(command))
	}
}

// NoopPlayer plays nothing.
type NoopPlayer struct{}

func (NoopPlayer) Open() error { return nil }
func (NoopPlayer) Alarm() {}
func (NoopPlayer) Stop() {}
func (NoopPlayer) Close() error { return nil }
