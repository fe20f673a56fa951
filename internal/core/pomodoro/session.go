package pomodoro

import (
	"context"
	"sync"
	"time"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/logging"
)

const (
	// DefaultTickInterval is how often the countdown is recomputed while running.
	DefaultTickInterval = 100 * time.Millisecond

	storeTimeout = 2 * time.Second
)

// Store persists settings, the completed counter and the period history.
type Store interface {
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
	LoadCompleted(ctx context.Context) (uint32, error)
	SaveCompleted(ctx context.Context, completed uint32) error
	RecordPeriod(ctx context.Context, record model.PeriodRecord) error
}

// AudioSender accepts fire-and-forget audio commands.
type AudioSender interface {
	Send(command audio.Command)
}

// Config contains runtime options for Session.
type Config struct {
	TickInterval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session owns the State, drives ticks while the timer runs and executes commands.
type Session struct {
	mu        sync.Mutex
	ctx       context.Context
	state     State
	store     Store
	audio     AudioSender
	options   Config
	observers []chan State
	tickStop  chan struct{}
	closed    bool
}

// NewSession loads persisted values and returns an idle session. ctx also bounds
// later store writes, so cancelling it abandons writes still in flight.
// Unreadable or invalid settings fall back to defaults, an unreadable counter to zero.
func NewSession(ctx context.Context, store Store, sender AudioSender, options Config) *Session {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Session{
		ctx:     ctx,
		state:   NewState(loadSettings(ctx, store), loadCompleted(ctx, store)),
		store:   store,
		audio:   sender,
		options: options,
	}
}

func loadSettings(ctx context.Context, store Store) model.Settings {
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		logging.Warnf("load settings, using defaults: %v", err)
		return model.DefaultSettings()
	}
	if !settings.Valid() {
		logging.Warnf("stored settings %+v are invalid, using defaults", settings)
		return model.DefaultSettings()
	}
	return settings
}

func loadCompleted(ctx context.Context, store Store) uint32 {
	completed, err := store.LoadCompleted(ctx)
	if err != nil {
		logging.Warnf("load completed pomodoros, starting at 0: %v", err)
		return 0
	}
	return completed
}

// Subscribe registers an observer. Observers always receive the latest state;
// an older undelivered state is replaced.
func (session *Session) Subscribe(buffer int) <-chan State {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		close(ch)
		return ch
	}
	session.observers = append(session.observers, ch)
	return ch
}

// Snapshot returns a copy of the current state.
func (session *Session) Snapshot() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

// Dispatch applies event and executes the resulting commands.
func (session *Session) Dispatch(event Event) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.dispatchLocked(event)
}

// StartStop starts, pauses or resumes the countdown.
func (session *Session) StartStop() { session.Dispatch(Event{Type: EventStartStop}) }

// Reset returns to an idle first work period.
func (session *Session) Reset() { session.Dispatch(Event{Type: EventReset}) }

// ResetCounter sets the completed pomodoro counter to zero.
func (session *Session) ResetCounter() { session.Dispatch(Event{Type: EventResetCounter}) }

// OpenSettings pauses the timer and shows the settings screen.
func (session *Session) OpenSettings() { session.Dispatch(Event{Type: EventOpenSettings}) }

// CloseSettings discards the draft and shows the timer screen.
func (session *Session) CloseSettings() { session.Dispatch(Event{Type: EventCloseSettings}) }

// SaveSettings validates the draft and adopts it on success.
func (session *Session) SaveSettings() { session.Dispatch(Event{Type: EventSaveSettings}) }

// SetDraftField replaces one settings draft text.
func (session *Session) SetDraftField(field DraftField, value string) {
	session.Dispatch(Event{Type: EventDraftChanged, Field: field, Value: value})
}

// Close stops ticking and closes observers.
func (session *Session) Close() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}
	session.closed = true
	session.stopTickerLocked()
	for _, ch := range session.observers {
		close(ch)
	}
	session.observers = nil
}

func (session *Session) dispatchLocked(event Event) {
	if session.closed {
		return
	}
	next, commands := Update(session.state, event, session.options.Now())
	session.state = next
	session.syncTickerLocked()
	session.executeLocked(commands)
	session.publishLocked()
}

func (session *Session) executeLocked(commands []Command) {
	for _, command := range commands {
		logging.Tracef("command %s", command.Type)
		switch command.Type {
		case CommandAlarm:
			session.audio.Send(audio.CommandAlarm)
		case CommandStopAudio:
			session.audio.Send(audio.CommandStop)
		case CommandSaveSettings:
			session.persist("save settings", func(ctx context.Context) error {
				return session.store.SaveSettings(ctx, command.Settings)
			})
		case CommandSaveCompleted:
			session.persist("save completed pomodoros", func(ctx context.Context) error {
				return session.store.SaveCompleted(ctx, command.Completed)
			})
		case CommandRecordPeriod:
			session.persist("record period", func(ctx context.Context) error {
				return session.store.RecordPeriod(ctx, command.Period)
			})
		}
	}
}

// persist runs a store write and only logs its failure.
func (session *Session) persist(action string, write func(context.Context) error) {
	ctx, cancel := context.WithTimeout(session.ctx, storeTimeout)
	defer cancel()
	if err := write(ctx); err != nil {
		logging.Warnf("%s: %v", action, err)
	}
}

func (session *Session) publishLocked() {
	state := session.state
	for _, ch := range session.observers {
		select {
		case ch <- state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (session *Session) syncTickerLocked() {
	running := session.state.Timer.IsRunning
	if running && session.tickStop == nil {
		stop := make(chan struct{})
		session.tickStop = stop
		go session.run(stop)
		return
	}
	if !running {
		session.stopTickerLocked()
	}
}

func (session *Session) stopTickerLocked() {
	if session.tickStop != nil {
		close(session.tickStop)
		session.tickStop = nil
	}
}

func (session *Session) run(stop chan struct{}) {
	ticker := time.NewTicker(session.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			session.tick(stop)
		}
	}
}

func (session *Session) tick(stop chan struct{}) {
	session.mu.Lock()
	defer session.mu.Unlock()
	// A tick that raced with a pause belongs to a ticker that is already gone.
	if session.tickStop != stop {
		return
	}
	session.dispatchLocked(Event{Type: EventTick})
}
