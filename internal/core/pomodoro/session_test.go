package pomodoro_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

var errStoreDown = errors.New("store down")

type fakeStore struct {
	mu sync.Mutex

	settings    model.Settings
	completed   uint32
	loadErr     error
	saveErr     error
	settingsLog []model.Settings
	counterLog  []uint32
	periods     []model.PeriodRecord
	writeErrs   []error
}

func (store *fakeStore) LoadSettings(context.Context) (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings, store.loadErr
}

func (store *fakeStore) SaveSettings(_ context.Context, settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settingsLog = append(store.settingsLog, settings)
	return store.saveErr
}

func (store *fakeStore) LoadCompleted(context.Context) (uint32, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.completed, store.loadErr
}

func (store *fakeStore) SaveCompleted(ctx context.Context, completed uint32) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writeErrs = append(store.writeErrs, ctx.Err())
	store.counterLog = append(store.counterLog, completed)
	return store.saveErr
}

func (store *fakeStore) RecordPeriod(_ context.Context, record model.PeriodRecord) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.periods = append(store.periods, record)
	return store.saveErr
}

func (store *fakeStore) counters() []uint32 {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]uint32(nil), store.counterLog...)
}

type fakeSender struct {
	mu       sync.Mutex
	commands []audio.Command
}

func (sender *fakeSender) Send(command audio.Command) {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.commands = append(sender.commands, command)
}

func (sender *fakeSender) sent() []audio.Command {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	return append([]audio.Command(nil), sender.commands...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

func newTestSession(t *testing.T, store *fakeStore) (*pomodoro.Session, *fakeSender, *fakeClock) {
	t.Helper()
	sender := &fakeSender{}
	clock := &fakeClock{now: epoch}
	session := pomodoro.NewSession(context.Background(), store, sender, pomodoro.Config{
		TickInterval: time.Millisecond,
		Now:          clock.Now,
	})
	t.Cleanup(session.Close)
	return session, sender, clock
}

func TestNewSessionLoadsPersistedValues(t *testing.T) {
	settings := model.Settings{WorkSeconds: 600, ShortBreakSeconds: 60, LongBreakSeconds: 120, LongBreakEvery: 2}
	session, _, _ := newTestSession(t, &fakeStore{settings: settings, completed: 41})

	state := session.Snapshot()
	assert.Equal(t, settings, state.Settings)
	assert.Equal(t, uint32(41), state.Timer.CompletedPomodoros)
	assert.Equal(t, uint32(600), state.Timer.TimeLeft)
	assert.Equal(t, "10:00", state.Clock())
}

func TestNewSessionFallsBackOnLoadFailure(t *testing.T) {
	session, _, _ := newTestSession(t, &fakeStore{loadErr: errStoreDown, completed: 41})

	state := session.Snapshot()
	assert.Equal(t, model.DefaultSettings(), state.Settings)
	assert.Equal(t, uint32(0), state.Timer.CompletedPomodoros)
}

func TestNewSessionRejectsInvalidStoredSettings(t *testing.T) {
	stored := model.Settings{WorkSeconds: 600, ShortBreakSeconds: 60, LongBreakSeconds: 120, LongBreakEvery: 0}
	session, _, _ := newTestSession(t, &fakeStore{settings: stored, completed: 3})

	state := session.Snapshot()
	assert.Equal(t, model.DefaultSettings(), state.Settings)
	assert.Equal(t, uint32(3), state.Timer.CompletedPomodoros)
}

func TestSessionCompletesPeriodWhileRunning(t *testing.T) {
	store := &fakeStore{settings: model.DefaultSettings(), completed: 2}
	session, sender, clock := newTestSession(t, store)

	session.StartStop()
	assert.Equal(t, []audio.Command{audio.CommandStop}, sender.sent())

	clock.Advance(1500 * time.Second)
	require.Eventually(t, func() bool {
		return !session.Snapshot().Timer.IsRunning
	}, time.Second, time.Millisecond)

	state := session.Snapshot()
	assert.False(t, state.Timer.IsWorkPeriod)
	assert.Equal(t, uint32(300), state.Timer.TimeLeft)
	assert.Equal(t, uint32(3), state.Timer.CompletedPomodoros)
	assert.Equal(t, []audio.Command{audio.CommandStop, audio.CommandAlarm}, sender.sent())
	assert.Equal(t, []uint32{3}, store.counters())

	store.mu.Lock()
	require.Len(t, store.periods, 1)
	assert.Equal(t, model.PeriodWork, store.periods[0].Kind)
	assert.Equal(t, epoch.Add(1500*time.Second), store.periods[0].EndedAt)
	store.mu.Unlock()
}

func TestSessionDoesNotTickWhilePaused(t *testing.T) {
	session, sender, clock := newTestSession(t, &fakeStore{settings: model.DefaultSettings()})

	session.StartStop()
	clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return session.Snapshot().Timer.TimeLeft == 1490
	}, time.Second, time.Millisecond)

	session.StartStop()
	clock.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)

	state := session.Snapshot()
	assert.False(t, state.Timer.IsRunning)
	assert.Equal(t, uint32(1490), state.Timer.TimeLeft)
	assert.Equal(t, "Resume", state.ToggleLabel())
	assert.Equal(t, []audio.Command{audio.CommandStop}, sender.sent())
}

func TestSessionAbsorbsStoreFailures(t *testing.T) {
	store := &fakeStore{settings: model.DefaultSettings(), saveErr: errStoreDown}
	session, _, _ := newTestSession(t, store)

	session.OpenSettings()
	session.SetDraftField(pomodoro.FieldWorkMinutes, "1")
	session.SaveSettings()
	session.ResetCounter()

	state := session.Snapshot()
	assert.Equal(t, uint32(60), state.Settings.WorkSeconds)
	assert.Equal(t, model.ScreenTimer, state.Screen)
	assert.Equal(t, uint32(0), state.Timer.CompletedPomodoros)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.settingsLog, 1)
	assert.Equal(t, uint32(60), store.settingsLog[0].WorkSeconds)
	assert.Equal(t, []uint32{0}, store.counterLog)
}

func TestSessionInvalidSaveKeepsScreen(t *testing.T) {
	store := &fakeStore{settings: model.DefaultSettings()}
	session, sender, _ := newTestSession(t, store)

	session.OpenSettings()
	session.SetDraftField(pomodoro.FieldLongBreakEvery, "0")
	session.SaveSettings()

	state := session.Snapshot()
	assert.Equal(t, model.ScreenSettings, state.Screen)
	assert.Equal(t, pomodoro.InvalidSettingsMessage, state.SettingsError)
	assert.Empty(t, sender.sent())

	session.CloseSettings()
	assert.Equal(t, model.ScreenTimer, session.Snapshot().Screen)
	assert.Empty(t, session.Snapshot().SettingsError)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.settingsLog)
}

func TestSubscribeDeliversLatestState(t *testing.T) {
	session, _, _ := newTestSession(t, &fakeStore{settings: model.DefaultSettings()})
	updates := session.Subscribe(1)

	session.OpenSettings()
	session.SetDraftField(pomodoro.FieldWorkMinutes, "4")
	session.SetDraftField(pomodoro.FieldWorkMinutes, "42")

	select {
	case state := <-updates:
		assert.Equal(t, "42", state.Draft.WorkMinutes)
		assert.Equal(t, model.ScreenSettings, state.Screen)
	default:
		t.Fatal("no state delivered")
	}

	select {
	case state := <-updates:
		t.Fatalf("unexpected extra state %+v", state)
	default:
	}
}

func TestCloseStopsSession(t *testing.T) {
	session, sender, clock := newTestSession(t, &fakeStore{settings: model.DefaultSettings()})
	updates := session.Subscribe(1)

	session.StartStop()
	<-updates
	session.Close()

	_, open := <-updates
	assert.False(t, open)

	clock.Advance(time.Hour)
	session.Reset()
	time.Sleep(10 * time.Millisecond)

	assert.True(t, session.Snapshot().Timer.IsRunning)
	assert.Equal(t, []audio.Command{audio.CommandStop}, sender.sent())

	late := session.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestStoreWritesFollowSessionContext(t *testing.T) {
	store := &fakeStore{settings: model.DefaultSettings(), completed: 4}
	ctx, cancel := context.WithCancel(context.Background())
	session := pomodoro.NewSession(ctx, store, &fakeSender{}, pomodoro.Config{})
	t.Cleanup(session.Close)

	session.ResetCounter()
	cancel()
	session.ResetCounter()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.writeErrs, 2)
	assert.NoError(t, store.writeErrs[0])
	assert.ErrorIs(t, store.writeErrs[1], context.Canceled)
	assert.Equal(t, uint32(0), session.Snapshot().Timer.CompletedPomodoros)
}
