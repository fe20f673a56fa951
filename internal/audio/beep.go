package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneLength = 500 * time.Millisecond
	toneGain   = 0.2
)

type tone struct {
	frequency float64
	pause     time.Duration
}

// Three ascending tones, roughly five seconds in total.
var alarmSequence = []tone{
	{frequency: 240, pause: time.Second},
	{frequency: 340, pause: time.Second},
	{frequency: 440, pause: 3 * time.Second},
}

// BeepPlayer plays the alarm through the system speaker.
type BeepPlayer struct {
	sampleRate beep.SampleRate
	sleep      func(time.Duration)
}

// NewBeepPlayer creates a player. The device is opened by Open.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{
		sampleRate: sampleRate,
		sleep:      time.Sleep,
	}
}

// Open initializes the speaker.
func (player *BeepPlayer) Open() error {
	if err := speaker.Init(player.sampleRate, player.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	return nil
}

// Alarm plays the tone sequence and returns when it has finished.
func (player *BeepPlayer) Alarm() {
	for _, step := range alarmSequence {
		speaker.Play(player.tone(step.frequency))
		player.sleep(step.pause)
	}
}

// Stop drops whatever the speaker is still playing.
func (player *BeepPlayer) Stop() {
	speaker.Clear()
}

// Close silences the speaker.
func (player *BeepPlayer) Close() error {
	speaker.Clear()
	return nil
}

func (player *BeepPlayer) tone(frequency float64) beep.Streamer {
	return &effects.Gain{
		Streamer: beep.Take(player.sampleRate.N(toneLength), sineWave(player.sampleRate, frequency)),
		Gain:     toneGain - 1,
	}
}

// sineWave is an endless stereo sine at the given frequency.
func sineWave(rate beep.SampleRate, frequency float64) beep.Streamer {
	step := frequency / float64(rate)
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := math.Sin(2 * math.Pi * phase)
			samples[i][0] = value
			samples[i][1] = value
			_, phase = math.Modf(phase + step)
		}
		return len(samples), true
	})
}
