// Package chime strikes the hour on the speaker.
package chime

import (
	"io"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	bellDuration = 400 * time.Millisecond
	bellAttack   = 5 * time.Millisecond
	bellGap      = 350 * time.Millisecond
	bellFreq     = 880.0
)

// Strikes returns how many bells mark hour on a 12-hour dial.
func Strikes(hour int) int {
	h := hour % 12
	if h < 0 {
		h += 12
	}
	if h == 0 {
		return 12
	}
	return h
}

// sine generates a sine wave with a linear attack and exponential decay.
type sine struct {
	freq     float64
	pos      int
	total    int
	attack   int
	rate     beep.SampleRate
	decayTau float64
}

func newSine(freq float64, d time.Duration, rate beep.SampleRate) *sine {
	return &sine{
		freq:     freq,
		total:    rate.N(d),
		attack:   rate.N(bellAttack),
		rate:     rate,
		decayTau: float64(rate.N(d)) / 4,
	}
}

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		env := math.Exp(-float64(s.pos) / s.decayTau)
		if s.pos < s.attack {
			env *= float64(s.pos) / float64(s.attack)
		}
		v := env * math.Sin(2*math.Pi*s.freq*float64(s.pos)/float64(s.rate))
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// Bell is one strike: a fundamental with a quieter octave partial.
func Bell(rate beep.SampleRate) beep.Streamer {
	partial := &effects.Volume{Streamer: newSine(bellFreq*2, bellDuration, rate), Base: 2, Volume: -2}
	return beep.Mix(newSine(bellFreq, bellDuration, rate), partial)
}

// Sequence strikes n bells separated by short gaps.
func Sequence(n int, rate beep.SampleRate, volume float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			parts = append(parts, beep.Silence(rate.N(bellGap)))
		}
		parts = append(parts, Bell(rate))
	}
	return withVolume(beep.Seq(parts...), volume)
}

// withVolume scales s linearly by vol. log2(0) is -Inf, so vol <= 0 is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Chime plays Sequence on the speaker at the top of every hour.
type Chime struct {
	volume float64
	log    *log.Logger

	mu          sync.Mutex
	initialized bool
	play        func(beep.Streamer)
}

func New(volume float64, logger *log.Logger) *Chime {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Chime{volume: volume, log: logger, play: func(s beep.Streamer) { speaker.Play(s) }}
}

// Init opens the audio device. The clock keeps running without sound when
// this fails.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Close releases the audio device.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// OnTime strikes the hour when clock reads HH:00:00. It reports whether a
// chime was started.
func (c *Chime) OnTime(clock string) bool {
	if len(clock) != 8 || clock[3:] != "00:00" {
		return false
	}
	hour, err := strconv.Atoi(clock[:2])
	if err != nil {
		return false
	}

	c.mu.Lock()
	ready := c.initialized
	c.mu.Unlock()
	if !ready {
		return false
	}

	n := Strikes(hour)
	c.log.Printf("chime: striking %d for %s", n, clock)
	c.play(Sequence(n, sampleRate, c.volume))
	return true
}
