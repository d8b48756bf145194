package beepaudio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/napguard/internal/audio"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave. A non-positive duration streams forever.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, false
		}

		val := waveValue(o.wave, o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// waveValue evaluates a wave at phase in [0, 1).
func waveValue(wave WaveType, phase float64) float64 {
	switch wave {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveNoise:
		return rand.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// sweep glides linearly from one frequency to another over its duration.
type sweep struct {
	from, to float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *sweep {
	return &sweep{from: from, to: to, duration: rate.N(duration), wave: wave, rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, false
		}

		progress := float64(s.position) / float64(s.duration)
		freq := s.from + (s.to-s.from)*progress

		val := waveValue(s.wave, s.phase)
		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// tremolo modulates the amplitude of a stream with a slow sine.
type tremolo struct {
	streamer beep.Streamer
	freq     float64
	depth    float64 // 0 = no modulation, 1 = full
	position int
	rate     beep.SampleRate
}

func newTremolo(s beep.Streamer, freq, depth float64, rate beep.SampleRate) *tremolo {
	return &tremolo{streamer: s, freq: freq, depth: depth, rate: rate}
}

func (t *tremolo) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		tm := float64(t.position) / float64(t.rate)
		gain := 1 - t.depth*(0.5+0.5*math.Sin(2*math.Pi*t.freq*tm))
		samples[i][0] *= gain
		samples[i][1] *= gain
		t.position++
	}
	return n, ok
}

func (t *tremolo) Err() error { return t.streamer.Err() }

// envelope applies a linear attack and release to a finite stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
			vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero is
// mapped to a silent volume.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// PurrDuration is the length of the purr one-shot.
const PurrDuration = 2 * time.Second

// newStreamer builds a fresh streamer for a sound. Loops stream forever;
// one-shots end on their own.
func newStreamer(s audio.Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case audio.SoundAmbient:
		pad := beep.Mix(
			newVolume(newOscillator(110, 0, WaveSine, rate), 0.6),
			newVolume(newOscillator(164.8, 0, WaveSine, rate), 0.4),
		)
		return newVolume(newTremolo(pad, 0.2, 0.5, rate), 0.06)

	case audio.SoundFlyBuzz:
		buzz := newTremolo(newOscillator(220, 0, WaveSaw, rate), 28, 0.6, rate)
		return newVolume(buzz, 0.05)

	case audio.SoundUFOHum:
		hum := beep.Mix(
			newVolume(newOscillator(55, 0, WaveSquare, rate), 0.5),
			newVolume(newOscillator(82.5, 0, WaveSine, rate), 0.5),
		)
		return newVolume(newTremolo(hum, 3, 0.7, rate), 0.05)

	case audio.SoundVacuum:
		d := 600 * time.Millisecond
		noise := newEnvelope(newOscillator(0, d, WaveNoise, rate), d, 40*time.Millisecond, 250*time.Millisecond, rate)
		whine := newEnvelope(newSweep(300, 900, d, WaveSaw, rate), d, 40*time.Millisecond, 250*time.Millisecond, rate)
		return newVolume(beep.Mix(newVolume(noise, 0.6), newVolume(whine, 0.3)), 0.25)

	case audio.SoundSwat:
		d := 80 * time.Millisecond
		return newVolume(newEnvelope(newOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 60*time.Millisecond, rate), 0.3)

	case audio.SoundZap:
		d := 250 * time.Millisecond
		return newVolume(newEnvelope(newSweep(1200, 200, d, WaveSaw, rate), d, 5*time.Millisecond, 100*time.Millisecond, rate), 0.2)

	case audio.SoundContact:
		d := 200 * time.Millisecond
		low := newEnvelope(newOscillator(150, d, WaveSquare, rate), d, 5*time.Millisecond, 120*time.Millisecond, rate)
		return newVolume(low, 0.2)

	case audio.SoundPurr:
		rumble := newOscillator(0, PurrDuration, WaveNoise, rate)
		purr := newTremolo(rumble, 25, 0.9, rate)
		return newVolume(newEnvelope(purr, PurrDuration, 200*time.Millisecond, 600*time.Millisecond, rate), 0.15)
	}
	return beep.Silence(0)
}
