package game

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the rate every clip is synthesised at.
const SampleRate = beep.SampleRate(44100)

// Clip names understood by SoundBank.
const (
	ClipFootstep  = "footstep"
	ClipHeartbeat = "heartbeat"
	ClipDoor      = "door"
)

// clipSpec describes a synthesised one-shot.
type clipSpec struct {
	freq     float64
	duration time.Duration
	// gain is the clip's own level before the bank's volume is applied.
	gain float64
}

var defaultClips = map[string]clipSpec{
	ClipFootstep:  {freq: 90, duration: 60 * time.Millisecond, gain: 0.6},
	ClipHeartbeat: {freq: 55, duration: 120 * time.Millisecond, gain: 1},
	ClipDoor:      {freq: 220, duration: 400 * time.Millisecond, gain: 0.5},
}

// SoundBank synthesises one-shot clips and mixes them into a single
// streamer. It implements camo.AudioPlayer. Streamer() is what a speaker
// plays; headless runs can pull samples with Drain instead.
type SoundBank struct {
	// Locker guards the mixer against the playback goroutine. The speaker
	// package's lock goes here when the bank is attached to a speaker.
	Locker sync.Locker

	mixer  *beep.Mixer
	clips  map[string]clipSpec
	volume map[string]float64
	plays  map[string]int
}

// NewSoundBank creates a bank with the built-in clips.
func NewSoundBank() *SoundBank {
	b := &SoundBank{
		mixer:  &beep.Mixer{},
		clips:  make(map[string]clipSpec, len(defaultClips)),
		volume: make(map[string]float64),
		plays:  make(map[string]int),
	}
	for name, spec := range defaultClips {
		b.clips[name] = spec
	}
	return b
}

// SpeakerLock adapts lock/unlock functions (speaker.Lock, speaker.Unlock)
// to sync.Locker.
type SpeakerLock struct {
	LockFn, UnlockFn func()
}

func (l SpeakerLock) Lock()   { l.LockFn() }
func (l SpeakerLock) Unlock() { l.UnlockFn() }

func (b *SoundBank) lock() func() {
	if b.Locker == nil {
		return func() {}
	}
	b.Locker.Lock()
	return b.Locker.Unlock
}

// PlayOneShot queues clip on the mixer. Unknown clips are counted but
// silent.
func (b *SoundBank) PlayOneShot(clip string) {
	unlock := b.lock()
	defer unlock()

	b.plays[clip]++
	spec, ok := b.clips[clip]
	if !ok {
		return
	}
	tone, err := generators.SineTone(SampleRate, spec.freq)
	if err != nil {
		return
	}
	vol := spec.gain
	if v, ok := b.volume[clip]; ok {
		vol *= v
	}
	b.mixer.Add(newVolume(beep.Take(SampleRate.N(spec.duration), tone), vol))
}

// SetVolume sets a clip's linear volume in [0,1].
func (b *SoundBank) SetVolume(clip string, v float64) {
	unlock := b.lock()
	defer unlock()
	b.volume[clip] = math.Max(0, math.Min(1, v))
}

// Volume returns a clip's linear volume (1 when never set).
func (b *SoundBank) Volume(clip string) float64 {
	unlock := b.lock()
	defer unlock()
	if v, ok := b.volume[clip]; ok {
		return v
	}
	return 1
}

// Plays returns how many times clip was requested.
func (b *SoundBank) Plays(clip string) int {
	unlock := b.lock()
	defer unlock()
	return b.plays[clip]
}

// Active returns the number of clips still sounding.
func (b *SoundBank) Active() int {
	unlock := b.lock()
	defer unlock()
	return b.mixer.Len()
}

// Streamer is the mixed output.
func (b *SoundBank) Streamer() beep.Streamer { return b.mixer }

// Advance plays dt of the mix when no speaker is attached, so finished clips
// leave the mixer in headless and muted runs.
func (b *SoundBank) Advance(dt float64) {
	if b.Locker != nil || dt <= 0 {
		return
	}
	b.Drain(time.Duration(dt * float64(time.Second)))
}

// Drain pulls d worth of samples through the mixer, finishing clips that
// have played out. It returns the peak absolute sample seen.
func (b *SoundBank) Drain(d time.Duration) float64 {
	unlock := b.lock()
	defer unlock()
	buf := make([][2]float64, 512)
	peak := 0.0
	for n := SampleRate.N(d); n > 0; {
		chunk := buf
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		got, _ := b.mixer.Stream(chunk)
		for _, s := range chunk[:got] {
			peak = math.Max(peak, math.Max(math.Abs(s[0]), math.Abs(s[1])))
		}
		n -= len(chunk)
	}
	return peak
}

// newVolume wraps s in a linear-volume effect; zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
