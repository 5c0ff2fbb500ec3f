package game

import (
	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

// HeartbeatConfig tunes the proximity pulse.
type HeartbeatConfig struct {
	MaxDetectDistance float64
	MinDetectDistance float64
	MaxPulseInterval  float64 // slow pulse (far)
	MinPulseInterval  float64 // fast pulse (close)
}

// DefaultHeartbeat matches the stock heartbeat emitter.
func DefaultHeartbeat() HeartbeatConfig {
	return HeartbeatConfig{
		MaxDetectDistance: 25,
		MinDetectDistance: 2,
		MaxPulseInterval:  1.5,
		MinPulseInterval:  0.25,
	}
}

// VolumePlayer is an AudioPlayer with per-clip volume.
type VolumePlayer interface {
	camo.AudioPlayer
	SetVolume(clip string, v float64)
}

// Heartbeat pulses faster and louder as the player nears the enemy.
type Heartbeat struct {
	cfg    HeartbeatConfig
	source camo.Positioner
	player camo.Positioner
	audio  VolumePlayer

	now       float64
	nextPulse float64
	pulses    int
}

// NewHeartbeat creates a heartbeat emitted from source.
func NewHeartbeat(cfg HeartbeatConfig, source, player camo.Positioner, audio VolumePlayer) *Heartbeat {
	return &Heartbeat{cfg: cfg, source: source, player: player, audio: audio}
}

// Intensity maps a distance onto [0,1]: 0 at the max detect distance,
// 1 at the min.
func (h *Heartbeat) Intensity(dist float64) float64 {
	return geom.InverseLerp(h.cfg.MaxDetectDistance, h.cfg.MinDetectDistance, dist)
}

// Interval is the pulse period at dist.
func (h *Heartbeat) Interval(dist float64) float64 {
	return geom.Lerp(h.cfg.MaxPulseInterval, h.cfg.MinPulseInterval, h.Intensity(dist))
}

// Update advances the clock and fires a pulse when one is due. It returns
// true when a pulse fired.
func (h *Heartbeat) Update(dt float64) bool {
	h.now += dt
	if h.source == nil || h.player == nil || h.audio == nil {
		return false
	}
	dist := h.source.Position().Dist(h.player.Position())
	if dist > h.cfg.MaxDetectDistance {
		return false
	}
	h.audio.SetVolume(ClipHeartbeat, geom.Lerp(0.1, 1, h.Intensity(dist)))
	if h.now < h.nextPulse {
		return false
	}
	h.audio.PlayOneShot(ClipHeartbeat)
	h.nextPulse = h.now + h.Interval(dist)
	h.pulses++
	return true
}

// Pulses returns how many pulses have fired.
func (h *Heartbeat) Pulses() int { return h.pulses }

// Retarget points the heartbeat at a new source (a freshly spawned enemy).
func (h *Heartbeat) Retarget(source camo.Positioner) { h.source = source }
