package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
)

type fixedPos geom.Vec3

func (p *fixedPos) Position() geom.Vec3 { return geom.Vec3(*p) }

type fakeVolumePlayer struct {
	plays  map[string]int
	volume map[string]float64
}

func newFakeVolumePlayer() *fakeVolumePlayer {
	return &fakeVolumePlayer{plays: map[string]int{}, volume: map[string]float64{}}
}

func (f *fakeVolumePlayer) PlayOneShot(clip string)          { f.plays[clip]++ }
func (f *fakeVolumePlayer) SetVolume(clip string, v float64) { f.volume[clip] = v }

func TestHeartbeat_IntensityAndInterval(t *testing.T) {
	h := NewHeartbeat(DefaultHeartbeat(), nil, nil, nil)
	cases := []struct {
		dist, intensity, interval float64
	}{
		{25, 0, 1.5},
		{2, 1, 0.25},
		{13.5, 0.5, 0.875},
		{40, 0, 1.5},
		{0.5, 1, 0.25},
	}
	for _, c := range cases {
		if got := h.Intensity(c.dist); math.Abs(got-c.intensity) > 1e-9 {
			t.Fatalf("Intensity(%.1f) = %.3f, want %.3f", c.dist, got, c.intensity)
		}
		if got := h.Interval(c.dist); math.Abs(got-c.interval) > 1e-9 {
			t.Fatalf("Interval(%.1f) = %.3f, want %.3f", c.dist, got, c.interval)
		}
	}
}

func TestHeartbeat_SilentOutOfRange(t *testing.T) {
	src, player := fixedPos(geom.V(0, 0, 30)), fixedPos(geom.Zero)
	audio := newFakeVolumePlayer()
	h := NewHeartbeat(DefaultHeartbeat(), &src, &player, audio)
	for i := 0; i < 120; i++ {
		if h.Update(TickDT) {
			t.Fatal("no pulse expected beyond max detect distance")
		}
	}
	if audio.plays[ClipHeartbeat] != 0 {
		t.Fatalf("expected no heartbeat plays, got %d", audio.plays[ClipHeartbeat])
	}
}

func TestHeartbeat_NoSourceIsSilent(t *testing.T) {
	player := fixedPos(geom.Zero)
	audio := newFakeVolumePlayer()
	h := NewHeartbeat(DefaultHeartbeat(), nil, &player, audio)
	if h.Update(TickDT) {
		t.Fatal("heartbeat without a source should not pulse")
	}
}

func TestHeartbeat_PulseRateFollowsDistance(t *testing.T) {
	count := func(dist float64) int {
		src, player := fixedPos(geom.V(0, 0, dist)), fixedPos(geom.Zero)
		h := NewHeartbeat(DefaultHeartbeat(), &src, &player, newFakeVolumePlayer())
		for i := 0; i < 3*TicksPerSecond; i++ {
			h.Update(TickDT)
		}
		return h.Pulses()
	}
	far, near := count(24), count(2)
	if far < 1 {
		t.Fatal("first pulse should fire immediately in range")
	}
	if near <= far {
		t.Fatalf("closer source should pulse faster: near=%d far=%d", near, far)
	}
	// 0.25s period over 3s.
	if near < 11 || near > 13 {
		t.Fatalf("expected ~12 pulses at min distance, got %d", near)
	}
}

func TestHeartbeat_VolumeRisesAsSourceNears(t *testing.T) {
	src, player := fixedPos(geom.V(0, 0, 20)), fixedPos(geom.Zero)
	audio := newFakeVolumePlayer()
	h := NewHeartbeat(DefaultHeartbeat(), &src, &player, audio)
	h.Update(TickDT)
	far := audio.volume[ClipHeartbeat]
	src = fixedPos(geom.V(0, 0, 3))
	h.Update(TickDT)
	near := audio.volume[ClipHeartbeat]
	if far < 0.1 || near > 1 || near <= far {
		t.Fatalf("volume should rise within [0.1,1]: far=%.3f near=%.3f", far, near)
	}
}

func TestHeartbeat_Retarget(t *testing.T) {
	player := fixedPos(geom.Zero)
	a, b := fixedPos(geom.V(0, 0, 40)), fixedPos(geom.V(0, 0, 5))
	audio := newFakeVolumePlayer()
	h := NewHeartbeat(DefaultHeartbeat(), &a, &player, audio)
	h.Update(TickDT)
	if h.Pulses() != 0 {
		t.Fatal("far source should not pulse")
	}
	h.Retarget(&b)
	h.Update(TickDT)
	if h.Pulses() != 1 {
		t.Fatalf("retargeted heartbeat should pulse, got %d", h.Pulses())
	}
}
