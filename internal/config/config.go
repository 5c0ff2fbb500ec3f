// Package config loads the YAML tuning file shared by the game and the
// headless report.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Mimic-Sense/internal/camo"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// Tuning is the on-disk tuning file.
type Tuning struct {
	Visibility struct {
		MaxVertexSamples int     `yaml:"max_vertex_samples"`
		SampleInterval   float64 `yaml:"sample_interval"`
		RaycastLayers    []int   `yaml:"raycast_layers,omitempty"` // empty = all layers
		IgnoreLayers     []int   `yaml:"ignore_layers,omitempty"`
		ShowDebugRays    bool    `yaml:"show_debug_rays"`
	} `yaml:"visibility"`
	Camouflage struct {
		MimicRadius float64 `yaml:"mimic_radius"`
		SeenDelay   float64 `yaml:"seen_delay"`
		UnseenDelay float64 `yaml:"unseen_delay"`
	} `yaml:"camouflage"`
	Movement struct {
		MinDistance float64 `yaml:"min_distance"`
		InstantStop bool    `yaml:"instant_stop"`
		AgentSpeed  float64 `yaml:"agent_speed"`
	} `yaml:"movement"`
	Audio struct {
		FootstepInterval float64 `yaml:"footstep_interval"`
	} `yaml:"audio"`
	Heartbeat struct {
		MaxDetectDistance float64 `yaml:"max_detect_distance"`
		MinDetectDistance float64 `yaml:"min_detect_distance"`
		MaxPulseInterval  float64 `yaml:"max_pulse_interval"`
		MinPulseInterval  float64 `yaml:"min_pulse_interval"`
	} `yaml:"heartbeat"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the tuning the enemy prefab ships with.
func Default() Tuning {
	var t Tuning
	t.Visibility.MaxVertexSamples = 128
	t.Visibility.SampleInterval = 0.08
	t.Camouflage.MimicRadius = 10
	t.Camouflage.SeenDelay = 0.08
	t.Camouflage.UnseenDelay = 0.12
	t.Movement.MinDistance = 2
	t.Movement.InstantStop = true
	t.Movement.AgentSpeed = 3.5
	t.Audio.FootstepInterval = 0.5
	t.Heartbeat.MaxDetectDistance = 25
	t.Heartbeat.MinDetectDistance = 2
	t.Heartbeat.MaxPulseInterval = 1.5
	t.Heartbeat.MinPulseInterval = 0.25
	t.LogLevel = "info"
	return t
}

// Load reads and validates a tuning file. Fields absent from the file keep
// their defaults.
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate clamps values the engine tolerates and rejects ones it cannot.
func (t *Tuning) Validate() error {
	if t.Visibility.SampleInterval < 0 {
		t.Visibility.SampleInterval = 0
	}
	if t.Visibility.MaxVertexSamples < 1 {
		t.Visibility.MaxVertexSamples = 1
	}
	for _, layers := range [][]int{t.Visibility.RaycastLayers, t.Visibility.IgnoreLayers} {
		for _, l := range layers {
			if l < 0 || l > 31 {
				return fmt.Errorf("layer %d out of range 0-31", l)
			}
		}
	}
	if t.Camouflage.MimicRadius < 0 {
		return fmt.Errorf("mimic_radius must be >= 0, got %g", t.Camouflage.MimicRadius)
	}
	if t.Camouflage.SeenDelay < 0 || t.Camouflage.UnseenDelay < 0 {
		return fmt.Errorf("seen_delay and unseen_delay must be >= 0")
	}
	if t.Audio.FootstepInterval <= 0 {
		return fmt.Errorf("footstep_interval must be > 0, got %g", t.Audio.FootstepInterval)
	}
	if t.Heartbeat.MinDetectDistance > t.Heartbeat.MaxDetectDistance {
		return fmt.Errorf("heartbeat min_detect_distance %g exceeds max_detect_distance %g",
			t.Heartbeat.MinDetectDistance, t.Heartbeat.MaxDetectDistance)
	}
	return nil
}

// Camo converts the tuning into engine configuration.
func (t Tuning) Camo() camo.Config {
	c := camo.DefaultConfig()
	c.MaxVertexSamples = t.Visibility.MaxVertexSamples
	c.SampleInterval = t.Visibility.SampleInterval
	c.RaycastMask = layersMask(t.Visibility.RaycastLayers, scene.AllLayers)
	c.IgnoreLayers = layersMask(t.Visibility.IgnoreLayers, 0)
	c.ShowDebugRays = t.Visibility.ShowDebugRays
	c.MimicRadius = t.Camouflage.MimicRadius
	c.SeenDelay = t.Camouflage.SeenDelay
	c.UnseenDelay = t.Camouflage.UnseenDelay
	c.MinDistance = t.Movement.MinDistance
	c.InstantStop = t.Movement.InstantStop
	c.FootstepInterval = max(t.Audio.FootstepInterval, camo.MinFootstepInterval)
	return c
}

func layersMask(layers []int, empty scene.LayerMask) scene.LayerMask {
	if len(layers) == 0 {
		return empty
	}
	var m scene.LayerMask
	for _, l := range layers {
		m |= scene.LayerBit(l)
	}
	return m
}
