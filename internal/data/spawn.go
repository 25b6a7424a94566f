package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Range is a closed sampling interval.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

func (r Range) validate(name string) error {
	if r.Min > r.Max {
		return fmt.Errorf("%s: min %v > max %v", name, r.Min, r.Max)
	}
	return nil
}

// SolidSpawn holds the ranges new rotating solids are sampled from.
type SolidSpawn struct {
	Position        Range `yaml:"position"`
	Angle           Range `yaml:"angle"`            // degrees
	AngularVelocity Range `yaml:"angular_velocity"` // degrees per frame
}

// LightSpawn holds the ranges new point lights are sampled from.
type LightSpawn struct {
	Position Range `yaml:"position"`
	Color    Range `yaml:"color"`
	Strength Range `yaml:"strength"`
}

// SpawnTable is the content policy for default component data.
type SpawnTable struct {
	Solid SolidSpawn `yaml:"solid"`
	Light LightSpawn `yaml:"light"`
}

// DefaultSpawnTable matches the demo's stock look.
func DefaultSpawnTable() *SpawnTable {
	return &SpawnTable{
		Solid: SolidSpawn{
			Position:        Range{-10, 10},
			Angle:           Range{0, 360},
			AngularVelocity: Range{-0.2, 0.2},
		},
		Light: LightSpawn{
			Position: Range{-10, 10},
			Color:    Range{0.5, 1.0},
			Strength: Range{2, 5},
		},
	}
}

// LoadSpawnTable loads spawn.yaml. Fields absent from the file keep their
// defaults.
func LoadSpawnTable(path string) (*SpawnTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn table: %w", err)
	}
	return ParseSpawnTable(raw)
}

func ParseSpawnTable(raw []byte) (*SpawnTable, error) {
	t := DefaultSpawnTable()
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse spawn table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("spawn table: %w", err)
	}
	return t, nil
}

func (t *SpawnTable) Validate() error {
	checks := []struct {
		name string
		r    Range
	}{
		{"solid.position", t.Solid.Position},
		{"solid.angle", t.Solid.Angle},
		{"solid.angular_velocity", t.Solid.AngularVelocity},
		{"light.position", t.Light.Position},
		{"light.color", t.Light.Color},
		{"light.strength", t.Light.Strength},
	}
	for _, c := range checks {
		if err := c.r.validate(c.name); err != nil {
			return err
		}
	}
	return nil
}
