// Package config holds the tunables of the mesh engine. Values come from
// built-in defaults, optionally overlaid with a TOML document:
//
//	[engine]
//	timeout = "5s"
//
//	[subdivision]
//	max_steps = 6
//	self_check = true
//
//	[kernel]
//	mesh_cells = 64
//
//	[normals]
//	scale = 0.2
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the complete engine configuration.
type Config struct {
	Engine      Engine      `toml:"engine"`
	Subdivision Subdivision `toml:"subdivision"`
	Kernel      Kernel      `toml:"kernel"`
	Normals     Normals     `toml:"normals"`
}

// Engine configures script evaluation.
type Engine struct {
	Timeout Duration `toml:"timeout"` // maximum wall time of one evaluation
}

// Subdivision configures refinement passes.
type Subdivision struct {
	MaxSteps  int  `toml:"max_steps"`  // upper bound of steps per pass
	SelfCheck bool `toml:"self_check"` // run mesh.Check after every pass
}

// Kernel configures solid meshing.
type Kernel struct {
	MeshCells int `toml:"mesh_cells"` // marching cubes cells along the longest side
}

// Normals configures the normals line mesh.
type Normals struct {
	Scale float64 `toml:"scale"`
}

// Duration is a time.Duration that reads and writes as a string like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "config: invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:      Engine{Timeout: Duration{5 * time.Second}},
		Subdivision: Subdivision{MaxSteps: 6, SelfCheck: true},
		Kernel:      Kernel{MeshCells: 64},
		Normals:     Normals{Scale: 0.2},
	}
}

// Parse overlays the TOML document data onto the defaults and validates the
// result. Keys missing from data keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Engine.Timeout.Duration <= 0:
		return errors.Errorf("config: engine.timeout must be positive, got %s", c.Engine.Timeout)
	case c.Subdivision.MaxSteps < 0:
		return errors.Errorf("config: subdivision.max_steps must not be negative, got %d", c.Subdivision.MaxSteps)
	case c.Kernel.MeshCells < 8:
		return errors.Errorf("config: kernel.mesh_cells must be at least 8, got %d", c.Kernel.MeshCells)
	case c.Normals.Scale <= 0:
		return errors.Errorf("config: normals.scale must be positive, got %g", c.Normals.Scale)
	}
	return nil
}

// Encode returns the configuration as a TOML document.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	return data, nil
}
