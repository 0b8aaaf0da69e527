package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sitnikov/internal/orbit"
	"github.com/san-kum/sitnikov/internal/scan"
	"github.com/san-kum/sitnikov/internal/sim"
)

const (
	DefaultA       = 1.0
	DefaultEcc     = 0.0
	DefaultPeriods = 10
	DefaultStep    = 0.05
	DefaultZ0      = 0.5
	DefaultV0      = 0.0
)

// Config is the YAML-serializable description of a full run: orbital
// elements, sampling schedule, solver choice and the initial-condition
// grid for scans.
type Config struct {
	A          float64    `yaml:"a"`
	Ecc        float64    `yaml:"e"`
	Periods    int        `yaml:"periods"`
	Step       float64    `yaml:"step"`
	Integrator string     `yaml:"integrator"`
	Tolerance  float64    `yaml:"tolerance"`
	Workers    int        `yaml:"workers"`
	Init       InitConfig `yaml:"init_state"`
	Grid       GridConfig `yaml:"grid"`
}

type InitConfig struct {
	Z0 float64 `yaml:"z0"`
	V0 float64 `yaml:"v0"`
}

// GridConfig mirrors scan.Spec with the mode spelled out as a string so
// config files stay readable.
type GridConfig struct {
	Z    scan.Range `yaml:"z"`
	V    scan.Range `yaml:"v"`
	Mode string     `yaml:"mode"` // full_grid | fixed_velocity
}

// Spec converts the grid section into a scan.Spec.
func (g GridConfig) Spec() (scan.Spec, error) {
	s := scan.Spec{Z: g.Z, V: g.V}
	switch g.Mode {
	case "", "full_grid":
		s.Mode = scan.FullGrid
	case "fixed_velocity":
		s.Mode = scan.FixedVelocity
	default:
		return scan.Spec{}, fmt.Errorf("unknown grid mode %q", g.Mode)
	}
	return s, nil
}

func DefaultConfig() *Config {
	return &Config{
		A:          DefaultA,
		Ecc:        DefaultEcc,
		Periods:    DefaultPeriods,
		Step:       DefaultStep,
		Integrator: "rk4",
		Tolerance:  1e-9,
		Init:       InitConfig{Z0: DefaultZ0, V0: DefaultV0},
		Grid: GridConfig{
			Z:    scan.Range{Start: 0.1, Stop: 2.0, Step: 0.1},
			V:    scan.Range{Start: 0, Stop: 0, Step: 0.1},
			Mode: "fixed_velocity",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Elements validates and returns the orbital elements of the primaries.
func (c *Config) Elements() (orbit.Elements, error) {
	return orbit.NewElements(c.A, c.Ecc)
}

// SimConfig builds the sampling schedule for the run.
func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Periods = c.Periods
	cfg.Step = c.Step
	if c.Tolerance > 0 {
		cfg.Tolerance = c.Tolerance
	}
	return cfg
}
