package config

import "github.com/san-kum/sitnikov/internal/scan"

var Presets = map[string]*Config{
	"circular": {
		A: 1.0, Ecc: 0.0, Periods: 20, Step: 0.05, Integrator: "rk4",
		Init: InitConfig{Z0: 0.5, V0: 0.0},
		Grid: GridConfig{
			Z:    scan.Range{Start: 0.1, Stop: 2.0, Step: 0.1},
			V:    scan.Range{Start: 0, Stop: 0, Step: 0.1},
			Mode: "fixed_velocity",
		},
	},
	"eccentric": {
		A: 1.0, Ecc: 0.5, Periods: 50, Step: 0.05, Integrator: "dopri",
		Tolerance: 1e-10,
		Init:      InitConfig{Z0: 0.5, V0: 0.0},
		Grid: GridConfig{
			Z:    scan.Range{Start: 0.1, Stop: 2.0, Step: 0.1},
			V:    scan.Range{Start: 0, Stop: 0, Step: 0.1},
			Mode: "fixed_velocity",
		},
	},
	"chaotic": {
		A: 1.0, Ecc: 0.8, Periods: 100, Step: 0.02, Integrator: "dopri",
		Tolerance: 1e-11,
		Init:      InitConfig{Z0: 1.2, V0: 0.0},
		Grid: GridConfig{
			Z:    scan.Range{Start: 0.5, Stop: 1.5, Step: 0.05},
			V:    scan.Range{Start: -0.5, Stop: 0.5, Step: 0.05},
			Mode: "full_grid",
		},
	},
	"survey": {
		A: 1.0, Ecc: 0.2, Periods: 30, Step: 0.05, Integrator: "rk4",
		Init: InitConfig{Z0: 0.5, V0: 0.0},
		Grid: GridConfig{
			Z:    scan.Range{Start: 0.0, Stop: 3.0, Step: 0.25},
			V:    scan.Range{Start: -1.0, Stop: 1.0, Step: 0.25},
			Mode: "full_grid",
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
