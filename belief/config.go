package belief

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the empirically chosen numeric constants of the query
// layer. The defaults match prior validated behavior; overriding any of
// them changes results and requires re-validation.
type Config struct {
	// WeakMassCutoff is the minimum share of total probability the
	// fitted CDF must cover between the hull bounds before a query
	// stops warning about a weak mass distribution.
	WeakMassCutoff float64 `yaml:"weak_mass_cutoff"`

	// DensityStep is the half-width of the centered finite difference
	// used for density queries.
	DensityStep float64 `yaml:"density_step"`

	// DensityFloor snaps near-zero density estimates to zero.
	DensityFloor float64 `yaml:"density_floor"`

	// DiracDensity is the sentinel density reported at an exact point
	// mass.
	DiracDensity float64 `yaml:"dirac_density"`

	// SupportIterations bounds the step-halving search for support
	// interval endpoints.
	SupportIterations int `yaml:"support_iterations"`

	// SupportTolerance stops the support search early once the
	// rescaled CDF is close enough to its target.
	SupportTolerance float64 `yaml:"support_tolerance"`

	// MinAversion is the risk-aversion magnitude below which the
	// aversion value interpolates linearly toward the central value
	// instead of querying an unstable near-zero support level.
	MinAversion float64 `yaml:"min_aversion"`

	// MaxAversion is the practical bound on the risk-aversion
	// parameter.
	MaxAversion float64 `yaml:"max_aversion"`
}

// DefaultConfig returns the validated constants.
func DefaultConfig() Config {
	return Config{
		WeakMassCutoff:    0.9,
		DensityStep:       1e-4,
		DensityFloor:      1e-9,
		DiracDensity:      1e10,
		SupportIterations: 24,
		SupportTolerance:  1e-6,
		MinAversion:       1.0,
		MaxAversion:       30.0,
	}
}

// LoadConfig reads a YAML tuning file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	return cfg, nil
}
