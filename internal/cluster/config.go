package cluster

// Defaults match the VENUS beamline acquisition setup: 25 ns coarse ticks,
// a 75 ns correlation window and a 5-pixel charge-sharing radius.
const (
	// DefaultRadius is the default spatial neighbor radius in pixels.
	DefaultRadius = 5.0
	// DefaultTemporalWindow is the default temporal window in coarse ticks.
	DefaultTemporalWindow = 3.0
	// DefaultMinClusterSize is the default minimum cluster size.
	DefaultMinClusterSize = 1
)

// Config holds the parameters shared by every clustering algorithm.
type Config struct {
	// Radius is the spatial neighbor threshold in pixels (Euclidean).
	Radius float64
	// TemporalWindow is the temporal neighbor threshold in coarse ticks,
	// compared against the combined ToA/FToA time scalar.
	TemporalWindow float64
	// MinClusterSize is the smallest component emitted as a cluster. For
	// DBSCAN it doubles as the core-point density threshold.
	MinClusterSize int
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		Radius:         DefaultRadius,
		TemporalWindow: DefaultTemporalWindow,
		MinClusterSize: DefaultMinClusterSize,
	}
}

// Validate rejects configurations that violate the parameter invariants.
// It is called by the engine before any hit is touched.
func (c Config) Validate() error {
	if !(c.Radius > 0) {
		return &ConfigError{Field: "radius", Err: ErrRadius}
	}
	if !(c.TemporalWindow > 0) {
		return &ConfigError{Field: "temporal_window", Err: ErrTemporalWindow}
	}
	if c.MinClusterSize < 1 {
		return &ConfigError{Field: "min_cluster_size", Err: ErrMinClusterSize}
	}
	return nil
}

// cellSize returns the spatial grid cell side for this config. Cell side
// equals the radius rounded up, so a 3x3 cell neighborhood is guaranteed to
// cover every point within Radius.
func (c Config) cellSize() int {
	cs := int(c.Radius)
	if float64(cs) < c.Radius {
		cs++
	}
	if cs < 1 {
		cs = 1
	}
	return cs
}
