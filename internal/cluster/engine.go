package cluster

import (
	"time"

	"github.com/google/uuid"

	"github.com/openbeamline/tpxcluster/internal/monitoring"
)

// Algorithm selects one of the clustering strategies. The set is closed:
// each algorithm implements the same input/output contract and differs only
// in how it discovers and assembles neighbor relations.
type Algorithm string

const (
	// AlgorithmGrid is exact connectivity via spatial index + union-find.
	AlgorithmGrid Algorithm = "grid"
	// AlgorithmStreaming is single-pass sliding-window clustering for
	// temporally sorted input.
	AlgorithmStreaming Algorithm = "streaming"
	// AlgorithmDBSCAN is density-based clustering with core/border/noise
	// classification.
	AlgorithmDBSCAN Algorithm = "dbscan"
)

// strategy is the internal contract each algorithm implements.
type strategy interface {
	name() string
	run(store *HitStore, cfg Config) ([]Cluster, error)
}

func strategyFor(algo Algorithm) (strategy, error) {
	switch algo {
	case AlgorithmGrid:
		return gridStrategy{}, nil
	case AlgorithmStreaming:
		return streamStrategy{}, nil
	case AlgorithmDBSCAN:
		return dbscanStrategy{}, nil
	default:
		return nil, &AlgorithmError{Selector: string(algo)}
	}
}

// Engine dispatches clustering invocations. It holds no state between
// invocations; a zero Engine is ready to use and safe for concurrent use.
type Engine struct{}

// Cluster groups the hits in store into physical-event clusters using the
// selected algorithm. The configuration is validated before any hit is
// touched; the store is never mutated. An empty store yields an empty
// result and no error.
func (Engine) Cluster(store *HitStore, cfg Config, algo Algorithm) ([]Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := strategyFor(algo)
	if err != nil {
		return nil, err
	}
	return s.run(store, cfg)
}

// RunSummary describes one completed clustering invocation.
type RunSummary struct {
	RunID         string
	Algorithm     string
	HitsIn        int
	ClustersOut   int
	HitsClustered int
	NoiseHits     int
	Duration      time.Duration
}

// ClusterWithSummary runs Cluster and reports aggregate statistics for the
// invocation, tagged with a fresh run ID, and logs a one-line summary.
func (e Engine) ClusterWithSummary(store *HitStore, cfg Config, algo Algorithm) ([]Cluster, RunSummary, error) {
	start := time.Now()
	clusters, err := e.Cluster(store, cfg, algo)
	if err != nil {
		return nil, RunSummary{}, err
	}

	summary := RunSummary{
		RunID:       uuid.NewString(),
		Algorithm:   string(algo),
		HitsIn:      store.Len(),
		ClustersOut: len(clusters),
		Duration:    time.Since(start),
	}
	for _, c := range clusters {
		summary.HitsClustered += c.Size
	}
	summary.NoiseHits = summary.HitsIn - summary.HitsClustered

	monitoring.Logf("cluster: run %s algo=%s hits=%d clusters=%d clustered=%d noise=%d in %s",
		summary.RunID, summary.Algorithm, summary.HitsIn, summary.ClustersOut,
		summary.HitsClustered, summary.NoiseHits, summary.Duration)
	return clusters, summary, nil
}
