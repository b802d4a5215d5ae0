package cluster

import "testing"

func TestDBSCANNoiseExcluded(t *testing.T) {
	// A dense burst plus one isolated hit: with a density threshold of 3 the
	// isolated hit is noise and belongs to no cluster, even though the grid
	// algorithm would keep it as a singleton component.
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 10},
		{X: 11, Y: 10, ToA: 100, ToT: 10},
		{X: 10, Y: 11, ToA: 101, ToT: 10},
		{X: 11, Y: 11, ToA: 101, ToT: 10},
		{X: 200, Y: 200, ToA: 100, ToT: 10},
	})
	cfg := Config{Radius: 2, TemporalWindow: 5, MinClusterSize: 3}

	var e Engine
	clusters, err := e.Cluster(store, cfg, AlgorithmDBSCAN)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Size != 4 {
		t.Errorf("cluster size = %d, want 4", clusters[0].Size)
	}
	for _, idx := range clusters[0].Members {
		if idx == 4 {
			t.Error("noise hit absorbed into cluster")
		}
	}
}

func TestDBSCANBorderPointJoinsCluster(t *testing.T) {
	// Three collinear hits with radius 2: the middle hit sees both ends
	// (core with threshold 3); the ends see only the middle (border). Both
	// border hits must be absorbed into the core's cluster.
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 10},
		{X: 12, Y: 10, ToA: 100, ToT: 10},
		{X: 14, Y: 10, ToA: 100, ToT: 10},
	})
	cfg := Config{Radius: 2, TemporalWindow: 5, MinClusterSize: 3}

	var e Engine
	clusters, err := e.Cluster(store, cfg, AlgorithmDBSCAN)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(clusters) != 1 || clusters[0].Size != 3 {
		t.Fatalf("got %v, want one cluster of 3", clusters)
	}
}

func TestDBSCANCorePointsChainAcrossTime(t *testing.T) {
	// A temporally drifting track: consecutive hits are within the window of
	// their neighbors but the first and last are not. Density reachability
	// must still chain them into one cluster.
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 10},
		{X: 11, Y: 10, ToA: 103, ToT: 10},
		{X: 12, Y: 10, ToA: 106, ToT: 10},
		{X: 13, Y: 10, ToA: 109, ToT: 10},
	})
	cfg := Config{Radius: 2, TemporalWindow: 4, MinClusterSize: 2}

	var e Engine
	clusters, err := e.Cluster(store, cfg, AlgorithmDBSCAN)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(clusters) != 1 || clusters[0].Size != 4 {
		t.Fatalf("got %v, want one cluster of 4", clusters)
	}
}

func TestDBSCANAllNoise(t *testing.T) {
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100},
		{X: 100, Y: 100, ToA: 100},
		{X: 200, Y: 200, ToA: 100},
	})
	cfg := Config{Radius: 2, TemporalWindow: 5, MinClusterSize: 2}

	var e Engine
	clusters, err := e.Cluster(store, cfg, AlgorithmDBSCAN)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(clusters) != 0 {
		t.Fatalf("got %d clusters from all-noise input, want 0", len(clusters))
	}
}
