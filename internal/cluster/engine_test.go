package cluster

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allAlgorithms = []Algorithm{AlgorithmGrid, AlgorithmStreaming, AlgorithmDBSCAN}

// scenarioConfig is the parameter set from the merge/no-merge acceptance
// scenarios: generous window, 5-pixel radius.
func scenarioConfig(minSize int) Config {
	return Config{Radius: 5, TemporalWindow: 200, MinClusterSize: minSize}
}

// partition extracts the member-index sets of a result, sorted for
// order-independent comparison.
func partition(clusters []Cluster) [][]int {
	out := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		members := append([]int(nil), c.Members...)
		sort.Ints(members)
		out = append(out, members)
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// syntheticBursts generates sorted hits forming small bursts around random
// pixel centers, the shape real acquisitions produce.
func syntheticBursts(rng *rand.Rand, bursts int) []Hit {
	var hits []Hit
	toa := uint32(1000)
	for b := 0; b < bursts; b++ {
		cx := uint16(rng.Intn(240) + 8)
		cy := uint16(rng.Intn(240) + 8)
		size := rng.Intn(6) + 1
		for k := 0; k < size; k++ {
			hits = append(hits, Hit{
				X:    cx + uint16(rng.Intn(3)),
				Y:    cy + uint16(rng.Intn(3)),
				ToA:  toa + uint32(rng.Intn(3)),
				ToT:  uint16(rng.Intn(200) + 1),
				FToA: uint16(rng.Intn(16)),
			})
		}
		toa += uint32(rng.Intn(500) + 50)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].ToA != hits[j].ToA {
			return hits[i].ToA < hits[j].ToA
		}
		return hits[i].FToA > hits[j].FToA
	})
	return hits
}

func TestScenarioMerge(t *testing.T) {
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 50},
		{X: 10, Y: 11, ToA: 150, ToT: 50},
	})

	var e Engine
	for _, algo := range allAlgorithms {
		clusters, err := e.Cluster(store, scenarioConfig(1), algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		if len(clusters) != 1 {
			t.Fatalf("%s: got %d clusters, want 1", algo, len(clusters))
		}
		c := clusters[0]
		if c.Size != 2 {
			t.Errorf("%s: cluster size = %d, want 2", algo, c.Size)
		}
		if math.Abs(c.CentroidX-10.0) > 1e-9 || math.Abs(c.CentroidY-10.5) > 1e-9 {
			t.Errorf("%s: centroid = (%v, %v), want (10.0, 10.5)", algo, c.CentroidX, c.CentroidY)
		}
		if c.TimeMin != 100 || c.TimeMax != 150 {
			t.Errorf("%s: time extent = [%d, %d], want [100, 150]", algo, c.TimeMin, c.TimeMax)
		}
		if c.TotalToT != 100 {
			t.Errorf("%s: total tot = %d, want 100", algo, c.TotalToT)
		}
	}
}

func TestScenarioNoMerge(t *testing.T) {
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 50},
		{X: 10, Y: 11, ToA: 150, ToT: 50},
		{X: 200, Y: 200, ToA: 900, ToT: 50},
	})

	var e Engine
	for _, algo := range allAlgorithms {
		clusters, err := e.Cluster(store, scenarioConfig(1), algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		if len(clusters) != 2 {
			t.Fatalf("%s: got %d clusters, want 2", algo, len(clusters))
		}
		sizes := []int{clusters[0].Size, clusters[1].Size}
		sort.Ints(sizes)
		if sizes[0] != 1 || sizes[1] != 2 {
			t.Errorf("%s: cluster sizes = %v, want [1 2]", algo, sizes)
		}

		// Raising the threshold drops the singleton.
		clusters, err = e.Cluster(store, scenarioConfig(2), algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		if len(clusters) != 1 || clusters[0].Size != 2 {
			t.Errorf("%s: with min size 2 got %d clusters, want one of size 2", algo, len(clusters))
		}
	}
}

func TestScenarioEmptyInput(t *testing.T) {
	var e Engine
	for _, algo := range allAlgorithms {
		clusters, err := e.Cluster(NewHitStore(0), DefaultConfig(), algo)
		if err != nil {
			t.Fatalf("%s: Cluster() on empty store error = %v", algo, err)
		}
		if len(clusters) != 0 {
			t.Errorf("%s: got %d clusters from empty input, want 0", algo, len(clusters))
		}
	}
}

func TestInvalidConfigRejectedBeforeProcessing(t *testing.T) {
	store := StoreFromHits([]Hit{{X: 1, Y: 1, ToA: 1}})
	var e Engine
	_, err := e.Cluster(store, Config{Radius: -1, TemporalWindow: 3, MinClusterSize: 1}, AlgorithmGrid)
	if !errors.Is(err, ErrRadius) {
		t.Fatalf("Cluster() error = %v, want ErrRadius", err)
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	store := StoreFromHits([]Hit{{X: 1, Y: 1, ToA: 1}})
	var e Engine
	_, err := e.Cluster(store, DefaultConfig(), Algorithm("voronoi"))
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("Cluster() error = %v, want ErrUnknownAlgorithm", err)
	}
	var ae *AlgorithmError
	if !errors.As(err, &ae) || ae.Selector != "voronoi" {
		t.Fatalf("error %v did not carry the selector", err)
	}
}

func TestPartitionProperty(t *testing.T) {
	// With min cluster size 1 every hit appears in exactly one cluster.
	rng := rand.New(rand.NewSource(7))
	hits := syntheticBursts(rng, 60)
	store := StoreFromHits(hits)
	cfg := Config{Radius: 5, TemporalWindow: 10, MinClusterSize: 1}

	var e Engine
	for _, algo := range allAlgorithms {
		clusters, err := e.Cluster(store, cfg, algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		seen := make([]int, store.Len())
		for _, c := range clusters {
			for _, idx := range c.Members {
				seen[idx]++
			}
		}
		for i, count := range seen {
			if count != 1 {
				t.Fatalf("%s: hit %d appears in %d clusters, want 1", algo, i, count)
			}
		}
	}
}

func TestThresholdProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	hits := syntheticBursts(rng, 60)
	store := StoreFromHits(hits)

	var e Engine
	for _, minSize := range []int{2, 3, 5} {
		cfg := Config{Radius: 5, TemporalWindow: 10, MinClusterSize: minSize}
		for _, algo := range allAlgorithms {
			clusters, err := e.Cluster(store, cfg, algo)
			if err != nil {
				t.Fatalf("%s: Cluster() error = %v", algo, err)
			}
			for _, c := range clusters {
				if c.Size < minSize {
					t.Fatalf("%s: emitted cluster of size %d below threshold %d", algo, c.Size, minSize)
				}
				if c.Size != len(c.Members) {
					t.Fatalf("%s: Size %d disagrees with member count %d", algo, c.Size, len(c.Members))
				}
			}
		}
	}
}

func TestConnectivityProperty(t *testing.T) {
	// Every pair of hits in a cluster must be linked by a chain of
	// neighbor-predicate edges inside that cluster.
	rng := rand.New(rand.NewSource(13))
	hits := syntheticBursts(rng, 40)
	store := StoreFromHits(hits)
	cfg := Config{Radius: 5, TemporalWindow: 10, MinClusterSize: 1}
	pred := newNeighborPredicate(cfg)

	var e Engine
	for _, algo := range []Algorithm{AlgorithmGrid, AlgorithmStreaming} {
		clusters, err := e.Cluster(store, cfg, algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		for ci, c := range clusters {
			reached := map[int]bool{c.Members[0]: true}
			frontier := []int{c.Members[0]}
			for len(frontier) > 0 {
				cur := frontier[len(frontier)-1]
				frontier = frontier[:len(frontier)-1]
				for _, other := range c.Members {
					if !reached[other] && pred.neighbors(store.At(cur), store.At(other)) {
						reached[other] = true
						frontier = append(frontier, other)
					}
				}
			}
			if len(reached) != c.Size {
				t.Fatalf("%s: cluster %d is not connected: reached %d of %d members",
					algo, ci, len(reached), c.Size)
			}
		}
	}
}

func TestCrossAlgorithmEquivalenceAtMinSizeOne(t *testing.T) {
	// With min cluster size 1 every point is trivially a DBSCAN core point,
	// so all three algorithms must produce the identical partition.
	rng := rand.New(rand.NewSource(17))
	hits := syntheticBursts(rng, 80)
	store := StoreFromHits(hits)
	cfg := Config{Radius: 5, TemporalWindow: 10, MinClusterSize: 1}

	var e Engine
	reference, err := e.Cluster(store, cfg, AlgorithmGrid)
	if err != nil {
		t.Fatalf("grid: Cluster() error = %v", err)
	}
	for _, algo := range []Algorithm{AlgorithmStreaming, AlgorithmDBSCAN} {
		got, err := e.Cluster(store, cfg, algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		if diff := cmp.Diff(partition(reference), partition(got)); diff != "" {
			t.Errorf("%s partition differs from grid (-grid +%s):\n%s", algo, algo, diff)
		}
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	hits := syntheticBursts(rng, 50)
	store := StoreFromHits(hits)
	cfg := Config{Radius: 5, TemporalWindow: 10, MinClusterSize: 2}

	var e Engine
	for _, algo := range allAlgorithms {
		first, err := e.Cluster(store, cfg, algo)
		if err != nil {
			t.Fatalf("%s: Cluster() error = %v", algo, err)
		}
		for run := 0; run < 3; run++ {
			again, err := e.Cluster(store, cfg, algo)
			if err != nil {
				t.Fatalf("%s: Cluster() error = %v", algo, err)
			}
			if diff := cmp.Diff(first, again); diff != "" {
				t.Fatalf("%s: repeated invocation differs:\n%s", algo, diff)
			}
		}
	}
}

func TestClusterWithSummary(t *testing.T) {
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 50},
		{X: 10, Y: 11, ToA: 150, ToT: 50},
		{X: 200, Y: 200, ToA: 900, ToT: 50},
	})

	var e Engine
	clusters, summary, err := e.ClusterWithSummary(store, scenarioConfig(2), AlgorithmDBSCAN)
	if err != nil {
		t.Fatalf("ClusterWithSummary() error = %v", err)
	}
	if summary.RunID == "" {
		t.Error("summary has empty run ID")
	}
	if summary.Algorithm != "dbscan" {
		t.Errorf("summary algorithm = %q, want dbscan", summary.Algorithm)
	}
	if summary.HitsIn != 3 || summary.ClustersOut != len(clusters) {
		t.Errorf("summary counts = %+v inconsistent with result", summary)
	}
	if summary.HitsClustered != 2 || summary.NoiseHits != 1 {
		t.Errorf("clustered/noise = %d/%d, want 2/1", summary.HitsClustered, summary.NoiseHits)
	}
}
