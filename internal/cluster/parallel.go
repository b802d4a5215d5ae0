package cluster

import (
	"sort"
	"sync"

	"github.com/openbeamline/tpxcluster/internal/monitoring"
)

// parallelMinHits is the input size below which the parallel path falls back
// to the sequential grid strategy; slicing overhead dominates under this.
const parallelMinHits = 4096

// ClusterParallel clusters with grid semantics using data parallelism. The
// store is cut into contiguous temporal slices, one per worker; each slice
// overlaps its neighbors by a guard band of at least the temporal window, so
// every cross-boundary neighbor pair is seen by at least one worker. The
// parallel phase is read-only against the shared store and writes only
// slice-local state; a sequential merge pass then unions slice-local
// components that share guard-band hits.
//
// The output is identical to the sequential grid algorithm for the same
// store and config.
func ClusterParallel(store *HitStore, cfg Config, workers int) ([]Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := store.Len()
	if n == 0 {
		return []Cluster{}, nil
	}
	if workers <= 1 || n < parallelMinHits {
		return gridStrategy{}.run(store, cfg)
	}
	if workers > n {
		workers = n
	}

	// Temporal order over hit indices; ties broken by index so the slicing
	// is reproducible.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := store.At(order[a]).Time(), store.At(order[b]).Time()
		if ta != tb {
			return ta < tb
		}
		return order[a] < order[b]
	})

	timeAt := func(pos int) float64 { return store.At(order[pos]).Time() }

	// The eviction slack keeps the guard band wide enough that sub-tick
	// corrections cannot push a neighbor pair outside it.
	guard := cfg.TemporalWindow + evictionSlack

	sliceLen := (n + workers - 1) / workers
	type sliceRange struct{ lo, hi int } // extended range into order
	ranges := make([]sliceRange, 0, workers)
	for lo := 0; lo < n; lo += sliceLen {
		hi := lo + sliceLen
		if hi > n {
			hi = n
		}
		extLo, extHi := lo, hi
		for extLo > 0 && timeAt(lo)-timeAt(extLo-1) <= guard {
			extLo--
		}
		for extHi < n && timeAt(extHi)-timeAt(hi-1) <= guard {
			extHi++
		}
		ranges = append(ranges, sliceRange{extLo, extHi})
	}

	// Parallel phase: each worker clusters its slice independently and
	// emits components as lists of global hit indices.
	components := make([][][]int, len(ranges))
	var wg sync.WaitGroup
	for w, r := range ranges {
		wg.Add(1)
		go func(w int, r sliceRange) {
			defer wg.Done()
			components[w] = clusterSlice(store, cfg, order[r.lo:r.hi])
		}(w, r)
	}
	wg.Wait()

	// Sequential merge: replay each slice-local component into a global
	// union-find. Guard-band hits appear in two slices and reconcile the
	// components on either side of the boundary.
	uf := newUnionFind(n)
	for _, sliceComponents := range components {
		for _, members := range sliceComponents {
			for k := 1; k < len(members); k++ {
				uf.union(int32(members[0]), int32(members[k]))
			}
		}
	}

	monitoring.Debugf("cluster: parallel grid over %d hits in %d slices", n, len(ranges))
	return materializeComponents(store, uf, cfg.MinClusterSize), nil
}

// clusterSlice finds the connected components among the given hit indices
// using a slice-local spatial index and union-find. No size filtering
// happens here: a component that looks too small within one slice may grow
// past the threshold when merged across the boundary.
func clusterSlice(store *HitStore, cfg Config, indices []int) [][]int {
	pred := newNeighborPredicate(cfg)
	si := newSpatialIndex(store, cfg.cellSize(), indices)

	local := make(map[int32]int32, len(indices))
	for pos, idx := range indices {
		local[int32(idx)] = int32(pos)
	}

	uf := newUnionFind(len(indices))
	for pos, idx := range indices {
		h := store.At(idx)
		si.visitCandidates(h, func(j int32) {
			if int(j) <= idx {
				return
			}
			if pred.neighbors(h, store.At(int(j))) {
				uf.union(int32(pos), local[j])
			}
		})
	}

	memberLists := make(map[int32][]int)
	for pos, idx := range indices {
		root := uf.find(int32(pos))
		memberLists[root] = append(memberLists[root], idx)
	}
	out := make([][]int, 0, len(memberLists))
	for _, members := range memberLists {
		out = append(out, members)
	}
	return out
}
