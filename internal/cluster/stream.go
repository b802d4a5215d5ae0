package cluster

import "sort"

// streamStrategy clusters in a single pass over temporally ordered input.
// It keeps a sliding window of active hits within the temporal window of the
// newest hit; components whose members have all left the window can never
// grow again and are finalized immediately. Memory is bounded by window
// occupancy rather than input size, which suits online ingestion.
//
// The pass requires non-decreasing ToA. A regression aborts with an
// OrderingError rather than producing a silently wrong partition.
type streamStrategy struct{}

func (streamStrategy) name() string { return "streaming" }

// evictionSlack widens the eviction threshold by one coarse tick. The fine
// ToA correction can pull a later hit's combined time up to one tick behind
// the newest hit, so a hit is only retired once no future arrival can still
// fall within the temporal window of it.
const evictionSlack = 1.0

func (streamStrategy) run(store *HitStore, cfg Config) ([]Cluster, error) {
	n := store.Len()
	if n == 0 {
		return []Cluster{}, nil
	}

	pred := newNeighborPredicate(cfg)
	uf := newUnionFind(n)

	// Component state, valid at union-find roots only.
	members := make([][]int, n)
	activeCount := make([]int32, n)

	window := make([]int32, 0, 256)
	head := 0

	var out []Cluster
	finalize := func(root int32) {
		m := members[root]
		members[root] = nil
		if len(m) < cfg.MinClusterSize {
			return
		}
		sort.Ints(m)
		out = append(out, materialize(store, m))
	}

	prevToA := store.At(0).ToA
	for i := 0; i < n; i++ {
		h := store.At(i)
		if h.ToA < prevToA {
			return nil, &OrderingError{Index: i, ToA: h.ToA, PrevToA: prevToA}
		}
		prevToA = h.ToA
		now := h.Time()

		// Retire hits no future arrival can be a neighbor of.
		for head < len(window) {
			j := window[head]
			if now-store.At(int(j)).Time() <= cfg.TemporalWindow+evictionSlack {
				break
			}
			head++
			root := uf.find(j)
			activeCount[root]--
			if activeCount[root] == 0 {
				finalize(root)
			}
		}
		if head == len(window) {
			window = window[:0]
			head = 0
		} else if head >= 4096 && head*2 >= len(window) {
			window = window[:copy(window, window[head:])]
			head = 0
		}

		members[i] = []int{i}
		activeCount[i] = 1

		for k := head; k < len(window); k++ {
			j := window[k]
			if !pred.neighbors(h, store.At(int(j))) {
				continue
			}
			ri, rj := uf.find(int32(i)), uf.find(j)
			if ri == rj {
				continue
			}
			mi, mj := members[ri], members[rj]
			ai, aj := activeCount[ri], activeCount[rj]
			r := uf.union(ri, rj)
			members[ri], members[rj] = nil, nil
			members[r] = append(mi, mj...)
			activeCount[r] = ai + aj
		}
		window = append(window, int32(i))
	}

	// Flush components still active at end of stream.
	for k := head; k < len(window); k++ {
		root := uf.find(window[k])
		if members[root] != nil {
			activeCount[root] = 0
			finalize(root)
		}
	}

	// Finalization order follows eviction time; normalize to the same
	// ordering the other strategies produce.
	sort.Slice(out, func(a, b int) bool {
		return out[a].Members[0] < out[b].Members[0]
	})
	return out, nil
}
