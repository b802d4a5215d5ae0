package cluster

// gridStrategy computes exact connectivity with a spatial grid index and a
// union-find assembler. It accepts input in any order: the resulting
// partition depends only on the neighbor relation, not on traversal order.
type gridStrategy struct{}

func (gridStrategy) name() string { return "grid" }

func (gridStrategy) run(store *HitStore, cfg Config) ([]Cluster, error) {
	n := store.Len()
	if n == 0 {
		return []Cluster{}, nil
	}

	pred := newNeighborPredicate(cfg)
	si := newSpatialIndex(store, cfg.cellSize(), nil)
	uf := newUnionFind(n)

	for i := 0; i < n; i++ {
		h := store.At(i)
		si.visitCandidates(h, func(j int32) {
			// Each unordered pair is tested once.
			if int(j) <= i {
				return
			}
			if pred.neighbors(h, store.At(int(j))) {
				uf.union(int32(i), j)
			}
		})
	}

	return materializeComponents(store, uf, cfg.MinClusterSize), nil
}
