package cluster

// distSquared returns the squared Euclidean pixel distance between two hits.
func distSquared(a, b Hit) float64 {
	dx := float64(int32(a.X) - int32(b.X))
	dy := float64(int32(a.Y) - int32(b.Y))
	return dx*dx + dy*dy
}

// neighborPredicate is the shared spatiotemporal adjacency test: two hits are
// neighbors iff their pixel distance is within the radius and their combined
// arrival times are within the temporal window. Every algorithm in this
// package clusters under the transitive closure of this relation.
type neighborPredicate struct {
	radiusSquared  float64
	temporalWindow float64
}

func newNeighborPredicate(cfg Config) neighborPredicate {
	return neighborPredicate{
		radiusSquared:  cfg.Radius * cfg.Radius,
		temporalWindow: cfg.TemporalWindow,
	}
}

func (p neighborPredicate) neighbors(a, b Hit) bool {
	if distSquared(a, b) > p.radiusSquared {
		return false
	}
	dt := a.Time() - b.Time()
	if dt < 0 {
		dt = -dt
	}
	return dt <= p.temporalWindow
}

// spatialIndex buckets hit indices into a fixed grid over the pixel plane so
// neighbor candidates can be found without scanning the full store. Cell side
// equals the configured radius (rounded up), so examining a hit's own cell
// plus the 8 surrounding cells covers every point within the radius.
//
// Buckets are flat slices over the bounded sensor extent; pixel coordinates
// are non-negative, so no signed-coordinate pairing is needed. Construction
// is O(N) and each query costs the occupancy of 9 cells, near-linear overall
// for roughly uniform hit density. Pathologically dense regions degrade to
// quadratic locally.
type spatialIndex struct {
	cellSize int
	gridW    int
	gridH    int
	buckets  [][]int32
}

// newSpatialIndex builds an index over the given hit indices. indices may be
// a subset of the store (temporal slices in the parallel path); nil indexes
// the whole store.
func newSpatialIndex(store *HitStore, cellSize int, indices []int) *spatialIndex {
	w, h := store.Extent()
	si := &spatialIndex{
		cellSize: cellSize,
		gridW:    (int(w) + cellSize - 1) / cellSize,
		gridH:    (int(h) + cellSize - 1) / cellSize,
	}
	si.buckets = make([][]int32, si.gridW*si.gridH)
	if indices == nil {
		for i := 0; i < store.Len(); i++ {
			si.insert(store.At(i), int32(i))
		}
		return si
	}
	for _, i := range indices {
		si.insert(store.At(i), int32(i))
	}
	return si
}

func (si *spatialIndex) insert(h Hit, idx int32) {
	c := si.cellOf(h)
	si.buckets[c] = append(si.buckets[c], idx)
}

func (si *spatialIndex) cellOf(h Hit) int {
	return (int(h.Y)/si.cellSize)*si.gridW + int(h.X)/si.cellSize
}

// visitCandidates calls fn for every hit index in the 3x3 cell neighborhood
// of h, including h's own index. Candidates still need the full neighbor
// predicate applied; the grid only bounds the search.
func (si *spatialIndex) visitCandidates(h Hit, fn func(idx int32)) {
	cx := int(h.X) / si.cellSize
	cy := int(h.Y) / si.cellSize
	for dy := -1; dy <= 1; dy++ {
		ny := cy + dy
		if ny < 0 || ny >= si.gridH {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			if nx < 0 || nx >= si.gridW {
				continue
			}
			for _, idx := range si.buckets[ny*si.gridW+nx] {
				fn(idx)
			}
		}
	}
}

// regionQuery returns the indices of all hits that satisfy the neighbor
// predicate with respect to store.At(i), including i itself. The result is
// appended to buf to let callers reuse allocations across queries.
func (si *spatialIndex) regionQuery(store *HitStore, i int, pred neighborPredicate, buf []int32) []int32 {
	h := store.At(i)
	si.visitCandidates(h, func(idx int32) {
		if pred.neighbors(h, store.At(int(idx))) {
			buf = append(buf, idx)
		}
	})
	return buf
}
