package cluster

// unionFind is a disjoint-set forest over hit indices with path compression
// and union by size. Components are stored as flat parent/size arrays rather
// than linked nodes, which keeps merges cache-friendly and makes the
// parallel-slice reconciliation pass a plain array walk.
type unionFind struct {
	parent []int32
	size   []int32
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
		uf.size[i] = 1
	}
	return uf
}

// find returns the root of the set containing x, compressing the path.
func (uf *unionFind) find(x int32) int32 {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// union merges the sets containing x and y, attaching the smaller tree under
// the larger. Returns the surviving root.
func (uf *unionFind) union(x, y int32) int32 {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return rx
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return rx
}
