package cluster

// Cluster is one reconstructed physical event. Members are indices into the
// HitStore the cluster was produced from, in ascending order; the cluster
// never owns or copies hit data, so the store must outlive it.
type Cluster struct {
	// Members are the hit indices belonging to this event.
	Members []int
	// CentroidX and CentroidY are the ToT-weighted mean pixel position.
	CentroidX float64
	CentroidY float64
	// TotalToT is the summed energy proxy over all members.
	TotalToT uint64
	// TimeMin and TimeMax bound the members' coarse arrival times.
	TimeMin uint32
	TimeMax uint32
	// Size is the member count.
	Size int
}

// materialize computes a Cluster's aggregate fields from its member hits.
// The centroid is ToT-weighted; a cluster whose total ToT is zero (possible
// with suppressed charge readout) falls back to the unweighted mean.
func materialize(store *HitStore, members []int) Cluster {
	c := Cluster{
		Members: members,
		Size:    len(members),
	}
	if len(members) == 0 {
		return c
	}

	first := store.At(members[0])
	c.TimeMin, c.TimeMax = first.ToA, first.ToA

	var sumX, sumY, sumW float64
	for _, idx := range members {
		h := store.At(idx)
		w := float64(h.ToT)
		sumX += w * float64(h.X)
		sumY += w * float64(h.Y)
		sumW += w
		c.TotalToT += uint64(h.ToT)
		if h.ToA < c.TimeMin {
			c.TimeMin = h.ToA
		}
		if h.ToA > c.TimeMax {
			c.TimeMax = h.ToA
		}
	}
	if sumW > 0 {
		c.CentroidX = sumX / sumW
		c.CentroidY = sumY / sumW
		return c
	}
	for _, idx := range members {
		h := store.At(idx)
		c.CentroidX += float64(h.X)
		c.CentroidY += float64(h.Y)
	}
	c.CentroidX /= float64(len(members))
	c.CentroidY /= float64(len(members))
	return c
}

// materializeComponents turns a union-find partition into the final cluster
// list. Components smaller than minSize are dropped entirely. Walking hit
// indices in store order assigns members in ascending order and emits
// clusters ordered by their smallest member index, which makes the output
// reproducible regardless of how the components were discovered.
func materializeComponents(store *HitStore, uf *unionFind, minSize int) []Cluster {
	n := store.Len()
	memberLists := make(map[int32][]int)
	order := make([]int32, 0)

	for i := 0; i < n; i++ {
		root := uf.find(int32(i))
		if int(uf.size[root]) < minSize {
			continue
		}
		if _, seen := memberLists[root]; !seen {
			order = append(order, root)
		}
		memberLists[root] = append(memberLists[root], i)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, materialize(store, memberLists[root]))
	}
	return clusters
}
