package cluster

import "sort"

// Label values used during density classification.
const (
	labelUnvisited = 0
	labelNoise     = -1
)

// dbscanStrategy performs density-based clustering over the spatiotemporal
// neighbor relation. Radius and TemporalWindow define the neighborhood;
// MinClusterSize doubles as the core-point density threshold. A hit whose
// neighborhood (itself included) holds at least MinClusterSize hits is a
// core point; clusters grow through chains of core points, border points are
// absorbed by the first cluster to reach them, and hits reachable from no
// core point are noise and belong to no cluster.
//
// With MinClusterSize = 1 every hit is trivially core and the result reduces
// to the same connected-component partition the grid strategy computes.
type dbscanStrategy struct{}

func (dbscanStrategy) name() string { return "dbscan" }

func (dbscanStrategy) run(store *HitStore, cfg Config) ([]Cluster, error) {
	n := store.Len()
	if n == 0 {
		return []Cluster{}, nil
	}

	pred := newNeighborPredicate(cfg)
	si := newSpatialIndex(store, cfg.cellSize(), nil)

	labels := make([]int32, n) // 0 = unvisited, -1 = noise, >0 = cluster ID
	clusterID := int32(0)

	var neighbors, seeds []int32
	for i := 0; i < n; i++ {
		if labels[i] != labelUnvisited {
			continue
		}

		neighbors = si.regionQuery(store, i, pred, neighbors[:0])
		if len(neighbors) < cfg.MinClusterSize {
			labels[i] = labelNoise
			continue
		}

		clusterID++
		labels[i] = clusterID
		seeds = append(seeds[:0], neighbors...)

		for len(seeds) > 0 {
			q := seeds[len(seeds)-1]
			seeds = seeds[:len(seeds)-1]

			if labels[q] == labelNoise {
				// A previously rejected hit adjacent to a core point
				// joins as a border point but is not expanded.
				labels[q] = clusterID
				continue
			}
			if labels[q] != labelUnvisited {
				continue
			}
			labels[q] = clusterID

			neighbors = si.regionQuery(store, int(q), pred, neighbors[:0])
			if len(neighbors) >= cfg.MinClusterSize {
				seeds = append(seeds, neighbors...)
			}
		}
	}

	return assembleLabeled(store, labels, clusterID, cfg.MinClusterSize), nil
}

// assembleLabeled groups labeled hits into clusters, dropping noise and any
// cluster that fell below minSize (a border hit contested by two clusters is
// kept by only one of them, so a cluster can end up smaller than the density
// threshold that seeded it).
func assembleLabeled(store *HitStore, labels []int32, maxID int32, minSize int) []Cluster {
	memberLists := make([][]int, maxID+1)
	for i, label := range labels {
		if label > 0 {
			memberLists[label] = append(memberLists[label], i)
		}
	}

	clusters := make([]Cluster, 0, maxID)
	for id := int32(1); id <= maxID; id++ {
		if len(memberLists[id]) < minSize {
			continue
		}
		clusters = append(clusters, materialize(store, memberLists[id]))
	}

	// Cluster IDs are assigned in scan order, but border hits can attach a
	// lower index to a later cluster; order by smallest member index like
	// the other strategies.
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].Members[0] < clusters[b].Members[0]
	})
	return clusters
}
