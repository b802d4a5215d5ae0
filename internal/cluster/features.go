package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Features captures geometric and charge properties of one cluster, used
// downstream for event classification (gamma/neutron discrimination, track
// versus blob shapes).
type Features struct {
	BBoxWidth   float64 // Bounding box extent in X (pixels, inclusive)
	BBoxHeight  float64 // Bounding box extent in Y (pixels, inclusive)
	AspectRatio float64 // Max dimension / min dimension
	HitDensity  float64 // Hits per pixel of bounding box area
	ToTMean     float64
	ToTStdDev   float64
	ToTP95      float64 // 95th percentile per-hit ToT
	Duration    float64 // Temporal extent in coarse ticks
}

// ComputeFeatures derives shape and charge statistics for a cluster over its
// backing store.
func ComputeFeatures(store *HitStore, c Cluster) Features {
	if c.Size == 0 {
		return Features{}
	}

	first := store.At(c.Members[0])
	minX, maxX := first.X, first.X
	minY, maxY := first.Y, first.Y
	tots := make([]float64, 0, c.Size)
	for _, idx := range c.Members {
		h := store.At(idx)
		if h.X < minX {
			minX = h.X
		}
		if h.X > maxX {
			maxX = h.X
		}
		if h.Y < minY {
			minY = h.Y
		}
		if h.Y > maxY {
			maxY = h.Y
		}
		tots = append(tots, float64(h.ToT))
	}

	f := Features{
		BBoxWidth:  float64(maxX-minX) + 1,
		BBoxHeight: float64(maxY-minY) + 1,
		Duration:   float64(c.TimeMax - c.TimeMin),
	}
	if f.BBoxWidth > f.BBoxHeight {
		f.AspectRatio = f.BBoxWidth / f.BBoxHeight
	} else {
		f.AspectRatio = f.BBoxHeight / f.BBoxWidth
	}
	f.HitDensity = float64(c.Size) / (f.BBoxWidth * f.BBoxHeight)

	f.ToTMean = stat.Mean(tots, nil)
	if c.Size > 1 {
		f.ToTStdDev = stat.StdDev(tots, nil)
	}
	sort.Float64s(tots)
	f.ToTP95 = stat.Quantile(0.95, stat.Empirical, tots, nil)
	return f
}
