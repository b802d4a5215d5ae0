package cluster

import (
	"math"
	"testing"
)

func TestComputeFeatures(t *testing.T) {
	store := StoreFromHits([]Hit{
		{X: 10, Y: 10, ToA: 100, ToT: 10},
		{X: 13, Y: 10, ToA: 101, ToT: 20},
		{X: 10, Y: 11, ToA: 102, ToT: 30},
	})
	c := materialize(store, []int{0, 1, 2})
	f := ComputeFeatures(store, c)

	if f.BBoxWidth != 4 || f.BBoxHeight != 2 {
		t.Errorf("bbox = %vx%v, want 4x2", f.BBoxWidth, f.BBoxHeight)
	}
	if math.Abs(f.AspectRatio-2.0) > 1e-9 {
		t.Errorf("AspectRatio = %v, want 2", f.AspectRatio)
	}
	if math.Abs(f.HitDensity-3.0/8.0) > 1e-9 {
		t.Errorf("HitDensity = %v, want 0.375", f.HitDensity)
	}
	if math.Abs(f.ToTMean-20.0) > 1e-9 {
		t.Errorf("ToTMean = %v, want 20", f.ToTMean)
	}
	if f.ToTStdDev <= 0 {
		t.Errorf("ToTStdDev = %v, want > 0", f.ToTStdDev)
	}
	if f.Duration != 2 {
		t.Errorf("Duration = %v, want 2", f.Duration)
	}
}

func TestComputeFeaturesSingleHit(t *testing.T) {
	store := StoreFromHits([]Hit{{X: 5, Y: 5, ToA: 100, ToT: 42}})
	f := ComputeFeatures(store, materialize(store, []int{0}))

	if f.BBoxWidth != 1 || f.BBoxHeight != 1 {
		t.Errorf("bbox = %vx%v, want 1x1", f.BBoxWidth, f.BBoxHeight)
	}
	if f.AspectRatio != 1 {
		t.Errorf("AspectRatio = %v, want 1", f.AspectRatio)
	}
	if f.ToTMean != 42 {
		t.Errorf("ToTMean = %v, want 42", f.ToTMean)
	}
	if f.ToTStdDev != 0 {
		t.Errorf("ToTStdDev = %v, want 0 for single hit", f.ToTStdDev)
	}
}

func TestComputeFeaturesEmptyCluster(t *testing.T) {
	store := NewHitStore(0)
	f := ComputeFeatures(store, Cluster{})
	if f != (Features{}) {
		t.Errorf("features of empty cluster = %+v, want zero value", f)
	}
}
