package cluster

// Hit is one recorded pixel-level detection event. Hits are immutable once
// ingested into a HitStore.
type Hit struct {
	X, Y      uint16 // Pixel coordinate (column, row)
	ToA       uint32 // Coarse time of arrival (clock ticks)
	ToT       uint16 // Time over threshold (charge/energy proxy)
	FToA      uint16 // Fine ToA correction (sub-tick, 16 counts per tick)
	ChipIndex uint16 // Source chip for multi-tile sensors
}

// fineCountsPerTick is the number of fine-ToA counts in one coarse tick.
// The fine counter is subtracted from the coarse tick to recover the true
// arrival time.
const fineCountsPerTick = 16.0

// Time returns the combined arrival time of the hit in coarse-tick units.
func (h Hit) Time() float64 {
	return float64(h.ToA) - float64(h.FToA)/fineCountsPerTick
}

// HitStore is an ordered, append-only sequence of hits. Clusters reference
// hits by index into the store, so a store must outlive any result derived
// from it. A store is not safe for concurrent mutation, but any number of
// clustering invocations may read it concurrently.
type HitStore struct {
	hits []Hit
}

// NewHitStore creates an empty store with the given capacity hint.
func NewHitStore(capacity int) *HitStore {
	return &HitStore{hits: make([]Hit, 0, capacity)}
}

// StoreFromHits wraps a hit slice in a store. The store takes ownership of
// the slice; the caller must not mutate it afterwards.
func StoreFromHits(hits []Hit) *HitStore {
	return &HitStore{hits: hits}
}

// StoreFromColumns builds a store from parallel per-field arrays, the layout
// produced by columnar decoders. All slices must have equal length.
func StoreFromColumns(x, y []uint16, toa []uint32, tot, ftoa, chip []uint16) (*HitStore, error) {
	n := len(x)
	if len(y) != n || len(toa) != n || len(tot) != n || len(ftoa) != n || len(chip) != n {
		return nil, &ConfigError{Field: "columns", Err: ErrColumnLength}
	}
	s := NewHitStore(n)
	for i := 0; i < n; i++ {
		s.hits = append(s.hits, Hit{
			X: x[i], Y: y[i], ToA: toa[i], ToT: tot[i], FToA: ftoa[i], ChipIndex: chip[i],
		})
	}
	return s, nil
}

// Append adds a hit to the store.
func (s *HitStore) Append(h Hit) {
	s.hits = append(s.hits, h)
}

// Len returns the number of hits in the store.
func (s *HitStore) Len() int {
	return len(s.hits)
}

// At returns the hit at index i.
func (s *HitStore) At(i int) Hit {
	return s.hits[i]
}

// Extent returns the pixel-plane bounds of the stored hits as (width,
// height), covering at least the default 256x256 sensor tile.
func (s *HitStore) Extent() (uint16, uint16) {
	var w, h uint16 = DefaultSensorExtent, DefaultSensorExtent
	for _, hit := range s.hits {
		if hit.X >= w {
			w = hit.X + 1
		}
		if hit.Y >= h {
			h = hit.Y + 1
		}
	}
	return w, h
}

// DefaultSensorExtent is the pixel extent of a single Timepix3 tile.
const DefaultSensorExtent = 256
