package tpx3

import (
	"fmt"
	"io"
	"sort"

	"github.com/openbeamline/tpxcluster/internal/cluster"
	"github.com/openbeamline/tpxcluster/internal/monitoring"
)

// Decode parses a complete raw TPX3 stream into a hit store. Section headers
// switch the current chip; hit packets become hit records; TDC and other
// control packets are counted and skipped. Hits arrive in acquisition order,
// which is not guaranteed to be sorted by ToA across chips — callers feeding
// the streaming algorithm should sort first (see SortStore).
func Decode(data []byte) (*cluster.HitStore, error) {
	if len(data)%PacketSize != 0 {
		return nil, fmt.Errorf("truncated stream: %d bytes is not a whole number of %d-byte packets", len(data), PacketSize)
	}

	store := cluster.NewHitStore(len(data) / PacketSize)
	var chip uint16
	var skipped int

	for off := 0; off < len(data); off += PacketSize {
		p := PacketFromBytes(data[off : off+PacketSize])
		switch {
		case p.IsHeader():
			chip = uint16(p.ChipID())
		case p.IsHit():
			x, y := p.PixelCoordinates()
			store.Append(cluster.Hit{
				X:         x,
				Y:         y,
				ToA:       p.GlobalToA(),
				ToT:       p.ToT(),
				FToA:      p.FToA(),
				ChipIndex: chip,
			})
		default:
			// TDC and control packets carry no pixel data.
			skipped++
		}
	}

	monitoring.Debugf("tpx3: decoded %d hits, skipped %d control packets", store.Len(), skipped)
	return store, nil
}

// DecodeReader reads a raw TPX3 stream to EOF and decodes it.
func DecodeReader(r io.Reader) (*cluster.HitStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tpx3 stream: %w", err)
	}
	return Decode(data)
}

// SortStore returns a new store with the hits ordered by ToA, ties broken by
// fine ToA (larger fine counts mean earlier arrival within a tick). This is
// the order the streaming algorithm requires.
func SortStore(store *cluster.HitStore) *cluster.HitStore {
	hits := make([]cluster.Hit, store.Len())
	for i := range hits {
		hits[i] = store.At(i)
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].ToA != hits[b].ToA {
			return hits[a].ToA < hits[b].ToA
		}
		return hits[a].FToA > hits[b].FToA
	})
	return cluster.StoreFromHits(hits)
}
