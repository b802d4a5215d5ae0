// Package cluster reconstructs physical detection events from raw
// pixel-detector hits.
//
// A single particle or photon crossing the sensor typically fires several
// adjacent pixels within a short time window, so the detector reports one
// physical event as multiple correlated hits. This package groups hits into
// event clusters under a combined spatiotemporal neighbor relation: two hits
// belong together when their Euclidean pixel distance is within Radius and
// their arrival times are within TemporalWindow of each other.
//
// Three interchangeable algorithms are provided:
//
//   - Grid: exact connected components over a spatial grid index; works on
//     input in any order.
//   - Streaming: single-pass sliding-window clustering for temporally sorted
//     input; low memory, suited to online ingestion.
//   - DBSCAN: density-based clustering with core/border/noise classification.
//
// Clusters reference hits by index into the caller's HitStore; the store must
// outlive any result derived from it.
package cluster
