package cluster

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-side classification with errors.Is.
var (
	// ErrRadius reports a non-positive spatial radius.
	ErrRadius = errors.New("radius must be positive")
	// ErrTemporalWindow reports a non-positive temporal window.
	ErrTemporalWindow = errors.New("temporal window must be positive")
	// ErrMinClusterSize reports a minimum cluster size below one.
	ErrMinClusterSize = errors.New("min cluster size must be at least 1")
	// ErrColumnLength reports mismatched column lengths in columnar ingestion.
	ErrColumnLength = errors.New("column lengths differ")
	// ErrUnknownAlgorithm reports an algorithm selector outside the supported set.
	ErrUnknownAlgorithm = errors.New("unknown clustering algorithm")
	// ErrUnsorted reports a time-of-arrival regression in input handed to the
	// streaming algorithm, which requires non-decreasing ToA.
	ErrUnsorted = errors.New("hits not sorted by time of arrival")
)

// ConfigError wraps an invalid-configuration condition with the offending
// field. It is returned before any hit is processed.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AlgorithmError wraps an unsupported algorithm selector.
type AlgorithmError struct {
	Selector string
}

func (e *AlgorithmError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownAlgorithm, e.Selector)
}

func (e *AlgorithmError) Unwrap() error { return ErrUnknownAlgorithm }

// OrderingError reports the position of the first out-of-order hit seen by
// the streaming algorithm. The algorithm aborts rather than degrade silently.
type OrderingError struct {
	Index   int    // Index of the offending hit
	ToA     uint32 // Its time of arrival
	PrevToA uint32 // Time of arrival of the preceding hit
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("%v: hit %d has toa %d after toa %d", ErrUnsorted, e.Index, e.ToA, e.PrevToA)
}

func (e *OrderingError) Unwrap() error { return ErrUnsorted }
