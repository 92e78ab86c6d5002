// Package buffer provides allocation-friendly sample storage for the
// analysis path: a reusable float64 Buffer with a sync.Pool-backed Pool for
// per-call scratch memory, and a fixed-capacity Ring that keeps the most
// recent samples of a stream and hands them out as a contiguous,
// chronological snapshot.
package buffer
