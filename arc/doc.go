// Package arc implements a [cachesim.Cache] using the
// Adaptive Replacement Cache algorithm.
//
// The cache is composed of four [lru.Cache] lists:
//
//   - T1: objects requested once recently. New objects always enter here.
//
//   - T2: objects requested at least twice. A hit in T1 moves the object here.
//
//   - B1: ghost list of objects evicted from T1.
//
//   - B2: ghost list of objects evicted from T2.
//
// Ghost lists hold identity and size only; their capacity is
// capacity/2 * [InitParams.GhostListFactor] bytes each, independent of
// how T1 and T2 share the real capacity.
// Victims enter a ghost list through its Get, so an object whose size
// plus per-object overhead exceeds the ghost capacity is not remembered,
// and a later request for it cannot adjust the eviction direction.
// Raise the ghost list factor when traces carry objects that large.
//
// Adaptation:
//
//   - A miss that hits B1 means T1 evicted too early,
//     so following evictions take from T2.
//
//   - A miss that hits B2 means the opposite,
//     so following evictions take from T1.
//
//   - The direction persists until another ghost hit changes it.
//     When the preferred list is empty the other one is used.
//
// Invariants:
//
//   - An object is in at most one of T1 and T2,
//     and in at most one of B1 and B2.
//
//   - The cache's occupied size and object count are the sums of T1 and T2.
//
//   - An evicted object is never already present in the ghost list it enters.
//
// Build with the `cachesim_debug` tag to check these at runtime.
package arc
