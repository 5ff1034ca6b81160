// Package cachesim models caches for trace driven simulation
// of eviction algorithms.
//
// Only metadata is simulated: a cache tracks which objects it holds
// and how many bytes they would occupy, never their contents.
// Replaying a trace through a [Cache] yields a hit or miss per request,
// from which hit ratios and byte hit ratios are derived (see package sim).
//
// Glossary and invariants:
//
//   - Request
//
//     One trace event: object id, size, timestamps.
//     Readers reuse a single Request; caches never retain it.
//
//   - Object
//
//     What a cache remembers about a cached id.
//     Ghost lists keep Objects for ids whose data was evicted.
//
//   - Per-object overhead
//
//     Bytes charged for every cached object on top of its size,
//     modelling metadata storage.
//
//   - Occupied size
//
//     Sum of size + overhead over cached objects.
//     After every [Get] it is at most the capacity.
//
// Operations:
//
//   - Check
//
//     Lookup. With update, the algorithm may reorder its state (promotion).
//
//   - Insert
//
//     Admit an object that is not cached.
//
//   - Evict
//
//     Remove one object chosen by the policy.
//
//   - Get
//
//     Check with update; on a miss Insert, then Evict until within capacity.
//     Built from the other three by [Get].
//
//   - Remove
//
//     Drop a specific object, e.g. for invalidation.
//
// Caches are single threaded. Parallel simulations give
// every worker its own cache and its own trace reader.
package cachesim
