// Package cache provides cache keys and cache tables for memoized members.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - KeyEncoder: Builds a stable cache key from a call's argument list
//   - Store: A cache table mapping encoded keys to stored results
//
// The memoizing wrapper in the interceptor package owns one Store per declared
// member and consults it on every call.
//
// # Basic Usage
//
//	encoder := cache.NewCanonicalKeyEncoder()
//	key, err := encoder.EncodeKey(1, 2) // "1-2"
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	sum, err := cache.GetOrFetch(ctx, store, key, func(ctx context.Context) (int, error) {
//		return 1 + 2, nil
//	})
//
// # Key Encoding Strategy
//
// The canonical encoder joins top level arguments with KeySeparator. Strings are
// quoted and nested slices are bracketed, so the separator appearing inside an
// argument never collides with an argument boundary:
//
//	EncodeKey(1, 2)            // 1-2
//	EncodeKey([]int{1, 2})     // [1,2]
//	EncodeKey("1-2")           // "1-2"
//	EncodeKey([]any{1, 2}, 3)  // [1,2]-3
//	EncodeKey(1, []any{2, 3})  // 1-[2,3]
//
// Numbers are encoded by value: 1, int64(1) and 1.0 share a key. Arguments the
// encoder cannot represent (maps, structs, funcs, channels) fail with a
// MALFORMED_KEY error; use IsMalformedKey to detect it.
//
// NewMsgpackKeyEncoder accepts anything msgpack can encode, maps included.
// NewHashedKeyEncoder compacts any encoder's keys into an xxhash digest.
//
// # Tables
//
// ModeTable (the default) never evicts. ModeBounded is backed by sturdyc and
// expires entries; an evicted key is recomputed, which re-runs the original.
// Neither backend stores failed fetches.
package cache
