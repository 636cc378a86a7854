// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

/*
Package cache provides bounded in-memory structures for suppressing repeated
work.

# DedupeCache

DedupeCache answers "have I seen this key recently?" for best-effort side
channels such as analytics logging. Keys expire a fixed TTL after they are
first seen. The cache never grows without bound: once it holds more than
Threshold keys, expired keys are dropped and the least recently seen keys are
evicted until Retain remain.

	seen := cache.NewDedupeCache(cache.DedupeConfig{
	    TTL:       30 * time.Second,
	    Threshold: 10000,
	    Retain:    5000,
	})
	if seen.IsDuplicate(clientID + ":" + signature) {
	    return // skip the write
	}

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
