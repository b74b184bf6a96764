// clock.go: cached wall-clock source for the producer hot path
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// frameClock backs every per-push timestamp. A capture producer calls now()
// once per frame; the cache saves a syscall per push, at the cost of
// Frame.Timestamp being accurate only to the cache's millisecond resolution.
var frameClock = timecache.NewWithResolution(time.Millisecond)

func now() time.Time {
	return frameClock.CachedTime()
}
