package cache

import "time"

// Stats holds the process-wide cache counters. Counters only reset through
// Cache.ResetStats.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
	LastReset     time.Time
}

// HitRate returns hits as a percentage of all lookups, 0 when nothing has
// been looked up yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
