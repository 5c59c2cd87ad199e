package inventory

import (
	"sort"
	"time"
)

// Usage is one historical booking of an instance on a non-offer rental.
type Usage struct {
	InstanceID int64
	Start      time.Time
	End        time.Time
}

// UsageDays sums billable days per instance.
func UsageDays(usage []Usage) map[int64]int {
	days := make(map[int64]int, len(usage))
	for _, u := range usage {
		days[u.InstanceID] += BillableDays(u.Start, u.End)
	}
	return days
}

// Rank orders candidates by cumulative usage, busiest first, ties by ascending id.
func Rank(candidates []int64, days map[int64]int) []int64 {
	ranked := make([]int64, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := days[ranked[i]], days[ranked[j]]
		if di != dj {
			return di > dj
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}
