// Package profiling accumulates wall-clock time per named generation stage.
package profiling

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	calls  = make(map[string]int)
)

// Stat is the accumulated cost of one stage.
type Stat struct {
	Name  string
	Total time.Duration
	Calls int
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("world.PopulateChunk")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		calls[name]++
		mu.Unlock()
	}
}

// Reset clears all totals.
func Reset() {
	mu.Lock()
	clear(totals)
	clear(calls)
	mu.Unlock()
}

// Snapshot returns every stage, most expensive first.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(totals))
	for k, v := range totals {
		out = append(out, Stat{Name: k, Total: v, Calls: calls[k]})
	}
	mu.Unlock()
	slices.SortFunc(out, func(a, b Stat) int {
		if a.Total != b.Total {
			if a.Total > b.Total {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TopN formats the n most expensive stages.
// Example: "world.PopulateChunk:4.2ms/9, world.Build:2.1ms/9"
func TopN(n int) string {
	stats := Snapshot()
	stats = stats[:min(n, len(stats))]
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
