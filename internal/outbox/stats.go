package outbox

import (
	"slices"
	"sync"
	"time"
)

type attempt struct {
	at      time.Time
	latency time.Duration
	ok      bool
}

// StatsSnapshot aggregates the delivery attempts still inside the window.
type StatsSnapshot struct {
	Delivered int     `json:"delivered"`
	Failed    int     `json:"failed"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
}

// Stats keeps a rolling window of delivery attempts.
type Stats struct {
	mu       sync.Mutex
	attempts []attempt
	window   time.Duration
	now      func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// Observe records one attempt. Negative latencies count as zero.
func (s *Stats) Observe(latency time.Duration, ok bool) {
	latency = max(latency, 0)
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	s.attempts = append(s.attempts, attempt{at: now, latency: latency, ok: ok})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(s.now())

	var snap StatsSnapshot
	if len(s.attempts) == 0 {
		return snap
	}
	ms := make([]int64, 0, len(s.attempts))
	var total int64
	for _, a := range s.attempts {
		if a.ok {
			snap.Delivered++
		} else {
			snap.Failed++
		}
		v := a.latency.Milliseconds()
		ms = append(ms, v)
		total += v
	}
	slices.Sort(ms)

	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(total) / float64(len(ms))
	snap.P50Ms = interpolate(ms, 0.50)
	snap.P95Ms = interpolate(ms, 0.95)
	return snap
}

// expireLocked drops attempts older than the window; attempts are appended
// in time order so the expired ones form a prefix.
func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.attempts) && s.attempts[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.attempts = slices.Delete(s.attempts, 0, i)
	}
}

// interpolate returns the q-quantile (0..1) of sorted values using linear
// interpolation between closest ranks.
func interpolate(sorted []int64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
