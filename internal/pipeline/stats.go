package pipeline

import (
	"slices"
	"sync"
	"time"
)

// RenderSample describes one rendered document.
type RenderSample struct {
	Method   string
	Chunks   int
	Bytes    int
	Duration time.Duration
	at       time.Time
}

// Distribution summarizes a set of observations.
type Distribution struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// StatsSnapshot aggregates the samples inside the rolling window.
type StatsSnapshot struct {
	Documents int            `json:"documents"`
	Chunks    int            `json:"chunks"`
	Bytes     int            `json:"bytes"`
	ByMethod  map[string]int `json:"by_method"`
	LatencyMs Distribution   `json:"latency_ms"`
	ChunksPer Distribution   `json:"chunks_per_document"`
	Window    string         `json:"window"`
}

// Stats keeps render samples for a rolling window. It is safe for concurrent
// use.
type Stats struct {
	mu      sync.Mutex
	window  time.Duration
	samples []RenderSample
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// Record adds a sample stamped with the current time.
func (s *Stats) Record(rs RenderSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs.at = s.now()
	rs.Duration = max(rs.Duration, 0)
	s.expireLocked(rs.at)
	s.samples = append(s.samples, rs)
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	s.expireLocked(s.now())
	samples := slices.Clone(s.samples)
	s.mu.Unlock()

	snap := StatsSnapshot{
		ByMethod: make(map[string]int),
		Window:   s.window.String(),
	}
	if len(samples) == 0 {
		return snap
	}

	latency := make([]float64, len(samples))
	chunks := make([]float64, len(samples))
	for i, rs := range samples {
		snap.Documents++
		snap.Chunks += rs.Chunks
		snap.Bytes += rs.Bytes
		snap.ByMethod[rs.Method]++
		latency[i] = float64(rs.Duration.Microseconds()) / 1000
		chunks[i] = float64(rs.Chunks)
	}
	snap.LatencyMs = distribution(latency)
	snap.ChunksPer = distribution(chunks)
	return snap
}

// expireLocked drops samples older than the window. Samples are appended in
// time order, so the expired ones form a prefix.
func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.samples) && s.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.samples = slices.Delete(s.samples, 0, i)
	}
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Distribution{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: quantile(sorted, 0.50),
		P95: quantile(sorted, 0.95),
		P99: quantile(sorted, 0.99),
	}
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
