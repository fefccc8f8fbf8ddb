// Package monitor provides an in-process api.StatSink that aggregates worker
// statistics into HDR histograms.
package monitor

import (
	"math"
	"sort"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/petrijr/parwork/pkg/api"
)

const (
	// Time stats arrive in ms and are stored in µs.
	timeScale = 1000

	// One hour in µs covers any sensible iteration or task time; larger
	// values are clamped.
	maxTrackable = 3_600_000_000
	sigFigs      = 3
)

// Summary aggregates all values reported for one (worker, kind) pair, in
// the unit the worker reported them in (ms for times).
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
}

type key struct {
	worker int64
	kind   api.StatKind
}

type series struct {
	hist  *hdrhistogram.Histogram
	count int64
	sum   float64
	min   float64
	max   float64
}

// Monitor collects per-worker statistics. It is safe for concurrent use.
type Monitor struct {
	mu     sync.Mutex
	series map[key]*series
}

var _ api.StatSink = (*Monitor)(nil)

// New returns an empty Monitor.
func New() *Monitor {
	return &Monitor{series: make(map[key]*series)}
}

// PutStat records value for the given worker and statistic.
func (m *Monitor) PutStat(workerID int64, kind api.StatKind, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{worker: workerID, kind: kind}
	s, ok := m.series[k]
	if !ok {
		s = &series{
			hist: hdrhistogram.New(1, maxTrackable, sigFigs),
			min:  math.Inf(1),
			max:  math.Inf(-1),
		}
		m.series[k] = s
	}

	s.count++
	s.sum += value
	s.min = math.Min(s.min, value)
	s.max = math.Max(s.max, value)
	// RecordValue only fails for out-of-range values, which clamp rules out.
	_ = s.hist.RecordValue(clamp(toHist(kind, value)))
}

// Summary returns the aggregate for workerID and kind, or false if nothing
// was reported for that pair.
func (m *Monitor) Summary(workerID int64, kind api.StatKind) (Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.series[key{worker: workerID, kind: kind}]
	if !ok {
		return Summary{}, false
	}
	return Summary{
		Count: s.count,
		Sum:   s.sum,
		Min:   s.min,
		Max:   s.max,
		Mean:  s.sum / float64(s.count),
		P50:   fromHist(kind, s.hist.ValueAtQuantile(50)),
		P95:   fromHist(kind, s.hist.ValueAtQuantile(95)),
		P99:   fromHist(kind, s.hist.ValueAtQuantile(99)),
	}, true
}

// Workers returns the ids of every worker that reported at least one stat,
// in ascending order.
func (m *Monitor) Workers() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int64]struct{})
	for k := range m.series {
		seen[k.worker] = struct{}{}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset discards everything collected so far.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series = make(map[key]*series)
}

func isTime(kind api.StatKind) bool {
	return kind == api.StatIterationTime || kind == api.StatTaskTime
}

func toHist(kind api.StatKind, v float64) int64 {
	if isTime(kind) {
		v *= timeScale
	}
	return int64(math.Round(v))
}

func fromHist(kind api.StatKind, v int64) float64 {
	if isTime(kind) {
		return float64(v) / timeScale
	}
	return float64(v)
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > maxTrackable {
		return maxTrackable
	}
	return v
}
