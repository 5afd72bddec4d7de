package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	analyses     map[string]*analysisStats
	cacheHits    int64
	cacheMisses  int64
}

type analysisStats struct {
	count int64
	total time.Duration
}

// AnalysisSnapshot summarizes one analysis kind.
type AnalysisSnapshot struct {
	Count     int64   `json:"count"`
	AvgMillis float64 `json:"avg_ms"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Requests    map[string]int64            `json:"requests"`
	Errors      map[string]int64            `json:"errors"`
	Analyses    map[string]AnalysisSnapshot `json:"analyses"`
	CacheHits   int64                       `json:"cache_hits"`
	CacheMisses int64                       `json:"cache_misses"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		analyses:     make(map[string]*analysisStats),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAnalysis tracks how often an analysis kind runs and how long it takes.
func (m *Metrics) RecordAnalysis(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.analyses[kind]
	if !ok {
		stats = &analysisStats{}
		m.analyses[kind] = stats
	}
	stats.count++
	stats.total += duration
}

// RecordCache counts analysis cache lookups.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests: map[string]int64{},
		Errors:   map[string]int64{},
		Analyses: map[string]AnalysisSnapshot{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.analyses {
		avg := 0.0
		if v.count > 0 {
			avg = float64(v.total.Microseconds()) / float64(v.count) / 1000
		}
		snap.Analyses[k] = AnalysisSnapshot{Count: v.count, AvgMillis: avg}
	}
	snap.CacheHits = m.cacheHits
	snap.CacheMisses = m.cacheMisses
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
