package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

// NoMatchKey is the per-country bucket for queries whose name matched no
// record.
const NoMatchKey = "_no_match"

type Metrics struct {
	mutex          sync.RWMutex
	queries        map[string]int64
	outcomes       map[string]map[string]int64
	responseTimes  map[string][]time.Duration
	statusCodes    map[string]map[int]int64
	datasetRecords int
	datasetSkipped int
	startTime      time.Time
}

type Snapshot struct {
	TotalQueries int64                     `json:"total_queries"`
	Uptime       time.Duration             `json:"uptime"`
	Dataset      DatasetMetrics            `json:"dataset"`
	Countries    map[string]CountryMetrics `json:"countries"`
}

type DatasetMetrics struct {
	Records int `json:"records"`
	Skipped int `json:"skipped"`
}

type CountryMetrics struct {
	Queries     int64            `json:"queries"`
	Outcomes    map[string]int64 `json:"outcomes"`
	AvgResponse time.Duration    `json:"avg_response"`
	P50Response time.Duration    `json:"p50_response"`
	P95Response time.Duration    `json:"p95_response"`
	P99Response time.Duration    `json:"p99_response"`
	StatusCodes map[int]int64    `json:"status_codes"`
}

func (m *Metrics) IncrementQueries(country string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.queries[country]++
}

func (m *Metrics) RecordQuery(country, outcome string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.outcomes[country] == nil {
		m.outcomes[country] = make(map[string]int64)
	}
	m.outcomes[country][outcome]++

	m.responseTimes[country] = append(m.responseTimes[country], duration)
	if len(m.responseTimes[country]) > maxSamples {
		m.responseTimes[country] = m.responseTimes[country][1:]
	}

	if m.statusCodes[country] == nil {
		m.statusCodes[country] = make(map[int]int64)
	}
	m.statusCodes[country][statusCode]++
}

func (m *Metrics) SetDataset(records, skipped int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.datasetRecords = records
	m.datasetSkipped = skipped
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Dataset: DatasetMetrics{
			Records: m.datasetRecords,
			Skipped: m.datasetSkipped,
		},
		Countries: make(map[string]CountryMetrics),
	}

	allCountries := make(map[string]bool)
	for country := range m.queries {
		allCountries[country] = true
	}
	for country := range m.outcomes {
		allCountries[country] = true
	}

	for country := range allCountries {
		snap.TotalQueries += m.queries[country]

		cm := CountryMetrics{
			Queries:     m.queries[country],
			Outcomes:    copyCounts(m.outcomes[country]),
			StatusCodes: copyCounts(m.statusCodes[country]),
		}

		durations := m.responseTimes[country]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			cm.AvgResponse = average(sorted)
			cm.P50Response = percentile(sorted, 0.50)
			cm.P95Response = percentile(sorted, 0.95)
			cm.P99Response = percentile(sorted, 0.99)
		}

		snap.Countries[country] = cm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		queries:       make(map[string]int64),
		outcomes:      make(map[string]map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func copyCounts[K comparable](src map[K]int64) map[K]int64 {
	if src == nil {
		return nil
	}
	dst := make(map[K]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
