package survival

import (
	"strconv"
	"sync"

	"lifegrid/internal/core"
)

// Stats aggregates one tick of the world.
type Stats struct {
	Tick         int
	Living       int
	Dead         int
	OldestLiving int
	Births       int
	Deaths       int
	Consumed     int
}

// PopulationObserver receives the aggregate counters after every tick.
type PopulationObserver interface {
	ReportPopulation(living, dead int)
	RecordOldestLiving(age int)
}

// StatsObserver is implemented by observers that want the full tick record.
type StatsObserver interface {
	ObserveTick(s Stats)
}

// Monitor is the statistics panel model: latest counts plus the oldest
// living age ever recorded. Reads are safe from other goroutines.
type Monitor struct {
	mu         sync.Mutex
	living     int
	dead       int
	oldest     int
	oldestEver int
}

// MonitorReading is a copy of the monitor's counters.
type MonitorReading struct {
	Living     int
	Dead       int
	Oldest     int
	OldestEver int
}

// NewMonitor returns an empty monitor.
func NewMonitor() *Monitor { return &Monitor{} }

// ReportPopulation records the latest living and dead counts.
func (m *Monitor) ReportPopulation(living, dead int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.living = living
	m.dead = dead
}

// RecordOldestLiving records the latest oldest age and keeps the all-time
// maximum.
func (m *Monitor) RecordOldestLiving(age int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oldest = age
	if age > m.oldestEver {
		m.oldestEver = age
	}
}

// Reading returns a snapshot of the counters.
func (m *Monitor) Reading() MonitorReading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MonitorReading{Living: m.living, Dead: m.dead, Oldest: m.oldest, OldestEver: m.oldestEver}
}

// StatLines formats the reading for the statistics panel.
func (m *Monitor) StatLines() []core.StatLine {
	r := m.Reading()
	return []core.StatLine{
		{Label: "Living", Value: strconv.Itoa(r.Living)},
		{Label: "Dead", Value: strconv.Itoa(r.Dead)},
		{Label: "Oldest living", Value: strconv.Itoa(r.Oldest)},
		{Label: "Oldest ever", Value: strconv.Itoa(r.OldestEver)},
	}
}
