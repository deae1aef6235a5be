package metrics

import (
	"sort"
	"time"

	"afterglow/internal/logger"
)

// Milestone is a named point in time relative to the tracker's start
type Milestone struct {
	Name    string
	Elapsed time.Duration
}

// Milestones records named startup timestamps. Marks are observational
// only and never feed back into rendering.
type Milestones struct {
	start time.Time
	now   func() time.Time
	marks map[string]time.Duration
	order []string
}

// NewMilestones starts a tracker at the current time
func NewMilestones() *Milestones {
	return newMilestonesAt(time.Now)
}

func newMilestonesAt(now func() time.Time) *Milestones {
	return &Milestones{
		start: now(),
		now:   now,
		marks: make(map[string]time.Duration),
	}
}

// Mark records the elapsed time for name. The first mark of a name wins.
func (m *Milestones) Mark(name string) time.Duration {
	if d, ok := m.marks[name]; ok {
		return d
	}
	d := m.now().Sub(m.start)
	m.marks[name] = d
	m.order = append(m.order, name)
	return d
}

// Get returns the recorded elapsed time for name
func (m *Milestones) Get(name string) (time.Duration, bool) {
	d, ok := m.marks[name]
	return d, ok
}

// All returns the milestones sorted by elapsed time, ties in mark order
func (m *Milestones) All() []Milestone {
	out := make([]Milestone, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, Milestone{Name: name, Elapsed: m.marks[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Elapsed < out[j].Elapsed })
	return out
}

// Report writes every milestone at info level
func (m *Milestones) Report(log *logger.Logger) {
	for _, ms := range m.All() {
		log.Infof("milestone %-20s %8.1fms", ms.Name, float64(ms.Elapsed.Microseconds())/1000)
	}
}
