package orchestrator

import (
	"sync"
	"time"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// DecisionLog records orchestration decisions for one processing run.
// It is the only shared write surface during a run, so all access is
// mutex-guarded. Entries are append-only.
type DecisionLog struct {
	mu      sync.Mutex
	entries []models.DecisionLogEntry
}

// NewDecisionLog creates an empty decision log.
func NewDecisionLog() *DecisionLog {
	return &DecisionLog{}
}

// Record appends a decision with the next sequence number.
func (l *DecisionLog) Record(actor, decision, reasoning string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, models.DecisionLogEntry{
		Seq:       len(l.entries),
		Timestamp: time.Now(),
		Actor:     actor,
		Decision:  decision,
		Reasoning: reasoning,
	})
}

// Drain returns a copy of all entries in recorded order.
func (l *DecisionLog) Drain() []models.DecisionLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.DecisionLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *DecisionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
