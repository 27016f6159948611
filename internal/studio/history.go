package studio

import "studio/internal/domain"

// HistoryLimit caps how many past results the ledger retains.
const HistoryLimit = 10

// Ledger is the bounded, newest-first record of past results. Guarded by
// the session mutex. Entries are never mutated or reordered; the only
// removal is tail eviction when the cap is exceeded.
type Ledger struct {
	entries []domain.GenerationResult
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record prepends a result, evicting the oldest entry beyond the cap.
func (l *Ledger) Record(result domain.GenerationResult) {
	l.entries = append([]domain.GenerationResult{result}, l.entries...)
	if len(l.entries) > HistoryLimit {
		l.entries = l.entries[:HistoryLimit]
	}
}

// Select returns the entry matching id without touching the ledger.
func (l *Ledger) Select(id string) (domain.GenerationResult, error) {
	for _, entry := range l.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return domain.GenerationResult{}, domain.ErrNotFound
}

// Entries returns a newest-first snapshot.
func (l *Ledger) Entries() []domain.GenerationResult {
	out := make([]domain.GenerationResult, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current ledger size.
func (l *Ledger) Len() int {
	return len(l.entries)
}
