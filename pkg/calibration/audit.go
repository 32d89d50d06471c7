package calibration

import (
	"fmt"
	"sync"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
)

// AuditLog is the append-only log of CalibrationProvenance
// entries. Guarded by a lock; append is the only write path and never
// blocks for more than a single-entry append, so it never stalls a
// Phase 2 worker mid-question.
type AuditLog struct {
	mu      sync.Mutex
	entries []CalibrationProvenance
}

// NewAuditLog returns an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// hashProvenance computes a deterministic hash over a provenance
// entry's fields, excluding the hash field itself.
func hashProvenance(p CalibrationProvenance) (string, error) {
	p.Hash = ""
	return canon.SHA256OfJSON(p)
}

// append computes the entry's hash, stores it, and returns the
// hash-stamped entry.
func (l *AuditLog) append(p CalibrationProvenance) (CalibrationProvenance, error) {
	hash, err := hashProvenance(p)
	if err != nil {
		return CalibrationProvenance{}, fmt.Errorf("calibration: hash provenance for %s: %w", p.QuestionID, err)
	}
	p.Hash = hash

	l.mu.Lock()
	l.entries = append(l.entries, p)
	l.mu.Unlock()

	return p, nil
}

// All returns a defensive copy of every appended entry, in append
// order.
func (l *AuditLog) All() []CalibrationProvenance {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]CalibrationProvenance, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of appended entries.
func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
