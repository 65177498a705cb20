// Package model contains domain models passed between layers.
package model

import "time"

// ActivityScoreRecord is the latest result for one activity.
// JSON field names match the durable activityScores format.
type ActivityScoreRecord struct {
	ActivityID   string    `json:"activityId"`
	ActivityName string    `json:"activityName"`
	Score        int       `json:"score"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Ledger holds at most one record per activity id, in insertion order.
// The most recently updated record is always last.
type Ledger []ActivityScoreRecord

// Upsert returns a new ledger with any record for rec.ActivityID removed and
// rec appended. The receiver is not modified.
func (l Ledger) Upsert(rec ActivityScoreRecord) Ledger {
	out := make(Ledger, 0, len(l)+1)
	for _, r := range l {
		if r.ActivityID != rec.ActivityID {
			out = append(out, r)
		}
	}
	return append(out, rec)
}

// Find returns the record for activityID, if present.
func (l Ledger) Find(activityID string) (ActivityScoreRecord, bool) {
	for _, r := range l {
		if r.ActivityID == activityID {
			return r, true
		}
	}
	return ActivityScoreRecord{}, false
}

// Clone returns a copy that shares no backing array with l.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return Ledger{}
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Normalize drops records with an empty activity id or a negative score and
// collapses duplicate ids to their last occurrence, keeping the order in which
// those last occurrences appear. It returns the cleaned ledger and the number
// of records dropped.
func (l Ledger) Normalize() (Ledger, int) {
	last := make(map[string]int, len(l))
	for i, r := range l {
		last[r.ActivityID] = i
	}
	out := make(Ledger, 0, len(last))
	for i, r := range l {
		if r.ActivityID == "" || r.Score < 0 || last[r.ActivityID] != i {
			continue
		}
		out = append(out, r)
	}
	return out, len(l) - len(out)
}
