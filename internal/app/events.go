package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/logquest/internal/domain/model"
)

// Reasons a durable write did not happen.
const (
	ReasonTooLarge     = "too_large"
	ReasonSerialize    = "serialize"
	ReasonWriteFailed  = "write_failed"
	ReasonRemoveFailed = "remove_failed"
)

// DurabilityEvent reports an in-memory change that did not reach durable
// storage. The in-memory state has already advanced when it is emitted.
type DurabilityEvent struct {
	ID     uuid.UUID
	Key    string
	Reason string
	// Size is the serialized payload length, 0 when unknown.
	Size int
	Err  error
	At   time.Time
}

// WriteResult describes the outcome of AddActivityScore.
type WriteResult struct {
	// Record is the record now held for the activity.
	Record model.ActivityScoreRecord
	// Accepted is false only when the activity id was blank.
	Accepted bool
	// Persisted reports whether the ledger reached durable storage.
	Persisted bool
}
