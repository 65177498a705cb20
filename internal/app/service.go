// Package service holds the player profile: the player name, the activity
// score ledger and the audio preference, kept in memory and mirrored to a
// storage backend.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/logquest/internal/adapters/storage"
	"github.com/okian/logquest/internal/domain/guard"
	"github.com/okian/logquest/internal/domain/model"
	"github.com/okian/logquest/internal/domain/sanitize"
	"github.com/okian/logquest/internal/domain/scoring"
	"github.com/okian/logquest/pkg/logger"
	"github.com/okian/logquest/pkg/metrics"
)

// Durable keys.
const (
	KeyPlayerName     = "playerName"
	KeyActivityScores = "activityScores"
	KeyAudioMuted     = "audioMuted"
)

// Service is the player profile store. Every method is atomic with respect
// to the others.
type Service struct {
	mu sync.Mutex

	store        storage.Store
	guard        *guard.Guard
	logger       logger.Logger
	now          func() time.Time
	onDurability func(DurabilityEvent)

	playerName string
	ledger     model.Ledger
	audioMuted bool
}

// New creates a Service over store. The profile starts empty until Load.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		ledger: model.Ledger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("profile")
	}
	if s.guard == nil {
		s.guard = guard.New()
	}
	return s
}

// Load replaces the in-memory profile with the durable one. Unreadable or
// oversized ledgers load as empty; the error is non-nil only when the
// backend itself fails, and then the profile is left empty.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playerName, s.ledger, s.audioMuted = "", model.Ledger{}, false

	rawName, ok, err := s.store.Get(ctx, KeyPlayerName)
	if err != nil {
		return fmt.Errorf("load %s: %w", KeyPlayerName, err)
	}
	var name string
	if ok {
		name = sanitize.SanitizeText(rawName)
		if !sanitize.StoredNameAcceptable(name) {
			s.logger.Debug(ctx, "discarding stored player name")
			name = ""
		}
	}

	rawScores, ok, err := s.store.Get(ctx, KeyActivityScores)
	if err != nil {
		return fmt.Errorf("load %s: %w", KeyActivityScores, err)
	}
	ledger := model.Ledger{}
	if ok {
		ledger = s.decodeLedger(ctx, rawScores)
	}

	rawMuted, ok, err := s.store.Get(ctx, KeyAudioMuted)
	if err != nil {
		return fmt.Errorf("load %s: %w", KeyAudioMuted, err)
	}

	s.playerName = name
	s.ledger = ledger
	s.audioMuted = ok && rawMuted == "true"
	metrics.UpdateLedger(len(s.ledger), scoring.TotalScore(s.ledger))

	s.logger.Debug(ctx, "profile loaded",
		logger.Bool("name_set", s.playerName != ""),
		logger.Int("activities", len(s.ledger)),
	)
	return nil
}

// decodeLedger parses a stored ledger. Text that is not a JSON array is
// removed from the backend; an oversized array is ignored but left in place.
// Elements that do not decode as records are skipped one by one.
func (s *Service) decodeLedger(ctx context.Context, raw string) model.Ledger {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		if err == nil {
			err = ErrLedgerNotArray
		}
		s.logger.Error(ctx, "error loading activity scores",
			logger.String("key", KeyActivityScores),
			logger.Error(err),
		)
		metrics.RecordCorruptDiscard(KeyActivityScores)
		if rmErr := s.store.Remove(ctx, KeyActivityScores); rmErr != nil {
			s.logger.Warn(ctx, "failed to remove corrupt activity scores", logger.Error(rmErr))
		}
		return model.Ledger{}
	}

	// Raw elements keep unknown fields, so the size is that of the stored array.
	if _, err := s.guard.Admit(ctx, KeyActivityScores, items); err != nil {
		return model.Ledger{}
	}

	decoded := make(model.Ledger, 0, len(items))
	skipped := 0
	for _, item := range items {
		var rec model.ActivityScoreRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			skipped++
			continue
		}
		decoded = append(decoded, rec)
	}

	ledger, dropped := decoded.Normalize()
	if dropped += skipped; dropped > 0 {
		s.logger.Warn(ctx, "dropped invalid activity score records", logger.Int("dropped", dropped))
	}
	return ledger
}

// PlayerName returns the current name, empty when none is set.
func (s *Service) PlayerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerName
}

// Ledger returns a copy of the score ledger in insertion order.
func (s *Service) Ledger() model.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// TotalScore returns the sum of all recorded scores.
func (s *Service) TotalScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.TotalScore(s.ledger)
}

// ValidatePlayerName checks raw against the interactive name rules.
func (s *Service) ValidatePlayerName(raw string) error {
	return sanitize.ValidatePlayerName(raw)
}

// SetPlayerName stores the sanitized name. Names that sanitize to nothing or
// exceed the maximum length are ignored and false is returned.
func (s *Service) SetPlayerName(ctx context.Context, raw string) bool {
	name := sanitize.SanitizeText(raw)
	if !sanitize.StoredNameAcceptable(name) {
		s.logger.Debug(ctx, "ignoring player name", logger.Int("length", len(raw)))
		return false
	}

	s.mu.Lock()
	s.playerName = name
	var ev *DurabilityEvent
	if err := s.store.Set(ctx, KeyPlayerName, name); err != nil {
		ev = s.durabilityLost(ctx, KeyPlayerName, ReasonWriteFailed, len(name), err)
	}
	s.mu.Unlock()

	metrics.RecordNameUpdate()
	s.notify(ev)
	return true
}

// AddActivityScore records score for the activity, replacing any earlier
// record for the same id. The in-memory ledger always advances; Persisted
// reports whether the backend was updated too. Negative scores count as 0
// and a blank activity id is ignored.
func (s *Service) AddActivityScore(ctx context.Context, activityID, activityName string, score int) WriteResult {
	if strings.TrimSpace(activityID) == "" {
		s.logger.Warn(ctx, "ignoring score without activity id")
		return WriteResult{}
	}
	if score < 0 {
		s.logger.Warn(ctx, "clamping negative score",
			logger.String("activity", activityID),
			logger.Int("score", score),
		)
		score = 0
	}

	s.mu.Lock()
	rec := model.ActivityScoreRecord{
		ActivityID:   activityID,
		ActivityName: activityName,
		Score:        score,
		CompletedAt:  s.now(),
	}
	s.ledger = s.ledger.Upsert(rec)
	total := scoring.TotalScore(s.ledger)
	entries := len(s.ledger)

	res := WriteResult{Record: rec, Accepted: true}
	var ev *DurabilityEvent
	payload, err := s.guard.Admit(ctx, KeyActivityScores, s.ledger)
	switch {
	case err != nil:
		ev = s.durabilityLost(ctx, KeyActivityScores, guard.Reason(err), guard.Size(err), err)
	default:
		if err := s.store.Set(ctx, KeyActivityScores, string(payload)); err != nil {
			ev = s.durabilityLost(ctx, KeyActivityScores, ReasonWriteFailed, len(payload), err)
		} else {
			res.Persisted = true
		}
	}
	s.mu.Unlock()

	metrics.RecordScoreRecorded()
	metrics.UpdateLedger(entries, total)
	s.logger.Debug(ctx, "score recorded",
		logger.String("activity", activityID),
		logger.Int("score", score),
		logger.Bool("persisted", res.Persisted),
	)
	s.notify(ev)
	return res
}

// ResetScores clears the ledger and its durable copy. The name is kept.
func (s *Service) ResetScores(ctx context.Context) {
	s.mu.Lock()
	s.ledger = model.Ledger{}
	var ev *DurabilityEvent
	if err := s.store.Remove(ctx, KeyActivityScores); err != nil {
		ev = s.durabilityLost(ctx, KeyActivityScores, ReasonRemoveFailed, 0, err)
	}
	s.mu.Unlock()

	metrics.RecordScoreReset()
	metrics.UpdateLedger(0, 0)
	s.notify(ev)
}

// AudioMuted reports the audio preference.
func (s *Service) AudioMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioMuted
}

// SetAudioMuted sets and persists the audio preference.
func (s *Service) SetAudioMuted(ctx context.Context, muted bool) {
	s.mu.Lock()
	ev := s.setAudioMutedLocked(ctx, muted)
	s.mu.Unlock()
	s.notify(ev)
}

// ToggleAudioMuted flips the audio preference and returns the new value.
func (s *Service) ToggleAudioMuted(ctx context.Context) bool {
	s.mu.Lock()
	muted := !s.audioMuted
	ev := s.setAudioMutedLocked(ctx, muted)
	s.mu.Unlock()
	s.notify(ev)
	return muted
}

func (s *Service) setAudioMutedLocked(ctx context.Context, muted bool) *DurabilityEvent {
	s.audioMuted = muted
	val := "false"
	if muted {
		val = "true"
	}
	if err := s.store.Set(ctx, KeyAudioMuted, val); err != nil {
		return s.durabilityLost(ctx, KeyAudioMuted, ReasonWriteFailed, len(val), err)
	}
	return nil
}

// Stats returns a snapshot of the profile.
func (s *Service) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"player_name_set": s.playerName != "",
		"activities":      len(s.ledger),
		"total_score":     scoring.TotalScore(s.ledger),
		"audio_muted":     s.audioMuted,
	}
}

// durabilityLost logs and counts a failed durable write. Callers hold mu.
func (s *Service) durabilityLost(ctx context.Context, key, reason string, size int, err error) *DurabilityEvent {
	ev := &DurabilityEvent{
		ID:     uuid.New(),
		Key:    key,
		Reason: reason,
		Size:   size,
		Err:    err,
		At:     s.now(),
	}
	s.logger.Warn(ctx, "change kept in memory only",
		logger.String("event_id", ev.ID.String()),
		logger.String("key", key),
		logger.String("reason", reason),
		logger.Error(err),
	)
	metrics.RecordDurabilityFailure(key, reason)
	return ev
}

func (s *Service) notify(ev *DurabilityEvent) {
	if ev == nil || s.onDurability == nil {
		return
	}
	s.onDurability(*ev)
}
