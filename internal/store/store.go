// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/certiprofile-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when an operation references a session id
// absent from the store. This signals caller misuse: under correct usage
// ids are always taken from the current session list.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// StoreError represents a session-store error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// INTELLIGENCE SINK
// =============================================================================

// IntelligenceSink receives the bridge-state swap that accompanies every
// change of the active session. Implemented by intelligence.Bridge; kept as
// a local interface so the store stays decoupled from the view-model.
type IntelligenceSink interface {
	// ApplySession atomically replaces the sink state with the session's
	// cached intelligence data.
	ApplySession(s *model.Session)

	// Reset clears the sink state entirely.
	Reset()
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore holds the ordered session list (most recent first) for one
// identity and keeps it write-through persisted. Exactly one session is
// active; the invariant that the active id references a present session
// holds across every operation.
type SessionStore struct {
	mu       sync.Mutex
	storage  Storage
	identity model.Identity
	sink     IntelligenceSink
	log      *zap.Logger

	sessions []*model.Session
	activeID string
}

// NewSessionStore creates a store for the given identity. The identity must
// be established before the store initializes; persistence is keyed by its
// email.
func NewSessionStore(storage Storage, identity model.Identity, log *zap.Logger) *SessionStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStore{storage: storage, identity: identity, log: log}
}

// SetIntelligenceSink attaches the bridge that active-session switches are
// mirrored into. Optional; a nil sink is skipped.
func (s *SessionStore) SetIntelligenceSink(sink IntelligenceSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// =============================================================================
// LOAD & PERSIST
// =============================================================================

// Load restores the session list from storage. When no record exists, or
// the record holds an empty list, one default empty session is synthesized
// and persisted so the store is never empty.
func (s *SessionStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.storage.Read(s.identity.Email)
	if err != nil {
		return fmt.Errorf("failed to read session record: %w", err)
	}

	if ok {
		if err := json.Unmarshal(data, &s.sessions); err != nil {
			return fmt.Errorf("failed to decode session record: %w", err)
		}
	}

	if len(s.sessions) == 0 {
		fresh := model.NewSession()
		s.sessions = []*model.Session{fresh}
		s.activeID = fresh.ID
		s.log.Info("no persisted sessions, synthesized default",
			zap.String("session_id", fresh.ID))
		return s.persistLocked()
	}

	s.activeID = s.sessions[0].ID
	s.log.Info("restored sessions",
		zap.Int("count", len(s.sessions)),
		zap.String("active_id", s.activeID))
	return nil
}

// persistLocked writes the full session list through to storage.
// Callers hold s.mu. Every committed mutation funnels through here before
// control returns, which is what makes reloads lossless.
func (s *SessionStore) persistLocked() error {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := s.storage.Write(s.identity.Email, data); err != nil {
		s.log.Error("session persist failed", zap.Error(err))
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sessions returns the session list, most recent first.
func (s *SessionStore) Sessions() []*model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Count returns the number of sessions.
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ActiveID returns the active session id.
func (s *SessionStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the active session.
func (s *SessionStore) Active() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(s.activeID)
}

// Get returns the session with the given id, or nil when absent.
func (s *SessionStore) Get(id string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *SessionStore) findLocked(id string) *model.Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// Create prepends a new empty session, makes it active and clears the
// intelligence sink (a fresh session has no cached panel data).
func (s *SessionStore) Create() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := model.NewSession()
	s.sessions = append([]*model.Session{fresh}, s.sessions...)
	s.activeID = fresh.ID
	if s.sink != nil {
		s.sink.ApplySession(fresh)
	}
	s.log.Info("session created", zap.String("session_id", fresh.ID))
	return fresh, s.persistLocked()
}

// Delete removes the session with the given id. When sessions remain, the
// first remaining one becomes active and its cached intelligence replaces
// the sink state; when the last session is deleted, a fresh empty one is
// synthesized and the sink is cleared.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if len(s.sessions) > 0 {
		next := s.sessions[0]
		s.activeID = next.ID
		if s.sink != nil {
			s.sink.ApplySession(next)
		}
	} else {
		fresh := model.NewSession()
		s.sessions = []*model.Session{fresh}
		s.activeID = fresh.ID
		if s.sink != nil {
			s.sink.Reset()
		}
	}

	s.log.Info("session deleted",
		zap.String("session_id", id),
		zap.String("active_id", s.activeID))
	return s.persistLocked()
}

// Select makes the session with the given id active and atomically swaps
// the sink state to that session's cached intelligence data.
func (s *SessionStore) Select(id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLocked(id)
	if target == nil {
		return nil, ErrSessionNotFound
	}

	s.activeID = id
	if s.sink != nil {
		s.sink.ApplySession(target)
	}
	return target, nil
}

// Reset drops every session (and the persisted record) and starts over
// with a single fresh session, clearing the sink.
func (s *SessionStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(s.identity.Email); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}

	fresh := model.NewSession()
	s.sessions = []*model.Session{fresh}
	s.activeID = fresh.ID
	if s.sink != nil {
		s.sink.Reset()
	}
	s.log.Info("session store reset", zap.String("session_id", fresh.ID))
	return s.persistLocked()
}

// =============================================================================
// SESSION MUTATION
// =============================================================================

// AppendUserTurn appends a user turn to the given session (first-turn title
// rules apply) and persists.
func (s *SessionStore) AppendUserTurn(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.AppendUserTurn(content)
	return s.persistLocked()
}

// AppendAssistantTurn appends an assistant turn to the given session and
// persists. The id may reference a non-active session: responses are
// applied to the session they were issued for.
func (s *SessionStore) AppendAssistantTurn(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.AppendAssistantTurn(content)
	return s.persistLocked()
}

// CacheIntelligence stores chat-produced intelligence onto the given
// session and persists. Like turn appends, this targets the session the
// response belongs to regardless of which one is currently active.
func (s *SessionStore) CacheIntelligence(id string, analysis *model.SkillAnalysis, recs []model.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.CacheIntelligence(analysis, recs)
	return s.persistLocked()
}

// CacheRecommendations replaces only the recommendations cached on the
// given session, leaving its skill analysis untouched, and persists.
// Failed exchanges use this to empty the list without discarding the
// analysis from an earlier response.
func (s *SessionStore) CacheRecommendations(id string, recs []model.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.CacheRecommendations(recs)
	return s.persistLocked()
}
