// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/certiprofile-tui/internal/util"
)

// DefaultTitle is the title of a session before its first user turn.
const DefaultTitle = "Nouvelle conversation"

// TitleMaxRunes is the maximum length of an auto-generated session title.
// Longer first turns are truncated with a trailing ellipsis.
const TitleMaxRunes = 30

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one conversation thread: its ordered turns plus the
// intelligence results cached from the last chat response.
//
// The title is set exactly once, from the session's first user turn, and is
// immutable afterwards. Turns are append-only.
type Session struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Turns, in append order.
	Turns []Turn `json:"turns"`

	// Cached intelligence from the last chat response in this session.
	SkillAnalysis   *SkillAnalysis   `json:"skill_analysis,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// NewSession creates an empty session with a generated ID and the default
// title. UUIDs keep IDs unique regardless of wall-clock resolution.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:              uuid.NewString(),
		Title:           DefaultTitle,
		CreatedAt:       now,
		UpdatedAt:       now,
		Turns:           []Turn{},
		Recommendations: []Recommendation{},
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// AppendUserTurn appends a user turn with the raw (non-enriched) text.
// If this is the session's first turn, the title is derived from it;
// an already-set title is never touched.
func (s *Session) AppendUserTurn(content string) {
	if len(s.Turns) == 0 {
		s.Title = util.TruncateRunes(content, TitleMaxRunes)
	}
	s.Turns = append(s.Turns, NewUserTurn(content))
	s.UpdatedAt = time.Now()
}

// AppendAssistantTurn appends an assistant turn.
func (s *Session) AppendAssistantTurn(content string) {
	s.Turns = append(s.Turns, NewAssistantTurn(content))
	s.UpdatedAt = time.Now()
}

// TurnCount returns the number of turns.
func (s *Session) TurnCount() int {
	return len(s.Turns)
}

// IsEmpty returns true if there are no turns.
func (s *Session) IsEmpty() bool {
	return len(s.Turns) == 0
}

// LastTurn returns the most recent turn, or nil if the session is empty.
func (s *Session) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

// =============================================================================
// INTELLIGENCE CACHE
// =============================================================================

// CacheIntelligence stores the skill analysis and recommendations produced
// by a chat response onto the session.
func (s *Session) CacheIntelligence(analysis *SkillAnalysis, recs []Recommendation) {
	s.SkillAnalysis = analysis
	if recs == nil {
		recs = []Recommendation{}
	}
	s.Recommendations = recs
	s.UpdatedAt = time.Now()
}

// CacheRecommendations replaces only the cached recommendations, leaving
// the skill analysis as it was. A nil slice is stored as an empty list.
// Failed exchanges empty the list this way without losing the analysis
// cached by an earlier response.
func (s *Session) CacheRecommendations(recs []Recommendation) {
	if recs == nil {
		recs = []Recommendation{}
	}
	s.Recommendations = recs
	s.UpdatedAt = time.Now()
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Turns = make([]Turn, len(s.Turns))
	copy(clone.Turns, s.Turns)
	clone.Recommendations = make([]Recommendation, len(s.Recommendations))
	copy(clone.Recommendations, s.Recommendations)
	if s.SkillAnalysis != nil {
		sa := *s.SkillAnalysis
		clone.SkillAnalysis = &sa
	}
	return &clone
}
