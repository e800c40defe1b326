// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intelligence

import (
	"sync"

	"github.com/jeranaias/certiprofile-tui/internal/model"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the complete bridge state at one point in time. Readers get a
// copy; mutations always replace fields together under the bridge lock, so
// a snapshot is never a mix of two sessions' data.
type Snapshot struct {
	SkillAnalysis   *model.SkillAnalysis
	Recommendations []model.Recommendation
	ContextUsed     model.ContextTag
}

// =============================================================================
// BRIDGE
// =============================================================================

// Bridge holds the intelligence view-state for the active session.
// It is mutated by the conversation controller (chat responses) and by the
// document upload flow; both paths are last-write-wins per field.
type Bridge struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{snap: Snapshot{Recommendations: []model.Recommendation{}}}
}

// Snapshot returns a copy of the current state.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// =============================================================================
// SESSION SWITCHING
// =============================================================================

// ApplySession replaces the whole snapshot with the session's cached
// intelligence data, or with empty state when the session has none.
// Sessions do not cache a context tag, so the tag resets on every switch;
// a partial carry-over could pair one session's analysis with another's
// tag. A nil session resets the bridge.
func (b *Bridge) ApplySession(s *model.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s == nil {
		b.snap = Snapshot{Recommendations: []model.Recommendation{}}
		return
	}
	recs := s.Recommendations
	if recs == nil {
		recs = []model.Recommendation{}
	}
	b.snap = Snapshot{
		SkillAnalysis:   s.SkillAnalysis,
		Recommendations: recs,
	}
}

// Reset clears all fields.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = Snapshot{Recommendations: []model.Recommendation{}}
}

// =============================================================================
// CHAT-DRIVEN UPDATES
// =============================================================================

// ClearPending empties the skill analysis and recommendations while a chat
// request is in flight so stale panel data is never shown. The context tag
// is left alone.
func (b *Bridge) ClearPending() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.SkillAnalysis = nil
	b.snap.Recommendations = []model.Recommendation{}
}

// SetFromChat installs the intelligence payload of a chat response.
func (b *Bridge) SetFromChat(analysis *model.SkillAnalysis, recs []model.Recommendation, ctx model.ContextTag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if recs == nil {
		recs = []model.Recommendation{}
	}
	b.snap = Snapshot{SkillAnalysis: analysis, Recommendations: recs, ContextUsed: ctx}
}

// =============================================================================
// DOCUMENT-DRIVEN UPDATES
// =============================================================================

// SetDocumentAnalysis installs a skill analysis produced by document upload,
// independent of any chat turn, and marks the context accordingly.
func (b *Bridge) SetDocumentAnalysis(analysis *model.SkillAnalysis) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if analysis != nil {
		b.snap.SkillAnalysis = analysis
	}
	b.snap.ContextUsed = model.ContextPDFWithGraph
}

// ClearDocumentState drops the skill analysis and context tag after the
// uploaded document is cleared.
func (b *Bridge) ClearDocumentState() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.SkillAnalysis = nil
	b.snap.ContextUsed = model.ContextNone
}
