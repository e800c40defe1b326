// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is the authenticated user, established once before the core
// initializes. Email scopes the persistence record; UserID is sent with
// every backend request.
type Identity struct {
	Email  string
	UserID string
}

// Valid reports whether both fields are present. The core treats a missing
// field as a fatal precondition failure, not a recoverable error.
func (i Identity) Valid() bool {
	return i.Email != "" && i.UserID != ""
}

// =============================================================================
// FILTERS
// =============================================================================

// Filters are the user's ephemeral query preferences. They are never
// persisted; when set they are merged textually into outgoing queries.
type Filters struct {
	Domain string
	Level  string
	Budget string
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f.Domain == "" && f.Level == "" && f.Budget == ""
}

// =============================================================================
// SKILL ANALYSIS
// =============================================================================

// SkillAnalysis is the backend's structured extraction of competencies from
// chat text or an uploaded CV document.
type SkillAnalysis struct {
	ExtractedSkills    []string           `json:"extracted_skills"`
	SkillVector        map[string]float64 `json:"skill_vector"`
	Domains            []string           `json:"domains"`
	LevelHint          string             `json:"level_hint"`
	HeldCertifications []string           `json:"held_certifications,omitempty"`
	ExperienceYears    int                `json:"experience_years,omitempty"`
}

// =============================================================================
// RECOMMENDATION
// =============================================================================

// Recommendation is one certification suggestion from the backend.
// Read-only render data; never mutated by the client.
type Recommendation struct {
	Titre         string   `json:"titre"`
	Niveau        string   `json:"niveau"`
	Prix          float64  `json:"prix"`
	Duree         string   `json:"duree"`
	Domaine       string   `json:"domaine"`
	CombinedScore float64  `json:"combined_score"`
	MatchedSkills []string `json:"matched_skills"`
	Competences   []string `json:"competences"`
}

// =============================================================================
// CONTEXT TAG
// =============================================================================

// ContextTag reports which reasoning path the backend used for the last
// response. Empty means unknown / none.
type ContextTag string

const (
	ContextNone         ContextTag = ""
	ContextGraph        ContextTag = "GRAPH_REASONING"
	ContextPDFWithGraph ContextTag = "PDF_WITH_GRAPH"
	ContextSocial       ContextTag = "SOCIAL"
)

// =============================================================================
// DOCUMENT INFO
// =============================================================================

// DocumentInfo describes the currently uploaded CV document, as reported by
// the upload endpoint.
type DocumentInfo struct {
	Name    string
	Words   int
	Preview string
}
