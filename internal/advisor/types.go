// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package advisor

import (
	"github.com/jeranaias/certiprofile-tui/internal/model"
)

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatRequest is the payload for the RAG chat endpoint.
type ChatRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

// ChatResponse is the backend's answer to a chat request.
// Answer may be empty when the pipeline produced no text.
type ChatResponse struct {
	Answer          string                 `json:"answer"`
	SkillAnalysis   *model.SkillAnalysis   `json:"skill_analysis,omitempty"`
	Recommendations []model.Recommendation `json:"recommendations,omitempty"`
	ContextUsed     model.ContextTag       `json:"context_used,omitempty"`
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// UploadResponse describes an ingested PDF document.
type UploadResponse struct {
	Filename      string               `json:"filename"`
	Words         int                  `json:"words"`
	Preview       string               `json:"preview"`
	SkillAnalysis *model.SkillAnalysis `json:"skill_analysis,omitempty"`
}

// ClearRequest asks the backend to drop the uploaded document for a user.
type ClearRequest struct {
	UserID string `json:"user_id"`
}

// backendError is the JSON error body some endpoints return on failure.
type backendError struct {
	Detail string `json:"detail"`
}
