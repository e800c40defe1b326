// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/certiprofile-tui/internal/advisor"
	"github.com/jeranaias/certiprofile-tui/internal/intelligence"
	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/store"
)

// =============================================================================
// FALLBACK MESSAGES
// =============================================================================

// User-facing fallback texts rendered as assistant turns when the backend
// fails. The wording is fixed; the UI and the transcript rely on it.
const (
	MsgNoAnswer    = "Pas de réponse."
	MsgUnreachable = "Serveur injoignable."
)

// backendErrorMessage formats the fallback for a non-2xx response.
func backendErrorMessage(status int) string {
	return fmt.Sprintf("Erreur backend (%d)", status)
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Exchange is an in-flight submission. It pins the session the response must
// be delivered to, no matter what the user does meanwhile.
type Exchange struct {
	// SessionID is the session that was active when the exchange began.
	SessionID string

	// Query is the filter-enriched text to send to the backend. The session
	// transcript keeps the raw text instead.
	Query string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives conversation exchanges between the session store, the
// intelligence bridge and the advisor backend.
//
// Safe for concurrent use. The loading flag is advisory: the controller does
// not serialize submissions itself, callers check Loading before starting
// another exchange.
type Controller struct {
	mu       sync.Mutex
	store    *store.SessionStore
	bridge   *intelligence.Bridge
	client   *advisor.Client
	identity model.Identity
	log      *zap.Logger

	filters  model.Filters
	loading  bool
	document *model.DocumentInfo
}

// New creates a controller over the given store, bridge and backend client.
func New(st *store.SessionStore, bridge *intelligence.Bridge, client *advisor.Client, identity model.Identity, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:    st,
		bridge:   bridge,
		client:   client,
		identity: identity,
		log:      log,
	}
}

// Loading reports whether an exchange is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// SetFilters replaces the active query filters. Filters are ephemeral; they
// shape outgoing queries and are never persisted.
func (c *Controller) SetFilters(f model.Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = f
}

// Filters returns the active query filters.
func (c *Controller) Filters() model.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Document returns the currently uploaded document, or nil.
func (c *Controller) Document() *model.DocumentInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.document
}

// =============================================================================
// SUBMISSION
// =============================================================================

// BeginSubmit starts an exchange for the given raw input.
//
// Returns (nil, nil) when the input is blank; the caller simply ignores the
// submission. Otherwise the raw text is appended to the active session as a
// user turn, pending bridge state is cleared, and the returned Exchange
// carries the enriched query to send. BeginSubmit raises the loading flag
// but does not reject a second call while one is in flight; callers that
// want one exchange at a time check Loading first.
func (c *Controller) BeginSubmit(raw string) (*Exchange, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	c.mu.Lock()
	c.loading = true
	filters := c.filters
	c.mu.Unlock()

	active := c.store.Active()
	if active == nil {
		c.setLoading(false)
		return nil, store.ErrSessionNotFound
	}

	// The transcript keeps what the user typed; only the wire query carries
	// the filter trailer.
	if err := c.store.AppendUserTurn(active.ID, trimmed); err != nil {
		c.setLoading(false)
		return nil, err
	}
	c.bridge.ClearPending()

	query := BuildEnrichedQuery(trimmed, filters)
	c.log.Debug("exchange started",
		zap.String("session_id", active.ID),
		zap.Int("query_runes", len([]rune(query))))

	return &Exchange{SessionID: active.ID, Query: query}, nil
}

// Finish completes an exchange with the backend's response or error.
//
// Exactly one assistant turn is appended to the exchange's session. On
// failure the turn carries a fixed fallback message and only the session's
// cached recommendations are emptied; a skill analysis cached by an earlier
// response survives, and the bridge is left as it was. On success the bridge
// is refreshed, but only when the exchange's session is still the active one.
func (c *Controller) Finish(ex *Exchange, resp *advisor.ChatResponse, chatErr error) error {
	defer c.setLoading(false)

	if chatErr != nil {
		c.log.Warn("exchange failed",
			zap.String("session_id", ex.SessionID),
			zap.Error(chatErr))
		if err := c.store.AppendAssistantTurn(ex.SessionID, failureMessage(chatErr)); err != nil {
			return err
		}
		return c.store.CacheRecommendations(ex.SessionID, nil)
	}

	answer := MsgNoAnswer
	var analysis *model.SkillAnalysis
	var recs []model.Recommendation
	ctxTag := model.ContextNone
	if resp != nil {
		if strings.TrimSpace(resp.Answer) != "" {
			answer = resp.Answer
		}
		analysis, recs, ctxTag = resp.SkillAnalysis, resp.Recommendations, resp.ContextUsed
	}

	if err := c.store.AppendAssistantTurn(ex.SessionID, answer); err != nil {
		return err
	}
	if err := c.store.CacheIntelligence(ex.SessionID, analysis, recs); err != nil {
		return err
	}

	if c.store.ActiveID() == ex.SessionID {
		c.bridge.SetFromChat(analysis, recs, ctxTag)
	}
	return nil
}

// Perform executes the backend call for an exchange. Meant to run off the
// UI loop, between BeginSubmit and Finish.
func (c *Controller) Perform(ctx context.Context, ex *Exchange) (*advisor.ChatResponse, error) {
	return c.client.Chat(ctx, ex.Query, c.identity.UserID)
}

// Submit runs a full exchange synchronously: begin, call the backend,
// finish. Returns (false, nil) when the input was skipped.
func (c *Controller) Submit(ctx context.Context, raw string) (bool, error) {
	ex, err := c.BeginSubmit(raw)
	if err != nil {
		return false, err
	}
	if ex == nil {
		return false, nil
	}

	resp, chatErr := c.Perform(ctx, ex)
	return true, c.Finish(ex, resp, chatErr)
}

// failureMessage maps a chat error to its fixed fallback text.
func failureMessage(chatErr error) string {
	if code := advisor.StatusCode(chatErr); code != 0 {
		return backendErrorMessage(code)
	}
	return MsgUnreachable
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// UploadDocument sends a CV to the backend for ingestion and records the
// resulting document state and skill analysis.
func (c *Controller) UploadDocument(ctx context.Context, filename string, content io.Reader) (*model.DocumentInfo, error) {
	resp, err := c.client.UploadDocument(ctx, c.identity.UserID, filename, content)
	if err != nil {
		return nil, err
	}

	name := resp.Filename
	if name == "" {
		name = filename
	}
	info := &model.DocumentInfo{Name: name, Words: resp.Words, Preview: resp.Preview}

	c.mu.Lock()
	c.document = info
	c.mu.Unlock()

	c.bridge.SetDocumentAnalysis(resp.SkillAnalysis)
	c.log.Info("document uploaded",
		zap.String("filename", name),
		zap.Int("words", resp.Words))
	return info, nil
}

// ClearDocument drops the uploaded document on both sides. Local state is
// cleared even when the backend call fails; the error is still returned so
// the UI can report it.
func (c *Controller) ClearDocument(ctx context.Context) error {
	c.mu.Lock()
	c.document = nil
	c.mu.Unlock()
	c.bridge.ClearDocumentState()

	return c.client.ClearDocument(ctx, c.identity.UserID)
}

// ClearAll wipes every session, the bridge and the uploaded document. The
// store is left with a single fresh session.
func (c *Controller) ClearAll(ctx context.Context) error {
	if err := c.store.Reset(); err != nil {
		return err
	}
	c.mu.Lock()
	c.document = nil
	c.filters = model.Filters{}
	c.mu.Unlock()

	return c.client.ClearDocument(ctx, c.identity.UserID)
}
