// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/certiprofile-tui/internal/advisor"
	"github.com/jeranaias/certiprofile-tui/internal/intelligence"
	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/store"
)

func newTestController(t *testing.T, handler http.HandlerFunc) (*Controller, *store.SessionStore, *intelligence.Bridge) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage, err := store.NewFileStorageWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	identity := model.Identity{Email: "test@certi.fr", UserID: "user-42"}
	st := store.NewSessionStore(storage, identity, nil)
	if err := st.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	bridge := intelligence.NewBridge()
	st.SetIntelligenceSink(bridge)

	client := advisor.NewClientWithConfig(&advisor.ClientConfig{BaseURL: srv.URL})
	return New(st, bridge, client, identity, nil), st, bridge
}

func chatAnswer(answer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"answer": `+jsonString(answer)+`}`)
	}
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// =============================================================================
// QUERY ENRICHMENT TESTS
// =============================================================================

func TestBuildEnrichedQuery(t *testing.T) {
	tests := []struct {
		name    string
		filters model.Filters
		want    string
	}{
		{"no filters", model.Filters{}, "Bonjour"},
		{"domain only", model.Filters{Domain: "cloud"}, "Bonjour\n[Filtres: domaine: cloud]"},
		{"domain and budget", model.Filters{Domain: "cloud", Budget: "300"},
			"Bonjour\n[Filtres: domaine: cloud, budget: 300€]"},
		{"all three", model.Filters{Domain: "cloud", Level: "avancé", Budget: "500"},
			"Bonjour\n[Filtres: domaine: cloud, niveau: avancé, budget: 500€]"},
		{"level only", model.Filters{Level: "débutant"}, "Bonjour\n[Filtres: niveau: débutant]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildEnrichedQuery("Bonjour", tc.filters); got != tc.want {
				t.Errorf("BuildEnrichedQuery = %q, want %q", got, tc.want)
			}
		})
	}
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestBeginSubmit_BlankInputSkipped(t *testing.T) {
	c, st, _ := newTestController(t, chatAnswer("ok"))

	for _, raw := range []string{"", "   ", "\n\t "} {
		ex, err := c.BeginSubmit(raw)
		if err != nil {
			t.Fatalf("BeginSubmit(%q) failed: %v", raw, err)
		}
		if ex != nil {
			t.Errorf("BeginSubmit(%q) = %+v, want nil", raw, ex)
		}
	}
	if st.Active().TurnCount() != 0 {
		t.Error("skipped submissions must not append turns")
	}
	if c.Loading() {
		t.Error("skipped submissions must not set loading")
	}
}

func TestBeginSubmit_LoadingFlagIsAdvisory(t *testing.T) {
	c, st, _ := newTestController(t, chatAnswer("ok"))

	ex, err := c.BeginSubmit("première question")
	if err != nil || ex == nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	if !c.Loading() {
		t.Fatal("loading flag must be raised while an exchange is in flight")
	}

	// The controller does not serialize submissions; that is the caller's
	// job, via Loading. A second call still starts an exchange.
	second, err := c.BeginSubmit("deuxième question")
	if err != nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	if second == nil {
		t.Fatal("a second exchange must not be blocked by the controller")
	}
	if second.SessionID != ex.SessionID {
		t.Errorf("second exchange targets %q, want %q", second.SessionID, ex.SessionID)
	}
	if st.Active().TurnCount() != 2 {
		t.Errorf("TurnCount = %d, want 2 user turns", st.Active().TurnCount())
	}
}

func TestSubmit_AppendsBothTurns(t *testing.T) {
	c, st, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"answer": "AZ-900 pour commencer.",
			"skill_analysis": {"level_hint": "débutant"},
			"recommendations": [{"titre": "AZ-900"}],
			"context_used": "GRAPH_REASONING"
		}`)
	})

	ran, err := c.Submit(context.Background(), "Par où commencer sur Azure ?")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !ran {
		t.Fatal("Submit should have run the exchange")
	}

	active := st.Active()
	if active.TurnCount() != 2 {
		t.Fatalf("TurnCount = %d, want 2", active.TurnCount())
	}
	if active.Turns[0].Role != model.RoleUser || active.Turns[0].Content != "Par où commencer sur Azure ?" {
		t.Errorf("user turn = %+v", active.Turns[0])
	}
	if active.Turns[1].Role != model.RoleAssistant || active.Turns[1].Content != "AZ-900 pour commencer." {
		t.Errorf("assistant turn = %+v", active.Turns[1])
	}

	snap := bridge.Snapshot()
	if snap.SkillAnalysis == nil || snap.SkillAnalysis.LevelHint != "débutant" {
		t.Errorf("bridge analysis = %+v", snap.SkillAnalysis)
	}
	if len(snap.Recommendations) != 1 || snap.Recommendations[0].Titre != "AZ-900" {
		t.Errorf("bridge recommendations = %+v", snap.Recommendations)
	}
	if snap.ContextUsed != model.ContextGraph {
		t.Errorf("bridge context = %q", snap.ContextUsed)
	}
	if c.Loading() {
		t.Error("loading must clear after Finish")
	}
}

func TestSubmit_TranscriptKeepsRawText(t *testing.T) {
	var sent string
	c, st, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sent = string(body)
		io.WriteString(w, `{"answer": "ok"}`)
	})

	c.SetFilters(model.Filters{Domain: "cloud", Budget: "300"})
	if _, err := c.Submit(context.Background(), "Bonjour"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !strings.Contains(sent, `Bonjour\n[Filtres: domaine: cloud, budget: 300€]`) {
		t.Errorf("wire query missing filter trailer: %s", sent)
	}
	if got := st.Active().Turns[0].Content; got != "Bonjour" {
		t.Errorf("transcript content = %q, want raw text without trailer", got)
	}
}

func TestSubmit_BackendStatusFallback(t *testing.T) {
	c, st, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.Submit(context.Background(), "Question"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	active := st.Active()
	if got := active.Turns[1].Content; got != "Erreur backend (500)" {
		t.Errorf("assistant turn = %q, want 'Erreur backend (500)'", got)
	}
	if active.Recommendations == nil || len(active.Recommendations) != 0 {
		t.Errorf("cached recommendations = %+v, want empty", active.Recommendations)
	}
	if snap := bridge.Snapshot(); len(snap.Recommendations) != 0 || snap.SkillAnalysis != nil {
		t.Errorf("bridge should be emptied on failure, got %+v", snap)
	}
}

func TestSubmit_FailureKeepsAnalysisAndContext(t *testing.T) {
	calls := 0
	c, st, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `{
			"answer": "AZ-900 d'abord.",
			"skill_analysis": {"level_hint": "débutant"},
			"recommendations": [{"titre": "AZ-900"}],
			"context_used": "GRAPH_REASONING"
		}`)
	})

	if _, err := c.Submit(context.Background(), "Par où commencer ?"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := c.Submit(context.Background(), "Et ensuite ?"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// A failed exchange empties only the recommendations; the analysis
	// cached by the earlier response stays on the session.
	active := st.Active()
	if active.SkillAnalysis == nil || active.SkillAnalysis.LevelHint != "débutant" {
		t.Errorf("cached analysis = %+v, want the earlier one preserved", active.SkillAnalysis)
	}
	if len(active.Recommendations) != 0 {
		t.Errorf("cached recommendations = %+v, want empty", active.Recommendations)
	}
	if got := active.Turns[3].Content; got != "Erreur backend (500)" {
		t.Errorf("assistant turn = %q, want 'Erreur backend (500)'", got)
	}

	// The bridge keeps its context tag across the failure.
	if snap := bridge.Snapshot(); snap.ContextUsed != model.ContextGraph {
		t.Errorf("bridge context = %q, want GRAPH_REASONING", snap.ContextUsed)
	}
}

func TestSubmit_UnreachableFallback(t *testing.T) {
	c, st, _ := newTestController(t, chatAnswer("ok"))

	// Point the client at a closed server.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	c.client = advisor.NewClientWithConfig(&advisor.ClientConfig{BaseURL: dead.URL})

	if _, err := c.Submit(context.Background(), "Question"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := st.Active().Turns[1].Content; got != "Serveur injoignable." {
		t.Errorf("assistant turn = %q, want 'Serveur injoignable.'", got)
	}
}

func TestSubmit_EmptyAnswerFallback(t *testing.T) {
	c, st, _ := newTestController(t, chatAnswer(""))

	if _, err := c.Submit(context.Background(), "Question"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := st.Active().Turns[1].Content; got != "Pas de réponse." {
		t.Errorf("assistant turn = %q, want 'Pas de réponse.'", got)
	}
}

// =============================================================================
// TARGETED DELIVERY TESTS
// =============================================================================

func TestFinish_DeliversToOriginatingSession(t *testing.T) {
	c, st, bridge := newTestController(t, chatAnswer("unused"))

	ex, err := c.BeginSubmit("question pour A")
	if err != nil || ex == nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	sessionA := ex.SessionID

	// The user opens a new session while the request is in flight.
	sessionB, err := st.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := &advisor.ChatResponse{
		Answer:          "réponse pour A",
		Recommendations: []model.Recommendation{{Titre: "AZ-104"}},
	}
	if err := c.Finish(ex, resp, nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	a := st.Get(sessionA)
	if a.TurnCount() != 2 || a.Turns[1].Content != "réponse pour A" {
		t.Errorf("session A turns = %+v", a.Turns)
	}
	if len(a.Recommendations) != 1 {
		t.Error("intelligence should be cached on the originating session")
	}
	if st.Get(sessionB.ID).TurnCount() != 0 {
		t.Error("the newly active session must stay untouched")
	}

	// Bridge belongs to session B now; the late answer must not leak in.
	if snap := bridge.Snapshot(); len(snap.Recommendations) != 0 {
		t.Errorf("bridge = %+v, want state of the active session", snap)
	}
}

func TestFinish_UpdatesBridgeWhenStillActive(t *testing.T) {
	c, st, bridge := newTestController(t, chatAnswer("unused"))

	ex, err := c.BeginSubmit("question")
	if err != nil || ex == nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	if err := c.Finish(ex, &advisor.ChatResponse{Answer: "réponse", ContextUsed: model.ContextSocial}, nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	if snap := bridge.Snapshot(); snap.ContextUsed != model.ContextSocial {
		t.Errorf("bridge context = %q, want SOCIAL", snap.ContextUsed)
	}
	if st.ActiveID() != ex.SessionID {
		t.Error("active session changed unexpectedly")
	}
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestUploadDocument_RecordsStateAndBridge(t *testing.T) {
	c, _, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"filename": "cv.pdf",
			"words": 640,
			"preview": "Ingénieur cloud...",
			"skill_analysis": {"level_hint": "avancé"}
		}`)
	})

	info, err := c.UploadDocument(context.Background(), "cv.pdf", strings.NewReader("%PDF-fake"))
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}

	if info.Name != "cv.pdf" || info.Words != 640 {
		t.Errorf("info = %+v", info)
	}
	if doc := c.Document(); doc == nil || doc.Words != 640 {
		t.Errorf("Document() = %+v", doc)
	}
	snap := bridge.Snapshot()
	if snap.SkillAnalysis == nil || snap.SkillAnalysis.LevelHint != "avancé" {
		t.Errorf("bridge analysis = %+v", snap.SkillAnalysis)
	}
	if snap.ContextUsed != model.ContextPDFWithGraph {
		t.Errorf("bridge context = %q, want PDF_WITH_GRAPH", snap.ContextUsed)
	}
}

func TestClearDocument_ClearsLocallyEvenOnBackendError(t *testing.T) {
	c, _, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"filename": "cv.pdf", "words": 10, "preview": "p"}`)
	})

	if _, err := c.UploadDocument(context.Background(), "cv.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	c.client = advisor.NewClientWithConfig(&advisor.ClientConfig{BaseURL: dead.URL})

	err := c.ClearDocument(context.Background())
	if err == nil {
		t.Error("expected the backend error to surface")
	}
	if c.Document() != nil {
		t.Error("local document state must clear regardless of the backend")
	}
	if snap := bridge.Snapshot(); snap.ContextUsed == model.ContextPDFWithGraph {
		t.Error("bridge document state must clear regardless of the backend")
	}
}

func TestClearDocument_SendsUserID(t *testing.T) {
	var cleared string
	c, _, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pdf/clear" {
			body, _ := io.ReadAll(r.Body)
			cleared = string(body)
		}
		io.WriteString(w, `{}`)
	})

	if err := c.ClearDocument(context.Background()); err != nil {
		t.Fatalf("ClearDocument failed: %v", err)
	}
	if !strings.Contains(cleared, `"user_id":"user-42"`) {
		t.Errorf("clear request body = %q, want the identity's user id", cleared)
	}
}

// =============================================================================
// CLEAR ALL TESTS
// =============================================================================

func TestClearAll_ResetsEverything(t *testing.T) {
	c, st, bridge := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"answer": "ok", "recommendations": [{"titre": "AZ-900"}]}`)
	})

	if _, err := c.Submit(context.Background(), "Question"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	c.SetFilters(model.Filters{Domain: "cloud"})
	if _, err := st.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := c.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	if st.Count() != 1 || !st.Active().IsEmpty() {
		t.Error("store should hold a single fresh session")
	}
	if snap := bridge.Snapshot(); snap.SkillAnalysis != nil || len(snap.Recommendations) != 0 {
		t.Errorf("bridge = %+v, want empty", snap)
	}
	if !c.Filters().Empty() {
		t.Error("filters should reset")
	}
	if c.Document() != nil {
		t.Error("document state should reset")
	}
}
