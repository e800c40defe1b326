// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/certiprofile-tui/internal/controller"
	"github.com/jeranaias/certiprofile-tui/internal/intelligence"
	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/store"
	"github.com/jeranaias/certiprofile-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the conversation view.
type Model struct {
	controller *controller.Controller
	store      *store.SessionStore
	bridge     *intelligence.Bridge
	theme      *styles.Theme
	log        *zap.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// status is a transient message shown in the status bar.
	status string
}

// New creates the conversation view.
func New(ctrl *controller.Controller, st *store.SessionStore, bridge *intelligence.Bridge, theme *styles.Theme, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Posez votre question (/help pour les commandes)"
	input.Prompt = ""
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		controller: ctrl,
		store:      st,
		bridge:     bridge,
		theme:      theme,
		log:        log,
		input:      input,
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			return m.newSession()
		case "ctrl+o":
			return m.cycleSession()
		case "enter":
			return m.submitInput()
		}

	case chatResultMsg:
		if err := m.controller.Finish(msg.exchange, msg.resp, msg.err); err != nil {
			m.status = err.Error()
			m.log.Error("finish failed", zap.Error(err))
		}
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case uploadResultMsg:
		if msg.err != nil {
			m.status = "Échec de l'analyse du CV"
			m.log.Warn("upload failed", zap.Error(msg.err))
		} else {
			m.status = "CV analysé : " + msg.info.Name
		}
		return m, nil

	case clearDocMsg:
		if msg.err != nil {
			m.status = "Document retiré localement, backend injoignable"
		} else {
			m.status = "Document retiré"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// layout sizes the viewport from the window dimensions, leaving room for the
// header, tabs, status bar and input.
func (m *Model) layout() {
	const chromeLines = 7
	height := m.height - chromeLines
	if height < 3 {
		height = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, height)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = height
	}
	m.input.Width = m.width - 6
}

// refreshTranscript rebuilds the viewport content from the active session.
func (m *Model) refreshTranscript() {
	active := m.store.Active()
	if active == nil {
		m.viewport.SetContent("")
		return
	}

	var parts []string
	for _, turn := range active.Turns {
		parts = append(parts, renderTurn(turn, m.theme, m.viewport.Width))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(raw), "/") {
		m.input.Reset()
		return m.handleCommand(strings.TrimSpace(raw))
	}

	// Serialization is the caller's job: honor the advisory loading flag
	// and keep at most one exchange in flight.
	if m.controller.Loading() {
		return m, nil
	}

	ex, err := m.controller.BeginSubmit(raw)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if ex == nil {
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.spinner.Tick, m.performExchange(ex))
}

func (m Model) performExchange(ex *controller.Exchange) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.controller.Perform(context.Background(), ex)
		return chatResultMsg{exchange: ex, resp: resp, err: err}
	}
}

func (m Model) newSession() (tea.Model, tea.Cmd) {
	if _, err := m.store.Create(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.refreshTranscript()
	return m, nil
}

// cycleSession activates the next session in the list.
func (m Model) cycleSession() (tea.Model, tea.Cmd) {
	sessions := m.store.Sessions()
	if len(sessions) < 2 {
		return m, nil
	}

	activeID := m.store.ActiveID()
	for i, sess := range sessions {
		if sess.ID == activeID {
			next := sessions[(i+1)%len(sessions)]
			if _, err := m.store.Select(next.ID); err != nil {
				m.status = err.Error()
			}
			break
		}
	}
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) uploadDocument(path string) (tea.Model, tea.Cmd) {
	file, err := os.Open(path)
	if err != nil {
		m.status = "Fichier introuvable : " + path
		return m, nil
	}

	name := filepath.Base(path)
	m.status = "Analyse du CV en cours..."
	return m, func() tea.Msg {
		defer file.Close()
		info, err := m.controller.UploadDocument(context.Background(), name, file)
		return uploadResultMsg{info: info, err: err}
	}
}

// ActiveFilters exposes the controller filters for the status bar.
func (m Model) ActiveFilters() model.Filters {
	return m.controller.Filters()
}
