// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/certiprofile-tui/internal/model"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const helpText = `Commandes :
  /new                nouvelle conversation
  /delete             supprimer la conversation courante
  /switch <n>         activer la conversation n (1 = la plus récente)
  /filters [domaine=X] [niveau=Y] [budget=Z]
  /filters off        retirer tous les filtres
  /cv <chemin>        analyser un CV (PDF)
  /clearcv            retirer le CV analysé
  /reset              tout effacer
  /quit               quitter`

// handleCommand interprets a slash command already trimmed of whitespace.
func (m Model) handleCommand(raw string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(raw)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "/help":
		m.viewport.SetContent(helpText)
		m.status = "Entrée pour continuer"
		return m, nil

	case "/quit":
		return m, tea.Quit

	case "/new":
		return m.newSession()

	case "/delete":
		if err := m.store.Delete(m.store.ActiveID()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.refreshTranscript()
		m.status = "Conversation supprimée"
		return m, nil

	case "/switch":
		return m.switchSession(args)

	case "/filters":
		return m.applyFilters(args)

	case "/cv":
		if len(args) != 1 {
			m.status = "Usage : /cv <chemin>"
			return m, nil
		}
		return m.uploadDocument(args[0])

	case "/clearcv":
		return m, func() tea.Msg {
			return clearDocMsg{err: m.controller.ClearDocument(context.Background())}
		}

	case "/reset":
		if err := m.controller.ClearAll(context.Background()); err != nil {
			m.status = "Réinitialisé (backend injoignable)"
		} else {
			m.status = "Réinitialisé"
		}
		m.refreshTranscript()
		return m, nil

	default:
		m.status = "Commande inconnue : " + command
		return m, nil
	}
}

// switchSession activates the nth session, 1-based from most recent.
func (m Model) switchSession(args []string) (tea.Model, tea.Cmd) {
	if len(args) != 1 {
		m.status = "Usage : /switch <n>"
		return m, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > m.store.Count() {
		m.status = "Numéro de conversation invalide"
		return m, nil
	}

	target := m.store.Sessions()[n-1]
	if _, err := m.store.Select(target.ID); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

// applyFilters parses key=value pairs into the controller's filters.
// "/filters off" clears them.
func (m Model) applyFilters(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 1 && strings.EqualFold(args[0], "off") {
		m.controller.SetFilters(model.Filters{})
		m.status = "Filtres retirés"
		return m, nil
	}

	filters := m.controller.Filters()
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || value == "" {
			m.status = "Usage : /filters domaine=cloud niveau=avancé budget=500"
			return m, nil
		}
		switch strings.ToLower(key) {
		case "domaine":
			filters.Domain = value
		case "niveau":
			filters.Level = value
		case "budget":
			filters.Budget = value
		default:
			m.status = "Filtre inconnu : " + key
			return m, nil
		}
	}

	m.controller.SetFilters(filters)
	m.status = "Filtres appliqués"
	return m, nil
}
