// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Chargement..."
	}

	sections := []string{
		m.headerView(),
		m.tabsView(),
		m.viewport.View(),
		m.panelView(),
		m.statusView(),
		m.inputView(),
	}
	return m.theme.App.Render(strings.Join(sections, "\n"))
}

func (m Model) headerView() string {
	title := m.theme.Header.Render("CertiProfile")
	brand := m.theme.Brand.Render("conseiller en certifications")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, brand)
}

// tabsView lists sessions most recent first, the active one highlighted.
func (m Model) tabsView() string {
	activeID := m.store.ActiveID()
	var tabs []string
	for i, sess := range m.store.Sessions() {
		label := fmt.Sprintf("%d·%s", i+1, tabTitle(sess.Title))
		if sess.ID == activeID {
			tabs = append(tabs, m.theme.SessionTabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.SessionTab.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

func tabTitle(title string) string {
	if util.RuneLen(title) > 18 {
		return util.TruncateRunes(title, 15)
	}
	return title
}

// panelView shows the top recommendations of the active intelligence state.
func (m Model) panelView() string {
	snap := m.bridge.Snapshot()
	if len(snap.Recommendations) == 0 {
		return ""
	}

	shown := snap.Recommendations
	if len(shown) > 3 {
		shown = shown[:3]
	}

	var lines []string
	for _, rec := range shown {
		line := m.theme.PanelTitle.Render(rec.Titre)
		if rec.CombinedScore > 0 {
			line += " " + m.theme.PanelScore.Render(fmt.Sprintf("%.0f%%", rec.CombinedScore*100))
		}
		detail := recDetail(rec)
		if detail != "" {
			line += " " + m.theme.PanelDetail.Render(detail)
		}
		lines = append(lines, line)
	}
	if snap.ContextUsed != model.ContextNone {
		lines = append(lines, m.theme.PanelContext.Render("contexte : "+string(snap.ContextUsed)))
	}
	return m.theme.PanelBox.Render(strings.Join(lines, "\n"))
}

func recDetail(rec model.Recommendation) string {
	var parts []string
	if rec.Niveau != "" {
		parts = append(parts, rec.Niveau)
	}
	if rec.Prix > 0 {
		parts = append(parts, fmt.Sprintf("%.0f€", rec.Prix))
	}
	if rec.Duree != "" {
		parts = append(parts, rec.Duree)
	}
	return strings.Join(parts, " · ")
}

func (m Model) statusView() string {
	var parts []string

	if m.controller.Loading() {
		parts = append(parts, m.spinner.View()+m.theme.StatusAccent.Render("Analyse en cours..."))
	}
	if filters := m.controller.Filters(); !filters.Empty() {
		parts = append(parts, m.theme.StatusAccent.Render(filterSummary(filters)))
	}
	if doc := m.controller.Document(); doc != nil {
		parts = append(parts, m.theme.StatusBar.Render(fmt.Sprintf("CV : %s (%d mots)", doc.Name, doc.Words)))
	}
	if m.status != "" {
		parts = append(parts, m.theme.StatusBar.Render(m.status))
	}
	if len(parts) == 0 {
		parts = append(parts, m.theme.StatusBar.Render("Entrée pour envoyer · ctrl+n nouvelle · ctrl+o suivante · /help"))
	}
	return strings.Join(parts, m.theme.StatusBar.Render("  |  "))
}

func filterSummary(f model.Filters) string {
	var parts []string
	if f.Domain != "" {
		parts = append(parts, "domaine: "+f.Domain)
	}
	if f.Level != "" {
		parts = append(parts, "niveau: "+f.Level)
	}
	if f.Budget != "" {
		parts = append(parts, "budget: "+f.Budget+"€")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m Model) inputView() string {
	return m.theme.InputContainer.Render(m.theme.InputPrompt.Render("❯ ") + m.input.View())
}
