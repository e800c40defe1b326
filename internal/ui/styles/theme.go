// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the certiprofile TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App    lipgloss.Style
	Header lipgloss.Style
	Brand  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBubble     lipgloss.Style
	AssistantText  lipgloss.Style
	BoldSpan       lipgloss.Style
	ItalicSpan     lipgloss.Style
	ListBullet     lipgloss.Style

	// ==========================================================================
	// SESSION TAB STYLES
	// ==========================================================================

	SessionTab       lipgloss.Style
	SessionTabActive lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusAccent lipgloss.Style
	StatusError  lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// INPUT STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// RECOMMENDATION PANEL STYLES
	// ==========================================================================

	PanelBox     lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelScore   lipgloss.Style
	PanelDetail  lipgloss.Style
	PanelContext lipgloss.Style
}

// Palette for the two supported themes.
type palette struct {
	accent    lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	danger    lipgloss.Color
	userBg    lipgloss.Color
	border    lipgloss.Color
}

var darkPalette = palette{
	accent:    lipgloss.Color("62"),
	secondary: lipgloss.Color("39"),
	muted:     lipgloss.Color("241"),
	danger:    lipgloss.Color("196"),
	userBg:    lipgloss.Color("236"),
	border:    lipgloss.Color("238"),
}

var lightPalette = palette{
	accent:    lipgloss.Color("55"),
	secondary: lipgloss.Color("26"),
	muted:     lipgloss.Color("245"),
	danger:    lipgloss.Color("124"),
	userBg:    lipgloss.Color("254"),
	border:    lipgloss.Color("250"),
}

// NewTheme builds a theme for the given name ("dark" or "light").
func NewTheme(name string) *Theme {
	p := darkPalette
	if name == "light" {
		p = lightPalette
	}

	return &Theme{
		App:    lipgloss.NewStyle(),
		Header: lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1),
		Brand:  lipgloss.NewStyle().Foreground(p.muted),

		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(p.secondary),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		UserBubble:     lipgloss.NewStyle().Background(p.userBg).Padding(0, 1),
		AssistantText:  lipgloss.NewStyle(),
		BoldSpan:       lipgloss.NewStyle().Bold(true),
		ItalicSpan:     lipgloss.NewStyle().Italic(true),
		ListBullet:     lipgloss.NewStyle().Foreground(p.accent),

		SessionTab:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		SessionTabActive: lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true).Padding(0, 1),

		StatusBar:    lipgloss.NewStyle().Foreground(p.muted),
		StatusAccent: lipgloss.NewStyle().Foreground(p.secondary),
		StatusError:  lipgloss.NewStyle().Foreground(p.danger),
		Spinner:      lipgloss.NewStyle().Foreground(p.accent),

		InputContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		InputPrompt: lipgloss.NewStyle().Bold(true).Foreground(p.accent),

		PanelBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.accent).
			PaddingLeft(1),
		PanelTitle:   lipgloss.NewStyle().Bold(true).Foreground(p.secondary),
		PanelScore:   lipgloss.NewStyle().Foreground(p.accent),
		PanelDetail:  lipgloss.NewStyle().Foreground(p.muted),
		PanelContext: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
	}
}
