// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/certiprofile-tui/internal/advisor"
	"github.com/jeranaias/certiprofile-tui/internal/controller"
	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/render"
	"github.com/jeranaias/certiprofile-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// chatResultMsg carries the backend outcome of an in-flight exchange.
type chatResultMsg struct {
	exchange *controller.Exchange
	resp     *advisor.ChatResponse
	err      error
}

// uploadResultMsg carries the outcome of a CV upload.
type uploadResultMsg struct {
	info *model.DocumentInfo
	err  error
}

// clearDocMsg carries the outcome of a document clear.
type clearDocMsg struct {
	err error
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// Rendered content carries HTML entities; the terminal wants the characters
// back.
var entityDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
)

// renderTurn formats one turn for the transcript viewport.
func renderTurn(turn model.Turn, theme *styles.Theme, width int) string {
	var sb strings.Builder

	if turn.Role == model.RoleUser {
		sb.WriteString(theme.UserLabel.Render(turn.Role.DisplayName()))
		sb.WriteString("\n")
		sb.WriteString(theme.UserBubble.Render(wrapText(turn.Content, width-2)))
		return sb.String()
	}

	sb.WriteString(theme.AssistantLabel.Render(turn.Role.DisplayName()))
	sb.WriteString("\n")
	sb.WriteString(renderBlocks(render.Render(turn.Content), theme, width))
	return sb.String()
}

// renderBlocks converts structured assistant content to styled lines.
// Wrapping of styled text is delegated to lipgloss, which is ANSI-aware.
func renderBlocks(blocks []render.Block, theme *styles.Theme, width int) string {
	wrap := theme.AssistantText
	if width > 0 {
		wrap = wrap.Width(width)
	}

	var lines []string
	for _, block := range blocks {
		switch block.Kind {
		case render.BlockLineBreak:
			lines = append(lines, "")
		case render.BlockListItem:
			text := theme.ListBullet.Render("• ") + renderSpans(block.Spans, theme)
			lines = append(lines, wrap.Render(text))
		default:
			lines = append(lines, wrap.Render(renderSpans(block.Spans, theme)))
		}
	}
	return strings.Join(lines, "\n")
}

func renderSpans(spans []render.Span, theme *styles.Theme) string {
	var sb strings.Builder
	for _, span := range spans {
		text := entityDecoder.Replace(span.Text)
		switch span.Kind {
		case render.SpanBold:
			sb.WriteString(theme.BoldSpan.Render(text))
		case render.SpanItalic:
			sb.WriteString(theme.ItalicSpan.Render(text))
		default:
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// wrapText wraps plain text on word boundaries using display cell width, so
// wide runes count double.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var wrapped []string
	current := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) > width {
			wrapped = append(wrapped, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(wrapped, current)
}
