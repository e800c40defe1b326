// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strings"
)

// =============================================================================
// NODE TYPES
// =============================================================================

// SpanKind classifies an inline span.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
)

// Span is an inline run of text with one style. Text is already
// HTML-escaped; the presentation layer must emit it verbatim and never
// interpret it as markup.
type Span struct {
	Kind SpanKind
	Text string
}

// BlockKind classifies a line-level block.
type BlockKind int

const (
	// BlockParagraph is one non-blank line of text followed by a line break.
	BlockParagraph BlockKind = iota
	// BlockLineBreak is an empty line.
	BlockLineBreak
	// BlockListItem is one bullet item. Consecutive list items belong to
	// the same list; the first following non-list block closes it.
	BlockListItem
)

// Block is one line-level node of rendered output.
type Block struct {
	Kind  BlockKind
	Spans []Span
}

// headingRe matches a leading run of 1-6 '#' characters followed by
// whitespace at the start of a line.
var headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)

// escaper rewrites the five HTML-significant characters in a single pass.
// Escaping runs before any feature detection so nothing downstream can
// reintroduce raw structural characters from user input.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// =============================================================================
// RENDER
// =============================================================================

// Render converts raw text into a block list. Order of operations:
// escape, strip heading markers, detect bold and italic spans, then group
// lines into paragraphs, breaks and list items.
func Render(raw string) []Block {
	s := escaper.Replace(raw)
	s = headingRe.ReplaceAllString(s, "")

	var blocks []Block
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			blocks = append(blocks, Block{Kind: BlockLineBreak})
		case strings.HasPrefix(trimmed, "- "):
			blocks = append(blocks, Block{Kind: BlockListItem, Spans: parseSpans(trimmed[len("- "):])})
		case strings.HasPrefix(trimmed, "• "):
			blocks = append(blocks, Block{Kind: BlockListItem, Spans: parseSpans(trimmed[len("• "):])})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: parseSpans(trimmed)})
		}
	}
	return blocks
}

// PlainText flattens rendered blocks back into unstyled text, one line per
// paragraph or list item. Useful for exports and tests.
func PlainText(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		if b.Kind == BlockLineBreak {
			sb.WriteString("\n")
			continue
		}
		for _, sp := range b.Spans {
			sb.WriteString(sp.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// INLINE PARSING
// =============================================================================

// parseSpans splits one line into text, bold and italic spans.
// Bold runs first; italic applies to the plain chunks between bold spans.
// Unbalanced or boundary-violating markers stay in the text untouched.
func parseSpans(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		spans = append(spans, parseItalic(plain.String())...)
		plain.Reset()
	}

	rest := text
	for {
		open := strings.Index(rest, "**")
		if open < 0 {
			plain.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open+2:], "**")
		if closing < 0 {
			plain.WriteString(rest)
			break
		}
		if closing == 0 {
			// "****" has no inner text; keep it literal and scan on.
			plain.WriteString(rest[:open+2])
			rest = rest[open+2:]
			continue
		}

		plain.WriteString(rest[:open])
		flush()
		spans = append(spans, Span{Kind: SpanBold, Text: rest[open+2 : open+2+closing]})
		rest = rest[open+2+closing+2:]
	}
	flush()

	if spans == nil {
		spans = []Span{}
	}
	return spans
}

// parseItalic extracts *italic* spans from a chunk that contains no bold
// markers. A delimiting '*' only counts when its outer neighbor is not a
// word character, which keeps arithmetic like "2*3*4" literal.
func parseItalic(chunk string) []Span {
	if chunk == "" {
		return nil
	}

	runes := []rune(chunk)
	var spans []Span
	start := 0

	i := 0
	for i < len(runes) {
		if runes[i] != '*' || (i > 0 && isWord(runes[i-1])) {
			i++
			continue
		}

		// Find the closing '*'; the inner text may not contain stars.
		j := i + 1
		for j < len(runes) && runes[j] != '*' {
			j++
		}
		if j >= len(runes) || j == i+1 || (j+1 < len(runes) && isWord(runes[j+1])) {
			i++
			continue
		}

		if start < i {
			spans = append(spans, Span{Kind: SpanText, Text: string(runes[start:i])})
		}
		spans = append(spans, Span{Kind: SpanItalic, Text: string(runes[i+1 : j])})
		i = j + 1
		start = i
	}

	if start < len(runes) {
		spans = append(spans, Span{Kind: SpanText, Text: string(runes[start:])})
	}
	return spans
}

// isWord mirrors the \w character class.
func isWord(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
