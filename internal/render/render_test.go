// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"
)

// collectText concatenates all span text in all blocks.
func collectText(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		for _, sp := range b.Spans {
			sb.WriteString(sp.Text)
		}
	}
	return sb.String()
}

// =============================================================================
// ESCAPING TESTS
// =============================================================================

func TestRender_EscapesHTML(t *testing.T) {
	blocks := Render("<img src=x onerror=alert(1)>")

	text := collectText(blocks)
	if strings.Contains(text, "<img") {
		t.Errorf("output contains unescaped markup: %q", text)
	}
	if !strings.Contains(text, "&lt;img") {
		t.Errorf("expected escaped form, got %q", text)
	}
}

func TestRender_EscapesAllFiveCharacters(t *testing.T) {
	blocks := Render(`& < > " '`)

	text := collectText(blocks)
	want := "&amp; &lt; &gt; &quot; &#039;"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestRender_EscapingPrecedesFeatureDetection(t *testing.T) {
	// An attacker cannot smuggle markup through emphasis syntax.
	blocks := Render("**<script>**")

	for _, b := range blocks {
		for _, sp := range b.Spans {
			if strings.Contains(sp.Text, "<script>") {
				t.Errorf("raw markup survived inside span %q", sp.Text)
			}
		}
	}
}

// =============================================================================
// HEADING TESTS
// =============================================================================

func TestRender_StripsHeadingMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Titre", "Titre"},
		{"h3", "### Certifications Cloud", "Certifications Cloud"},
		{"h6", "###### petit", "petit"},
		{"seven hashes pass through", "####### x", "####### x"},
		{"no space keeps hashes", "#hashtag", "#hashtag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectText(Render(tt.in))
			if got != tt.want {
				t.Errorf("Render(%q) text = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender_StripsHeadingsOnEveryLine(t *testing.T) {
	blocks := Render("## Un\ntexte\n### Deux")

	got := collectText(blocks)
	if strings.Contains(got, "#") {
		t.Errorf("heading markers survived: %q", got)
	}
}

// =============================================================================
// EMPHASIS TESTS
// =============================================================================

func TestRender_Bold(t *testing.T) {
	blocks := Render("**Azure** est bien")

	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	spans := blocks[0].Spans
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Kind != SpanBold || spans[0].Text != "Azure" {
		t.Errorf("span[0] = %+v, want bold 'Azure'", spans[0])
	}
	if spans[1].Kind != SpanText || spans[1].Text != " est bien" {
		t.Errorf("span[1] = %+v", spans[1])
	}
}

func TestRender_Italic(t *testing.T) {
	blocks := Render("c'est *top* non")

	var found bool
	for _, sp := range blocks[0].Spans {
		if sp.Kind == SpanItalic && sp.Text == "top" {
			found = true
		}
	}
	if !found {
		t.Errorf("italic span not found in %+v", blocks[0].Spans)
	}
}

func TestRender_ItalicNotInsideWords(t *testing.T) {
	// Arithmetic-like text keeps its stars.
	blocks := Render("2*3*4 vaut 24")

	text := collectText(blocks)
	if text != "2*3*4 vaut 24" {
		t.Errorf("text = %q, want literal stars", text)
	}
	for _, sp := range blocks[0].Spans {
		if sp.Kind == SpanItalic {
			t.Errorf("unexpected italic span %+v", sp)
		}
	}
}

func TestRender_UnbalancedStarsPassThrough(t *testing.T) {
	tests := []string{"lone * star", "fin **unclosed"}
	for _, in := range tests {
		if text := collectText(Render(in)); text != in {
			t.Errorf("Render(%q) text = %q, want passthrough", in, text)
		}
	}
}

func TestRender_EmptyBoldStaysLiteral(t *testing.T) {
	if text := collectText(Render("****")); text != "****" {
		t.Errorf("degenerate pair should stay literal: %q", text)
	}
}

// =============================================================================
// LINE GROUPING TESTS
// =============================================================================

func TestRender_SpecExample(t *testing.T) {
	blocks := Render("**Azure** est *top*\n- item1\n- item2")

	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[0].Kind != BlockParagraph {
		t.Errorf("block[0] kind = %d, want paragraph", blocks[0].Kind)
	}
	if blocks[1].Kind != BlockListItem || blocks[2].Kind != BlockListItem {
		t.Error("expected two list items")
	}

	// Styled spans present.
	var haveBold, haveItalic bool
	for _, sp := range blocks[0].Spans {
		if sp.Kind == SpanBold && sp.Text == "Azure" {
			haveBold = true
		}
		if sp.Kind == SpanItalic && sp.Text == "top" {
			haveItalic = true
		}
	}
	if !haveBold || !haveItalic {
		t.Errorf("bold=%v italic=%v, want both", haveBold, haveItalic)
	}

	// No raw markers anywhere.
	text := collectText(blocks)
	if strings.Contains(text, "*") || strings.HasPrefix(text, "#") {
		t.Errorf("raw markers in output: %q", text)
	}

	// Marker stripped from items.
	if got := collectText(blocks[1:2]); got != "item1" {
		t.Errorf("item text = %q, want item1", got)
	}
}

func TestRender_BulletVariants(t *testing.T) {
	blocks := Render("- tiret\n• puce")

	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	for i, want := range []string{"tiret", "puce"} {
		if blocks[i].Kind != BlockListItem {
			t.Errorf("block[%d] is not a list item", i)
		}
		if got := collectText(blocks[i : i+1]); got != want {
			t.Errorf("item[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestRender_BlankLineIsBreak(t *testing.T) {
	blocks := Render("un\n\ndeux")

	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[1].Kind != BlockLineBreak {
		t.Errorf("block[1] kind = %d, want line break", blocks[1].Kind)
	}
}

func TestRender_ListClosedByText(t *testing.T) {
	blocks := Render("- a\n- b\nsuite\n- c")

	kinds := []BlockKind{BlockListItem, BlockListItem, BlockParagraph, BlockListItem}
	for i, want := range kinds {
		if blocks[i].Kind != want {
			t.Errorf("block[%d] kind = %d, want %d", i, blocks[i].Kind, want)
		}
	}
}

func TestRender_IndentedBulletStillCounts(t *testing.T) {
	blocks := Render("   - indenté")
	if blocks[0].Kind != BlockListItem {
		t.Error("trimmed line starting with '- ' should open a list")
	}
}

// =============================================================================
// PURITY TESTS
// =============================================================================

func TestRender_Deterministic(t *testing.T) {
	in := "### T\n**a** *b*\n- x\n\ny"
	a := PlainText(Render(in))
	b := PlainText(Render(in))
	if a != b {
		t.Error("Render is not deterministic across calls")
	}
}

func TestRender_EmptyInput(t *testing.T) {
	blocks := Render("")
	if len(blocks) != 1 || blocks[0].Kind != BlockLineBreak {
		t.Errorf("blocks = %+v, want single line break", blocks)
	}
}
