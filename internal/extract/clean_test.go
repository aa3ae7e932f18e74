package extract

import (
	"strings"
	"testing"
)

func TestClean_DropsNonContentElements(t *testing.T) {
	markup := `<html><head><title>FORM 10-K</title></head><body>
<script>var x = 1;</script>
<style>.a { color: red; }</style>
<p>We expect revenue to grow.</p>
</body></html>`

	text := Clean(markup)
	if strings.Contains(text, "var x") || strings.Contains(text, "color: red") {
		t.Errorf("script/style content leaked into plain text: %q", text)
	}
	if strings.Contains(text, "FORM 10-K") {
		t.Errorf("head content leaked into plain text: %q", text)
	}
	if !strings.Contains(text, "We expect revenue to grow.") {
		t.Errorf("body text missing: %q", text)
	}
}

func TestClean_BlockBoundariesBecomeNewlines(t *testing.T) {
	markup := `<div>Item 7. Management's Discussion and Analysis</div><div>Overview text.</div>`

	text := Clean(markup)
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected block elements on separate lines, got %q", text)
	}
	if !strings.HasPrefix(lines[0], "Item 7.") {
		t.Errorf("header not on its own line: %q", lines[0])
	}
}

func TestClean_StripsInlineXBRL(t *testing.T) {
	markup := `<p>Revenue was <ix:nonFraction name="us-gaap:Revenues" contextRef="c1">383,285</ix:nonFraction> million.</p>`

	text := Clean(markup)
	if strings.Contains(text, "ix:") || strings.Contains(text, "nonFraction") {
		t.Errorf("inline XBRL markup leaked: %q", text)
	}
	if !strings.Contains(text, "383,285") {
		t.Errorf("fact value lost during cleaning: %q", text)
	}
}

func TestClean_DropsBoilerplateLines(t *testing.T) {
	markup := `<div>Real narrative content.</div><div>Table of Contents</div><div>- 42 -</div><div>Page 3 of 120</div><div>More narrative.</div>`

	text := Clean(markup)
	for _, banned := range []string{"Table of Contents", "- 42 -", "Page 3"} {
		if strings.Contains(text, banned) {
			t.Errorf("boilerplate line %q survived cleaning: %q", banned, text)
		}
	}
	if !strings.Contains(text, "Real narrative content.") || !strings.Contains(text, "More narrative.") {
		t.Errorf("narrative lost: %q", text)
	}
}

func TestClean_DecodesEntities(t *testing.T) {
	text := Clean(`<p>Management&#8217;s Discussion &amp; Analysis</p>`)
	if !strings.Contains(text, "Management’s Discussion & Analysis") {
		t.Errorf("entities not decoded: %q", text)
	}
}

func TestClean_EmptyAndMalformedInput(t *testing.T) {
	if out := Clean(""); out != "" {
		t.Errorf("empty input should clean to empty, got %q", out)
	}
	// Unbalanced markup must not panic or error.
	out := Clean(`<div><p>starts fine <b>but never closes`)
	if !strings.Contains(out, "starts fine") {
		t.Errorf("malformed markup lost content: %q", out)
	}
}
