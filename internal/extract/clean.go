package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements whose boundaries become line breaks in plain text,
// so section headers stay on their own lines for anchor matching.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true,
}

var (
	reInlineXBRL = regexp.MustCompile(`(?is)<ix:[^>]*>|</ix:[^>]*>`)
	reSpaces     = regexp.MustCompile(`[ \t\x{00a0}]+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
	rePageNumber = regexp.MustCompile(`^\s*-?\s*\d{1,4}\s*-?\s*$`)
	reTOCBanner  = regexp.MustCompile(`(?i)^\s*(table\s+of\s+contents|index\s+to\s+financial\s+statements)\s*$`)
	rePageMarker = regexp.MustCompile(`(?i)^\s*page\s+\d+(\s+of\s+\d+)?\s*$`)
)

// Clean converts raw filing markup to plain text: scripts, styles, and
// inline-XBRL wrappers are dropped, block boundaries become newlines,
// entities are decoded, whitespace is collapsed, and boilerplate lines
// (page numbers, repeated table-of-contents banners) are removed.
// Malformed markup never fails; worst case the result is short or empty.
func Clean(markup string) string {
	// Inline XBRL tags confuse the HTML tokenizer; strip them first.
	markup = reInlineXBRL.ReplaceAllString(markup, "")

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse almost never errors; fall back to a crude tag strip.
		return collapse(stripTags(markup))
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
			if blockTags[n.Data] {
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	return collapse(buf.String())
}

// collapse normalizes whitespace and drops boilerplate lines
func collapse(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(reSpaces.ReplaceAllString(line, " "))
		if line == "" {
			kept = append(kept, "")
			continue
		}
		if rePageNumber.MatchString(line) || reTOCBanner.MatchString(line) || rePageMarker.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	out = reBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

var reTag = regexp.MustCompile(`<[^>]*>`)

func stripTags(markup string) string {
	return reTag.ReplaceAllString(markup, " ")
}
