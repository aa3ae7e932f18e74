package extract

import "strings"

// abbreviations that should not terminate a sentence
var abbreviations = map[string]bool{
	"inc": true, "corp": true, "co": true, "ltd": true, "llc": true,
	"no": true, "vs": true, "etc": true, "approx": true, "dept": true,
	"mr": true, "ms": true, "dr": true, "jr": true, "sr": true,
	"u.s": true, "fig": true,
}

// SplitSentences splits text into sentences with a lightweight boundary
// heuristic: terminal punctuation followed by whitespace and an upper-case
// or numeric continuation. No side effects; safe to call repeatedly.
func SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Require whitespace after the terminator.
		if i+1 >= len(runes) || runes[i+1] != ' ' {
			continue
		}
		// Require an upper-case letter or digit to begin the next sentence.
		if i+2 < len(runes) {
			next := runes[i+2]
			if !(next >= 'A' && next <= 'Z') && !(next >= '0' && next <= '9') && next != '"' && next != '“' {
				continue
			}
		}
		if r == '.' && endsWithAbbreviation(current.String()) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		i++ // consume the space
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func endsWithAbbreviation(s string) bool {
	s = strings.TrimSuffix(s, ".")
	idx := strings.LastIndexAny(s, " \t")
	word := strings.ToLower(s[idx+1:])
	if abbreviations[word] {
		return true
	}
	// Single letters ("U.", initials) never end a sentence.
	return len(word) == 1
}
