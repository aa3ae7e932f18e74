// Package classify detects forward-looking statements in filing narrative
// text and assigns each a type, time horizon, and confidence tier using
// ordered rule lists. Classification is a pure function: the same sentence
// always produces the same promise.
package classify

import (
	"sort"
	"strings"

	"github.com/okazarov/attest/internal/extract"
	"github.com/okazarov/attest/internal/model"
)

const (
	minSentenceChars = 50
	maxSentenceChars = 1000
	dedupeKeyChars   = 160
)

// Classifier turns candidate sentences into classified promises
type Classifier struct {
	maxPromises int
}

// NewClassifier creates a classifier. maxPromises bounds the promise set
// produced by ExtractPromises (0 means the default of 200).
func NewClassifier(maxPromises int) *Classifier {
	if maxPromises <= 0 {
		maxPromises = 200
	}
	return &Classifier{maxPromises: maxPromises}
}

// Classify classifies one sentence. The second return value is false when
// the sentence is rejected: too short or long, not forward-looking, or an
// uncategorized promise with low confidence (not noise-worthy).
func (c *Classifier) Classify(sentence, source string) (model.ClassifiedPromise, bool) {
	sentence = strings.TrimSpace(sentence)
	if len(sentence) < minSentenceChars || len(sentence) > maxSentenceChars {
		return model.ClassifiedPromise{}, false
	}

	if !isForwardLooking(sentence) {
		return model.ClassifiedPromise{}, false
	}

	typ, keywords := categorize(sentence)
	score := confidenceScore(sentence)
	conf := confidenceTier(score)

	if typ == model.PromiseOther && conf == model.ConfidenceLow {
		return model.ClassifiedPromise{}, false
	}

	return model.ClassifiedPromise{
		Text:            sentence,
		Type:            typ,
		Horizon:         horizon(sentence),
		Measurable:      reQuantified.MatchString(sentence),
		Confidence:      conf,
		ConfidenceScore: score,
		Keywords:        keywords,
		Source:          source,
	}, true
}

// ExtractPromises classifies every sentence in every located section,
// deduplicates across sections by normalized text (first occurrence wins),
// and returns the set stable-sorted by confidence, high first. When no
// section was located, the full cleaned text is classified instead.
func (c *Classifier) ExtractPromises(set *model.SectionSet) []model.ClassifiedPromise {
	type sourceText struct {
		name    string
		content string
	}
	var sources []sourceText

	if len(set.Sections) > 0 {
		names := make([]string, 0, len(set.Sections))
		for name := range set.Sections {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sources = append(sources, sourceText{name, set.Sections[name].Content})
		}
	} else {
		sources = append(sources, sourceText{"full_text", set.FullText})
	}

	seen := make(map[string]bool)
	var promises []model.ClassifiedPromise
	for _, src := range sources {
		for _, sentence := range extract.SplitSentences(src.content) {
			promise, ok := c.Classify(sentence, src.name)
			if !ok {
				continue
			}
			key := dedupeKey(promise.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			promises = append(promises, promise)
		}
	}

	sort.SliceStable(promises, func(i, j int) bool {
		return promises[i].Confidence.Rank() < promises[j].Confidence.Rank()
	})

	if len(promises) > c.maxPromises {
		promises = promises[:c.maxPromises]
	}
	return promises
}

func isForwardLooking(sentence string) bool {
	for _, re := range forwardLookingPatterns {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

// categorize tests the category rules in priority order; the first group
// with a match wins and its matched triggers become the keywords
func categorize(sentence string) (model.PromiseType, []string) {
	for _, rule := range categoryRules {
		matches := rule.triggers.FindAllString(sentence, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]bool)
		var keywords []string
		for _, m := range matches {
			m = strings.ToLower(strings.TrimSpace(m))
			if !seen[m] {
				seen[m] = true
				keywords = append(keywords, m)
			}
		}
		return rule.typ, keywords
	}
	return model.PromiseOther, nil
}

func horizon(sentence string) model.TimeHorizon {
	for _, rule := range horizonRules {
		if rule.pattern.MatchString(sentence) {
			return rule.horizon
		}
	}
	return model.HorizonUnspecified
}

// confidenceScore is the additive heuristic: +2 commitment verb,
// +2 quantified figure, +1 explicit period reference, -1 hedging language
func confidenceScore(sentence string) int {
	score := 0
	if reCommitment.MatchString(sentence) {
		score += 2
	}
	if reQuantified.MatchString(sentence) {
		score += 2
	}
	if rePeriodRef.MatchString(sentence) {
		score++
	}
	if reHedging.MatchString(sentence) {
		score--
	}
	return score
}

func confidenceTier(score int) model.Confidence {
	switch {
	case score >= 3:
		return model.ConfidenceHigh
	case score >= 1:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func dedupeKey(text string) string {
	key := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(key) > dedupeKeyChars {
		key = key[:dedupeKeyChars]
	}
	return key
}
