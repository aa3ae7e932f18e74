package extract

import (
	"regexp"
	"strings"

	"github.com/okazarov/attest/internal/model"
)

// SectionMDNA and friends are the narrative sections the extractor locates
const (
	SectionMDNA        = "management_discussion"
	SectionRiskFactors = "risk_factors"
	SectionBusiness    = "business"
)

// sectionSpec describes how to locate one named section: ordered start
// anchors (most specific first), ordered end anchors searched after the
// matched start, and a display title. Pattern order is a correctness
// contract: first match wins.
type sectionSpec struct {
	name   string
	title  string
	starts []*regexp.Regexp
	ends   []*regexp.Regexp
}

var annualSpecs = []sectionSpec{
	{
		name:  SectionMDNA,
		title: "Management's Discussion and Analysis",
		starts: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*7\.?\s*[-–—:]?\s*management'?s\s+discussion\s+and\s+analysis`),
			regexp.MustCompile(`(?im)^\s*management'?s\s+discussion\s+and\s+analysis\s+of\s+financial\s+condition`),
			regexp.MustCompile(`(?im)^\s*item\s*7\b`),
		},
		ends: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*7a\.?\s*[-–—:]?\s*quantitative\s+and\s+qualitative`),
			regexp.MustCompile(`(?im)^\s*item\s*8\.?\s*[-–—:]?\s*financial\s+statements`),
			regexp.MustCompile(`(?im)^\s*item\s*7a\b`),
			regexp.MustCompile(`(?im)^\s*item\s*8\b`),
		},
	},
	{
		name:  SectionRiskFactors,
		title: "Risk Factors",
		starts: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*1a\.?\s*[-–—:]?\s*risk\s+factors`),
			regexp.MustCompile(`(?im)^\s*risk\s+factors\s*$`),
		},
		ends: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*1b\.?\s*[-–—:]?\s*unresolved\s+staff\s+comments`),
			regexp.MustCompile(`(?im)^\s*item\s*2\.?\s*[-–—:]?\s*properties`),
			regexp.MustCompile(`(?im)^\s*item\s*1b\b`),
		},
	},
	{
		name:  SectionBusiness,
		title: "Business",
		starts: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*1\.?\s*[-–—:]?\s*business\s*$`),
			regexp.MustCompile(`(?im)^\s*item\s*1\.\s+business`),
		},
		ends: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*1a\.?\s*[-–—:]?\s*risk\s+factors`),
			regexp.MustCompile(`(?im)^\s*item\s*1a\b`),
		},
	},
}

var quarterlySpecs = []sectionSpec{
	{
		name:  SectionMDNA,
		title: "Management's Discussion and Analysis",
		starts: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*2\.?\s*[-–—:]?\s*management'?s\s+discussion\s+and\s+analysis`),
			regexp.MustCompile(`(?im)^\s*management'?s\s+discussion\s+and\s+analysis\s+of\s+financial\s+condition`),
		},
		ends: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*3\.?\s*[-–—:]?\s*quantitative\s+and\s+qualitative`),
			regexp.MustCompile(`(?im)^\s*item\s*4\.?\s*[-–—:]?\s*controls\s+and\s+procedures`),
			regexp.MustCompile(`(?im)^\s*item\s*3\b`),
		},
	},
	{
		name:  SectionRiskFactors,
		title: "Risk Factors",
		starts: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*1a\.?\s*[-–—:]?\s*risk\s+factors`),
		},
		ends: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*item\s*2\.?\s*[-–—:]?\s*unregistered\s+sales`),
			regexp.MustCompile(`(?im)^\s*item\s*6\.?\s*[-–—:]?\s*exhibits`),
		},
	},
}

// Extractor locates named narrative sections in cleaned filing text
type Extractor struct {
	minSectionChars int
}

// NewExtractor creates a section extractor. minSectionChars guards against
// matching table-of-contents entries: a candidate body shorter than the
// threshold is rejected.
func NewExtractor(minSectionChars int) *Extractor {
	if minSectionChars <= 0 {
		minSectionChars = 500
	}
	return &Extractor{minSectionChars: minSectionChars}
}

// ExtractSections locates the known narrative sections for the filing kind.
// Sections that cannot be located are simply absent; the full cleaned text
// is always retained as a fallback artifact.
func (e *Extractor) ExtractSections(plainText string, kind model.FilingKind) *model.SectionSet {
	specs := annualSpecs
	if kind == model.FilingQuarterly {
		specs = quarterlySpecs
	}

	set := &model.SectionSet{
		Sections: make(map[string]*model.FilingSection),
		FullText: plainText,
		Kind:     kind,
	}

	for _, spec := range specs {
		if sec := e.extractOne(plainText, spec); sec != nil {
			set.Sections[spec.name] = sec
		}
	}
	return set
}

// extractOne finds the span between the earliest matching start anchor and
// the earliest end anchor after it, or nil when nothing acceptable matched
func (e *Extractor) extractOne(text string, spec sectionSpec) *model.FilingSection {
	start := -1
	for _, re := range spec.starts {
		if loc := re.FindStringIndex(text); loc != nil {
			start = loc[0]
			break
		}
	}
	if start < 0 {
		return nil
	}

	// Search end anchors only after the matched start.
	tail := text[start:]
	end := len(tail)
	for _, re := range spec.ends {
		// Skip past the header line itself so a start anchor that also
		// matches an end pattern does not zero out the body.
		if loc := re.FindStringIndex(tail[1:]); loc != nil && loc[0]+1 < end {
			end = loc[0] + 1
			break
		}
	}

	body := strings.TrimSpace(tail[:end])
	if len(body) < e.minSectionChars {
		return nil
	}

	return &model.FilingSection{
		Name:           spec.name,
		Title:          spec.title,
		Content:        body,
		WordCount:      len(strings.Fields(body)),
		CharacterCount: len(body),
	}
}
