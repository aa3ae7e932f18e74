package model

// FilingKind discriminates the disclosure cadence of a raw document
type FilingKind string

const (
	FilingAnnual    FilingKind = "annual"    // e.g. 10-K
	FilingQuarterly FilingKind = "quarterly" // e.g. 10-Q
)

// Form returns the registry form name for the filing kind
func (k FilingKind) Form() string {
	if k == FilingQuarterly {
		return "10-Q"
	}
	return "10-K"
}

// RawDocument is an immutable filing input: opaque markup plus its kind
type RawDocument struct {
	Content string     `json:"-"`
	Kind    FilingKind `json:"kind"`
}

// FilingSection is a named narrative slice of a filing, produced once and
// never mutated
type FilingSection struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

// SectionSet holds every section located in a document. FullText is always
// retained so downstream stages have a fallback when no section matched.
type SectionSet struct {
	Sections map[string]*FilingSection `json:"sections"`
	FullText string                    `json:"-"`
	Kind     FilingKind                `json:"kind"`
}

// Section returns the named section, or nil if it was not located
func (s *SectionSet) Section(name string) *FilingSection {
	if s == nil || s.Sections == nil {
		return nil
	}
	return s.Sections[name]
}
