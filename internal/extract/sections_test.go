package extract

import (
	"strings"
	"testing"

	"github.com/okazarov/attest/internal/model"
)

func annualFixture() string {
	pad := strings.Repeat("The company designs, manufactures, and markets consumer devices. ", 3)
	return strings.Join([]string{
		"Item 1. Business",
		pad,
		"Item 1A. Risk Factors",
		"Our business could be harmed by macroeconomic conditions. " + pad,
		"Item 1B. Unresolved Staff Comments",
		"None.",
		"Item 7. Management's Discussion and Analysis of Financial Condition and Results of Operations",
		"We expect revenue to increase by approximately 10% in fiscal 2025. " + pad,
		"Item 7A. Quantitative and Qualitative Disclosures About Market Risk",
		"Interest rate risk discussion.",
		"Item 8. Financial Statements and Supplementary Data",
		"The financial statements follow.",
	}, "\n")
}

func TestExtractSections_Annual(t *testing.T) {
	e := NewExtractor(50)
	set := e.ExtractSections(annualFixture(), model.FilingAnnual)

	mdna := set.Section(SectionMDNA)
	if mdna == nil {
		t.Fatal("expected management_discussion section")
	}
	if !strings.Contains(mdna.Content, "We expect revenue to increase") {
		t.Error("management_discussion body missing its narrative")
	}
	if strings.Contains(mdna.Content, "Interest rate risk") {
		t.Error("management_discussion should stop at Item 7A")
	}
	if mdna.Title != "Management's Discussion and Analysis" {
		t.Errorf("title = %q", mdna.Title)
	}
	if mdna.WordCount == 0 || mdna.CharacterCount != len(mdna.Content) {
		t.Error("section counts not populated")
	}

	risks := set.Section(SectionRiskFactors)
	if risks == nil {
		t.Fatal("expected risk_factors section")
	}
	if !strings.Contains(risks.Content, "macroeconomic conditions") {
		t.Error("risk_factors body missing its narrative")
	}
	if strings.Contains(risks.Content, "Unresolved Staff Comments") &&
		strings.Contains(risks.Content, "None.") {
		t.Error("risk_factors should stop at Item 1B")
	}

	business := set.Section(SectionBusiness)
	if business == nil {
		t.Fatal("expected business section")
	}
	if strings.Contains(business.Content, "macroeconomic") {
		t.Error("business should stop at Item 1A")
	}

	if set.FullText == "" {
		t.Error("full text must always be retained")
	}
	if set.Kind != model.FilingAnnual {
		t.Errorf("kind = %s, want annual", set.Kind)
	}
}

func TestExtractSections_Quarterly(t *testing.T) {
	pad := strings.Repeat("Results of operations discussion follows in detail. ", 3)
	text := strings.Join([]string{
		"Item 2. Management's Discussion and Analysis of Financial Condition and Results of Operations",
		"We expect operating expenses to decline next quarter. " + pad,
		"Item 3. Quantitative and Qualitative Disclosures About Market Risk",
		"Nothing material.",
	}, "\n")

	e := NewExtractor(50)
	set := e.ExtractSections(text, model.FilingQuarterly)

	mdna := set.Section(SectionMDNA)
	if mdna == nil {
		t.Fatal("expected management_discussion section in quarterly filing")
	}
	if strings.Contains(mdna.Content, "Nothing material") {
		t.Error("management_discussion should stop at Item 3")
	}
}

func TestExtractSections_MissingSectionsAreAbsent(t *testing.T) {
	e := NewExtractor(50)
	set := e.ExtractSections("A press release with no filing structure at all.", model.FilingAnnual)

	if len(set.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(set.Sections))
	}
	if set.FullText == "" {
		t.Error("full text must be retained even when nothing matched")
	}
}

func TestExtractSections_RejectsShortBody(t *testing.T) {
	// A table-of-contents entry matches the anchor but has no body behind it.
	text := "Item 7. Management's Discussion and Analysis\nItem 7A. Quantitative and Qualitative Disclosures"

	e := NewExtractor(500)
	set := e.ExtractSections(text, model.FilingAnnual)

	if set.Section(SectionMDNA) != nil {
		t.Error("a body shorter than the threshold should be rejected")
	}
}

func TestNewExtractor_DefaultThreshold(t *testing.T) {
	if e := NewExtractor(0); e.minSectionChars != 500 {
		t.Errorf("minSectionChars = %d, want default 500", e.minSectionChars)
	}
}
