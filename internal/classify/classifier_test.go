package classify

import (
	"reflect"
	"strings"
	"testing"

	"github.com/okazarov/attest/internal/model"
)

func TestClassify_RevenuePromise(t *testing.T) {
	c := NewClassifier(0)

	sentence := "We expect revenue to increase by approximately 10% in fiscal 2025."
	p, ok := c.Classify(sentence, "management_discussion")
	if !ok {
		t.Fatal("expected sentence to classify as a promise")
	}

	if p.Type != model.PromiseRevenue {
		t.Errorf("type = %s, want revenue", p.Type)
	}
	if p.Horizon != model.HorizonThisFiscalYear {
		t.Errorf("horizon = %s, want this_fiscal_year", p.Horizon)
	}
	if !p.Measurable {
		t.Error("expected measurable: sentence carries a quantified figure")
	}
	if p.Confidence != model.ConfidenceHigh {
		t.Errorf("confidence = %s (score %d), want high", p.Confidence, p.ConfidenceScore)
	}
	if p.ConfidenceScore != 5 {
		t.Errorf("confidence score = %d, want 5 (+2 commitment, +2 quantified, +1 period)", p.ConfidenceScore)
	}
	if len(p.Keywords) == 0 || p.Keywords[0] != "revenue" {
		t.Errorf("keywords = %v, want [revenue]", p.Keywords)
	}
	if p.Source != "management_discussion" {
		t.Errorf("source = %s, want management_discussion", p.Source)
	}
}

func TestClassify_LengthGate(t *testing.T) {
	c := NewClassifier(0)

	if _, ok := c.Classify("We expect revenue to grow.", "x"); ok {
		t.Error("sentence under 50 chars should be rejected")
	}

	long := "We expect revenue to increase " + strings.Repeat("very ", 250) + "much."
	if _, ok := c.Classify(long, "x"); ok {
		t.Error("sentence over 1000 chars should be rejected")
	}
}

func TestClassify_NotForwardLooking(t *testing.T) {
	c := NewClassifier(0)

	sentence := "Revenue increased 8% year over year driven by strong demand across all segments."
	if _, ok := c.Classify(sentence, "x"); ok {
		t.Error("backward-looking sentence should be rejected")
	}
}

func TestClassify_HedgingLowersScore(t *testing.T) {
	c := NewClassifier(0)

	sentence := "We expect that revenue could decline, and there can be no assurance that our plans will succeed in fiscal 2026."
	p, ok := c.Classify(sentence, "x")
	if !ok {
		t.Fatal("expected sentence to classify")
	}
	// +2 commitment, +1 period, -1 hedging.
	if p.ConfidenceScore != 2 {
		t.Errorf("confidence score = %d, want 2", p.ConfidenceScore)
	}
	if p.Confidence != model.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", p.Confidence)
	}
}

func TestClassify_MayAsMonthIsNotHedging(t *testing.T) {
	c := NewClassifier(0)

	sentence := "We will reduce operating expenses when the restructuring completes in May 2025, targeting annual savings of $500 million."
	p, ok := c.Classify(sentence, "x")
	if !ok {
		t.Fatal("expected sentence to classify")
	}
	if p.Type != model.PromiseCosts {
		t.Errorf("type = %s, want costs", p.Type)
	}
	if p.ConfidenceScore != 5 {
		t.Errorf("confidence score = %d, want 5: capitalized May is a month, not a hedge", p.ConfidenceScore)
	}
}

func TestClassify_CategoryPriority(t *testing.T) {
	c := NewClassifier(0)

	// Mentions both revenue and margins; revenue outranks margin.
	sentence := "We expect revenue growth to continue and operating margins to expand in fiscal 2025."
	p, ok := c.Classify(sentence, "x")
	if !ok {
		t.Fatal("expected sentence to classify")
	}
	if p.Type != model.PromiseRevenue {
		t.Errorf("type = %s, want revenue (highest-priority matching category)", p.Type)
	}
}

func TestClassify_UncategorizedLowConfidenceDropped(t *testing.T) {
	c := NewClassifier(0)

	sentence := "Going forward we believe our position in negotiations with suppliers around the world remains generally favorable overall."
	if _, ok := c.Classify(sentence, "x"); ok {
		t.Error("uncategorized low-confidence sentence should be dropped")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(0)
	sentence := "We expect revenue to increase by approximately 10% in fiscal 2025."

	first, ok1 := c.Classify(sentence, "x")
	second, ok2 := c.Classify(sentence, "x")
	if !ok1 || !ok2 {
		t.Fatal("expected both classifications to succeed")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestExtractPromises_DedupeAcrossSections(t *testing.T) {
	c := NewClassifier(0)

	repeated := "We expect revenue to increase by approximately 10% in fiscal 2025."
	set := &model.SectionSet{
		Sections: map[string]*model.FilingSection{
			"business": {
				Name:    "business",
				Content: repeated,
			},
			"management_discussion": {
				Name:    "management_discussion",
				Content: repeated + " We anticipate capital expenditures may rise modestly to support capacity expansion plans.",
			},
		},
	}

	promises := c.ExtractPromises(set)
	if len(promises) != 2 {
		t.Fatalf("expected 2 promises after dedupe, got %d: %+v", len(promises), promises)
	}

	// Sections iterate in name order; the first occurrence sets the source.
	if promises[0].Text != repeated || promises[0].Source != "business" {
		t.Errorf("dedupe should keep first occurrence; got source %s", promises[0].Source)
	}
}

func TestExtractPromises_SortedByConfidence(t *testing.T) {
	c := NewClassifier(0)

	set := &model.SectionSet{
		Sections: map[string]*model.FilingSection{
			"management_discussion": {
				Name: "management_discussion",
				Content: "We anticipate that demand may soften in certain international markets over time. " +
					"We expect revenue to increase by approximately 10% in fiscal 2025.",
			},
		},
	}

	promises := c.ExtractPromises(set)
	if len(promises) < 2 {
		t.Fatalf("expected at least 2 promises, got %d", len(promises))
	}
	for i := 1; i < len(promises); i++ {
		if promises[i-1].Confidence.Rank() > promises[i].Confidence.Rank() {
			t.Errorf("promises not sorted by confidence: %s before %s",
				promises[i-1].Confidence, promises[i].Confidence)
		}
	}
}

func TestExtractPromises_FullTextFallback(t *testing.T) {
	c := NewClassifier(0)

	set := &model.SectionSet{
		Sections: map[string]*model.FilingSection{},
		FullText: "We expect revenue to increase by approximately 10% in fiscal 2025.",
	}

	promises := c.ExtractPromises(set)
	if len(promises) != 1 {
		t.Fatalf("expected 1 promise from full-text fallback, got %d", len(promises))
	}
	if promises[0].Source != "full_text" {
		t.Errorf("source = %s, want full_text", promises[0].Source)
	}
}

func TestExtractPromises_CapsPromiseCount(t *testing.T) {
	c := NewClassifier(3)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("We expect revenue to increase by approximately ")
		b.WriteString(strings.Repeat("1", i+1)) // vary the figure so dedupe keeps them
		b.WriteString("% in fiscal 2025. ")
	}

	set := &model.SectionSet{
		Sections: map[string]*model.FilingSection{
			"management_discussion": {Name: "management_discussion", Content: b.String()},
		},
	}

	promises := c.ExtractPromises(set)
	if len(promises) != 3 {
		t.Errorf("expected promise set capped at 3, got %d", len(promises))
	}
}
