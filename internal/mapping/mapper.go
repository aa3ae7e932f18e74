// Package mapping resolves classified promises to candidate canonical KPI
// keys: a static type table first, keyword inference for uncategorized
// promises, and a substring fuzzy match as the last fallback.
package mapping

import (
	"strings"

	"github.com/okazarov/attest/internal/model"
)

// typeKeyTable maps each promise type to canonical KPI keys in priority
// order. Order is load-bearing: the verifier walks it first-match-wins.
var typeKeyTable = map[model.PromiseType][]string{
	model.PromiseRevenue:  {"revenue"},
	model.PromiseMargin:   {"operatingIncome", "grossProfit", "netIncome"},
	model.PromiseCosts:    {"operatingExpenses", "costOfRevenue", "operatingIncome"},
	model.PromiseCapex:    {"capex"},
	model.PromiseDebt:     {"totalDebt"},
	model.PromiseStrategy: {"revenue", "operatingIncome"},
	model.PromiseProduct:  {"revenue"},
	model.PromiseMarket:   {"revenue"},
}

// fallbackKeyTable holds secondary keys tried when the primary list has no
// data at all
var fallbackKeyTable = map[model.PromiseType][]string{
	model.PromiseRevenue: {"operatingIncome"},
	model.PromiseCapex:   {"operatingCashFlow", "fcf"},
	model.PromiseDebt:    {"cash"},
	model.PromiseCosts:   {"netIncome"},
}

// typeVocabulary is category-indicative vocabulary used two ways: to infer
// a type for unmapped promises from their text, and as the keyword set for
// fuzzy key matching. Inference precedence is the inferenceOrder below.
var typeVocabulary = map[model.PromiseType][]string{
	model.PromiseRevenue: {"revenue", "sales", "top-line", "bookings"},
	model.PromiseMargin:  {"margin", "profit", "income", "earnings"},
	model.PromiseCapex:   {"capex", "capital expenditure", "investment", "invest"},
	model.PromiseCosts:   {"cost", "expense", "spending", "savings"},
	model.PromiseDebt:    {"debt", "leverage", "borrowing"},
}

// inferenceOrder is the fixed precedence for keyword inference
var inferenceOrder = []model.PromiseType{
	model.PromiseRevenue,
	model.PromiseMargin,
	model.PromiseCapex,
	model.PromiseCosts,
	model.PromiseDebt,
}

// Mapper resolves promises to KPI keys
type Mapper struct{}

// NewMapper creates a mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// ResolveType returns the promise's type, substituting a keyword-inferred
// type when the promise is uncategorized. Returns PromiseOther when nothing
// can be inferred.
func (m *Mapper) ResolveType(p model.ClassifiedPromise) model.PromiseType {
	if _, mapped := typeKeyTable[p.Type]; mapped {
		return p.Type
	}
	return m.InferType(p.Text)
}

// InferType scans text for category-indicative vocabulary in the fixed
// precedence order
func (m *Mapper) InferType(text string) model.PromiseType {
	lower := strings.ToLower(text)
	for _, typ := range inferenceOrder {
		for _, word := range typeVocabulary[typ] {
			if strings.Contains(lower, word) {
				return typ
			}
		}
	}
	return model.PromiseOther
}

// Keys returns the static key list for a type, primaries before fallbacks
func (m *Mapper) Keys(typ model.PromiseType) []string {
	keys := append([]string(nil), typeKeyTable[typ]...)
	keys = append(keys, fallbackKeyTable[typ]...)
	return keys
}

// FuzzyKeys matches the type's keyword set against the available KPI keys
// by case-insensitive bidirectional substring containment
func (m *Mapper) FuzzyKeys(typ model.PromiseType, available []string) []string {
	vocab := typeVocabulary[typ]
	if len(vocab) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var matched []string
	for _, key := range available {
		lowerKey := strings.ToLower(key)
		for _, word := range vocab {
			lowerWord := strings.ToLower(word)
			if strings.Contains(lowerKey, lowerWord) || strings.Contains(lowerWord, lowerKey) {
				if !seen[key] {
					seen[key] = true
					matched = append(matched, key)
				}
				break
			}
		}
	}
	return matched
}

// MapToKPIKeys resolves a promise to the ordered candidate keys that have
// actual data. An empty result is a deliberate "no opinion" signal.
func (m *Mapper) MapToKPIKeys(p model.ClassifiedPromise, kpis *model.KPIExtractionResult) []string {
	typ := m.ResolveType(p)
	if typ == model.PromiseOther {
		return nil
	}

	var withData []string
	for _, key := range m.Keys(typ) {
		if len(kpis.Series(key)) > 0 {
			withData = append(withData, key)
		}
	}
	if len(withData) > 0 {
		return withData
	}

	for _, key := range m.FuzzyKeys(typ, kpis.AvailableKeys()) {
		if len(kpis.Series(key)) > 0 {
			withData = append(withData, key)
		}
	}
	return withData
}
