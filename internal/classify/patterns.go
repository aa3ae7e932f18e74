package classify

import (
	"regexp"

	"github.com/okazarov/attest/internal/model"
)

// forwardLookingPatterns gate classification: a sentence must match at least
// one. Ordered most specific first; order is a correctness contract.
var forwardLookingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwe\s+(?:expect|anticipate|intend|plan|project|aim|estimate|forecast)\b`),
	regexp.MustCompile(`(?i)\b(?:expected|anticipated|projected|intended|planned)\s+to\b`),
	regexp.MustCompile(`(?i)\b(?:we|the\s+company)\s+(?:will|are\s+committed\s+to|remain\s+committed\s+to)\b`),
	regexp.MustCompile(`(?i)\bour\s+(?:goal|target|objective|outlook|guidance)\b`),
	regexp.MustCompile(`(?i)\b(?:guidance|outlook)\s+(?:for|of)\b`),
	regexp.MustCompile(`(?i)\bgoing\s+forward\b`),
	regexp.MustCompile(`(?i)\bwe\s+(?:believe|are\s+confident)\b.*\bwill\b`),
	regexp.MustCompile(`(?i)\bin\s+(?:the\s+)?(?:coming|next|future)\s+(?:year|years|quarter|quarters|periods)\b`),
}

// categoryRule maps a trigger-word group to a promise type. Rules are tested
// in fixed priority order; the first group with a match wins and its matched
// trigger literals become the promise keywords.
type categoryRule struct {
	typ      model.PromiseType
	triggers *regexp.Regexp
}

var categoryRules = []categoryRule{
	{model.PromiseRevenue, regexp.MustCompile(`(?i)\b(revenues?|sales|top[- ]?line|bookings|billings)\b`)},
	{model.PromiseMargin, regexp.MustCompile(`(?i)\b(margins?|profitability|operating\s+income|gross\s+profit|net\s+income|earnings)\b`)},
	{model.PromiseCosts, regexp.MustCompile(`(?i)\b(costs?|expenses?|efficienc(?:y|ies)|savings|restructuring|headcount)\b`)},
	{model.PromiseCapex, regexp.MustCompile(`(?i)\b(capital\s+expenditures?|capex|invest(?:ments?|ing)?)\b`)},
	{model.PromiseDebt, regexp.MustCompile(`(?i)\b(debt|leverage|deleverag\w+|borrowings?|credit\s+facility|notes\s+payable)\b`)},
	{model.PromiseStrategy, regexp.MustCompile(`(?i)\b(strateg(?:y|ic|ies)|acquisitions?|expansion|transformation|initiatives?)\b`)},
	{model.PromiseProduct, regexp.MustCompile(`(?i)\b(products?|launch(?:es)?|platforms?|offerings?|services?)\b`)},
	{model.PromiseMarket, regexp.MustCompile(`(?i)\b(market\s+share|markets?|demand|industry|competitive|customers)\b`)},
}

// horizonRule maps a period reference to a time horizon; first match wins
type horizonRule struct {
	horizon model.TimeHorizon
	pattern *regexp.Regexp
}

var horizonRules = []horizonRule{
	{model.HorizonNextPeriod, regexp.MustCompile(`(?i)\b(?:next\s+quarter|the\s+(?:first|second|third|fourth)\s+quarter\s+of)\b`)},
	{model.HorizonThisFiscalYear, regexp.MustCompile(`(?i)\b(?:this\s+fiscal\s+year|fiscal\s+(?:year\s+)?20\d{2}|fy\s?20\d{2}|full[- ]year|the\s+current\s+(?:fiscal\s+)?year)\b`)},
	{model.HorizonTwoPlusYears, regexp.MustCompile(`(?i)\b(?:over\s+the\s+next\s+(?:two|three|four|five|several|\d+)\s+years|by\s+(?:fiscal\s+)?20\d{2}|through\s+20\d{2})\b`)},
	{model.HorizonLongTerm, regexp.MustCompile(`(?i)\b(?:long[- ]term|over\s+time|in\s+the\s+long\s+run)\b`)},
}

var (
	// Confidence heuristic inputs (additive, see Classify).
	reCommitment = regexp.MustCompile(`(?i)\b(?:will|expects?|committed|commit|plans?|intends?|targets?)\b`)
	reQuantified = regexp.MustCompile(`\d+(?:\.\d+)?\s*%|[$€£]\s?\d|(?i:\b\d+(?:\.\d+)?\s*(?:million|billion|trillion)\b)`)
	rePeriodRef  = regexp.MustCompile(`(?i)\b(?:fiscal\s+(?:year\s+)?20\d{2}|fy\s?20\d{2}|20\d{2}|next\s+(?:year|quarter)|full[- ]year|q[1-4])\b`)
	// Lower-case only for the modal verbs: "May 2025" is a date, not a hedge.
	reHedging = regexp.MustCompile(`\b(?:may|could|might)\b|(?i:\bno\s+assurance\b|\buncertain|\bsubject\s+to\s+risks)`)
)
