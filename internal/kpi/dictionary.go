package kpi

// UnitClass buckets the source units a metric may be reported in
type UnitClass int

const (
	UnitCurrency UnitClass = iota
	UnitShares
	UnitPerShare
	UnitPure
)

// MetricDef is one entry of the fixed, versioned metric dictionary.
// Tags are source-taxonomy synonyms in resolution priority order; the first
// tag present in the payload with a compatible unit bucket wins.
// IncreaseFavorable drives the verifier's directionality rule.
type MetricDef struct {
	Key               string
	Label             string
	Tags              []string
	Unit              UnitClass
	IncreaseFavorable bool
}

// DictionaryVersion identifies the concept-tag vocabulary baked in below
const DictionaryVersion = "us-gaap-2024.v1"

// KeyFCF is the only derived (non-source) metric key
const KeyFCF = "fcf"

// Dictionary is the ordered canonical metric vocabulary. Order is load-
// bearing: extraction resolves entries in this order and output is keyed
// by these names.
var Dictionary = []MetricDef{
	{
		Key:   "revenue",
		Label: "Revenue",
		Tags: []string{
			"RevenueFromContractWithCustomerExcludingAssessedTax",
			"Revenues",
			"SalesRevenueNet",
			"RevenueFromContractWithCustomerIncludingAssessedTax",
		},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:               "grossProfit",
		Label:             "Gross profit",
		Tags:              []string{"GrossProfit"},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:               "operatingIncome",
		Label:             "Operating income",
		Tags:              []string{"OperatingIncomeLoss"},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:               "netIncome",
		Label:             "Net income",
		Tags:              []string{"NetIncomeLoss", "ProfitLoss"},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:               "operatingExpenses",
		Label:             "Operating expenses",
		Tags:              []string{"OperatingExpenses", "CostsAndExpenses"},
		Unit:              UnitCurrency,
		IncreaseFavorable: false,
	},
	{
		Key:               "costOfRevenue",
		Label:             "Cost of revenue",
		Tags:              []string{"CostOfRevenue", "CostOfGoodsAndServicesSold", "CostOfGoodsSold"},
		Unit:              UnitCurrency,
		IncreaseFavorable: false,
	},
	{
		Key:   "capex",
		Label: "Capital expenditures",
		Tags: []string{
			"PaymentsToAcquirePropertyPlantAndEquipment",
			"PaymentsToAcquireProductiveAssets",
		},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:   "operatingCashFlow",
		Label: "Operating cash flow",
		Tags: []string{
			"NetCashProvidedByUsedInOperatingActivities",
			"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
		},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:   "totalDebt",
		Label: "Total debt",
		Tags: []string{
			"LongTermDebt",
			"LongTermDebtNoncurrent",
			"DebtLongtermAndShorttermCombinedAmount",
		},
		Unit:              UnitCurrency,
		IncreaseFavorable: false,
	},
	{
		Key:               "cash",
		Label:             "Cash and equivalents",
		Tags:              []string{"CashAndCashEquivalentsAtCarryingValue"},
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
	{
		Key:               "eps",
		Label:             "Diluted EPS",
		Tags:              []string{"EarningsPerShareDiluted", "EarningsPerShareBasic"},
		Unit:              UnitPerShare,
		IncreaseFavorable: true,
	},
	{
		Key:               "sharesOutstanding",
		Label:             "Shares outstanding",
		Tags:              []string{"CommonStockSharesOutstanding", "WeightedAverageNumberOfDilutedSharesOutstanding"},
		Unit:              UnitShares,
		IncreaseFavorable: false,
	},
	{
		// Derived post-hoc: operatingCashFlow - |capex| for matching
		// fiscal periods. Never resolved from a source tag.
		Key:               KeyFCF,
		Label:             "Free cash flow",
		Tags:              nil,
		Unit:              UnitCurrency,
		IncreaseFavorable: true,
	},
}

// LookupMetric returns the dictionary entry for a key, or nil
func LookupMetric(key string) *MetricDef {
	for i := range Dictionary {
		if Dictionary[i].Key == key {
			return &Dictionary[i]
		}
	}
	return nil
}

// IncreaseFavorable reports whether growth in the metric is a favorable
// signal. Unknown keys default to true (revenue-like).
func IncreaseFavorable(key string) bool {
	if def := LookupMetric(key); def != nil {
		return def.IncreaseFavorable
	}
	return true
}

// MetricLabel returns the display label for a key, defaulting to the key
func MetricLabel(key string) string {
	if def := LookupMetric(key); def != nil {
		return def.Label
	}
	return key
}
