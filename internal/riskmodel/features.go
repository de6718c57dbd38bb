package riskmodel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical feature names used for training. Derived ratios are computed,
// never read from the dataset.
var (
	numericFeatures = []string{
		"monthly_income",
		"existing_emis",
		"collateral_value",
		"cibil_score",
		"active_loans",
		"monthly_expenses",
		"avg_monthly_balance",
		"savings_amount",
		"upi_transaction_frequency",
		"utility_bill_regularity",
		"transaction_consistency_score",
		"income_volatility_index",
		"debt_to_income_ratio",
		"income_stability_score",
		"savings_rate",
		"expense_ratio",
		"credit_utilization_ratio",
		"collateral_coverage_ratio",
	}
	categoricalFeatures = []string{"occupation", "location", "business_type"}
)

// Accepted column aliases, tried in order after an exact canonical match.
var canonicalAliases = map[string][]string{
	"monthly_income":                {"income", "monthlyincome"},
	"existing_emis":                 {"emi", "monthly_emi"},
	"collateral_value":              {"collateral"},
	"cibil_score":                   {"credit_score", "cibil"},
	"active_loans":                  {"number_of_active_loans", "loans_active"},
	"monthly_expenses":              {"expenses", "monthly_spend"},
	"avg_monthly_balance":           {"average_monthly_balance"},
	"savings_amount":                {"savings"},
	"upi_transaction_frequency":     {"upi_txn_freq"},
	"utility_bill_regularity":       {"utility_regularity"},
	"transaction_consistency_score": {"txn_consistency_score"},
	"income_volatility_index":       {"income_volatility"},
	"occupation":                    {"job"},
	"location":                      {"city", "state"},
	"business_type":                 {"business"},
}

var numericDefaults = map[string]float64{
	"monthly_income":                1.0,
	"existing_emis":                 0.0,
	"collateral_value":              0.0,
	"cibil_score":                   650.0,
	"active_loans":                  0.0,
	"monthly_expenses":              0.0,
	"avg_monthly_balance":           0.0,
	"savings_amount":                0.0,
	"upi_transaction_frequency":     0.0,
	"utility_bill_regularity":       0.5,
	"transaction_consistency_score": 0.5,
	"income_volatility_index":       0.5,
}

var categoricalDefaults = map[string]string{
	"occupation":    "unknown",
	"location":      "unknown",
	"business_type": "general",
}

// FeatureSet is one record's resolved model input.
type FeatureSet struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// resolveCanonicalKey maps a raw column name onto its canonical feature name,
// or returns it unchanged when no alias matches.
func resolveCanonicalKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := numericDefaults[key]; ok {
		return key
	}
	if _, ok := categoricalDefaults[key]; ok {
		return key
	}
	for canonical, aliases := range canonicalAliases {
		for _, alias := range aliases {
			if key == alias {
				return canonical
			}
		}
	}
	return key
}

// ResolveFeatures turns one raw CSV record into a complete feature set:
// aliases resolved, defaults filled, bounds clamped and ratios derived.
func ResolveFeatures(record map[string]string) FeatureSet {
	canonical := make(map[string]string, len(record))
	for k, v := range record {
		canonical[resolveCanonicalKey(k)] = v
	}

	fs := FeatureSet{
		Numeric:     make(map[string]float64, len(numericFeatures)),
		Categorical: make(map[string]string, len(categoricalFeatures)),
	}
	for name, def := range numericDefaults {
		fs.Numeric[name] = coerceNumeric(canonical[name], def)
	}
	for name, def := range categoricalDefaults {
		val := strings.ToLower(strings.TrimSpace(canonical[name]))
		if val == "" {
			val = def
		}
		fs.Categorical[name] = val
	}

	fs.Numeric["monthly_income"] = math.Max(fs.Numeric["monthly_income"], 1)
	fs.Numeric["cibil_score"] = clamp(fs.Numeric["cibil_score"], 300, 900)
	fs.Numeric["utility_bill_regularity"] = clamp(fs.Numeric["utility_bill_regularity"], 0, 1)
	fs.Numeric["transaction_consistency_score"] = clamp(fs.Numeric["transaction_consistency_score"], 0, 1)

	income := fs.Numeric["monthly_income"]
	emis := fs.Numeric["existing_emis"]
	fs.Numeric["debt_to_income_ratio"] = emis / income
	fs.Numeric["income_stability_score"] = clamp(1/(1+fs.Numeric["income_volatility_index"]), 0, 1)
	fs.Numeric["savings_rate"] = fs.Numeric["savings_amount"] / income
	fs.Numeric["expense_ratio"] = fs.Numeric["monthly_expenses"] / income
	fs.Numeric["credit_utilization_ratio"] = emis * (fs.Numeric["active_loans"] + 1) / income
	fs.Numeric["collateral_coverage_ratio"] = fs.Numeric["collateral_value"] / (emis*12 + 1)

	return fs
}

// coerceNumeric strips currency noise the way statement cells are cleaned
// and falls back to the feature default when nothing parses.
func coerceNumeric(raw string, def float64) float64 {
	var b strings.Builder
	hasDigit := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			hasDigit = true
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if !hasDigit {
		return def
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return def
	}
	return v
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

// Tokens flattens a feature set into the discrete vocabulary the classifier
// learns from. Continuous values are bucketized; categoricals pass through.
func (fs FeatureSet) Tokens() []string {
	tokens := make([]string, 0, len(numericFeatures)+len(categoricalFeatures))
	for _, name := range numericFeatures {
		tokens = append(tokens, name+"="+bucketize(name, fs.Numeric[name]))
	}
	for _, name := range categoricalFeatures {
		tokens = append(tokens, name+"="+fs.Categorical[name])
	}
	return tokens
}

// bucketize maps a continuous value into a coarse label. Score-like features
// get fixed bands; open-ended amounts get order-of-magnitude buckets.
func bucketize(name string, v float64) string {
	switch name {
	case "cibil_score":
		switch {
		case v < 580:
			return "poor"
		case v < 650:
			return "weak"
		case v < 720:
			return "fair"
		case v < 780:
			return "good"
		default:
			return "excellent"
		}
	case "debt_to_income_ratio", "savings_rate", "expense_ratio",
		"credit_utilization_ratio", "utility_bill_regularity",
		"transaction_consistency_score", "income_stability_score",
		"income_volatility_index":
		switch {
		case v < 0.25:
			return "low"
		case v < 0.5:
			return "mid"
		case v < 0.75:
			return "high"
		default:
			return "veryhigh"
		}
	case "active_loans", "upi_transaction_frequency":
		switch {
		case v <= 0:
			return "none"
		case v < 3:
			return "few"
		case v < 10:
			return "some"
		default:
			return "many"
		}
	default:
		// Amount-like features: log10 magnitude keeps the vocabulary small.
		if v <= 0 {
			return "zero"
		}
		return fmt.Sprintf("e%d", int(math.Floor(math.Log10(v))))
	}
}
