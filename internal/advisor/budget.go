package advisor

import (
	"errors"
	"math"
	"strings"
)

type BudgetForecastRequest struct {
	MonthlyExpenseHistory []float64 `json:"monthly_expense_history"`
}

type BudgetForecastResponse struct {
	NextMonthPrediction float64            `json:"next_month_prediction"`
	ConfidenceBand      map[string]float64 `json:"confidence_band"`
	Trend               string             `json:"trend"`
}

type ExpenseTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type ExpenseCategorizationRequest struct {
	Transactions []ExpenseTransaction `json:"transactions"`
}

type ExpenseCategorizationResponse struct {
	CategorizedExpenses map[string]float64 `json:"categorized_expenses"`
	UncategorizedCount  int                `json:"uncategorized_count"`
}

// Categories are matched in order; the first category with a keyword hit
// claims the transaction.
var expenseCategories = []struct {
	name     string
	keywords []string
}{
	{"food", []string{"food", "grocery", "restaurant", "swiggy", "zomato"}},
	{"transport", []string{"fuel", "petrol", "metro", "uber", "ola", "transport"}},
	{"utilities", []string{"electricity", "water", "gas", "internet", "mobile", "bill"}},
	{"rent", []string{"rent", "house", "landlord"}},
	{"health", []string{"hospital", "medical", "pharmacy", "medicine"}},
	{"education", []string{"school", "college", "tuition", "course"}},
	{"business", []string{"inventory", "supplier", "shop", "wholesale"}},
}

// ForecastBudget predicts next month's spend from a recency-weighted average
// nudged by the linear trend, with a one-stddev confidence band.
func ForecastBudget(req BudgetForecastRequest) (BudgetForecastResponse, error) {
	history := req.MonthlyExpenseHistory
	if len(history) < 3 {
		return BudgetForecastResponse{}, errors.New("monthly_expense_history needs at least 3 values")
	}

	weightSum := 0.0
	weightedTotal := 0.0
	for i, v := range history {
		w := float64(i + 1)
		weightSum += w
		weightedTotal += v * w
	}
	weightedAvg := weightedTotal / weightSum

	slope := linearSlope(history)
	prediction := math.Max(weightedAvg+slope*0.5, 0)

	stdDev := populationStdDev(history)
	trend := "stable"
	switch {
	case slope > 150:
		trend = "rising"
	case slope < -150:
		trend = "falling"
	}

	return BudgetForecastResponse{
		NextMonthPrediction: roundTo2(prediction),
		ConfidenceBand: map[string]float64{
			"lower": roundTo2(math.Max(prediction-stdDev, 0)),
			"upper": roundTo2(prediction + stdDev),
		},
		Trend: trend,
	}, nil
}

// linearSlope is the least-squares slope over indices 0..n-1.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// CategorizeExpenses buckets transactions by description keywords. Only
// categories that accumulated spend appear in the result.
func CategorizeExpenses(req ExpenseCategorizationRequest) (ExpenseCategorizationResponse, error) {
	if len(req.Transactions) == 0 {
		return ExpenseCategorizationResponse{}, errors.New("at least one transaction is required")
	}

	totals := make(map[string]float64, len(expenseCategories))
	uncategorized := 0
	for _, tx := range req.Transactions {
		description := strings.ToLower(tx.Description)
		assigned := false
		for _, category := range expenseCategories {
			for _, keyword := range category.keywords {
				if strings.Contains(description, keyword) {
					totals[category.name] += tx.Amount
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
		if !assigned {
			uncategorized++
		}
	}

	result := make(map[string]float64, len(totals))
	for name, total := range totals {
		if total > 0 {
			result[name] = roundTo2(total)
		}
	}
	return ExpenseCategorizationResponse{
		CategorizedExpenses: result,
		UncategorizedCount:  uncategorized,
	}, nil
}
