package statement

import (
	"math"
	"strings"
)

// Summary is the fixed-shape aggregate record handed back to callers.
type Summary struct {
	MonthlyIncomeEstimate   float64 `json:"monthly_income_estimate"`
	MonthlyExpenseEstimate  float64 `json:"monthly_expense_estimate"`
	AvgMonthlyBalance       float64 `json:"avg_monthly_balance"`
	IncomeVolatilityIndex   float64 `json:"income_volatility_index"`
	UpiTransactionFrequency int     `json:"upi_transaction_frequency"`
}

// Payment-app markers counted towards upi_transaction_frequency.
var upiMarkers = []string{"upi", "gpay", "phonepe", "paytm", "bhim"}

// summarize reduces canonical transactions to the aggregate record. Income is
// the credit sum, expenses the debit sum, the balance a mean over rows that
// carried one, and volatility the population standard deviation of credits.
// When no description column resolved, the debit count stands in as a rough
// proxy for payment-app frequency.
func summarize(txns []Transaction, roles RoleMap) Summary {
	if len(txns) == 0 {
		return Summary{}
	}

	var creditSum, debitSum float64
	var credits []float64
	var balanceSum float64
	balanceCount := 0
	upiCount := 0
	debitCount := 0

	for _, tx := range txns {
		switch tx.Type {
		case TxCredit:
			creditSum += tx.Amount
			credits = append(credits, tx.Amount)
		default:
			debitSum += tx.Amount
			debitCount++
		}
		if tx.Balance != nil {
			balanceSum += *tx.Balance
			balanceCount++
		}
		lower := strings.ToLower(tx.Description)
		for _, marker := range upiMarkers {
			if strings.Contains(lower, marker) {
				upiCount++
				break
			}
		}
	}

	avgBalance := 0.0
	if balanceCount > 0 {
		avgBalance = balanceSum / float64(balanceCount)
	}

	upiFrequency := upiCount
	if !roles.Has(RoleDescription) {
		upiFrequency = debitCount
	}

	return Summary{
		MonthlyIncomeEstimate:   round2(creditSum),
		MonthlyExpenseEstimate:  round2(debitSum),
		AvgMonthlyBalance:       round2(avgBalance),
		IncomeVolatilityIndex:   round4(populationStdDev(credits)),
		UpiTransactionFrequency: upiFrequency,
	}
}

// populationStdDev returns 0 for fewer than two samples.
func populationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
