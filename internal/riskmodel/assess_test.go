package riskmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAssessStableProfile(t *testing.T) {
	resp, err := Assess(AssessmentRequest{
		MonthlyIncome:   80000,
		ExistingEMIs:    8000,
		CurrentSavings:  300000,
		MonthlyExpenses: 30000,
		CibilScore:      intPtr(760),
		Purpose:         "home purchase",
		LoanAmount:      2000000,
		Occupation:      "government teacher",
		Age:             35,
	})
	require.NoError(t, err)

	assert.InDelta(t, 18.13, resp.DefaultProbability, 0.01)
	assert.InDelta(t, 81.87, resp.ApprovalProbability, 0.01)
	assert.Equal(t, "Low", resp.RiskCategory)
	assert.Equal(t, "Home Loan", resp.RecommendedLoanType)
	assert.Equal(t, 760, resp.CibilScoreUsed)
	assert.False(t, resp.CibilEstimated)
	assert.Equal(t, 120, resp.SuggestedTenureMonths)
	assert.InDelta(t, 25335.2, resp.EstimatedMonthlyEMI, 5.0)
	assert.Len(t, resp.Remarks, 5)
}

func TestAssessVulnerableProfileEstimatesCibil(t *testing.T) {
	resp, err := Assess(AssessmentRequest{
		MonthlyIncome:   20000,
		ExistingEMIs:    9000,
		CurrentSavings:  5000,
		MonthlyExpenses: 14000,
		Purpose:         "personal emergency",
		LoanAmount:      300000,
		Occupation:      "daily wage worker",
		Age:             20,
	})
	require.NoError(t, err)

	assert.True(t, resp.CibilEstimated)
	assert.Equal(t, 560, resp.CibilScoreUsed)
	assert.InDelta(t, 35.03, resp.DefaultProbability, 0.01)
	assert.Equal(t, "Medium", resp.RiskCategory)
	assert.Equal(t, "Personal Loan", resp.RecommendedLoanType)
}

func TestAssessValidation(t *testing.T) {
	base := AssessmentRequest{
		MonthlyIncome:   50000,
		MonthlyExpenses: 20000,
		Purpose:         "vehicle",
		LoanAmount:      400000,
		Occupation:      "salaried",
		Age:             30,
	}

	zeroIncome := base
	zeroIncome.MonthlyIncome = 0
	_, err := Assess(zeroIncome)
	assert.Error(t, err)

	underage := base
	underage.Age = 17
	_, err = Assess(underage)
	assert.Error(t, err)

	badCibil := base
	badCibil.CibilScore = intPtr(200)
	_, err = Assess(badCibil)
	assert.Error(t, err)

	shortPurpose := base
	shortPurpose.Purpose = "x"
	_, err = Assess(shortPurpose)
	assert.Error(t, err)
}

func TestProfileForPurpose(t *testing.T) {
	assert.Equal(t, "Education Loan", profileForPurpose("MBA course fees").loanType)
	assert.Equal(t, "Business Loan", profileForPurpose("shop inventory restock").loanType)
	assert.Equal(t, "Vehicle Loan", profileForPurpose("new bike").loanType)
	assert.Equal(t, "Medical Personal Loan", profileForPurpose("hospital bills").loanType)
	assert.Equal(t, "Personal Loan", profileForPurpose("wedding expenses").loanType)
}

func TestEstimateCibilStaysInBand(t *testing.T) {
	high := estimateCibil(AssessmentRequest{
		MonthlyIncome:  500000,
		CurrentSavings: 5000000,
		LoanAmount:     100000,
		Occupation:     "government officer",
		Age:            40,
	})
	low := estimateCibil(AssessmentRequest{
		MonthlyIncome:   10000,
		ExistingEMIs:    12000,
		MonthlyExpenses: 14000,
		LoanAmount:      900000,
		Occupation:      "student",
		Age:             70,
	})

	assert.LessOrEqual(t, high, 790)
	assert.GreaterOrEqual(t, high, 700)
	assert.Equal(t, 520, low)
}

func TestRiskCategoryFor(t *testing.T) {
	assert.Equal(t, "Low", RiskCategoryFor(29.99))
	assert.Equal(t, "Medium", RiskCategoryFor(30))
	assert.Equal(t, "Medium", RiskCategoryFor(59.99))
	assert.Equal(t, "High", RiskCategoryFor(60))
}

func TestMonthlyEMIAmortization(t *testing.T) {
	// 100000 at 12% over 12 months is the textbook 8884.88 schedule.
	assert.InDelta(t, 8884.88, monthlyEMI(100000, 12, 12), 0.01)
	assert.InDelta(t, 1000, monthlyEMI(12000, 0, 12), 1e-9)
}

func TestPickTenurePrefersShortestAffordable(t *testing.T) {
	// Plenty of surplus: the minimum tenure wins.
	tenure, emi := pickTenure(100000, 12, 12, 60, 200000, 0, 50000)
	assert.Equal(t, 12, tenure)
	assert.InDelta(t, 8884.88, emi, 0.01)

	// No tenure fits: falls back to the maximum.
	tenure, _ = pickTenure(5000000, 16, 12, 60, 30000, 5000, 20000)
	assert.Equal(t, 60, tenure)
}
