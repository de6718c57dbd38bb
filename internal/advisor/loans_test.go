package advisor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAwareSaas/internal/config"
)

const catalogCSV = `loan_category,loan_type,sub_type,target_segment,typical_tenure_years,secured,lender_type,typical_lenders,notes
Housing,Home Loan,Standard,Salaried individuals,10-25,Yes,Public Bank,SBI; HDFC,Owner occupied purchase
Retail,Personal Loan,Instant Personal,Salaried,1-5,No,Fintech NBFC,PaySense; KreditBee,Instant personal loan app based
Retail,Education Loan,Domestic,Students,5-10,Yes/No,Public Bank,SBI; Canara,Domestic education loan
Retail,Gold Loan,Standard,Individual,0.5-3,Yes,NBFC,Muthoot; Manappuram,Loan against gold jewellery
Digital Lending,BNPL,Checkout Finance,Consumer,0.25-1,No,Fintech,LazyPay; Simpl,BNPL checkout credit
`

func writeCatalog(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "india_loans_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o644))
	t.Setenv(config.LoanDatasetEnv, path)
}

func TestCatalogLoadsFromEnvPath(t *testing.T) {
	writeCatalog(t)

	catalog, err := NewCatalog()
	require.NoError(t, err)

	assert.Equal(t, 5, catalog.Size())
	assert.NotEmpty(t, catalog.Path())
}

func TestCatalogMissingDataset(t *testing.T) {
	t.Setenv(config.LoanDatasetEnv, filepath.Join(t.TempDir(), "missing.csv"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = NewCatalog()
	assert.Error(t, err)
}

func TestRecommendRanksAffordableProducts(t *testing.T) {
	writeCatalog(t)
	catalog, err := NewCatalog()
	require.NoError(t, err)

	resp, err := catalog.Recommend(RecommendationRequest{
		RequestedAmount:     1000000,
		RiskCategory:        "Low",
		ApprovalProbability: 82,
		Occupation:          "salaried engineer",
		Purpose:             "home purchase",
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.RankedOptions)
	assert.Equal(t, resp.RankedOptions[0], resp.BestOption)
	for i := 1; i < len(resp.RankedOptions); i++ {
		assert.GreaterOrEqual(t, resp.RankedOptions[i-1].LoanScore, resp.RankedOptions[i].LoanScore)
	}
	for _, item := range resp.RankedOptions {
		assert.GreaterOrEqual(t, item.AdjustedApprovalProbability, 1.0)
		assert.LessOrEqual(t, item.AdjustedApprovalProbability, 99.5)
		assert.Positive(t, item.EstimatedEMI)
	}
	// A 10L request sits far outside the BNPL band, so BNPL cannot win.
	assert.NotContains(t, resp.BestOption.LenderName, "BNPL")
}

func TestRecommendValidation(t *testing.T) {
	writeCatalog(t)
	catalog, err := NewCatalog()
	require.NoError(t, err)

	_, err = catalog.Recommend(RecommendationRequest{RequestedAmount: 0, RiskCategory: "Low", ApprovalProbability: 50})
	assert.Error(t, err)

	_, err = catalog.Recommend(RecommendationRequest{RequestedAmount: 1000, RiskCategory: "Extreme", ApprovalProbability: 50})
	assert.Error(t, err)
}

func TestEstimateInterestRate(t *testing.T) {
	home := CatalogRow{LoanCategory: "Housing", LoanType: "Home Loan", Secured: "Yes", LenderType: "Public Bank"}
	assert.InDelta(t, 7.0, estimateInterestRate(home, "Low"), 0.001)
	assert.InDelta(t, 9.2, estimateInterestRate(home, "High"), 0.001)

	bnpl := CatalogRow{LoanCategory: "Digital Lending", LoanType: "BNPL", Secured: "No", LenderType: "Fintech"}
	assert.InDelta(t, 24.3, estimateInterestRate(bnpl, "High"), 0.001)
}

func TestParseTenureMonths(t *testing.T) {
	min, max := parseTenureMonths("10-25")
	assert.Equal(t, 120, min)
	assert.Equal(t, 300, max)

	min, max = parseTenureMonths("0.5-3")
	assert.Equal(t, 6, min)
	assert.Equal(t, 36, max)

	min, max = parseTenureMonths("")
	assert.Equal(t, 12, min)
	assert.Equal(t, 60, max)
}

func TestSecuredLabel(t *testing.T) {
	assert.Equal(t, "yes", securedLabel("Yes"))
	assert.Equal(t, "mixed", securedLabel("Yes/No"))
	assert.Equal(t, "no", securedLabel("No"))
	assert.Equal(t, "no", securedLabel(""))
}

func TestAmountFitScore(t *testing.T) {
	assert.Equal(t, 100.0, amountFitScore(100000, 50000, 500000))
	assert.Equal(t, 0.0, amountFitScore(10000, 500000, 15000000))
	assert.Greater(t, amountFitScore(550000, 50000, 500000), 0.0)
}

func TestRecommendedTenure(t *testing.T) {
	assert.Equal(t, 48, recommendedTenure(12, 60, "Low"))
	assert.Equal(t, 36, recommendedTenure(12, 60, "Medium"))
	assert.Equal(t, 29, recommendedTenure(12, 60, "High"))
	assert.Equal(t, 12, recommendedTenure(12, 12, "Low"))
}

func TestAmountRangeKeywords(t *testing.T) {
	min, max := amountRange(CatalogRow{LoanType: "Education Loan", Notes: "study abroad financing"})
	assert.Equal(t, 300000.0, min)
	assert.Equal(t, 5000000.0, max)

	min, max = amountRange(CatalogRow{LoanType: "Gold Loan"})
	assert.Equal(t, 10000.0, min)
	assert.Equal(t, 3000000.0, max)

	min, _ = amountRange(CatalogRow{LoanType: "Something Unusual"})
	assert.Equal(t, 50000.0, min)
}
