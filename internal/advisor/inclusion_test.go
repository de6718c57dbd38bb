package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviseInclusionLowIncomeThinFile(t *testing.T) {
	resp, err := AdviseInclusion(InclusionRequest{
		MonthlyIncome: 15000,
		CibilScore:    600,
		Occupation:    "street vendor",
	})
	require.NoError(t, err)

	// income 15000/50000*40 = 12, cibil (600-300)/600*60 = 30.
	assert.InDelta(t, 42, resp.AlternativeCreditScore, 0.01)
	assert.Len(t, resp.EligibleSchemes, 4)
	assert.Contains(t, resp.EligibleSchemes[0], "PM SVANidhi")
	assert.Contains(t, resp.EligibleSchemes[3], "Credit counseling")
	assert.Len(t, resp.MicroloanOptions, 3)
	assert.Len(t, resp.LiteracyContent, 3)
}

func TestAdviseInclusionEstablishedProfile(t *testing.T) {
	resp, err := AdviseInclusion(InclusionRequest{
		MonthlyIncome: 80000,
		CibilScore:    760,
	})
	require.NoError(t, err)

	// Income score caps at 40.
	assert.InDelta(t, 86, resp.AlternativeCreditScore, 0.01)
	assert.Empty(t, resp.EligibleSchemes)
}

func TestAdviseInclusionValidation(t *testing.T) {
	_, err := AdviseInclusion(InclusionRequest{MonthlyIncome: 0, CibilScore: 700})
	assert.Error(t, err)

	_, err = AdviseInclusion(InclusionRequest{MonthlyIncome: 10000, CibilScore: 1000})
	assert.Error(t, err)
}
