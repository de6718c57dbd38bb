package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviseInsuranceYoungLowRisk(t *testing.T) {
	resp, err := AdviseInsurance(InsuranceRequest{
		Age:                 28,
		MonthlyIncome:       60000,
		FamilyMembers:       2,
		OccupationRiskLevel: "low",
	})
	require.NoError(t, err)

	// age factor 10/62, family 0.25, occupation 0.1, conditions 0.
	assert.InDelta(t, (0.35*(10.0/62)+0.25*0.25+0.25*0.1)*100, resp.RiskProfileScore, 0.01)
	assert.InDelta(t, 560000, resp.HealthInsuranceCover, 0.01)
	assert.InDelta(t, 7200000, resp.LifeInsuranceCover, 0.01)
	assert.InDelta(t, 360000, resp.EmergencyFundTarget, 0.01)
	assert.Len(t, resp.Recommendations, 3)
}

func TestAdviseInsuranceHighRiskWithConditions(t *testing.T) {
	resp, err := AdviseInsurance(InsuranceRequest{
		Age:                 52,
		MonthlyIncome:       30000,
		FamilyMembers:       5,
		HealthConditions:    []string{"diabetes", "hypertension"},
		OccupationRiskLevel: "high",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Recommendations, 5)
	assert.Contains(t, resp.Recommendations[3], "accidental disability")
	assert.Contains(t, resp.Recommendations[4], "waiting period")
	// Low income still gets the 5L health floor.
	assert.InDelta(t, 680000, resp.HealthInsuranceCover, 0.01)
	assert.InDelta(t, 3600000, resp.LifeInsuranceCover, 0.01)
}

func TestAdviseInsuranceHealthCoverFloor(t *testing.T) {
	resp, err := AdviseInsurance(InsuranceRequest{
		Age:                 25,
		MonthlyIncome:       10000,
		FamilyMembers:       1,
		OccupationRiskLevel: "medium",
	})
	require.NoError(t, err)

	assert.InDelta(t, 500000, resp.HealthInsuranceCover, 0.01)
	assert.InDelta(t, 1200000, resp.LifeInsuranceCover, 0.01)
}

func TestAdviseInsuranceValidation(t *testing.T) {
	_, err := AdviseInsurance(InsuranceRequest{Age: 17, MonthlyIncome: 1000, FamilyMembers: 1, OccupationRiskLevel: "low"})
	assert.Error(t, err)

	_, err = AdviseInsurance(InsuranceRequest{Age: 30, MonthlyIncome: 1000, FamilyMembers: 1, OccupationRiskLevel: "extreme"})
	assert.Error(t, err)

	_, err = AdviseInsurance(InsuranceRequest{Age: 30, MonthlyIncome: 1000, FamilyMembers: 13, OccupationRiskLevel: "low"})
	assert.Error(t, err)
}
