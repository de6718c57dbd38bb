package advisor

import (
	"errors"
	"math"
)

type InsuranceRequest struct {
	Age                 int      `json:"age"`
	MonthlyIncome       float64  `json:"monthly_income"`
	FamilyMembers       int      `json:"family_members"`
	HealthConditions    []string `json:"health_conditions"`
	OccupationRiskLevel string   `json:"occupation_risk_level"`
}

type InsuranceResponse struct {
	RiskProfileScore     float64  `json:"risk_profile_score"`
	HealthInsuranceCover float64  `json:"health_insurance_cover"`
	LifeInsuranceCover   float64  `json:"life_insurance_cover"`
	EmergencyFundTarget  float64  `json:"emergency_fund_target"`
	Recommendations      []string `json:"recommendations"`
}

var occupationRiskFactors = map[string]float64{
	"low":    0.1,
	"medium": 0.2,
	"high":   0.35,
}

func (r InsuranceRequest) Validate() error {
	switch {
	case r.Age < 18 || r.Age > 80:
		return errors.New("age must be between 18 and 80")
	case r.MonthlyIncome <= 0:
		return errors.New("monthly_income must be positive")
	case r.FamilyMembers < 1 || r.FamilyMembers > 12:
		return errors.New("family_members must be between 1 and 12")
	}
	if _, ok := occupationRiskFactors[r.OccupationRiskLevel]; !ok {
		return errors.New("occupation_risk_level must be low, medium or high")
	}
	return nil
}

// AdviseInsurance sizes health, life and emergency cover from the household
// profile and scores the overall risk exposure.
func AdviseInsurance(req InsuranceRequest) (InsuranceResponse, error) {
	if err := req.Validate(); err != nil {
		return InsuranceResponse{}, err
	}

	conditionFactor := math.Min(float64(len(req.HealthConditions))*0.08, 0.25)
	occupationFactor := occupationRiskFactors[req.OccupationRiskLevel]
	ageFactor := math.Min(math.Max(float64(req.Age-18)/62, 0), 1)
	familyFactor := math.Min(float64(req.FamilyMembers)/8, 1)

	riskProfile := (0.35*ageFactor + 0.25*familyFactor + 0.25*occupationFactor + 0.15*conditionFactor) * 100

	annualIncome := req.MonthlyIncome * 12
	healthCover := math.Max(500000, annualIncome*0.5+float64(req.FamilyMembers)*100000)
	lifeCover := math.Max(annualIncome*10, 1000000)
	emergencyFund := req.MonthlyIncome * 6

	recommendations := []string{
		"Prioritize base health insurance with hospitalization + critical illness add-on.",
		"Maintain term life cover at least 10x annual income.",
		"Create emergency corpus in liquid savings over 6-9 months.",
	}
	if req.OccupationRiskLevel == "high" {
		recommendations = append(recommendations, "Add accidental disability rider due to high occupation risk.")
	}
	if len(req.HealthConditions) > 0 {
		recommendations = append(recommendations, "Choose policy with lower waiting period for pre-existing conditions.")
	}

	return InsuranceResponse{
		RiskProfileScore:     roundTo2(riskProfile),
		HealthInsuranceCover: roundTo2(healthCover),
		LifeInsuranceCover:   roundTo2(lifeCover),
		EmergencyFundTarget:  roundTo2(emergencyFund),
		Recommendations:      recommendations,
	}, nil
}
