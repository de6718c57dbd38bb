package advisor

import (
	"errors"
	"math"
)

type InclusionRequest struct {
	MonthlyIncome float64 `json:"monthly_income"`
	CibilScore    int     `json:"cibil_score"`
	Location      string  `json:"location"`
	Occupation    string  `json:"occupation"`
}

type InclusionResponse struct {
	AlternativeCreditScore float64  `json:"alternative_credit_score"`
	EligibleSchemes        []string `json:"eligible_schemes"`
	MicroloanOptions       []string `json:"microloan_options"`
	LiteracyContent        []string `json:"literacy_content"`
}

// AdviseInclusion builds an alternative credit score for thin-file applicants
// and lists the support schemes the profile qualifies for.
func AdviseInclusion(req InclusionRequest) (InclusionResponse, error) {
	if req.MonthlyIncome <= 0 {
		return InclusionResponse{}, errors.New("monthly_income must be positive")
	}
	if req.CibilScore < 300 || req.CibilScore > 900 {
		return InclusionResponse{}, errors.New("cibil_score must be between 300 and 900")
	}

	incomeScore := math.Min(req.MonthlyIncome/50000, 1) * 40
	cibilScore := float64(req.CibilScore-300) / 600 * 60
	alternative := math.Max(math.Min(incomeScore+cibilScore, 100), 0)

	var schemes []string
	if req.MonthlyIncome < 25000 {
		schemes = append(schemes,
			"PM SVANidhi micro-credit support for small vendors",
			"MUDRA Shishu/Kishore loan eligibility screening")
	}
	if req.MonthlyIncome < 18000 {
		schemes = append(schemes, "State livelihood mission and subsidized SHG linkage")
	}
	if req.CibilScore < 650 {
		schemes = append(schemes, "Credit counseling and assisted repayment plan")
	}

	return InclusionResponse{
		AlternativeCreditScore: roundTo2(alternative),
		EligibleSchemes:        schemes,
		MicroloanOptions: []string{
			"NBFC-assisted microloan (small-ticket working capital)",
			"Joint liability group lending",
			"SHG-based community lending channels",
		},
		LiteracyContent: []string{
			"How EMI works and why debt-to-income matters",
			"3-step process to improve credit score in 6 months",
			"Emergency fund basics for informal income households",
		},
	}, nil
}
