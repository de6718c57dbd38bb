package riskmodel

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// AssessmentRequest carries the applicant profile for rule-based scoring.
// CibilScore stays nil when the applicant does not know it; the score is then
// estimated from the rest of the profile.
type AssessmentRequest struct {
	MonthlyIncome   float64 `json:"monthly_income"`
	ExistingEMIs    float64 `json:"existing_emis"`
	CurrentSavings  float64 `json:"current_savings"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	CibilScore      *int    `json:"cibil_score"`
	Purpose         string  `json:"purpose"`
	LoanAmount      float64 `json:"loan_amount"`
	Occupation      string  `json:"occupation"`
	Age             int     `json:"age"`
}

type AssessmentResponse struct {
	DefaultProbability    float64  `json:"default_probability"`
	ApprovalProbability   float64  `json:"approval_probability"`
	RiskCategory          string   `json:"risk_category"`
	CibilScoreUsed        int      `json:"cibil_score_used"`
	CibilEstimated        bool     `json:"cibil_estimated"`
	Remarks               []string `json:"remarks"`
	RecommendedLoanType   string   `json:"recommended_loan_type"`
	SuggestedTenureMonths int      `json:"suggested_tenure_months"`
	EstimatedMonthlyEMI   float64  `json:"estimated_monthly_emi"`
}

// Validate enforces the request bounds before any arithmetic runs.
func (r AssessmentRequest) Validate() error {
	switch {
	case r.MonthlyIncome <= 0:
		return errors.New("monthly_income must be positive")
	case r.ExistingEMIs < 0 || r.CurrentSavings < 0 || r.MonthlyExpenses < 0:
		return errors.New("emi, savings and expense values cannot be negative")
	case r.LoanAmount <= 0:
		return errors.New("loan_amount must be positive")
	case len(strings.TrimSpace(r.Purpose)) < 2:
		return errors.New("purpose is required")
	case len(strings.TrimSpace(r.Occupation)) < 2:
		return errors.New("occupation is required")
	case r.Age < 18 || r.Age > 80:
		return errors.New("age must be between 18 and 80")
	}
	if r.CibilScore != nil && (*r.CibilScore < 300 || *r.CibilScore > 900) {
		return errors.New("cibil_score must be between 300 and 900")
	}
	return nil
}

type purposeProfile struct {
	loanType  string
	rate      float64
	minTenure int
	maxTenure int
	risk      float64
}

func profileForPurpose(purpose string) purposeProfile {
	text := strings.ToLower(strings.TrimSpace(purpose))
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("home", "house", "property"):
		return purposeProfile{"Home Loan", 9.0, 120, 300, 16.0}
	case contains("education", "study", "college", "course"):
		return purposeProfile{"Education Loan", 10.0, 36, 120, 20.0}
	case contains("business", "inventory", "shop", "working capital"):
		return purposeProfile{"Business Loan", 14.0, 12, 60, 28.0}
	case contains("vehicle", "bike", "car", "auto"):
		return purposeProfile{"Vehicle Loan", 11.0, 24, 84, 22.0}
	case contains("medical", "health", "hospital"):
		return purposeProfile{"Medical Personal Loan", 15.0, 12, 48, 30.0}
	}
	return purposeProfile{"Personal Loan", 16.0, 12, 60, 32.0}
}

func occupationRisk(occupation string) (float64, string) {
	text := strings.ToLower(strings.TrimSpace(occupation))
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("government", "govt", "teacher", "bank employee"):
		return 12.0, "Your occupation profile appears stable, which supports repayment reliability."
	case contains("salaried", "software", "engineer", "private employee"):
		return 16.0, "A regular salaried income pattern generally improves repayment consistency."
	case contains("self", "business", "shop", "vendor", "trader"):
		return 24.0, "Self-employment can involve income variability, so risk is treated as moderate."
	case contains("daily wage", "freelancer", "contract"):
		return 34.0, "This occupation type may have uneven monthly cash flow, increasing repayment uncertainty."
	case strings.Contains(text, "student"):
		return 36.0, "Student profiles usually have limited independent repayment capacity at present."
	}
	return 26.0, "Occupation profile indicates a moderate repayment risk band."
}

func ageRisk(age int) (float64, string) {
	switch {
	case age >= 23 && age <= 55:
		return 14.0, "Your age bracket is typically aligned with stable earning years."
	case age >= 18 && age < 23:
		return 28.0, "Early-career age bands often have developing income stability."
	case age >= 56 && age <= 65:
		return 26.0, "This age band can reduce lender flexibility for longer tenures."
	}
	return 34.0, "This profile may require shorter tenure and tighter lending terms."
}

// financialCondition scores the applicant from occupation and age alone.
func financialCondition(occupation string, age int) (score, risk float64, note string) {
	occRisk, _ := occupationRisk(occupation)
	aRisk, _ := ageRisk(age)
	risk = 0.62*occRisk + 0.38*aRisk
	score = clamp(100-risk, 5.0, 95.0)

	label := "vulnerable"
	switch {
	case score >= 72:
		label = "strong"
	case score >= 52:
		label = "moderate"
	}
	note = fmt.Sprintf(
		"Financial-condition model (occupation + age) indicates a %s profile with score %.1f/100.",
		label, score,
	)
	return score, risk, note
}

func cibilRisk(score int, estimated bool) (float64, string) {
	source := "provided by you"
	if estimated {
		source = "estimated from your profile"
	}
	switch {
	case score >= 780:
		return 8.0, fmt.Sprintf("The CIBIL score (%d, %s) is strong and supports high lender confidence.", score, source)
	case score >= 720:
		return 14.0, fmt.Sprintf("The CIBIL score (%d, %s) is good and supports approval probability.", score, source)
	case score >= 680:
		return 22.0, fmt.Sprintf("The CIBIL score (%d, %s) is fair, indicating moderate credit risk.", score, source)
	case score >= 620:
		return 34.0, fmt.Sprintf("The CIBIL score (%d, %s) is below ideal and may reduce approval odds.", score, source)
	}
	return 46.0, fmt.Sprintf("The CIBIL score (%d, %s) is low, which materially increases risk.", score, source)
}

func emiPressureRisk(income, existingEMIs float64) (float64, string) {
	ratio := existingEMIs / math.Max(income, 1)
	switch {
	case ratio <= 0.2:
		return 10.0, "Current EMI commitments are light relative to monthly income."
	case ratio <= 0.35:
		return 20.0, "Current EMI commitments are manageable, though repayment headroom is moderate."
	case ratio <= 0.5:
		return 34.0, "Existing EMI obligations consume a significant portion of income."
	}
	return 48.0, "High existing EMI obligations create strong repayment pressure."
}

func loanBurdenRisk(income, loanAmount float64) (float64, string) {
	ratio := loanAmount / math.Max(income*12, 1)
	switch {
	case ratio <= 0.5:
		return 12.0, "Requested loan size is modest relative to estimated annual income."
	case ratio <= 1.0:
		return 20.0, "Requested loan size appears reasonable for the current income profile."
	case ratio <= 1.8:
		return 32.0, "Requested loan size is high relative to annual income."
	}
	return 44.0, "Requested loan size is very high relative to annual income."
}

func expenseRisk(income, expenses float64) (float64, string) {
	ratio := expenses / math.Max(income, 1)
	switch {
	case ratio <= 0.45:
		return 10.0, "Monthly expense levels are well within income capacity."
	case ratio <= 0.65:
		return 20.0, "Monthly expense levels are moderate relative to income."
	case ratio <= 0.8:
		return 34.0, "Monthly expense levels are high and may pressure repayments."
	}
	return 48.0, "Very high expense levels leave limited room for additional EMI."
}

func savingsRisk(income, savings float64) (float64, string) {
	ratio := savings / math.Max(income, 1)
	switch {
	case ratio >= 6:
		return 8.0, "Current savings provide a strong financial cushion for repayment continuity."
	case ratio >= 3:
		return 16.0, "Savings buffer is healthy and supports repayment resilience."
	case ratio >= 1:
		return 26.0, "Savings are limited; increasing reserves would further reduce risk."
	}
	return 40.0, "Low savings increase vulnerability to income and expense shocks."
}

// estimateCibil backfills a score for applicants who did not supply one.
func estimateCibil(r AssessmentRequest) int {
	incomeRatio := clamp(r.MonthlyIncome/100000, 0, 1)
	emiRatio := clamp(r.ExistingEMIs/math.Max(r.MonthlyIncome, 1), 0, 1.2)
	expenseRatio := clamp(r.MonthlyExpenses/math.Max(r.MonthlyIncome, 1), 0, 1.4)
	savingsMonths := clamp(r.CurrentSavings/math.Max(r.MonthlyIncome, 1), 0, 12)
	loanBurden := clamp(r.LoanAmount/math.Max(r.MonthlyIncome*12, 1), 0, 3)

	occRisk, _ := occupationRisk(r.Occupation)
	aRisk, _ := ageRisk(r.Age)

	savingsTerm := 1.0
	if savingsMonths <= 6 {
		savingsTerm = savingsMonths / 6
	}
	score := 675 +
		35*incomeRatio -
		95*emiRatio -
		75*math.Max(expenseRatio-0.45, 0) +
		28*savingsTerm -
		45*math.Max(loanBurden-0.8, 0) -
		0.8*occRisk -
		0.5*aRisk
	return int(math.Round(clamp(score, 520, 790)))
}

// monthlyEMI is the standard annuity formula.
func monthlyEMI(principal, annualRate float64, tenureMonths int) float64 {
	monthlyRate := annualRate / 12 / 100
	if monthlyRate == 0 {
		return principal / float64(tenureMonths)
	}
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * factor / (factor - 1)
}

// pickTenure walks the tenure options shortest-first and picks the first one
// whose EMI fits the affordable monthly surplus.
func pickTenure(loanAmount, annualRate float64, minTenure, maxTenure int, income, existingEMIs, expenses float64) (int, float64) {
	step := 6
	if maxTenure > 96 {
		step = 12
	}
	options := make([]int, 0, (maxTenure-minTenure)/step+2)
	for t := minTenure; t <= maxTenure; t += step {
		options = append(options, t)
	}
	if len(options) == 0 || options[len(options)-1] != maxTenure {
		options = append(options, maxTenure)
	}

	affordable := math.Max(income-expenses-existingEMIs, income*0.08)
	chosenTenure := maxTenure
	chosenEMI := monthlyEMI(loanAmount, annualRate, chosenTenure)
	for _, tenure := range options {
		emi := monthlyEMI(loanAmount, annualRate, tenure)
		if emi <= affordable {
			chosenTenure = tenure
			chosenEMI = emi
			break
		}
	}
	return chosenTenure, chosenEMI
}

// RiskCategoryFor buckets a default probability into the advisory bands.
func RiskCategoryFor(defaultProbability float64) string {
	switch {
	case defaultProbability < 30:
		return "Low"
	case defaultProbability < 60:
		return "Medium"
	}
	return "High"
}

// Assess runs the weighted rule-based scoring over the applicant profile.
func Assess(r AssessmentRequest) (AssessmentResponse, error) {
	if err := r.Validate(); err != nil {
		return AssessmentResponse{}, err
	}

	purpose := profileForPurpose(r.Purpose)
	emiRisk, emiMsg := emiPressureRisk(r.MonthlyIncome, r.ExistingEMIs)
	sizeRisk, sizeMsg := loanBurdenRisk(r.MonthlyIncome, r.LoanAmount)
	expRisk, expMsg := expenseRisk(r.MonthlyIncome, r.MonthlyExpenses)
	savRisk, savMsg := savingsRisk(r.MonthlyIncome, r.CurrentSavings)
	_, condRisk, condMsg := financialCondition(r.Occupation, r.Age)

	cibilEstimated := r.CibilScore == nil
	cibilUsed := 0
	if cibilEstimated {
		cibilUsed = estimateCibil(r)
	} else {
		cibilUsed = *r.CibilScore
	}
	cibRisk, cibMsg := cibilRisk(cibilUsed, cibilEstimated)

	components := []struct {
		score  float64
		weight float64
	}{
		{emiRisk, 0.20},
		{sizeRisk, 0.18},
		{expRisk, 0.16},
		{savRisk, 0.12},
		{condRisk, 0.17},
		{purpose.risk, 0.07},
		{cibRisk, 0.10},
	}
	totalWeight := 0.0
	weighted := 0.0
	for _, c := range components {
		totalWeight += c.weight
		weighted += c.score * c.weight
	}
	riskScore := weighted / math.Max(totalWeight, 1e-9)

	defaultProbability := math.Round(clamp(riskScore, 3.0, 95.0)*100) / 100
	approvalProbability := math.Round((100-defaultProbability)*100) / 100
	category := RiskCategoryFor(defaultProbability)

	tenure, emi := pickTenure(
		r.LoanAmount, purpose.rate, purpose.minTenure, purpose.maxTenure,
		r.MonthlyIncome, r.ExistingEMIs, r.MonthlyExpenses,
	)

	// The remark for the heaviest risk component leads the explanation.
	primaryDriver := emiMsg
	primaryScore := emiRisk
	for _, cand := range []struct {
		score float64
		msg   string
	}{
		{sizeRisk, sizeMsg},
		{expRisk, expMsg},
		{savRisk, savMsg},
		{condRisk, condMsg},
		{cibRisk, cibMsg},
	} {
		if cand.score > primaryScore {
			primaryScore = cand.score
			primaryDriver = cand.msg
		}
	}

	emiRatio := r.ExistingEMIs / math.Max(r.MonthlyIncome, 1)
	expenseRatio := r.MonthlyExpenses / math.Max(r.MonthlyIncome, 1)
	savingsMonths := r.CurrentSavings / math.Max(r.MonthlyIncome, 1)
	loanToAnnualIncome := r.LoanAmount / math.Max(r.MonthlyIncome*12, 1)
	cibilSource := "provided"
	if cibilEstimated {
		cibilSource = "estimated"
	}

	remarks := []string{
		fmt.Sprintf(
			"Default probability is %.2f%% from your profile inputs. Approval probability is therefore %.2f%% (calculated as 100 - default probability).",
			defaultProbability, approvalProbability,
		),
		fmt.Sprintf(
			"Key drivers: EMI-to-income is %.1f%%, expense-to-income is %.1f%%, savings cover is about %.1f month(s), and CIBIL used is %d (%s).",
			emiRatio*100, expenseRatio*100, savingsMonths, cibilUsed, cibilSource,
		),
		condMsg,
		primaryDriver,
		fmt.Sprintf(
			"Best-fit product for your purpose (%s) is %s, with suggested tenure around %d months. Requested loan size is %.1f%% of annual income.",
			r.Purpose, purpose.loanType, tenure, loanToAnnualIncome*100,
		),
	}

	return AssessmentResponse{
		DefaultProbability:    defaultProbability,
		ApprovalProbability:   approvalProbability,
		RiskCategory:          category,
		CibilScoreUsed:        cibilUsed,
		CibilEstimated:        cibilEstimated,
		Remarks:               remarks,
		RecommendedLoanType:   purpose.loanType,
		SuggestedTenureMonths: tenure,
		EstimatedMonthlyEMI:   math.Round(emi*100) / 100,
	}, nil
}
