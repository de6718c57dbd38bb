package advisor

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	deduction80CCap = 150000.0
	deduction80DCap = 25000.0
)

var (
	panRe      = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	amountRe   = regexp.MustCompile(`(?:INR|Rs\.?|₹)?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]+)?|[0-9]+(?:\.[0-9]+)?)`)
	sectionsRe = regexp.MustCompile(`(?i)\b80C|80D|80CCD|HRA|LTA\b`)
)

type TaxEstimateRequest struct {
	SalaryIncome    float64 `json:"salary_income"`
	BusinessIncome  float64 `json:"business_income"`
	OtherIncome     float64 `json:"other_income"`
	Investments80C  float64 `json:"investments_80c"`
	Insurance80D    float64 `json:"insurance_80d"`
	OtherDeductions float64 `json:"other_deductions"`
}

type TaxEstimateResponse struct {
	GrossIncome       float64            `json:"gross_income"`
	TaxableIncome     float64            `json:"taxable_income"`
	EstimatedTax      float64            `json:"estimated_tax"`
	DeductionsApplied map[string]float64 `json:"deductions_applied"`
	Suggestions       []string           `json:"suggestions"`
}

type TextExtractionResponse struct {
	PanNumbers          []string  `json:"pan_numbers"`
	Amounts             []float64 `json:"amounts"`
	LikelyIncomeAmounts []float64 `json:"likely_income_amounts"`
	DetectedSections    []string  `json:"detected_sections"`
}

// oldRegimeTax applies the pre-2020 slab schedule plus the 4% cess.
func oldRegimeTax(taxableIncome float64) float64 {
	slabs := []struct {
		cap  float64
		rate float64
	}{
		{250000, 0},
		{250000, 0.05},
		{500000, 0.2},
		{math.Inf(1), 0.3},
	}
	tax := 0.0
	remaining := taxableIncome
	for _, slab := range slabs {
		if remaining <= 0 {
			break
		}
		segment := math.Min(remaining, slab.cap)
		tax += segment * slab.rate
		remaining -= segment
	}
	return tax * 1.04
}

// EstimateTax computes an old-regime estimate with capped 80C/80D deductions.
func EstimateTax(req TaxEstimateRequest) TaxEstimateResponse {
	gross := req.SalaryIncome + req.BusinessIncome + req.OtherIncome
	ded80C := math.Min(req.Investments80C, deduction80CCap)
	ded80D := math.Min(req.Insurance80D, deduction80DCap)
	taxable := math.Max(gross-ded80C-ded80D-req.OtherDeductions, 0)

	var suggestions []string
	if req.Investments80C < deduction80CCap {
		suggestions = append(suggestions, fmt.Sprintf(
			"You can still claim up to INR %.0f under Section 80C.", deduction80CCap-req.Investments80C))
	}
	if req.Insurance80D < deduction80DCap {
		suggestions = append(suggestions, fmt.Sprintf(
			"You can still claim up to INR %.0f under Section 80D.", deduction80DCap-req.Insurance80D))
	}
	if req.OtherDeductions <= 0 {
		suggestions = append(suggestions, "Review HRA/LTA and education-loan deductions if applicable.")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Current deductions are near practical limits for this simplified tax model.")
	}

	return TaxEstimateResponse{
		GrossIncome:   roundTo2(gross),
		TaxableIncome: roundTo2(taxable),
		EstimatedTax:  roundTo2(oldRegimeTax(taxable)),
		DeductionsApplied: map[string]float64{
			"80C":              roundTo2(ded80C),
			"80D":              roundTo2(ded80D),
			"other_deductions": roundTo2(req.OtherDeductions),
		},
		Suggestions: suggestions,
	}
}

// ExtractTaxEntities pulls PAN numbers, rupee amounts and deduction-section
// mentions from free text, such as a pasted Form 16 fragment.
func ExtractTaxEntities(text string) TextExtractionResponse {
	seenPan := make(map[string]bool)
	var pans []string
	for _, pan := range panRe.FindAllString(strings.ToUpper(text), -1) {
		if !seenPan[pan] {
			seenPan[pan] = true
			pans = append(pans, pan)
		}
	}

	var amounts []float64
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			amounts = append(amounts, v)
		}
	}

	seenSection := make(map[string]bool)
	var sections []string
	for _, s := range sectionsRe.FindAllString(text, -1) {
		s = strings.ToUpper(s)
		if !seenSection[s] {
			seenSection[s] = true
			sections = append(sections, s)
		}
	}
	sort.Strings(sections)

	var likelyIncome []float64
	for _, a := range amounts {
		if a > 10000 {
			likelyIncome = append(likelyIncome, a)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(likelyIncome)))
	if len(likelyIncome) > 3 {
		likelyIncome = likelyIncome[:3]
	}
	if len(amounts) > 15 {
		amounts = amounts[:15]
	}

	return TextExtractionResponse{
		PanNumbers:          pans,
		Amounts:             amounts,
		LikelyIncomeAmounts: likelyIncome,
		DetectedSections:    sections,
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
