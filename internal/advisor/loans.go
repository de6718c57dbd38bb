package advisor

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"FinAwareSaas/internal/config"
)

type RecommendationRequest struct {
	RequestedAmount     float64 `json:"requested_amount"`
	RiskCategory        string  `json:"risk_category"`
	ApprovalProbability float64 `json:"approval_probability"`
	Occupation          string  `json:"occupation,omitempty"`
	Purpose             string  `json:"purpose,omitempty"`
}

type RecommendationItem struct {
	LenderName                  string  `json:"lender_name"`
	LoanScore                   float64 `json:"loan_score"`
	EstimatedEMI                float64 `json:"estimated_emi"`
	AnnualInterestRate          float64 `json:"annual_interest_rate"`
	AnnualTaxSavings            float64 `json:"annual_tax_savings"`
	AdjustedApprovalProbability float64 `json:"adjusted_approval_probability"`
}

type RecommendationResponse struct {
	BestOption    RecommendationItem   `json:"best_option"`
	RankedOptions []RecommendationItem `json:"ranked_options"`
}

// CatalogRow is one product in the loan dataset.
type CatalogRow struct {
	LoanCategory       string
	LoanType           string
	SubType            string
	TargetSegment      string
	TypicalTenureYears string
	Secured            string
	LenderType         string
	TypicalLenders     string
	Notes              string
}

// Catalog holds the loan product dataset, reloadable without restart.
type Catalog struct {
	mu   sync.RWMutex
	rows []CatalogRow
	path string
}

func (r RecommendationRequest) Validate() error {
	switch {
	case r.RequestedAmount <= 0:
		return errors.New("requested_amount must be positive")
	case r.ApprovalProbability < 0 || r.ApprovalProbability > 100:
		return errors.New("approval_probability must be between 0 and 100")
	}
	switch r.RiskCategory {
	case "Low", "Medium", "High":
	default:
		return errors.New("risk_category must be Low, Medium or High")
	}
	return nil
}

func datasetCandidates() []string {
	var candidates []string
	if env := strings.TrimSpace(os.Getenv(config.LoanDatasetEnv)); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates,
		config.LoanDatasetDefault,
		"india_loans_dataset.csv",
	)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "Downloads", "india_loans_dataset.csv"))
	}
	return candidates
}

// NewCatalog loads the dataset from the first candidate path that yields
// rows. On error the catalog is returned empty so a later Refresh can still
// pick the dataset up.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{}
	if err := c.Refresh(); err != nil {
		return c, err
	}
	return c, nil
}

// Refresh re-reads the dataset from disk, keeping the previous rows on error.
func (c *Catalog) Refresh() error {
	for _, path := range datasetCandidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		rows, err := parseCatalog(data)
		if err != nil || len(rows) == 0 {
			continue
		}
		c.mu.Lock()
		c.rows = rows
		c.path = path
		c.mu.Unlock()
		return nil
	}
	return fmt.Errorf(
		"loan dataset not found; set %s or place the csv in one of: %s",
		config.LoanDatasetEnv, strings.Join(datasetCandidates(), ", "))
}

// Path reports where the active dataset was loaded from.
func (c *Catalog) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Size reports the number of loaded products.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

func parseCatalog(data []byte) ([]CatalogRow, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("catalog csv needs a header row and data rows")
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]CatalogRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := CatalogRow{
			LoanCategory:       field(record, "loan_category"),
			LoanType:           field(record, "loan_type"),
			SubType:            field(record, "sub_type"),
			TargetSegment:      field(record, "target_segment"),
			TypicalTenureYears: field(record, "typical_tenure_years"),
			Secured:            field(record, "secured"),
			LenderType:         field(record, "lender_type"),
			TypicalLenders:     field(record, "typical_lenders"),
			Notes:              field(record, "notes"),
		}
		if row != (CatalogRow{}) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

var tenureNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseTenureMonths reads "1-5" style year ranges from the dataset.
func parseTenureMonths(tenureYears string) (int, int) {
	matches := tenureNumberRe.FindAllString(tenureYears, -1)
	if len(matches) == 0 {
		return 12, 60
	}
	minYears := math.Inf(1)
	maxYears := math.Inf(-1)
	for _, m := range matches {
		var v float64
		fmt.Sscanf(m, "%f", &v)
		minYears = math.Min(minYears, v)
		maxYears = math.Max(maxYears, v)
	}
	minMonths := int(math.Round(minYears * 12))
	if minMonths < 1 {
		minMonths = 1
	}
	maxMonths := int(math.Round(maxYears * 12))
	if maxMonths < minMonths {
		maxMonths = minMonths
	}
	return minMonths, maxMonths
}

func securedLabel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(text, "yes/no"):
		return "mixed"
	case strings.HasPrefix(text, "yes"):
		return "yes"
	}
	return "no"
}

var categoryBaseRates = map[string]float64{
	"retail":            11.8,
	"business":          12.8,
	"agriculture":       8.4,
	"priority sector":   8.8,
	"government scheme": 9.2,
	"digital lending":   18.5,
	"rural":             11.2,
	"housing":           9.0,
}

func estimateInterestRate(row CatalogRow, riskCategory string) float64 {
	category := strings.ToLower(row.LoanCategory)
	loanType := strings.ToLower(row.LoanType)
	lenderType := strings.ToLower(row.LenderType)
	secured := securedLabel(row.Secured)

	rate, ok := categoryBaseRates[category]
	if !ok {
		rate = 12.5
	}

	switch {
	case strings.Contains(loanType, "home loan") || strings.Contains(loanType, "affordable housing"):
		rate = 8.7
	case strings.Contains(loanType, "education loan"):
		rate = 10.2
	case strings.Contains(loanType, "gold loan"):
		rate = 10.8
	case strings.Contains(loanType, "loan against property"):
		rate = 10.5
	case strings.Contains(loanType, "personal loan"):
		rate = 14.4
	case strings.Contains(loanType, "bnpl"):
		rate = 21.0
	case strings.Contains(loanType, "merchant cash advance"):
		rate = 22.0
	}

	switch secured {
	case "yes":
		rate -= 1.0
	case "no":
		rate += 0.8
	}
	if strings.Contains(lenderType, "fintech") {
		rate += 1.0
	}
	if strings.Contains(lenderType, "nbfc") {
		rate += 0.5
	}
	if strings.Contains(lenderType, "coop") {
		rate -= 0.3
	}

	switch riskCategory {
	case "Low":
		rate -= 0.7
	case "High":
		rate += 1.5
	}
	return roundTo2(clampF(rate, 6.5, 28.0))
}

func benefitScore(row CatalogRow) float64 {
	category := strings.ToLower(row.LoanCategory)
	loanType := strings.ToLower(row.LoanType)
	switch {
	case category == "government scheme":
		return 75
	case category == "priority sector":
		return 62
	case category == "agriculture":
		return 58
	case strings.Contains(loanType, "home loan") || category == "housing":
		return 52
	case strings.Contains(loanType, "education loan"):
		return 44
	case category == "business":
		return 26
	case category == "digital lending":
		return 8
	}
	return 18
}

// amountRange infers the sanctionable band from the product description text.
var amountRanges = []struct {
	keyword string
	min     float64
	max     float64
}{
	{"shishu", 10000, 50000},
	{"kishore", 50000, 500000},
	{"tarun", 500000, 1000000},
	{"bnpl", 1000, 50000},
	{"consumer durable", 5000, 200000},
	{"instant personal", 5000, 250000},
	{"two wheeler", 30000, 300000},
	{"crop loan", 10000, 500000},
	{"kisan credit card", 10000, 500000},
	{"gold loan", 10000, 3000000},
	{"home loan", 500000, 15000000},
	{"affordable housing", 500000, 15000000},
	{"loan against property", 500000, 25000000},
	{"reverse mortgage", 500000, 10000000},
	{"startup loan", 200000, 20000000},
	{"invoice financing", 50000, 10000000},
	{"trade finance", 50000, 10000000},
	{"msme", 100000, 10000000},
	{"equipment finance", 100000, 10000000},
	{"merchant cash advance", 20000, 1000000},
	{"self help group", 10000, 500000},
	{"joint liability group", 10000, 500000},
	{"personal loan", 20000, 2000000},
}

func amountRange(row CatalogRow) (float64, float64) {
	text := strings.ToLower(strings.Join([]string{
		row.LoanCategory, row.LoanType, row.SubType, row.TargetSegment, row.Notes,
	}, " "))

	// Education loans differ by destination, checked before the generic table.
	if strings.Contains(text, "education loan") {
		if strings.Contains(text, "abroad") {
			return 300000, 5000000
		}
		return 100000, 1500000
	}
	if strings.Contains(text, "vehicle loan") && strings.Contains(text, "car") {
		return 150000, 2500000
	}
	for _, r := range amountRanges {
		if strings.Contains(text, r.keyword) {
			return r.min, r.max
		}
	}
	return 50000, 3000000
}

func amountFitScore(requested, min, max float64) float64 {
	if requested >= min && requested <= max {
		return 100
	}
	var gap float64
	if requested < min {
		gap = (min - requested) / math.Max(min, 1)
	} else {
		gap = (requested - max) / math.Max(max, 1)
	}
	return clampF(100-gap*160, 0, 100)
}

func applicantSegments(req RecommendationRequest) map[string]bool {
	text := strings.ToLower(req.Occupation + " " + req.Purpose)
	segments := map[string]bool{"individual": true}

	containsAny := func(tokens ...string) bool {
		for _, t := range tokens {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}
	if containsAny("salaried", "salary", "employee") {
		segments["salaried"] = true
	}
	if containsAny("student", "study", "education", "college") {
		segments["students"] = true
	}
	if containsAny("farmer", "agri", "crop", "agriculture") {
		segments["farmers"] = true
	}
	if containsAny("business", "shop", "vendor", "merchant", "self employed",
		"self-employed", "sme", "msme", "startup", "entrepreneur", "trade") {
		segments["business"] = true
	}
	if containsAny("woman", "women", "female") {
		segments["women"] = true
	}
	return segments
}

func segmentFitScore(targetSegment string, segments map[string]bool) float64 {
	target := strings.ToLower(strings.TrimSpace(targetSegment))
	if target == "" {
		return 65
	}
	containsAny := func(aliases ...string) bool {
		for _, a := range aliases {
			if strings.Contains(target, a) {
				return true
			}
		}
		return false
	}
	switch {
	case containsAny("individual", "consumer", "existing borrower"):
		if segments["individual"] {
			return 92
		}
		return 70
	case strings.Contains(target, "salaried"):
		if segments["salaried"] {
			return 95
		}
		return 62
	case strings.Contains(target, "student"):
		if segments["students"] {
			return 98
		}
		return 28
	case strings.Contains(target, "farmer"):
		if segments["farmers"] {
			return 98
		}
		return 28
	case containsAny("business", "sme", "msme", "micro business", "small merchant", "entrepreneur"):
		if segments["business"] {
			return 95
		}
		return 48
	case strings.Contains(target, "women"):
		if segments["women"] {
			return 90
		}
		return 44
	case strings.Contains(target, "senior"):
		return 35
	}
	return 65
}

// riskProductMultiplier scales approval odds by how forgiving the product is
// for the applicant's risk band.
func riskProductMultiplier(row CatalogRow, riskCategory string) float64 {
	category := strings.ToLower(row.LoanCategory)
	lenderType := strings.ToLower(row.LenderType)
	secured := securedLabel(row.Secured)

	schemeOrPriority := category == "government scheme" || category == "priority sector" ||
		category == "agriculture" || category == "rural"
	digital := category == "digital lending" || strings.Contains(lenderType, "fintech")

	multiplier := 1.0
	switch riskCategory {
	case "High":
		multiplier -= 0.12
		if secured == "yes" {
			multiplier += 0.20
		}
		if schemeOrPriority {
			multiplier += 0.12
		}
		if digital && secured == "no" {
			multiplier -= 0.18
		}
	case "Medium":
		if secured == "yes" {
			multiplier += 0.08
		}
		if schemeOrPriority {
			multiplier += 0.06
		}
		if digital && secured == "no" {
			multiplier -= 0.08
		}
	default:
		if secured == "yes" {
			multiplier += 0.03
		}
		if digital && secured == "no" {
			multiplier -= 0.03
		}
	}
	return clampF(multiplier, 0.55, 1.30)
}

func recommendedTenure(minMonths, maxMonths int, riskCategory string) int {
	if maxMonths <= minMonths {
		return minMonths
	}
	var tenure int
	switch riskCategory {
	case "Low":
		tenure = int(math.Round(0.25*float64(minMonths) + 0.75*float64(maxMonths)))
	case "Medium":
		tenure = int(math.Round(float64(minMonths+maxMonths) / 2))
	default:
		tenure = int(math.Round(0.65*float64(minMonths) + 0.35*float64(maxMonths)))
	}
	if tenure < minMonths {
		tenure = minMonths
	}
	if tenure > maxMonths {
		tenure = maxMonths
	}
	return tenure
}

func annuityEMI(principal, annualRate float64, tenureMonths int) float64 {
	monthlyRate := annualRate / 12 / 100
	if monthlyRate == 0 {
		return principal / float64(tenureMonths)
	}
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * factor / (factor - 1)
}

// Recommend scores every catalog product for the applicant and returns the
// ranked top ten.
func (c *Catalog) Recommend(req RecommendationRequest) (RecommendationResponse, error) {
	if err := req.Validate(); err != nil {
		return RecommendationResponse{}, err
	}

	c.mu.RLock()
	rows := c.rows
	c.mu.RUnlock()
	if len(rows) == 0 {
		return RecommendationResponse{}, errors.New("loan catalog is empty")
	}

	segments := applicantSegments(req)
	type scoredRow struct {
		row     CatalogRow
		rate    float64
		tenure  int
		fit     float64
		benefit float64
		segment float64
	}
	scored := make([]scoredRow, 0, len(rows))
	minRate := math.Inf(1)
	maxRate := math.Inf(-1)
	for _, row := range rows {
		rate := estimateInterestRate(row, req.RiskCategory)
		minTenure, maxTenure := parseTenureMonths(row.TypicalTenureYears)
		minAmount, maxAmount := amountRange(row)
		scored = append(scored, scoredRow{
			row:     row,
			rate:    rate,
			tenure:  recommendedTenure(minTenure, maxTenure, req.RiskCategory),
			fit:     amountFitScore(req.RequestedAmount, minAmount, maxAmount),
			benefit: benefitScore(row),
			segment: segmentFitScore(row.TargetSegment, segments),
		})
		minRate = math.Min(minRate, rate)
		maxRate = math.Max(maxRate, rate)
	}
	spread := math.Max(maxRate-minRate, 1e-6)

	ranked := make([]RecommendationItem, 0, len(scored))
	for _, s := range scored {
		lowInterestScore := (maxRate - s.rate) / spread * 100
		adjustedApproval := clampF(req.ApprovalProbability*riskProductMultiplier(s.row, req.RiskCategory), 1.0, 99.5)
		score := adjustedApproval*0.35 + lowInterestScore*0.25 + s.fit*0.2 + s.segment*0.15 + s.benefit*0.05
		tenure := s.tenure
		if tenure < 1 {
			tenure = 1
		}
		ranked = append(ranked, RecommendationItem{
			LenderName:                  fmt.Sprintf("%s - %s (%s)", s.row.LoanType, s.row.SubType, s.row.TypicalLenders),
			LoanScore:                   roundTo2(score),
			EstimatedEMI:                roundTo2(annuityEMI(req.RequestedAmount, s.rate, tenure)),
			AnnualInterestRate:          s.rate,
			AnnualTaxSavings:            roundTo2(req.RequestedAmount * (s.benefit / 100) * 0.08),
			AdjustedApprovalProbability: roundTo2(adjustedApproval),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LoanScore > ranked[j].LoanScore
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return RecommendationResponse{BestOption: ranked[0], RankedOptions: ranked}, nil
}

func clampF(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}
