package riskmodel

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jbrukh/bayesian"

	"FinAwareSaas/internal/config"
)

const (
	classDefault bayesian.Class = "default"
	classPaid    bayesian.Class = "paid"
)

// targetCandidates are tried in order when the caller does not name a target
// column, or names one that the dataset does not carry.
var targetCandidates = []string{"defaulted", "loan_default", "target", "label", "default"}

// SchemaColumn documents one accepted training column.
type SchemaColumn struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Kind    string   `json:"kind"`
}

// TrainingSchema is the contract a training CSV has to satisfy.
type TrainingSchema struct {
	Required      []SchemaColumn `json:"required"`
	Optional      []SchemaColumn `json:"optional"`
	TargetColumns []string       `json:"target_columns"`
	TargetMeaning string         `json:"target_meaning"`
	MinSamples    int            `json:"min_samples"`
}

// TrainingReport summarizes one training run.
type TrainingReport struct {
	TrainedAt    time.Time `json:"trained_at"`
	TargetColumn string    `json:"target_column"`
	TotalRecords int       `json:"total_records"`
	TrainRecords int       `json:"train_records"`
	TestRecords  int       `json:"test_records"`
	Accuracy     float64   `json:"accuracy"`
	Precision    float64   `json:"precision"`
	Recall       float64   `json:"recall"`
	F1           float64   `json:"f1"`
	ArtifactPath string    `json:"artifact_path"`
}

// Manager owns the trained classifier and its on-disk artifacts.
type Manager struct {
	mu          sync.RWMutex
	classifier  *bayesian.Classifier
	lastReport  *TrainingReport
	artifactDir string
}

// NewManager prepares the artifact directory and loads any previously trained
// model so the service survives restarts without retraining.
func NewManager(artifactDir string) (*Manager, error) {
	if artifactDir == "" {
		artifactDir = config.DefaultArtifactDir
	}
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	m := &Manager{artifactDir: artifactDir}

	modelPath := filepath.Join(artifactDir, config.RiskModelFilename)
	if _, err := os.Stat(modelPath); err == nil {
		classifier, err := bayesian.NewClassifierFromFile(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model artifact: %w", err)
		}
		m.classifier = classifier
		m.lastReport = readMeta(filepath.Join(artifactDir, config.RiskModelMetaFilename))
	}
	return m, nil
}

func readMeta(path string) *TrainingReport {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var report TrainingReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

// ExpectedSchema describes the training CSV contract for API consumers.
func ExpectedSchema() TrainingSchema {
	required := []string{
		"monthly_income", "existing_emis", "collateral_value",
		"cibil_score", "occupation", "location", "business_type",
	}
	optional := []string{
		"active_loans", "monthly_expenses", "avg_monthly_balance",
		"savings_amount", "upi_transaction_frequency",
		"utility_bill_regularity", "transaction_consistency_score",
		"income_volatility_index",
	}
	kindOf := func(name string) string {
		for _, c := range categoricalFeatures {
			if c == name {
				return "categorical"
			}
		}
		return "numeric"
	}
	schema := TrainingSchema{
		TargetColumns: append([]string(nil), targetCandidates...),
		TargetMeaning: "1 for default, 0 for non-default",
		MinSamples:    config.MinTrainingSamples,
	}
	for _, name := range required {
		schema.Required = append(schema.Required, SchemaColumn{
			Name:    name,
			Aliases: canonicalAliases[name],
			Kind:    kindOf(name),
		})
	}
	for _, name := range optional {
		schema.Optional = append(schema.Optional, SchemaColumn{
			Name:    name,
			Aliases: canonicalAliases[name],
			Kind:    kindOf(name),
		})
	}
	return schema
}

// Ready reports whether a trained model is loaded.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.classifier != nil
}

// LastReport returns the metrics of the most recent training run, if any.
func (m *Manager) LastReport() *TrainingReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastReport == nil {
		return nil
	}
	report := *m.lastReport
	return &report
}

// parseRecords reads the CSV into per-row column maps keyed by the raw,
// lowercased header names.
func parseRecords(csvData []byte) ([]string, []map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(csvData))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse training csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("training csv needs a header row and data rows")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			if i < len(row) {
				record[h] = strings.TrimSpace(row[i])
				if record[h] != "" {
					empty = false
				}
			}
		}
		if !empty {
			records = append(records, record)
		}
	}
	return headers, records, nil
}

// resolveTargetColumn finds the label column: exact match first, then a
// case-insensitive match, then the well-known candidate names.
func resolveTargetColumn(headers []string, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	has := func(name string) bool {
		for _, h := range headers {
			if h == name {
				return true
			}
		}
		return false
	}
	if requested != "" {
		if has(requested) {
			return requested, nil
		}
		lowered := strings.ToLower(requested)
		if has(lowered) {
			return lowered, nil
		}
	}
	for _, candidate := range targetCandidates {
		if has(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no target column found; expected one of %s", strings.Join(targetCandidates, ", "))
}

// binaryTarget maps a raw label cell to default (true) or paid (false).
func binaryTarget(raw string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "yes", "y", "true", "default", "defaulted", "1":
		return true, nil
	case "no", "n", "false", "paid", "0", "":
		if v == "" {
			return false, fmt.Errorf("empty target value")
		}
		return false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false, fmt.Errorf("unrecognized target value %q", raw)
	}
	return f > 0, nil
}

// Train fits a fresh classifier on the CSV, holding out every Nth record for
// evaluation, and persists the artifact plus its metrics on success.
func (m *Manager) Train(csvData []byte, targetColumn string) (TrainingReport, error) {
	headers, records, err := parseRecords(csvData)
	if err != nil {
		return TrainingReport{}, err
	}
	target, err := resolveTargetColumn(headers, targetColumn)
	if err != nil {
		return TrainingReport{}, err
	}

	type sample struct {
		tokens    []string
		defaulted bool
	}
	samples := make([]sample, 0, len(records))
	defaults, paid := 0, 0
	for _, record := range records {
		defaulted, err := binaryTarget(record[target])
		if err != nil {
			continue
		}
		features := make(map[string]string, len(record))
		for k, v := range record {
			if k != target {
				features[k] = v
			}
		}
		samples = append(samples, sample{
			tokens:    ResolveFeatures(features).Tokens(),
			defaulted: defaulted,
		})
		if defaulted {
			defaults++
		} else {
			paid++
		}
	}

	if len(samples) < config.MinTrainingSamples {
		return TrainingReport{}, fmt.Errorf(
			"need at least %d usable records, got %d", config.MinTrainingSamples, len(samples))
	}
	if defaults == 0 || paid == 0 {
		return TrainingReport{}, fmt.Errorf("training data must contain both default and non-default records")
	}

	classifier := bayesian.NewClassifier(classDefault, classPaid)
	var holdout []sample
	trained := 0
	for i, s := range samples {
		if (i+1)%config.TrainingHoldoutEveryNth == 0 {
			holdout = append(holdout, s)
			continue
		}
		class := classPaid
		if s.defaulted {
			class = classDefault
		}
		classifier.Learn(s.tokens, class)
		trained++
	}

	var tp, fp, tn, fn int
	for _, s := range holdout {
		_, idx, _ := classifier.LogScores(s.tokens)
		predictedDefault := idx == 0
		switch {
		case predictedDefault && s.defaulted:
			tp++
		case predictedDefault && !s.defaulted:
			fp++
		case !predictedDefault && !s.defaulted:
			tn++
		default:
			fn++
		}
	}

	report := TrainingReport{
		TrainedAt:    time.Now().UTC(),
		TargetColumn: target,
		TotalRecords: len(samples),
		TrainRecords: trained,
		TestRecords:  len(holdout),
	}
	if len(holdout) > 0 {
		report.Accuracy = round4f(float64(tp+tn) / float64(len(holdout)))
	}
	if tp+fp > 0 {
		report.Precision = round4f(float64(tp) / float64(tp+fp))
	}
	if tp+fn > 0 {
		report.Recall = round4f(float64(tp) / float64(tp+fn))
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = round4f(2 * report.Precision * report.Recall / (report.Precision + report.Recall))
	}

	modelPath := filepath.Join(m.artifactDir, config.RiskModelFilename)
	if err := classifier.WriteToFile(modelPath); err != nil {
		return TrainingReport{}, fmt.Errorf("persist model artifact: %w", err)
	}
	report.ArtifactPath = modelPath

	metaPath := filepath.Join(m.artifactDir, config.RiskModelMetaFilename)
	meta, err := json.MarshalIndent(report, "", "  ")
	if err == nil {
		err = os.WriteFile(metaPath, meta, 0o644)
	}
	if err != nil {
		return TrainingReport{}, fmt.Errorf("persist model metadata: %w", err)
	}

	m.mu.Lock()
	m.classifier = classifier
	m.lastReport = &report
	m.mu.Unlock()
	return report, nil
}

// PredictDefaultProbability scores one raw record with the trained model and
// returns the default-class probability as a percentage.
func (m *Manager) PredictDefaultProbability(record map[string]string) (float64, error) {
	m.mu.RLock()
	classifier := m.classifier
	m.mu.RUnlock()
	if classifier == nil {
		return 0, fmt.Errorf("no trained model available; train one first")
	}
	scores, _, _ := classifier.ProbScores(ResolveFeatures(record).Tokens())
	return round4f(scores[0] * 100), nil
}

func round4f(v float64) float64 {
	return math.Round(v*10000) / 10000
}
