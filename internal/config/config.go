package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Service ports behind the gateway.
	RiskServicePort     = 3143
	AdvisoryServicePort = 4143
	LedgerServicePort   = 6143
	GatewayPort         = 8081

	// Nightly jobs.
	DefaultLedgerSummarySchedule  = "30 1 * * *"
	DefaultCatalogRefreshSchedule = "0 2 * * *"

	// Model training artifacts.
	DefaultArtifactDir      = "artifacts"
	RiskModelFilename       = "risk_model.bayes"
	RiskModelMetaFilename   = "risk_model_meta.json"
	DefaultTargetColumn     = "defaulted"
	MinTrainingSamples      = 20
	TrainingHoldoutEveryNth = 5

	// Loan catalog dataset. LOAN_DATASET_PATH overrides the search list.
	LoanDatasetEnv     = "LOAN_DATASET_PATH"
	LoanDatasetDefault = "data/india_loans_dataset.csv"
)
