package risk

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"FinAwareSaas/api"
	"FinAwareSaas/api/constants"
	"FinAwareSaas/internal/config"
	"FinAwareSaas/internal/riskmodel"
	"FinAwareSaas/internal/statement"
)

func StartRiskService(manager *riskmodel.Manager) {
	router := mux.NewRouter()
	router.Use(api.AuditMiddleware("risk"))

	router.HandleFunc("/risk/assess", assessHandler(manager)).Methods("POST")
	router.HandleFunc("/risk/training-schema", trainingSchemaHandler).Methods("GET")
	router.HandleFunc("/risk/train", trainHandler(manager)).Methods("POST")
	router.HandleFunc("/risk/bank-statement/analyze", analyzeStatementHandler).Methods("POST")
	router.HandleFunc("/risk/health", func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "ok",
			"model_trained": manager != nil && manager.Ready(),
		})
	}).Methods("GET")

	log.Printf("Risk Service started on :%d", config.RiskServicePort)
	err := http.ListenAndServe(fmt.Sprintf(":%d", config.RiskServicePort), router)
	if err != nil {
		log.Fatalf("Risk Service failed: %v", err)
	}
}

// assessHandler scores an applicant with the rule-based model and, when a
// trained classifier exists, attaches its default probability alongside.
func assessHandler(manager *riskmodel.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req riskmodel.AssessmentRequest
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}
		resp, err := riskmodel.Assess(req)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		payload := map[string]interface{}{"assessment": resp}
		if manager != nil && manager.Ready() {
			record := map[string]string{
				"monthly_income":   fmt.Sprintf("%f", req.MonthlyIncome),
				"existing_emis":    fmt.Sprintf("%f", req.ExistingEMIs),
				"monthly_expenses": fmt.Sprintf("%f", req.MonthlyExpenses),
				"savings_amount":   fmt.Sprintf("%f", req.CurrentSavings),
				"cibil_score":      fmt.Sprintf("%d", resp.CibilScoreUsed),
				"occupation":       req.Occupation,
			}
			if prob, err := manager.PredictDefaultProbability(record); err == nil {
				payload["model_default_probability"] = prob
			}
		}
		api.RespondWithJSON(w, http.StatusOK, payload)
	}
}

func trainingSchemaHandler(w http.ResponseWriter, r *http.Request) {
	api.RespondWithJSON(w, http.StatusOK, riskmodel.ExpectedSchema())
}

// trainHandler accepts a multipart CSV upload and retrains the classifier.
func trainHandler(manager *riskmodel.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrModelNotTrained)
			return
		}
		data, filename, ok := readUpload(w, r)
		if !ok {
			return
		}
		if !strings.EqualFold(filepath.Ext(filename), ".csv") {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrCSVOnly)
			return
		}

		report, err := manager.Train(data, r.FormValue("target_column"))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.RespondWithJSON(w, http.StatusOK, report)
	}
}

// analyzeStatementHandler runs the statement pipeline over an uploaded file.
func analyzeStatementHandler(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	summary, source, err := statement.Analyze(data, filename)
	if err != nil {
		if err == statement.ErrStatementTooLarge {
			api.RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
			return
		}
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"summary":       summary,
		"parsed_with":   source,
		"file_analyzed": filename,
	})
}

// readUpload pulls the "file" part from a multipart form.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(statement.MaxStatementBytes); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidForm)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, statement.MaxStatementBytes+1))
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidForm)
		return nil, "", false
	}
	if len(data) > statement.MaxStatementBytes {
		api.RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
		return nil, "", false
	}
	return data, header.Filename, true
}
