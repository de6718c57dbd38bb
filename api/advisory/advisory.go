package advisory

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"FinAwareSaas/api"
	"FinAwareSaas/api/constants"
	"FinAwareSaas/internal/advisor"
	"FinAwareSaas/internal/config"
)

func StartAdvisoryService(catalog *advisor.Catalog) {
	router := mux.NewRouter()
	router.Use(api.AuditMiddleware("advisory"))

	router.HandleFunc("/advisory/loans/recommend", recommendLoansHandler(catalog)).Methods("POST")
	router.HandleFunc("/advisory/loans/catalog", catalogInfoHandler(catalog)).Methods("GET")
	router.HandleFunc("/advisory/tax/estimate", estimateTaxHandler).Methods("POST")
	router.HandleFunc("/advisory/tax/extract", extractTaxHandler).Methods("POST")
	router.HandleFunc("/advisory/insurance/advise", insuranceHandler).Methods("POST")
	router.HandleFunc("/advisory/inclusion/support", inclusionHandler).Methods("POST")
	router.HandleFunc("/advisory/planning/goal-plan", goalPlanHandler).Methods("POST")
	router.HandleFunc("/advisory/budget/forecast", budgetForecastHandler).Methods("POST")
	router.HandleFunc("/advisory/budget/categorize", categorizeHandler).Methods("POST")
	router.HandleFunc("/advisory/assist/intent", intentHandler).Methods("POST")
	router.HandleFunc("/advisory/health", func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "ok",
			"catalog_loaded": catalog != nil && catalog.Size() > 0,
		})
	}).Methods("GET")

	log.Printf("Advisory Service started on :%d", config.AdvisoryServicePort)
	err := http.ListenAndServe(fmt.Sprintf(":%d", config.AdvisoryServicePort), router)
	if err != nil {
		log.Fatalf("Advisory Service failed: %v", err)
	}
}

func recommendLoansHandler(catalog *advisor.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrCatalogUnavailable)
			return
		}
		var req advisor.RecommendationRequest
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}
		resp, err := catalog.Recommend(req)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.RespondWithJSON(w, http.StatusOK, resp)
	}
}

func catalogInfoHandler(catalog *advisor.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrCatalogUnavailable)
			return
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"path":     catalog.Path(),
			"products": catalog.Size(),
		})
	}
}

func estimateTaxHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.TaxEstimateRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	api.RespondWithJSON(w, http.StatusOK, advisor.EstimateTax(req))
}

func extractTaxHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	if len(req.Text) < 2 {
		api.RespondWithError(w, http.StatusBadRequest, "text must be at least 2 characters")
		return
	}
	api.RespondWithJSON(w, http.StatusOK, advisor.ExtractTaxEntities(req.Text))
}

func insuranceHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.InsuranceRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	resp, err := advisor.AdviseInsurance(req)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, resp)
}

func inclusionHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.InclusionRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	resp, err := advisor.AdviseInclusion(req)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, resp)
}

func goalPlanHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.GoalPlanRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	resp, err := advisor.PlanGoal(req)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, resp)
}

func budgetForecastHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.BudgetForecastRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	resp, err := advisor.ForecastBudget(req)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, resp)
}

func categorizeHandler(w http.ResponseWriter, r *http.Request) {
	var req advisor.ExpenseCategorizationRequest
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	resp, err := advisor.CategorizeExpenses(req)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.RespondWithJSON(w, http.StatusOK, resp)
}

func intentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !api.DecodeJSONBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		api.RespondWithError(w, http.StatusBadRequest, "text is required")
		return
	}
	api.RespondWithJSON(w, http.StatusOK, advisor.ClassifyIntent(req.Text))
}
