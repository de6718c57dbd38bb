package ledger

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"FinAwareSaas/api"
	"FinAwareSaas/api/constants"
	"FinAwareSaas/internal/config"
	ledgercore "FinAwareSaas/internal/ledger"
)

type entryView struct {
	EntryID     string  `json:"entry_id"`
	UserID      string  `json:"user_id"`
	EntryDate   string  `json:"entry_date"`
	EntryType   string  `json:"entry_type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func viewOf(e ledgercore.Entry) entryView {
	amount, _ := e.Amount.Round(2).Float64()
	return entryView{
		EntryID:     e.EntryID,
		UserID:      e.UserID,
		EntryDate:   e.EntryDate.Format(constants.DateFormat),
		EntryType:   e.EntryType,
		Amount:      amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func StartLedgerService(store *ledgercore.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatalf("Ledger Service schema init failed: %v", err)
	}
	cancel()

	router := mux.NewRouter()
	router.Use(api.AuditMiddleware("ledger"))

	router.HandleFunc("/ledger/entries", addEntryHandler(store)).Methods("POST")
	router.HandleFunc("/ledger/report/{user_id}", reportHandler(store)).Methods("GET")
	router.HandleFunc("/ledger/day-summary/{user_id}/{date}", daySummaryHandler(store)).Methods("GET")
	router.HandleFunc("/ledger/health", func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	log.Printf("Ledger Service started on :%d", config.LedgerServicePort)
	err := http.ListenAndServe(fmt.Sprintf(":%d", config.LedgerServicePort), router)
	if err != nil {
		log.Fatalf("Ledger Service failed: %v", err)
	}
}

// addEntryHandler records one cash movement and returns it with the updated
// summary of its day.
func addEntryHandler(store *ledgercore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledgercore.CreateEntry
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}
		entry, err := store.AddEntry(r.Context(), req)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		entries, err := store.EntriesForUser(r.Context(), entry.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"entry":       viewOf(entry),
			"day_summary": ledgercore.SummaryForDay(entry.UserID, entries, entry.EntryDate),
		})
	}
}

// reportHandler returns entries plus daily summaries, optionally windowed by
// from/to query dates. Balances always reflect the full history.
func reportHandler(store *ledgercore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["user_id"]
		from, ok := parseDateParam(w, r, "from")
		if !ok {
			return
		}
		to, ok := parseDateParam(w, r, "to")
		if !ok {
			return
		}

		entries, err := store.EntriesForUser(r.Context(), userID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}

		summaries := ledgercore.DailySummaries(userID, entries)
		current := 0.0
		if len(summaries) > 0 {
			current = summaries[len(summaries)-1].ClosingBalance
		}

		views := make([]entryView, 0, len(entries))
		for _, e := range entries {
			if from != nil && e.EntryDate.Before(*from) {
				continue
			}
			if to != nil && e.EntryDate.After(*to) {
				continue
			}
			views = append(views, viewOf(e))
		}

		filtered := ledgercore.FilterSummaries(summaries, from, to)
		if filtered == nil {
			filtered = []ledgercore.DaySummary{}
		}
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"user_id":         userID,
			"entries":         views,
			"daily_summaries": filtered,
			"current_balance": current,
		})
	}
}

func daySummaryHandler(store *ledgercore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		userID := vars["user_id"]
		day, err := time.Parse(constants.DateFormat, vars["date"])
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}

		entries, err := store.EntriesForUser(r.Context(), userID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithJSON(w, http.StatusOK, ledgercore.SummaryForDay(userID, entries, day))
	}
}

func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	day, err := time.Parse(constants.DateFormat, raw)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, name+" must be formatted as YYYY-MM-DD")
		return nil, false
	}
	return &day, true
}
