package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"FinAwareSaas/internal/advisor"
	"FinAwareSaas/internal/config"
	"FinAwareSaas/internal/logger"
)

type CronService struct {
	config  map[string]interface{}
	db      *pgxpool.Pool
	catalog *advisor.Catalog
	cron    *cron.Cron
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) *CronService {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

// SetCatalog wires the advisory catalog so the refresh job can reload it.
func (s *CronService) SetCatalog(catalog *advisor.Catalog) {
	s.catalog = catalog
}

func (s *CronService) stringConfig(key, def string) string {
	if s.config != nil {
		if v, ok := s.config[key].(string); ok && v != "" {
			return v
		}
	}
	return def
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	timezone := s.stringConfig("timezone", config.DefaultTimeZone)
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone for cron service: %v", err)
	}

	c := cron.New(cron.WithLocation(loc))

	summarySchedule := s.stringConfig("ledger_summary_schedule", config.DefaultLedgerSummarySchedule)
	_, err = c.AddFunc(summarySchedule, func() {
		audit(fmt.Sprintf("Running ledger day-summary materialization at %s", time.Now().In(loc)))
		if err := RetryWithBackoff(3, 2*time.Second, func() error {
			return RunLedgerSummaryJob(s.db)
		}); err != nil {
			audit(fmt.Sprintf("Ledger summary materialization failed: %v", err))
			return
		}
		audit("Ledger summary materialization completed at " + time.Now().In(loc).String())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule ledger summary job: %v", err)
	}

	refreshSchedule := s.stringConfig("catalog_refresh_schedule", config.DefaultCatalogRefreshSchedule)
	_, err = c.AddFunc(refreshSchedule, func() {
		if s.catalog == nil {
			audit("Catalog refresh skipped: no catalog wired")
			return
		}
		if err := s.catalog.Refresh(); err != nil {
			audit(fmt.Sprintf("Loan catalog refresh failed: %v", err))
			return
		}
		audit(fmt.Sprintf("Loan catalog refreshed from %s (%d products)", s.catalog.Path(), s.catalog.Size()))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh job: %v", err)
	}

	c.Start()
	s.cron = c
	audit("Cron service started with ledger summary and catalog refresh jobs")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

func audit(msg string) {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
		return
	}
	log.Println(msg)
}
