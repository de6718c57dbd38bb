package ledger

import (
	"github.com/jackc/pgx/v5/pgxpool"

	ledgercore "FinAwareSaas/internal/ledger"
	"FinAwareSaas/internal/serviceiface"
)

type LedgerService struct {
	config map[string]interface{}
	store  *ledgercore.Store
}

func NewLedgerService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &LedgerService{config: cfg, store: ledgercore.NewStore(pool)}
}

func (s *LedgerService) Name() string {
	return "ledger"
}

// Store exposes the ledger store for the nightly summary job.
func (s *LedgerService) Store() *ledgercore.Store {
	return s.store
}

func (s *LedgerService) Start() error {
	go StartLedgerService(s.store)
	return nil
}

func (s *LedgerService) Stop() error {
	return nil
}
