package advisory

import (
	"log"

	"FinAwareSaas/internal/advisor"
	"FinAwareSaas/internal/serviceiface"
)

type AdvisoryService struct {
	config  map[string]interface{}
	catalog *advisor.Catalog
}

func NewAdvisoryService(cfg map[string]interface{}) serviceiface.Service {
	catalog, err := advisor.NewCatalog()
	if err != nil {
		// Loan recommendations stay unavailable until the dataset appears
		// and the refresh job picks it up.
		log.Printf("Advisory Service: loan catalog not loaded: %v", err)
	}
	return &AdvisoryService{config: cfg, catalog: catalog}
}

func (s *AdvisoryService) Name() string {
	return "advisory"
}

// Catalog exposes the loan catalog for the nightly refresh job.
func (s *AdvisoryService) Catalog() *advisor.Catalog {
	return s.catalog
}

func (s *AdvisoryService) Start() error {
	go StartAdvisoryService(s.catalog)
	return nil
}

func (s *AdvisoryService) Stop() error {
	return nil
}
