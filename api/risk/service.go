package risk

import (
	"log"

	"FinAwareSaas/internal/config"
	"FinAwareSaas/internal/riskmodel"
	"FinAwareSaas/internal/serviceiface"
)

type RiskService struct {
	config  map[string]interface{}
	manager *riskmodel.Manager
}

func NewRiskService(cfg map[string]interface{}) serviceiface.Service {
	artifactDir := config.DefaultArtifactDir
	if v, ok := cfg["artifact_dir"].(string); ok && v != "" {
		artifactDir = v
	}
	manager, err := riskmodel.NewManager(artifactDir)
	if err != nil {
		log.Printf("Risk Service: model manager init failed: %v", err)
	}
	return &RiskService{config: cfg, manager: manager}
}

func (s *RiskService) Name() string {
	return "risk"
}

func (s *RiskService) Start() error {
	go StartRiskService(s.manager)
	return nil
}

func (s *RiskService) Stop() error {
	return nil
}
