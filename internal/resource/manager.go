package resource

import (
	"fmt"
	"net"
	"sync"
	"time"

	"FinAwareSaas/internal/config"
	"FinAwareSaas/internal/logger"
	"FinAwareSaas/internal/serviceiface"
)

// ResourceManager probes the local service ports on a heartbeat and audits
// any state change, so a wedged service shows up in the logs quickly.
type ResourceManager struct {
	targets           map[string]string
	lastState         map[string]bool
	mu                sync.RWMutex
	stopChan          chan struct{}
	heartbeatInterval time.Duration
	dialTimeout       time.Duration
}

func NewResourceManagerService(cfg map[string]interface{}) serviceiface.Service {
	interval := 5 * time.Second
	if val, ok := cfg["heartbeat_interval"]; ok {
		switch v := val.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				interval = d
			}
		case float64:
			interval = time.Duration(v) * time.Second
		case int:
			interval = time.Duration(v) * time.Second
		}
	}
	return &ResourceManager{
		targets: map[string]string{
			"risk":     fmt.Sprintf("localhost:%d", config.RiskServicePort),
			"advisory": fmt.Sprintf("localhost:%d", config.AdvisoryServicePort),
			"ledger":   fmt.Sprintf("localhost:%d", config.LedgerServicePort),
			"gateway":  fmt.Sprintf("localhost:%d", config.GatewayPort),
		},
		lastState:         make(map[string]bool),
		stopChan:          make(chan struct{}),
		heartbeatInterval: interval,
		dialTimeout:       2 * time.Second,
	}
}

func (rm *ResourceManager) Name() string { return "resourcemanager" }

func (rm *ResourceManager) Start() error {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("ResourceManager started")
	}
	go rm.heartbeatLoop()
	return nil
}

func (rm *ResourceManager) Stop() error {
	close(rm.stopChan)
	return nil
}

func (rm *ResourceManager) heartbeatLoop() {
	ticker := time.NewTicker(rm.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stopChan:
			return
		case <-ticker.C:
			rm.probeAll()
		}
	}
}

func (rm *ResourceManager) probeAll() {
	for name, addr := range rm.Targets() {
		up := rm.probe(addr)
		rm.mu.Lock()
		previous, seen := rm.lastState[name]
		rm.lastState[name] = up
		rm.mu.Unlock()

		if seen && previous == up {
			continue
		}
		state := "up"
		if !up {
			state = "down"
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("heartbeat: %s (%s) is %s", name, addr, state))
		}
	}
}

func (rm *ResourceManager) probe(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, rm.dialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Targets returns a copy of the probe table.
func (rm *ResourceManager) Targets() map[string]string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	targets := make(map[string]string, len(rm.targets))
	for k, v := range rm.targets {
		targets[k] = v
	}
	return targets
}

// AddTarget registers an extra address to watch.
func (rm *ResourceManager) AddTarget(name, addr string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.targets[name] = addr
}

// Status reports the most recent probe result per service.
func (rm *ResourceManager) Status() map[string]bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	status := make(map[string]bool, len(rm.lastState))
	for k, v := range rm.lastState {
		status[k] = v
	}
	return status
}
