package observability

import (
	"sync"
	"time"
)

// Phase identifies what the pipeline is currently doing.
type Phase string

const (
	PhaseIdle      Phase = "IDLE"
	PhasePlanning  Phase = "PLANNING"
	PhaseExecuting Phase = "EXECUTING"
)

type SystemStatus struct {
	mu           sync.RWMutex
	CurrentPhase Phase
	ActiveTask   string
	LastActivity time.Time
}

var globalStatus = &SystemStatus{
	CurrentPhase: PhaseIdle,
	LastActivity: time.Now(),
}

// SetStatus updates the global system status.
func SetStatus(phase Phase, task string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.CurrentPhase = phase
	globalStatus.ActiveTask = task
	globalStatus.LastActivity = time.Now()
}

// GetStatus retrieves a copy of the global system status.
func GetStatus() (Phase, string, time.Time) {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.CurrentPhase, globalStatus.ActiveTask, globalStatus.LastActivity
}
