package memory

import (
	"sync"

	"github.com/omarshaarawi/puckbot/internal/models"
)

type Repository struct {
	snapshot  *models.Snapshot
	scenarios map[int64]models.SimulationScenario
	mu        sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{scenarios: make(map[int64]models.SimulationScenario)}
}

// SaveSnapshot replaces the cached standings. The slice must not be modified afterwards.
func (r *Repository) SaveSnapshot(snapshot *models.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot
}

func (r *Repository) GetSnapshot() *models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Repository) SaveScenario(chatID int64, scenario models.SimulationScenario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[chatID] = scenario
}

func (r *Repository) GetScenario(chatID int64) (models.SimulationScenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[chatID]
	return s, ok
}

func (r *Repository) DeleteScenario(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scenarios, chatID)
}
