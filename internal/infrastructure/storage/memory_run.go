package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

type memoryRunRepository struct {
	mu   sync.RWMutex
	runs map[string]entity.RunReport
}

// NewMemoryRunRepository xotiradagi run tarixi repository (db siz rejim uchun)
func NewMemoryRunRepository() repository.RunRepository {
	return &memoryRunRepository{
		runs: make(map[string]entity.RunReport),
	}
}

// SaveRun run natijasini saqlash
func (m *memoryRunRepository) SaveRun(ctx context.Context, report entity.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[report.ID] = report
	return nil
}

// GetRecent so'nggi run larni olish
func (m *memoryRunRepository) GetRecent(ctx context.Context, limit int) ([]entity.RunReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]entity.RunReport, 0, len(m.runs))
	for _, r := range m.runs {
		reports = append(reports, r)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})

	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}
