package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
)

// MemoryInspectionRepository in-memory журнал инспекций
type MemoryInspectionRepository struct {
	mu      sync.RWMutex
	records []*entity.InspectionRecord
	byID    map[string]*entity.InspectionRecord
}

func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{
		byID: make(map[string]*entity.InspectionRecord),
	}
}

func (r *MemoryInspectionRepository) Save(ctx context.Context, record *entity.InspectionRecord) error {
	if record == nil || record.ID == "" {
		return errInvalidRecord
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[record.ID]; exists {
		return fmt.Errorf("inspection record %s already exists", record.ID)
	}
	r.records = append(r.records, record)
	r.byID[record.ID] = record
	return nil
}

func (r *MemoryInspectionRepository) Get(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrRecordNotFound, id)
	}
	return record, nil
}

func (r *MemoryInspectionRepository) ListByTemplate(ctx context.Context, templateID string, limit int) ([]*entity.InspectionRecord, error) {
	r.mu.RLock()
	out := make([]*entity.InspectionRecord, 0)
	// Обходим с конца, чтобы при равном времени новые записи шли первыми
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].TemplateID == templateID {
			out = append(out, r.records[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
