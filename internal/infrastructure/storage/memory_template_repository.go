package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
	"feature-inspector/internal/template"
)

// MemoryTemplateRepository in-memory хранилище шаблонов
type MemoryTemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]template.Definition
}

func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		templates: make(map[string]template.Definition),
	}
}

func (r *MemoryTemplateRepository) Save(ctx context.Context, def template.Definition) error {
	if def.TemplateID == "" {
		return fmt.Errorf("%w: template id is empty", entity.ErrInvalidTemplate)
	}

	r.mu.Lock()
	r.templates[def.TemplateID] = def.Clone()
	r.mu.Unlock()

	return nil
}

func (r *MemoryTemplateRepository) Get(ctx context.Context, templateID string) (template.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.templates[templateID]
	if !ok {
		return template.Definition{}, fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, templateID)
	}
	return def.Clone(), nil
}

func (r *MemoryTemplateRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryTemplateRepository) Delete(ctx context.Context, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[templateID]; !ok {
		return fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, templateID)
	}
	delete(r.templates, templateID)
	return nil
}

var _ port.TemplateRepository = (*MemoryTemplateRepository)(nil)
