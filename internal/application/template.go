package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
	"feature-inspector/internal/template"
)

// TemplateService управляет шаблонами деталей. Собранные шаблоны неизменяемы,
// поэтому кешируются до следующего сохранения или удаления.
type TemplateService struct {
	repo  port.TemplateRepository
	log   *slog.Logger
	cache map[string]*template.FourCornerTemplate
	mu    sync.RWMutex
}

func NewTemplateService(repo port.TemplateRepository, log *slog.Logger) *TemplateService {
	return &TemplateService{
		repo:  repo,
		log:   log,
		cache: make(map[string]*template.FourCornerTemplate),
	}
}

// Import проверяет определение, вычисляет отпечатки и сохраняет шаблон
func (s *TemplateService) Import(ctx context.Context, def template.Definition) (*template.FourCornerTemplate, error) {
	tmpl, err := template.Build(def)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, tmpl); err != nil {
		return nil, err
	}
	s.log.Info("template imported", "template_id", tmpl.ID(), "features", tmpl.Len())
	return tmpl, nil
}

// ImportJSON то же, что Import, для JSON-описания
func (s *TemplateService) ImportJSON(ctx context.Context, data []byte) (*template.FourCornerTemplate, error) {
	def, err := template.ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidTemplate, err)
	}
	return s.Import(ctx, def)
}

// Get возвращает собранный шаблон
func (s *TemplateService) Get(ctx context.Context, templateID string) (*template.FourCornerTemplate, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[templateID]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	def, err := s.repo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	tmpl, err = template.Build(def)
	if err != nil {
		return nil, fmt.Errorf("stored template %s: %w", templateID, err)
	}

	s.mu.Lock()
	s.cache[templateID] = tmpl
	s.mu.Unlock()
	return tmpl, nil
}

func (s *TemplateService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Recorner переносит шаблон на новые углы: положения признаков остаются, отпечатки пересчитываются
func (s *TemplateService) Recorner(ctx context.Context, templateID string, corners []entity.Point) (*template.FourCornerTemplate, error) {
	current, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	tmpl, err := current.WithCorners(corners)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, tmpl); err != nil {
		return nil, err
	}
	s.log.Info("template re-cornered", "template_id", templateID)
	return tmpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, templateID string) error {
	if err := s.repo.Delete(ctx, templateID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, templateID)
	s.mu.Unlock()
	return nil
}

func (s *TemplateService) store(ctx context.Context, tmpl *template.FourCornerTemplate) error {
	if err := s.repo.Save(ctx, tmpl.Definition()); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[tmpl.ID()] = tmpl
	s.mu.Unlock()
	return nil
}
