package port

import (
	"context"

	"feature-inspector/internal/template"
)

// TemplateRepository интерфейс хранилища шаблонов деталей
type TemplateRepository interface {
	// Save сохраняет определение шаблона, перезаписывая существующее с тем же ID
	Save(ctx context.Context, def template.Definition) error

	// Get возвращает определение по ID или entity.ErrTemplateNotFound
	Get(ctx context.Context, templateID string) (template.Definition, error)

	// List возвращает ID всех шаблонов по возрастанию
	List(ctx context.Context) ([]string, error)

	// Delete удаляет шаблон, entity.ErrTemplateNotFound если его нет
	Delete(ctx context.Context, templateID string) error
}
