package port

import (
	"context"

	"feature-inspector/internal/domain/entity"
)

// InspectionRepository журнал выполненных инспекций
type InspectionRepository interface {
	Save(ctx context.Context, record *entity.InspectionRecord) error

	// Get возвращает запись по ID или entity.ErrRecordNotFound
	Get(ctx context.Context, id string) (*entity.InspectionRecord, error)

	// ListByTemplate возвращает последние записи шаблона, новые первыми. limit <= 0 без ограничения.
	ListByTemplate(ctx context.Context, templateID string, limit int) ([]*entity.InspectionRecord, error)
}
