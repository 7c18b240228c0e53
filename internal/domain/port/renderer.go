package port

import "feature-inspector/internal/domain/entity"

// ResultRenderer рисует результат инспекции поверх исходного изображения
type ResultRenderer interface {
	Render(imageData []byte, result *entity.InspectionResult) ([]byte, error)
}
