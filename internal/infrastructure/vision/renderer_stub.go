//go:build !gocv
// +build !gocv

package vision

import (
	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
)

type GoCVRenderer struct {
	MarkerRadius int
	Thickness    int
	FontScale    float64
	Quality      int
}

// NewGoCVRenderer создаёт рендерер-заглушку (без OpenCV).
func NewGoCVRenderer() *GoCVRenderer {
	return &GoCVRenderer{
		MarkerRadius: 12,
		Thickness:    2,
		FontScale:    0.5,
		Quality:      90,
	}
}

// Render возвращает ErrRendererUnavailable, если сборка без тега gocv.
func (r *GoCVRenderer) Render(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	_ = imageData
	_ = result
	return nil, ErrRendererUnavailable
}

var _ port.ResultRenderer = (*GoCVRenderer)(nil)
