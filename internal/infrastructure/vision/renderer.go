//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
)

// GoCVRenderer рисует маркеры сравнений поверх снимка детали
type GoCVRenderer struct {
	MarkerRadius int
	Thickness    int
	FontScale    float64
	Quality      int
}

// NewGoCVRenderer создаёт рендерер с параметрами по умолчанию.
func NewGoCVRenderer() *GoCVRenderer {
	return &GoCVRenderer{
		MarkerRadius: 12,
		Thickness:    2,
		FontScale:    0.5,
		Quality:      90,
	}
}

// Render декодирует изображение, рисует маркеры и возвращает JPEG.
func (r *GoCVRenderer) Render(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	if result == nil {
		return nil, errors.New("inspection result is nil")
	}
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, c := range result.Comparisons {
		m, ok := markerFor(c)
		if !ok {
			continue
		}
		r.draw(&mat, m)
	}

	text, col := headline(result)
	gocv.PutText(&mat, text, image.Pt(10, 30), gocv.FontHersheySimplex, r.FontScale*2, col, r.Thickness)

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *GoCVRenderer) draw(mat *gocv.Mat, m marker) {
	rad := r.MarkerRadius
	switch m.Shape {
	case shapeCircle:
		gocv.Circle(mat, m.Center, rad, m.Color, r.Thickness)
	case shapeCross:
		gocv.Line(mat, m.Center.Add(image.Pt(-rad, -rad)), m.Center.Add(image.Pt(rad, rad)), m.Color, r.Thickness)
		gocv.Line(mat, m.Center.Add(image.Pt(-rad, rad)), m.Center.Add(image.Pt(rad, -rad)), m.Color, r.Thickness)
	case shapeBox:
		gocv.Rectangle(mat, image.Rect(m.Center.X-rad, m.Center.Y-rad, m.Center.X+rad, m.Center.Y+rad), m.Color, r.Thickness)
	}
	if m.Target != nil {
		gocv.Line(mat, m.Center, *m.Target, m.Color, 1)
	}
	if m.Label != "" {
		gocv.PutText(mat, m.Label, m.Center.Add(image.Pt(rad+2, -rad)), gocv.FontHersheySimplex, r.FontScale, m.Color, 1)
	}
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

var _ port.ResultRenderer = (*GoCVRenderer)(nil)
