package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"feature-inspector/internal/domain/entity"
)

type markerShape int

const (
	shapeCircle markerShape = iota
	shapeCross
	shapeBox
)

// marker то, что рисуется для одного сравнения
type marker struct {
	Shape  markerShape
	Center image.Point
	Color  color.RGBA
	// Target куда тянется линия отклонения, nil если линии нет
	Target *image.Point
	Label  string
}

var (
	colorPassed    = color.RGBA{G: 200, A: 255}
	colorDeviation = color.RGBA{R: 255, G: 165, A: 255}
	colorMissing   = color.RGBA{R: 255, A: 255}
	colorExtra     = color.RGBA{R: 255, B: 255, A: 255}
)

// markerFor выбирает фигуру и цвет по статусу. ok=false, если рисовать нечего.
func markerFor(c entity.FeatureComparison) (marker, bool) {
	switch c.Status {
	case entity.StatusPassed:
		if c.DetectedPosition == nil {
			return marker{}, false
		}
		return marker{Shape: shapeCircle, Center: toImagePoint(*c.DetectedPosition), Color: colorPassed, Label: c.FeatureID}, true

	case entity.StatusDeviationExceeded:
		if c.DetectedPosition == nil {
			return marker{}, false
		}
		m := marker{
			Shape:  shapeCircle,
			Center: toImagePoint(*c.DetectedPosition),
			Color:  colorDeviation,
			Label:  fmt.Sprintf("%s %.1fpx", c.FeatureID, c.TotalError),
		}
		if c.ExpectedPosition != nil {
			p := toImagePoint(*c.ExpectedPosition)
			m.Target = &p
		}
		return m, true

	case entity.StatusMissing:
		if c.ExpectedPosition == nil {
			return marker{}, false
		}
		return marker{Shape: shapeCross, Center: toImagePoint(*c.ExpectedPosition), Color: colorMissing, Label: c.FeatureID}, true

	case entity.StatusExtra:
		if c.DetectedPosition == nil {
			return marker{}, false
		}
		return marker{Shape: shapeBox, Center: toImagePoint(*c.DetectedPosition), Color: colorExtra, Label: c.ClassName}, true
	}
	return marker{}, false
}

// headline строка вердикта в углу изображения
func headline(result *entity.InspectionResult) (string, color.RGBA) {
	s := result.Summary
	if result.Passed {
		return fmt.Sprintf("PASS %d/%d", s.Passed, s.TotalFeatures), colorPassed
	}
	return fmt.Sprintf("FAIL dev=%d miss=%d extra=%d", s.Deviation, s.Missing, s.Extra), colorMissing
}

func toImagePoint(p entity.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
