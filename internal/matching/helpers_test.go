package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/template"
)

func det(class int, x, y float64) entity.DetectedObject {
	return entity.DetectedObject{ClassID: class, Center: entity.Pt(x, y), Width: 10, Height: 10, Confidence: 0.9}
}

func squareCorners(side float64) []entity.Point {
	return []entity.Point{entity.Pt(0, 0), entity.Pt(side, 0), entity.Pt(side, side), entity.Pt(0, side)}
}

func feature(id string, class int, x, y, tol float64) template.FeatureDefinition {
	return template.FeatureDefinition{
		ID: id, Name: "Feature " + id, ClassID: class, ClassName: "class",
		Position: entity.Pt(x, y), Required: true, Tolerance: entity.Pt(tol, tol),
	}
}

func buildTemplate(t *testing.T, corners []entity.Point, features ...template.FeatureDefinition) *template.FourCornerTemplate {
	t.Helper()
	tmpl, err := template.Build(template.Definition{TemplateID: "tmpl", Corners: corners, Features: features})
	require.NoError(t, err)
	return tmpl
}

// scenarioTemplate квадрат 100x100 с одним признаком класса 0 в центре
func scenarioTemplate(t *testing.T) *template.FourCornerTemplate {
	return buildTemplate(t, squareCorners(100), feature("center", 0, 50, 50, 5))
}

func rotateTranslate(theta float64, shift entity.Point) func(entity.Point) entity.Point {
	cos, sin := math.Cos(theta), math.Sin(theta)
	return func(p entity.Point) entity.Point {
		return entity.Point{X: cos*p.X - sin*p.Y + shift.X, Y: sin*p.X + cos*p.Y + shift.Y}
	}
}

func mapPoints(points []entity.Point, f func(entity.Point) entity.Point) []entity.Point {
	out := make([]entity.Point, len(points))
	for i, p := range points {
		out[i] = f(p)
	}
	return out
}

func statuses(res *entity.InspectionResult) []entity.ComparisonStatus {
	out := make([]entity.ComparisonStatus, 0, len(res.Comparisons))
	for _, c := range res.Comparisons {
		out = append(out, c.Status)
	}
	return out
}
