package matching

import (
	"fmt"
	"math"
	"sort"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/template"
)

// AffineTransform перенос и поворот из кадра шаблона в кадр детекции.
// Angle в градусах, поворот вокруг начала координат перед переносом.
type AffineTransform struct {
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
	Angle float64 `json:"angle"`
}

// String для логов
func (t AffineTransform) String() string {
	return fmt.Sprintf("tx=%.2f ty=%.2f angle=%.2f", t.TX, t.TY, t.Angle)
}

// Forward шаблон -> детекция
func (t AffineTransform) Forward(p entity.Point) entity.Point {
	return rotate(p, t.Angle).Add(entity.Pt(t.TX, t.TY))
}

// Inverse детекция -> шаблон
func (t AffineTransform) Inverse(p entity.Point) entity.Point {
	return rotate(p.Sub(entity.Pt(t.TX, t.TY)), -t.Angle)
}

func rotate(p entity.Point, degrees float64) entity.Point {
	if degrees == 0 {
		return p
	}
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return entity.Point{X: cos*p.X - sin*p.Y, Y: sin*p.X + cos*p.Y}
}

// EstimateTransform оценивает перенос по центроидам классов. Смещение каждого класса
// взвешивается числом его детекций. Поворот не оценивается, Angle всегда 0.
// ok=false, если ни один класс не встречается и в шаблоне, и в детекциях.
func EstimateTransform(features []template.Feature, detections []entity.DetectedObject) (AffineTransform, bool) {
	templateByClass := make(map[int][]entity.Point)
	for _, f := range features {
		templateByClass[f.ClassID] = append(templateByClass[f.ClassID], f.Position)
	}
	detectedByClass := make(map[int][]entity.Point)
	for _, d := range detections {
		detectedByClass[d.ClassID] = append(detectedByClass[d.ClassID], d.Center)
	}

	classes := make([]int, 0, len(templateByClass))
	for class := range templateByClass {
		if len(detectedByClass[class]) > 0 {
			classes = append(classes, class)
		}
	}
	sort.Ints(classes)

	var sum entity.Point
	var weight float64
	for _, class := range classes {
		offset := entity.Centroid(detectedByClass[class]).Sub(entity.Centroid(templateByClass[class]))
		w := float64(len(detectedByClass[class]))
		sum = sum.Add(offset.Scale(w))
		weight += w
	}
	if weight == 0 {
		return AffineTransform{}, false
	}

	mean := sum.Scale(1 / weight)
	return AffineTransform{TX: mean.X, TY: mean.Y}, true
}
