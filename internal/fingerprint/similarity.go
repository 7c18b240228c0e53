package fingerprint

import (
	"math"

	"feature-inspector/internal/domain/entity"
)

// Weights веса компонент отпечатка при сравнении
type Weights struct {
	Distance    float64 `json:"distance"`
	Angle       float64 `json:"angle"`
	Barycentric float64 `json:"barycentric"`
}

// DefaultWeights базовые веса 1.0 / 0.5 / 2.0
func DefaultWeights() Weights {
	return Weights{Distance: 1.0, Angle: 0.5, Barycentric: 2.0}
}

// Similarity взвешенное расстояние между отпечатками. Меньше значит ближе, 0 - совпадение.
func (w Weights) Similarity(a, b entity.FeatureFingerprint) float64 {
	var dist, angle, bary float64
	for i := 0; i < 4; i++ {
		dist += math.Abs(a.DistanceRatios[i] - b.DistanceRatios[i])
		angle += angleDiff(a.RelativeAngles[i], b.RelativeAngles[i])
		bary += math.Abs(a.BarycentricCoords[i] - b.BarycentricCoords[i])
	}
	return w.Distance*dist + w.Angle*angle + w.Barycentric*bary
}

// Matches true, если Similarity строго меньше tolerance
func (w Weights) Matches(a, b entity.FeatureFingerprint, tolerance float64) bool {
	return w.Similarity(a, b) < tolerance
}

// Similarity сравнение с весами по умолчанию
func Similarity(a, b entity.FeatureFingerprint) float64 {
	return DefaultWeights().Similarity(a, b)
}

// Matches сравнение с весами по умолчанию
func Matches(a, b entity.FeatureFingerprint, tolerance float64) bool {
	return DefaultWeights().Matches(a, b, tolerance)
}

// angleDiff разница углов в диапазоне [0, π]
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	return math.Min(d, 2*math.Pi-d)
}
