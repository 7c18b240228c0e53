// Package fingerprint вычисляет аффинно-инвариантные отпечатки точек
// относительно четырёх углов детали и сравнивает их между собой.
package fingerprint

import (
	"fmt"
	"math"

	"feature-inspector/internal/domain/entity"
)

// Epsilon порог вырожденности для площадей и расстояний в пикселях.
const Epsilon = 1e-6

// Corners углы в фиксированном порядке: TL, TR, BR, BL.
type Corners [4]entity.Point

// CornersFromSlice проверяет количество углов и переводит срез в Corners
func CornersFromSlice(points []entity.Point) (Corners, error) {
	var c Corners
	if len(points) != 4 {
		return c, fmt.Errorf("%w: expected 4 corners, got %d", entity.ErrInvalidGeometry, len(points))
	}
	copy(c[:], points)
	return c, nil
}

// Slice возвращает углы как срез
func (c Corners) Slice() []entity.Point {
	out := make([]entity.Point, 4)
	copy(out, c[:])
	return out
}

// Area площадь четырёхугольника по формуле шнурования.
func (c Corners) Area() float64 {
	var s float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		s += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(s) / 2
}

// Equal true, если углы совпадают с точностью до Epsilon
func (c Corners) Equal(o Corners) bool {
	for i := range c {
		if c[i].Distance(o[i]) > Epsilon {
			return false
		}
	}
	return true
}

// IsValidQuadrilateral true, если площадь больше Epsilon и никакие два угла не совпадают.
func IsValidQuadrilateral(c Corners) bool {
	return validate(c) == nil
}

func validate(c Corners) error {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if c[i].Distance(c[j]) < Epsilon {
				return fmt.Errorf("%w: corners %d and %d coincide", entity.ErrInvalidGeometry, i, j)
			}
		}
	}
	if area := c.Area(); area < Epsilon {
		return fmt.Errorf("%w: quadrilateral area %.3g is too small", entity.ErrInvalidGeometry, area)
	}
	return nil
}

// Calculate строит отпечаток точки в системе координат четырёх углов.
// Точка, совпадающая с одним из углов, считается вырожденной.
func Calculate(point entity.Point, corners Corners, featureID string) (entity.FeatureFingerprint, error) {
	fp := entity.FeatureFingerprint{FeatureID: featureID}
	if err := validate(corners); err != nil {
		return fp, err
	}

	minDist := math.Inf(1)
	for i, c := range corners {
		d := point.Distance(c)
		fp.RawDistances[i] = d
		fp.RawAngles[i] = point.AngleTo(c)
		if d < minDist {
			minDist = d
		}
	}
	if minDist < Epsilon {
		return fp, fmt.Errorf("%w: point %v coincides with a corner", entity.ErrInvalidGeometry, point)
	}

	for i := range corners {
		fp.DistanceRatios[i] = fp.RawDistances[i] / minDist
		fp.RelativeAngles[i] = wrapAngle(fp.RawAngles[i] - fp.RawAngles[0])
	}
	fp.RelativeAngles[0] = 0

	bary, err := Barycentric(point, corners)
	if err != nil {
		return fp, err
	}
	fp.BarycentricCoords = bary

	return fp, nil
}

// Barycentric веса точки относительно углов. Вес угла i пропорционален площади
// треугольника из точки и двух следующих за ним углов (i+1, i+2).
func Barycentric(point entity.Point, corners Corners) ([4]float64, error) {
	var w [4]float64
	var total float64
	for i := 0; i < 4; i++ {
		w[i] = triangleArea(point, corners[(i+1)%4], corners[(i+2)%4])
		total += w[i]
	}
	if total < Epsilon {
		return w, fmt.Errorf("%w: barycentric area is degenerate", entity.ErrInvalidGeometry)
	}
	for i := range w {
		w[i] /= total
	}
	return w, nil
}

func triangleArea(a, b, c entity.Point) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// wrapAngle приводит угол к диапазону (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
