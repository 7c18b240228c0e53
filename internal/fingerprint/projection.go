package fingerprint

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"feature-inspector/internal/domain/entity"
)

// Homography проективное преобразование 3x3 с h[8] = 1.
type Homography [9]float64

// Apply переводит точку, ok=false если точка уходит на бесконечность
func (h Homography) Apply(p entity.Point) (entity.Point, bool) {
	den := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(den) < Epsilon {
		return entity.Point{}, false
	}
	return entity.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / den,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / den,
	}, true
}

// SolveHomography находит преобразование, переводящее углы src в углы dst.
func SolveHomography(src, dst Corners) (Homography, error) {
	A := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// x' = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		b.SetVec(i*2, xp)

		// y' = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		b.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, b); err != nil {
		return Homography{}, fmt.Errorf("solve homography: %w", err)
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// Project переносит точку из системы углов from в систему углов to.
// Сначала используется точная проекция по четырём парам углов, при вырожденной
// системе - интерполяция по барицентрическим весам.
func Project(p entity.Point, from, to Corners) (entity.Point, error) {
	if from.Equal(to) {
		return p, nil
	}

	fromC, fromS := normalization(from)
	toC, toS := normalization(to)
	h, err := SolveHomography(normalize(from, fromC, fromS), normalize(to, toC, toS))
	if err == nil {
		if q, ok := h.Apply(p.Sub(fromC).Scale(1 / fromS)); ok {
			return q.Scale(toS).Add(toC), nil
		}
		err = errors.New("point maps to infinity")
	}

	q, berr := Interpolate(p, from, to)
	if berr != nil {
		return p, fmt.Errorf("project point: %w (fallback: %v)", err, berr)
	}
	return q, nil
}

// Interpolate переносит точку через барицентрические веса: Σ w_i * to_i.
func Interpolate(p entity.Point, from, to Corners) (entity.Point, error) {
	w, err := Barycentric(p, from)
	if err != nil {
		return p, err
	}
	var out entity.Point
	for i := range to {
		out = out.Add(to[i].Scale(w[i]))
	}
	return out, nil
}

// normalization центр и средний радиус углов, чтобы система уравнений была обусловлена.
func normalization(c Corners) (entity.Point, float64) {
	center := entity.Centroid(c[:])
	var s float64
	for _, p := range c {
		s += p.Distance(center)
	}
	s /= 4
	if s < Epsilon {
		s = 1
	}
	return center, s
}

func normalize(c Corners, center entity.Point, scale float64) Corners {
	var out Corners
	for i, p := range c {
		out[i] = p.Sub(center).Scale(1 / scale)
	}
	return out
}
