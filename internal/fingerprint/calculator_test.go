package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
)

var square = Corners{entity.Pt(0, 0), entity.Pt(100, 0), entity.Pt(100, 100), entity.Pt(0, 100)}

// similarityTransform поворот на theta вокруг начала координат, масштаб и сдвиг
func similarityTransform(theta, scale float64, shift entity.Point) func(entity.Point) entity.Point {
	cos, sin := math.Cos(theta), math.Sin(theta)
	return func(p entity.Point) entity.Point {
		return entity.Point{
			X: scale*(cos*p.X-sin*p.Y) + shift.X,
			Y: scale*(sin*p.X+cos*p.Y) + shift.Y,
		}
	}
}

func transformCorners(c Corners, f func(entity.Point) entity.Point) Corners {
	var out Corners
	for i, p := range c {
		out[i] = f(p)
	}
	return out
}

func TestCalculate_Center(t *testing.T) {
	fp, err := Calculate(entity.Pt(50, 50), square, "hole")
	require.NoError(t, err)
	require.Equal(t, "hole", fp.FeatureID)

	for i := 0; i < 4; i++ {
		require.InDelta(t, 1.0, fp.DistanceRatios[i], 1e-12)
		require.InDelta(t, 0.25, fp.BarycentricCoords[i], 1e-12)
	}
	require.Equal(t, 0.0, fp.RelativeAngles[0])
	require.InDelta(t, math.Pi/2, math.Abs(fp.RelativeAngles[1]), 1e-12)
	require.InDelta(t, math.Pi, math.Abs(fp.RelativeAngles[2]), 1e-12)
}

func TestCalculate_InvariantsHold(t *testing.T) {
	points := []entity.Point{entity.Pt(10, 80), entity.Pt(73, 12), entity.Pt(150, 40), entity.Pt(-20, -5)}
	for _, p := range points {
		fp, err := Calculate(p, square, "f")
		require.NoError(t, err)

		var sum float64
		minRatio := math.Inf(1)
		for i := 0; i < 4; i++ {
			sum += fp.BarycentricCoords[i]
			minRatio = math.Min(minRatio, fp.DistanceRatios[i])
			require.Greater(t, fp.RelativeAngles[i], -math.Pi)
			require.LessOrEqual(t, fp.RelativeAngles[i], math.Pi)
		}
		require.InDelta(t, 1.0, sum, 1e-6)
		require.InDelta(t, 1.0, minRatio, 1e-12)
		require.Equal(t, 0.0, fp.RelativeAngles[0])
	}
}

func TestCalculate_SimilarityInvariance(t *testing.T) {
	transforms := []func(entity.Point) entity.Point{
		similarityTransform(0, 1, entity.Pt(37, -12)),
		similarityTransform(math.Pi/6, 1, entity.Pt(10, 10)),
		similarityTransform(-2.5, 0.4, entity.Pt(300, 120)),
		similarityTransform(math.Pi, 3, entity.Pt(0, 0)),
	}
	points := []entity.Point{entity.Pt(50, 50), entity.Pt(12, 88), entity.Pt(95, 3), entity.Pt(130, -40)}

	for _, f := range transforms {
		moved := transformCorners(square, f)
		for _, p := range points {
			a, err := Calculate(p, square, "f")
			require.NoError(t, err)
			b, err := Calculate(f(p), moved, "f")
			require.NoError(t, err)
			require.InDelta(t, 0, Similarity(a, b), 1e-9)
		}
	}
}

func TestCalculate_DegenerateGeometry(t *testing.T) {
	collinear := Corners{entity.Pt(0, 0), entity.Pt(10, 0), entity.Pt(20, 0), entity.Pt(30, 0)}
	_, err := Calculate(entity.Pt(5, 5), collinear, "f")
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)

	coincident := Corners{entity.Pt(0, 0), entity.Pt(0, 0), entity.Pt(100, 100), entity.Pt(0, 100)}
	_, err = Calculate(entity.Pt(5, 5), coincident, "f")
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)

	_, err = Calculate(entity.Pt(100, 0), square, "f")
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestIsValidQuadrilateral(t *testing.T) {
	require.True(t, IsValidQuadrilateral(square))
	require.False(t, IsValidQuadrilateral(Corners{}))
	require.False(t, IsValidQuadrilateral(Corners{entity.Pt(0, 0), entity.Pt(1, 1), entity.Pt(2, 2), entity.Pt(3, 3)}))
}

func TestCornersFromSlice(t *testing.T) {
	_, err := CornersFromSlice(square.Slice()[:3])
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)

	c, err := CornersFromSlice(square.Slice())
	require.NoError(t, err)
	require.True(t, c.Equal(square))
	require.InDelta(t, 10000.0, c.Area(), 1e-9)
}

func TestWrapAngle(t *testing.T) {
	require.InDelta(t, math.Pi, wrapAngle(-math.Pi), 1e-12)
	require.InDelta(t, -math.Pi/2, wrapAngle(3*math.Pi/2), 1e-12)
	require.InDelta(t, 0.5, wrapAngle(0.5+4*math.Pi), 1e-12)
}
