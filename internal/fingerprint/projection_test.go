package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
)

func TestProject_IdentityCorners(t *testing.T) {
	p, err := Project(entity.Pt(50, 50), square, square)
	require.NoError(t, err)
	require.Equal(t, entity.Pt(50, 50), p)
}

func TestProject_SimilarityTransform(t *testing.T) {
	f := similarityTransform(math.Pi/6, 1.5, entity.Pt(10, 10))
	moved := transformCorners(square, f)

	for _, p := range []entity.Point{entity.Pt(50, 50), entity.Pt(20, 70), entity.Pt(99, 1)} {
		got, err := Project(p, square, moved)
		require.NoError(t, err)
		want := f(p)
		require.InDelta(t, want.X, got.X, 1e-6)
		require.InDelta(t, want.Y, got.Y, 1e-6)

		back, err := Project(got, moved, square)
		require.NoError(t, err)
		require.InDelta(t, p.X, back.X, 1e-6)
		require.InDelta(t, p.Y, back.Y, 1e-6)
	}
}

func TestProject_Perspective(t *testing.T) {
	trapezoid := Corners{entity.Pt(10, 0), entity.Pt(90, 0), entity.Pt(100, 100), entity.Pt(0, 100)}
	for i := range square {
		got, err := Project(square[i], square, trapezoid)
		require.NoError(t, err)
		require.InDelta(t, trapezoid[i].X, got.X, 1e-6)
		require.InDelta(t, trapezoid[i].Y, got.Y, 1e-6)
	}
}

func TestInterpolate_Center(t *testing.T) {
	f := similarityTransform(0, 2, entity.Pt(5, 5))
	got, err := Interpolate(entity.Pt(50, 50), square, transformCorners(square, f))
	require.NoError(t, err)
	require.InDelta(t, 105.0, got.X, 1e-9)
	require.InDelta(t, 105.0, got.Y, 1e-9)
}
