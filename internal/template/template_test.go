package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
)

func squareDefinition() Definition {
	return Definition{
		TemplateID: "plate",
		Corners:    []entity.Point{entity.Pt(0, 0), entity.Pt(100, 0), entity.Pt(100, 100), entity.Pt(0, 100)},
		Features: []FeatureDefinition{
			{ID: "hole-1", Name: "Hole 1", ClassID: 0, ClassName: "hole", Position: entity.Pt(50, 50), Required: true, Tolerance: entity.Pt(5, 5)},
			{ID: "label", Name: "Label", ClassID: 2, ClassName: "label", Position: entity.Pt(20, 80), Required: false, Tolerance: entity.Pt(10, 10)},
			{ID: "hole-2", Name: "Hole 2", ClassID: 0, ClassName: "hole", Position: entity.Pt(25, 25), Required: true, Tolerance: entity.Pt(5, 5)},
		},
	}
}

func TestBuild(t *testing.T) {
	tmpl, err := Build(squareDefinition())
	require.NoError(t, err)

	require.Equal(t, "plate", tmpl.ID())
	require.Equal(t, 3, tmpl.Len())
	require.Equal(t, []string{"hole-1", "label", "hole-2"}, tmpl.FeatureIDs())
	require.Equal(t, []string{"hole-1", "hole-2"}, tmpl.RequiredFeatureIDs())

	f, ok := tmpl.Feature("hole-1")
	require.True(t, ok)
	require.Equal(t, entity.Pt(50, 50), f.Position)
	require.Equal(t, "hole-1", f.Fingerprint.FeatureID)
	require.InDelta(t, 0.25, f.Fingerprint.BarycentricCoords[0], 1e-12)
	require.Equal(t, entity.Pt(5, 5), f.Tolerance)

	_, ok = tmpl.Feature("missing")
	require.False(t, ok)

	required := tmpl.RequiredFeatures()
	require.Len(t, required, 2)
	require.Equal(t, "hole-2", required[1].ID)
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Definition)
		target error
	}{
		{"empty id", func(d *Definition) { d.TemplateID = "" }, entity.ErrInvalidTemplate},
		{"three corners", func(d *Definition) { d.Corners = d.Corners[:3] }, entity.ErrInvalidTemplate},
		{"collinear corners", func(d *Definition) {
			d.Corners = []entity.Point{entity.Pt(0, 0), entity.Pt(1, 0), entity.Pt(2, 0), entity.Pt(3, 0)}
		}, entity.ErrInvalidGeometry},
		{"duplicate feature", func(d *Definition) { d.Features[2].ID = "hole-1" }, entity.ErrInvalidTemplate},
		{"empty feature id", func(d *Definition) { d.Features[0].ID = "" }, entity.ErrInvalidTemplate},
		{"feature on corner", func(d *Definition) { d.Features[0].Position = entity.Pt(100, 100) }, entity.ErrInvalidGeometry},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := squareDefinition()
			tc.mutate(&def)
			_, err := Build(def)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestWithCorners(t *testing.T) {
	tmpl, err := Build(squareDefinition())
	require.NoError(t, err)

	moved, err := tmpl.WithCorners([]entity.Point{entity.Pt(0, 0), entity.Pt(200, 0), entity.Pt(200, 100), entity.Pt(0, 100)})
	require.NoError(t, err)

	require.Equal(t, tmpl.FeatureIDs(), moved.FeatureIDs())
	before, _ := tmpl.Feature("hole-1")
	after, _ := moved.Feature("hole-1")
	require.Equal(t, before.Position, after.Position)
	require.NotEqual(t, before.Fingerprint.DistanceRatios, after.Fingerprint.DistanceRatios)
	require.Equal(t, entity.Pt(100, 0), tmpl.Corners()[1], "original template must not change")

	_, err = tmpl.WithCorners([]entity.Point{entity.Pt(0, 0)})
	require.ErrorIs(t, err, entity.ErrInvalidTemplate)
}

func TestDefinitionRoundTrip(t *testing.T) {
	def := squareDefinition()
	tmpl, err := Build(def)
	require.NoError(t, err)
	require.Equal(t, def, tmpl.Definition())
}

func TestParseDefinition_RequiredDefaultsToTrue(t *testing.T) {
	data := []byte(`{
		"templateId": "t1",
		"corners": [{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10}],
		"features": [
			{"id":"a","name":"A","classId":1,"position":{"x":5,"y":5},"tolerance":{"x":1,"y":1}},
			{"id":"b","name":"B","classId":1,"position":{"x":2,"y":2},"required":false}
		]
	}`)

	def, err := ParseDefinition(data)
	require.NoError(t, err)
	require.Len(t, def.Features, 2)
	require.True(t, def.Features[0].Required)
	require.False(t, def.Features[1].Required)
	require.Equal(t, entity.Pt(1, 1), def.Features[0].Tolerance)
}
