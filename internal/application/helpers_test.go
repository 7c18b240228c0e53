package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/infrastructure/storage"
	"feature-inspector/internal/logging"
	"feature-inspector/internal/matching"
	"feature-inspector/internal/template"
)

func partDefinition(id string) template.Definition {
	return template.Definition{
		TemplateID: id,
		Corners:    []entity.Point{entity.Pt(0, 0), entity.Pt(400, 0), entity.Pt(400, 400), entity.Pt(0, 400)},
		Features: []template.FeatureDefinition{
			{ID: "hole", Name: "Hole", ClassID: 0, ClassName: "hole", Position: entity.Pt(100, 100), Required: true, Tolerance: entity.Pt(5, 5)},
			{ID: "slot", Name: "Slot", ClassID: 1, ClassName: "slot", Position: entity.Pt(300, 300), Required: true, Tolerance: entity.Pt(5, 5)},
		},
	}
}

func exactDetections() []entity.DetectedObject {
	return []entity.DetectedObject{
		{ClassID: 0, ClassName: "hole", Center: entity.Pt(100, 100), Confidence: 0.9},
		{ClassID: 1, ClassName: "slot", Center: entity.Pt(300, 300), Confidence: 0.8},
	}
}

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) Render(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte("annotated:"), imageData...), nil
}

type failingRecords struct{}

func (failingRecords) Save(ctx context.Context, record *entity.InspectionRecord) error {
	return errors.New("disk full")
}

func (failingRecords) Get(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	return nil, entity.ErrRecordNotFound
}

func (failingRecords) ListByTemplate(ctx context.Context, templateID string, limit int) ([]*entity.InspectionRecord, error) {
	return nil, nil
}

type fixture struct {
	users       *UserService
	templates   *TemplateService
	records     *storage.MemoryInspectionRepository
	renderer    *fakeRenderer
	inspections *InspectionService
}

func newFixture(t *testing.T, strategy entity.MatchStrategy) *fixture {
	t.Helper()
	log := logging.Discard()
	f := &fixture{
		users:     NewUserService(storage.NewMemoryUserRepository()),
		templates: NewTemplateService(storage.NewMemoryTemplateRepository(), log),
		records:   storage.NewMemoryInspectionRepository(),
		renderer:  &fakeRenderer{},
	}
	f.inspections = NewInspectionService(f.users, f.templates, f.records, f.renderer, matching.DefaultConfig(), strategy, log)

	_, err := f.templates.Import(context.Background(), partDefinition("part"))
	require.NoError(t, err)
	return f
}
