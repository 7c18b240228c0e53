// Package template описывает шаблон детали, привязанный к четырём углам.
package template

import (
	"fmt"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/fingerprint"
)

// FeatureMetadata параметры признака, не зависящие от геометрии
type FeatureMetadata struct {
	Name      string
	ClassID   int
	ClassName string
	Required  bool
	Tolerance entity.Point
}

// Feature признак шаблона вместе с отпечатком
type Feature struct {
	ID          string
	Position    entity.Point
	Fingerprint entity.FeatureFingerprint
	FeatureMetadata
}

// FourCornerTemplate неизменяемый шаблон. Создаётся только через Build или WithCorners,
// поэтому безопасен для одновременного чтения из нескольких горутин.
type FourCornerTemplate struct {
	id           string
	corners      fingerprint.Corners
	order        []string
	fingerprints map[string]entity.FeatureFingerprint
	positions    map[string]entity.Point
	metadata     map[string]FeatureMetadata
}

// Build проверяет описание и вычисляет отпечатки всех признаков по углам шаблона.
func Build(def Definition) (*FourCornerTemplate, error) {
	if def.TemplateID == "" {
		return nil, fmt.Errorf("%w: template id is empty", entity.ErrInvalidTemplate)
	}
	if len(def.Corners) != 4 {
		return nil, fmt.Errorf("%w: expected 4 corners, got %d", entity.ErrInvalidTemplate, len(def.Corners))
	}
	corners, err := fingerprint.CornersFromSlice(def.Corners)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidTemplate, err)
	}
	if !fingerprint.IsValidQuadrilateral(corners) {
		return nil, fmt.Errorf("%w: %w: corners do not form a valid quadrilateral", entity.ErrInvalidTemplate, entity.ErrInvalidGeometry)
	}

	t := &FourCornerTemplate{
		id:           def.TemplateID,
		corners:      corners,
		order:        make([]string, 0, len(def.Features)),
		fingerprints: make(map[string]entity.FeatureFingerprint, len(def.Features)),
		positions:    make(map[string]entity.Point, len(def.Features)),
		metadata:     make(map[string]FeatureMetadata, len(def.Features)),
	}

	for _, f := range def.Features {
		if f.ID == "" {
			return nil, fmt.Errorf("%w: feature id is empty", entity.ErrInvalidTemplate)
		}
		if _, dup := t.positions[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate feature id %q", entity.ErrInvalidTemplate, f.ID)
		}

		fp, err := fingerprint.Calculate(f.Position, corners, f.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: feature %q: %w", entity.ErrInvalidTemplate, f.ID, err)
		}

		t.order = append(t.order, f.ID)
		t.fingerprints[f.ID] = fp
		t.positions[f.ID] = f.Position
		t.metadata[f.ID] = FeatureMetadata{
			Name:      f.Name,
			ClassID:   f.ClassID,
			ClassName: f.ClassName,
			Required:  f.Required,
			Tolerance: f.Tolerance,
		}
	}

	return t, nil
}

// WithCorners возвращает новый шаблон с теми же признаками и положениями,
// но с отпечатками, пересчитанными относительно новых углов.
func (t *FourCornerTemplate) WithCorners(corners []entity.Point) (*FourCornerTemplate, error) {
	def := t.Definition()
	def.Corners = corners
	return Build(def)
}

// ID идентификатор шаблона
func (t *FourCornerTemplate) ID() string { return t.id }

// Corners углы шаблона TL, TR, BR, BL
func (t *FourCornerTemplate) Corners() fingerprint.Corners { return t.corners }

// Len количество признаков
func (t *FourCornerTemplate) Len() int { return len(t.order) }

// FeatureIDs идентификаторы признаков в порядке добавления
func (t *FourCornerTemplate) FeatureIDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// RequiredFeatureIDs идентификаторы обязательных признаков
func (t *FourCornerTemplate) RequiredFeatureIDs() []string {
	out := make([]string, 0, len(t.order))
	for _, id := range t.order {
		if t.metadata[id].Required {
			out = append(out, id)
		}
	}
	return out
}

// Feature возвращает признак по идентификатору
func (t *FourCornerTemplate) Feature(id string) (Feature, bool) {
	meta, ok := t.metadata[id]
	if !ok {
		return Feature{}, false
	}
	return Feature{
		ID:              id,
		Position:        t.positions[id],
		Fingerprint:     t.fingerprints[id],
		FeatureMetadata: meta,
	}, true
}

// Features все признаки в порядке добавления
func (t *FourCornerTemplate) Features() []Feature {
	out := make([]Feature, 0, len(t.order))
	for _, id := range t.order {
		f, _ := t.Feature(id)
		out = append(out, f)
	}
	return out
}

// RequiredFeatures обязательные признаки в порядке добавления
func (t *FourCornerTemplate) RequiredFeatures() []Feature {
	out := make([]Feature, 0, len(t.order))
	for _, id := range t.RequiredFeatureIDs() {
		f, _ := t.Feature(id)
		out = append(out, f)
	}
	return out
}

// Definition восстанавливает сериализуемое описание шаблона
func (t *FourCornerTemplate) Definition() Definition {
	def := Definition{
		TemplateID: t.id,
		Corners:    t.corners.Slice(),
		Features:   make([]FeatureDefinition, 0, len(t.order)),
	}
	for _, f := range t.Features() {
		def.Features = append(def.Features, FeatureDefinition{
			ID:        f.ID,
			Name:      f.Name,
			ClassID:   f.ClassID,
			ClassName: f.ClassName,
			Position:  f.Position,
			Required:  f.Required,
			Tolerance: f.Tolerance,
		})
	}
	return def
}
