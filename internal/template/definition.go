package template

import (
	"encoding/json"
	"slices"

	"feature-inspector/internal/domain/entity"
)

// FeatureDefinition описание признака шаблона в кадре шаблона
type FeatureDefinition struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ClassID   int          `json:"classId"`
	ClassName string       `json:"className,omitempty"`
	Position  entity.Point `json:"position"`
	Required  bool         `json:"required"`
	Tolerance entity.Point `json:"tolerance"`
}

// UnmarshalJSON считает признак обязательным, если поле required не указано.
func (f *FeatureDefinition) UnmarshalJSON(data []byte) error {
	type plain FeatureDefinition
	aux := plain{Required: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FeatureDefinition(aux)
	return nil
}

// Definition сериализуемая форма шаблона: то, что хранится и передаётся по сети
type Definition struct {
	TemplateID string              `json:"templateId"`
	Corners    []entity.Point      `json:"corners"`
	Features   []FeatureDefinition `json:"features"`
}

// ParseDefinition разбирает JSON-описание шаблона
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Clone возвращает копию, не разделяющую срезы с исходным определением
func (d Definition) Clone() Definition {
	return Definition{
		TemplateID: d.TemplateID,
		Corners:    slices.Clone(d.Corners),
		Features:   slices.Clone(d.Features),
	}
}
