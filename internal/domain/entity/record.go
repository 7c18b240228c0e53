package entity

import "time"

// InspectionRecord сохранённый результат инспекции
type InspectionRecord struct {
	ID         string            `json:"id"`
	TemplateID string            `json:"templateId"`
	Strategy   MatchStrategy     `json:"strategy"`
	Passed     bool              `json:"passed"`
	CreatedAt  time.Time         `json:"createdAt"`
	Result     *InspectionResult `json:"result"`
}
