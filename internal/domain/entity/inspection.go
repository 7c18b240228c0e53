package entity

// ComparisonStatus итог сравнения одного признака. Значения являются частью внешнего контракта.
type ComparisonStatus string

const (
	StatusPassed            ComparisonStatus = "PASSED"
	StatusDeviationExceeded ComparisonStatus = "DEVIATION_EXCEEDED"
	StatusMissing           ComparisonStatus = "MISSING"
	StatusExtra             ComparisonStatus = "EXTRA"
)

// MatchStrategy стратегия сопоставления
type MatchStrategy string

const (
	StrategyTopology   MatchStrategy = "TOPOLOGY"
	StrategyCoordinate MatchStrategy = "COORDINATE"
	StrategyCropArea   MatchStrategy = "CROP_AREA"
)

// ParseMatchStrategy разбирает название стратегии, ok=false для неизвестных значений
func ParseMatchStrategy(s string) (MatchStrategy, bool) {
	switch MatchStrategy(s) {
	case StrategyTopology, StrategyCoordinate, StrategyCropArea:
		return MatchStrategy(s), true
	}
	return "", false
}

// FeatureComparison результат сравнения признака шаблона с детекцией.
//
// Для MISSING в ExpectedPosition лежит место, где признак должен был оказаться
// в кадре детекции. Для EXTRA поля Expected* описывают ближайший признак шаблона
// того же класса и служат только для диагностики.
type FeatureComparison struct {
	FeatureID        string           `json:"featureId,omitempty"`
	FeatureName      string           `json:"featureName,omitempty"`
	ClassID          int              `json:"classId"`
	ClassName        string           `json:"className,omitempty"`
	TemplatePosition *Point           `json:"templatePosition,omitempty"`
	DetectedPosition *Point           `json:"detectedPosition,omitempty"`
	XError           float64          `json:"xError"`
	YError           float64          `json:"yError"`
	TotalError       float64          `json:"totalError"`
	ToleranceX       float64          `json:"toleranceX"`
	ToleranceY       float64          `json:"toleranceY"`
	WithinTolerance  bool             `json:"withinTolerance"`
	Status           ComparisonStatus `json:"status"`

	ExpectedPosition    *Point  `json:"expectedPosition,omitempty"`
	ExpectedFeatureName string  `json:"expectedFeatureName,omitempty"`
	ExpectedClassName   string  `json:"expectedClassName,omitempty"`
	Confidence          float64 `json:"confidence,omitempty"`
}

// IsFailure true для всего, кроме PASSED
func (c FeatureComparison) IsFailure() bool {
	return c.Status != StatusPassed
}

// Summary сводные счётчики инспекции
type Summary struct {
	TotalFeatures int `json:"totalFeatures"`
	Passed        int `json:"passed"`
	Missing       int `json:"missing"`
	Deviation     int `json:"deviation"`
	Extra         int `json:"extra"`
}

// Summarize считает итоги по списку сравнений. TotalFeatures учитывает только признаки шаблона.
func Summarize(comparisons []FeatureComparison) Summary {
	var s Summary
	for _, c := range comparisons {
		switch c.Status {
		case StatusPassed:
			s.Passed++
		case StatusDeviationExceeded:
			s.Deviation++
		case StatusMissing:
			s.Missing++
		case StatusExtra:
			s.Extra++
		}
	}
	s.TotalFeatures = s.Passed + s.Deviation + s.Missing
	return s
}

// InspectionResult итог инспекции одной детали
type InspectionResult struct {
	TemplateID       string              `json:"templateId"`
	Comparisons      []FeatureComparison `json:"comparisons"`
	Passed           bool                `json:"passed"`
	Message          string              `json:"message"`
	ProcessingTimeMs int64               `json:"processingTimeMs"`
	MatchStrategy    MatchStrategy       `json:"matchStrategy"`
	Summary          Summary             `json:"summary"`
	Warnings         []string            `json:"warnings,omitempty"`
}

// Failures возвращает сравнения со статусом, отличным от PASSED
func (r *InspectionResult) Failures() []FeatureComparison {
	out := make([]FeatureComparison, 0)
	for _, c := range r.Comparisons {
		if c.IsFailure() {
			out = append(out, c)
		}
	}
	return out
}
