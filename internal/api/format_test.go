package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
)

func pt(x, y float64) *entity.Point {
	p := entity.Pt(x, y)
	return &p
}

func TestFormatResult_Passed(t *testing.T) {
	text := formatResult(&entity.InspectionResult{
		TemplateID:       "part",
		Passed:           true,
		Message:          "Inspection passed: 2/2 features within tolerance",
		MatchStrategy:    entity.StrategyTopology,
		ProcessingTimeMs: 3,
		Comparisons: []entity.FeatureComparison{
			{FeatureID: "a", Status: entity.StatusPassed},
		},
	})

	require.True(t, strings.HasPrefix(text, "✅ Inspection passed"))
	require.Contains(t, text, "Шаблон: part, стратегия: TOPOLOGY, 3 мс")
	require.NotContains(t, text, "•")
}

func TestFormatResult_ListsFailures(t *testing.T) {
	text := formatResult(&entity.InspectionResult{
		TemplateID:    "part",
		Message:       "Inspection failed",
		MatchStrategy: entity.StrategyCoordinate,
		Comparisons: []entity.FeatureComparison{
			{FeatureID: "a", Status: entity.StatusPassed},
			{FeatureID: "b", FeatureName: "Bolt", Status: entity.StatusDeviationExceeded, XError: 6, YError: 1.5, ToleranceX: 5, ToleranceY: 5},
			{FeatureID: "c", Status: entity.StatusMissing, ExpectedPosition: pt(120, 80)},
			{ClassID: 3, Status: entity.StatusExtra, DetectedPosition: pt(10, 20), ExpectedFeatureName: "Bolt"},
		},
		Warnings: []string{"capped"},
	})

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 6)
	require.Equal(t, "❌ Inspection failed", lines[0])
	require.Equal(t, "• Bolt: отклонение 6.0/1.5 px (допуск 5.0/5.0)", lines[2])
	require.Equal(t, "• c: не найден, ожидался у (120, 80)", lines[3])
	require.Equal(t, "• лишний объект класса 3 в (10, 20), ближайший признак Bolt", lines[4])
	require.Equal(t, "⚠️ capped", lines[5])
}

func TestFormatResult_TruncatesLongFailureList(t *testing.T) {
	comparisons := make([]entity.FeatureComparison, 0, 15)
	for i := 0; i < 15; i++ {
		comparisons = append(comparisons, entity.FeatureComparison{FeatureID: "f", Status: entity.StatusMissing})
	}
	text := formatResult(&entity.InspectionResult{Message: "failed", Comparisons: comparisons})

	require.Equal(t, maxFailureLines, strings.Count(text, "• f: не найден"))
	require.Contains(t, text, "… и ещё 5")
}

func TestFormatTemplateList(t *testing.T) {
	require.Equal(t, msgNoTemplates, formatTemplateList(nil))
	require.Equal(t, "📐 Шаблоны:\na\nb", formatTemplateList([]string{"a", "b"}))
}

func TestFormatHistory(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	text := formatHistory([]*entity.InspectionRecord{
		{Passed: true, CreatedAt: at, Strategy: entity.StrategyTopology, Result: &entity.InspectionResult{Summary: entity.Summary{TotalFeatures: 3, Passed: 3}}},
		{Passed: false, CreatedAt: at, Strategy: entity.StrategyCoordinate},
	})
	require.Equal(t, "✅ 2026-05-04 10:30:00 TOPOLOGY 3/3\n❌ 2026-05-04 10:30:00 COORDINATE", text)
}

func TestTruncateCaption(t *testing.T) {
	short := "short"
	require.Equal(t, short, truncateCaption(short))

	long := strings.Repeat("я", captionLimit+10)
	got := []rune(truncateCaption(long))
	require.Len(t, got, captionLimit)
	require.Equal(t, '…', got[len(got)-1])
}
