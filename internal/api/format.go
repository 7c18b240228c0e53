package telegram

import (
	"fmt"
	"strings"

	"feature-inspector/internal/domain/entity"
)

// Лимит Telegram на подпись к фото
const captionLimit = 1024

// maxFailureLines сколько отказов показывать в ответе
const maxFailureLines = 10

func formatResult(result *entity.InspectionResult) string {
	var sb strings.Builder
	if result.Passed {
		sb.WriteString("✅ ")
	} else {
		sb.WriteString("❌ ")
	}
	sb.WriteString(result.Message)
	fmt.Fprintf(&sb, "\nШаблон: %s, стратегия: %s, %d мс", result.TemplateID, result.MatchStrategy, result.ProcessingTimeMs)

	failures := result.Failures()
	for i, c := range failures {
		if i == maxFailureLines {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(failures)-maxFailureLines)
			break
		}
		sb.WriteString("\n")
		sb.WriteString(formatComparison(c))
	}

	for _, w := range result.Warnings {
		sb.WriteString("\n⚠️ ")
		sb.WriteString(w)
	}
	return sb.String()
}

func formatComparison(c entity.FeatureComparison) string {
	switch c.Status {
	case entity.StatusDeviationExceeded:
		return fmt.Sprintf("• %s: отклонение %.1f/%.1f px (допуск %.1f/%.1f)", featureLabel(c), c.XError, c.YError, c.ToleranceX, c.ToleranceY)
	case entity.StatusMissing:
		if c.ExpectedPosition != nil {
			return fmt.Sprintf("• %s: не найден, ожидался у (%.0f, %.0f)", featureLabel(c), c.ExpectedPosition.X, c.ExpectedPosition.Y)
		}
		return fmt.Sprintf("• %s: не найден", featureLabel(c))
	case entity.StatusExtra:
		line := fmt.Sprintf("• лишний объект класса %s", classLabel(c))
		if c.DetectedPosition != nil {
			line += fmt.Sprintf(" в (%.0f, %.0f)", c.DetectedPosition.X, c.DetectedPosition.Y)
		}
		if c.ExpectedFeatureName != "" {
			line += fmt.Sprintf(", ближайший признак %s", c.ExpectedFeatureName)
		}
		return line
	}
	return fmt.Sprintf("• %s: %s", featureLabel(c), c.Status)
}

func featureLabel(c entity.FeatureComparison) string {
	if c.FeatureName != "" {
		return c.FeatureName
	}
	return c.FeatureID
}

func classLabel(c entity.FeatureComparison) string {
	if c.ClassName != "" {
		return c.ClassName
	}
	return fmt.Sprintf("%d", c.ClassID)
}

func formatTemplateList(ids []string) string {
	if len(ids) == 0 {
		return msgNoTemplates
	}
	return "📐 Шаблоны:\n" + strings.Join(ids, "\n")
}

func formatHistory(records []*entity.InspectionRecord) string {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		mark := "✅"
		if !r.Passed {
			mark = "❌"
		}
		fmt.Fprintf(&sb, "%s %s %s", mark, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Strategy)
		if r.Result != nil {
			s := r.Result.Summary
			fmt.Fprintf(&sb, " %d/%d", s.Passed, s.TotalFeatures)
		}
	}
	return sb.String()
}

func truncateCaption(text string) string {
	runes := []rune(text)
	if len(runes) <= captionLimit {
		return text
	}
	return string(runes[:captionLimit-1]) + "…"
}
