package matching

import (
	"fmt"
	"math"
	"time"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/template"
)

// toleranceEpsilon поглощает ошибку округления на границе допуска.
const toleranceEpsilon = 1e-6

func newResult(templateID string, strategy entity.MatchStrategy) *entity.InspectionResult {
	return &entity.InspectionResult{
		TemplateID:    templateID,
		MatchStrategy: strategy,
		Comparisons:   make([]entity.FeatureComparison, 0),
	}
}

func pointRef(p entity.Point) *entity.Point {
	return &p
}

// matched сравнение найденного признака. deviation - отклонение по осям в кадре шаблона.
func matched(f template.Feature, d entity.DetectedObject, deviation entity.Point) entity.FeatureComparison {
	xErr, yErr := math.Abs(deviation.X), math.Abs(deviation.Y)
	within := xErr <= f.Tolerance.X+toleranceEpsilon && yErr <= f.Tolerance.Y+toleranceEpsilon

	status := entity.StatusPassed
	if !within {
		status = entity.StatusDeviationExceeded
	}

	return entity.FeatureComparison{
		FeatureID:        f.ID,
		FeatureName:      f.Name,
		ClassID:          f.ClassID,
		ClassName:        className(f.ClassName, d.ClassName),
		TemplatePosition: pointRef(f.Position),
		DetectedPosition: pointRef(d.Center),
		XError:           xErr,
		YError:           yErr,
		TotalError:       math.Hypot(xErr, yErr),
		ToleranceX:       f.Tolerance.X,
		ToleranceY:       f.Tolerance.Y,
		WithinTolerance:  within,
		Status:           status,
		Confidence:       d.Confidence,
	}
}

// missing признак без пары. expected - где он должен был быть в кадре детекции.
func missing(f template.Feature, expected entity.Point) entity.FeatureComparison {
	return entity.FeatureComparison{
		FeatureID:        f.ID,
		FeatureName:      f.Name,
		ClassID:          f.ClassID,
		ClassName:        f.ClassName,
		TemplatePosition: pointRef(f.Position),
		ToleranceX:       f.Tolerance.X,
		ToleranceY:       f.Tolerance.Y,
		Status:           entity.StatusMissing,
		ExpectedPosition: pointRef(expected),
	}
}

// extra лишняя детекция. nearest и expected заполняются только для диагностики.
func extra(d entity.DetectedObject, nearest *template.Feature, expected entity.Point) entity.FeatureComparison {
	c := entity.FeatureComparison{
		ClassID:          d.ClassID,
		ClassName:        d.ClassName,
		DetectedPosition: pointRef(d.Center),
		Status:           entity.StatusExtra,
		Confidence:       d.Confidence,
	}
	if nearest != nil {
		c.ExpectedPosition = pointRef(expected)
		c.ExpectedFeatureName = nearest.Name
		c.ExpectedClassName = nearest.ClassName
	}
	return c
}

func className(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

// finish считает сводку, итог и сообщение.
func finish(res *entity.InspectionResult, start time.Time, treatExtraAsError bool) *entity.InspectionResult {
	s := entity.Summarize(res.Comparisons)
	res.Summary = s
	res.Passed = s.Deviation == 0 && s.Missing == 0 && (!treatExtraAsError || s.Extra == 0)

	if res.Passed {
		res.Message = fmt.Sprintf("Inspection passed: %d/%d features within tolerance", s.Passed, s.TotalFeatures)
		if s.Extra > 0 {
			res.Message += fmt.Sprintf(", %d extra ignored", s.Extra)
		}
	} else {
		res.Message = fmt.Sprintf("Inspection failed: %d passed, %d deviation, %d missing, %d extra of %d features",
			s.Passed, s.Deviation, s.Missing, s.Extra, s.TotalFeatures)
	}

	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res
}

// fail результат без сравнений для некорректного входа.
func fail(res *entity.InspectionResult, start time.Time, message string) *entity.InspectionResult {
	res.Passed = false
	res.Message = message
	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res
}
