package matching

import (
	"fmt"
	"math"
	"time"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/fingerprint"
	"feature-inspector/internal/template"
)

// TopologyMatcher сопоставляет детекции с шаблоном по отпечаткам относительно четырёх углов.
type TopologyMatcher struct {
	cfg Config
}

// NewTopologyMatcher создаёт матчер стратегии TOPOLOGY
func NewTopologyMatcher(cfg Config) *TopologyMatcher {
	return &TopologyMatcher{cfg: cfg}
}

// candidate детекция с отпечатком в кадре найденных углов
type candidate struct {
	det   entity.DetectedObject
	fp    entity.FeatureFingerprint
	valid bool
}

// Match классифицирует обязательные признаки шаблона и лишние детекции.
// Некорректные углы дают непройденный результат без сравнений, а не ошибку.
func (m *TopologyMatcher) Match(tmpl *template.FourCornerTemplate, detectedCorners []entity.Point, detections []entity.DetectedObject) *entity.InspectionResult {
	start := time.Now()
	if tmpl == nil {
		return fail(newResult("", entity.StrategyTopology), start, "Inspection failed: template is not set")
	}
	res := newResult(tmpl.ID(), entity.StrategyTopology)

	corners, err := fingerprint.CornersFromSlice(detectedCorners)
	if err == nil && !fingerprint.IsValidQuadrilateral(corners) {
		err = fmt.Errorf("%w: detected corners do not form a valid quadrilateral", entity.ErrInvalidGeometry)
	}
	if err != nil {
		return fail(res, start, fmt.Sprintf("Inspection failed: %v", err))
	}

	candidates := make([]candidate, len(detections))
	for i, d := range detections {
		fp, err := fingerprint.Calculate(d.Center, corners, fmt.Sprintf("detection-%d", i))
		candidates[i] = candidate{det: d, fp: fp, valid: err == nil}
	}

	claimed := make([]bool, len(detections))
	for _, f := range tmpl.RequiredFeatures() {
		best, score := m.bestCandidate(f, candidates, claimed)
		if best < 0 || score >= m.cfg.FingerprintTolerance {
			res.Comparisons = append(res.Comparisons, missing(f, m.project(f.Position, tmpl.Corners(), corners)))
			continue
		}

		claimed[best] = true
		d := candidates[best].det
		actual := d.Center
		if m.cfg.ErrorFrame != ErrorFrameRaw {
			actual = m.project(actual, corners, tmpl.Corners())
		}
		res.Comparisons = append(res.Comparisons, matched(f, d, actual.Sub(f.Position)))
	}

	for i, c := range candidates {
		if claimed[i] {
			continue
		}
		nearest := m.nearestFeature(tmpl, c)
		var expected entity.Point
		if nearest != nil {
			expected = m.project(nearest.Position, tmpl.Corners(), corners)
		}
		res.Comparisons = append(res.Comparisons, extra(c.det, nearest, expected))
	}

	return finish(res, start, m.cfg.TreatExtraAsError)
}

// bestCandidate жадный выбор: свободная детекция того же класса с наименьшим расхождением
// отпечатков. При равенстве побеждает первая.
func (m *TopologyMatcher) bestCandidate(f template.Feature, candidates []candidate, claimed []bool) (int, float64) {
	best, score := -1, math.Inf(1)
	for i, c := range candidates {
		if claimed[i] || !c.valid || c.det.ClassID != f.ClassID {
			continue
		}
		if s := m.cfg.Weights.Similarity(f.Fingerprint, c.fp); s < score {
			best, score = i, s
		}
	}
	return best, score
}

// nearestFeature ближайший по отпечатку признак шаблона того же класса
func (m *TopologyMatcher) nearestFeature(tmpl *template.FourCornerTemplate, c candidate) *template.Feature {
	if !c.valid {
		return nil
	}
	var nearest *template.Feature
	score := math.Inf(1)
	for _, f := range tmpl.Features() {
		if f.ClassID != c.det.ClassID {
			continue
		}
		if s := m.cfg.Weights.Similarity(f.Fingerprint, c.fp); s < score {
			nearest, score = &f, s
		}
	}
	return nearest
}

// project переносит точку между системами углов; при сбое возвращает точку без изменений.
func (m *TopologyMatcher) project(p entity.Point, from, to fingerprint.Corners) entity.Point {
	q, err := fingerprint.Project(p, from, to)
	if err != nil {
		return p
	}
	return q
}
