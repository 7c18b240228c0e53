package matching

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/hungarian"
	"feature-inspector/internal/template"
)

// CoordinateMatcher сопоставляет детекции с шаблоном без углов: оценивает общий
// перенос по центроидам классов и ищет ближайших соседей в кадре шаблона.
type CoordinateMatcher struct {
	cfg Config
}

// NewCoordinateMatcher создаёт матчер стратегии COORDINATE
func NewCoordinateMatcher(cfg Config) *CoordinateMatcher {
	return &CoordinateMatcher{cfg: cfg}
}

// Match классифицирует обязательные признаки шаблона и, если лишние детекции
// считаются ошибкой, лишние детекции.
func (m *CoordinateMatcher) Match(tmpl *template.FourCornerTemplate, detections []entity.DetectedObject) *entity.InspectionResult {
	start := time.Now()
	if tmpl == nil {
		return fail(newResult("", entity.StrategyCoordinate), start, "Inspection failed: template is not set")
	}
	res := newResult(tmpl.ID(), entity.StrategyCoordinate)

	required := tmpl.RequiredFeatures()
	transform, _ := EstimateTransform(required, detections)

	local := make([]entity.Point, len(detections))
	for i, d := range detections {
		local[i] = transform.Inverse(d.Center)
	}

	var pairs []int
	if m.cfg.Assignment == AssignmentOptimal {
		var capped bool
		pairs, capped = m.assignOptimal(required, detections, local)
		if capped {
			res.Warnings = append(res.Warnings, "optimal assignment hit the iteration limit, result may be suboptimal")
		}
	} else {
		pairs = m.assignGreedy(required, detections, local)
	}

	claimed := make([]bool, len(detections))
	for fi, f := range required {
		di := pairs[fi]
		if di < 0 {
			res.Comparisons = append(res.Comparisons, missing(f, transform.Forward(f.Position)))
			continue
		}
		claimed[di] = true
		res.Comparisons = append(res.Comparisons, matched(f, detections[di], local[di].Sub(f.Position)))
	}

	if m.cfg.TreatExtraAsError {
		features := tmpl.Features()
		for i, d := range detections {
			if claimed[i] {
				continue
			}
			nearest := nearestByDistance(features, d.ClassID, local[i])
			var expected entity.Point
			if nearest != nil {
				expected = transform.Forward(nearest.Position)
			}
			res.Comparisons = append(res.Comparisons, extra(d, nearest, expected))
		}
	}

	return finish(res, start, m.cfg.TreatExtraAsError)
}

// assignGreedy для каждого признака по порядку берёт ближайшую свободную детекцию того же класса.
func (m *CoordinateMatcher) assignGreedy(features []template.Feature, detections []entity.DetectedObject, local []entity.Point) []int {
	pairs := make([]int, len(features))
	claimed := make([]bool, len(detections))
	for fi, f := range features {
		pairs[fi] = hungarian.Unassigned
		best, dist := -1, math.Inf(1)
		for di, d := range detections {
			if claimed[di] || d.ClassID != f.ClassID {
				continue
			}
			if dd := local[di].Distance(f.Position); dd < dist {
				best, dist = di, dd
			}
		}
		if best >= 0 && dist <= m.cfg.MatchDistanceThreshold {
			claimed[best] = true
			pairs[fi] = best
		}
	}
	return pairs
}

// assignOptimal решает задачу о назначениях отдельно для каждого класса.
func (m *CoordinateMatcher) assignOptimal(features []template.Feature, detections []entity.DetectedObject, local []entity.Point) ([]int, bool) {
	pairs := make([]int, len(features))
	featuresByClass := make(map[int][]int)
	classOrder := make([]int, 0)
	for fi, f := range features {
		pairs[fi] = hungarian.Unassigned
		if _, seen := featuresByClass[f.ClassID]; !seen {
			classOrder = append(classOrder, f.ClassID)
		}
		featuresByClass[f.ClassID] = append(featuresByClass[f.ClassID], fi)
	}

	gate := (m.cfg.MatchDistanceThreshold + 1) * float64(len(features)+len(detections)+1)
	capped := false
	for _, class := range classOrder {
		fis := featuresByClass[class]
		dis := make([]int, 0)
		for di, d := range detections {
			if d.ClassID == class {
				dis = append(dis, di)
			}
		}
		if len(dis) == 0 {
			continue
		}

		cost := mat.NewDense(len(fis), len(dis), nil)
		for r, fi := range fis {
			for c, di := range dis {
				d := local[di].Distance(features[fi].Position)
				if d > m.cfg.MatchDistanceThreshold {
					d = gate
				}
				cost.Set(r, c, d)
			}
		}

		solved := hungarian.Solve(cost)
		capped = capped || solved.Capped
		for r, c := range solved.Assignment {
			if c >= 0 && cost.At(r, c) <= m.cfg.MatchDistanceThreshold {
				pairs[fis[r]] = dis[c]
			}
		}
	}
	return pairs, capped
}

// nearestByDistance ближайший признак того же класса в кадре шаблона
func nearestByDistance(features []template.Feature, classID int, p entity.Point) *template.Feature {
	var nearest *template.Feature
	dist := math.Inf(1)
	for _, f := range features {
		if f.ClassID != classID {
			continue
		}
		if d := p.Distance(f.Position); d < dist {
			nearest, dist = &f, d
		}
	}
	return nearest
}
