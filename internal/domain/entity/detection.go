package entity

// DetectedObject объект, найденный внешним детектором
type DetectedObject struct {
	ClassID    int     `json:"classId"`
	ClassName  string  `json:"className,omitempty"`
	Center     Point   `json:"center"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"` // 0..1
}

// BoundingBox возвращает левый верхний и правый нижний углы рамки
func (d DetectedObject) BoundingBox() (min, max Point) {
	half := Point{X: d.Width / 2, Y: d.Height / 2}
	return d.Center.Sub(half), d.Center.Add(half)
}
