package entity

import "math"

// Point точка в пиксельных координатах изображения
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt короткий конструктор точки
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add возвращает сумму двух точек
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub возвращает разность двух точек
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale умножает обе координаты на коэффициент
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Distance евклидово расстояние до другой точки
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// AngleTo угол направления от o к p в радианах
func (p Point) AngleTo(o Point) float64 {
	return math.Atan2(p.Y-o.Y, p.X-o.X)
}

// Centroid среднее положение набора точек
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point{X: sx / n, Y: sy / n}
}
