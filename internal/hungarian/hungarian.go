// Package hungarian решает задачу о назначениях минимальной стоимости
// для прямоугольной матрицы стоимостей (алгоритм Венгерский / Munkres).
package hungarian

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unassigned строка осталась без столбца
const Unassigned = -1

// Result назначение строк столбцам.
// Capped выставляется, если алгоритм упёрся в лимит итераций: назначение
// тогда частичное и может быть неоптимальным.
type Result struct {
	Assignment []int
	Capped     bool
	Iterations int
}

// Solve находит назначение минимальной суммарной стоимости. Матрица дополняется
// до квадратной фиктивными элементами с большой стоимостью, лимит итераций n*n*10.
func Solve(cost mat.Matrix) Result {
	rows, cols := cost.Dims()
	n := max(rows, cols)
	return solveWithLimit(cost, n*n*10)
}

// SolveRows то же, что Solve, для матрицы в виде срезов одинаковой длины.
func SolveRows(cost [][]float64) Result {
	if len(cost) == 0 || len(cost[0]) == 0 {
		return Result{Assignment: unassigned(len(cost))}
	}
	return Solve(denseFromRows(cost))
}

// TotalCost суммарная стоимость назначения, строки без пары не учитываются.
func TotalCost(cost mat.Matrix, assignment []int) float64 {
	rows, cols := cost.Dims()
	var total float64
	for i, j := range assignment {
		if i < rows && j >= 0 && j < cols {
			total += cost.At(i, j)
		}
	}
	return total
}

// TotalCostRows то же, что TotalCost, для матрицы в виде срезов.
func TotalCostRows(cost [][]float64, assignment []int) float64 {
	if len(cost) == 0 || len(cost[0]) == 0 {
		return 0
	}
	return TotalCost(denseFromRows(cost), assignment)
}

func denseFromRows(cost [][]float64) *mat.Dense {
	rows, cols := len(cost), len(cost[0])
	d := mat.NewDense(rows, cols, nil)
	for i := range cost {
		d.SetRow(i, cost[i])
	}
	return d
}

func unassigned(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = Unassigned
	}
	return out
}

func solveWithLimit(cost mat.Matrix, limit int) Result {
	rows, cols := cost.Dims()
	res := Result{Assignment: unassigned(rows)}
	if rows == 0 || cols == 0 {
		return res
	}

	var maxAbs float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			maxAbs = math.Max(maxAbs, math.Abs(cost.At(i, j)))
		}
	}

	n := max(rows, cols)
	dummy := maxAbs*float64(n) + 1
	m := newMunkres(n, 1e-9*math.Max(1, maxAbs))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i < rows && j < cols {
				m.c[i][j] = cost.At(i, j)
			} else {
				m.c[i][j] = dummy
			}
		}
	}

	res.Capped = !m.run(limit)
	res.Iterations = m.iterations
	for i := 0; i < rows; i++ {
		if j := m.starInRow[i]; j >= 0 && j < cols {
			res.Assignment[i] = j
		}
	}
	return res
}

type munkres struct {
	n          int
	eps        float64
	c          [][]float64
	starInRow  []int
	starInCol  []int
	primeInRow []int
	rowCovered []bool
	colCovered []bool
	iterations int
}

func newMunkres(n int, eps float64) *munkres {
	m := &munkres{
		n:          n,
		eps:        eps,
		c:          make([][]float64, n),
		starInRow:  unassigned(n),
		starInCol:  unassigned(n),
		primeInRow: unassigned(n),
		rowCovered: make([]bool, n),
		colCovered: make([]bool, n),
	}
	for i := range m.c {
		m.c[i] = make([]float64, n)
	}
	return m
}

// run возвращает false, если лимит итераций исчерпан раньше полного назначения.
func (m *munkres) run(limit int) bool {
	m.reduce()
	m.starZeros()

	for {
		if m.coverStarredColumns() == m.n {
			return true
		}

		for {
			if m.iterations >= limit {
				return false
			}
			m.iterations++

			r, c, ok := m.findUncoveredZero()
			if !ok {
				m.adjust()
				continue
			}

			m.primeInRow[r] = c
			if sc := m.starInRow[r]; sc >= 0 {
				m.rowCovered[r] = true
				m.colCovered[sc] = false
				continue
			}

			m.augment(r, c)
			break
		}
	}
}

func (m *munkres) reduce() {
	for i := 0; i < m.n; i++ {
		low := math.Inf(1)
		for j := 0; j < m.n; j++ {
			low = math.Min(low, m.c[i][j])
		}
		for j := 0; j < m.n; j++ {
			m.c[i][j] -= low
		}
	}
	for j := 0; j < m.n; j++ {
		low := math.Inf(1)
		for i := 0; i < m.n; i++ {
			low = math.Min(low, m.c[i][j])
		}
		for i := 0; i < m.n; i++ {
			m.c[i][j] -= low
		}
	}
}

func (m *munkres) isZero(i, j int) bool {
	return m.c[i][j] <= m.eps
}

func (m *munkres) starZeros() {
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.isZero(i, j) && m.starInRow[i] < 0 && m.starInCol[j] < 0 {
				m.starInRow[i] = j
				m.starInCol[j] = i
			}
		}
	}
}

func (m *munkres) coverStarredColumns() int {
	covered := 0
	for i := 0; i < m.n; i++ {
		m.rowCovered[i] = false
		m.primeInRow[i] = Unassigned
		m.colCovered[i] = m.starInCol[i] >= 0
		if m.colCovered[i] {
			covered++
		}
	}
	return covered
}

func (m *munkres) findUncoveredZero() (int, int, bool) {
	for i := 0; i < m.n; i++ {
		if m.rowCovered[i] {
			continue
		}
		for j := 0; j < m.n; j++ {
			if !m.colCovered[j] && m.isZero(i, j) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// adjust вычитает минимальный непокрытый элемент из непокрытых столбцов
// и добавляет его к покрытым строкам.
func (m *munkres) adjust() {
	low := math.Inf(1)
	for i := 0; i < m.n; i++ {
		if m.rowCovered[i] {
			continue
		}
		for j := 0; j < m.n; j++ {
			if !m.colCovered[j] {
				low = math.Min(low, m.c[i][j])
			}
		}
	}
	if math.IsInf(low, 1) {
		return
	}
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.rowCovered[i] {
				m.c[i][j] += low
			}
			if !m.colCovered[j] {
				m.c[i][j] -= low
			}
		}
	}
}

// augment чередует отмеченные и штрихованные нули, начиная со штрихованного (r, c).
func (m *munkres) augment(r, c int) {
	for {
		sr := m.starInCol[c]
		m.starInRow[r] = c
		m.starInCol[c] = r
		if sr < 0 {
			return
		}
		m.starInRow[sr] = Unassigned
		r, c = sr, m.primeInRow[sr]
	}
}
