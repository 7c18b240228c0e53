// Package matching сопоставляет детекции с признаками шаблона и классифицирует
// каждый признак как PASSED, DEVIATION_EXCEEDED, MISSING или EXTRA.
package matching

import "feature-inspector/internal/fingerprint"

// ErrorFrame система координат, в которой считается отклонение для стратегии TOPOLOGY
type ErrorFrame string

const (
	// ErrorFrameTemplate детекция переносится в кадр шаблона по углам, затем сравнивается
	ErrorFrameTemplate ErrorFrame = "template"
	// ErrorFrameRaw разница в пикселях между детекцией и положением в шаблоне без преобразования
	ErrorFrameRaw ErrorFrame = "raw"
)

// Assignment способ сопоставления для стратегии COORDINATE
type Assignment string

const (
	AssignmentGreedy  Assignment = "greedy"
	AssignmentOptimal Assignment = "optimal"
)

// Config пороги сопоставления. Только для чтения во время инспекции.
type Config struct {
	FingerprintTolerance   float64
	Weights                fingerprint.Weights
	MatchDistanceThreshold float64
	TreatExtraAsError      bool
	ErrorFrame             ErrorFrame
	Assignment             Assignment
}

// DefaultConfig базовые значения порогов
func DefaultConfig() Config {
	return Config{
		FingerprintTolerance:   0.5,
		Weights:                fingerprint.DefaultWeights(),
		MatchDistanceThreshold: 300,
		TreatExtraAsError:      true,
		ErrorFrame:             ErrorFrameTemplate,
		Assignment:             AssignmentGreedy,
	}
}
