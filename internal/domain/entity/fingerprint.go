package entity

// FeatureFingerprint аффинно-инвариантное описание положения точки относительно 4 углов.
type FeatureFingerprint struct {
	FeatureID         string     `json:"featureId"`
	DistanceRatios    [4]float64 `json:"distanceRatios"`    // минимум нормирован к 1
	RelativeAngles    [4]float64 `json:"relativeAngles"`    // относительно угла 0, первый всегда 0
	BarycentricCoords [4]float64 `json:"barycentricCoords"` // сумма равна 1
	RawDistances      [4]float64 `json:"rawDistances"`
	RawAngles         [4]float64 `json:"rawAngles"`
}
