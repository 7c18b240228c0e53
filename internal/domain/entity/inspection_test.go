package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	comparisons := []FeatureComparison{
		{Status: StatusPassed},
		{Status: StatusPassed},
		{Status: StatusDeviationExceeded},
		{Status: StatusMissing},
		{Status: StatusExtra},
		{Status: StatusExtra},
	}

	s := Summarize(comparisons)
	require.Equal(t, Summary{TotalFeatures: 4, Passed: 2, Missing: 1, Deviation: 1, Extra: 2}, s)
}

func TestInspectionResultFailures(t *testing.T) {
	r := &InspectionResult{Comparisons: []FeatureComparison{
		{FeatureID: "a", Status: StatusPassed},
		{FeatureID: "b", Status: StatusMissing},
		{Status: StatusExtra},
	}}

	failures := r.Failures()
	require.Len(t, failures, 2)
	require.Equal(t, "b", failures[0].FeatureID)
	require.Equal(t, StatusExtra, failures[1].Status)
}

func TestParseMatchStrategy(t *testing.T) {
	s, ok := ParseMatchStrategy("COORDINATE")
	require.True(t, ok)
	require.Equal(t, StrategyCoordinate, s)

	_, ok = ParseMatchStrategy("topology")
	require.False(t, ok)
}
