package http

import (
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Export private functions for testing
var (
	VerifySlackSignature   = verifySlackSignature
	VerifySlackSignatureAt = verifySlackSignatureAt
)

// GateDecisionCount returns the current gate decision counter value
func GateDecisionCount(decision string) float64 {
	return testutil.ToFloat64(gateDecisions.WithLabelValues(decision))
}

// RecordOutcomeCount returns the current record outcome counter value
func RecordOutcomeCount(status string) float64 {
	return testutil.ToFloat64(recordOutcomes.WithLabelValues(status))
}
