// Package cascade implements the Viola-Jones cascade: per-stage AdaBoost
// training with detection-rate/false-positive targets, between-stage
// hard-negative filtering, and multi-scale sliding-window detection
// (spec §4.6).
package cascade

// Config collects the tunable defaults governing training and detection.
// All fields are configuration, not hard-coded behavior (spec §6).
type Config struct {
	// WL, WH are the canonical detection window dimensions.
	WL, WH int

	// NPos is the number of positive samples drawn from the object
	// directory; NNeg is the number of negative samples drawn or refilled
	// from the non-object directory.
	NPos, NNeg int

	// MinNumNeg is the floor below which the working set's negatives must
	// be refilled between stages.
	MinNumNeg int

	// MaxFPR and MinDR are the per-stage targets: a stage is accepted once
	// its false-positive rate drops below MaxFPR and its detection rate is
	// at or above MinDR.
	MaxFPR, MinDR float64

	// TargetFPR is the overall cascade false-positive rate target used by
	// target-FPR mode cascade training.
	TargetFPR float64

	// CascadeSize is the number of stages trained in layout mode when no
	// explicit per-stage round counts are given.
	CascadeSize int

	// ThresholdStepDivisor controls the stage threshold-relaxation step
	// size (threshold / ThresholdStepDivisor); spec §4.6.1 fixes this at
	// 300 but flags it as a parameterizable heuristic.
	ThresholdStepDivisor float64
}

// DefaultConfig returns the spec's default constants (§6).
func DefaultConfig() Config {
	return Config{
		WL:                   25,
		WH:                   25,
		NPos:                 5000,
		NNeg:                 20000,
		MinNumNeg:            8000,
		MaxFPR:               0.4,
		MinDR:                0.95,
		TargetFPR:            5e-6,
		CascadeSize:          10,
		ThresholdStepDivisor: 300,
	}
}
