package eval

import (
	"fmt"

	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
)

// Thresholds are optional quality gates. A negative value disables a gate.
type Thresholds struct {
	MinAspectF1    float64
	MinSentimentF1 float64
}

// DisabledThresholds returns gates that never fail.
func DisabledThresholds() Thresholds {
	return Thresholds{MinAspectF1: -1, MinSentimentF1: -1}
}

// CheckThresholds returns ErrBelowThreshold if any enabled gate fails.
func CheckThresholds(r Result, t Thresholds) error {
	if t.MinAspectF1 >= 0 && r.Metrics.Aspect.F1 < t.MinAspectF1 {
		return fmt.Errorf("%w: aspect F1 %.3f < %.3f", apperrors.ErrBelowThreshold, r.Metrics.Aspect.F1, t.MinAspectF1)
	}

	if t.MinSentimentF1 >= 0 && r.Metrics.Sentiment.F1 < t.MinSentimentF1 {
		return fmt.Errorf("%w: sentiment F1 %.3f < %.3f", apperrors.ErrBelowThreshold, r.Metrics.Sentiment.F1, t.MinSentimentF1)
	}

	return nil
}
