package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lueurxax/absa-eval/internal/core/domain"
	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
)

const (
	polPositive = "positive"
	polNegative = "negative"
	polNeutral  = "neutral"
)

func rec(text string, pairs ...string) domain.SentenceRecord {
	a := domain.NewAspects()
	for i := 0; i+1 < len(pairs); i += 2 {
		a.Set(pairs[i], pairs[i+1])
	}

	return domain.SentenceRecord{Text: text, Aspects: a}
}

func seq(records ...domain.SentenceRecord) domain.RecordSequence {
	return domain.RecordSequence(records)
}

func TestCompareIdenticalPredictions(t *testing.T) {
	gt := seq(rec("Good battery", "battery", polPositive))

	r := Compare(gt, seq(rec("Good battery", "battery", polPositive)), CompareOptions{})

	require.Equal(t, 1.0, r.Metrics.AspectAccuracy)
	require.Equal(t, 1.0, r.Metrics.SentimentAccuracy)
	require.Equal(t, Scores{Precision: 1, Recall: 1, F1: 1}, r.Metrics.Aspect)
	require.Equal(t, Scores{Precision: 1, Recall: 1, F1: 1}, r.Metrics.Sentiment)
	require.Empty(t, r.Mismatches)
}

func TestCompareWrongPolarity(t *testing.T) {
	gt := seq(rec("Good battery", "battery", polPositive))
	pred := seq(rec("Good battery", "battery", polNegative))

	r := Compare(gt, pred, CompareOptions{})

	require.Equal(t, 1, r.Counts.CorrectAspects)
	require.Equal(t, 0, r.Counts.CorrectAspectSentiments)
	require.Equal(t, 1.0, r.Metrics.Aspect.Precision)
	require.Equal(t, 1.0, r.Metrics.Aspect.Recall)
	require.Equal(t, 0.0, r.Metrics.Sentiment.Precision)
	require.Equal(t, 0.0, r.Metrics.Sentiment.Recall)
	require.Equal(t, 0.0, r.Metrics.Sentiment.F1)
	require.Equal(t, 1.0, r.Metrics.AspectAccuracy)
	require.Equal(t, 0.0, r.Metrics.SentimentAccuracy)

	require.Len(t, r.Mismatches, 1)
	require.Equal(t, "Good battery", r.Mismatches[0].Text)
	require.Equal(t, `{"battery": "negative"}`, r.Mismatches[0].Predicted.String())
}

func TestCompareMissingTermFailsSentence(t *testing.T) {
	gt := seq(rec("Screen bad, battery good", "battery", polPositive, "screen", polNegative))
	pred := seq(rec("Screen bad, battery good", "battery", polPositive))

	r := Compare(gt, pred, CompareOptions{})

	require.Equal(t, 0, r.Counts.AspectCorrectSentences)
	require.Equal(t, 0, r.Counts.SentimentCorrectSentences)
	require.Equal(t, 1, r.Counts.CorrectAspects)
	require.Equal(t, 1.0, r.Metrics.Aspect.Precision)
	require.Equal(t, 0.5, r.Metrics.Aspect.Recall)
	require.InDelta(t, 2.0/3.0, r.Metrics.Aspect.F1, 1e-9)
	require.Len(t, r.Mismatches, 1)
}

func TestCompareSpuriousTermFailsSentence(t *testing.T) {
	gt := seq(rec("Good battery", "battery", polPositive))
	pred := seq(rec("Good battery", "battery", polPositive, "charger", polNeutral))

	r := Compare(gt, pred, CompareOptions{})

	require.Equal(t, 1, r.Counts.CorrectAspects)
	require.Equal(t, 1, r.Counts.CorrectAspectSentiments)
	require.Equal(t, 0, r.Counts.AspectCorrectSentences)
	require.Equal(t, 0, r.Counts.SentimentCorrectSentences)
	require.Equal(t, 0.5, r.Metrics.Aspect.Precision)
	require.Equal(t, 1.0, r.Metrics.Aspect.Recall)
	require.Len(t, r.Mismatches, 1)
}

func TestCompareEmptyAspectsAreCorrect(t *testing.T) {
	gt := seq(rec("Nothing to see"))
	pred := seq(rec("Nothing to see"))

	r := Compare(gt, pred, CompareOptions{})

	require.Equal(t, 1.0, r.Metrics.AspectAccuracy)
	require.Equal(t, 1.0, r.Metrics.SentimentAccuracy)
	require.Equal(t, Scores{}, r.Metrics.Aspect)
	require.Equal(t, Scores{}, r.Metrics.Sentiment)
	require.Empty(t, r.Mismatches)
}

func TestCompareZeroDenominators(t *testing.T) {
	tests := []struct {
		name string
		gt   domain.RecordSequence
		pred domain.RecordSequence
	}{
		{name: "both empty", gt: nil, pred: nil},
		{name: "no predictions", gt: seq(rec("a", "x", polPositive)), pred: seq(rec("a"))},
		{name: "no gold aspects", gt: seq(rec("a")), pred: seq(rec("a", "x", polPositive))},
		{name: "predictions file empty", gt: seq(rec("a", "x", polPositive)), pred: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compare(tt.gt, tt.pred, CompareOptions{})

			for _, v := range allMetrics(r) {
				require.GreaterOrEqual(t, v, 0.0)
				require.LessOrEqual(t, v, 1.0)
			}

			if r.Counts.TotalPredictedAspects == 0 {
				require.Equal(t, 0.0, r.Metrics.Aspect.Precision)
			}

			if r.Counts.TotalAspects == 0 {
				require.Equal(t, 0.0, r.Metrics.Aspect.Recall)
			}
		})
	}
}

func TestComparePositionalPairingStopsAtShorter(t *testing.T) {
	gt := seq(
		rec("one", "a", polPositive),
		rec("two", "b", polNegative),
		rec("three", "c", polNeutral),
	)
	pred := seq(
		rec("one", "a", polPositive),
		rec("two", "b", polNegative),
	)

	r := Compare(gt, pred, CompareOptions{Pairing: PairByPosition})

	require.Equal(t, 3, r.Counts.TotalSentences)
	require.Equal(t, 2, r.Counts.PairedSentences)
	require.Equal(t, 2, r.Counts.TotalAspects)
	require.InDelta(t, 2.0/3.0, r.Metrics.AspectAccuracy, 1e-9)
	require.Equal(t, 1.0, r.Metrics.Aspect.Recall)
}

func TestComparePositionalPairingIgnoresText(t *testing.T) {
	gt := seq(rec("first", "a", polPositive), rec("second", "b", polNegative))
	pred := seq(rec("second", "b", polNegative), rec("first", "a", polPositive))

	r := Compare(gt, pred, CompareOptions{})

	require.Equal(t, 0, r.Counts.CorrectAspects)
	require.Len(t, r.Mismatches, 2)
}

func TestCompareTextPairing(t *testing.T) {
	gt := seq(
		rec("first", "a", polPositive),
		rec("dup", "d", polPositive),
		rec("second", "b", polNegative),
		rec("dup", "d", polNegative),
		rec("unmatched", "u", polNeutral),
	)
	pred := seq(
		rec("second", "b", polNegative),
		rec("dup", "d", polPositive),
		rec("first", "a", polPositive),
		rec("dup", "d", polNegative),
		rec("extra", "e", polPositive),
	)

	r := Compare(gt, pred, CompareOptions{Pairing: PairByText})

	require.Equal(t, 5, r.Counts.TotalSentences)
	require.Equal(t, 4, r.Counts.PairedSentences)
	require.Equal(t, 4, r.Counts.CorrectAspectSentiments)
	require.Equal(t, 4, r.Counts.SentimentCorrectSentences)
	require.Empty(t, r.Mismatches)
}

func TestCompareTextPairingNormalized(t *testing.T) {
	// precomposed vs combining acute accent
	gt := seq(rec("Caf\u00e9 keyboard", "keyboard", polPositive))
	pred := seq(rec("  Cafe\u0301 keyboard\n", "keyboard", polPositive))

	strict := Compare(gt, pred, CompareOptions{Pairing: PairByText})
	require.Equal(t, 0, strict.Counts.PairedSentences)

	loose := Compare(gt, pred, CompareOptions{Pairing: PairByText, Match: MatchOptions{Normalize: true}})
	require.Equal(t, 1, loose.Counts.PairedSentences)
	require.Equal(t, 1.0, loose.Metrics.SentimentAccuracy)
}

func TestF1Identity(t *testing.T) {
	tests := []struct{ p, r float64 }{
		{0, 0}, {1, 0}, {0, 1}, {0.5, 0.5}, {0.25, 0.75}, {1, 1},
	}

	for _, tt := range tests {
		got := f1(tt.p, tt.r)
		if tt.p+tt.r == 0 {
			require.Equal(t, 0.0, got)

			continue
		}

		require.InDelta(t, 2*tt.p*tt.r/(tt.p+tt.r), got, 1e-12)
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	gtPath := filepath.Join(dir, "gt.json")
	predPath := filepath.Join(dir, "pred.json")

	require.NoError(t, os.WriteFile(gtPath, []byte(`[{"Sentence":"Good battery","Aspects":{"battery":"positive"}}]`), 0o600))
	require.NoError(t, os.WriteFile(predPath, []byte(`[{"Sentence":"Good battery","Aspects":{"battery":"negative"}}]`), 0o600))

	r, err := CompareFiles(gtPath, predPath, CompareOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, r.Counts.CorrectAspects)
	require.Len(t, r.Mismatches, 1)

	_, err = CompareFiles(gtPath, filepath.Join(dir, "absent.json"), CompareOptions{})
	require.ErrorIs(t, err, apperrors.ErrIO)

	_, err = CompareFiles(gtPath, predPath, CompareOptions{Pairing: "fuzzy"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckThresholds(t *testing.T) {
	r := Result{Metrics: Metrics{
		Aspect:    Scores{F1: 0.8},
		Sentiment: Scores{F1: 0.6},
	}}

	require.NoError(t, CheckThresholds(r, DisabledThresholds()))
	require.NoError(t, CheckThresholds(r, Thresholds{MinAspectF1: 0.8, MinSentimentF1: 0.6}))
	require.ErrorIs(t, CheckThresholds(r, Thresholds{MinAspectF1: 0.9, MinSentimentF1: -1}), apperrors.ErrBelowThreshold)
	require.ErrorIs(t, CheckThresholds(r, Thresholds{MinAspectF1: -1, MinSentimentF1: 0.7}), apperrors.ErrBelowThreshold)
}

func allMetrics(r Result) []float64 {
	m := r.Metrics

	return []float64{
		m.AspectAccuracy, m.SentimentAccuracy,
		m.Aspect.Precision, m.Aspect.Recall, m.Aspect.F1,
		m.Sentiment.Precision, m.Sentiment.Recall, m.Sentiment.F1,
	}
}
