// Package eval scores aspect-based sentiment predictions against ground truth.
//
// Two checks are provided:
//   - FindMissing: coverage of ground-truth sentences by the predictions file
//   - Compare: aspect detection and aspect sentiment precision, recall, F1 and
//     sentence-level accuracy, plus the list of mismatched sentences
package eval

import (
	"fmt"

	"github.com/lueurxax/absa-eval/internal/core/domain"
	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
)

// Pairing modes.
const (
	// PairByPosition pairs record i with record i and stops at the shorter sequence.
	PairByPosition = "position"

	// PairByText pairs each ground-truth record with the next unused prediction
	// carrying the same sentence text.
	PairByText = "text"
)

// CompareOptions configures a comparison run.
type CompareOptions struct {
	Pairing string
	Match   MatchOptions
}

// Counts are the raw tallies of one comparison run.
type Counts struct {
	TotalSentences            int `json:"total_sentences"`
	PairedSentences           int `json:"paired_sentences"`
	TotalAspects              int `json:"total_aspects"`
	TotalPredictedAspects     int `json:"total_predicted_aspects"`
	CorrectAspects            int `json:"correct_aspects"`
	CorrectAspectSentiments   int `json:"correct_aspect_sentiments"`
	AspectCorrectSentences    int `json:"aspect_correct_sentences"`
	SentimentCorrectSentences int `json:"sentiment_correct_sentences"`
}

// Scores is a precision/recall/F1 triple.
type Scores struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Metrics are derived from Counts. Every ratio is 0 when its denominator is 0.
type Metrics struct {
	AspectAccuracy    float64 `json:"aspect_accuracy"`
	SentimentAccuracy float64 `json:"sentiment_accuracy"`
	Aspect            Scores  `json:"aspect"`
	Sentiment         Scores  `json:"sentiment"`
}

// Mismatch is a sentence whose prediction is not fully correct.
type Mismatch struct {
	Text        string          `json:"sentence"`
	GroundTruth *domain.Aspects `json:"ground_truth"`
	Predicted   *domain.Aspects `json:"prediction"`
}

// Result is the outcome of one comparison run.
type Result struct {
	Counts     Counts     `json:"counts"`
	Metrics    Metrics    `json:"metrics"`
	Mismatches []Mismatch `json:"mismatches"`
}

// ValidatePairing reports whether mode is a known pairing mode. Empty means position.
func ValidatePairing(mode string) error {
	switch mode {
	case "", PairByPosition, PairByText:
		return nil
	default:
		return fmt.Errorf("%w: unknown pairing mode %q", apperrors.ErrInvalidInput, mode)
	}
}

// Compare scores predictions against groundTruth.
func Compare(groundTruth, predictions domain.RecordSequence, opts CompareOptions) Result {
	acc := accumulator{}
	acc.counts.TotalSentences = len(groundTruth)

	switch opts.Pairing {
	case PairByText:
		pairByText(groundTruth, predictions, opts.Match, acc.add)
	default:
		pairByPosition(groundTruth, predictions, acc.add)
	}

	return acc.result()
}

// CompareFiles loads both files and runs Compare.
func CompareFiles(groundTruthPath, predictionsPath string, opts CompareOptions) (Result, error) {
	if err := ValidatePairing(opts.Pairing); err != nil {
		return Result{}, err
	}

	gt, pred, err := loadPair(groundTruthPath, predictionsPath)
	if err != nil {
		return Result{}, err
	}

	return Compare(gt, pred, opts), nil
}

func pairByPosition(gt, pred domain.RecordSequence, fn func(gt, pred domain.SentenceRecord)) {
	n := min(len(gt), len(pred))
	for i := 0; i < n; i++ {
		fn(gt[i], pred[i])
	}
}

func pairByText(gt, pred domain.RecordSequence, match MatchOptions, fn func(gt, pred domain.SentenceRecord)) {
	queues := make(map[string][]int, len(pred))
	for i, rec := range pred {
		k := match.key(rec.Text)
		queues[k] = append(queues[k], i)
	}

	for _, g := range gt {
		k := match.key(g.Text)

		q := queues[k]
		if len(q) == 0 {
			continue
		}

		queues[k] = q[1:]
		fn(g, pred[q[0]])
	}
}

type accumulator struct {
	counts     Counts
	mismatches []Mismatch
}

func (a *accumulator) add(gt, pred domain.SentenceRecord) {
	gtLen := gt.Aspects.Len()
	predLen := pred.Aspects.Len()

	a.counts.PairedSentences++
	a.counts.TotalAspects += gtLen
	a.counts.TotalPredictedAspects += predLen

	allTermsFound := true
	allPolaritiesMatch := true

	for _, t := range gt.Aspects.Terms() {
		polarity, ok := pred.Aspects.Get(t.Term)
		if !ok {
			allTermsFound = false

			continue
		}

		a.counts.CorrectAspects++

		if polarity == t.Polarity {
			a.counts.CorrectAspectSentiments++
		} else {
			allPolaritiesMatch = false
		}
	}

	// extra predicted terms fail the sentence even when every gold term matched
	aspectCorrect := allTermsFound && gtLen == predLen
	sentimentCorrect := aspectCorrect && allPolaritiesMatch

	if aspectCorrect {
		a.counts.AspectCorrectSentences++
	}

	if sentimentCorrect {
		a.counts.SentimentCorrectSentences++
	}

	if !sentimentCorrect {
		a.mismatches = append(a.mismatches, Mismatch{
			Text:        gt.Text,
			GroundTruth: orEmpty(gt.Aspects),
			Predicted:   orEmpty(pred.Aspects),
		})
	}
}

func (a *accumulator) result() Result {
	c := a.counts

	mismatches := a.mismatches
	if mismatches == nil {
		mismatches = []Mismatch{}
	}

	return Result{
		Counts: c,
		Metrics: Metrics{
			AspectAccuracy:    ratio(c.AspectCorrectSentences, c.TotalSentences),
			SentimentAccuracy: ratio(c.SentimentCorrectSentences, c.TotalSentences),
			Aspect:            scores(c.CorrectAspects, c.TotalPredictedAspects, c.TotalAspects),
			Sentiment:         scores(c.CorrectAspectSentiments, c.TotalPredictedAspects, c.TotalAspects),
		},
		Mismatches: mismatches,
	}
}

func scores(correct, predicted, gold int) Scores {
	p := ratio(correct, predicted)
	r := ratio(correct, gold)

	return Scores{Precision: p, Recall: r, F1: f1(p, r)}
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}

	return 2 * precision * recall / (precision + recall)
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}

	return float64(numerator) / float64(denominator)
}

func orEmpty(a *domain.Aspects) *domain.Aspects {
	if a == nil {
		return domain.NewAspects()
	}

	return a
}
