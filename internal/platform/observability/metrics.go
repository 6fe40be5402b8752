package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
	"github.com/lueurxax/absa-eval/internal/eval"
)

const (
	taskAspect      = "aspect"
	taskSentiment   = "sentiment"
	textfileDirPerm = 0o755
)

// EvalMetrics holds the gauges describing one evaluation run. Each run gets its
// own registry so repeated runs in one process never collide.
type EvalMetrics struct {
	registry *prometheus.Registry

	Scores            *prometheus.GaugeVec
	SentenceAccuracy  *prometheus.GaugeVec
	Counts            *prometheus.GaugeVec
	MismatchSentences prometheus.Gauge
	MissingSentences  prometheus.Gauge
}

func NewEvalMetrics() *EvalMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &EvalMetrics{
		registry: reg,
		Scores: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "absa_eval_score",
			Help: "Precision, recall and F1 of the last evaluation run",
		}, []string{"task", "metric"}),
		SentenceAccuracy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "absa_eval_sentence_accuracy",
			Help: "Share of sentences whose aspects (or aspects and sentiments) fully match",
		}, []string{"task"}),
		Counts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "absa_eval_count",
			Help: "Raw tallies of the last evaluation run",
		}, []string{"kind"}),
		MismatchSentences: factory.NewGauge(prometheus.GaugeOpts{
			Name: "absa_eval_mismatched_sentences",
			Help: "Number of sentences whose prediction is not fully correct",
		}),
		MissingSentences: factory.NewGauge(prometheus.GaugeOpts{
			Name: "absa_eval_missing_sentences",
			Help: "Number of ground-truth sentences absent from the predictions",
		}),
	}
}

// Observe records a comparison result.
func (m *EvalMetrics) Observe(r eval.Result) {
	setScores(m.Scores, taskAspect, r.Metrics.Aspect)
	setScores(m.Scores, taskSentiment, r.Metrics.Sentiment)

	m.SentenceAccuracy.WithLabelValues(taskAspect).Set(r.Metrics.AspectAccuracy)
	m.SentenceAccuracy.WithLabelValues(taskSentiment).Set(r.Metrics.SentimentAccuracy)

	c := r.Counts
	m.Counts.WithLabelValues("total_sentences").Set(float64(c.TotalSentences))
	m.Counts.WithLabelValues("paired_sentences").Set(float64(c.PairedSentences))
	m.Counts.WithLabelValues("total_aspects").Set(float64(c.TotalAspects))
	m.Counts.WithLabelValues("total_predicted_aspects").Set(float64(c.TotalPredictedAspects))
	m.Counts.WithLabelValues("correct_aspects").Set(float64(c.CorrectAspects))
	m.Counts.WithLabelValues("correct_aspect_sentiments").Set(float64(c.CorrectAspectSentiments))
	m.Counts.WithLabelValues("aspect_correct_sentences").Set(float64(c.AspectCorrectSentences))
	m.Counts.WithLabelValues("sentiment_correct_sentences").Set(float64(c.SentimentCorrectSentences))

	m.MismatchSentences.Set(float64(len(r.Mismatches)))
}

// ObserveMissing records the missing-sentence count.
func (m *EvalMetrics) ObserveMissing(missing []string) {
	m.MissingSentences.Set(float64(len(missing)))
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *EvalMetrics) WriteTextfile(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), textfileDirPerm); err != nil {
		return fmt.Errorf("%w: create metrics directory: %w", apperrors.ErrIO, err)
	}

	if err := prometheus.WriteToTextfile(cleanPath, m.registry); err != nil {
		return fmt.Errorf("%w: write metrics textfile: %w", apperrors.ErrIO, err)
	}

	return nil
}

func setScores(vec *prometheus.GaugeVec, task string, s eval.Scores) {
	vec.WithLabelValues(task, "precision").Set(s.Precision)
	vec.WithLabelValues(task, "recall").Set(s.Recall)
	vec.WithLabelValues(task, "f1").Set(s.F1)
}
