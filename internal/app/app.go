// Package app wires configuration, logging and the evaluation components and
// exposes one method per operational mode:
//
//   - Convert: XML annotations to the JSON interchange format
//   - Missing: ground-truth sentences absent from the predictions
//   - Compare: aspect and sentiment metrics with the mismatch report
//   - Run: the evaluation driver, Missing followed by Compare
//
// Reports go to the configured writer; diagnostics go to the logger.
package app

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/absa-eval/internal/annotation"
	"github.com/lueurxax/absa-eval/internal/eval"
	"github.com/lueurxax/absa-eval/internal/platform/config"
	"github.com/lueurxax/absa-eval/internal/platform/observability"
	"github.com/lueurxax/absa-eval/internal/storage"
)

const (
	logFieldRunID       = "run_id"
	logFieldPath        = "path"
	logFieldGroundTruth = "ground_truth"
	logFieldPredictions = "predictions"
	logFieldSentences   = "sentences"
	logFieldMissing     = "missing"
	logFieldExtra       = "extra"
	logFieldMismatches  = "mismatches"
)

// App holds the application dependencies.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
	out    io.Writer
}

// New creates a new App instance. Reports are written to out.
func New(cfg *config.Config, logger *zerolog.Logger, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}
}

// Convert turns the XML source into the converted JSON file.
func (a *App) Convert() error {
	src := a.cfg.Paths.XMLSource
	dst := a.cfg.Paths.ConvertedJSON

	seq, err := annotation.ConvertToFile(src, dst)
	if err != nil {
		return fmt.Errorf("convert annotations: %w", err)
	}

	a.logger.Info().Str(logFieldPath, dst).Int(logFieldSentences, len(seq)).Msg("Converted annotations")

	if _, err := fmt.Fprintf(a.out, "JSON file saved to %s\n", dst); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// Missing prints the ground-truth sentences absent from the predictions.
func (a *App) Missing() error {
	_, err := a.missing(observability.NewEvalMetrics())

	return err
}

// Compare prints the metrics report and applies the quality gates.
func (a *App) Compare() error {
	return a.compare(observability.NewEvalMetrics())
}

// Run executes the evaluation driver: the missing-sentence check followed by
// the comparison. Both feed the same metrics export.
func (a *App) Run() error {
	logger := a.logger.With().Str(logFieldRunID, uuid.NewString()).Logger()
	run := &App{cfg: a.cfg, logger: &logger, out: a.out}

	metrics := observability.NewEvalMetrics()

	if _, err := run.missing(metrics); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(run.out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return run.compare(metrics)
}

func (a *App) missing(metrics *observability.EvalMetrics) ([]string, error) {
	gt, err := storage.LoadRecords(a.cfg.Paths.GroundTruthJSON)
	if err != nil {
		return nil, fmt.Errorf("load ground truth: %w", err)
	}

	pred, err := storage.LoadRecords(a.cfg.Paths.PredictionsJSON)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}

	match := a.cfg.CompareOptions().Match
	missing := eval.FindMissing(gt, pred, match)
	extra := eval.FindExtra(gt, pred, match)

	a.logger.Info().
		Str(logFieldGroundTruth, a.cfg.Paths.GroundTruthJSON).
		Str(logFieldPredictions, a.cfg.Paths.PredictionsJSON).
		Int(logFieldMissing, len(missing)).
		Int(logFieldExtra, len(extra)).
		Msg("Checked sentence coverage")

	if err := eval.WriteMissing(a.out, missing); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	metrics.ObserveMissing(missing)

	return missing, nil
}

func (a *App) compare(metrics *observability.EvalMetrics) error {
	result, err := eval.CompareFiles(a.cfg.Paths.GroundTruthJSON, a.cfg.Paths.PredictionsJSON, a.cfg.CompareOptions())
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	a.logger.Info().
		Int(logFieldSentences, result.Counts.TotalSentences).
		Int(logFieldMismatches, len(result.Mismatches)).
		Float64("aspect_f1", result.Metrics.Aspect.F1).
		Float64("sentiment_f1", result.Metrics.Sentiment.F1).
		Msg("Compared predictions")

	if err := eval.WriteReport(a.out, result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	metrics.Observe(result)

	if err := a.writeOutputs(result, metrics); err != nil {
		return err
	}

	return eval.CheckThresholds(result, a.cfg.Thresholds())
}

func (a *App) writeOutputs(result eval.Result, metrics *observability.EvalMetrics) error {
	if path := a.cfg.Outputs.ReportJSON; path != "" {
		if err := storage.WriteJSON(path, result); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		a.logger.Debug().Str(logFieldPath, path).Msg("Wrote JSON report")
	}

	if path := a.cfg.Outputs.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return err
		}

		a.logger.Debug().Str(logFieldPath, path).Msg("Wrote metrics textfile")
	}

	return nil
}
