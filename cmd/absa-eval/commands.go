package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lueurxax/absa-eval/internal/app"
	"github.com/lueurxax/absa-eval/internal/platform/config"
)

const (
	flagXML             = "xml"
	flagOut             = "out"
	flagGroundTruth     = "ground-truth"
	flagPredictions     = "predictions"
	flagPairing         = "pairing"
	flagNormalize       = "normalize"
	flagMinAspectF1     = "min-aspect-f1"
	flagMinSentimentF1  = "min-sentiment-f1"
	flagReportJSON      = "report-json"
	flagMetricsTextfile = "metrics-textfile"
)

// cliOptions holds flag values. Only flags the user set override the environment.
type cliOptions struct {
	xmlPath         string
	outPath         string
	groundTruth     string
	predictions     string
	pairing         string
	normalize       bool
	minAspectF1     float64
	minSentimentF1  float64
	reportJSON      string
	metricsTextfile string
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "absa-eval",
		Short: "Score aspect-based sentiment predictions against ground truth",
		Long: `absa-eval converts XML aspect annotations into JSON and compares
prediction files against that ground truth, reporting aspect detection and
aspect sentiment precision, recall, F1 and sentence-level accuracy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		buildConvertCmd(),
		buildMissingCmd(),
		buildCompareCmd(),
		buildRunCmd(),
	)

	return rootCmd
}

func buildConvertCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "convert",
		Short:   "Convert XML annotations to the JSON interchange format",
		Example: `  absa-eval convert --xml laptops-trial.xml --out laptops-trial.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			return a.Convert()
		},
	}

	cmd.Flags().StringVar(&opts.xmlPath, flagXML, "", "XML annotation file (env XML_SOURCE_PATH)")
	cmd.Flags().StringVar(&opts.outPath, flagOut, "", "Output JSON file (env CONVERTED_JSON_PATH)")

	return cmd
}

func buildMissingCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List ground-truth sentences absent from the predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			return a.Missing()
		},
	}

	addInputFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.normalize, flagNormalize, false, "Match sentences after NFC normalization and trimming (env NORMALIZE_TEXT)")

	return cmd
}

func buildCompareCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Report aspect and sentiment metrics with mismatched sentences",
		Example: `  absa-eval compare --ground-truth laptops-trial.json --predictions gemini_result.json
  absa-eval compare --pairing text --min-aspect-f1 0.7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			return a.Compare()
		},
	}

	addInputFlags(cmd, opts)
	addCompareFlags(cmd, opts)

	return cmd
}

func buildRunCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the missing-sentence check followed by the comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			return a.Run()
		},
	}

	addInputFlags(cmd, opts)
	addCompareFlags(cmd, opts)

	return cmd
}

func addInputFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringVar(&opts.groundTruth, flagGroundTruth, "", "Ground-truth JSON file (env GROUND_TRUTH_JSON_PATH)")
	cmd.Flags().StringVar(&opts.predictions, flagPredictions, "", "Predictions JSON file (env PREDICTIONS_JSON_PATH)")
}

func addCompareFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringVar(&opts.pairing, flagPairing, "", "Pair records by \"position\" or \"text\" (env PAIRING_MODE)")
	cmd.Flags().BoolVar(&opts.normalize, flagNormalize, false, "Match sentences after NFC normalization and trimming (env NORMALIZE_TEXT)")
	cmd.Flags().Float64Var(&opts.minAspectF1, flagMinAspectF1, -1, "Fail if aspect F1 is below this value, disabled if <0 (env MIN_ASPECT_F1)")
	cmd.Flags().Float64Var(&opts.minSentimentF1, flagMinSentimentF1, -1, "Fail if sentiment F1 is below this value, disabled if <0 (env MIN_SENTIMENT_F1)")
	cmd.Flags().StringVar(&opts.reportJSON, flagReportJSON, "", "Write the structured result to this JSON file (env REPORT_JSON_PATH)")
	cmd.Flags().StringVar(&opts.metricsTextfile, flagMetricsTextfile, "", "Write Prometheus textfile metrics to this path (env METRICS_TEXTFILE_PATH)")
}

func newApp(cmd *cobra.Command, opts *cliOptions) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, opts, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	logger := newLogger(cfg.AppEnv, cfg.LogLevel)

	return app.New(cfg, &logger, cmd.OutOrStdout()), nil
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command, opts *cliOptions, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed(flagXML) {
		cfg.Paths.XMLSource = opts.xmlPath
	}

	if changed(flagOut) {
		cfg.Paths.ConvertedJSON = opts.outPath
	}

	if changed(flagGroundTruth) {
		cfg.Paths.GroundTruthJSON = opts.groundTruth
	}

	if changed(flagPredictions) {
		cfg.Paths.PredictionsJSON = opts.predictions
	}

	if changed(flagPairing) {
		cfg.Eval.PairingMode = config.NormalizePairingMode(opts.pairing)
	}

	if changed(flagNormalize) {
		cfg.Eval.NormalizeText = opts.normalize
	}

	if changed(flagMinAspectF1) {
		cfg.Eval.MinAspectF1 = opts.minAspectF1
	}

	if changed(flagMinSentimentF1) {
		cfg.Eval.MinSentimentF1 = opts.minSentimentF1
	}

	if changed(flagReportJSON) {
		cfg.Outputs.ReportJSON = opts.reportJSON
	}

	if changed(flagMetricsTextfile) {
		cfg.Outputs.MetricsTextfile = opts.metricsTextfile
	}
}
