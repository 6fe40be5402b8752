package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
	"github.com/lueurxax/absa-eval/internal/eval"
)

const maxScore = 1.0

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Paths   PathsConfig
	Eval    EvalConfig
	Outputs OutputsConfig
}

// PathsConfig holds the input and output file locations.
type PathsConfig struct {
	XMLSource       string `env:"XML_SOURCE_PATH" envDefault:"laptops-trial.xml"`
	ConvertedJSON   string `env:"CONVERTED_JSON_PATH" envDefault:"laptops-trial.json"`
	GroundTruthJSON string `env:"GROUND_TRUTH_JSON_PATH" envDefault:"laptops-trial.json"`
	PredictionsJSON string `env:"PREDICTIONS_JSON_PATH" envDefault:"gemini_result.json"`
}

// EvalConfig holds comparison settings.
type EvalConfig struct {
	PairingMode    string  `env:"PAIRING_MODE" envDefault:"position"`
	NormalizeText  bool    `env:"NORMALIZE_TEXT" envDefault:"false"`
	MinAspectF1    float64 `env:"MIN_ASPECT_F1" envDefault:"-1"`
	MinSentimentF1 float64 `env:"MIN_SENTIMENT_F1" envDefault:"-1"`
}

// OutputsConfig holds optional machine-readable outputs. Empty disables.
type OutputsConfig struct {
	ReportJSON      string `env:"REPORT_JSON_PATH"`
	MetricsTextfile string `env:"METRICS_TEXTFILE_PATH"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	cfg.Eval.PairingMode = NormalizePairingMode(cfg.Eval.PairingMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that the env tags cannot express.
// NormalizePairingMode folds case and surrounding space so "TEXT " selects text pairing.
func NormalizePairingMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

func (c *Config) Validate() error {
	if err := eval.ValidatePairing(c.Eval.PairingMode); err != nil {
		return err
	}

	if c.Eval.MinAspectF1 > maxScore {
		return fmt.Errorf("%w: MIN_ASPECT_F1 %.3f exceeds %.1f", apperrors.ErrInvalidInput, c.Eval.MinAspectF1, maxScore)
	}

	if c.Eval.MinSentimentF1 > maxScore {
		return fmt.Errorf("%w: MIN_SENTIMENT_F1 %.3f exceeds %.1f", apperrors.ErrInvalidInput, c.Eval.MinSentimentF1, maxScore)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL: %w", apperrors.ErrInvalidInput, err)
	}

	return nil
}

// CompareOptions maps the eval settings onto comparator options.
func (c *Config) CompareOptions() eval.CompareOptions {
	return eval.CompareOptions{
		Pairing: c.Eval.PairingMode,
		Match:   eval.MatchOptions{Normalize: c.Eval.NormalizeText},
	}
}

// Thresholds maps the eval settings onto quality gates.
func (c *Config) Thresholds() eval.Thresholds {
	return eval.Thresholds{
		MinAspectF1:    c.Eval.MinAspectF1,
		MinSentimentF1: c.Eval.MinSentimentF1,
	}
}
