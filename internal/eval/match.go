package eval

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lueurxax/absa-eval/internal/core/domain"
	"github.com/lueurxax/absa-eval/internal/storage"
)

// MatchOptions controls how sentence texts are compared across files.
type MatchOptions struct {
	// Normalize compares texts after NFC normalization and trimming of
	// surrounding whitespace. Off by default: texts must match exactly.
	Normalize bool
}

func (o MatchOptions) key(text string) string {
	if !o.Normalize {
		return text
	}

	return norm.NFC.String(strings.TrimSpace(text))
}

// FindMissing returns ground-truth sentences with no equal sentence in
// predictions, sorted and de-duplicated. The check is one-directional.
func FindMissing(groundTruth, predictions domain.RecordSequence, opts MatchOptions) []string {
	present := make(map[string]struct{}, len(predictions))
	for _, rec := range predictions {
		present[opts.key(rec.Text)] = struct{}{}
	}

	seen := make(map[string]struct{})
	missing := []string{}

	for _, rec := range groundTruth {
		if _, ok := present[opts.key(rec.Text)]; ok {
			continue
		}

		if _, dup := seen[rec.Text]; dup {
			continue
		}

		seen[rec.Text] = struct{}{}
		missing = append(missing, rec.Text)
	}

	sort.Strings(missing)

	return missing
}

// FindExtra returns prediction sentences absent from groundTruth.
func FindExtra(groundTruth, predictions domain.RecordSequence, opts MatchOptions) []string {
	return FindMissing(predictions, groundTruth, opts)
}

// FindMissingFiles loads both files and runs FindMissing.
func FindMissingFiles(groundTruthPath, predictionsPath string, opts MatchOptions) ([]string, error) {
	gt, pred, err := loadPair(groundTruthPath, predictionsPath)
	if err != nil {
		return nil, err
	}

	return FindMissing(gt, pred, opts), nil
}

func loadPair(groundTruthPath, predictionsPath string) (domain.RecordSequence, domain.RecordSequence, error) {
	gt, err := storage.LoadRecords(groundTruthPath)
	if err != nil {
		return nil, nil, err
	}

	pred, err := storage.LoadRecords(predictionsPath)
	if err != nil {
		return nil, nil, err
	}

	return gt, pred, nil
}
