package eval

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport renders r as the human-readable evaluation report.
func WriteReport(w io.Writer, r Result) error {
	var b strings.Builder

	m := r.Metrics

	fmt.Fprintf(&b, "Aspect Extraction Accuracy:\n")
	fmt.Fprintf(&b, "  Aspect Sentence Accuracy: %.2f\n", m.AspectAccuracy)

	fmt.Fprintf(&b, "\nAspect Sentiment Accuracy:\n")
	fmt.Fprintf(&b, "  Sentiment Sentence Accuracy: %.2f\n", m.SentimentAccuracy)

	writeScores(&b, "Aspect Detection Metrics", m.Aspect)
	writeScores(&b, "Aspect Sentiment Metrics", m.Sentiment)

	if len(r.Mismatches) > 0 {
		fmt.Fprintf(&b, "\nMismatched Sentences (%d):\n", len(r.Mismatches))

		for i, mm := range r.Mismatches {
			fmt.Fprintf(&b, "%d. Sentence: %s\n", i+1, mm.Text)
			fmt.Fprintf(&b, "  Ground Truth: %s\n", mm.GroundTruth)
			fmt.Fprintf(&b, "  Prediction: %s\n\n", mm.Predicted)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeScores(b *strings.Builder, title string, s Scores) {
	fmt.Fprintf(b, "\n%s:\n", title)
	fmt.Fprintf(b, "  Precision: %.2f\n", s.Precision)
	fmt.Fprintf(b, "  Recall: %.2f\n", s.Recall)
	fmt.Fprintf(b, "  F1-Score: %.2f\n", s.F1)
}

// WriteMissing renders the missing-sentence listing.
func WriteMissing(w io.Writer, missing []string) error {
	var b strings.Builder

	if len(missing) == 0 {
		b.WriteString("No sentences are missing.\n")
	} else {
		b.WriteString("Missing Sentences:\n")

		for _, s := range missing {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}
