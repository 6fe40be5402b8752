// Package storage reads and writes the JSON interchange files shared by the
// converter, the missing-sentence finder and the comparator.
//
// The interchange format is a single indented JSON array:
//
//	[ { "Sentence": "...", "Aspects": { "term": "polarity" } }, ... ]
//
// Every element must carry both keys. Aspect order is preserved on load and save.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lueurxax/absa-eval/internal/core/domain"
	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
)

const (
	jsonIndent    = "    "
	outputDirPerm = 0o755
	outputPerm    = 0o644

	fieldSentence = "Sentence"
	fieldAspects  = "Aspects"
)

// wireRecord distinguishes absent keys from zero values.
type wireRecord struct {
	Sentence *string         `json:"Sentence"`
	Aspects  *domain.Aspects `json:"Aspects"`
}

// LoadRecords reads a record sequence from path.
func LoadRecords(path string) (domain.RecordSequence, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperrors.ErrIO, path, err)
	}
	defer f.Close()

	return DecodeRecords(f, path)
}

// DecodeRecords parses a JSON array of records. source names the input in errors.
func DecodeRecords(r io.Reader, source string) (domain.RecordSequence, error) {
	dec := json.NewDecoder(r)

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrParse, source, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON array, got null", apperrors.ErrParse, source)
	}

	// The document is exactly one array; anything after it is corruption.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: unexpected data after the record array", apperrors.ErrParse, source)
	}

	seq := make(domain.RecordSequence, 0, len(raw))

	for i, item := range raw {
		rec, err := decodeRecord(item, source, i)
		if err != nil {
			return nil, err
		}

		seq = append(seq, rec)
	}

	return seq, nil
}

func decodeRecord(item json.RawMessage, source string, index int) (domain.SentenceRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(item, &w); err != nil {
		return domain.SentenceRecord{}, &apperrors.RecordError{
			Path:  source,
			Index: index,
			Err:   fmt.Errorf("%w: %w", apperrors.ErrParse, err),
		}
	}

	if w.Sentence == nil {
		return domain.SentenceRecord{}, apperrors.NewMissingField(source, index, fieldSentence)
	}

	if w.Aspects == nil {
		return domain.SentenceRecord{}, apperrors.NewMissingField(source, index, fieldAspects)
	}

	return domain.SentenceRecord{Text: *w.Sentence, Aspects: w.Aspects}, nil
}

// EncodeRecords writes seq as an indented JSON array followed by a newline.
func EncodeRecords(w io.Writer, seq domain.RecordSequence) error {
	if seq == nil {
		seq = domain.RecordSequence{}
	}

	return encodeIndented(w, seq)
}

// WriteRecords replaces the file at path with the encoded sequence.
func WriteRecords(path string, seq domain.RecordSequence) error {
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, seq); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

// WriteJSON replaces the file at path with v encoded as indented JSON.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	if err := encodeIndented(&buf, v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}

func writeFileAtomic(path string, data []byte) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), outputDirPerm); err != nil {
		return fmt.Errorf("%w: create output directory: %w", apperrors.ErrIO, err)
	}

	tmp := cleanPath + ".tmp"
	if err := os.WriteFile(tmp, data, outputPerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperrors.ErrIO, tmp, err)
	}

	if err := os.Rename(tmp, cleanPath); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("%w: rename %s: %w", apperrors.ErrIO, tmp, err)
	}

	return nil
}
