// Package annotation converts XML ground-truth annotations into record sequences.
//
// The accepted document has a root element of any name whose direct <sentence>
// children each hold a <text> element and an optional <aspectTerms> list:
//
//	<sentences>
//	  <sentence id="1">
//	    <text>Good battery</text>
//	    <aspectTerms>
//	      <aspectTerm term="battery" polarity="positive" from="5" to="12"/>
//	    </aspectTerms>
//	  </sentence>
//	</sentences>
package annotation

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/net/html/charset"

	"github.com/lueurxax/absa-eval/internal/core/domain"
	apperrors "github.com/lueurxax/absa-eval/internal/core/errors"
	"github.com/lueurxax/absa-eval/internal/storage"
)

const fieldText = "text"

type xmlDocument struct {
	Sentences []xmlSentence `xml:"sentence"`
}

type xmlSentence struct {
	ID          string          `xml:"id,attr"`
	Text        *string         `xml:"text"`
	AspectTerms *xmlAspectTerms `xml:"aspectTerms"`
}

type xmlAspectTerms struct {
	Terms []xmlAspectTerm `xml:"aspectTerm"`
}

type xmlAspectTerm struct {
	Term     string `xml:"term,attr"`
	Polarity string `xml:"polarity,attr"`
}

// Convert parses an annotation document. source names the input in errors.
func Convert(r io.Reader, source string) (domain.RecordSequence, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc xmlDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrParse, source, err)
	}

	seq := make(domain.RecordSequence, 0, len(doc.Sentences))

	for i, s := range doc.Sentences {
		if s.Text == nil {
			return nil, apperrors.NewMissingField(source, i, fieldText)
		}

		aspects := domain.NewAspects()

		if s.AspectTerms != nil {
			for _, at := range s.AspectTerms.Terms {
				aspects.Set(at.Term, at.Polarity)
			}
		}

		seq = append(seq, domain.SentenceRecord{Text: *s.Text, Aspects: aspects})
	}

	return seq, nil
}

// ConvertFile parses the annotation document at xmlPath.
func ConvertFile(xmlPath string) (domain.RecordSequence, error) {
	f, err := os.Open(filepath.Clean(xmlPath))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperrors.ErrIO, xmlPath, err)
	}
	defer f.Close()

	return Convert(f, xmlPath)
}

// ConvertToFile parses xmlPath and writes the normalized records to jsonPath,
// replacing any existing file.
func ConvertToFile(xmlPath, jsonPath string) (domain.RecordSequence, error) {
	seq, err := ConvertFile(xmlPath)
	if err != nil {
		return nil, err
	}

	if err := storage.WriteRecords(jsonPath, seq); err != nil {
		return nil, fmt.Errorf("write %s: %w", jsonPath, err)
	}

	return seq, nil
}
