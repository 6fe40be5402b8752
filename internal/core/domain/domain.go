package domain

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SentenceRecord is one annotated or predicted sentence.
type SentenceRecord struct {
	Text    string   `json:"Sentence"`
	Aspects *Aspects `json:"Aspects"`
}

// RecordSequence is an ordered list of sentence records. Position is significant:
// the comparator pairs two sequences index by index.
type RecordSequence []SentenceRecord

// Texts returns the sentence texts in sequence order.
func (s RecordSequence) Texts() []string {
	out := make([]string, len(s))
	for i, rec := range s {
		out[i] = rec.Text
	}

	return out
}

// AspectTerm is a single term -> polarity pair.
type AspectTerm struct {
	Term     string `json:"term"`
	Polarity string `json:"polarity"`
}

// Aspects maps aspect terms to polarity labels, keeping insertion order so
// serialized output is stable and mirrors the source document.
type Aspects struct {
	terms *orderedmap.OrderedMap[string, string]
}

// NewAspects builds an aspect map from the given pairs. Later duplicates
// overwrite earlier ones.
func NewAspects(pairs ...AspectTerm) *Aspects {
	a := &Aspects{terms: orderedmap.New[string, string]()}
	for _, p := range pairs {
		a.Set(p.Term, p.Polarity)
	}

	return a
}

// Set assigns polarity to term. An existing term keeps its position.
func (a *Aspects) Set(term, polarity string) {
	if a.terms == nil {
		a.terms = orderedmap.New[string, string]()
	}

	a.terms.Set(term, polarity)
}

// Get returns the polarity of term and whether the term is present.
func (a *Aspects) Get(term string) (string, bool) {
	if a == nil || a.terms == nil {
		return "", false
	}

	return a.terms.Get(term)
}

// Len returns the number of distinct terms. A nil map has length zero.
func (a *Aspects) Len() int {
	if a == nil || a.terms == nil {
		return 0
	}

	return a.terms.Len()
}

// Terms returns the pairs in insertion order.
func (a *Aspects) Terms() []AspectTerm {
	if a == nil || a.terms == nil {
		return nil
	}

	out := make([]AspectTerm, 0, a.terms.Len())
	for pair := a.terms.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, AspectTerm{Term: pair.Key, Polarity: pair.Value})
	}

	return out
}

// String renders the map as {"term": "polarity", ...} in insertion order.
func (a *Aspects) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, t := range a.Terms() {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(strconv.Quote(t.Term))
		b.WriteString(": ")
		b.WriteString(strconv.Quote(t.Polarity))
	}

	b.WriteByte('}')

	return b.String()
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (a *Aspects) MarshalJSON() ([]byte, error) {
	if a == nil || a.terms == nil {
		return []byte("{}"), nil
	}

	return a.terms.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, preserving key order. Every polarity
// must be a string; null is rejected rather than read as "".
func (a *Aspects) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, *string]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	a.terms = orderedmap.New[string, string]()

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			return fmt.Errorf("aspect %q: polarity is null", pair.Key)
		}

		a.terms.Set(pair.Key, *pair.Value)
	}

	return nil
}
