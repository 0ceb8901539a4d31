// Package engine locates structural keywords in noisy OCR text of French
// company acts and slices the company name, the company indicator, the act body
// and a short purpose excerpt out of it.
//
// Everything in this package is a pure function of its inputs. An Engine holds
// only an immutable Tuning and may be shared between goroutines.
package engine

import (
	"errors"
	"strings"
)

// Engine runs the whole extraction for one document at a time.
type Engine struct {
	tuning Tuning
}

// New validates t and returns an Engine bound to a private copy of it.
func New(t Tuning) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	kw := make(map[KeywordClass]string, len(t.Keywords))
	for k, v := range t.Keywords {
		kw[k] = v
	}
	t.Keywords = kw
	return &Engine{tuning: t}, nil
}

// Default is an Engine with DefaultTuning.
func Default() *Engine {
	e, err := New(DefaultTuning())
	if err != nil {
		panic(err)
	}
	return e
}

// Tuning returns a copy of the engine's settings.
func (e *Engine) Tuning() Tuning {
	t := e.tuning
	kw := make(map[KeywordClass]string, len(t.Keywords))
	for k, v := range t.Keywords {
		kw[k] = v
	}
	t.Keywords = kw
	return t
}

// Process extracts every field from raw. When the act body cannot be located
// the partial Result is returned together with ErrUnresolvedAnchor.
func (e *Engine) Process(raw string) (Result, error) {
	views := Views(raw)
	anchors, act := LocateAnchors(strings.Fields(raw), e.tuning)

	res := Result{Anchors: anchors, Act: act, Tokens: len(views.Anchor)}
	fields, err := ExtractFields(views, anchors, e.tuning)
	res.Fields = fields
	if err != nil {
		if errors.Is(err, ErrUnresolvedAnchor) {
			return res, err
		}
		return Result{}, err
	}
	res.Purpose = ExtractPurpose(fields.BodyText, e.tuning.Purpose)
	return res, nil
}
