package engine

import "errors"

// KeywordClass names one structural keyword of the act template.
type KeywordClass string

const (
	Nom         KeywordClass = "nom"
	Entier      KeywordClass = "entier"
	Abrege      KeywordClass = "abrege"
	DEntreprise KeywordClass = "dentreprise"
	LActe       KeywordClass = "lacte"
	Mentionner  KeywordClass = "mentionner"
)

// AllKeywordClasses lists the classes in a stable order.
func AllKeywordClasses() []KeywordClass {
	return []KeywordClass{Nom, Entier, Abrege, DEntreprise, LActe, Mentionner}
}

func (k KeywordClass) String() string { return string(k) }

// AnchorIndexSet maps each class to ascending, de-duplicated token indexes.
type AnchorIndexSet map[KeywordClass][]int

// ActAnchor is the outcome of the adaptive "l'acte" search.
type ActAnchor struct {
	Index      int
	Threshold  int
	Multiplier float64
	Resolved   bool
}

// TokenViews are the two normalization passes over one raw text.
// Both slices have one entry per whitespace-delimited word of the raw text.
type TokenViews struct {
	// Anchor has brackets and accents stripped.
	Anchor []string
	// Body additionally has apostrophes stripped.
	Body []string
}

// ExtractedFields is what the field extractor produces for one document.
type ExtractedFields struct {
	CompanyName      string
	CompanyIndicator string
	BodyText         string
	// BodyResolved is false when no act anchor was accepted; BodyText is then
	// empty because extraction failed, not because the body is short.
	BodyResolved bool
}

// Result bundles every engine output for one document.
type Result struct {
	Fields  ExtractedFields
	Purpose string
	Anchors AnchorIndexSet
	Act     ActAnchor
	Tokens  int
}

// ErrUnresolvedAnchor means the adaptive "l'acte" search found no candidate.
var ErrUnresolvedAnchor = errors.New("act body anchor unresolved")
