package entity

import (
	"time"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

// Extraction is one processed document, for data transfer between layers.
// Body and purpose are kept both in French and in the translated form.
type Extraction struct {
	ID          string                     `json:"id"`
	SourcePath  string                     `json:"source_path,omitempty"`
	ContentHash string                     `json:"content_hash,omitempty"`
	Format      string                     `json:"format"`
	Status      constants.ExtractionStatus `json:"status"`

	CompanyName      string `json:"company_name"`
	CompanyIndicator string `json:"company_indicator"`
	BodyText         string `json:"body_text"`
	Purpose          string `json:"purpose"`

	BodyTextTranslated string `json:"body_text_translated,omitempty"`
	PurposeTranslated  string `json:"purpose_translated,omitempty"`
	TargetLanguage     string `json:"target_language,omitempty"`

	// Diagnostics of the act body search; ActIndex is -1 when unresolved.
	ActIndex     int `json:"act_index"`
	ActThreshold int `json:"act_threshold"`
	Tokens       int `json:"tokens"`

	OCRMethod    string    `json:"ocr_method,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TranslatedBody returns the translated body, or the French one when no
// translation was made.
func (e Extraction) TranslatedBody() string {
	if e.BodyTextTranslated != "" {
		return e.BodyTextTranslated
	}
	return e.BodyText
}

// TranslatedPurpose returns the translated purpose, or the French one when no
// translation was made.
func (e Extraction) TranslatedPurpose() string {
	if e.PurposeTranslated != "" {
		return e.PurposeTranslated
	}
	return e.Purpose
}
