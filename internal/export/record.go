// Package export writes extraction records as JSON or as a spreadsheet.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
)

// Record is the persisted shape of one document. Field order is part of the
// output format.
type Record struct {
	CompanyName      string `json:"company_name"`
	CompanyIndicator string `json:"company_indicator"`
	BodyText         string `json:"body_text"`
	Purpose          string `json:"purpose"`
}

// FromExtraction builds a record with the translated body and purpose,
// falling back to the French text when no translation is stored.
func FromExtraction(e entity.Extraction) Record {
	return Record{
		CompanyName:      e.CompanyName,
		CompanyIndicator: e.CompanyIndicator,
		BodyText:         e.TranslatedBody(),
		Purpose:          e.TranslatedPurpose(),
	}
}

func FromExtractions(es []entity.Extraction) []Record {
	out := make([]Record, 0, len(es))
	for _, e := range es {
		out = append(out, FromExtraction(e))
	}
	return out
}

// Value returns the record's value for f.
func (r Record) Value(f constants.Field) string {
	switch f {
	case constants.FieldCompanyName:
		return r.CompanyName
	case constants.FieldCompanyIndicator:
		return r.CompanyIndicator
	case constants.FieldBodyText:
		return r.BodyText
	case constants.FieldPurpose:
		return r.Purpose
	}
	return ""
}

// RecordsJSONSchema describes the JSON array WriteJSON produces.
func RecordsJSONSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, len(constants.Fields()))
	for _, f := range constants.Fields() {
		props[string(f)] = map[string]any{"type": "string"}
		required = append(required, string(f))
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           props,
			"required":             required,
		},
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(RecordsJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("records.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile("records.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Validate checks that data is a JSON array of records.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
