package constants

// Field is the stable key of one extracted value in every output format
// (JSON record, spreadsheet column, RPC struct, database column).
type Field string

const (
	FieldCompanyName      Field = "company_name"
	FieldCompanyIndicator Field = "company_indicator"
	FieldBodyText         Field = "body_text"
	FieldPurpose          Field = "purpose"
)

var allFields = []Field{
	FieldCompanyName,
	FieldCompanyIndicator,
	FieldBodyText,
	FieldPurpose,
}

// Fields returns the output fields in record order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// Header is the human-readable column title of f.
func (f Field) Header() string {
	switch f {
	case FieldCompanyName:
		return "Company Name"
	case FieldCompanyIndicator:
		return "Company Indicator"
	case FieldBodyText:
		return "Act Body"
	case FieldPurpose:
		return "Purpose"
	}
	return string(f)
}
