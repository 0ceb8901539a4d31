package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MarshalJSON renders records as a 4-space indented array. Non-ASCII and
// HTML characters are written as-is.
func MarshalJSON(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func WriteJSON(w io.Writer, records []Record) error {
	b, err := MarshalJSON(records)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteJSONFile writes records to path through a temporary file in the same
// directory, so readers never see a partial file.
func WriteJSONFile(path string, records []Record) error {
	b, err := MarshalJSON(records)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadJSON decodes a file written by WriteJSON.
func ReadJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	var out []Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}
