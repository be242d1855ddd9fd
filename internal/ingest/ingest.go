// Package ingest reads and writes record catalogs as JSON, YAML or TOML.
//
// A catalog is either a top-level list of flat objects or a document with a
// "records" list. Every object needs an "id"; other keys become fields.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vijay-prabhu/studyhub/internal/record"
)

// Format is a catalog file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// RecordsKey is the document key holding the record list
const RecordsKey = "records"

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// ReadFile reads a catalog file, choosing the format by extension
func ReadFile(path string) ([]record.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	records, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode parses catalog bytes in the given format
func Decode(data []byte, format Format) ([]record.Record, error) {
	var doc any

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		doc = m
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	items, err := recordList(doc)
	if err != nil {
		return nil, err
	}

	records := make([]record.Record, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, item)
		}
		r, err := record.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func recordList(doc any) ([]any, error) {
	switch t := doc.(type) {
	case []any:
		return t, nil
	case []map[string]any:
		items := make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
		return items, nil
	case map[string]any:
		raw, ok := t[RecordsKey]
		if !ok {
			return nil, fmt.Errorf("document has no %q list", RecordsKey)
		}
		return recordList(raw)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected a list of records, got %T", doc)
	}
}

// WriteFile writes records to path, choosing the format by extension
func WriteFile(path string, records []record.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, records, format); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes records in the given format. JSON and YAML are written as
// a top-level list; TOML as an array of "records" tables.
func Encode(w io.Writer, records []record.Record, format Format) error {
	docs := make([]map[string]any, len(records))
	for i, r := range records {
		docs[i] = r.ToMap()
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(map[string]any{RecordsKey: docs}); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}
