package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Output
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// JSON writes data as JSON to stdout
func JSON(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// YAMLTo writes data as YAML. The value goes through JSON first so field
// names follow the json tags.
func YAMLTo(w io.Writer, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(jsonNumbers(doc)); err != nil {
		return err
	}
	return enc.Close()
}

// jsonNumbers replaces json.Number with int64 or float64 so YAML prints
// them as numbers rather than strings
func jsonNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		for k, item := range t {
			t[k] = jsonNumbers(item)
		}
		return t
	case []interface{}:
		for i, item := range t {
			t[i] = jsonNumbers(item)
		}
		return t
	default:
		return v
	}
}

// Output writes data in the specified format to stdout
func Output(format string, data interface{}) error {
	return OutputTo(os.Stdout, format, data)
}

// OutputTo writes data in the specified format to w
func OutputTo(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatYAML:
		return YAMLTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s (want table, json or yaml)", format)
	}
}
