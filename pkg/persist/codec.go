// Package persist encodes documents and writes them to disk in one step.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
)

// Default indentation for pretty-printed output.
const defaultIndent = "  "

// yamlIndent is the YAML block indentation width.
const yamlIndent = 2

// Codec defines how a document is serialized.
type Codec interface {
	// Encode writes value to the writer.
	Encode(w io.Writer, value any) error
	// Extension returns the file extension for this codec (e.g., ".json").
	Extension() string
}

// JSONCodec encodes UTF-8 JSON. Map keys are sorted and HTML characters are
// left unescaped, so equal values always encode to equal bytes.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a compact JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// NewPrettyJSONCodec creates a JSON codec with 2-space indentation.
func NewPrettyJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode. The trailing newline written by
// json.Encoder is kept only for indented output.
func (c *JSONCodec) Encode(w io.Writer, value any) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	data := buf.Bytes()
	if c.Indent == "" {
		data = bytes.TrimSuffix(data, []byte("\n"))
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("json write: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec encodes YAML documents.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using yaml.v3.
func (c *YAMLCodec) Encode(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml flush: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// Marshal encodes value fully in memory.
func Marshal(codec Codec, value any) ([]byte, error) {
	var buf bytes.Buffer

	err := codec.Encode(&buf, value)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
