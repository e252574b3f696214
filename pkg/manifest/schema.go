package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidManifest is returned when a document does not match the schema.
var ErrInvalidManifest = errors.New("invalid standard json input")

//go:embed schema/standard-input.schema.json
var schemaJSON []byte

// Schema returns the embedded JSON Schema for Standard JSON Input documents.
func Schema() []byte {
	return schemaJSON
}

// Validate checks a serialized document against the embedded schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(problems, "; "))
}
