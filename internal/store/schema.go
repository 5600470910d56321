package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrSchemaMismatch is returned when a document body parses as JSON but its
// key set differs from the document schema.
var ErrSchemaMismatch = errors.New("document schema mismatch")

// decodeStrict unmarshals a document body and verifies its key set matches
// the target schema exactly, at every nesting level. Unknown keys and
// missing keys are both mismatches, so hand-edited documents either fit the
// current schema or get rewritten from defaults.
func decodeStrict(body []byte, out any) error {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("failed to parse document body: %w", err)
	}

	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &meta,
		Result:   out,
	})
	if err != nil {
		return fmt.Errorf("failed to build document decoder: %w", err)
	}
	if decodeErr := decoder.Decode(fields); decodeErr != nil {
		return fmt.Errorf("failed to decode document body: %w", decodeErr)
	}

	if len(meta.Unused) > 0 {
		return fmt.Errorf("%w: unknown keys %v", ErrSchemaMismatch, meta.Unused)
	}
	if len(meta.Unset) > 0 {
		return fmt.Errorf("%w: missing keys %v", ErrSchemaMismatch, meta.Unset)
	}
	return nil
}

// encodeDocument renders a document as indented JSON, the layout users edit
// by hand.
func encodeDocument(value any) ([]byte, error) {
	return json.MarshalIndent(value, "", "    ")
}
