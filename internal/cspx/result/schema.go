package result

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema the result document is declared against:
// every object closed with additionalProperties:false, reflected from the
// same struct tags Document marshals through, so the schema can never
// drift from what the builder actually emits.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&Document{})
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "cspx result document"
	schema.Description = "Verification result document emitted by cspx, schema_version 0.1"
	return schema
}

// DecodeStrict parses data as a result document, rejecting any field the
// schema does not declare, at any nesting depth. This is the consuming
// side of the no-unknown-fields contract: a CI orchestrator (or a test)
// that round-trips a document through DecodeStrict knows it contains
// exactly the declared shape and nothing else.
func DecodeStrict(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("result: decoding document: %w", err)
	}
	return &doc, nil
}
