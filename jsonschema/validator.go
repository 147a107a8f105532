// Package jsonschema validates manifests read from disk against the
// embedded manifest schema.
package jsonschema

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"github.com/fwojciec/dossier"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed manifest.schema.json
var manifestSchema []byte

const schemaURL = "manifest.schema.json"

var _ dossier.ManifestValidator = (*Validator)(nil)

// Validator implements dossier.ManifestValidator.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded manifest schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(manifestSchema)); err != nil {
		return nil, dossier.Errorf(dossier.EINTERNAL, "add schema: %v", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, dossier.Errorf(dossier.EINTERNAL, "compile schema: %v", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateManifest reports EINVALID when data is not a manifest.
func (v *Validator) ValidateManifest(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return dossier.Errorf(dossier.EINVALID, "manifest is not valid JSON: %v", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return dossier.Errorf(dossier.EINVALID, "manifest does not match schema: %v", err)
	}
	return nil
}
