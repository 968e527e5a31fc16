package dsl

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpecYAML decodes a Spec from YAML. Unknown keys are rejected so typos
// in spec files surface early.
func LoadSpecYAML(data []byte) (Spec, error) {
	var sp Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sp); err != nil {
		return Spec{}, fmt.Errorf("dsl: decode spec: %w", err)
	}
	if sp.Name == "" {
		return Spec{}, fmt.Errorf("%w: spec has no name", ErrInvalidSchema)
	}
	return sp, nil
}
