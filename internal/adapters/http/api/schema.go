package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/innings/internal/domain/player"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// envelopeKey wraps a record in the form {"player_data": {...}}.
const envelopeKey = "player_data"

// recordValidator checks decoded request bodies against the schema of each
// player kind.
type recordValidator struct {
	schemas map[player.Kind]*jsonschema.Schema
}

func newRecordValidator() (*recordValidator, error) {
	c := jsonschema.NewCompiler()
	v := &recordValidator{schemas: make(map[player.Kind]*jsonschema.Schema, len(player.Kinds()))}

	for _, kind := range player.Kinds() {
		name := fmt.Sprintf("schemas/%s.schema.json", kind)
		raw, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		url := "schema://innings/" + name
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		v.schemas[kind] = sch
	}
	return v, nil
}

// Validate checks inst against the schema for kind. When inst fails but
// matches the other kind's schema the result wraps ErrPayloadMismatch.
func (v *recordValidator) Validate(kind player.Kind, inst any) error {
	err := v.schemas[kind].Validate(inst)
	if err == nil {
		return nil
	}
	if v.schemas[kind.Other()].Validate(inst) == nil {
		return fmt.Errorf("%w: body is a %s record", ErrPayloadMismatch, kind.Other())
	}
	return errors.New(validationMessage(err))
}

// validationMessage flattens a multi-line schema error to one line.
func validationMessage(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "; ")
}

// unwrapEnvelope returns the record inside {"player_data": {...}} or inst
// unchanged when it is not an envelope. Other top-level keys are ignored.
func unwrapEnvelope(inst any) any {
	obj, ok := inst.(map[string]any)
	if !ok {
		return inst
	}
	if inner, ok := obj[envelopeKey].(map[string]any); ok {
		return inner
	}
	return inst
}
