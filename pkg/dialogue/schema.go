package dialogue

import (
	"fmt"
	"sort"

	"github.com/go-go-golems/notegpt/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

// Schema describes a flat mapping: the keys it may contain, the type of
// each key, and which keys are mandatory. Keys that are not listed in
// Properties are rejected.
type Schema struct {
	Properties map[string]FieldType
	Required   []string
}

// ValidationError lists every problem found while validating a mapping.
// Kind is the sentinel the error unwraps to.
type ValidationError struct {
	Kind     error
	Problems []string
}

func (e *ValidationError) Error() string {
	ret := "invalid mapping"
	if e.Kind != nil {
		ret = e.Kind.Error()
	}
	if len(e.Problems) == 0 {
		return ret
	}
	ret += ":"
	for i, p := range e.Problems {
		if i > 0 {
			ret += ";"
		}
		ret += " " + p
	}
	return ret
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func (s Schema) jsonSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	for k, t := range s.Properties {
		properties[k] = map[string]interface{}{"type": string(t)}
	}
	ret := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(s.Required) > 0 {
		required := make([]interface{}, 0, len(s.Required))
		for _, r := range s.Required {
			required = append(required, r)
		}
		ret["required"] = required
	}
	return ret
}

// Validate checks doc, usually the result of decoding a YAML mapping,
// against the schema. The returned result holds the mapping on success and a
// *ValidationError (with Kind left nil for the caller to fill in) otherwise.
func (s Schema) Validate(doc interface{}) helpers.Result[map[string]interface{}] {
	m, ok := doc.(map[string]interface{})
	if !ok {
		return helpers.NewErrorResult[map[string]interface{}](&ValidationError{
			Problems: []string{fmt.Sprintf("expected a mapping, got %s", describe(doc))},
		})
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(s.jsonSchema()),
		gojsonschema.NewGoLoader(m),
	)
	if err != nil {
		return helpers.NewErrorResult[map[string]interface{}](&ValidationError{
			Problems: []string{errors.Wrap(err, "could not validate mapping").Error()},
		})
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		sort.Strings(problems)
		return helpers.NewErrorResult[map[string]interface{}](&ValidationError{Problems: problems})
	}

	return helpers.NewValueResult(m)
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case string:
		return "a string"
	case []interface{}:
		return "a sequence"
	case map[interface{}]interface{}:
		return "a mapping with non-string keys"
	default:
		return fmt.Sprintf("%T", v)
	}
}
