package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// jsonLDDocumentSchema is the minimum shape a JSON-LD block must have.
const jsonLDDocumentSchema = `{
	"type": "object",
	"required": ["@context", "@type"],
	"properties": {
		"@context": {"type": ["string", "object", "array"]},
		"@type": {"type": ["string", "array"]}
	}
}`

func jsonLDSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("jsonld.json", strings.NewReader(jsonLDDocumentSchema)); err != nil {
		panic(fmt.Sprintf("seo: add json-ld schema: %v", err))
	}
	return compiler.MustCompile("jsonld.json")
}

// decodeJSONLD parses a JSON-LD script body. Top-level arrays are flattened
// into their elements.
func decodeJSONLD(raw string) ([]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		return list, nil
	}
	return []any{v}, nil
}

// hasType reports whether a decoded JSON-LD node is typed as typ.
func hasType(node any, typ string) bool {
	obj, ok := node.(map[string]any)
	if !ok {
		return false
	}
	switch t := obj["@type"].(type) {
	case string:
		return t == typ
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == typ {
				return true
			}
		}
	}
	return false
}
