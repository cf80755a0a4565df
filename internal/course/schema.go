package course

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for interactive exercise payloads. Authoring writes are checked
// against these before unmarshalling, so a malformed editor payload is
// rejected with the offending fields named instead of half-decoding.
var interactiveSchemaSources = map[InteractiveKind]string{
	InteractiveDragOrder: `{
		"type": "object",
		"required": ["title", "items", "correctOrder"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"items": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["id", "label"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"label": {"type": "string"}
					}
				}
			},
			"correctOrder": {
				"type": "array",
				"minItems": 1,
				"items": {"type": "string"}
			}
		}
	}`,
	InteractiveHotspot: `{
		"type": "object",
		"required": ["title", "imageUrl", "hotspots"],
		"properties": {
			"title": {"type": "string"},
			"instruction": {"type": "string"},
			"imageUrl": {"type": "string", "minLength": 1},
			"imageScale": {"type": "integer", "minimum": 10, "maximum": 100},
			"hotspots": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["id", "x", "y", "isHazard"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"x": {"type": "number", "minimum": 0, "maximum": 100},
						"y": {"type": "number", "minimum": 0, "maximum": 100},
						"label": {"type": "string"},
						"isHazard": {"type": "boolean"}
					}
				}
			}
		}
	}`,
	InteractiveTrueFalse: `{
		"type": "object",
		"required": ["title", "cards"],
		"properties": {
			"title": {"type": "string"},
			"cards": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["id", "statement", "isTrue"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"statement": {"type": "string", "minLength": 1},
						"isTrue": {"type": "boolean"}
					}
				}
			}
		}
	}`,
	InteractiveAnnotatedImage: `{
		"type": "object",
		"required": ["title", "imageUrl", "points"],
		"properties": {
			"title": {"type": "string"},
			"imageUrl": {"type": "string", "minLength": 1},
			"imageScale": {"type": "integer", "minimum": 10, "maximum": 100},
			"points": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "x", "y", "label"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"x": {"type": "number", "minimum": 0, "maximum": 100},
						"y": {"type": "number", "minimum": 0, "maximum": 100},
						"label": {"type": "string", "minLength": 1},
						"description": {"type": "string"}
					}
				}
			}
		}
	}`,
}

var interactiveSchemas map[InteractiveKind]*gojsonschema.Schema

func init() {
	interactiveSchemas = make(map[InteractiveKind]*gojsonschema.Schema, len(interactiveSchemaSources))
	for kind, src := range interactiveSchemaSources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("compile %s schema: %v", kind, err))
		}
		interactiveSchemas[kind] = schema
	}
}

// ValidateInteractiveJSON checks a raw editor payload for the given exercise
// kind against its JSON Schema. stability-sim carries no authored data, so any
// payload for it is accepted as-is.
func ValidateInteractiveJSON(kind InteractiveKind, raw []byte) error {
	schema, ok := interactiveSchemas[kind]
	if !ok {
		if kind == InteractiveStabilitySim {
			return nil
		}
		return ValidationError{Field: "interactive.kind", Msg: fmt.Sprintf("unknown interactive kind %q", kind)}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return ValidationError{Field: "interactive", Msg: fmt.Sprintf("invalid payload: %v", err)}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return ValidationError{Field: "interactive." + first.Field(), Msg: first.Description()}
	}

	return nil
}
