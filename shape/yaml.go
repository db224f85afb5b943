package shape

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDoc mirrors the on-disk shape descriptor:
//
//	unknown: strip            # strict | strip | keep (default strict)
//	fields:
//	  a: {type: integer, required: true}
//	  b: {type: string, default: ""}
type yamlDoc struct {
	Unknown string               `yaml:"unknown"`
	Fields  map[string]yamlField `yaml:"fields"`
}

type yamlField struct {
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Default  any    `yaml:"default"`
}

// FromYAML loads a Shape from a YAML descriptor.
func FromYAML(data []byte) (*Shape, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("shape: descriptor declares no fields")
	}

	b := New()
	switch doc.Unknown {
	case "", "strict":
		b.UnknownStrict()
	case "strip":
		b.UnknownStrip()
	case "keep":
		b.UnknownKeep()
	default:
		return nil, fmt.Errorf("shape: unknown policy %q", doc.Unknown)
	}

	for name, f := range doc.Fields {
		k, err := kindOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("shape: field %q: %w", name, err)
		}
		b.Field(name, k)
		if f.Required {
			b.Require(name)
		}
		if f.Default != nil {
			b.Default(name, f.Default)
		}
	}
	return b.Build()
}

func kindOf(name string) (Kind, error) {
	switch name {
	case "", "any":
		return Any, nil
	case "string":
		return String, nil
	case "bool", "boolean":
		return Bool, nil
	case "int", "integer":
		return Int, nil
	case "number", "float":
		return Number, nil
	case "object":
		return Object, nil
	case "array":
		return Array, nil
	default:
		return Any, fmt.Errorf("unsupported type %q", name)
	}
}
