package tool

import "github.com/google/jsonschema-go/jsonschema"

// Field types accepted by Params declarations.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Field declares one tool parameter.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// Params is a tool's static parameter declaration. A nil *Params means the
// tool takes no parameters.
type Params struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// JSONSchema renders the declaration as an object schema for model
// providers. A nil receiver yields an empty object schema, the declared
// shape of a parameterless tool.
func (p *Params) JSONSchema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	if p == nil {
		return schema
	}
	for _, f := range p.Fields {
		prop := &jsonschema.Schema{
			Type:        fieldType(f.Type),
			Description: f.Description,
		}
		for _, v := range f.Enum {
			prop.Enum = append(prop.Enum, v)
		}
		schema.Properties[f.Name] = prop
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

func fieldType(t string) string {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return t
	default:
		return TypeString
	}
}
