package mcp

import (
	"fmt"
	"regexp"
)

// Field types understood by the validation layer.
const (
	FieldString = "string"
	FieldObject = "object"
)

// Field describes one parameter of a tool schema.
type Field struct {
	Name        string
	Type        string
	Description string
	Required    bool
	// RequiredMsg is reported when a required field is missing or empty.
	RequiredMsg string
	// Check runs after the type check and returns a message when the value
	// is invalid, or "" when it passes.
	Check func(value interface{}) (msg string)
}

// Schema is the validation rule set for a tool's parameters.
type Schema struct {
	Fields []Field
}

// FieldError describes one violated field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationResult is the outcome of validating raw tool parameters. Errors
// is populated, non-empty, only when IsValid is false.
type ValidationResult struct {
	IsValid bool
	Data    map[string]interface{}
	Errors  []FieldError
}

// JSONSchema renders the schema as the MCP wire inputSchema object.
func (s Schema) JSONSchema() (schema map[string]interface{}) {
	properties := map[string]interface{}{}
	required := []string{}

	for _, field := range s.Fields {
		prop := map[string]interface{}{
			"type": field.Type,
		}
		if field.Description != "" {
			prop["description"] = field.Description
		}
		properties[field.Name] = prop

		if field.Required {
			required = append(required, field.Name)
		}
	}

	schema = map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// Validate checks raw input against the schema. It never panics: unexpected
// internal failures are converted into a single synthetic error entry with
// field "unknown". Unknown input keys are stripped from the resulting data.
func Validate(schema Schema, raw interface{}) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ValidationResult{
				IsValid: false,
				Errors: []FieldError{
					{Field: "unknown", Message: fmt.Sprintf("Erro interno de validação: %v", r)},
				},
			}
		}
	}()

	params, ok := asObject(raw)
	if !ok {
		result = ValidationResult{
			IsValid: false,
			Errors: []FieldError{
				{Field: "unknown", Message: "Parâmetros devem ser um objeto", Value: raw},
			},
		}
		return result
	}

	data := map[string]interface{}{}
	var fieldErrors []FieldError

	for _, field := range schema.Fields {
		value, present := params[field.Name]
		if !present || value == nil {
			if field.Required {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   field.Name,
					Message: field.requiredMessage(),
				})
			}
			continue
		}

		msg, normalized := checkField(field, value)
		if msg != "" {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   field.Name,
				Message: msg,
				Value:   value,
			})
			continue
		}

		data[field.Name] = normalized
	}

	if len(fieldErrors) > 0 {
		result = ValidationResult{IsValid: false, Errors: fieldErrors}
		return result
	}

	result = ValidationResult{IsValid: true, Data: data}
	return result
}

// checkField validates one present value against its field spec.
func checkField(field Field, value interface{}) (msg string, normalized interface{}) {
	switch field.Type {
	case FieldString:
		s, isString := value.(string)
		if !isString {
			msg = "deve ser uma string"
			return msg, normalized
		}
		if field.Required && s == "" {
			msg = field.requiredMessage()
			return msg, normalized
		}
		normalized = s

	case FieldObject:
		obj, isObject := value.(map[string]interface{})
		if !isObject {
			msg = "deve ser um objeto"
			return msg, normalized
		}
		normalized = obj

	default:
		normalized = value
	}

	if field.Check != nil {
		msg = field.Check(value)
		if msg != "" {
			return msg, normalized
		}
	}

	return msg, normalized
}

// requiredMessage returns the field's missing-value message.
func (f Field) requiredMessage() (msg string) {
	msg = f.RequiredMsg
	if msg == "" {
		msg = fmt.Sprintf("%s é obrigatório", f.Name)
	}
	return msg
}

// asObject coerces raw tool parameters into a map. Nil input is treated as
// an empty parameter object.
func asObject(raw interface{}) (params map[string]interface{}, ok bool) {
	if raw == nil {
		params = map[string]interface{}{}
		ok = true
		return params, ok
	}

	params, ok = raw.(map[string]interface{})
	return params, ok
}

var (
	patrimonioNumeroPattern = regexp.MustCompile(`^[A-Za-z0-9-_]+$`)
	uuidPattern             = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// IsValidPatrimonioNumero reports whether numero is a well-formed asset
// number.
func IsValidPatrimonioNumero(numero string) (valid bool) {
	valid = numero != "" && patrimonioNumeroPattern.MatchString(numero)
	return valid
}

// IsValidID reports whether id is a UUID or any non-empty string of at most
// 100 characters.
func IsValidID(id string) (valid bool) {
	valid = uuidPattern.MatchString(id) || (id != "" && len(id) <= 100)
	return valid
}

// Common field specs shared by the patrimônio tools.

// NumeroField validates an asset number.
func NumeroField() (field Field) {
	field = Field{
		Name:        "numero",
		Type:        FieldString,
		Description: "Número do patrimônio",
		Required:    true,
		RequiredMsg: "Número do patrimônio é obrigatório",
		Check: func(value interface{}) (msg string) {
			s, _ := value.(string)
			if !IsValidPatrimonioNumero(s) {
				msg = "Número do patrimônio inválido"
			}
			return msg
		},
	}
	return field
}

// IDField validates an asset id.
func IDField() (field Field) {
	field = Field{
		Name:        "id",
		Type:        FieldString,
		Description: "ID do patrimônio",
		Required:    true,
		RequiredMsg: "ID do patrimônio é obrigatório",
		Check: func(value interface{}) (msg string) {
			s, _ := value.(string)
			if !IsValidID(s) {
				msg = "ID do patrimônio inválido"
			}
			return msg
		},
	}
	return field
}

// SetorField validates a sector name.
func SetorField() (field Field) {
	field = Field{
		Name:        "setor",
		Type:        FieldString,
		Description: "Nome do setor",
		Required:    true,
		RequiredMsg: "Nome do setor é obrigatório",
	}
	return field
}

// UsuarioField validates a user name.
func UsuarioField() (field Field) {
	field = Field{
		Name:        "usuario",
		Type:        FieldString,
		Description: "Nome do usuário",
		Required:    true,
		RequiredMsg: "Nome do usuário é obrigatório",
	}
	return field
}

// DataField validates the asset key/value payload for create and update.
func DataField() (field Field) {
	field = Field{
		Name:        "data",
		Type:        FieldObject,
		Description: "Dados do patrimônio",
		Required:    true,
		RequiredMsg: "Dados do patrimônio são obrigatórios",
		Check: func(value interface{}) (msg string) {
			obj, _ := value.(map[string]interface{})
			if len(obj) == 0 {
				msg = "Dados do patrimônio não podem estar vazios"
			}
			return msg
		},
	}
	return field
}
