package settings

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Field mirrors canvas field definition of a content type. Only validation
// part is interpreted, everything else is carried for reference.
type Field struct {
	ID          string       `json:"id" yaml:"id"`
	DataType    string       `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	DataFormat  string       `json:"dataFormat,omitempty" yaml:"dataFormat,omitempty"`
	Validations *Validations `json:"validations,omitempty" yaml:"validations,omitempty"`
}

type Validations struct {
	AllowedTypes *AllowedTypes `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty"`
}

// AllowedTypes lists permitted block types (nil list means all) and per-type
// value restrictions keyed by type name (with or without leading underscore).
type AllowedTypes struct {
	Types       []string                    `json:"types,omitempty" yaml:"types,omitempty"`
	Validations map[string]*TypeValidations `json:"validations,omitempty" yaml:"validations,omitempty"`
}

type TypeValidations struct {
	AllowedLevels       *AllowedLevels       `json:"allowedLevels,omitempty" yaml:"allowedLevels,omitempty"`
	AllowedTypes        *AllowedKinds        `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty"`
	AllowedLanguages    *AllowedLanguages    `json:"allowedLanguages,omitempty" yaml:"allowedLanguages,omitempty"`
	AllowedLinkTypes    *AllowedLinkTypes    `json:"allowedLinkTypes,omitempty" yaml:"allowedLinkTypes,omitempty"`
	AllowedComponents   *AllowedComponents   `json:"allowedComponents,omitempty" yaml:"allowedComponents,omitempty"`
	AllowedContentTypes *AllowedContentTypes `json:"allowedContentTypes,omitempty" yaml:"allowedContentTypes,omitempty"`
	AllowedDecorators   *AllowedDecorators   `json:"allowedDecorators,omitempty" yaml:"allowedDecorators,omitempty"`
}

type AllowedLevels struct {
	Levels []int `json:"levels" yaml:"levels"`
}

type AllowedKinds struct {
	Types []string `json:"types" yaml:"types"`
}

type AllowedLanguages struct {
	Languages []string `json:"languages" yaml:"languages"`
}

type AllowedLinkTypes struct {
	LinkTypes []string `json:"linkTypes" yaml:"linkTypes"`
}

type AllowedComponents struct {
	Components []string `json:"components" yaml:"components"`
}

type AllowedContentTypes struct {
	ContentTypes []string `json:"contentTypes" yaml:"contentTypes"`
}

type AllowedDecorators struct {
	Decorators []string `json:"decorators" yaml:"decorators"`
}

// ParseField decodes field definition from YAML or JSON (which is a subset
// of YAML). Unknown keys are ignored: field definitions usually come from a
// content management system and carry much more than we need.
func ParseField(data []byte) (*Field, error) {
	var field Field
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&field); err != nil {
		return nil, fmt.Errorf("failed to decode field definition: %w", err)
	}
	return &field, nil
}

// LoadField reads field definition from file.
func LoadField(path string) (*Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field definition: %w", err)
	}
	return ParseField(data)
}

// typeValidations finds restrictions for the type accepting both "_heading"
// and "heading" spellings.
func (a *AllowedTypes) typeValidations(name string) *TypeValidations {
	if a == nil || a.Validations == nil {
		return nil
	}
	if v, ok := a.Validations["_"+name]; ok {
		return v
	}
	return a.Validations[name]
}

func (a *AllowedTypes) permits(name string) bool {
	if a == nil || a.Types == nil {
		return true
	}
	for _, t := range a.Types {
		if strings.TrimPrefix(t, "_") == name {
			return true
		}
	}
	return false
}
