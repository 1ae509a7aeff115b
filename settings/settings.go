// Package settings compiles canvas field configuration into a flat table of
// capabilities consulted while parsing: which block types and decorators are
// enabled and which values they may take.
package settings

import (
	"encoding/json"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"canvas/model"
	"canvas/utils/debug"
)

// Setting keys. Type keys are built as "type.<name>" and decorator keys as
// "decorator.<kind>".
const (
	KeyHeadingLevel    = "type.heading.level"
	KeyParagraphType   = "type.paragraph.type"
	KeyListType        = "type.list.type"
	KeyPanelType       = "type.panel.type"
	KeyCodeLanguage    = "type.code.language"
	KeyLinkType        = "type.link.type"
	KeyComponentType   = "type.component.type"
	KeyFormContentType = "type.formContentType.contentType"
)

// TypeKey returns setting key enabling block type.
func TypeKey(t model.Type) string {
	return "type." + t.Name()
}

// DecoratorKey returns setting key enabling decorator.
func DecoratorKey(d model.Decorator) string {
	return "decorator." + string(d)
}

// Setting is a single capability. Values nil means any value is accepted,
// an empty non-nil list accepts nothing.
type Setting struct {
	Enabled bool     `json:"enabled"`
	Values  []string `json:"values"`
}

// Settings is the compiled read-only capability table. A nil *Settings
// permits everything.
type Settings struct {
	table map[string]Setting
}

// Compile flattens field validations. Missing validations produce
// unrestricted settings.
func Compile(field *Field) *Settings {
	var allowed *AllowedTypes
	if field != nil && field.Validations != nil {
		allowed = field.Validations.AllowedTypes
	}

	s := &Settings{table: make(map[string]Setting)}
	for _, t := range model.Types {
		s.table[TypeKey(t)] = Setting{Enabled: allowed.permits(t.Name())}
	}

	typeOn := func(t model.Type) bool { return s.table[TypeKey(t)].Enabled }
	values := func(key string, t model.Type, list []string, set bool) {
		st := Setting{Enabled: typeOn(t)}
		if set {
			st.Values = list
			if st.Values == nil {
				st.Values = []string{}
			}
		}
		s.table[key] = st
	}

	v := allowed.typeValidations(model.TypeHeading.Name())
	if v != nil && v.AllowedLevels != nil {
		levels := make([]string, 0, len(v.AllowedLevels.Levels))
		for _, l := range v.AllowedLevels.Levels {
			levels = append(levels, strconv.Itoa(l))
		}
		values(KeyHeadingLevel, model.TypeHeading, levels, true)
	} else {
		values(KeyHeadingLevel, model.TypeHeading, nil, false)
	}

	kinds := func(key string, t model.Type) {
		v := allowed.typeValidations(t.Name())
		if v != nil && v.AllowedTypes != nil {
			values(key, t, v.AllowedTypes.Types, true)
			return
		}
		values(key, t, nil, false)
	}
	kinds(KeyParagraphType, model.TypeParagraph)
	kinds(KeyListType, model.TypeList)
	kinds(KeyPanelType, model.TypePanel)

	if v := allowed.typeValidations(model.TypeCode.Name()); v != nil && v.AllowedLanguages != nil {
		values(KeyCodeLanguage, model.TypeCode, v.AllowedLanguages.Languages, true)
	} else {
		values(KeyCodeLanguage, model.TypeCode, nil, false)
	}
	if v := allowed.typeValidations(model.TypeLink.Name()); v != nil && v.AllowedLinkTypes != nil {
		values(KeyLinkType, model.TypeLink, v.AllowedLinkTypes.LinkTypes, true)
	} else {
		values(KeyLinkType, model.TypeLink, nil, false)
	}
	if v := allowed.typeValidations(model.TypeComponent.Name()); v != nil && v.AllowedComponents != nil {
		values(KeyComponentType, model.TypeComponent, v.AllowedComponents.Components, true)
	} else {
		values(KeyComponentType, model.TypeComponent, nil, false)
	}
	if v := allowed.typeValidations(model.TypeFormContentType.Name()); v != nil && v.AllowedContentTypes != nil {
		values(KeyFormContentType, model.TypeFormContentType, v.AllowedContentTypes.ContentTypes, true)
	} else {
		values(KeyFormContentType, model.TypeFormContentType, nil, false)
	}

	// Decorators live under fragment validations and require fragments.
	var decorators []string
	if v := allowed.typeValidations(model.TypeFragment.Name()); v != nil && v.AllowedDecorators != nil {
		decorators = v.AllowedDecorators.Decorators
		if decorators == nil {
			decorators = []string{}
		}
	}
	for _, d := range model.Decorators {
		on := typeOn(model.TypeFragment)
		if on && decorators != nil {
			on = slices.ContainsFunc(decorators, func(name string) bool {
				return strings.TrimPrefix(name, "_") == string(d)
			})
		}
		s.table[DecoratorKey(d)] = Setting{Enabled: on}
	}
	return s
}

// Get returns setting by key, missing keys are reported as unrestricted.
func (s *Settings) Get(key string) Setting {
	if s == nil {
		return Setting{Enabled: true}
	}
	st, ok := s.table[key]
	if !ok {
		return Setting{Enabled: true}
	}
	return st
}

// Allowed reports whether capability is enabled.
func (s *Settings) Allowed(key string) bool {
	return s.Get(key).Enabled
}

// TypeAllowed is shortcut for Allowed(TypeKey(t)).
func (s *Settings) TypeAllowed(t model.Type) bool {
	return s.Allowed(TypeKey(t))
}

// DecoratorAllowed is shortcut for Allowed(DecoratorKey(d)).
func (s *Settings) DecoratorAllowed(d model.Decorator) bool {
	return s.Allowed(DecoratorKey(d))
}

// Values returns permitted values and whether setting is restricted at all.
func (s *Settings) Values(key string) ([]string, bool) {
	st := s.Get(key)
	return st.Values, st.Values != nil
}

// Contains reports whether value is acceptable for the setting.
func (s *Settings) Contains(key, value string) bool {
	st := s.Get(key)
	if !st.Enabled {
		return false
	}
	return st.Values == nil || slices.Contains(st.Values, value)
}

// FixSetting returns candidate when it is acceptable, otherwise fallback when
// that is acceptable, otherwise first permitted value. When nothing is
// permitted (or setting is disabled) it returns false.
func (s *Settings) FixSetting(key, candidate, fallback string) (string, bool) {
	st := s.Get(key)
	switch {
	case !st.Enabled:
		return "", false
	case st.Values == nil:
		return candidate, true
	case slices.Contains(st.Values, candidate):
		return candidate, true
	case fallback != "" && slices.Contains(st.Values, fallback):
		return fallback, true
	case len(st.Values) > 0:
		return st.Values[0], true
	}
	return "", false
}

// Keys returns all setting keys in natural order.
func (s *Settings) Keys() []string {
	if s == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(s.table))
	sort.Sort(natural.StringSlice(keys))
	return keys
}

// MarshalJSON encodes the table keyed by setting name, nil settings encode as
// an empty table.
func (s *Settings) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.table)
}

// String returns readable dump of the capability table.
func (s *Settings) String() string {
	if s == nil {
		return "<nil Settings>"
	}
	m := make(map[string]string, len(s.table))
	for k, st := range s.table {
		switch {
		case !st.Enabled:
			m[k] = "disabled"
		case st.Values == nil:
			m[k] = "enabled"
		default:
			m[k] = "[" + strings.Join(st.Values, ", ") + "]"
		}
	}
	tw := debug.NewTreeWriter()
	tw.Map(0, "Settings", m)
	return tw.String()
}
