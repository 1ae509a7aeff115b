package model

// Decorator is an inline annotation composed onto a fragment.
type Decorator string

const (
	DecoratorEmphasis      Decorator = "emphasis"
	DecoratorStrong        Decorator = "strong"
	DecoratorCode          Decorator = "code"
	DecoratorMark          Decorator = "mark"
	DecoratorDelete        Decorator = "delete"
	DecoratorInsert        Decorator = "insert"
	DecoratorStrikethrough Decorator = "strikethrough"
	DecoratorSubscript     Decorator = "subscript"
	DecoratorSuperscript   Decorator = "superscript"
	DecoratorUnderline     Decorator = "underline"
	DecoratorKeyboard      Decorator = "keyboard"
	DecoratorVariable      Decorator = "variable"
	DecoratorLinebreak     Decorator = "linebreak"
	DecoratorAbbreviation  Decorator = "abbreviation"
)

// Decorators lists all known decorator kinds.
var Decorators = []Decorator{
	DecoratorEmphasis, DecoratorStrong, DecoratorCode, DecoratorMark,
	DecoratorDelete, DecoratorInsert, DecoratorStrikethrough,
	DecoratorSubscript, DecoratorSuperscript, DecoratorUnderline,
	DecoratorKeyboard, DecoratorVariable, DecoratorLinebreak,
	DecoratorAbbreviation,
}

// Valid reports whether d is a known decorator kind.
func (d Decorator) Valid() bool {
	for _, k := range Decorators {
		if k == d {
			return true
		}
	}
	return false
}

// SameDecorators compares two decorator lists as multisets - order of
// wrapping does not matter for equivalence.
func SameDecorators(a, b []Decorator) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[Decorator]int, len(a))
	for _, d := range a {
		counts[d]++
	}
	for _, d := range b {
		if counts[d] == 0 {
			return false
		}
		counts[d]--
	}
	return true
}

// HasDecorator reports whether list contains d.
func HasDecorator(list []Decorator, d Decorator) bool {
	for _, k := range list {
		if k == d {
			return true
		}
	}
	return false
}
