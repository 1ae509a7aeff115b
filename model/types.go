// Package model defines the Canvas document model: a tree of typed content
// blocks produced by the parser and consumed by renderers.
package model

// Type distinguishes block variants. Values match the serialized "type" field.
type Type string

const (
	TypeHeading         Type = "_heading"
	TypeParagraph       Type = "_paragraph"
	TypeFragment        Type = "_fragment"
	TypeAnchor          Type = "_anchor"
	TypeLink            Type = "_link"
	TypeInlineEntry     Type = "_inlineEntry"
	TypeImage           Type = "_image"
	TypeCode            Type = "_code"
	TypeDivider         Type = "_divider"
	TypeList            Type = "_list"
	TypeListItem        Type = "_listItem"
	TypePanel           Type = "_panel"
	TypeQuote           Type = "_quote"
	TypeTable           Type = "_table"
	TypeTableCaption    Type = "_tableCaption"
	TypeTableHeader     Type = "_tableHeader"
	TypeTableBody       Type = "_tableBody"
	TypeTableFooter     Type = "_tableFooter"
	TypeTableRow        Type = "_tableRow"
	TypeTableCell       Type = "_tableCell"
	TypeTableHeaderCell Type = "_tableHeaderCell"
	TypeComponent       Type = "_component"
	TypeFormContentType Type = "_formContentType"
)

// Types lists every block variant in declaration order.
var Types = []Type{
	TypeHeading, TypeParagraph, TypeFragment, TypeAnchor, TypeLink,
	TypeInlineEntry, TypeImage, TypeCode, TypeDivider, TypeList, TypeListItem,
	TypePanel, TypeQuote, TypeTable, TypeTableCaption, TypeTableHeader,
	TypeTableBody, TypeTableFooter, TypeTableRow, TypeTableCell,
	TypeTableHeaderCell, TypeComponent, TypeFormContentType,
}

// Name returns type name without leading underscore, as used in settings keys.
func (t Type) Name() string {
	if len(t) > 0 && t[0] == '_' {
		return string(t[1:])
	}
	return string(t)
}

// Valid reports whether t is one of the known block variants.
func (t Type) Valid() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// IsInline reports whether blocks of this type flow inside text.
func (t Type) IsInline() bool {
	switch t {
	case TypeFragment, TypeAnchor, TypeLink, TypeInlineEntry:
		return true
	}
	return false
}

// IsVoid reports whether a block of this type is meaningful without value.
// Empty blocks of other types are removed during normalization.
func (t Type) IsVoid() bool {
	switch t {
	case TypeDivider, TypeImage, TypeAnchor, TypeInlineEntry, TypeComponent, TypeFormContentType,
		TypeTableCaption, TypeTableBody, TypeTableCell, TypeTableHeaderCell:
		return true
	}
	return false
}

// Block is a single node of the document tree.
type Block struct {
	Type       Type
	ID         string
	Properties *Properties
	Value      Value
}

// Props returns block properties allocating them when necessary.
func (b *Block) Props() *Properties {
	if b.Properties == nil {
		b.Properties = &Properties{}
	}
	return b.Properties
}

// Decorators returns fragment decorators, nil for anything else.
func (b *Block) Decorators() []Decorator {
	if b.Type != TypeFragment || b.Properties == nil {
		return nil
	}
	return b.Properties.Decorators
}

// IsPlainText reports whether block is an undecorated fragment holding text.
func (b *Block) IsPlainText() bool {
	return b.Type == TypeFragment && len(b.Decorators()) == 0 && !b.Value.HasChildren() &&
		(b.Properties == nil || b.Properties.Abbreviation == "")
}

// IsEmpty reports whether block carries neither text nor children.
func (b *Block) IsEmpty() bool {
	return b.Value.IsEmpty()
}

// ValueKind tells which alternative a Value holds.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueText
	ValueChildren
)

// Value is either absent, a plain string or an ordered list of children -
// never both at once.
type Value struct {
	kind     ValueKind
	text     string
	children []Block
}

// TextValue returns Value holding text.
func TextValue(text string) Value {
	return Value{kind: ValueText, text: text}
}

// ChildrenValue returns Value holding children. Empty list produces empty
// children value which is still distinguishable from absent value.
func ChildrenValue(children []Block) Value {
	return Value{kind: ValueChildren, children: children}
}

func (v Value) Kind() ValueKind   { return v.kind }
func (v Value) HasText() bool     { return v.kind == ValueText }
func (v Value) HasChildren() bool { return v.kind == ValueChildren }
func (v Value) Text() string      { return v.text }
func (v Value) Children() []Block { return v.children }

// IsEmpty is true for absent value, empty string and empty children list.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueText:
		return v.text == ""
	case ValueChildren:
		return len(v.children) == 0
	}
	return true
}

// Properties holds variant specific metadata. Only fields relevant to the
// block type are set.
type Properties struct {
	Level           int                  `json:"level,omitempty"`
	ParagraphType   string               `json:"paragraphType,omitempty"`
	ListType        ListType             `json:"listType,omitempty"`
	Start           *int                 `json:"start,omitempty"`
	PanelType       string               `json:"panelType,omitempty"`
	Language        string               `json:"language,omitempty"`
	Caption         string               `json:"caption,omitempty"`
	Source          string               `json:"source,omitempty"`
	Citation        string               `json:"url,omitempty"`
	Decorators      []Decorator          `json:"decorators,omitempty"`
	Abbreviation    string               `json:"abbreviation,omitempty"`
	Anchor          string               `json:"anchor,omitempty"`
	Link            *LinkTarget          `json:"link,omitempty"`
	NewTab          bool                 `json:"newTab,omitempty"`
	Title           string               `json:"title,omitempty"`
	Entry           *EntryRef            `json:"entry,omitempty"`
	Image           *ImageProperties     `json:"image,omitempty"`
	Component       *ComponentProperties `json:"component,omitempty"`
	FormContentType *FormContentType     `json:"formContentType,omitempty"`
}

// ListType is either ordered or unordered.
type ListType string

const (
	ListUnordered ListType = "unordered"
	ListOrdered   ListType = "ordered"
)

// ComponentProperties identifies embedded component and its data.
type ComponentProperties struct {
	Name  string         `json:"name"`
	Value map[string]any `json:"value,omitempty"`
}

// FormContentType references a form by its content type id.
type FormContentType struct {
	ID string `json:"id"`
}
