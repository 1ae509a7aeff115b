package parser

import (
	"golang.org/x/net/html/atom"

	"canvas/markup"
	"canvas/model"
)

// ElementKind is a closed set of markup element handlers.
type ElementKind int

const (
	// KindInline passes children to the parent unchanged. Unknown tags land
	// here.
	KindInline ElementKind = iota
	// KindBlock passes children through wrapping inline runs into
	// paragraphs when the parent accepts paragraphs.
	KindBlock
	// KindIgnore drops element with everything inside.
	KindIgnore
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindTable
	KindTableCaption
	KindTableSection
	KindTableRow
	KindTableCell
	KindTableHeaderCell
	KindFigure
	KindFigcaption
	KindQuote
	KindCite
	KindFooter
	KindPre
	KindCode
	KindAnchor
	KindImage
	KindDivider
	KindPanel
	KindLinebreak
	KindDecorator
	KindComponent
	KindFormContentType
)

var kindNames = [...]string{
	KindInline:          "inline",
	KindBlock:           "block",
	KindIgnore:          "ignore",
	KindHeading:         "heading",
	KindParagraph:       "paragraph",
	KindList:            "list",
	KindListItem:        "listItem",
	KindTable:           "table",
	KindTableCaption:    "tableCaption",
	KindTableSection:    "tableSection",
	KindTableRow:        "tableRow",
	KindTableCell:       "tableCell",
	KindTableHeaderCell: "tableHeaderCell",
	KindFigure:          "figure",
	KindFigcaption:      "figcaption",
	KindQuote:           "quote",
	KindCite:            "cite",
	KindFooter:          "footer",
	KindPre:             "pre",
	KindCode:            "code",
	KindAnchor:          "anchor",
	KindImage:           "image",
	KindDivider:         "divider",
	KindPanel:           "panel",
	KindLinebreak:       "linebreak",
	KindDecorator:       "decorator",
	KindComponent:       "component",
	KindFormContentType: "formContentType",
}

func (k ElementKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// decoratorTags maps inline formatting tags to decorators. code is absent:
// it depends on the enclosing element.
var decoratorTags = map[string]model.Decorator{
	"em":     model.DecoratorEmphasis,
	"i":      model.DecoratorEmphasis,
	"strong": model.DecoratorStrong,
	"b":      model.DecoratorStrong,
	"mark":   model.DecoratorMark,
	"del":    model.DecoratorDelete,
	"ins":    model.DecoratorInsert,
	"s":      model.DecoratorStrikethrough,
	"strike": model.DecoratorStrikethrough,
	"sub":    model.DecoratorSubscript,
	"sup":    model.DecoratorSuperscript,
	"u":      model.DecoratorUnderline,
	"kbd":    model.DecoratorKeyboard,
	"var":    model.DecoratorVariable,
	"abbr":   model.DecoratorAbbreviation,
	"samp":   model.DecoratorCode,
	"tt":     model.DecoratorCode,
}

// KindFor maps lower-cased tag name and its attributes to element kind.
func KindFor(tag string, attrs markup.Attributes) ElementKind {
	if _, ok := decoratorTags[tag]; ok {
		return KindDecorator
	}
	switch atom.Lookup([]byte(tag)) {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return KindHeading
	case atom.P:
		return KindParagraph
	case atom.Ul, atom.Ol:
		return KindList
	case atom.Li:
		return KindListItem
	case atom.Table:
		return KindTable
	case atom.Caption:
		return KindTableCaption
	case atom.Thead, atom.Tbody, atom.Tfoot:
		return KindTableSection
	case atom.Tr:
		return KindTableRow
	case atom.Td:
		return KindTableCell
	case atom.Th:
		return KindTableHeaderCell
	case atom.Figure:
		return KindFigure
	case atom.Figcaption:
		return KindFigcaption
	case atom.Blockquote:
		return KindQuote
	case atom.Cite:
		return KindCite
	case atom.Footer:
		return KindFooter
	case atom.Pre:
		return KindPre
	case atom.Code:
		return KindCode
	case atom.A:
		return KindAnchor
	case atom.Img:
		return KindImage
	case atom.Hr:
		return KindDivider
	case atom.Aside:
		return KindPanel
	case atom.Br:
		return KindLinebreak
	case atom.Div:
		switch {
		case attrs.Has("data-component"):
			return KindComponent
		case attrs.Has("data-form-content-type"):
			return KindFormContentType
		}
		return KindBlock
	case atom.Section, atom.Article, atom.Main, atom.Header, atom.Nav, atom.Body, atom.Html,
		atom.Dl, atom.Dt, atom.Dd, atom.Address, atom.Details, atom.Summary, atom.Center,
		atom.Hgroup, atom.Form, atom.Fieldset:
		return KindBlock
	case atom.Head, atom.Script, atom.Style, atom.Meta, atom.Title, atom.Link, atom.Svg,
		atom.Template, atom.Noscript, atom.Colgroup, atom.Col, atom.Iframe, atom.Object,
		atom.Embed, atom.Math, atom.Button, atom.Input, atom.Select, atom.Textarea, atom.Base:
		return KindIgnore
	}
	return KindInline
}
