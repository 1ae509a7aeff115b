// Package schema holds the fixed nesting rules between block types and the
// parse context which combines them with configurable settings.
package schema

import (
	"canvas/model"
)

// TypeSet is a small set of block types.
type TypeSet map[model.Type]struct{}

func newTypeSet(groups ...[]model.Type) TypeSet {
	s := make(TypeSet)
	for _, g := range groups {
		for _, t := range g {
			s[t] = struct{}{}
		}
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t model.Type) bool {
	_, ok := s[t]
	return ok
}

var (
	inline = []model.Type{model.TypeFragment, model.TypeAnchor, model.TypeLink, model.TypeInlineEntry}

	blocks = []model.Type{
		model.TypeHeading, model.TypeParagraph, model.TypeImage, model.TypeCode,
		model.TypeDivider, model.TypeList, model.TypePanel, model.TypeQuote,
		model.TypeTable, model.TypeComponent, model.TypeFormContentType,
	}

	cellContent = []model.Type{
		model.TypeParagraph, model.TypeImage, model.TypeList, model.TypeCode, model.TypeDivider,
	}

	// Root is the scope of document top level. Inline content is accepted
	// there and wrapped into implicit paragraphs when the document is
	// finished.
	Root = newTypeSet(blocks, inline)

	allowedChildren = map[model.Type]TypeSet{
		model.TypeHeading:     newTypeSet(inline),
		model.TypeParagraph:   newTypeSet(inline, []model.Type{model.TypeImage}),
		model.TypeFragment:    newTypeSet(inline),
		model.TypeAnchor:      newTypeSet([]model.Type{model.TypeFragment}),
		model.TypeLink:        newTypeSet([]model.Type{model.TypeFragment, model.TypeImage}),
		model.TypeInlineEntry: newTypeSet([]model.Type{model.TypeFragment}),
		model.TypeImage:       newTypeSet(),
		// code keeps fragments only while collecting text, final value is a string
		model.TypeCode:     newTypeSet([]model.Type{model.TypeFragment}),
		model.TypeDivider:  newTypeSet(),
		model.TypeList:     newTypeSet([]model.Type{model.TypeListItem}),
		model.TypeListItem: newTypeSet(inline, []model.Type{model.TypeImage, model.TypeList}),
		model.TypePanel: newTypeSet(inline, []model.Type{
			model.TypeHeading, model.TypeParagraph, model.TypeImage, model.TypeCode,
			model.TypeDivider, model.TypeList, model.TypeQuote, model.TypeTable,
		}),
		model.TypeQuote: newTypeSet(inline, []model.Type{model.TypeParagraph}),
		// bare rows are accepted by table and moved into body on finalize
		model.TypeTable: newTypeSet([]model.Type{
			model.TypeTableCaption, model.TypeTableHeader, model.TypeTableBody,
			model.TypeTableFooter, model.TypeTableRow,
		}),
		model.TypeTableCaption:    newTypeSet(inline),
		model.TypeTableHeader:     newTypeSet([]model.Type{model.TypeTableRow}),
		model.TypeTableBody:       newTypeSet([]model.Type{model.TypeTableRow}),
		model.TypeTableFooter:     newTypeSet([]model.Type{model.TypeTableRow}),
		model.TypeTableRow:        newTypeSet([]model.Type{model.TypeTableCell, model.TypeTableHeaderCell}),
		model.TypeTableCell:       newTypeSet(inline, cellContent),
		model.TypeTableHeaderCell: newTypeSet(inline, cellContent),
		model.TypeComponent:       newTypeSet(),
		model.TypeFormContentType: newTypeSet(),
	}

	// Block types in which decorators are not available at all.
	noDecorators = newTypeSet([]model.Type{model.TypeCode})

	// decoratorChildren limits what may be nested inside a decorator. Missing
	// entries allow everything.
	decoratorChildren = map[model.Decorator]map[model.Decorator]bool{
		model.DecoratorLinebreak: {},
		model.DecoratorCode: {
			model.DecoratorLinebreak: true, model.DecoratorStrong: true, model.DecoratorEmphasis: true,
			model.DecoratorMark: true, model.DecoratorKeyboard: true, model.DecoratorVariable: true,
		},
		model.DecoratorKeyboard: {
			model.DecoratorLinebreak: true,
		},
	}
)

// AllowedChildren reports whether child may be placed directly under parent.
func AllowedChildren(parent, child model.Type) bool {
	set, ok := allowedChildren[parent]
	if !ok {
		return false
	}
	return set.Has(child)
}

// ChildrenOf returns set of types legal directly under parent.
func ChildrenOf(parent model.Type) TypeSet {
	return allowedChildren[parent]
}

// DecoratorAllowed reports whether child decorator may be nested inside
// parent decorator.
func DecoratorAllowed(parent, child model.Decorator) bool {
	set, ok := decoratorChildren[parent]
	if !ok {
		return true
	}
	return set[child]
}

// DecoratorsAvailable reports whether decorators may be used at all in
// blocks of type t.
func DecoratorsAvailable(t model.Type) bool {
	return !noDecorators.Has(t)
}
