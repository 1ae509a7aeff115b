package parser

import (
	"strings"

	"canvas/markup"
	"canvas/model"
)

// newElement constructs handler for element kind. Elements coordinating
// with their container (figcaption, cite, code in pre) get typed reference
// to the immediate parent here.
func (b *builder) newElement(kind ElementKind, tag string, attrs markup.Attributes, parent element) element {
	eb := elementBase{kind: kind, tag: tag, attrs: attrs}

	switch kind {
	case KindIgnore:
		eb.ignore = true
		return &ignoreElement{eb}
	case KindBlock:
		return &blockElement{eb}
	case KindHeading:
		eb.blockType = model.TypeHeading
		return &headingElement{elementBase: eb, level: int(tag[1] - '0')}
	case KindParagraph:
		eb.blockType = model.TypeParagraph
		return &paragraphElement{elementBase: eb}
	case KindList:
		eb.blockType = model.TypeList
		return &listElement{elementBase: eb, ordered: tag == "ol"}
	case KindListItem:
		eb.blockType = model.TypeListItem
		return &listItemElement{eb}
	case KindTable:
		eb.blockType = model.TypeTable
		return &tableElement{eb}
	case KindTableCaption:
		eb.blockType = model.TypeTableCaption
		return &containerElement{eb}
	case KindTableSection:
		switch tag {
		case "thead":
			eb.blockType = model.TypeTableHeader
		case "tfoot":
			eb.blockType = model.TypeTableFooter
		default:
			eb.blockType = model.TypeTableBody
		}
		return &containerElement{eb}
	case KindTableRow:
		eb.blockType = model.TypeTableRow
		return &containerElement{eb}
	case KindTableCell:
		eb.blockType = model.TypeTableCell
		return &containerElement{eb}
	case KindTableHeaderCell:
		eb.blockType = model.TypeTableHeaderCell
		if !b.ctx.CanAddType(model.TypeTableHeaderCell) && b.ctx.CanAddType(model.TypeTableCell) {
			// keep content when header cells are disabled
			eb.blockType = model.TypeTableCell
		}
		return &containerElement{eb}
	case KindFigure:
		return &figureElement{elementBase: eb}
	case KindFigcaption:
		fig, _ := parent.(*figureElement)
		return &figcaptionElement{elementBase: eb, figure: fig}
	case KindQuote:
		eb.blockType = model.TypeQuote
		return &quoteElement{elementBase: eb}
	case KindCite, KindFooter:
		if q, ok := parent.(*quoteElement); ok && q.allowed {
			return &sourceElement{elementBase: eb, quote: q}
		}
		if kind == KindFooter {
			return &blockElement{eb}
		}
	case KindPre:
		eb.blockType = model.TypeCode
		return &preElement{elementBase: eb}
	case KindCode:
		if pre, ok := parent.(*preElement); ok && pre.allowed {
			return &codeInPreElement{elementBase: eb, pre: pre}
		}
		eb.decorator = model.DecoratorCode
		return &decoratorElement{eb}
	case KindAnchor:
		switch {
		case attrs.Has("data-entry-id") || attrs.HasClass("inline-entry"):
			eb.blockType = model.TypeInlineEntry
			return &inlineEntryElement{elementBase: eb}
		case attrs.Has("href"):
			eb.blockType = model.TypeLink
			return &linkElement{elementBase: eb}
		case attrs.Has("id") || attrs.Has("name"):
			eb.blockType = model.TypeAnchor
			return &anchorElement{eb}
		}
	case KindImage:
		eb.blockType = model.TypeImage
		return &imageElement{elementBase: eb}
	case KindDivider:
		eb.blockType = model.TypeDivider
		return &containerElement{eb}
	case KindPanel:
		eb.blockType = model.TypePanel
		return &panelElement{elementBase: eb}
	case KindLinebreak:
		return &linebreakElement{eb}
	case KindDecorator:
		eb.decorator = decoratorTags[tag]
		return &decoratorElement{eb}
	case KindComponent:
		eb.blockType = model.TypeComponent
		return &componentElement{elementBase: eb}
	case KindFormContentType:
		eb.blockType = model.TypeFormContentType
		return &formElement{eb}
	}
	return &inlineElement{eb}
}

// ignoreElement drops everything, nested elements are ignored as well.
type ignoreElement struct{ elementBase }

func (e *ignoreElement) finalize(*builder) []model.Block { return nil }

// inlineElement splices its children into the parent.
type inlineElement struct{ elementBase }

func (e *inlineElement) finalize(*builder) []model.Block { return e.children }

// blockElement splices its children into the parent, runs of inline content
// become paragraphs when the parent accepts them.
type blockElement struct{ elementBase }

func (e *blockElement) finalize(b *builder) []model.Block {
	return b.wrapInline(e.children)
}

// containerElement is a schema gated block without properties of its own.
type containerElement struct{ elementBase }

func (e *containerElement) finalize(b *builder) []model.Block {
	return []model.Block{e.build(b, nil)}
}

// build returns block of element type with normalized children.
func (e *elementBase) build(b *builder, props *model.Properties) model.Block {
	blk := model.Block{Type: e.blockType, ID: e.id(b), Properties: props}
	if children := b.normalize(e.blockType, e.children); len(children) > 0 {
		blk.Value = model.ChildrenValue(children)
	}
	return blk
}

func trimmedText(blocks []model.Block) string {
	return strings.TrimSpace(model.PlainText(blocks))
}
