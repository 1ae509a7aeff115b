package parser

import (
	"slices"
	"strings"
	"unicode"

	"canvas/model"
)

// normalize repairs children of a container of type t right before the
// container block is built. Root of the document is passed as empty type.
func (b *builder) normalize(t model.Type, blocks []model.Block) []model.Block {
	blocks = mergeFragments(blocks)
	if t != model.TypeCode && !t.IsInline() {
		blocks = trimRuns(blocks)
	}
	blocks = dropEmpty(blocks)
	if !t.IsInline() {
		blocks = b.mergeLists(blocks)
	}
	return mergeFragments(blocks)
}

func isLinebreak(b *model.Block) bool {
	return model.HasDecorator(b.Decorators(), model.DecoratorLinebreak)
}

func abbreviation(b *model.Block) string {
	if b.Properties == nil {
		return ""
	}
	return b.Properties.Abbreviation
}

// mergeable reports whether two text fragments can become one.
func mergeable(a, b *model.Block) bool {
	if a.Type != model.TypeFragment || b.Type != model.TypeFragment {
		return false
	}
	if !a.Value.HasText() || !b.Value.HasText() || isLinebreak(a) || isLinebreak(b) {
		return false
	}
	return model.SameDecorators(a.Decorators(), b.Decorators()) && abbreviation(a) == abbreviation(b)
}

func isBlankText(b *model.Block) bool {
	return b.IsPlainText() && b.Value.HasText() && strings.TrimSpace(b.Value.Text()) == ""
}

func appendText(b model.Block, text string) model.Block {
	b.Value = model.TextValue(b.Value.Text() + text)
	return b
}

// mergeFragments coalesces adjacent equivalent text fragments. Whitespace
// between two equally decorated fragments is absorbed into the merged one.
func mergeFragments(blocks []model.Block) []model.Block {
	if len(blocks) < 2 {
		return blocks
	}
	out := make([]model.Block, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		cur := blocks[i]
		if n := len(out); n > 0 {
			last := &out[n-1]
			if mergeable(last, &cur) {
				*last = appendText(*last, cur.Value.Text())
				continue
			}
			if len(last.Decorators()) > 0 && i+1 < len(blocks) && isBlankText(&cur) && mergeable(last, &blocks[i+1]) {
				*last = appendText(*last, cur.Value.Text()+blocks[i+1].Value.Text())
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}

// trimBoundary blocks stop whitespace trimming.
func trimBoundary(b *model.Block) bool {
	switch b.Type {
	case model.TypeAnchor, model.TypeInlineEntry, model.TypeImage:
		return true
	}
	return isLinebreak(b)
}

// trimRuns strips whitespace at both edges of every maximal run of inline
// blocks.
func trimRuns(blocks []model.Block) []model.Block {
	out := slices.Clone(blocks)
	for i := 0; i < len(out); {
		if !out[i].Type.IsInline() {
			i++
			continue
		}
		j := i
		for j < len(out) && out[j].Type.IsInline() {
			j++
		}
		trimStart(out[i:j])
		trimEnd(out[i:j])
		i = j
	}
	return out
}

// trimStart returns true once content which is not whitespace is reached.
func trimStart(run []model.Block) bool {
	for k := range run {
		if trimBlock(&run[k], strings.TrimLeftFunc, trimStart) {
			return true
		}
	}
	return false
}

func trimEnd(run []model.Block) bool {
	for k := len(run) - 1; k >= 0; k-- {
		if trimBlock(&run[k], strings.TrimRightFunc, trimEnd) {
			return true
		}
	}
	return false
}

func trimBlock(b *model.Block, cut func(string, func(rune) bool) string, descend func([]model.Block) bool) bool {
	if trimBoundary(b) {
		return true
	}
	switch {
	case b.Value.HasText():
		text := cut(b.Value.Text(), unicode.IsSpace)
		b.Value = model.TextValue(text)
		return text != ""
	case b.Value.HasChildren():
		children := slices.Clone(b.Value.Children())
		stop := descend(children)
		children = mergeFragments(dropEmpty(children))
		b.Value = model.ChildrenValue(children)
		if b.Type == model.TypeFragment && len(children) == 1 {
			if c, ok := foldDecorators(b.Decorators(), abbreviation(b), children[0]); ok {
				*b = c
			}
		}
		return stop
	}
	return false
}

// foldDecorators applies decorators of a wrapper to its sole child when the
// child is a text fragment, outermost decorators first.
func foldDecorators(decorators []model.Decorator, title string, c model.Block) (model.Block, bool) {
	if len(decorators) == 0 || c.Type != model.TypeFragment || !c.Value.HasText() || isLinebreak(&c) {
		return c, false
	}
	if title != "" && abbreviation(&c) != "" {
		return c, false
	}
	props := &model.Properties{}
	if c.Properties != nil {
		*props = *c.Properties
	}
	props.Decorators = slices.Concat(decorators, c.Decorators())
	if title != "" {
		props.Abbreviation = title
	}
	c.Properties = props
	return c, true
}

// dropEmpty removes blocks without value unless their type is meaningful
// when empty.
func dropEmpty(blocks []model.Block) []model.Block {
	return slices.DeleteFunc(slices.Clone(blocks), func(b model.Block) bool {
		return b.IsEmpty() && !b.Type.IsVoid()
	})
}

func listType(b *model.Block) model.ListType {
	if b.Properties == nil {
		return ""
	}
	return b.Properties.ListType
}

// mergeLists joins adjacent lists of the same kind unless one of them carries
// id from markup.
func (b *builder) mergeLists(blocks []model.Block) []model.Block {
	if len(blocks) < 2 {
		return blocks
	}
	out := make([]model.Block, 0, len(blocks))
	for _, cur := range blocks {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Type == model.TypeList && cur.Type == model.TypeList &&
				listType(last) == listType(&cur) && !b.ids.isUser(last.ID) && !b.ids.isUser(cur.ID) {
				items := slices.Concat(last.Value.Children(), cur.Value.Children())
				last.Value = model.ChildrenValue(items)
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}

// wrapInline puts every run of inline blocks into implicit paragraph when
// paragraphs are legal in the current scope. Runs which end up empty after
// trimming disappear.
func (b *builder) wrapInline(blocks []model.Block) []model.Block {
	if !b.ctx.CanAddType(model.TypeParagraph) {
		return blocks
	}
	out := make([]model.Block, 0, len(blocks))
	for i := 0; i < len(blocks); {
		if !blocks[i].Type.IsInline() {
			out = append(out, blocks[i])
			i++
			continue
		}
		j := i
		for j < len(blocks) && blocks[j].Type.IsInline() {
			j++
		}
		if children := b.normalize(model.TypeParagraph, blocks[i:j]); len(children) > 0 {
			out = append(out, model.Block{
				Type:  model.TypeParagraph,
				ID:    b.ids.next(),
				Value: model.ChildrenValue(children),
			})
		}
		i = j
	}
	return out
}
