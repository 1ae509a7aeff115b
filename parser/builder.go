package parser

import (
	"strings"

	"go.uber.org/zap"

	"canvas/markup"
	"canvas/model"
	"canvas/resolve"
	"canvas/schema"
	"canvas/urls"
)

// element is a handler for one open markup element. Children finalized so
// far are accumulated in its base.
type element interface {
	base() *elementBase
	// finalize builds blocks to be appended to the parent. Context is
	// already restored to the parent scope when it is called.
	finalize(b *builder) []model.Block
}

// opener is implemented by elements which need to inspect attributes or
// settings before their frame is pushed. Returning false rejects the
// element: its content is walked in the parent scope and spliced into
// the parent.
type opener interface {
	open(b *builder) bool
}

// rejecter is implemented by elements with a content preserving substitute
// when they are rejected.
type rejecter interface {
	rejected(b *builder) []model.Block
}

type elementBase struct {
	kind  ElementKind
	tag   string
	attrs markup.Attributes
	// block type or decorator pushed on context, both empty for elements
	// which are not gated by schema
	blockType model.Type
	decorator model.Decorator

	children []model.Block
	mark     int
	allowed  bool
	ignore   bool
}

func (e *elementBase) base() *elementBase { return e }

// id returns block id honoring id attribute.
func (e *elementBase) id(b *builder) string {
	return b.ids.fromMarkup(e.attrs.Get("id"))
}

// builder is the tree building automaton. It is driven by markup events of a
// single walk and is not reusable.
type builder struct {
	ctx    *schema.Context
	lookup *resolve.Lookup
	cls    *urls.Classifier
	ids    *idGen
	log    *zap.Logger

	stack  []element
	result []model.Block
	done   bool
}

func (b *builder) top() element {
	return b.stack[len(b.stack)-1]
}

func (b *builder) OpenTag(name string, attrs markup.Attributes) {
	parent := b.top()
	if pre, ok := parent.(*preElement); ok {
		pre.started = true
	}

	var el element
	if parent.base().ignore {
		el = &ignoreElement{elementBase{kind: KindIgnore, tag: name, ignore: true}}
	} else {
		el = b.newElement(KindFor(name, attrs), name, attrs, parent)
	}

	eb := el.base()
	eb.mark = -1
	switch {
	case eb.decorator != "":
		eb.allowed = b.ctx.CanAddDecorator(eb.decorator)
	case eb.blockType != "":
		eb.allowed = b.ctx.CanAddType(eb.blockType)
	default:
		eb.allowed = true
	}
	if eb.allowed {
		if o, ok := el.(opener); ok {
			eb.allowed = o.open(b)
		}
	}
	switch {
	case eb.allowed && eb.decorator != "":
		eb.mark = b.ctx.PushDecorator(eb.decorator)
	case eb.allowed && eb.blockType != "":
		eb.mark = b.ctx.Push(eb.blockType)
	case !eb.allowed:
		b.log.Debug("Element rejected by schema",
			zap.String("tag", name), zap.Stringer("kind", eb.kind),
			zap.String("type", string(eb.blockType)), zap.String("decorator", string(eb.decorator)),
			zap.Int("depth", b.ctx.Depth()), zap.Any("active", b.ctx.Top().Active()))
	}
	b.stack = append(b.stack, el)
}

func (b *builder) CloseTag(name string) {
	if len(b.stack) < 2 {
		b.log.Debug("Unbalanced closing tag ignored", zap.String("tag", name))
		return
	}
	b.closeTop()
}

func (b *builder) closeTop() {
	el := b.top()
	b.stack = b.stack[:len(b.stack)-1]

	eb := el.base()
	if eb.mark >= 0 {
		b.ctx.Pop(eb.mark)
	}

	var out []model.Block
	if eb.allowed {
		out = el.finalize(b)
	} else if r, ok := el.(rejecter); ok {
		out = r.rejected(b)
	} else {
		out = eb.children
	}
	parent := b.top().base()
	parent.children = append(parent.children, out...)
}

// Text appends text to the innermost element coalescing with trailing plain
// fragment. Text is dropped where fragments are not legal.
func (b *builder) Text(text string) {
	eb := b.top().base()
	if eb.ignore {
		return
	}
	if !b.ctx.CanAddType(model.TypeFragment) {
		if strings.TrimSpace(text) != "" {
			b.log.Debug("Text skipped", zap.String("tag", eb.tag),
				zap.String("type", string(b.ctx.Top().Type)), zap.String("text", text))
		}
		return
	}
	if pre, ok := b.top().(*preElement); ok {
		text = pre.leading(text)
	}
	b.appendText(eb, text)
}

func (b *builder) appendText(eb *elementBase, text string) {
	if n := len(eb.children); n > 0 {
		last := &eb.children[n-1]
		if last.IsPlainText() && last.Value.HasText() {
			last.Value = model.TextValue(last.Value.Text() + text)
			return
		}
	}
	eb.children = append(eb.children, b.textFragment(text))
}

func (b *builder) textFragment(text string) model.Block {
	return model.Block{Type: model.TypeFragment, ID: b.ids.next(), Value: model.TextValue(text)}
}

func (b *builder) End() {
	for len(b.stack) > 1 {
		b.closeTop()
	}
	root := b.top().base()
	b.result = b.normalize("", b.wrapInline(root.children))
	b.done = true
}
