package parser

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"canvas/markup"
	"canvas/model"
	"canvas/settings"
)

type headingElement struct {
	elementBase
	level int
}

// open settles heading level: disallowed level walks down to the nearest
// allowed one, when there is none below the first allowed level is used.
func (e *headingElement) open(b *builder) bool {
	s := b.ctx.Settings()
	if _, restricted := s.Values(settings.KeyHeadingLevel); !restricted {
		return true
	}
	for l := e.level; l >= 1; l-- {
		if s.Contains(settings.KeyHeadingLevel, strconv.Itoa(l)) {
			e.level = l
			return true
		}
	}
	v, ok := s.FixSetting(settings.KeyHeadingLevel, strconv.Itoa(e.level), "")
	if !ok {
		return false
	}
	l, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	e.level = l
	return true
}

func (e *headingElement) finalize(b *builder) []model.Block {
	return []model.Block{e.build(b, &model.Properties{Level: e.level})}
}

type paragraphElement struct {
	elementBase
	paragraphType string
}

// open picks paragraph type from data-type attribute or, when types are
// restricted, from the first class which is an allowed type.
func (e *paragraphElement) open(b *builder) bool {
	s := b.ctx.Settings()
	explicit := e.attrs.Get("data-type")
	if _, restricted := s.Values(settings.KeyParagraphType); !restricted {
		e.paragraphType = explicit
		return true
	}
	for _, c := range append([]string{explicit}, e.attrs.Classes()...) {
		if c != "" && s.Contains(settings.KeyParagraphType, c) {
			e.paragraphType = c
			break
		}
	}
	return true
}

func (e *paragraphElement) finalize(b *builder) []model.Block {
	var props *model.Properties
	if e.paragraphType != "" {
		props = &model.Properties{ParagraphType: e.paragraphType}
	}
	return []model.Block{e.build(b, props)}
}

type listElement struct {
	elementBase
	ordered  bool
	listType model.ListType
}

func (e *listElement) open(b *builder) bool {
	kind := model.ListUnordered
	if e.ordered {
		kind = model.ListOrdered
	}
	v, ok := b.ctx.Settings().FixSetting(settings.KeyListType, string(kind), string(model.ListUnordered))
	if !ok {
		return false
	}
	e.listType = model.ListType(v)
	return true
}

func (e *listElement) finalize(b *builder) []model.Block {
	props := &model.Properties{ListType: e.listType}
	if e.listType == model.ListOrdered {
		if start, err := strconv.Atoi(strings.TrimSpace(e.attrs.Get("start"))); err == nil {
			props.Start = &start
		}
	}
	return []model.Block{e.build(b, props)}
}

type listItemElement struct{ elementBase }

// finalize keeps a single nested list per item: anything following the first
// nested list is discarded.
func (e *listItemElement) finalize(b *builder) []model.Block {
	blk := e.build(b, nil)
	children := blk.Value.Children()
	for i := range children {
		if children[i].Type != model.TypeList {
			continue
		}
		if i+1 < len(children) {
			b.log.Debug("Content after nested list discarded", zap.Int("blocks", len(children)-i-1))
			blk.Value = model.ChildrenValue(slices.Clone(children[:i+1]))
		}
		break
	}
	return []model.Block{blk}
}

type panelElement struct {
	elementBase
	panelType string
}

func (e *panelElement) open(b *builder) bool {
	s := b.ctx.Settings()
	classes := e.attrs.Classes()
	candidate := e.attrs.Get("data-panel-type")
	if _, restricted := s.Values(settings.KeyPanelType); restricted {
		if !s.Contains(settings.KeyPanelType, candidate) {
			for _, c := range classes {
				if s.Contains(settings.KeyPanelType, c) {
					candidate = c
					break
				}
			}
		}
	} else if candidate == "" && len(classes) > 0 {
		candidate = classes[0]
	}
	v, ok := s.FixSetting(settings.KeyPanelType, candidate, "info")
	if !ok {
		return false
	}
	if v == "" {
		v = "info"
	}
	e.panelType = v
	return true
}

func (e *panelElement) finalize(b *builder) []model.Block {
	return []model.Block{e.build(b, &model.Properties{PanelType: e.panelType})}
}

type componentElement struct {
	elementBase
	value map[string]any
}

func (e *componentElement) open(b *builder) bool {
	name := e.attrs.Get("data-component")
	if name == "" || !b.ctx.Settings().Contains(settings.KeyComponentType, name) {
		return false
	}
	if raw := e.attrs.Get("data-component-value"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.value); err != nil {
			b.log.Debug("Component value ignored", zap.String("component", name), zap.Error(err))
			e.value = nil
		}
	}
	return true
}

func (e *componentElement) finalize(b *builder) []model.Block {
	return []model.Block{{
		Type: model.TypeComponent,
		ID:   e.id(b),
		Properties: &model.Properties{Component: &model.ComponentProperties{
			Name:  e.attrs.Get("data-component"),
			Value: e.value,
		}},
	}}
}

type formElement struct{ elementBase }

func (e *formElement) open(b *builder) bool {
	id := e.attrs.Get("data-form-content-type")
	return id != "" && b.ctx.Settings().Contains(settings.KeyFormContentType, id)
}

func (e *formElement) finalize(b *builder) []model.Block {
	return []model.Block{{
		Type:       model.TypeFormContentType,
		ID:         e.id(b),
		Properties: &model.Properties{FormContentType: &model.FormContentType{ID: e.attrs.Get("data-form-content-type")}},
	}}
}

// languageOf finds code language in data-language attribute or
// language-xxx / lang-xxx class.
func languageOf(attrs markup.Attributes) string {
	if l := attrs.Get("data-language"); l != "" {
		return l
	}
	for _, c := range attrs.Classes() {
		for _, prefix := range []string{"language-", "lang-"} {
			if l, ok := strings.CutPrefix(c, prefix); ok && l != "" {
				return l
			}
		}
	}
	return ""
}

// preElement is a code block. Nested code element reports language through
// its typed back reference.
type preElement struct {
	elementBase
	language string
	started  bool
}

// leading drops a single newline right after the opening tag. Only the
// first token inside pre qualifies, text of nested elements is kept as is.
func (e *preElement) leading(text string) string {
	if e.started {
		return text
	}
	e.started = true
	if t, ok := strings.CutPrefix(text, "\r\n"); ok {
		return t
	}
	return strings.TrimPrefix(text, "\n")
}

func (e *preElement) open(*builder) bool {
	e.language = languageOf(e.attrs)
	return true
}

func (e *preElement) finalize(b *builder) []model.Block {
	text := model.PlainText(e.children)
	if text == "" {
		return nil
	}
	candidate := e.language
	if candidate == "" {
		candidate = "text"
	}
	props := &model.Properties{}
	if lang, ok := b.ctx.Settings().FixSetting(settings.KeyCodeLanguage, candidate, "text"); ok {
		props.Language = lang
	}
	return []model.Block{{Type: model.TypeCode, ID: e.id(b), Properties: props, Value: model.TextValue(text)}}
}

type codeInPreElement struct {
	elementBase
	pre *preElement
}

func (e *codeInPreElement) open(*builder) bool {
	if l := languageOf(e.attrs); l != "" && e.pre.language == "" {
		e.pre.language = l
	}
	return true
}

func (e *codeInPreElement) finalize(*builder) []model.Block { return e.children }

// quoteElement collects source from nested cite or footer.
type quoteElement struct {
	elementBase
	source string
}

func (e *quoteElement) finalize(b *builder) []model.Block {
	props := &model.Properties{Source: e.source}
	if cite := strings.TrimSpace(e.attrs.Get("cite")); cite != "" {
		props.Citation = b.cls.ToAbsolute(cite)
	}
	return []model.Block{e.build(b, props)}
}

// sourceElement is cite or footer directly inside quote.
type sourceElement struct {
	elementBase
	quote *quoteElement
}

func (e *sourceElement) finalize(*builder) []model.Block {
	text := trimmedText(e.children)
	switch {
	case text == "":
	case e.quote.source == "":
		e.quote.source = text
	default:
		e.quote.source += " " + text
	}
	return nil
}

// pendingCaption waits in figure until the figure is complete.
type pendingCaption struct {
	text   string
	blocks []model.Block
	at     int
}

type figureElement struct {
	elementBase
	caption *pendingCaption
}

// finalize puts caption onto the first image, code block or quote inside
// the figure. Without such target caption content stays where it was.
func (e *figureElement) finalize(b *builder) []model.Block {
	children := e.children
	if c := e.caption; c != nil && (c.text == "" || !attachCaption(children, c.text)) {
		children = slices.Insert(slices.Clone(children), min(c.at, len(children)), c.blocks...)
	}
	return b.wrapInline(children)
}

func attachCaption(blocks []model.Block, text string) bool {
	attached := false
	_ = model.Walk(blocks, func(blk *model.Block, _ int) error {
		if attached {
			return model.SkipChildren
		}
		switch blk.Type {
		case model.TypeImage:
			p := blk.Props()
			if p.Image == nil {
				p.Image = &model.ImageProperties{}
			}
			p.Image.Caption = text
		case model.TypeCode:
			blk.Props().Caption = text
		case model.TypeQuote:
			if p := blk.Props(); p.Source == "" {
				p.Source = text
			}
		default:
			return nil
		}
		attached = true
		return model.SkipChildren
	})
	return attached
}

type figcaptionElement struct {
	elementBase
	figure *figureElement
}

func (e *figcaptionElement) finalize(b *builder) []model.Block {
	if e.figure == nil {
		return b.wrapInline(e.children)
	}
	e.figure.caption = &pendingCaption{
		text:   trimmedText(e.children),
		blocks: b.wrapInline(e.children),
		at:     len(e.figure.children),
	}
	return nil
}
