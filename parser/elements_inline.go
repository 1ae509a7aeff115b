package parser

import (
	"strings"

	"go.uber.org/zap"

	"canvas/model"
	"canvas/settings"
	"canvas/urls"
)

type decoratorElement struct{ elementBase }

// finalize wraps children into a fragment carrying the decorator. A sole
// text fragment child gets the decorator prepended instead, so nested
// formatting produces one fragment with several decorators, outermost first.
func (e *decoratorElement) finalize(b *builder) []model.Block {
	children := b.normalize(model.TypeFragment, e.children)
	if len(children) == 0 {
		return nil
	}
	var title string
	if e.decorator == model.DecoratorAbbreviation {
		title = e.attrs.Get("title")
	}

	if len(children) == 1 {
		if c, ok := foldDecorators([]model.Decorator{e.decorator}, title, children[0]); ok {
			return []model.Block{c}
		}
	}
	return []model.Block{{
		Type:       model.TypeFragment,
		ID:         b.ids.next(),
		Properties: &model.Properties{Decorators: []model.Decorator{e.decorator}, Abbreviation: title},
		Value:      model.ChildrenValue(children),
	}}
}

type linebreakElement struct{ elementBase }

// finalize emits decorated newline when line breaks are available, newline
// inside code blocks and a space anywhere else.
func (e *linebreakElement) finalize(b *builder) []model.Block {
	switch {
	case b.ctx.CanAddDecorator(model.DecoratorLinebreak):
		return []model.Block{{
			Type:       model.TypeFragment,
			ID:         b.ids.next(),
			Properties: &model.Properties{Decorators: []model.Decorator{model.DecoratorLinebreak}},
			Value:      model.TextValue("\n"),
		}}
	case !b.ctx.CanAddType(model.TypeFragment):
		return nil
	case b.ctx.Top().Type == model.TypeCode:
		return []model.Block{b.textFragment("\n")}
	}
	return []model.Block{b.textFragment(" ")}
}

type linkElement struct {
	elementBase
	target *model.LinkTarget
}

func (e *linkElement) open(b *builder) bool {
	target, ok := b.linkTarget(strings.TrimSpace(e.attrs.Get("href")))
	if !ok {
		return false
	}
	e.target = target
	return true
}

func (e *linkElement) finalize(b *builder) []model.Block {
	props := &model.Properties{
		Link:   e.target,
		Title:  e.attrs.Get("title"),
		NewTab: strings.EqualFold(e.attrs.Get("target"), "_blank"),
	}
	return []model.Block{e.build(b, props)}
}

// linkTarget classifies href: in-document anchor, mailto, tel, resolved node
// or entry, or opaque absolute address. Link kind is then checked against
// settings: a disallowed kind degrades to plain address when that is allowed
// and rejects the link otherwise.
func (b *builder) linkTarget(href string) (*model.LinkTarget, bool) {
	if href == "" {
		return nil, false
	}

	var target *model.LinkTarget
	if anchor, ok := strings.CutPrefix(href, "#"); ok {
		target = &model.LinkTarget{Kind: model.LinkAnchor, Anchor: anchor}
	} else {
		p := b.cls.Parse(href)
		switch p.Class {
		case urls.ClassMailto:
			target = &model.LinkTarget{Kind: model.LinkMailto, URI: p.Absolute}
		case urls.ClassTel:
			target = &model.LinkTarget{Kind: model.LinkTel, URI: p.Absolute}
		default:
			if !p.OK() {
				b.log.Debug("Link address not recognized, kept as is", zap.String("href", href))
			}
			target = &model.LinkTarget{Kind: model.LinkURI, URI: p.Absolute}
			if path, ok := b.cls.Local(href); ok {
				if n, found := b.lookup.Node(path); found {
					target = &model.LinkTarget{Kind: model.LinkNode, Node: n, URI: p.Absolute, Query: p.Query, Fragment: p.Fragment}
				} else if en, found := b.lookup.Entry(path); found {
					target = &model.LinkTarget{Kind: model.LinkEntry, Entry: en, URI: p.Absolute, Query: p.Query, Fragment: p.Fragment}
				}
			}
		}
	}

	kind := string(target.Kind)
	fixed, ok := b.ctx.Settings().FixSetting(settings.KeyLinkType, kind, string(model.LinkURI))
	switch {
	case !ok:
		return nil, false
	case fixed == kind:
		return target, true
	case fixed == string(model.LinkURI):
		b.log.Debug("Link degraded to address", zap.String("href", href), zap.String("kind", kind))
		return &model.LinkTarget{Kind: model.LinkURI, URI: b.cls.ToAbsolute(href)}, true
	}
	b.log.Debug("Link kind not allowed", zap.String("href", href), zap.String("kind", kind))
	return nil, false
}

type anchorElement struct{ elementBase }

func (e *anchorElement) finalize(b *builder) []model.Block {
	name := e.attrs.Get("id")
	if name == "" {
		name = e.attrs.Get("name")
	}
	return []model.Block{e.build(b, &model.Properties{Anchor: name})}
}

type inlineEntryElement struct {
	elementBase
	entry *model.EntryRef
}

// open takes entry from lookup when href resolves to one, otherwise from
// data attributes.
func (e *inlineEntryElement) open(b *builder) bool {
	if href := strings.TrimSpace(e.attrs.Get("href")); href != "" {
		if path, ok := b.cls.Local(href); ok {
			if en, found := b.lookup.Entry(path); found {
				e.entry = en
				return true
			}
		}
	}
	id := e.attrs.Get("data-entry-id")
	if id == "" {
		return false
	}
	e.entry = &model.EntryRef{
		ID:            id,
		ContentTypeID: e.attrs.Get("data-content-type"),
		Language:      e.attrs.Get("lang"),
	}
	return true
}

func (e *inlineEntryElement) finalize(b *builder) []model.Block {
	return []model.Block{e.build(b, &model.Properties{Entry: e.entry})}
}

type imageElement struct {
	elementBase
	image *model.ImageProperties
}

// open resolves image source: data URIs are kept inline, managed assets
// come from lookup together with transformations, anything else becomes
// absolute address.
func (e *imageElement) open(b *builder) bool {
	src := strings.TrimSpace(e.attrs.Get("src"))
	if src == "" {
		return false
	}
	img := &model.ImageProperties{AltText: e.attrs.Get("alt")}
	if urls.IsDataURI(src) {
		img.URI = src
		e.image = img
		return true
	}
	p := b.cls.Parse(src)
	if path, ok := b.cls.Local(src); ok {
		if a, found := b.lookup.Asset(path); found {
			img.Asset = a
			img.Transformations = urls.Transformations(p.Params)
			if img.AltText == "" {
				img.AltText = a.AltText
			}
		}
	}
	if img.Asset == nil {
		img.URI = p.Absolute
	}
	e.image = img
	return true
}

func (e *imageElement) finalize(b *builder) []model.Block {
	return []model.Block{{Type: model.TypeImage, ID: e.id(b), Properties: &model.Properties{Image: e.image}}}
}

// rejected keeps alternative text of images which cannot be placed.
func (e *imageElement) rejected(b *builder) []model.Block {
	alt := strings.TrimSpace(e.attrs.Get("alt"))
	if alt == "" || !b.ctx.CanAddType(model.TypeFragment) {
		return nil
	}
	return []model.Block{b.textFragment(alt)}
}
