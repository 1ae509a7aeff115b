package model

import (
	"fmt"
	"strings"

	"canvas/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the block and everything under it.
// It exists solely for manual inspection during debugging.
func (b *Block) String() string {
	if b == nil {
		return "<nil Block>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.block(0, b)
	return tw.String()
}

// Dump returns a readable tree of the whole document.
func Dump(blocks []Block) string {
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Document: %d blocks", len(blocks))
	for i := range blocks {
		tw.block(1, &blocks[i])
	}
	return tw.String()
}

func (tw treeWriter) block(depth int, b *Block) {
	if attrs := describe(b.Properties); attrs != "" {
		tw.Line(depth, "%s id=%q %s", b.Type.Name(), b.ID, attrs)
	} else {
		tw.Line(depth, "%s id=%q", b.Type.Name(), b.ID)
	}
	switch b.Value.kind {
	case ValueText:
		tw.TextBlock(depth+1, "Text", b.Value.text)
	case ValueChildren:
		for i := range b.Value.children {
			tw.block(depth+1, &b.Value.children[i])
		}
	}
}

func describe(p *Properties) string {
	if p == nil {
		return ""
	}
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	if p.Level > 0 {
		add("level=%d", p.Level)
	}
	if p.ParagraphType != "" {
		add("paragraphType=%q", p.ParagraphType)
	}
	if p.ListType != "" {
		add("listType=%s", p.ListType)
	}
	if p.Start != nil {
		add("start=%d", *p.Start)
	}
	if p.PanelType != "" {
		add("panelType=%q", p.PanelType)
	}
	if p.Language != "" {
		add("language=%q", p.Language)
	}
	if p.Caption != "" {
		add("caption=%q", p.Caption)
	}
	if p.Source != "" {
		add("source=%q", p.Source)
	}
	if p.Citation != "" {
		add("url=%q", p.Citation)
	}
	if len(p.Decorators) > 0 {
		names := make([]string, 0, len(p.Decorators))
		for _, d := range p.Decorators {
			names = append(names, string(d))
		}
		add("decorators=[%s]", strings.Join(names, ","))
	}
	if p.Abbreviation != "" {
		add("abbreviation=%q", p.Abbreviation)
	}
	if p.Anchor != "" {
		add("anchor=%q", p.Anchor)
	}
	if p.Link != nil {
		add("link=%s:%q", p.Link.Kind, p.Link.Address())
	}
	if p.NewTab {
		add("newTab")
	}
	if p.Entry != nil {
		add("entry=%q", p.Entry.ID)
	}
	if p.Image != nil {
		if p.Image.Asset != nil {
			add("asset=%q", p.Image.Asset.ID)
		} else {
			add("uri=%q", p.Image.URI)
		}
		if p.Image.Caption != "" {
			add("caption=%q", p.Image.Caption)
		}
	}
	if p.Component != nil {
		add("component=%q", p.Component.Name)
	}
	if p.FormContentType != nil {
		add("form=%q", p.FormContentType.ID)
	}
	return strings.Join(parts, " ")
}
