package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"canvas/config"
	"canvas/model"
)

// HeadingDefinition describes document heading available to templates.
type HeadingDefinition struct {
	Level int
	Text  string
}

// Values holds variables available for template expansion.
type Values struct {
	Context    string
	Title      string
	Headings   []HeadingDefinition
	Format     string
	SourceFile string
	SourceDir  string
	Blocks     int
	Images     int
}

func buildHeadings(blocks []model.Block) []HeadingDefinition {
	result := make([]HeadingDefinition, 0, 8)
	_ = model.Walk(blocks, func(b *model.Block, _ int) error {
		if b.Type != model.TypeHeading {
			return nil
		}
		def := HeadingDefinition{Text: strings.TrimSpace(model.PlainText([]model.Block{*b}))}
		if b.Properties != nil {
			def.Level = b.Properties.Level
		}
		result = append(result, def)
		return model.SkipChildren
	})
	return result
}

func countImages(blocks []model.Block) int {
	n := 0
	_ = model.Walk(blocks, func(b *model.Block, _ int) error {
		if b.Type == model.TypeImage {
			n++
		}
		return nil
	})
	return n
}

// title is text of the first top level heading, or of the first heading
// found anywhere.
func title(headings []HeadingDefinition) string {
	best := -1
	for i, h := range headings {
		if h.Text == "" {
			continue
		}
		if best < 0 || h.Level < headings[best].Level {
			best = i
		}
		if h.Level <= 1 {
			break
		}
	}
	if best < 0 {
		return ""
	}
	return headings[best].Text
}

func expandTemplate(blocks []model.Block, src string, name config.TemplateFieldName, field string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	headings := buildHeadings(blocks)
	dir := filepath.ToSlash(filepath.Dir(src))
	if dir == "." {
		dir = ""
	}
	values := Values{
		Context:    string(name),
		Title:      title(headings),
		Headings:   headings,
		Format:     strings.TrimPrefix(outputExt, "."),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		SourceDir:  dir,
		Blocks:     len(blocks),
		Images:     countImages(blocks),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
