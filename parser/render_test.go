package parser

import (
	"fmt"
	"html"
	"math/rand/v2"
	"strconv"
	"strings"

	"canvas/model"
)

// shape renders tree structure without ids: type names, decorators in braces,
// quoted text and bracketed children. Plain text fragments are shown as
// their quoted text only.
func shape(blocks []model.Block) string {
	var sb strings.Builder
	writeShape(&sb, blocks)
	return sb.String()
}

func writeShape(sb *strings.Builder, blocks []model.Block) {
	for i := range blocks {
		if i > 0 {
			sb.WriteByte(',')
		}
		blk := &blocks[i]
		if blk.Type == model.TypeFragment {
			if ds := blk.Decorators(); len(ds) > 0 {
				names := make([]string, 0, len(ds))
				for _, d := range ds {
					names = append(names, string(d))
				}
				sb.WriteString("{" + strings.Join(names, ",") + "}")
			}
			if t := abbreviation(blk); t != "" {
				sb.WriteString("@" + strconv.Quote(t))
			}
		} else {
			sb.WriteString(blk.Type.Name())
			if p := blk.Properties; p != nil {
				switch blk.Type {
				case model.TypeHeading:
					fmt.Fprintf(sb, "(%d)", p.Level)
				case model.TypeCode:
					fmt.Fprintf(sb, "(%s)", p.Language)
				case model.TypePanel:
					fmt.Fprintf(sb, "(%s)", p.PanelType)
				case model.TypeInlineEntry:
					fmt.Fprintf(sb, "(%s)", p.Entry.ID)
				}
			}
		}
		switch {
		case blk.Value.HasText():
			sb.WriteString(strconv.Quote(blk.Value.Text()))
		case blk.Value.HasChildren():
			sb.WriteByte('[')
			writeShape(sb, blk.Value.Children())
			sb.WriteByte(']')
		}
	}
}

var decoratorMarkup = map[model.Decorator]string{
	model.DecoratorEmphasis:      "em",
	model.DecoratorStrong:        "strong",
	model.DecoratorCode:          "code",
	model.DecoratorMark:          "mark",
	model.DecoratorDelete:        "del",
	model.DecoratorInsert:        "ins",
	model.DecoratorStrikethrough: "s",
	model.DecoratorSubscript:     "sub",
	model.DecoratorSuperscript:   "sup",
	model.DecoratorUnderline:     "u",
	model.DecoratorKeyboard:      "kbd",
	model.DecoratorVariable:      "var",
	model.DecoratorAbbreviation:  "abbr",
}

// renderHTML is a minimal renderer producing markup the parser accepts back.
func renderHTML(blocks []model.Block) string {
	var sb strings.Builder
	for i := range blocks {
		renderBlock(&sb, &blocks[i])
	}
	return sb.String()
}

func renderChildren(sb *strings.Builder, blk *model.Block) {
	if blk.Value.HasText() {
		sb.WriteString(html.EscapeString(blk.Value.Text()))
		return
	}
	for i := range blk.Value.Children() {
		renderBlock(sb, &blk.Value.Children()[i])
	}
}

func wrap(sb *strings.Builder, tag, attrs string, blk *model.Block) {
	sb.WriteString("<" + tag + attrs + ">")
	renderChildren(sb, blk)
	sb.WriteString("</" + tag + ">")
}

func renderBlock(sb *strings.Builder, blk *model.Block) {
	p := blk.Props()
	switch blk.Type {
	case model.TypeHeading:
		wrap(sb, "h"+strconv.Itoa(p.Level), "", blk)
	case model.TypeParagraph:
		wrap(sb, "p", "", blk)
	case model.TypeFragment:
		ds := blk.Decorators()
		if model.HasDecorator(ds, model.DecoratorLinebreak) {
			sb.WriteString("<br>")
			return
		}
		for _, d := range ds {
			if d == model.DecoratorAbbreviation && p.Abbreviation != "" {
				fmt.Fprintf(sb, `<abbr title="%s">`, html.EscapeString(p.Abbreviation))
				continue
			}
			sb.WriteString("<" + decoratorMarkup[d] + ">")
		}
		renderChildren(sb, blk)
		for i := len(ds) - 1; i >= 0; i-- {
			sb.WriteString("</" + decoratorMarkup[ds[i]] + ">")
		}
	case model.TypeLink:
		wrap(sb, "a", fmt.Sprintf(` href="%s"`, html.EscapeString(p.Link.Address())), blk)
	case model.TypeInlineEntry:
		attrs := fmt.Sprintf(` data-entry-id="%s"`, html.EscapeString(p.Entry.ID))
		if p.Entry.ContentTypeID != "" {
			attrs += fmt.Sprintf(` data-content-type="%s"`, html.EscapeString(p.Entry.ContentTypeID))
		}
		if p.Entry.Language != "" {
			attrs += fmt.Sprintf(` lang="%s"`, html.EscapeString(p.Entry.Language))
		}
		wrap(sb, "a", attrs, blk)
	case model.TypeAnchor:
		wrap(sb, "a", fmt.Sprintf(` id="%s"`, html.EscapeString(p.Anchor)), blk)
	case model.TypeImage:
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`, html.EscapeString(p.Image.URI), html.EscapeString(p.Image.AltText))
	case model.TypeCode:
		fmt.Fprintf(sb, `<pre><code class="language-%s">`, p.Language)
		sb.WriteString(html.EscapeString(blk.Value.Text()))
		sb.WriteString("</code></pre>")
	case model.TypeDivider:
		sb.WriteString("<hr>")
	case model.TypeList:
		tag := "ul"
		if p.ListType == model.ListOrdered {
			tag = "ol"
		}
		wrap(sb, tag, "", blk)
	case model.TypeListItem:
		wrap(sb, "li", "", blk)
	case model.TypePanel:
		wrap(sb, "aside", fmt.Sprintf(` class="%s"`, p.PanelType), blk)
	case model.TypeQuote:
		sb.WriteString("<blockquote>")
		renderChildren(sb, blk)
		if p.Source != "" {
			sb.WriteString("<footer>" + html.EscapeString(p.Source) + "</footer>")
		}
		sb.WriteString("</blockquote>")
	case model.TypeTable:
		wrap(sb, "table", "", blk)
	case model.TypeTableCaption:
		wrap(sb, "caption", "", blk)
	case model.TypeTableHeader:
		wrap(sb, "thead", "", blk)
	case model.TypeTableBody:
		wrap(sb, "tbody", "", blk)
	case model.TypeTableFooter:
		wrap(sb, "tfoot", "", blk)
	case model.TypeTableRow:
		wrap(sb, "tr", "", blk)
	case model.TypeTableCell:
		wrap(sb, "td", "", blk)
	case model.TypeTableHeaderCell:
		wrap(sb, "th", "", blk)
	}
}

var (
	randomWords  = []string{"a", "b c", " ", "  x ", "y\n", "", "&amp;", "word"}
	randomTags   = []string{"b", "i", "u", "code", "mark", "sub", "abbr"}
	randomTitles = []string{"", "t", "Hyper Text"}
	randomCode   = []string{"x", "\n\nx", "\na\n  b", "a &lt; b", "\n", "  y  "}
)

// randomMarkup produces a small document from a grammar of blocks and
// nested inline elements with uneven whitespace.
func randomMarkup(r *rand.Rand) string {
	var sb strings.Builder
	for range 1 + r.IntN(4) {
		switch r.IntN(6) {
		case 0:
			level := 1 + r.IntN(3)
			fmt.Fprintf(&sb, "<h%d>", level)
			randomInline(r, &sb, 0)
			fmt.Fprintf(&sb, "</h%d>", level)
		case 1, 2:
			sb.WriteString("<p>")
			randomInline(r, &sb, 0)
			sb.WriteString("</p>")
		case 3:
			sb.WriteString("<ul>")
			for range 1 + r.IntN(3) {
				sb.WriteString("<li>")
				randomInline(r, &sb, 0)
				sb.WriteString("</li>")
			}
			sb.WriteString("</ul>")
		case 4:
			sb.WriteString("<pre>" + randomCode[r.IntN(len(randomCode))] + "</pre>")
		case 5:
			sb.WriteString("<hr>")
		}
	}
	return sb.String()
}

func randomInline(r *rand.Rand, sb *strings.Builder, depth int) {
	for range 1 + r.IntN(4) {
		switch n := r.IntN(10); {
		case n >= 3 && n < 6 && depth < 3:
			tag := randomTags[r.IntN(len(randomTags))]
			if tag == "abbr" {
				if title := randomTitles[r.IntN(len(randomTitles))]; title != "" {
					fmt.Fprintf(sb, `<abbr title="%s">`, title)
				} else {
					sb.WriteString("<abbr>")
				}
			} else {
				sb.WriteString("<" + tag + ">")
			}
			randomInline(r, sb, depth+1)
			sb.WriteString("</" + tag + ">")
		case n == 6:
			sb.WriteString("<br>")
		case n == 7 && depth == 0:
			fmt.Fprintf(sb, `<a data-entry-id="e%d">`, r.IntN(3))
			sb.WriteString(randomWords[r.IntN(len(randomWords))])
			sb.WriteString("</a>")
		case n == 8 && depth == 0:
			sb.WriteString(`<a href="https://x.org/p">`)
			randomInline(r, sb, depth+1)
			sb.WriteString("</a>")
		default:
			sb.WriteString(randomWords[r.IntN(len(randomWords))])
		}
	}
}
