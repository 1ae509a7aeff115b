package markup

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// XHTML is an event source over well formed (or almost) XHTML documents. The
// whole document is read into etree DOM first, so input encoding declared in
// XML prolog is honored.
type XHTML struct {
	doc *etree.Document
}

// commonEntities are HTML named references which frequently appear in
// hand-written XHTML without DTD declaring them.
var commonEntities = []string{
	"nbsp", "shy", "ndash", "mdash", "hellip", "laquo", "raquo", "lsquo", "rsquo",
	"ldquo", "rdquo", "bdquo", "sbquo", "copy", "reg", "trade", "deg", "plusmn",
	"times", "divide", "middot", "bull", "sect", "para", "euro", "pound", "yen",
	"cent", "larr", "rarr", "uarr", "darr", "harr", "frac12", "frac14", "frac34",
	"thinsp", "ensp", "emsp", "zwj", "zwnj", "prime", "Prime", "minus", "le", "ge",
	"ne", "asymp", "infin", "alpha", "beta", "gamma", "delta", "pi", "sigma", "mu",
}

func namedEntities() map[string]string {
	m := make(map[string]string, len(commonEntities))
	for _, name := range commonEntities {
		if v := html.UnescapeString("&" + name + ";"); v != "&"+name+";" {
			m[name] = v
		}
	}
	return m
}

// NewXHTML reads XHTML document.
func NewXHTML(data []byte) (*XHTML, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        namedEntities(),
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("unable to read XHTML: %w", err)
	}
	return &XHTML{doc: doc}, nil
}

// Walk replays document in order. When document has html root, only body
// content is reported.
func (s *XHTML) Walk(h Handler) error {
	nodes := s.doc.Child
	if root := s.doc.Root(); root != nil && strings.EqualFold(root.Tag, "html") {
		if body := findChild(root, "body"); body != nil {
			nodes = body.Child
		}
	}
	for _, n := range nodes {
		walkToken(n, h)
	}
	h.End()
	return nil
}

func findChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, tag) {
			return c
		}
	}
	return nil
}

func walkToken(t etree.Token, h Handler) {
	switch token := t.(type) {
	case *etree.CharData:
		if token.Data != "" {
			h.Text(token.Data)
		}
	case *etree.Element:
		name := strings.ToLower(token.Tag)
		attrs := make(Attributes, 0, len(token.Attr))
		for _, a := range token.Attr {
			key := strings.ToLower(a.Key)
			if a.Space != "" && a.Space != "xmlns" {
				// xml:lang, xlink:href
				key = strings.ToLower(a.Space) + ":" + key
			} else if a.Space == "xmlns" {
				continue
			}
			attrs = append(attrs, Attribute{Name: key, Value: a.Value})
		}
		h.OpenTag(name, attrs)
		for _, c := range token.Child {
			walkToken(c, h)
		}
		h.CloseTag(name)
	}
}
