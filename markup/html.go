package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTML is a lenient event source over HTML fragments built on the
// x/net/html tokenizer. It does not build a DOM: tags are reported as they
// appear with a few recovery rules so that handlers always see balanced
// events.
//
//   - void elements and self-closing tags produce open and close at once
//   - closing tag which was never opened is ignored
//   - closing tag of an outer element closes everything opened inside it
//   - implied end tags (p, li, dt, dd, tr, td, th, option) are closed when
//     a sibling which cannot be nested in them starts
//   - everything still open at the end of input is closed
type HTML struct {
	text string
}

// NewHTML returns source over HTML text.
func NewHTML(text string) *HTML {
	return &HTML{text: text}
}

// closedBy lists for elements with optional end tag which opening tags end
// them implicitly.
var closedBy = map[string]map[string]bool{
	"p": setOf("address", "article", "aside", "blockquote", "div", "dl", "fieldset",
		"figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header",
		"hr", "main", "nav", "ol", "p", "pre", "section", "table", "ul"),
	"li":     setOf("li"),
	"dt":     setOf("dt", "dd"),
	"dd":     setOf("dt", "dd"),
	"tr":     setOf("tr", "tbody", "thead", "tfoot"),
	"td":     setOf("td", "th", "tr", "tbody", "thead", "tfoot"),
	"th":     setOf("td", "th", "tr", "tbody", "thead", "tfoot"),
	"thead":  setOf("tbody", "tfoot"),
	"tbody":  setOf("tbody", "tfoot"),
	"option": setOf("option", "optgroup"),
}

// scopeBoundary stops implied end tag search: an li inside a nested list
// does not close li of the outer list.
var scopeBoundary = setOf("ul", "ol", "dl", "table", "blockquote", "div", "td", "th", "figure", "aside", "section")

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

type htmlWalker struct {
	h     Handler
	stack []string
}

// Walk tokenizes the text and replays events into h.
func (s *HTML) Walk(h Handler) error {
	w := &htmlWalker{h: h}
	z := html.NewTokenizer(strings.NewReader(s.text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("unable to tokenize markup: %w", err)
			}
			w.closeTo(0)
			h.End()
			return nil
		case html.TextToken:
			if text := string(z.Text()); text != "" {
				h.Text(text)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := readTag(z)
			w.open(name, attrs, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			w.close(strings.ToLower(string(name)))
		case html.CommentToken, html.DoctypeToken:
			// not content
		}
	}
}

func readTag(z *html.Tokenizer) (string, Attributes) {
	name, hasAttr := z.TagName()
	var attrs Attributes
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, Attribute{Name: strings.ToLower(string(key)), Value: string(val)})
	}
	return strings.ToLower(string(name)), attrs
}

func (w *htmlWalker) open(name string, attrs Attributes, selfClosing bool) {
	w.implyEnd(name)
	w.h.OpenTag(name, attrs)
	if selfClosing || IsVoid(name) {
		w.h.CloseTag(name)
		return
	}
	w.stack = append(w.stack, name)
}

// implyEnd closes elements with optional end tags which cannot contain name.
func (w *htmlWalker) implyEnd(name string) {
	for i := len(w.stack) - 1; i >= 0; i-- {
		top := w.stack[i]
		if closedBy[top][name] {
			// td closes itself and may close enclosing tr as well
			w.closeTo(i)
			continue
		}
		if scopeBoundary[top] {
			return
		}
	}
}

func (w *htmlWalker) close(name string) {
	if IsVoid(name) {
		// </br> and similar: nothing was pushed for them
		return
	}
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i] == name {
			w.closeTo(i)
			return
		}
	}
}

// closeTo closes all elements from the top of the stack down to index i.
func (w *htmlWalker) closeTo(i int) {
	for len(w.stack) > i {
		name := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.h.CloseTag(name)
	}
}
