// Package markup turns raw markup into a flat stream of open, close and text
// events. Tree building and reference collection are both driven by it, each
// with its own walk over the same text.
package markup

import (
	"slices"
	"strings"
)

// Handler receives events in document order. Every OpenTag is matched by a
// CloseTag with the same name and End is called once after the last event.
type Handler interface {
	OpenTag(name string, attrs Attributes)
	CloseTag(name string)
	Text(text string)
	End()
}

// Source replays markup events synchronously. A Source may be walked more
// than once.
type Source interface {
	Walk(h Handler) error
}

// Attribute is a single element attribute with lower-cased name.
type Attribute struct {
	Name  string
	Value string
}

// Attributes keeps element attributes in markup order.
type Attributes []Attribute

// Lookup returns attribute value and whether it was present.
func (a Attributes) Lookup(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Get returns attribute value or empty string.
func (a Attributes) Get(name string) string {
	v, _ := a.Lookup(name)
	return v
}

// Has reports whether attribute is present, even with empty value.
func (a Attributes) Has(name string) bool {
	_, ok := a.Lookup(name)
	return ok
}

// Classes splits class attribute on whitespace.
func (a Attributes) Classes() []string {
	return strings.Fields(a.Get("class"))
}

// HasClass reports whether class list contains c.
func (a Attributes) HasClass(c string) bool {
	return slices.Contains(a.Classes(), c)
}

// voidElements never have content or closing tags in HTML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	return voidElements[tag]
}
