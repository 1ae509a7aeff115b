package resolve

import (
	"strings"

	"canvas/markup"
	"canvas/urls"
)

// Kind of referenced record.
type Kind string

const (
	KindNode  Kind = "node"
	KindEntry Kind = "entry"
	KindAsset Kind = "asset"
)

// Key identifies single lookup.
type Key struct {
	Kind Kind
	Path string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.Path
}

// collector is markup handler which builds nothing and only records
// candidate references.
type collector struct {
	cls  *urls.Classifier
	seen map[Key]struct{}
	keys []Key
}

func (c *collector) add(kind Kind, path string) {
	k := Key{Kind: kind, Path: path}
	if _, ok := c.seen[k]; ok {
		return
	}
	c.seen[k] = struct{}{}
	c.keys = append(c.keys, k)
}

func (c *collector) OpenTag(name string, attrs markup.Attributes) {
	switch name {
	case "a":
		href := strings.TrimSpace(attrs.Get("href"))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if path, ok := c.cls.Local(href); ok {
			// not known yet which one will match
			c.add(KindNode, path)
			c.add(KindEntry, path)
		}
	case "img":
		src := strings.TrimSpace(attrs.Get("src"))
		if src == "" || urls.IsDataURI(src) {
			return
		}
		if path, ok := c.cls.Local(src); ok {
			c.add(KindAsset, path)
		}
	}
}

func (c *collector) CloseTag(string) {}
func (c *collector) Text(string)     {}
func (c *collector) End()            {}

// Collect walks markup once and returns deduplicated lookup keys in order of
// first appearance.
func Collect(src markup.Source, cls *urls.Classifier) ([]Key, error) {
	c := &collector{cls: cls, seen: make(map[Key]struct{})}
	if err := src.Walk(c); err != nil {
		return nil, err
	}
	return c.keys, nil
}
