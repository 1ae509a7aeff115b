// Package urls classifies link and image references found in markup and
// decodes image transformation parameters.
package urls

import (
	"net/url"
	"strconv"
	"strings"

	"canvas/model"
)

// Class is coarse classification of a reference by its scheme.
type Class int

const (
	// ClassNone means reference could not be parsed at all.
	ClassNone Class = iota
	ClassHTTP
	ClassMailto
	ClassTel
	ClassData
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassHTTP:
		return "http"
	case ClassMailto:
		return "mailto"
	case ClassTel:
		return "tel"
	case ClassData:
		return "data"
	case ClassOther:
		return "other"
	}
	return "none"
}

// Parsed is the result of reference classification.
type Parsed struct {
	Raw      string
	Class    Class
	Host     string
	Path     string
	Query    string
	Fragment string
	Params   map[string]string
	// Absolute is full address after resolution against root, raw text when
	// reference could not be parsed.
	Absolute string
	// Relative is set when reference did not carry its own scheme and host.
	Relative bool
}

// OK reports whether reference was parsed.
func (p Parsed) OK() bool {
	return p.Class != ClassNone
}

// Classifier resolves references against optional root address.
type Classifier struct {
	root *url.URL
}

// NewClassifier returns classifier for root address. Empty or unparsable
// root leaves relative references unresolved.
func NewClassifier(root string) *Classifier {
	c := &Classifier{}
	if root = strings.TrimSpace(root); root != "" {
		if u, err := url.Parse(root); err == nil && u.IsAbs() {
			if u.Path == "" {
				u.Path = "/"
			}
			c.root = u
		}
	}
	return c
}

// Root returns root address or empty string.
func (c *Classifier) Root() string {
	if c == nil || c.root == nil {
		return ""
	}
	return c.root.String()
}

// Parse classifies reference: it is parsed as absolute address first, then
// resolved against root, and when both fail returned as raw path.
func (c *Classifier) Parse(text string) Parsed {
	text = strings.TrimSpace(text)
	raw := Parsed{Raw: text, Path: text, Absolute: text}

	u, err := url.Parse(text)
	if err != nil {
		return raw
	}
	relative := !u.IsAbs()
	if relative {
		if c == nil || c.root == nil {
			if u.Host != "" || text == "" {
				return raw
			}
			return Parsed{
				Raw:      text,
				Class:    ClassHTTP,
				Path:     u.Path,
				Query:    u.RawQuery,
				Fragment: u.Fragment,
				Params:   params(u),
				Absolute: text,
				Relative: true,
			}
		}
		u = c.root.ResolveReference(u)
	}

	p := Parsed{
		Raw:      text,
		Host:     u.Host,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
		Params:   params(u),
		Absolute: u.String(),
		Relative: relative,
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		p.Class = ClassHTTP
		p.Path = u.Path
		if p.Path == "" {
			p.Path = "/"
		}
	case "mailto":
		p.Class = ClassMailto
		p.Path = u.Opaque
	case "tel":
		p.Class = ClassTel
		p.Path = u.Opaque
	case "data":
		p.Class = ClassData
		p.Path = u.Opaque
	default:
		p.Class = ClassOther
		p.Path = u.Path
		if p.Path == "" {
			p.Path = u.Opaque
		}
	}
	return p
}

func params(u *url.URL) map[string]string {
	q := u.Query()
	if len(q) == 0 {
		return nil
	}
	m := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			m[k] = v[0]
		}
	}
	return m
}

// ToAbsolute returns text unchanged when it is absolute address, resolved
// against root when it is relative and raw text otherwise.
func (c *Classifier) ToAbsolute(text string) string {
	return c.Parse(text).Absolute
}

// Local returns path under which data resolver knows the reference. Only
// relative references and references to the root host qualify.
func (c *Classifier) Local(text string) (string, bool) {
	p := c.Parse(text)
	if p.Class != ClassHTTP {
		return "", false
	}
	if !p.Relative && (c == nil || c.root == nil || !strings.EqualFold(p.Host, c.root.Host)) {
		return "", false
	}
	if p.Path == "" {
		return "", false
	}
	return p.Path, true
}

// IsDataURI reports whether reference is an inline data URI.
func IsDataURI(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) >= 5 && strings.EqualFold(text[:5], "data:")
}

// Transformations decodes image processing parameters. Unknown or malformed
// values are ignored, nil is returned when nothing was recognized.
func Transformations(params map[string]string) *model.Transformations {
	if len(params) == 0 {
		return nil
	}
	var (
		t     model.Transformations
		found bool
	)
	number := func(key string, dst *int) {
		if v, ok := params[key]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				found = true
			}
		}
	}
	text := func(key string, dst *string) {
		if v, ok := params[key]; ok && v != "" {
			*dst = v
			found = true
		}
	}
	number("w", &t.Width)
	number("h", &t.Height)
	text("crop", &t.Crop)
	text("flip", &t.Flip)
	number("r", &t.Rotate)
	number("q", &t.Quality)
	text("format", &t.Format)
	if !found {
		return nil
	}
	return &t
}
