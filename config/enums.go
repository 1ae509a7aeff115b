package config

//go:generate go tool go-enum --marshal --names --nocase

// Markup dialect of input documents. Auto selects by file extension.
// ENUM(auto, html, xhtml)
type MarkupMode int

// XHTML reports whether document named name should be read as XHTML.
func (m MarkupMode) XHTML(name string) bool {
	switch m {
	case MarkupModeXhtml:
		return true
	case MarkupModeHtml:
		return false
	}
	return hasXMLExt(name)
}

// Source of reference data used during resolution.
// ENUM(fixture, sqlite, files, delivery)
type ResolverKind int
