package model

// LinkKind selects which alternative of LinkTarget is populated.
type LinkKind string

const (
	LinkURI    LinkKind = "uri"
	LinkMailto LinkKind = "mailto"
	LinkTel    LinkKind = "tel"
	LinkNode   LinkKind = "node"
	LinkEntry  LinkKind = "entry"
	LinkAnchor LinkKind = "anchor"
)

// LinkKinds lists all link kinds.
var LinkKinds = []LinkKind{LinkURI, LinkMailto, LinkTel, LinkNode, LinkEntry, LinkAnchor}

// LinkTarget is a sum type: Kind tells which of the fields carries the
// address. URI is set for uri, mailto and tel links (and kept as resolved
// absolute address for node and entry links), Node and Entry for resolved
// references, Anchor for in-document targets.
type LinkTarget struct {
	Kind     LinkKind  `json:"type"`
	URI      string    `json:"uri,omitempty"`
	Node     *NodeRef  `json:"node,omitempty"`
	Entry    *EntryRef `json:"entry,omitempty"`
	Anchor   string    `json:"anchor,omitempty"`
	Query    string    `json:"query,omitempty"`
	Fragment string    `json:"fragment,omitempty"`
}

// Address returns best available address for the target without query and
// fragment.
func (l *LinkTarget) Address() string {
	if l == nil {
		return ""
	}
	switch l.Kind {
	case LinkAnchor:
		return "#" + l.Anchor
	case LinkNode:
		if l.Node != nil && l.Node.Path != "" {
			return l.Node.Path
		}
	case LinkEntry:
		if l.Entry != nil && l.Entry.URI != "" {
			return l.Entry.URI
		}
	}
	return l.URI
}

// NodeRef references a site node returned by the data resolver.
type NodeRef struct {
	ID       string    `json:"id" yaml:"id"`
	Path     string    `json:"path" yaml:"path"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Language string    `json:"language,omitempty" yaml:"language,omitempty"`
	Entry    *EntryRef `json:"entry,omitempty" yaml:"entry,omitempty"`
}

// EntryRef references a content entry.
type EntryRef struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	ContentTypeID string `json:"contentTypeId,omitempty" yaml:"contentTypeId,omitempty"`
	Language      string `json:"language,omitempty" yaml:"language,omitempty"`
	URI           string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// AssetRef references a managed asset (image, document).
type AssetRef struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	URI      string `json:"uri,omitempty" yaml:"uri,omitempty"`
	MimeType string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
	AltText  string `json:"altText,omitempty" yaml:"altText,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// ImageProperties describes image block. Either Asset (managed) or URI
// (external, including data URIs) is set.
type ImageProperties struct {
	Asset           *AssetRef        `json:"asset,omitempty"`
	URI             string           `json:"uri,omitempty"`
	AltText         string           `json:"altText,omitempty"`
	Caption         string           `json:"caption,omitempty"`
	Transformations *Transformations `json:"transformations,omitempty"`
}

// Transformations are image processing instructions decoded from query
// parameters of managed asset references.
type Transformations struct {
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Crop    string `json:"crop,omitempty"`
	Flip    string `json:"flip,omitempty"`
	Rotate  int    `json:"rotate,omitempty"`
	Quality int    `json:"quality,omitempty"`
	Format  string `json:"format,omitempty"`
}
