// Package resolve discovers external references in markup and resolves them
// through a data resolver before the document tree is built.
package resolve

import (
	"context"
	"errors"
	"net/http"

	"canvas/model"
)

// ErrNotFound is returned by resolvers when nothing is known under the path.
var ErrNotFound = errors.New("not found")

// Resolver looks up site nodes, content entries and assets by path. A nil
// record with nil error is treated same as ErrNotFound.
type Resolver interface {
	GetAssetByPath(ctx context.Context, path string) (*model.AssetRef, error)
	GetEntryByPath(ctx context.Context, path string) (*model.EntryRef, error)
	GetNodeByPath(ctx context.Context, path string) (*model.NodeRef, error)
}

// StatusError is implemented by errors carrying HTTP status.
type StatusError interface {
	error
	StatusCode() int
}

// HTTPError is failed remote call.
type HTTPError struct {
	Code   int
	Status string
	URL    string
}

func (e *HTTPError) Error() string {
	if e.Status != "" {
		return "request to " + e.URL + " failed: " + e.Status
	}
	return "request to " + e.URL + " failed: " + http.StatusText(e.Code)
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// IsNotFound reports whether err means "no such record": ErrNotFound or any
// error in the chain reporting HTTP 404 or 410.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se StatusError
	if errors.As(err, &se) {
		return se.StatusCode() == http.StatusNotFound || se.StatusCode() == http.StatusGone
	}
	return false
}
