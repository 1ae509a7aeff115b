// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// Entry is a file in archive visited by Walk.
type Entry struct {
	// Archive is the path passed to Walk.
	Archive string
	// Name is entry path inside archive, decoded with forced code page when
	// entry is not marked as UTF-8.
	Name string
	File *zip.File
	// DecodeErr is set when forced code page failed, Name is raw then.
	DecodeErr error
}

// WalkFunc is called for each matching entry, returned error stops
// processing.
type WalkFunc func(e *Entry) error

// Walk calls walkFn for every file in the archive whose (decoded) name
// starts with prefix. Archives with absolute entries or entries containing
// ".." are rejected to prevent Zip Slip.
func Walk(archive, prefix string, cp encoding.Encoding, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		e := &Entry{Archive: archive, Name: f.Name, File: f}
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(f.Name); err == nil {
				e.Name = n
			} else {
				e.DecodeErr = err
			}
		}
		if !isSafePath(e.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", e.Name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		if err := walkFn(e); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	name = strings.ReplaceAll(name, `\`, "/")
	if path.IsAbs(name) || (len(name) > 1 && name[1] == ':') {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
