// Package files serves assets from a local directory tree. Only assets are
// known here: nodes and entries are never found.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"canvas/model"
	"canvas/resolve"
	"canvas/utils/images"
)

// headerSize is enough for filetype to recognize any supported format.
const headerSize = 262

// maxImage limits how much of an image is read to learn its size, SVG has
// to be parsed completely.
const maxImage = 16 << 20

// namespace for asset ids derived from paths.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("canvas:asset"))

// Assets resolves asset references to files under root directory.
type Assets struct {
	root    *os.Root
	baseURL string
	log     *zap.Logger
}

// Open returns resolver for directory. baseURL, when not empty, is prepended
// to asset path to form asset URI.
func Open(dir, baseURL string, log *zap.Logger) (*Assets, error) {
	if log == nil {
		log = zap.NewNop()
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open assets directory: %w", err)
	}
	return &Assets{root: root, baseURL: strings.TrimSuffix(baseURL, "/"), log: log.Named("files")}, nil
}

func (a *Assets) Close() error {
	return a.root.Close()
}

// name maps reference path to file name relative to root, it never escapes
// the root.
func name(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func (a *Assets) GetAssetByPath(ctx context.Context, p string) (*model.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fname := name(p)
	if fname == "" {
		return nil, resolve.ErrNotFound
	}

	f, err := a.root.Open(fname)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, resolve.ErrNotFound
		}
		return nil, fmt.Errorf("unable to open asset %q: %w", p, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat asset %q: %w", p, err)
	}
	if fi.IsDir() {
		return nil, resolve.ErrNotFound
	}

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to read asset %q: %w", p, err)
	}
	head = head[:n]

	ref := &model.AssetRef{
		ID:    uuid.NewSHA1(namespace, []byte("/"+fname)).String(),
		Title: path.Base(fname),
		URI:   a.baseURL + "/" + fname,
	}
	// content signature wins over extension, textual formats (svg included)
	// are only known by extension
	ref.MimeType = mime.TypeByExtension(path.Ext(fname))
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown && kind.MIME.Type != "text" {
		ref.MimeType = kind.MIME.Value
	}

	if strings.HasPrefix(ref.MimeType, "image/") {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("unable to read asset %q: %w", p, err)
		}
		if w, h, format, err := images.Size(io.LimitReader(f, maxImage), ref.MimeType); err == nil {
			ref.Width, ref.Height = w, h
			a.log.Debug("Asset image", zap.String("path", p), zap.String("format", format),
				zap.Int("width", w), zap.Int("height", h))
		} else {
			a.log.Debug("Unable to decode asset image", zap.String("path", p), zap.Error(err))
		}
	}
	return ref, nil
}

func (a *Assets) GetEntryByPath(context.Context, string) (*model.EntryRef, error) {
	return nil, resolve.ErrNotFound
}

func (a *Assets) GetNodeByPath(context.Context, string) (*model.NodeRef, error) {
	return nil, resolve.ErrNotFound
}
