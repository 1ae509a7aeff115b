package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"canvas/model"
	"canvas/resolve"
)

const fixture = `
nodes:
  /a:
    id: node-a
    title: A
    entry:
      id: entry-a
      contentTypeId: page
entries:
  /e:
    id: entry-e
    contentTypeId: article
    language: en
assets:
  /img/x.png:
    id: asset-x
    mimeType: image/png
    width: 10
    height: 20
    altText: picture
`

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "canvas.db"), 4, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	f, err := resolve.ParseFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseFixture() error = %v", err)
	}
	c, err := s.Import(ctx, f)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if c != (Counts{Nodes: 1, Entries: 1, Assets: 1}) {
		t.Errorf("Import() = %+v", c)
	}

	// second import replaces records
	if _, err := s.Import(ctx, f); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	c, err = s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if c != (Counts{Nodes: 1, Entries: 1, Assets: 1}) {
		t.Errorf("Count() = %+v", c)
	}

	t.Run("node", func(t *testing.T) {
		n, err := s.GetNodeByPath(ctx, "/a")
		if err != nil {
			t.Fatalf("GetNodeByPath() error = %v", err)
		}
		if n.ID != "node-a" || n.Path != "/a" || n.Title != "A" {
			t.Errorf("node = %+v", n)
		}
		if n.Entry == nil || n.Entry.ID != "entry-a" || n.Entry.ContentTypeID != "page" {
			t.Errorf("node entry = %+v", n.Entry)
		}
	})

	t.Run("entry", func(t *testing.T) {
		e, err := s.GetEntryByPath(ctx, "/e")
		if err != nil {
			t.Fatalf("GetEntryByPath() error = %v", err)
		}
		if e.ID != "entry-e" || e.ContentTypeID != "article" || e.Language != "en" {
			t.Errorf("entry = %+v", e)
		}
	})

	t.Run("asset", func(t *testing.T) {
		a, err := s.GetAssetByPath(ctx, "/img/x.png")
		if err != nil {
			t.Fatalf("GetAssetByPath() error = %v", err)
		}
		want := model.AssetRef{ID: "asset-x", MimeType: "image/png", Width: 10, Height: 20, AltText: "picture"}
		if *a != want {
			t.Errorf("asset = %+v, want %+v", *a, want)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		if _, err := s.GetNodeByPath(ctx, "/e"); !errors.Is(err, resolve.ErrNotFound) {
			t.Errorf("GetNodeByPath() error = %v, want ErrNotFound", err)
		}
		if _, err := s.GetEntryByPath(ctx, "/a"); !errors.Is(err, resolve.ErrNotFound) {
			t.Errorf("GetEntryByPath() error = %v, want ErrNotFound", err)
		}
		if _, err := s.GetAssetByPath(ctx, "/img/y.png"); !errors.Is(err, resolve.ErrNotFound) {
			t.Errorf("GetAssetByPath() error = %v, want ErrNotFound", err)
		}
	})
}

func TestPut(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.PutAsset(ctx, "/i.png", &model.AssetRef{ID: "one"}); err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}
	if err := s.PutAsset(ctx, "/i.png", &model.AssetRef{ID: "two", Width: 5}); err != nil {
		t.Fatalf("PutAsset() error = %v", err)
	}
	a, err := s.GetAssetByPath(ctx, "/i.png")
	if err != nil {
		t.Fatalf("GetAssetByPath() error = %v", err)
	}
	if a.ID != "two" || a.Width != 5 {
		t.Errorf("asset = %+v", a)
	}

	if err := s.PutNode(ctx, "/n", &model.NodeRef{ID: "n", Path: "/n"}); err != nil {
		t.Fatalf("PutNode() error = %v", err)
	}
	n, err := s.GetNodeByPath(ctx, "/n")
	if err != nil {
		t.Fatalf("GetNodeByPath() error = %v", err)
	}
	if n.Entry != nil {
		t.Errorf("node without entry got %+v", n.Entry)
	}
	if err := s.PutEntry(ctx, "/n", &model.EntryRef{ID: "en"}); err != nil {
		t.Fatalf("PutEntry() error = %v", err)
	}
}

func TestResolveThroughStore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	f, err := resolve.ParseFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseFixture() error = %v", err)
	}
	if _, err := s.Import(ctx, f); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	keys := []resolve.Key{
		{Kind: resolve.KindNode, Path: "/a"},
		{Kind: resolve.KindEntry, Path: "/a"},
		{Kind: resolve.KindNode, Path: "/e"},
		{Kind: resolve.KindEntry, Path: "/e"},
		{Kind: resolve.KindAsset, Path: "/img/x.png"},
	}
	l, err := resolve.Resolve(ctx, s, keys, 2, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if l.Len() != 3 {
		t.Errorf("Resolve() found %d records, want 3\n%s", l.Len(), l)
	}
}
