// Package sqlstore keeps site nodes, content entries and assets in a SQLite
// database and serves them to the parser as a data resolver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"canvas/model"
	"canvas/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	path TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	title TEXT,
	language TEXT,
	entry_id TEXT,
	entry_title TEXT,
	entry_content_type TEXT,
	entry_language TEXT,
	entry_uri TEXT
);
CREATE TABLE IF NOT EXISTS entries (
	path TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	title TEXT,
	content_type TEXT,
	language TEXT,
	uri TEXT
);
CREATE TABLE IF NOT EXISTS assets (
	path TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	title TEXT,
	uri TEXT,
	mime_type TEXT,
	width INTEGER,
	height INTEGER,
	alt_text TEXT,
	language TEXT
);
`

// Store is a content repository. It implements resolve.Resolver and is safe
// for concurrent use.
type Store struct {
	pool *sqlitex.Pool
	log  *zap.Logger
}

// Open opens (creating when necessary) database file and makes sure schema
// is in place. poolSize of 0 selects library default.
func Open(ctx context.Context, path string, poolSize int, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI,
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open store %q: %w", path, err)
	}
	s := &Store{pool: pool, log: log.Named("sqlstore")}

	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to get store connection: %w", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to create store schema: %w", err)
	}
	s.log.Debug("Store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

// with runs fn on a pooled connection.
func (s *Store) with(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("unable to get store connection: %w", err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}

func putNode(conn *sqlite.Conn, path string, n *model.NodeRef) error {
	e := n.Entry
	if e == nil {
		e = &model.EntryRef{}
	}
	return sqlitex.Execute(conn, `INSERT OR REPLACE INTO nodes
		(path, id, title, language, entry_id, entry_title, entry_content_type, entry_language, entry_uri)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{path, n.ID, n.Title, n.Language, e.ID, e.Title, e.ContentTypeID, e.Language, e.URI}})
}

func putEntry(conn *sqlite.Conn, path string, e *model.EntryRef) error {
	return sqlitex.Execute(conn, `INSERT OR REPLACE INTO entries
		(path, id, title, content_type, language, uri) VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{path, e.ID, e.Title, e.ContentTypeID, e.Language, e.URI}})
}

func putAsset(conn *sqlite.Conn, path string, a *model.AssetRef) error {
	return sqlitex.Execute(conn, `INSERT OR REPLACE INTO assets
		(path, id, title, uri, mime_type, width, height, alt_text, language) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{path, a.ID, a.Title, a.URI, a.MimeType, a.Width, a.Height, a.AltText, a.Language}})
}

// PutNode stores node replacing whatever was known under path.
func (s *Store) PutNode(ctx context.Context, path string, n *model.NodeRef) error {
	return s.with(ctx, func(conn *sqlite.Conn) error {
		if err := putNode(conn, path, n); err != nil {
			return fmt.Errorf("unable to store node %q: %w", path, err)
		}
		return nil
	})
}

func (s *Store) PutEntry(ctx context.Context, path string, e *model.EntryRef) error {
	return s.with(ctx, func(conn *sqlite.Conn) error {
		if err := putEntry(conn, path, e); err != nil {
			return fmt.Errorf("unable to store entry %q: %w", path, err)
		}
		return nil
	})
}

func (s *Store) PutAsset(ctx context.Context, path string, a *model.AssetRef) error {
	return s.with(ctx, func(conn *sqlite.Conn) error {
		if err := putAsset(conn, path, a); err != nil {
			return fmt.Errorf("unable to store asset %q: %w", path, err)
		}
		return nil
	})
}

// Counts reports number of records of each kind.
type Counts struct {
	Nodes, Entries, Assets int
}

// Import stores all fixture records in a single transaction. Records are
// written in path order so repeated imports produce identical databases.
func (s *Store) Import(ctx context.Context, f *resolve.Fixture) (c Counts, err error) {
	if f == nil {
		return c, nil
	}
	err = s.with(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		for _, p := range slices.Sorted(maps.Keys(f.Nodes)) {
			if err := putNode(conn, p, f.Nodes[p]); err != nil {
				return fmt.Errorf("unable to import node %q: %w", p, err)
			}
			c.Nodes++
		}
		for _, p := range slices.Sorted(maps.Keys(f.Entries)) {
			if err := putEntry(conn, p, f.Entries[p]); err != nil {
				return fmt.Errorf("unable to import entry %q: %w", p, err)
			}
			c.Entries++
		}
		for _, p := range slices.Sorted(maps.Keys(f.Assets)) {
			if err := putAsset(conn, p, f.Assets[p]); err != nil {
				return fmt.Errorf("unable to import asset %q: %w", p, err)
			}
			c.Assets++
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	s.log.Info("Fixture imported", zap.Int("nodes", c.Nodes), zap.Int("entries", c.Entries), zap.Int("assets", c.Assets))
	return c, nil
}

// Count returns number of stored records of each kind.
func (s *Store) Count(ctx context.Context) (c Counts, err error) {
	err = s.with(ctx, func(conn *sqlite.Conn) error {
		for _, q := range []struct {
			table string
			dst   *int
		}{{"nodes", &c.Nodes}, {"entries", &c.Entries}, {"assets", &c.Assets}} {
			n, err := sqlitex.ResultInt(conn.Prep("SELECT count(*) FROM " + q.table))
			if err != nil {
				return fmt.Errorf("unable to count %s: %w", q.table, err)
			}
			*q.dst = n
		}
		return nil
	})
	return c, err
}

var errFound = errors.New("found")

// queryOne runs query expecting at most one row, ErrNotFound is returned
// when there is none.
func (s *Store) queryOne(ctx context.Context, query, path string, scan func(stmt *sqlite.Stmt)) error {
	err := s.with(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{path},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				scan(stmt)
				return errFound
			},
		})
	})
	switch {
	case errors.Is(err, errFound):
		return nil
	case err != nil:
		return err
	}
	return resolve.ErrNotFound
}

func (s *Store) GetNodeByPath(ctx context.Context, path string) (*model.NodeRef, error) {
	var n *model.NodeRef
	err := s.queryOne(ctx, `SELECT id, path, title, language,
		entry_id, entry_title, entry_content_type, entry_language, entry_uri
		FROM nodes WHERE path = ?`, path, func(stmt *sqlite.Stmt) {
		n = &model.NodeRef{
			ID:       stmt.ColumnText(0),
			Path:     stmt.ColumnText(1),
			Title:    stmt.ColumnText(2),
			Language: stmt.ColumnText(3),
		}
		if id := stmt.ColumnText(4); id != "" {
			n.Entry = &model.EntryRef{
				ID:            id,
				Title:         stmt.ColumnText(5),
				ContentTypeID: stmt.ColumnText(6),
				Language:      stmt.ColumnText(7),
				URI:           stmt.ColumnText(8),
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) GetEntryByPath(ctx context.Context, path string) (*model.EntryRef, error) {
	var e *model.EntryRef
	err := s.queryOne(ctx, `SELECT id, title, content_type, language, uri FROM entries WHERE path = ?`, path,
		func(stmt *sqlite.Stmt) {
			e = &model.EntryRef{
				ID:            stmt.ColumnText(0),
				Title:         stmt.ColumnText(1),
				ContentTypeID: stmt.ColumnText(2),
				Language:      stmt.ColumnText(3),
				URI:           stmt.ColumnText(4),
			}
		})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) GetAssetByPath(ctx context.Context, path string) (*model.AssetRef, error) {
	var a *model.AssetRef
	err := s.queryOne(ctx, `SELECT id, title, uri, mime_type, width, height, alt_text, language
		FROM assets WHERE path = ?`, path, func(stmt *sqlite.Stmt) {
		a = &model.AssetRef{
			ID:       stmt.ColumnText(0),
			Title:    stmt.ColumnText(1),
			URI:      stmt.ColumnText(2),
			MimeType: stmt.ColumnText(3),
			Width:    stmt.ColumnInt(4),
			Height:   stmt.ColumnInt(5),
			AltText:  stmt.ColumnText(6),
			Language: stmt.ColumnText(7),
		}
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
