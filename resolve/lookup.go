package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"canvas/model"
	"canvas/utils/debug"
)

// Lookup is synchronous result of reference resolution consumed while
// building the tree. Only found records are kept. Zero value and nil
// pointer are valid empty tables.
type Lookup struct {
	nodes   map[string]*model.NodeRef
	entries map[string]*model.EntryRef
	assets  map[string]*model.AssetRef
}

// NewLookup returns empty table.
func NewLookup() *Lookup {
	return &Lookup{
		nodes:   make(map[string]*model.NodeRef),
		entries: make(map[string]*model.EntryRef),
		assets:  make(map[string]*model.AssetRef),
	}
}

func (l *Lookup) Node(path string) (*model.NodeRef, bool) {
	if l == nil {
		return nil, false
	}
	n, ok := l.nodes[path]
	return n, ok
}

func (l *Lookup) Entry(path string) (*model.EntryRef, bool) {
	if l == nil {
		return nil, false
	}
	e, ok := l.entries[path]
	return e, ok
}

func (l *Lookup) Asset(path string) (*model.AssetRef, bool) {
	if l == nil {
		return nil, false
	}
	a, ok := l.assets[path]
	return a, ok
}

// SetNode, SetEntry and SetAsset fill the table directly, mostly for tests.
func (l *Lookup) SetNode(path string, n *model.NodeRef) {
	if l.nodes == nil {
		l.nodes = make(map[string]*model.NodeRef)
	}
	l.nodes[path] = n
}

func (l *Lookup) SetEntry(path string, e *model.EntryRef) {
	if l.entries == nil {
		l.entries = make(map[string]*model.EntryRef)
	}
	l.entries[path] = e
}

func (l *Lookup) SetAsset(path string, a *model.AssetRef) {
	if l.assets == nil {
		l.assets = make(map[string]*model.AssetRef)
	}
	l.assets[path] = a
}

// Len returns number of found records.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.nodes) + len(l.entries) + len(l.assets)
}

// MarshalJSON encodes found records grouped by kind and keyed by path.
func (l *Lookup) MarshalJSON() ([]byte, error) {
	v := struct {
		Nodes   map[string]*model.NodeRef  `json:"nodes"`
		Entries map[string]*model.EntryRef `json:"entries"`
		Assets  map[string]*model.AssetRef `json:"assets"`
	}{map[string]*model.NodeRef{}, map[string]*model.EntryRef{}, map[string]*model.AssetRef{}}
	if l != nil {
		maps.Copy(v.Nodes, l.nodes)
		maps.Copy(v.Entries, l.entries)
		maps.Copy(v.Assets, l.assets)
	}
	return json.Marshal(v)
}

// String returns readable dump of the table.
func (l *Lookup) String() string {
	if l == nil {
		return "<nil Lookup>"
	}
	m := make(map[string]string, l.Len())
	for p, n := range l.nodes {
		m[Key{KindNode, p}.String()] = n.ID
	}
	for p, e := range l.entries {
		m[Key{KindEntry, p}.String()] = e.ID
	}
	for p, a := range l.assets {
		m[Key{KindAsset, p}.String()] = a.ID
	}
	tw := debug.NewTreeWriter()
	tw.Map(0, "Lookup", m)
	return tw.String()
}

// Resolve issues one lookup per key concurrently and waits for all of them.
// limit bounds number of lookups in flight, zero or negative means no bound.
// Not found results are absorbed, any other failure cancels remaining
// lookups and is returned.
func Resolve(ctx context.Context, r Resolver, keys []Key, limit int, log *zap.Logger) (*Lookup, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := NewLookup()
	if r == nil || len(keys) == 0 {
		return l, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, key := range keys {
		g.Go(func() error {
			var (
				found bool
				err   error
			)
			switch key.Kind {
			case KindNode:
				var n *model.NodeRef
				if n, err = r.GetNodeByPath(gctx, key.Path); err == nil && n != nil {
					found = true
					mu.Lock()
					l.nodes[key.Path] = n
					mu.Unlock()
				}
			case KindEntry:
				var e *model.EntryRef
				if e, err = r.GetEntryByPath(gctx, key.Path); err == nil && e != nil {
					found = true
					mu.Lock()
					l.entries[key.Path] = e
					mu.Unlock()
				}
			case KindAsset:
				var a *model.AssetRef
				if a, err = r.GetAssetByPath(gctx, key.Path); err == nil && a != nil {
					found = true
					mu.Lock()
					l.assets[key.Path] = a
					mu.Unlock()
				}
			default:
				return fmt.Errorf("unknown reference kind %q", key.Kind)
			}
			if err != nil && !IsNotFound(err) {
				return fmt.Errorf("unable to resolve %s: %w", key, err)
			}
			log.Debug("Reference lookup", zap.Stringer("key", key), zap.Bool("found", found))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}
