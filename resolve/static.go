package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"canvas/model"
)

// Fixture is a set of records keyed by path. It is loaded from YAML (or
// JSON) files and used by Static resolver and by store import.
type Fixture struct {
	Nodes   map[string]*model.NodeRef  `yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Entries map[string]*model.EntryRef `yaml:"entries,omitempty" json:"entries,omitempty"`
	Assets  map[string]*model.AssetRef `yaml:"assets,omitempty" json:"assets,omitempty"`
}

// ParseFixture decodes fixture, unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	for path, n := range f.Nodes {
		if n == nil {
			return nil, fmt.Errorf("empty node record for %q", path)
		}
		if n.Path == "" {
			n.Path = path
		}
	}
	for path, e := range f.Entries {
		if e == nil {
			return nil, fmt.Errorf("empty entry record for %q", path)
		}
	}
	for path, a := range f.Assets {
		if a == nil {
			return nil, fmt.Errorf("empty asset record for %q", path)
		}
	}
	return &f, nil
}

// LoadFixture reads fixture from file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// Static is in-memory resolver over a fixture.
type Static struct {
	f *Fixture
}

// NewStatic returns resolver serving fixture records. nil fixture knows
// nothing.
func NewStatic(f *Fixture) *Static {
	if f == nil {
		f = &Fixture{}
	}
	return &Static{f: f}
}

func (s *Static) GetAssetByPath(ctx context.Context, path string) (*model.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a, ok := s.f.Assets[path]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (s *Static) GetEntryByPath(ctx context.Context, path string) (*model.EntryRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e, ok := s.f.Entries[path]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (s *Static) GetNodeByPath(ctx context.Context, path string) (*model.NodeRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n, ok := s.f.Nodes[path]; ok {
		return n, nil
	}
	return nil, ErrNotFound
}

// Chain asks resolvers in order, first found record wins. Not found answers
// move on to the next resolver, other errors stop the search.
type Chain []Resolver

func (c Chain) GetAssetByPath(ctx context.Context, path string) (*model.AssetRef, error) {
	return first(c, func(r Resolver) (*model.AssetRef, error) { return r.GetAssetByPath(ctx, path) })
}

func (c Chain) GetEntryByPath(ctx context.Context, path string) (*model.EntryRef, error) {
	return first(c, func(r Resolver) (*model.EntryRef, error) { return r.GetEntryByPath(ctx, path) })
}

func (c Chain) GetNodeByPath(ctx context.Context, path string) (*model.NodeRef, error) {
	return first(c, func(r Resolver) (*model.NodeRef, error) { return r.GetNodeByPath(ctx, path) })
}

func first[T any](c Chain, get func(Resolver) (*T, error)) (*T, error) {
	for _, r := range c {
		v, err := get(r)
		if err != nil && !IsNotFound(err) {
			return nil, err
		}
		if err == nil && v != nil {
			return v, nil
		}
	}
	return nil, ErrNotFound
}

// Close closes every resolver in chain which holds resources.
func (c Chain) Close() (err error) {
	for _, r := range c {
		if cl, ok := r.(io.Closer); ok {
			err = multierr.Append(err, cl.Close())
		}
	}
	return err
}
