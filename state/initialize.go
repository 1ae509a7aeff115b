package state

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"canvas/config"
	"canvas/parser"
	"canvas/resolve"
	"canvas/settings"
	"canvas/store/delivery"
	"canvas/store/files"
	"canvas/store/sqlstore"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// PrepareParsing compiles field settings and opens configured resolvers.
// Resources are released by Close.
func (e *LocalEnv) PrepareParsing(ctx context.Context) error {
	if e.Cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}
	if e.Log == nil {
		e.Log = zap.NewNop()
	}

	if path := e.Cfg.Parser.FieldPath; path != "" {
		field, err := settings.LoadField(path)
		if err != nil {
			return err
		}
		e.Settings = settings.Compile(field)
		e.Rpt.Store("field"+filepath.Ext(path), path)
		if err := e.Rpt.StoreJSON("settings.json", e.Settings); err != nil {
			e.Log.Warn("Unable to store compiled settings in report", zap.Error(err))
		}
		e.Log.Debug("Field settings compiled", zap.String("field", field.ID), zap.Int("settings", len(e.Settings.Keys())))
	}

	var chain resolve.Chain
	for _, kind := range e.Cfg.Resolver.Chain {
		r, err := e.openResolver(ctx, kind)
		if err != nil {
			return multierr.Combine(fmt.Errorf("unable to open %s resolver: %w", kind, err), e.Close())
		}
		chain = append(chain, r)
		e.Log.Debug("Resolver ready", zap.Stringer("kind", kind))
	}
	switch len(chain) {
	case 0:
		e.Resolver = nil
	case 1:
		e.Resolver = chain[0]
	default:
		e.Resolver = chain
	}
	return nil
}

func (e *LocalEnv) openResolver(ctx context.Context, kind config.ResolverKind) (resolve.Resolver, error) {
	rc := &e.Cfg.Resolver
	switch kind {
	case config.ResolverKindFixture:
		f, err := resolve.LoadFixture(rc.Fixture)
		if err != nil {
			return nil, err
		}
		e.Rpt.Store("fixture", rc.Fixture)
		return resolve.NewStatic(f), nil
	case config.ResolverKindSqlite:
		s, err := sqlstore.Open(ctx, rc.Sqlite.Path, rc.Sqlite.PoolSize, e.Log)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, s)
		return s, nil
	case config.ResolverKindFiles:
		a, err := files.Open(rc.Files.Dir, rc.Files.BaseURL, e.Log)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, a)
		return a, nil
	case config.ResolverKindDelivery:
		return delivery.New(delivery.Options{
			BaseURL:  rc.Delivery.URL,
			Token:    rc.Delivery.Token.Reveal(),
			Timeout:  rc.Delivery.Timeout,
			Language: rc.Delivery.Language,
		}, e.Log)
	}
	return nil, fmt.Errorf("unsupported resolver kind %s", kind)
}

// NewParser returns parser configured for document name (dialect is
// selected by extension in auto mode).
func (e *LocalEnv) NewParser(name string) *parser.Parser {
	return parser.New(parser.Options{
		Settings:    e.Settings,
		Resolver:    e.Resolver,
		RootURL:     e.Cfg.Parser.RootURL,
		Concurrency: e.Cfg.Parser.Concurrency,
		XHTML:       e.Cfg.Parser.Markup.XHTML(name),
	}, e.Log)
}
