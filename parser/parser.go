// Package parser converts markup into canvas document tree. Parsing runs in
// two phases: references found in markup are resolved concurrently first,
// then markup is walked again through a stack automaton which builds
// schema-valid blocks and normalizes every container as it is closed.
package parser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"canvas/markup"
	"canvas/model"
	"canvas/resolve"
	"canvas/schema"
	"canvas/settings"
	"canvas/urls"
)

// Options controls parser behavior. Zero value parses HTML with
// unrestricted settings and no reference resolution.
type Options struct {
	Settings *settings.Settings
	Resolver resolve.Resolver
	// RootURL is absolute address used to resolve relative references and
	// to decide which references are local.
	RootURL string
	// Concurrency limits simultaneous resolver calls, 0 means no limit.
	Concurrency int
	// XHTML selects permissive XML walker instead of HTML tokenizer.
	XHTML bool
}

// Parser is safe for concurrent use, every call builds its own state.
type Parser struct {
	opts Options
	cls  *urls.Classifier
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		opts: opts,
		cls:  urls.NewClassifier(opts.RootURL),
		log:  log.Named("parser"),
	}
}

// Classifier returns URL classifier used by parser.
func (p *Parser) Classifier() *urls.Classifier {
	return p.cls
}

func (p *Parser) source(text string) (markup.Source, error) {
	if p.opts.XHTML {
		return markup.NewXHTML([]byte(text))
	}
	return markup.NewHTML(text), nil
}

// Trace walks markup without building anything and returns the events the
// builder would see, one per line.
func (p *Parser) Trace(text string) (string, error) {
	src, err := p.source(text)
	if err != nil {
		return "", fmt.Errorf("unable to read markup: %w", err)
	}
	var r markup.Recorder
	if err := src.Walk(&r); err != nil {
		return "", fmt.Errorf("unable to walk markup: %w", err)
	}
	return r.String(), nil
}

// Resolve runs first phase: it collects references from markup and looks
// them up.
func (p *Parser) Resolve(ctx context.Context, text string) (*resolve.Lookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.opts.Resolver == nil {
		return resolve.NewLookup(), nil
	}
	src, err := p.source(text)
	if err != nil {
		return nil, fmt.Errorf("unable to read markup: %w", err)
	}
	keys, err := resolve.Collect(src, p.cls)
	if err != nil {
		return nil, fmt.Errorf("unable to collect references: %w", err)
	}
	p.log.Debug("References collected", zap.Int("keys", len(keys)), zap.String("root", p.cls.Root()))
	return resolve.Resolve(ctx, p.opts.Resolver, keys, p.opts.Concurrency, p.log)
}

// Build runs second phase over markup using lookup table produced by
// Resolve. A nil lookup means nothing resolves.
func (p *Parser) Build(text string, lookup *resolve.Lookup) ([]model.Block, error) {
	src, err := p.source(text)
	if err != nil {
		return nil, fmt.Errorf("unable to read markup: %w", err)
	}
	b := &builder{
		ctx:    schema.NewContext(p.opts.Settings),
		lookup: lookup,
		cls:    p.cls,
		ids:    newIDGen(text),
		log:    p.log,
	}
	b.stack = []element{&blockElement{elementBase{kind: KindBlock, allowed: true, mark: -1}}}
	if err := src.Walk(b); err != nil {
		return nil, fmt.Errorf("unable to walk markup: %w", err)
	}
	if !b.done {
		b.End()
	}
	if b.result == nil {
		b.result = []model.Block{}
	}
	return b.result, nil
}

// Parse runs both phases.
func (p *Parser) Parse(ctx context.Context, text string) ([]model.Block, error) {
	lookup, err := p.Resolve(ctx, text)
	if err != nil {
		return nil, err
	}
	blocks, err := p.Build(text, lookup)
	if err != nil {
		return nil, err
	}
	p.log.Debug("Markup parsed", zap.Int("blocks", len(blocks)), zap.Int("references", lookup.Len()))
	return blocks, nil
}
