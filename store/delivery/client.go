// Package delivery resolves references through a remote content delivery
// API. Records are requested as JSON:
//
//	GET <base>/nodes?path=/a
//	GET <base>/entries?path=/a
//	GET <base>/assets?path=/img/x.png
//
// 404 and 410 responses mean there is no such record.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"canvas/model"
	"canvas/resolve"
)

// maxResponse limits size of a single decoded record.
const maxResponse = 1 << 20

// Options configures delivery client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Language is sent as "locale" query parameter when not empty.
	Language string
}

// Client is resolve.Resolver over HTTP.
type Client struct {
	base     *url.URL
	token    string
	language string
	http     *http.Client
	log      *zap.Logger
}

func New(opts Options, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bad delivery url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("delivery url must be absolute: %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:     base,
		token:    opts.Token,
		language: opts.Language,
		http:     &http.Client{Timeout: timeout},
		log:      log.Named("delivery"),
	}, nil
}

// get requests collection record for path and decodes it into v.
func (c *Client) get(ctx context.Context, collection, path string, v any) error {
	u := *c.base
	u.Path += "/" + collection
	q := url.Values{"path": {path}}
	if c.language != "" {
		q.Set("locale", c.language)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to request %s: %w", collection, err)
	}
	defer resp.Body.Close()

	c.log.Debug("Delivery request", zap.String("collection", collection), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponse))
		return &resolve.HTTPError{Code: resp.StatusCode, Status: resp.Status, URL: u.String()}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponse)).Decode(v); err != nil {
		return fmt.Errorf("unable to decode %s record for %q: %w", collection, path, err)
	}
	return nil
}

func (c *Client) GetNodeByPath(ctx context.Context, path string) (*model.NodeRef, error) {
	var n model.NodeRef
	if err := c.get(ctx, "nodes", path, &n); err != nil {
		return nil, err
	}
	if n.ID == "" {
		return nil, resolve.ErrNotFound
	}
	if n.Path == "" {
		n.Path = path
	}
	return &n, nil
}

func (c *Client) GetEntryByPath(ctx context.Context, path string) (*model.EntryRef, error) {
	var e model.EntryRef
	if err := c.get(ctx, "entries", path, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, resolve.ErrNotFound
	}
	return &e, nil
}

func (c *Client) GetAssetByPath(ctx context.Context, path string) (*model.AssetRef, error) {
	var a model.AssetRef
	if err := c.get(ctx, "assets", path, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, resolve.ErrNotFound
	}
	return &a, nil
}
