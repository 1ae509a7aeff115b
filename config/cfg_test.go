package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Parser.Markup != MarkupModeAuto {
		t.Errorf("Markup = %s, want auto", cfg.Parser.Markup)
	}
	if len(cfg.Resolver.Chain) != 0 {
		t.Errorf("Chain = %v, want empty", cfg.Resolver.Chain)
	}
	if cfg.Resolver.Delivery.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Resolver.Delivery.Timeout)
	}
	if !cfg.Document.Accepts("index.HTML") || cfg.Document.Accepts("notes.txt") {
		t.Errorf("Extensions = %v", cfg.Document.Extensions)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(fixture, []byte("nodes: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path := writeConfig(t, `version: 1
parser:
  root_url: https://example.com/
  markup: XHTML
  concurrency: 2
resolver:
  chain: [fixture, delivery]
  fixture: `+fixture+`
  delivery:
    url: https://cdn.example.com/api
    token: abc
    timeout: 5s
    language: de
document:
  pretty: false
  output_name_template: "{{ .Name }}"
logging:
  console:
    level: debug
  file:
    level: none
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Parser.RootURL != "https://example.com/" || cfg.Parser.Concurrency != 2 {
		t.Errorf("Parser = %+v", cfg.Parser)
	}
	if cfg.Parser.Markup != MarkupModeXhtml {
		t.Errorf("Markup = %s, want xhtml", cfg.Parser.Markup)
	}
	if len(cfg.Resolver.Chain) != 2 || cfg.Resolver.Chain[1] != ResolverKindDelivery {
		t.Errorf("Chain = %v", cfg.Resolver.Chain)
	}
	if cfg.Resolver.Delivery.Token.Reveal() != "abc" || cfg.Resolver.Delivery.Timeout != 5*time.Second {
		t.Errorf("Delivery = %+v", cfg.Resolver.Delivery)
	}
	if cfg.Document.Pretty {
		t.Error("Expected Pretty to be false")
	}
	if cfg.Document.OutputNameTemplate != "{{ .Name }}" {
		t.Errorf("OutputNameTemplate = %q, must not be expanded", cfg.Document.OutputNameTemplate)
	}
	// defaults survive partial file
	if cfg.Resolver.Sqlite.PoolSize != 4 || len(cfg.Document.Extensions) != 3 {
		t.Errorf("defaults lost: %+v %+v", cfg.Resolver.Sqlite, cfg.Document)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid_yaml", "version: 1\nparser:\n  root_url: x\n  invalid indent\n"},
		{"unknown_field", "version: 1\nunknown_field: value\n"},
		{"bad_version", "version: 2\n"},
		{"bad_markup", "version: 1\nparser:\n  markup: sgml\n"},
		{"bad_resolver", "version: 1\nresolver:\n  chain: [ldap]\n"},
		{"relative_root", "version: 1\nparser:\n  root_url: /site\n"},
		{"negative_concurrency", "version: 1\nparser:\n  concurrency: -1\n"},
		{"fixture_missing", "version: 1\nresolver:\n  chain: [fixture]\n"},
		{"files_missing", "version: 1\nresolver:\n  chain: [files]\n"},
		{"delivery_missing", "version: 1\nresolver:\n  chain: [sqlite, delivery]\n"},
		{"extension_without_dot", "version: 1\ndocument:\n  extensions: [html]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}

	t.Run("nonexistent_file", func(t *testing.T) {
		_, err := LoadConfiguration("/nonexistent/config.yaml")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want not exist", err)
		}
	})
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Resolver.Chain = []ResolverKind{ResolverKindSqlite}
	cfg.Resolver.Delivery.Token = "hidden"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("Dump() leaks token")
	}
	if !strings.Contains(string(data), "- sqlite") || !strings.Contains(string(data), "markup: auto") {
		t.Errorf("Dump() enums not marshaled as names:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Version != cfg.Version || cfg2.Resolver.Chain[0] != ResolverKindSqlite {
		t.Errorf("mismatch after dump/load: %+v", cfg2)
	}
}

func TestMarkupMode_XHTML(t *testing.T) {
	tests := []struct {
		mode MarkupMode
		name string
		want bool
	}{
		{MarkupModeAuto, "a.xhtml", true},
		{MarkupModeAuto, "a.HTML", false},
		{MarkupModeAuto, "a.xml", true},
		{MarkupModeHtml, "a.xhtml", false},
		{MarkupModeXhtml, "a.html", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"_"+tt.name, func(t *testing.T) {
			if got := tt.mode.XHTML(tt.name); got != tt.want {
				t.Errorf("XHTML(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestEnums_String(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{MarkupModeHtml.String(), "html"},
		{ResolverKindDelivery.String(), "delivery"},
		{ResolverKind(99).String(), "ResolverKind(99)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
	if k, err := ParseResolverKind("SQLite"); err != nil || k != ResolverKindSqlite {
		t.Errorf("ParseResolverKind() = %v, %v", k, err)
	}
	if _, err := ParseMarkupMode("sgml"); !errors.Is(err, ErrInvalidMarkupMode) {
		t.Errorf("ParseMarkupMode() error = %v", err)
	}
	if got := strings.Join(ResolverKindNames(), ","); got != "fixture,sqlite,files,delivery" {
		t.Errorf("ResolverKindNames() = %s", got)
	}
}
