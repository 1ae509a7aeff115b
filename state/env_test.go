package state

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"canvas/config"
	"canvas/model"
	"canvas/resolve"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}

	t.Run("panic_on_missing_env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond || uptime > time.Second {
		t.Errorf("Uptime() = %v", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with_logger", func(t *testing.T) {
		env := &LocalEnv{Log: testLogger(t)}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without_logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return cfg
}

const fixture = `
nodes:
  /about:
    id: node-about
assets:
  /img/logo.png:
    id: asset-logo
    mimeType: image/png
`

func TestPrepareParsing(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "fixture.yaml")
	if err := os.WriteFile(fixturePath, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}
	fieldPath := filepath.Join(dir, "field.yaml")
	field := "id: body\nvalidations:\n  allowedTypes:\n    types: [_paragraph, _link]\n"
	if err := os.WriteFile(fieldPath, []byte(field), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("no_resolvers", func(t *testing.T) {
		env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t)}
		if err := env.PrepareParsing(ctx); err != nil {
			t.Fatalf("PrepareParsing() error = %v", err)
		}
		defer env.Close()
		if env.Resolver != nil || env.Settings != nil {
			t.Errorf("env = %+v", env)
		}
	})

	t.Run("single_fixture", func(t *testing.T) {
		env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t)}
		env.Cfg.Resolver.Chain = []config.ResolverKind{config.ResolverKindFixture}
		env.Cfg.Resolver.Fixture = fixturePath
		env.Cfg.Parser.FieldPath = fieldPath
		if err := env.PrepareParsing(ctx); err != nil {
			t.Fatalf("PrepareParsing() error = %v", err)
		}
		defer env.Close()
		if _, ok := env.Resolver.(*resolve.Static); !ok {
			t.Errorf("Resolver = %T, want *resolve.Static", env.Resolver)
		}
		if env.Settings.TypeAllowed(model.TypeHeading) || !env.Settings.TypeAllowed(model.TypeParagraph) {
			t.Errorf("Settings = %s", env.Settings)
		}
	})

	t.Run("report", func(t *testing.T) {
		rptPath := filepath.Join(t.TempDir(), "report.zip")
		rpt, err := (&config.ReporterConfig{Destination: rptPath}).Prepare()
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t), Rpt: rpt}
		env.Cfg.Parser.FieldPath = fieldPath
		if err := env.PrepareParsing(ctx); err != nil {
			t.Fatalf("PrepareParsing() error = %v", err)
		}
		if err := env.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := rpt.Close(); err != nil {
			t.Fatalf("report Close() error = %v", err)
		}

		zr, err := zip.OpenReader(rptPath)
		if err != nil {
			t.Fatalf("open report: %v", err)
		}
		defer zr.Close()
		var found bool
		for _, f := range zr.File {
			if f.Name != "settings.json" {
				continue
			}
			found = true
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open settings.json: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if !strings.Contains(string(data), `"type.heading": {`) {
				t.Errorf("settings.json = %s", data)
			}
		}
		if !found {
			t.Error("report is missing settings.json")
		}
	})

	t.Run("chain", func(t *testing.T) {
		env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t)}
		env.Cfg.Resolver.Chain = []config.ResolverKind{config.ResolverKindSqlite, config.ResolverKindFiles, config.ResolverKindFixture}
		env.Cfg.Resolver.Sqlite.Path = filepath.Join(dir, "canvas.db")
		env.Cfg.Resolver.Files.Dir = dir
		env.Cfg.Resolver.Fixture = fixturePath
		if err := env.PrepareParsing(ctx); err != nil {
			t.Fatalf("PrepareParsing() error = %v", err)
		}
		chain, ok := env.Resolver.(resolve.Chain)
		if !ok || len(chain) != 3 {
			t.Fatalf("Resolver = %T %v", env.Resolver, env.Resolver)
		}
		n, err := env.Resolver.GetNodeByPath(ctx, "/about")
		if err != nil || n.ID != "node-about" {
			t.Errorf("GetNodeByPath() = %+v, %v", n, err)
		}
		// files resolver answers before fixture
		a, err := env.Resolver.GetAssetByPath(ctx, "/fixture.yaml")
		if err != nil || a.Title != "fixture.yaml" {
			t.Errorf("GetAssetByPath() = %+v, %v", a, err)
		}
		if err := env.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if len(env.closers) != 0 || env.Resolver != nil {
			t.Error("Close() left resources behind")
		}
	})

	t.Run("bad_field", func(t *testing.T) {
		env := &LocalEnv{Cfg: defaultConfig(t)}
		env.Cfg.Parser.FieldPath = filepath.Join(dir, "missing.yaml")
		if err := env.PrepareParsing(ctx); err == nil {
			t.Error("Expected error for missing field definition")
		}
	})

	t.Run("bad_resolver_closes_opened", func(t *testing.T) {
		env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t)}
		env.Cfg.Resolver.Chain = []config.ResolverKind{config.ResolverKindFiles, config.ResolverKindDelivery}
		env.Cfg.Resolver.Files.Dir = dir
		env.Cfg.Resolver.Delivery.URL = "relative/api"
		if err := env.PrepareParsing(ctx); err == nil {
			t.Fatal("Expected error for relative delivery url")
		}
		if len(env.closers) != 0 {
			t.Error("opened resolvers were not closed")
		}
	})

	t.Run("no_config", func(t *testing.T) {
		if err := (&LocalEnv{}).PrepareParsing(ctx); err == nil {
			t.Error("Expected error without configuration")
		}
	})
}

func TestNewParser(t *testing.T) {
	env := &LocalEnv{Cfg: defaultConfig(t), Log: testLogger(t)}
	env.Cfg.Parser.RootURL = "https://example.com/"

	blocks, err := env.NewParser("page.xhtml").Parse(context.Background(), `<p>Hi <b>there</b></p>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(blocks) != 1 || blocks[0].Type != model.TypeParagraph {
		t.Errorf("Parse() = %s", model.Dump(blocks))
	}
	if got := env.NewParser("page.html").Classifier().Root(); got != "https://example.com" && got != "https://example.com/" {
		t.Errorf("Classifier().Root() = %q", got)
	}
}
