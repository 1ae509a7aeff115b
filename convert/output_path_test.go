package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"canvas/config"
	"canvas/model"
	"canvas/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func heading(level int, text string) model.Block {
	return model.Block{
		Type:       model.TypeHeading,
		ID:         "h" + text,
		Properties: &model.Properties{Level: level},
		Value:      model.ChildrenValue([]model.Block{{Type: model.TypeFragment, ID: "f" + text, Value: model.TextValue(text)}}),
	}
}

func sampleBlocks() []model.Block {
	return []model.Block{
		heading(1, "Getting Started"),
		{Type: model.TypeParagraph, ID: "p", Value: model.TextValue("body")},
		heading(2, "Details"),
	}
}

func TestBuildOutputPath(t *testing.T) {
	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		src           string
		expected      string
	}{
		{"simple no dirs", true, false, "", filepath.Join("docs", "guide.html"), filepath.Join("/out", "guide.json")},
		{"simple with dirs", false, false, "", filepath.Join("docs", "guide.html"), filepath.Join("/out", "docs", "guide.json")},
		{"transliterate", true, true, "", "Руководство.html", filepath.Join("/out", "rukovodstvo.json")},
		{"template title", true, false, "{{ .Title }}", "guide.html", filepath.Join("/out", "Getting Started.json")},
		{"template with subdirs", false, true, "{{ .SourceDir }}/{{ .Title }}", filepath.Join("docs", "guide.html"), filepath.Join("/out", "docs", "docs", "getting-started.json")},
		{"template invalid falls back", true, false, "{{ .Missing", "guide.html", filepath.Join("/out", "guide.json")},
		{"template empty result", true, false, "{{ if false }}x{{ end }}", "guide.html", filepath.Join("/out", "guide.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			if got := buildOutputPath(sampleBlocks(), tt.src, "/out", env); got != tt.expected {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDetermineOutputDir(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	if got := determineOutputDir(filepath.Join("a", "b.html"), "/out", env); got != "/out" {
		t.Errorf("determineOutputDir() = %q, want /out", got)
	}
	env.NoDirs = false
	if got := determineOutputDir(filepath.Join("a", "b.html"), "/out", env); got != filepath.Join("/out", "a") {
		t.Errorf("determineOutputDir() = %q", got)
	}
	if got := determineOutputDir("b.html", "/out", env); got != "/out" {
		t.Errorf("determineOutputDir() = %q", got)
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		expected      string
	}{
		{"plain", "page.html", false, "page.json"},
		{"double extension", "page.en.xhtml", false, "page.en.json"},
		{"hidden", ".page.html", false, "page.json"},
		{"only extension", ".html", false, "_unnamed_.json"},
		{"transliterate", "Моя страница.htm", true, "moia-stranitsa.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")
			if got := buildDefaultFileName(tt.src, env); got != tt.expected {
				t.Errorf("buildDefaultFileName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", filepath.Join("section", "page"), []string{"section", "page"}},
		{"single segment", "page", []string{"page"}},
		{"with trailing slash", filepath.Join("section", "page") + string(filepath.Separator), []string{"section", "page"}},
		{"three levels", filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{"parent references", filepath.Join("..", "a", "..", "b"), []string{"a", "b"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndCleanPath(tt.path)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndCleanPath() = %q, want %q", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndCleanPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "section", false, "section"},
		{"with spaces", "My Page", false, "My Page"},
		{"transliterate cyrillic", "Раздел", true, "razdel"},
		{"path list separator", "page:name", false, "pagename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")
			if result := cleanPathSegment(tt.segment, env); result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs(t *testing.T) {
	tests := []struct {
		name          string
		expandedName  string
		transliterate bool
		expected      string
	}{
		{"simple template", filepath.Join("section", "page"), false, filepath.Join("/output", "section", "page.json")},
		{"single level", "page", false, filepath.Join("/output", "page.json")},
		{"with transliterate", filepath.Join("Раздел", "Страница"), true, filepath.Join("/output", "razdel", "stranitsa.json")},
		{"empty path", "", false, filepath.Join("/output", "_unnamed_.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")
			if result := assemblePathWithSubdirs("/output", tt.expandedName, env); result != tt.expected {
				t.Errorf("assemblePathWithSubdirs() = %q, want %q", result, tt.expected)
			}
		})
	}
}
