package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("zip.OpenReader() error = %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s) error = %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s) error = %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != conf.Destination {
		t.Errorf("Name() = %s, want %s", r.Name(), conf.Destination)
	}

	input := filepath.Join(dir, "page.html")
	if err := os.WriteFile(input, []byte("<p>original</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	tree := filepath.Join(dir, "tree")
	if err := os.MkdirAll(filepath.Join(tree, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tree, "sub", "a.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("stored.html", input)
	if err := r.StoreCopy("copy.html", input); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	if err := r.StoreCopy("tree", tree); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	r.StoreData("data.txt", []byte("one"))
	r.StoreData("data.txt", []byte("two"))
	if err := r.StoreJSON("lookup.json", map[string]int{"nodes": 2}); err != nil {
		t.Fatalf("StoreJSON() error = %v", err)
	}
	r.Store("absent.log", filepath.Join(dir, "absent.log"))

	// copy must not see changes made after the call
	if err := os.WriteFile(input, []byte("<p>changed</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	var tmps []string
	for _, e := range r.entries {
		if e.tmp != "" {
			tmps = append(tmps, e.tmp)
		}
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["stored.html"] != "<p>changed</p>" {
		t.Errorf("stored.html = %q", files["stored.html"])
	}
	if files["copy.html"] != "<p>original</p>" {
		t.Errorf("copy.html = %q", files["copy.html"])
	}
	if files["tree/sub/a.json"] != "[]" {
		t.Errorf("tree/sub/a.json = %q", files["tree/sub/a.json"])
	}
	if files["data.txt"] != "one" {
		t.Errorf("data.txt = %q", files["data.txt"])
	}
	if !strings.Contains(files["lookup.json"], `"nodes": 2`) {
		t.Errorf("lookup.json = %q", files["lookup.json"])
	}
	if _, ok := files["absent.log"]; ok {
		t.Error("absent file archived")
	}
	data := 0
	for name := range files {
		if strings.HasPrefix(name, "data.txt") {
			data++
		}
	}
	if data != 2 {
		t.Errorf("data.txt versions = %d, want 2", data)
	}
	if !strings.Contains(files["MANIFEST"], "stored.html") {
		t.Errorf("MANIFEST = %q", files["MANIFEST"])
	}

	if len(tmps) != 2 {
		t.Fatalf("temporary copies = %d, want 2", len(tmps))
	}
	for _, tmp := range tmps {
		if _, err := os.Stat(tmp); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s not removed", tmp)
		}
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreJSON("x", 1); err != nil {
		t.Errorf("StoreJSON on nil report error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
