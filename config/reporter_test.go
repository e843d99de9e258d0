package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReportNilSafety(t *testing.T) {
	var r *Report

	// none of these should panic
	r.Store("a", "/tmp/nothing")
	r.StoreData("b", []byte("data"))
	if r.Name() != "" {
		t.Error("nil report has a name")
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	srcPath := filepath.Join(tmpDir, "artifact.txt")
	if err := os.WriteFile(srcPath, []byte("from file"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	r.StoreData("fragments/page.rendered", []byte("<p>hi</p>"))
	r.Store("inputs/artifact.txt", srcPath)
	r.StoreData("fragments/page.rendered", []byte("duplicate")) // gets a suffixed name

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(zr.File))
	}

	found := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %q: %v", f.Name, err)
		}
		found[f.Name] = string(data)
	}

	if found["fragments/page.rendered"] != "<p>hi</p>" {
		t.Errorf("data entry wrong: %q", found["fragments/page.rendered"])
	}
	if found["inputs/artifact.txt"] != "from file" {
		t.Errorf("file entry wrong: %q", found["inputs/artifact.txt"])
	}
}

func TestReportMissingFileNoted(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	r.Store("gone.txt", filepath.Join(tmpDir, "does-not-exist"))

	// the report must close cleanly, noting the problem inside the entry
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(zr.File))
	}
}
