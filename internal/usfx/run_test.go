package usfx

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreXML "github.com/mwatts/haiola/core/xml"
)

func usxDoc(code string) string {
	return `<usx version="3.0"><book code="` + code + `" style="id">` + code +
		`</book><chapter number="1" style="c"/><para style="p"><verse number="1" style="v"/>Text of ` +
		code + `</para></usx>`
}

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "01GEN.usx", usxDoc("GEN"))
	writeSourceFile(t, dir, "02EXO.usx", usxDoc("EXO"))
	sub := filepath.Join(dir, "extra")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSourceFile(t, sub, "03LEV.usx", usxDoc("LEV"))

	var sb strings.Builder
	run, err := NewRun(&sb, Options{})
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if err := run.ConvertDir(dir); err != nil {
		t.Fatalf("ConvertDir failed: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := sb.String()
	for _, code := range []string{"GEN", "EXO", "LEV"} {
		if !run.Seen(code) {
			t.Errorf("book %s not recorded as seen", code)
		}
		if !strings.Contains(out, `<book id="`+code+`">`) {
			t.Errorf("book %s missing from output:\n%s", code, out)
		}
	}

	result := coreXML.Validate([]byte(out))
	if !result.Valid {
		t.Errorf("output not well-formed: %+v", result.Errors)
	}
}

func TestConvertDirDuplicateAcrossInputs(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeSourceFile(t, dirA, "01GEN.usx", usxDoc("GEN"))
	writeSourceFile(t, dirB, "01GEN.usx", usxDoc("GEN"))
	writeSourceFile(t, dirB, "02EXO.usx", usxDoc("EXO"))

	var sb strings.Builder
	run, err := NewRun(&sb, Options{})
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if err := run.ConvertDir(dirA); err != nil {
		t.Fatalf("ConvertDir(dirA) failed: %v", err)
	}
	if err := run.ConvertDir(dirB); err != nil {
		t.Fatalf("ConvertDir(dirB) failed: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := sb.String()
	if got := strings.Count(out, `<book id="GEN">`); got != 1 {
		t.Errorf("GEN emitted %d times, want 1:\n%s", got, out)
	}
	if !strings.Contains(out, `<book id="EXO">`) {
		t.Errorf("EXO missing from output:\n%s", out)
	}
}

func TestConvertDirMalformedFileContinues(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "01GEN.usx", `<usx><book code="GEN" style="id">GEN`)
	writeSourceFile(t, dir, "02EXO.usx", usxDoc("EXO"))

	var sb strings.Builder
	run, err := NewRun(&sb, Options{})
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if err := run.ConvertDir(dir); err != nil {
		t.Fatalf("ConvertDir should not fail the run on a bad file: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := sb.String()
	if !strings.Contains(out, `<book id="EXO">`) {
		t.Errorf("good file after bad one was not converted:\n%s", out)
	}

	// The failed file's partial output was unwound, so the document is
	// still well-formed.
	result := coreXML.Validate([]byte(out))
	if !result.Valid {
		t.Errorf("output not well-formed after file failure: %+v\n%s", result.Errors, out)
	}
}

func TestConvertBundle(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "books.tar.gz")
	f, err := os.Create(bundle)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, book := range []string{"GEN", "EXO"} {
		data := []byte(usxDoc(book))
		hdr := &tar.Header{
			Name: "release/" + book + ".usx",
			Mode: 0o644,
			Size: int64(len(data)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	run, err := NewRun(&sb, Options{})
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if err := run.ConvertPath(bundle); err != nil {
		t.Fatalf("ConvertPath failed: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := sb.String()
	for _, code := range []string{"GEN", "EXO"} {
		if !strings.Contains(out, `<book id="`+code+`">`) {
			t.Errorf("book %s missing from bundle conversion:\n%s", code, out)
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "01GEN.usx", usxDoc("GEN"))
	writeSourceFile(t, dir, "40MAT.usx", usxDoc("MAT"))

	convert := func() string {
		var sb strings.Builder
		run, err := NewRun(&sb, Options{LanguageCode: "eng"})
		if err != nil {
			t.Fatalf("NewRun failed: %v", err)
		}
		if err := run.ConvertDir(dir); err != nil {
			t.Fatalf("ConvertDir failed: %v", err)
		}
		if err := run.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		return sb.String()
	}

	first := convert()
	second := convert()
	if first != second {
		t.Errorf("conversion output differs between runs:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestRunIDUnique(t *testing.T) {
	var a, b strings.Builder
	runA, err := NewRun(&a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	runB, err := NewRun(&b, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if runA.ID() == "" || runA.ID() == runB.ID() {
		t.Errorf("run identifiers not unique: %q vs %q", runA.ID(), runB.ID())
	}
}
