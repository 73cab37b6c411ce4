package generate

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"

	"navgen/common"
	"navgen/config"
	"navgen/nav"
	"navgen/state"
)

const courseJSON = `{
  "levels": [
    {"id": "0", "title": "Prelude", "modules": [{"id": "0.1", "slug": "welcome", "title": "Welcome"}]},
    {"id": "1", "title": "Fundamentals", "modules": [
      {"id": "1.1", "slug": "intro", "title": "Introduction"},
      {"id": 1.2, "slug": "setup", "title": "Setup"}
    ]}
  ]
}`

const wantTS = `// Code generated by navgen from course-structure.json. DO NOT EDIT.

const meta: Record<string, string> = {
  "intro": "1.1: Introduction",
  "setup": "1.2: Setup",
}

export default meta
`

func testContext(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t)
	return ctx, env
}

func writeCourse(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return p
}

func writeZip(t *testing.T, dst string, name string, nonUTF8 bool, content string) {
	t.Helper()
	f, err := os.Create(dst)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, NonUTF8: nonUTF8})
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func TestProcess_ToFile(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	src := writeCourse(t, dir, "course-structure.json", courseJSON)
	dst := filepath.Join(dir, "website", "pages", "fundamentals", "_meta.ts")

	if err := process(ctx, src, dst, "1", common.OutputFmtTs, nav.Builder{}, nil, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Failed to read result: %v", err)
	}
	if string(got) != wantTS {
		t.Errorf("result =\n%s\nwant\n%s", got, wantTS)
	}
}

func TestProcess_ToStdout(t *testing.T) {
	ctx, env := testContext(t)
	src := writeCourse(t, t.TempDir(), "course-structure.json", courseJSON)

	for _, dst := range []string{"", "-"} {
		out := new(bytes.Buffer)
		if err := process(ctx, src, dst, "1", common.OutputFmtJson, nav.Builder{}, out, env.Log); err != nil {
			t.Fatalf("process(%q) error = %v", dst, err)
		}
		want := "{\n  \"intro\": \"1.1: Introduction\",\n  \"setup\": \"1.2: Setup\"\n}\n"
		if out.String() != want {
			t.Errorf("process(%q) wrote %q, want %q", dst, out.String(), want)
		}
	}
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	src := writeCourse(t, dir, "course-structure.json", courseJSON)
	dst := writeCourse(t, dir, "_meta.ts", "old")

	err := process(ctx, src, dst, "1", common.OutputFmtTs, nav.Builder{}, nil, env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("process() error = %v, want existing destination error", err)
	}
	if got, _ := os.ReadFile(dst); string(got) != "old" {
		t.Errorf("destination was modified without overwrite: %q", got)
	}

	env.Overwrite = true
	if err := process(ctx, src, dst, "1", common.OutputFmtTs, nav.Builder{}, nil, env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	if got, _ := os.ReadFile(dst); string(got) != wantTS {
		t.Errorf("destination was not replaced: %q", got)
	}

	if err := process(ctx, src, dir, "1", common.OutputFmtTs, nav.Builder{}, nil, env.Log); err == nil {
		t.Error("process() expected error for directory destination")
	}
}

func TestProcess_MissingLevel(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	src := writeCourse(t, dir, "course-structure.json", courseJSON)
	dst := filepath.Join(dir, "_meta.ts")

	err := process(ctx, src, dst, "5", common.OutputFmtTs, nav.Builder{}, nil, env.Log)
	if !errors.Is(err, nav.ErrMissingLevel) {
		t.Fatalf("process() error = %v, want ErrMissingLevel", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("destination should not be created when level is missing")
	}
}

func TestProcess_BuilderOptions(t *testing.T) {
	ctx, env := testContext(t)
	src := writeCourse(t, t.TempDir(), "course.yaml", `levels:
  - id: "1"
    modules:
      - {id: 1.1, slug: "Шаг Один", title: intro}
`)

	labeler, err := nav.TemplateLabeler("label", "{{ .Index }}. {{ .Title | title }}")
	if err != nil {
		t.Fatalf("TemplateLabeler() error = %v", err)
	}
	out := new(bytes.Buffer)
	builder := nav.Builder{Labeler: labeler, Transliterate: true}
	if err := process(ctx, src, "-", "1", common.OutputFmtJson, builder, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if want := "{\n  \"shag-odin\": \"1. Intro\"\n}\n"; out.String() != want {
		t.Errorf("process() wrote %q, want %q", out.String(), want)
	}
}

func TestProcess_FromArchive(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	arc := filepath.Join(dir, "materials.zip")
	writeZip(t, arc, "course-materials/course-structure.json", false, courseJSON)

	out := new(bytes.Buffer)
	src := filepath.Join(arc, "course-materials", "course-structure.json")
	if err := process(ctx, src, "-", "1", common.OutputFmtTs, nav.Builder{}, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if out.String() != wantTS {
		t.Errorf("result =\n%s\nwant\n%s", out.String(), wantTS)
	}

	missing := filepath.Join(arc, "course-materials", "other.json")
	if err := process(ctx, missing, "-", "1", common.OutputFmtTs, nav.Builder{}, out, env.Log); err == nil {
		t.Error("process() expected error for missing archive entry")
	}
}

func TestProcess_FromArchiveWithCodePage(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()

	name, err := charmap.CodePage866.NewEncoder().String("курс/course-structure.json")
	if err != nil {
		t.Fatalf("Failed to encode name: %v", err)
	}
	arc := filepath.Join(dir, "materials.zip")
	writeZip(t, arc, name, true, courseJSON)

	src := filepath.Join(arc, "курс", "course-structure.json")
	if err := process(ctx, src, "-", "1", common.OutputFmtTs, nav.Builder{}, new(bytes.Buffer), env.Log); err == nil {
		t.Fatal("process() expected error without code page")
	}

	env.CodePage = selectCodePage("cp866", env.Log)
	if env.CodePage == nil {
		t.Fatal("selectCodePage(cp866) returned nil")
	}
	out := new(bytes.Buffer)
	if err := process(ctx, src, "-", "1", common.OutputFmtTs, nav.Builder{}, out, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if out.String() != wantTS {
		t.Errorf("result =\n%s\nwant\n%s", out.String(), wantTS)
	}
}

func TestLoadStructure_Errors(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	plain := writeCourse(t, dir, "course-structure.json", courseJSON)
	broken := writeCourse(t, dir, "broken.json", `{"levels": [`)

	tests := []struct {
		name string
		src  string
	}{
		{"missing file", filepath.Join(dir, "missing.json")},
		{"path inside regular file", filepath.Join(plain, "inner.json")},
		{"directory", dir},
		{"broken file", broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := loadStructure(ctx, tt.src, env.Log); err == nil {
				t.Error("loadStructure() expected error")
			}
		})
	}
}

func TestLoadStructure_Cancelled(t *testing.T) {
	ctx, env := testContext(t)
	src := writeCourse(t, t.TempDir(), "course-structure.json", courseJSON)

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := loadStructure(ctx, src, env.Log); !errors.Is(err, context.Canceled) {
		t.Errorf("loadStructure() error = %v, want context.Canceled", err)
	}
}

func TestProcess_Report(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	src := writeCourse(t, dir, "course-structure.json", courseJSON)

	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	if err := process(ctx, src, "-", "1", common.OutputFmtYaml, nav.Builder{}, new(bytes.Buffer), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(dir, "report.zip"))
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	found := make(map[string]bool)
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, name := range []string{"MANIFEST", "source/course-structure.json", "structure.txt", "navigation.yaml"} {
		if !found[name] {
			t.Errorf("report is missing %s", name)
		}
	}
}

func TestCheck(t *testing.T) {
	ctx, env := testContext(t)
	dir := t.TempDir()
	good := writeCourse(t, dir, "good.json", courseJSON)
	bad := writeCourse(t, dir, "bad.json", `{"levels": [
  {"id": "1", "modules": [
    {"id": "1.1", "slug": "intro", "title": "Introduction"},
    {"id": "1.2", "slug": "intro", "title": ""}
  ]}
]}`)

	if err := check(ctx, good, "1", env.Log); err != nil {
		t.Errorf("check(good) error = %v", err)
	}

	err := check(ctx, good, "9", env.Log)
	if err == nil || !strings.Contains(err.Error(), "1 problem(s)") {
		t.Errorf("check(missing level) error = %v", err)
	}

	err = check(ctx, bad, "1", env.Log)
	if err == nil || !strings.Contains(err.Error(), "2 problem(s)") {
		t.Errorf("check(bad) error = %v", err)
	}
}

func TestSelectCodePage(t *testing.T) {
	_, env := testContext(t)

	if enc := selectCodePage("", env.Log); enc != nil {
		t.Error("selectCodePage(\"\") should return nil")
	}
	if enc := selectCodePage("no-such-charset", env.Log); enc != nil {
		t.Error("selectCodePage() should return nil for unknown charset")
	}
	if enc := selectCodePage("windows-1251", env.Log); enc != charmap.Windows1251 {
		t.Errorf("selectCodePage(windows-1251) = %v", enc)
	}
}

func TestIsStdout(t *testing.T) {
	for dst, want := range map[string]bool{"": true, "-": true, "_meta.ts": false, "./-": false} {
		if got := isStdout(dst); got != want {
			t.Errorf("isStdout(%q) = %v, want %v", dst, got, want)
		}
	}
}
