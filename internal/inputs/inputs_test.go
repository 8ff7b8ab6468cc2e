package inputs

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	in := "67.169.73.113\r\n\n  \n2543 Graystone Pl, Simi Valley, CA 93065\nlast"
	got, err := ReadLines(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadLines returned error: %v", err)
	}
	want := []string{"67.169.73.113", "2543 Graystone Pl, Simi Valley, CA 93065", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadLines = %q, want %q", got, want)
	}
}

func TestReadLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	got, err := ReadLines(strings.NewReader(long + "\n"))
	if err != nil {
		t.Fatalf("ReadLines returned error: %v", err)
	}
	if len(got) != 1 || got[0] != long {
		t.Fatalf("ReadLines did not keep the long line intact (got %d lines)", len(got))
	}
}

func TestReadAll(t *testing.T) {
	got, err := ReadAll(strings.NewReader("line one\nline two\n"))
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if got != "line one\nline two\n" {
		t.Fatalf("ReadAll = %q", got)
	}
}

func mkfile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func collect(t *testing.T, paths ...string) ([]string, []error) {
	t.Helper()
	var files []string
	var errs []error
	for path, err := range Files(paths) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, path)
	}
	return files, errs
}

func TestFiles_WalksDirectoriesInOrder(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "docs", "b.pdf"))
	mkfile(t, filepath.Join(root, "docs", "a.txt"))
	mkfile(t, filepath.Join(root, "docs", "nested", "c.png"))
	mkfile(t, filepath.Join(root, "docs", ".hidden", "skip.txt"))
	mkfile(t, filepath.Join(root, "docs", ".DS_Store"))
	single := filepath.Join(root, "single.html")
	mkfile(t, single)

	got, errs := collect(t, single, filepath.Join(root, "docs"))
	if len(errs) != 0 {
		t.Fatalf("Files yielded errors: %v", errs)
	}
	want := []string{
		single,
		filepath.Join(root, "docs", "a.txt"),
		filepath.Join(root, "docs", "b.pdf"),
		filepath.Join(root, "docs", "nested", "c.png"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Files = %q, want %q", got, want)
	}
}

func TestFiles_MissingPath(t *testing.T) {
	_, errs := collect(t, filepath.Join(t.TempDir(), "nope.pdf"))
	if len(errs) != 1 {
		t.Fatalf("Files yielded %d errors for a missing path, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "stat input") {
		t.Fatalf("error = %q, want it to mention stat input", errs[0])
	}
}

func TestFiles_ReportsErrorsAndContinues(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.txt")
	mkfile(t, good)

	var paths []string
	var errs int
	for path, err := range Files([]string{filepath.Join(root, "missing"), good}) {
		if err != nil {
			errs++
			continue
		}
		paths = append(paths, path)
	}
	if errs != 1 {
		t.Fatalf("errors = %d, want 1", errs)
	}
	if !reflect.DeepEqual(paths, []string{good}) {
		t.Fatalf("paths = %q, want %q", paths, []string{good})
	}
}

func TestFiles_StopsEarly(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		mkfile(t, filepath.Join(root, name))
	}
	count := 0
	for range Files([]string{root}) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
