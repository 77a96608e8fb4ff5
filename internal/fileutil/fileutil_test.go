package fileutil

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

func TestCopyFilePreservesModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	stamp := time.Date(2020, 5, 17, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Fatalf("mod time not preserved: got %v want %v", info.ModTime(), stamp)
	}
}

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileMode(src, dst, 0o755); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	// Check executable bits are set (umask may clear some bits).
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits, got %o", info.Mode().Perm())
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.jpeg")
	dst := filepath.Join(dir, "out.jpeg")
	if err := os.WriteFile(src, []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFileVerified(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len("jpegdata")) {
		t.Fatalf("unexpected byte count %d", n)
	}
	if _, err := CopyFileVerified(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFindFilesIgnoresCase(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"IMG_0001.JPG", "img_0001 (1).jpeg", "IMG_0002.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindFiles(dir, "img_0001*")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	want := []string{"IMG_0001.JPG", "img_0001 (1).jpeg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindFiles = %v, want %v", got, want)
	}

	none, err := FindFiles(filepath.Join(dir, "absent"), "*")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no matches for missing dir, got %v %v", none, err)
	}
	if _, err := FindFiles(dir, "[bad"); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"/tmp/IMG_0001.jpeg": "IMG_0001",
		"live.photo.mov":     "live.photo",
		"noext":              "noext",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
