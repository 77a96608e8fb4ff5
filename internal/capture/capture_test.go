package capture_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"photoscript/internal/capture"
)

func TestFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"DJI_20250619224111_0001_D.MP4", "2025-06-19", true},
		{"20250616_C0416.MP4", "2025-06-16", true},
		{"IMG_20240102_101112.jpg", "2024-01-02 10:11:12", true},
		{"2023-12-31_party.jpg", "2023-12-31", true},
		{"scan 19991231.png", "1999-12-31", true},
		{"IMG_1234.jpg", "", false},
		{"00000000.jpg", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := capture.FromFilename(tc.name)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			layout := "2006-01-02"
			if len(tc.want) > len(layout) {
				layout = "2006-01-02 15:04:05"
			}
			if got.Format(layout) != tc.want {
				t.Fatalf("got %s, want %s", got.Format(layout), tc.want)
			}
		})
	}
}

func TestDateFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2021, 5, 4, 3, 2, 1, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	got, source := capture.Date(path)
	if source != capture.SourceModTime || !got.Equal(mtime) {
		t.Fatalf("Date = %v (%s), want %v (mtime)", got, source, mtime)
	}
}

func TestDatePrefersFilenameOverModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2020-02-29_leap.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, source := capture.Date(path)
	if source != capture.SourceFilename || got.Format("2006-01-02") != "2020-02-29" {
		t.Fatalf("Date = %v (%s)", got, source)
	}
}

func TestGroupBy(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"2024-03-01_a.jpg", "2023-11-05_b.jpg", "2024-03-09_c.mov"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	groups := capture.GroupBy(paths, "")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	if groups[0].Key != "2023-11" || len(groups[0].Paths) != 1 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if groups[1].Key != "2024-03" || len(groups[1].Paths) != 2 || groups[1].Paths[0] != paths[0] {
		t.Fatalf("unexpected second group %+v", groups[1])
	}
}
