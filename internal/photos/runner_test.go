package photos_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"photoscript/internal/applescript"
	"photoscript/internal/photos"
)

var callPattern = regexp.MustCompile(`return (\w+)\((.*)\)\s*$`)

// slowPhotos answers handler calls through a real Runner. Handlers listed in
// delays take that long to answer, like Photos waiting or exporting.
type slowPhotos struct {
	mu      sync.Mutex
	delays  map[string]time.Duration
	replies map[string]string
	runs    map[string]int
	kills   int
}

func (s *slowPhotos) Run(ctx context.Context, binary string, args []string, script string) ([]byte, error) {
	m := callPattern.FindStringSubmatch(script)
	if m == nil {
		return []byte("true"), nil
	}
	handler, argList := m[1], m[2]
	s.mu.Lock()
	s.runs[handler]++
	delay := s.delays[handler]
	s.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if handler == "photoExport" {
		parts := strings.Split(argList, ", ")
		staging := strings.Trim(parts[1], `"`)
		if err := os.WriteFile(filepath.Join(staging, "IMG_0001.jpeg"), []byte("x"), 0o644); err != nil {
			return nil, err
		}
		return []byte(`"IMG_0001.jpeg"`), nil
	}
	if reply, ok := s.replies[handler]; ok {
		return []byte(reply), nil
	}
	return []byte("true"), nil
}

func (s *slowPhotos) Kill(ctx context.Context, app string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kills++
	return true, nil
}

func newSlowRunner(t *testing.T, stub *slowPhotos, timeout time.Duration) *applescript.Runner {
	t.Helper()
	if stub.replies == nil {
		stub.replies = map[string]string{}
	}
	if _, ok := stub.replies["photosLibraryVersion"]; !ok {
		stub.replies["photosLibraryVersion"] = `"10.0"`
	}
	stub.runs = map[string]int{}
	runner, err := applescript.New("osascript", photos.Script,
		applescript.WithExecutor(stub),
		applescript.WithKiller(stub),
		applescript.WithTimeout(timeout),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return runner
}

func TestOpenWaitOutlivesCallTimeoutWithoutReset(t *testing.T) {
	stub := &slowPhotos{
		delays:  map[string]time.Duration{"photosLibraryWaitForPhotos": 200 * time.Millisecond},
		replies: map[string]string{"photosLibraryWaitForPhotos": "false"},
	}
	runner := newSlowRunner(t, stub, 50*time.Millisecond)

	_, err := photos.Open(context.Background(), runner, photos.Options{LaunchTimeout: time.Second})
	if err == nil || !strings.Contains(err.Error(), "not ready after 1s") {
		t.Fatalf("expected not ready error, got %v", err)
	}
	if stub.runs["photosLibraryWaitForPhotos"] != 1 || stub.kills != 0 {
		t.Fatalf("expected a single wait without reset, got runs=%d kills=%d", stub.runs["photosLibraryWaitForPhotos"], stub.kills)
	}
}

func TestOpenWaitStopsWithContext(t *testing.T) {
	stub := &slowPhotos{delays: map[string]time.Duration{"photosLibraryWaitForPhotos": time.Hour}}
	runner := newSlowRunner(t, stub, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := photos.Open(ctx, runner, photos.Options{LaunchTimeout: time.Second}); err == nil {
		t.Fatal("expected Open to stop with its context")
	}
	if stub.kills != 0 {
		t.Fatalf("expected no reset, got %d kills", stub.kills)
	}
}

func TestExportOutlivesCallTimeout(t *testing.T) {
	stub := &slowPhotos{delays: map[string]time.Duration{"photoExport": 200 * time.Millisecond}}
	runner := newSlowRunner(t, stub, 50*time.Millisecond)
	lib, err := photos.Open(context.Background(), runner, photos.Options{})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	photo, err := lib.PhotoByUUID(context.Background(), "AAAA-BBBB")
	if err != nil {
		t.Fatalf("PhotoByUUID returned error: %v", err)
	}

	dest := t.TempDir()
	paths, err := photo.Export(context.Background(), dest, photos.ExportOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "IMG_0001.jpeg" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if stub.runs["photoExport"] != 1 || stub.kills != 0 {
		t.Fatalf("expected a single export without reset, got runs=%d kills=%d", stub.runs["photoExport"], stub.kills)
	}
}
