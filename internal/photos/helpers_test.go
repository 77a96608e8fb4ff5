package photos_test

import (
	"context"
	"testing"

	"photoscript/internal/photos"
	"photoscript/internal/testsupport"
)

func openFake(t *testing.T, fake *testsupport.FakePhotos, opts photos.Options) *photos.Library {
	t.Helper()
	lib, err := photos.Open(context.Background(), fake, opts)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return lib
}
