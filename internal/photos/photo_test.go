package photos_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"photoscript/internal/photos"
	"photoscript/internal/testsupport"
)

func onePhoto(t *testing.T) (*testsupport.FakePhotos, *photos.Photo) {
	t.Helper()
	fake := testsupport.NewFakePhotos()
	id := fake.AddPhoto("IMG_0001")
	lib := openFake(t, fake, photos.Options{})
	p, err := lib.PhotoByUUID(context.Background(), id)
	if err != nil {
		t.Fatalf("PhotoByUUID returned error: %v", err)
	}
	return fake, p
}

func TestPhotoKeywords(t *testing.T) {
	fake, p := onePhoto(t)
	ctx := context.Background()

	kw, err := p.Keywords(ctx)
	if err != nil || kw == nil || len(kw) != 0 {
		t.Fatalf("missing keywords should be an empty slice, got %#v, %v", kw, err)
	}
	fake.Photos[p.ID()].Keywords = "solo"
	kw, _ = p.Keywords(ctx)
	if !reflect.DeepEqual(kw, []string{"solo"}) {
		t.Fatalf("single keyword should become a list, got %v", kw)
	}
	if err := p.SetKeywords(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	kw, _ = p.Keywords(ctx)
	if !reflect.DeepEqual(kw, []string{"a", "b"}) {
		t.Fatalf("unexpected keywords %v", kw)
	}
	if err := p.SetKeywords(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if kw, _ = p.Keywords(ctx); len(kw) != 0 {
		t.Fatalf("nil should clear keywords, got %v", kw)
	}
}

func TestPhotoLocation(t *testing.T) {
	_, p := onePhoto(t)
	ctx := context.Background()

	loc, err := p.Location(ctx)
	if err != nil || loc.Latitude != nil || loc.Longitude != nil {
		t.Fatalf("expected empty location, got %+v, %v", loc, err)
	}
	lat, lon := 41.9, 12.5
	if err := p.SetLocation(ctx, &photos.Location{Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("SetLocation returned error: %v", err)
	}
	loc, _ = p.Location(ctx)
	if loc.Latitude == nil || *loc.Latitude != lat || loc.Longitude == nil || *loc.Longitude != lon {
		t.Fatalf("unexpected location %+v", loc)
	}
	if err := p.SetLocation(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if loc, _ = p.Location(ctx); loc.Latitude != nil {
		t.Fatal("nil should clear the location")
	}

	bad := 91.0
	if err := p.SetLocation(ctx, &photos.Location{Latitude: &bad}); !errors.Is(err, photos.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation for latitude, got %v", err)
	}
	bad = -180.5
	if err := p.SetLocation(ctx, &photos.Location{Longitude: &bad}); !errors.Is(err, photos.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation for longitude, got %v", err)
	}
}

func TestPhotoDate(t *testing.T) {
	_, p := onePhoto(t)
	ctx := context.Background()

	d, err := p.Date(ctx)
	if err != nil || !d.IsZero() {
		t.Fatalf("missing date should be zero, got %v, %v", d, err)
	}
	want := time.Date(2024, time.June, 1, 10, 30, 15, 0, time.Local)
	if err := p.SetDate(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := p.Date(ctx)
	if err != nil || !got.Equal(want) {
		t.Fatalf("Date = %v, %v, want %v", got, err, want)
	}
}

func TestPhotoAltitudeAndScalars(t *testing.T) {
	fake, p := onePhoto(t)
	ctx := context.Background()

	alt, err := p.Altitude(ctx)
	if err != nil || alt != nil {
		t.Fatalf("missing altitude should be nil, got %v, %v", alt, err)
	}
	fake.Photos[p.ID()].Altitude = 12.5
	if alt, _ = p.Altitude(ctx); alt == nil || *alt != 12.5 {
		t.Fatalf("unexpected altitude %v", alt)
	}

	if err := p.SetName(ctx, "Sunset"); err != nil {
		t.Fatal(err)
	}
	if name, _ := p.Name(ctx); name != "Sunset" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestPhotoDuplicate(t *testing.T) {
	fake, p := onePhoto(t)
	dup, err := p.Duplicate(context.Background())
	if err != nil {
		t.Fatalf("Duplicate returned error: %v", err)
	}
	if dup.ID() == p.ID() || len(fake.PhotoOrder) != 2 {
		t.Fatalf("expected a new photo, got %s", dup.ID())
	}
}
