package photos_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"photoscript/internal/photos"
	"photoscript/internal/testsupport"
)

// travelTree builds Travel/2024/Rome (album) plus a top-level album.
func travelTree(t *testing.T) (*testsupport.FakePhotos, *photos.Library, map[string]string) {
	t.Helper()
	fake := testsupport.NewFakePhotos()
	ids := map[string]string{}
	ids["Travel"] = fake.AddFolder("Travel", "")
	ids["2024"] = fake.AddFolder("2024", ids["Travel"])
	ids["Rome"] = fake.AddAlbum("Rome", ids["2024"])
	ids["Inbox"] = fake.AddAlbum("Inbox", "")
	return fake, openFake(t, fake, photos.Options{}), ids
}

func TestFolderByPath(t *testing.T) {
	_, lib, ids := travelTree(t)
	ctx := context.Background()

	folder, err := lib.FolderByPath(ctx, []string{"Travel", "2024"})
	if err != nil || folder.ID() != ids["2024"] {
		t.Fatalf("FolderByPath = %v, %v", folder, err)
	}
	folder, err = lib.FolderByPathString(ctx, "Travel>2024", ">")
	if err != nil || folder.ID() != ids["2024"] {
		t.Fatalf("FolderByPathString = %v, %v", folder, err)
	}
	if _, err := lib.FolderByPath(ctx, []string{"Travel", "2023"}); !errors.Is(err, photos.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := lib.FolderByPath(ctx, []string{"2024"}); !errors.Is(err, photos.ErrNotFound) {
		t.Fatalf("path must start at the top level, got %v", err)
	}
	if _, err := lib.FolderByPath(ctx, nil); !errors.Is(err, photos.ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
	if _, err := lib.FolderByPathString(ctx, "Travel", "::"); !errors.Is(err, photos.ErrInvalidDelimiter) {
		t.Fatalf("expected ErrInvalidDelimiter, got %v", err)
	}
}

func TestAlbumByPath(t *testing.T) {
	_, lib, ids := travelTree(t)
	ctx := context.Background()

	album, err := lib.AlbumByPath(ctx, "Travel/2024/Rome", "/")
	if err != nil || album.ID() != ids["Rome"] {
		t.Fatalf("AlbumByPath nested = %v, %v", album, err)
	}
	album, err = lib.AlbumByPath(ctx, "Inbox", "/")
	if err != nil || album.ID() != ids["Inbox"] {
		t.Fatalf("AlbumByPath top-level = %v, %v", album, err)
	}
	if _, err := lib.AlbumByPath(ctx, "Rome", "/"); !errors.Is(err, photos.ErrNotFound) {
		t.Fatalf("single element must name a top-level album, got %v", err)
	}
	if _, err := lib.AlbumByPath(ctx, "", "/"); !errors.Is(err, photos.ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestPathStrings(t *testing.T) {
	_, lib, ids := travelTree(t)
	ctx := context.Background()

	album, _ := lib.AlbumByUUID(ctx, ids["Rome"])
	got, err := album.PathString(ctx, "/")
	if err != nil || got != "Travel/2024/Rome" {
		t.Fatalf("album PathString = %q, %v", got, err)
	}
	folder, _ := lib.FolderByUUID(ctx, ids["2024"])
	got, err = folder.PathString(ctx, ">")
	if err != nil || got != "Travel>2024" {
		t.Fatalf("folder PathString = %q, %v", got, err)
	}
	if _, err := album.PathString(ctx, "//"); !errors.Is(err, photos.ErrInvalidDelimiter) {
		t.Fatalf("expected ErrInvalidDelimiter, got %v", err)
	}

	path, err := folder.Path(ctx)
	if err != nil || len(path) != 1 || path[0].ID() != ids["Travel"] {
		t.Fatalf("folder Path = %v, %v", path, err)
	}
	top, _ := lib.FolderByUUID(ctx, ids["Travel"])
	if path, _ := top.Path(ctx); len(path) != 0 {
		t.Fatalf("top-level folder should have empty path, got %v", path)
	}
	if parent, err := top.Parent(ctx); err != nil || parent != nil {
		t.Fatalf("top-level folder parent = %v, %v", parent, err)
	}
}

func TestMakeFoldersIsIdempotent(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()

	folder, err := lib.MakeFolders(ctx, []string{"Travel", "2024", "Italy"})
	if err != nil {
		t.Fatalf("MakeFolders returned error: %v", err)
	}
	if parent, _ := folder.ParentID(ctx); parent != ids["2024"] {
		t.Fatalf("new folder created under %q", parent)
	}
	before := len(fake.Folders)
	again, err := lib.MakeFolders(ctx, []string{"Travel", "2024", "Italy"})
	if err != nil || again.ID() != folder.ID() {
		t.Fatalf("second MakeFolders = %v, %v", again, err)
	}
	if len(fake.Folders) != before {
		t.Fatal("MakeFolders should not duplicate existing folders")
	}
	if _, err := lib.MakeFolders(ctx, []string{}); !errors.Is(err, photos.ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestMakeAlbumFolders(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()

	album, err := lib.MakeAlbumFolders(ctx, "Rome", []string{"Travel", "2024"})
	if err != nil || album.ID() != ids["Rome"] {
		t.Fatalf("existing album should be returned, got %v, %v", album, err)
	}
	album, err = lib.MakeAlbumFolders(ctx, "Lisbon", []string{"Travel", "2025"})
	if err != nil {
		t.Fatalf("MakeAlbumFolders returned error: %v", err)
	}
	path, _ := album.PathString(ctx, "/")
	if path != "Travel/2025/Lisbon" {
		t.Fatalf("unexpected path %q", path)
	}
	if len(fake.Albums) != 3 {
		t.Fatalf("expected 3 albums, got %d", len(fake.Albums))
	}
	if _, err := lib.MakeAlbumFolders(ctx, " ", []string{"Travel"}); !errors.Is(err, photos.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := lib.MakeAlbumFolders(ctx, "X", nil); !errors.Is(err, photos.ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestFolderContents(t *testing.T) {
	_, lib, ids := travelTree(t)
	ctx := context.Background()

	travel, _ := lib.FolderByUUID(ctx, ids["Travel"])
	subs, err := travel.Subfolders(ctx)
	if err != nil || len(subs) != 1 || subs[0].ID() != ids["2024"] {
		t.Fatalf("Subfolders = %v, %v", subs, err)
	}
	if n, _ := travel.Count(ctx); n != 1 {
		t.Fatalf("expected Travel to hold 1 item, got %d", n)
	}
	albums, _ := subs[0].Albums(ctx)
	if len(albums) != 1 || albums[0].ID() != ids["Rome"] {
		t.Fatalf("unexpected albums %v", albums)
	}
	if _, err := subs[0].Album(ctx, "Paris"); !errors.Is(err, photos.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	names, _ := lib.FolderNames(ctx, false)
	if !reflect.DeepEqual(names, []string{"Travel", "2024"}) {
		t.Fatalf("unexpected folder names %v", names)
	}
	top, _ := lib.FolderNames(ctx, true)
	if !reflect.DeepEqual(top, []string{"Travel"}) {
		t.Fatalf("unexpected top-level folder names %v", top)
	}
}

func TestAlbumRemoveRebuildsAlbum(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()
	p1 := fake.AddPhoto("one")
	p2 := fake.AddPhoto("two")
	p3 := fake.AddPhoto("three")
	fake.Albums[ids["Rome"]].Photos = []string{p1, p2, p3}

	album, _ := lib.AlbumByUUID(ctx, ids["Rome"])
	remove, _ := lib.PhotoByUUID(ctx, photos.BareUUID(p2))
	got, err := album.Remove(ctx, []*photos.Photo{remove})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if got != album {
		t.Fatal("Remove should return the re-pointed handle")
	}
	if album.ID() == ids["Rome"] {
		t.Fatal("handle should point at the rebuilt album")
	}
	if _, ok := fake.Albums[ids["Rome"]]; ok {
		t.Fatal("original album should be deleted")
	}
	rebuilt := fake.Albums[album.ID()]
	if rebuilt.Name != "Rome" || rebuilt.Parent != ids["2024"] {
		t.Fatalf("rebuilt album = %+v", rebuilt)
	}
	if !reflect.DeepEqual(rebuilt.Photos, []string{p1, p3}) {
		t.Fatalf("unexpected remaining photos %v", rebuilt.Photos)
	}
	for _, a := range fake.Albums {
		if strings.HasPrefix(a.Name, "photoscript_") {
			t.Fatalf("temporary album name left behind: %s", a.Name)
		}
	}
}

func TestAlbumRemoveDiscardsTempAlbumOnFailure(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()
	p1 := fake.AddPhoto("one")
	p2 := fake.AddPhoto("two")
	fake.Albums[ids["Rome"]].Photos = []string{p1, p2}
	before := len(fake.Albums)
	fake.Failures["albumAdd"] = errors.New("photos busy")

	album, _ := lib.AlbumByUUID(ctx, ids["Rome"])
	if _, err := album.RemoveByID(ctx, []string{photos.BareUUID(p2)}); err == nil {
		t.Fatal("expected RemoveByID to fail")
	}
	if len(fake.Albums) != before {
		t.Fatalf("expected temporary album to be deleted, have %d albums want %d", len(fake.Albums), before)
	}
	if album.ID() != ids["Rome"] || !reflect.DeepEqual(fake.Albums[ids["Rome"]].Photos, []string{p1, p2}) {
		t.Fatal("original album should be untouched")
	}
}

func TestAlbumRemoveAllLeavesEmptyAlbum(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()
	p1 := fake.AddPhoto("one")
	fake.Albums[ids["Inbox"]].Photos = []string{p1}

	album, _ := lib.AlbumByUUID(ctx, ids["Inbox"])
	if _, err := album.RemoveByID(ctx, []string{photos.BareUUID(p1)}); err != nil {
		t.Fatalf("RemoveByID returned error: %v", err)
	}
	if n, _ := album.Count(ctx); n != 0 {
		t.Fatalf("expected empty album, got %d photos", n)
	}
	if fake.CallCount("albumAdd") != 0 {
		t.Fatal("no photos should be added when none remain")
	}
	if parent, _ := album.Parent(ctx); parent != nil {
		t.Fatal("top-level album should stay top-level")
	}
}

func TestAlbumAddAndPhotos(t *testing.T) {
	fake, lib, ids := travelTree(t)
	ctx := context.Background()
	p1 := fake.AddPhoto("one")

	album, _ := lib.AlbumByUUID(ctx, ids["Inbox"])
	photo, _ := lib.PhotoByUUID(ctx, p1)
	added, err := album.Add(ctx, []*photos.Photo{photo})
	if err != nil || len(added) != 1 {
		t.Fatalf("Add = %v, %v", added, err)
	}
	list, _ := album.Photos(ctx)
	if len(list) != 1 || list[0].UUID() != photos.BareUUID(p1) {
		t.Fatalf("unexpected album photos %v", list)
	}
	albums, _ := photo.Albums(ctx)
	if len(albums) != 1 || albums[0].ID() != ids["Inbox"] {
		t.Fatalf("photo Albums = %v", albums)
	}
}
