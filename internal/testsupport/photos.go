package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photoscript/internal/applescript"
	"photoscript/internal/photos"
)

// FakeAlbum is an album held by FakePhotos.
type FakeAlbum struct {
	Name   string
	Parent string
	Photos []string
}

// FakeFolder is a folder held by FakePhotos.
type FakeFolder struct {
	Name   string
	Parent string
}

// FakePhoto is a media item held by FakePhotos. Keywords, Location, Date and
// Altitude hold raw reply values so tests can feed missing values or scalars.
type FakePhoto struct {
	Name        string
	Filename    string
	Description string
	Favorite    bool
	Width       int
	Height      int
	Keywords    any
	Location    []any
	Date        any
	Altitude    any
	// Files are written into the export directory by photoExport.
	Files []string
}

// FakePhotos is an in-memory Photos answering handler calls with the same
// value shapes the applescript runner produces. It implements photos.Caller.
type FakePhotos struct {
	Version     string
	Ready       bool
	PhotoOrder  []string
	Photos      map[string]*FakePhoto
	AlbumOrder  []string
	Albums      map[string]*FakeAlbum
	FolderOrder []string
	Folders     map[string]*FakeFolder
	Selection   []string
	Calls       []string
	Scripts     []string
	Revealed    [][]string
	// Failures makes the named handler return the error.
	Failures map[string]error

	nextID int
}

// NewFakePhotos returns an empty, ready library reporting version 9.0.
func NewFakePhotos() *FakePhotos {
	return &FakePhotos{
		Version:  "9.0",
		Ready:    true,
		Photos:   map[string]*FakePhoto{},
		Albums:   map[string]*FakeAlbum{},
		Folders:  map[string]*FakeFolder{},
		Failures: map[string]error{},
	}
}

func (f *FakePhotos) newID(suffix string) string {
	f.nextID++
	return fmt.Sprintf("ID%04d%s", f.nextID, suffix)
}

// AddPhoto adds a photo whose export writes files and returns its id.
func (f *FakePhotos) AddPhoto(name string, files ...string) string {
	id := f.newID(photos.SuffixPhoto)
	f.PhotoOrder = append(f.PhotoOrder, id)
	f.Photos[id] = &FakePhoto{
		Name:     name,
		Filename: name,
		Keywords: applescript.Missing{},
		Location: []any{applescript.Missing{}, applescript.Missing{}},
		Date:     applescript.Missing{},
		Altitude: applescript.Missing{},
		Width:    4032,
		Height:   3024,
		Files:    files,
	}
	return id
}

func (f *FakePhotos) AddFolder(name, parent string) string {
	id := f.newID(photos.SuffixFolder)
	f.FolderOrder = append(f.FolderOrder, id)
	f.Folders[id] = &FakeFolder{Name: name, Parent: parent}
	return id
}

func (f *FakePhotos) AddAlbum(name, parent string, photoIDs ...string) string {
	id := f.newID(photos.SuffixAlbum)
	f.AlbumOrder = append(f.AlbumOrder, id)
	f.Albums[id] = &FakeAlbum{Name: name, Parent: parent, Photos: append([]string(nil), photoIDs...)}
	return id
}

// CallCount reports how many times handler was called.
func (f *FakePhotos) CallCount(handler string) int {
	n := 0
	for _, c := range f.Calls {
		if c == handler {
			n++
		}
	}
	return n
}

func (f *FakePhotos) Run(ctx context.Context, source string) (any, error) {
	f.Scripts = append(f.Scripts, source)
	return true, nil
}

func (f *FakePhotos) Call(ctx context.Context, handler string, args ...any) (any, error) {
	f.Calls = append(f.Calls, handler)
	if err := f.Failures[handler]; err != nil {
		return nil, err
	}
	str := func(i int) string { return args[i].(string) }
	switch handler {
	case "photosLibraryWaitForPhotos":
		return f.Ready, nil
	case "photosLibraryVersion":
		return f.Version, nil
	case "photosLibraryCount":
		return int64(len(f.PhotoOrder)), nil
	case "photosLibraryGetPhotoByRange":
		lo, hi := args[0].(int), args[1].(int)
		return toList(f.PhotoOrder[lo-1 : hi]), nil
	case "photosLibrarySearchPhotos":
		var ids []string
		for _, id := range f.PhotoOrder {
			if strings.Contains(f.Photos[id].Name, str(0)) {
				ids = append(ids, id)
			}
		}
		return toList(ids), nil
	case "photosLibraryGetSelection":
		return toList(f.Selection), nil
	case "photosLibraryAlbumEntries":
		var out []any
		for _, id := range f.AlbumOrder {
			a := f.Albums[id]
			if args[0].(bool) && a.Parent != "" {
				continue
			}
			out = append(out, []any{id, a.Name})
		}
		return listOrEmpty(out), nil
	case "photosLibraryFolderEntries":
		var out []any
		for _, id := range f.FolderOrder {
			fo := f.Folders[id]
			if args[0].(bool) && fo.Parent != "" {
				continue
			}
			out = append(out, []any{id, fo.Name})
		}
		return listOrEmpty(out), nil
	case "photosLibraryCreateAlbum":
		return f.AddAlbum(str(0), ""), nil
	case "photosLibraryCreateAlbumAtFolder":
		return f.AddAlbum(str(0), str(1)), nil
	case "photosLibraryCreateFolder":
		return f.AddFolder(str(0), ""), nil
	case "photosLibraryCreateFolderAtFolder":
		return f.AddFolder(str(0), str(1)), nil
	case "photosLibraryDeleteAlbum":
		delete(f.Albums, str(0))
		f.AlbumOrder = without(f.AlbumOrder, str(0))
		return true, nil
	case "photosLibraryDeleteFolder":
		delete(f.Folders, str(0))
		f.FolderOrder = without(f.FolderOrder, str(0))
		return true, nil
	case "photosLibraryImport", "photosLibraryImportToAlbum":
		var ids []string
		for _, p := range args[0].([]string) {
			ids = append(ids, f.AddPhoto(filepath.Base(p)))
		}
		if handler == "photosLibraryImportToAlbum" {
			a := f.Albums[str(1)]
			a.Photos = append(a.Photos, ids...)
		}
		return toList(ids), nil
	case "albumExists":
		_, ok := f.Albums[str(0)]
		return ok, nil
	case "albumName":
		return f.Albums[str(0)].Name, nil
	case "albumSetName":
		f.Albums[str(0)].Name = str(1)
		return true, nil
	case "albumParent":
		return idOrZero(f.Albums[str(0)].Parent), nil
	case "albumPhotos":
		return toList(f.Albums[str(0)].Photos), nil
	case "albumAdd":
		a := f.Albums[str(0)]
		ids := args[1].([]string)
		a.Photos = append(a.Photos, ids...)
		return toList(ids), nil
	case "albumCount":
		return int64(len(f.Albums[str(0)].Photos)), nil
	case "folderExists":
		_, ok := f.Folders[str(0)]
		return ok, nil
	case "folderName":
		return f.Folders[str(0)].Name, nil
	case "folderSetName":
		f.Folders[str(0)].Name = str(1)
		return true, nil
	case "folderParent":
		return idOrZero(f.Folders[str(0)].Parent), nil
	case "folderAlbums":
		var out []any
		for _, id := range f.AlbumOrder {
			if f.Albums[id].Parent == str(0) {
				out = append(out, []any{id, f.Albums[id].Name})
			}
		}
		return listOrEmpty(out), nil
	case "folderFolders":
		var out []any
		for _, id := range f.FolderOrder {
			if f.Folders[id].Parent == str(0) {
				out = append(out, []any{id, f.Folders[id].Name})
			}
		}
		return listOrEmpty(out), nil
	case "folderCount":
		n := 0
		for _, a := range f.Albums {
			if a.Parent == str(0) {
				n++
			}
		}
		for _, fo := range f.Folders {
			if fo.Parent == str(0) {
				n++
			}
		}
		return int64(n), nil
	case "photoExists":
		_, ok := f.Photos[str(0)]
		return ok, nil
	case "photoName":
		return f.Photos[str(0)].Name, nil
	case "photoSetName":
		f.Photos[str(0)].Name = str(1)
		return true, nil
	case "photoKeywords":
		return f.Photos[str(0)].Keywords, nil
	case "photoSetKeywords":
		f.Photos[str(0)].Keywords = toList(args[1].([]string))
		return true, nil
	case "photoLocation":
		return f.Photos[str(0)].Location, nil
	case "photoSetLocation":
		loc := []any{applescript.Missing{}, applescript.Missing{}}
		for i, v := range args[1:3] {
			if p := v.(*float64); p != nil {
				loc[i] = *p
			}
		}
		f.Photos[str(0)].Location = loc
		return true, nil
	case "photoDate":
		return f.Photos[str(0)].Date, nil
	case "photoSetDate":
		f.Photos[str(0)].Date = []any{int64(args[1].(int)), int64(args[2].(int)), int64(args[3].(int)), int64(args[4].(int))}
		return true, nil
	case "photoAltitude":
		return f.Photos[str(0)].Altitude, nil
	case "photoAlbums":
		var ids []string
		for _, id := range f.AlbumOrder {
			for _, pid := range f.Albums[id].Photos {
				if pid == str(0) {
					ids = append(ids, id)
					break
				}
			}
		}
		return toList(ids), nil
	case "photoDuplicate":
		return f.AddPhoto(f.Photos[str(0)].Name), nil
	case "photoExport":
		p := f.Photos[str(0)]
		for _, name := range p.Files {
			if err := os.WriteFile(filepath.Join(str(1), name), []byte(name), 0o644); err != nil {
				return nil, err
			}
		}
		return p.Name, nil
	case "photosLibraryFavorites":
		for _, id := range f.AlbumOrder {
			if f.Albums[id].Name == "Favorites" {
				return id, nil
			}
		}
		return f.AddAlbum("Favorites", ""), nil
	case "photosLibraryName":
		return "Photos", nil
	case "photosLibraryIsRunning":
		return f.Ready, nil
	case "photosLibraryIsFrontMost", "photosLibraryIsHidden":
		return false, nil
	case "photoFilename":
		return f.Photos[str(0)].Filename, nil
	case "photoDescription":
		return f.Photos[str(0)].Description, nil
	case "photoSetDescription":
		f.Photos[str(0)].Description = str(1)
		return true, nil
	case "photoFavorite":
		return f.Photos[str(0)].Favorite, nil
	case "photoSetFavorite":
		f.Photos[str(0)].Favorite = args[1].(bool)
		return true, nil
	case "photoWidth":
		return int64(f.Photos[str(0)].Width), nil
	case "photoHeight":
		return int64(f.Photos[str(0)].Height), nil
	case "revealInFinder":
		f.Revealed = append(f.Revealed, args[0].([]string))
		return true, nil
	}
	return true, nil
}

func toList(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

func listOrEmpty(items []any) []any {
	if items == nil {
		return []any{}
	}
	return items
}

func idOrZero(id string) any {
	if id == "" {
		return int64(0)
	}
	return id
}

func without(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
