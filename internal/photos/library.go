package photos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"photoscript/internal/applescript"
	"photoscript/internal/logging"
	"photoscript/internal/textutil"
)

const (
	defaultChunkSize     = 50
	defaultLaunchTimeout = 300 * time.Second
	openLibraryDelay     = 10 * time.Second
	// handlerSlack covers the overshoot of handlers that poll or wait inside
	// Photos before answering.
	handlerSlack = 30 * time.Second
)

// Options configures Open.
type Options struct {
	// LaunchTimeout bounds the wait for Photos to answer scripting calls.
	LaunchTimeout time.Duration
	// ChunkSize is the number of ids fetched per call when walking the library.
	ChunkSize int
	// TempDir is the parent of the private directories Photos exports into.
	// Empty uses the system temp dir.
	TempDir string
	Logger  *slog.Logger
}

// Library is a handle on the running Photos application.
type Library struct {
	caller    Caller
	version   string
	major     int
	chunkSize int
	tempDir   string
	logger    *slog.Logger
	now       func() time.Time
}

// Open waits for Photos to respond and records its version.
func Open(ctx context.Context, caller Caller, opts Options) (*Library, error) {
	if caller == nil {
		return nil, errors.New("photos caller required")
	}
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = defaultLaunchTimeout
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	l := &Library{
		caller:    caller,
		chunkSize: opts.ChunkSize,
		tempDir:   opts.TempDir,
		logger:    logging.NewComponentLogger(opts.Logger, "photos"),
		now:       time.Now,
	}

	// The handler gives up on its own after LaunchTimeout; resetting Photos
	// while it starts would only restart the wait.
	waitCtx := applescript.WithoutReset(applescript.WithCallTimeout(ctx, opts.LaunchTimeout+handlerSlack))
	ready, err := l.callBool(waitCtx, "photosLibraryWaitForPhotos", max(int(opts.LaunchTimeout/time.Second), 1))
	if err != nil {
		return nil, fmt.Errorf("wait for photos: %w", err)
	}
	if !ready {
		return nil, fmt.Errorf("wait for photos: not ready after %s", opts.LaunchTimeout)
	}
	version, err := l.callString(ctx, "photosLibraryVersion")
	if err != nil {
		return nil, fmt.Errorf("photos version: %w", err)
	}
	l.version = version
	l.major = parseMajor(version)
	l.logger.Debug("photos ready", logging.String("version", version))
	return l, nil
}

func parseMajor(version string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

// Version is the Photos version reported when the library was opened.
func (l *Library) Version() string { return l.version }

func (l *Library) Activate(ctx context.Context) error {
	_, err := l.caller.Call(ctx, "photosLibraryActivate")
	return err
}

func (l *Library) Quit(ctx context.Context) error {
	_, err := l.caller.Call(ctx, "photosLibraryQuit")
	return err
}

// OpenLibrary switches Photos to the library bundle at path and waits delay
// for the user to acknowledge the switch in Photos.
func (l *Library) OpenLibrary(ctx context.Context, path string, delay time.Duration) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s does not appear to be a Photos library: %w", path, ErrNotDirectory)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve library path: %w", err)
	}
	if delay <= 0 {
		delay = openLibraryDelay
	}
	if err := l.Activate(ctx); err != nil {
		return fmt.Errorf("activate photos: %w", err)
	}
	script, err := openLibraryScript(abs, delay)
	if err != nil {
		return err
	}
	if _, err := l.caller.Run(ctx, script); err != nil {
		return fmt.Errorf("open library %s: %w", abs, err)
	}
	return nil
}

// Photos refuses `open` from inside a handler library, so the switch runs
// as its own script with a few attempts.
func openLibraryScript(path string, delay time.Duration) (string, error) {
	lit, err := applescript.Encode(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`set tries to 0
repeat while tries < 5
	try
		tell application "Photos"
			activate
			delay 3
			open POSIX file %s
			delay %d
		end tell
		set tries to 5
	on error
		set tries to tries + 1
	end try
end repeat
return true
`, lit, int(delay/time.Second)), nil
}

func (l *Library) Running(ctx context.Context) (bool, error) {
	return l.callBool(ctx, "photosLibraryIsRunning")
}

func (l *Library) Hide(ctx context.Context) error {
	_, err := l.caller.Call(ctx, "photosLibraryHide")
	return err
}

// Hidden reports true when Photos is hidden or not running.
func (l *Library) Hidden(ctx context.Context) (bool, error) {
	return l.callBool(ctx, "photosLibraryIsHidden")
}

func (l *Library) Name(ctx context.Context) (string, error) {
	return l.callString(ctx, "photosLibraryName")
}

func (l *Library) Frontmost(ctx context.Context) (bool, error) {
	return l.callBool(ctx, "photosLibraryIsFrontMost")
}

// Selection returns the photos currently selected in Photos.
func (l *Library) Selection(ctx context.Context) ([]*Photo, error) {
	ids, err := l.callStrings(ctx, "photosLibraryGetSelection")
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return l.photosFromIDs(ids), nil
}

// Favorites returns the built-in Favorites album.
func (l *Library) Favorites(ctx context.Context) (*Album, error) {
	id, err := l.callString(ctx, "photosLibraryFavorites")
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	return &Album{lib: l, id: id}, nil
}

// Count returns the number of media items in the library.
func (l *Library) Count(ctx context.Context) (int, error) {
	return l.callInt(ctx, "photosLibraryCount")
}

// ImportPhotos imports files, into album when it is not nil. Unless
// skipDuplicateCheck is set, Photos blocks on a sheet when a duplicate is
// found until the user answers it.
func (l *Library) ImportPhotos(ctx context.Context, paths []string, album *Album, skipDuplicateCheck bool) ([]*Photo, error) {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = append(abs, a)
	}
	var (
		ids []string
		err error
	)
	if album != nil {
		ids, err = l.callStrings(ctx, "photosLibraryImportToAlbum", abs, album.id, skipDuplicateCheck)
	} else {
		ids, err = l.callStrings(ctx, "photosLibraryImport", abs, skipDuplicateCheck)
	}
	if err != nil {
		return nil, fmt.Errorf("import photos: %w", err)
	}
	l.logger.Info("imported photos",
		logging.Int("requested", len(abs)),
		logging.Int("imported", len(ids)),
	)
	return l.photosFromIDs(ids), nil
}

// AlbumNames lists album names, including albums inside folders unless topLevel.
func (l *Library) AlbumNames(ctx context.Context, topLevel bool) ([]string, error) {
	entries, err := l.callEntries(ctx, "photosLibraryAlbumEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return entryNames(entries), nil
}

// FolderNames lists folder names, including subfolders unless topLevel.
func (l *Library) FolderNames(ctx context.Context, topLevel bool) ([]string, error) {
	entries, err := l.callEntries(ctx, "photosLibraryFolderEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return entryNames(entries), nil
}

// Album returns the first album named name. When several albums share a
// name the first one Photos reports wins.
func (l *Library) Album(ctx context.Context, name string, topLevel bool) (*Album, error) {
	entries, err := l.callEntries(ctx, "photosLibraryAlbumEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("find album %q: %w", name, err)
	}
	if e, ok := findEntry(entries, name); ok {
		return &Album{lib: l, id: e.ID}, nil
	}
	return nil, fmt.Errorf("album %q: %w", name, ErrNotFound)
}

// AlbumByUUID returns the album with the given UUID, with or without suffix.
func (l *Library) AlbumByUUID(ctx context.Context, id string) (*Album, error) {
	scriptID := l.scriptID(id, SuffixAlbum)
	ok, err := l.callBool(ctx, "albumExists", scriptID)
	if err != nil {
		return nil, fmt.Errorf("check album %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("album %s: %w", BareUUID(id), ErrInvalidID)
	}
	return &Album{lib: l, id: scriptID}, nil
}

func (l *Library) Albums(ctx context.Context, topLevel bool) ([]*Album, error) {
	entries, err := l.callEntries(ctx, "photosLibraryAlbumEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	albums := make([]*Album, 0, len(entries))
	for _, e := range entries {
		albums = append(albums, &Album{lib: l, id: e.ID})
	}
	return albums, nil
}

// CreateAlbum creates an album at the top level, or inside folder when it
// is not nil.
func (l *Library) CreateAlbum(ctx context.Context, name string, folder *Folder) (*Album, error) {
	var (
		id  string
		ok  bool
		err error
	)
	if folder == nil {
		id, ok, err = l.callID(ctx, "photosLibraryCreateAlbum", name)
	} else {
		id, ok, err = l.callID(ctx, "photosLibraryCreateAlbumAtFolder", name, folder.id)
	}
	if err != nil {
		return nil, fmt.Errorf("create album %q: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("create album %q: %w", name, ErrCreateFailed)
	}
	l.logger.Debug("album created", logging.String(logging.FieldUUID, id), logging.String("name", name))
	return &Album{lib: l, id: id}, nil
}

// DeleteAlbum deletes the album but not the photos in it.
func (l *Library) DeleteAlbum(ctx context.Context, album *Album) error {
	if _, err := l.caller.Call(ctx, "photosLibraryDeleteAlbum", album.id); err != nil {
		return fmt.Errorf("delete album %s: %w", album.UUID(), err)
	}
	return nil
}

// Folder returns the first folder named name.
func (l *Library) Folder(ctx context.Context, name string, topLevel bool) (*Folder, error) {
	entries, err := l.callEntries(ctx, "photosLibraryFolderEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("find folder %q: %w", name, err)
	}
	if e, ok := findEntry(entries, name); ok {
		return &Folder{lib: l, id: e.ID}, nil
	}
	return nil, fmt.Errorf("folder %q: %w", name, ErrNotFound)
}

// FolderByUUID returns the folder with the given UUID, with or without suffix.
func (l *Library) FolderByUUID(ctx context.Context, id string) (*Folder, error) {
	scriptID := l.scriptID(id, SuffixFolder)
	ok, err := l.callBool(ctx, "folderExists", scriptID)
	if err != nil {
		return nil, fmt.Errorf("check folder %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", BareUUID(id), ErrInvalidID)
	}
	return &Folder{lib: l, id: scriptID}, nil
}

func (l *Library) Folders(ctx context.Context, topLevel bool) ([]*Folder, error) {
	entries, err := l.callEntries(ctx, "photosLibraryFolderEntries", topLevel)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	folders := make([]*Folder, 0, len(entries))
	for _, e := range entries {
		folders = append(folders, &Folder{lib: l, id: e.ID})
	}
	return folders, nil
}

// CreateFolder creates a folder at the top level, or inside parent when it
// is not nil.
func (l *Library) CreateFolder(ctx context.Context, name string, parent *Folder) (*Folder, error) {
	var (
		id  string
		ok  bool
		err error
	)
	if parent == nil {
		id, ok, err = l.callID(ctx, "photosLibraryCreateFolder", name)
	} else {
		id, ok, err = l.callID(ctx, "photosLibraryCreateFolderAtFolder", name, parent.id)
	}
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("create folder %q: %w", name, ErrCreateFailed)
	}
	l.logger.Debug("folder created", logging.String(logging.FieldUUID, id), logging.String("name", name))
	return &Folder{lib: l, id: id}, nil
}

func (l *Library) DeleteFolder(ctx context.Context, folder *Folder) error {
	if _, err := l.caller.Call(ctx, "photosLibraryDeleteFolder", folder.id); err != nil {
		return fmt.Errorf("delete folder %s: %w", folder.UUID(), err)
	}
	return nil
}

// PhotoByUUID returns the photo with the given UUID, with or without suffix.
func (l *Library) PhotoByUUID(ctx context.Context, id string) (*Photo, error) {
	scriptID := l.scriptID(id, SuffixPhoto)
	ok, err := l.callBool(ctx, "photoExists", scriptID)
	if err != nil {
		return nil, fmt.Errorf("check photo %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("photo %s: %w", BareUUID(id), ErrInvalidID)
	}
	return &Photo{lib: l, id: scriptID}, nil
}

// TempAlbumName returns a name no album in the library currently uses.
func (l *Library) TempAlbumName(ctx context.Context) (string, error) {
	for {
		random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
		name := "photoscript_" + l.now().Format("20060102150405") + "_" + random
		_, err := l.Album(ctx, name, false)
		if errors.Is(err, ErrNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (l *Library) photosFromIDs(ids []string) []*Photo {
	out := make([]*Photo, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Photo{lib: l, id: id})
	}
	return out
}

func entryNames(entries []entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func findEntry(entries []entry, name string) (entry, bool) {
	for _, e := range entries {
		if textutil.SameName(e.Name, name) {
			return e, true
		}
	}
	return entry{}, false
}
