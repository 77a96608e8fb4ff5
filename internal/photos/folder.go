package photos

import (
	"context"
	"fmt"
)

// Folder is a handle on a Photos folder.
type Folder struct {
	lib *Library
	id  string
}

func (f *Folder) UUID() string { return BareUUID(f.id) }

func (f *Folder) ID() string { return f.id }

func (f *Folder) Name(ctx context.Context) (string, error) {
	return f.lib.callString(ctx, "folderName", f.id)
}

func (f *Folder) SetName(ctx context.Context, name string) error {
	_, err := f.lib.caller.Call(ctx, "folderSetName", f.id, name)
	return err
}

// ParentID is the id of the containing folder, or "" at the top level.
func (f *Folder) ParentID(ctx context.Context) (string, error) {
	id, _, err := f.lib.callID(ctx, "folderParent", f.id)
	return id, err
}

func (f *Folder) Parent(ctx context.Context) (*Folder, error) {
	id, err := f.ParentID(ctx)
	if err != nil || id == "" {
		return nil, err
	}
	return &Folder{lib: f.lib, id: id}, nil
}

func (f *Folder) PathString(ctx context.Context, delim string) (string, error) {
	if err := checkDelimiter(delim); err != nil {
		return "", err
	}
	name, err := f.Name(ctx)
	if err != nil {
		return "", err
	}
	parentID, err := f.ParentID(ctx)
	if err != nil {
		return "", err
	}
	return f.lib.pathString(ctx, parentID, name, delim)
}

// Path returns the folders containing f, top level first and immediate
// parent last. It is empty for a top level folder.
func (f *Folder) Path(ctx context.Context) ([]*Folder, error) {
	parentID, err := f.ParentID(ctx)
	if err != nil {
		return nil, err
	}
	return f.lib.ancestry(ctx, parentID)
}

// Albums returns the albums directly inside the folder.
func (f *Folder) Albums(ctx context.Context) ([]*Album, error) {
	entries, err := f.lib.callEntries(ctx, "folderAlbums", f.id)
	if err != nil {
		return nil, fmt.Errorf("list albums in folder %s: %w", f.UUID(), err)
	}
	albums := make([]*Album, 0, len(entries))
	for _, e := range entries {
		albums = append(albums, &Album{lib: f.lib, id: e.ID})
	}
	return albums, nil
}

// Album returns the first album directly inside the folder named name.
func (f *Folder) Album(ctx context.Context, name string) (*Album, error) {
	entries, err := f.lib.callEntries(ctx, "folderAlbums", f.id)
	if err != nil {
		return nil, fmt.Errorf("list albums in folder %s: %w", f.UUID(), err)
	}
	if e, ok := findEntry(entries, name); ok {
		return &Album{lib: f.lib, id: e.ID}, nil
	}
	return nil, fmt.Errorf("album %q: %w", name, ErrNotFound)
}

// Subfolders returns the folders directly inside the folder.
func (f *Folder) Subfolders(ctx context.Context) ([]*Folder, error) {
	entries, err := f.lib.callEntries(ctx, "folderFolders", f.id)
	if err != nil {
		return nil, fmt.Errorf("list subfolders of %s: %w", f.UUID(), err)
	}
	folders := make([]*Folder, 0, len(entries))
	for _, e := range entries {
		folders = append(folders, &Folder{lib: f.lib, id: e.ID})
	}
	return folders, nil
}

// Folder returns the first subfolder named name.
func (f *Folder) Folder(ctx context.Context, name string) (*Folder, error) {
	entries, err := f.lib.callEntries(ctx, "folderFolders", f.id)
	if err != nil {
		return nil, fmt.Errorf("list subfolders of %s: %w", f.UUID(), err)
	}
	if e, ok := findEntry(entries, name); ok {
		return &Folder{lib: f.lib, id: e.ID}, nil
	}
	return nil, fmt.Errorf("folder %q: %w", name, ErrNotFound)
}

func (f *Folder) CreateAlbum(ctx context.Context, name string) (*Album, error) {
	return f.lib.CreateAlbum(ctx, name, f)
}

func (f *Folder) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	return f.lib.CreateFolder(ctx, name, f)
}

func (f *Folder) Spotlight(ctx context.Context) error {
	_, err := f.lib.caller.Call(ctx, "folderSpotlight", f.id)
	return err
}

// Count returns the number of albums and subfolders directly inside the folder.
func (f *Folder) Count(ctx context.Context) (int, error) {
	return f.lib.callInt(ctx, "folderCount", f.id)
}
