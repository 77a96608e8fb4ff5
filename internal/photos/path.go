package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"photoscript/internal/textutil"
)

func checkDelimiter(delim string) error {
	if utf8.RuneCountInString(delim) != 1 {
		return fmt.Errorf("%q: %w", delim, ErrInvalidDelimiter)
	}
	return nil
}

// FolderByPath walks folder names from the top level down, e.g.
// ["Travel", "2024"].
func (l *Library) FolderByPath(ctx context.Context, path []string) (*Folder, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	folder, err := l.Folder(ctx, path[0], true)
	if err != nil {
		return nil, err
	}
	for _, name := range path[1:] {
		folder, err = folder.Folder(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	return folder, nil
}

// FolderByPathString splits path on delim and walks it like FolderByPath.
func (l *Library) FolderByPathString(ctx context.Context, path, delim string) (*Folder, error) {
	if err := checkDelimiter(delim); err != nil {
		return nil, err
	}
	return l.FolderByPath(ctx, textutil.SplitPath(path, delim))
}

// AlbumByPath resolves "Folder/Sub/Album". A single element names a top
// level album.
func (l *Library) AlbumByPath(ctx context.Context, path, delim string) (*Album, error) {
	if err := checkDelimiter(delim); err != nil {
		return nil, err
	}
	parts := textutil.SplitPath(path, delim)
	switch len(parts) {
	case 0:
		return nil, ErrEmptyPath
	case 1:
		return l.Album(ctx, parts[0], true)
	}
	folder, err := l.FolderByPath(ctx, parts[:len(parts)-1])
	if err != nil {
		return nil, err
	}
	return folder.Album(ctx, parts[len(parts)-1])
}

// MakeFolders creates any missing folders along path and returns the last
// one, like mkdir -p.
func (l *Library) MakeFolders(ctx context.Context, path []string) (*Folder, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	folder, err := l.Folder(ctx, path[0], true)
	if errors.Is(err, ErrNotFound) {
		folder, err = l.CreateFolder(ctx, path[0], nil)
	}
	if err != nil {
		return nil, err
	}
	for _, name := range path[1:] {
		sub, err := folder.Folder(ctx, name)
		if errors.Is(err, ErrNotFound) {
			sub, err = folder.CreateFolder(ctx, name)
		}
		if err != nil {
			return nil, err
		}
		folder = sub
	}
	return folder, nil
}

// MakeAlbumFolders returns the album named albumName inside path, creating
// the folders and the album when they do not exist.
func (l *Library) MakeAlbumFolders(ctx context.Context, albumName string, path []string) (*Album, error) {
	if strings.TrimSpace(albumName) == "" {
		return nil, ErrEmptyName
	}
	folder, err := l.MakeFolders(ctx, path)
	if err != nil {
		return nil, err
	}
	album, err := folder.Album(ctx, albumName)
	if errors.Is(err, ErrNotFound) {
		return folder.CreateAlbum(ctx, albumName)
	}
	return album, err
}

// ancestry returns the folder ids above parentID, top first, ending with
// parentID itself.
func (l *Library) ancestry(ctx context.Context, parentID string) ([]*Folder, error) {
	var chain []*Folder
	for parentID != "" {
		f := &Folder{lib: l, id: parentID}
		chain = append(chain, f)
		next, err := f.ParentID(ctx)
		if err != nil {
			return nil, err
		}
		parentID = next
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (l *Library) pathString(ctx context.Context, parentID, name, delim string) (string, error) {
	if err := checkDelimiter(delim); err != nil {
		return "", err
	}
	chain, err := l.ancestry(ctx, parentID)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(chain)+1)
	for _, f := range chain {
		n, err := f.Name(ctx)
		if err != nil {
			return "", err
		}
		parts = append(parts, n)
	}
	parts = append(parts, name)
	return strings.Join(parts, delim), nil
}
