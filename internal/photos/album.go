package photos

import (
	"context"
	"fmt"

	"photoscript/internal/logging"
)

// Album is a handle on a Photos album.
type Album struct {
	lib *Library
	id  string
}

// UUID is the album identifier without the scripting suffix.
func (a *Album) UUID() string { return BareUUID(a.id) }

// ID is the identifier Photos uses in scripting calls.
func (a *Album) ID() string { return a.id }

// Name returns the album name, or "" when Photos reports none.
func (a *Album) Name(ctx context.Context) (string, error) {
	return a.lib.callString(ctx, "albumName", a.id)
}

func (a *Album) SetName(ctx context.Context, name string) error {
	_, err := a.lib.caller.Call(ctx, "albumSetName", a.id, name)
	return err
}

// ParentID is the id of the containing folder, or "" at the top level.
func (a *Album) ParentID(ctx context.Context) (string, error) {
	id, _, err := a.lib.callID(ctx, "albumParent", a.id)
	return id, err
}

// Parent returns the containing folder, or nil at the top level.
func (a *Album) Parent(ctx context.Context) (*Folder, error) {
	id, err := a.ParentID(ctx)
	if err != nil || id == "" {
		return nil, err
	}
	return &Folder{lib: a.lib, id: id}, nil
}

// PathString returns the album's location in the library, e.g.
// "Travel/2024/Rome" for delim "/".
func (a *Album) PathString(ctx context.Context, delim string) (string, error) {
	if err := checkDelimiter(delim); err != nil {
		return "", err
	}
	name, err := a.Name(ctx)
	if err != nil {
		return "", err
	}
	parentID, err := a.ParentID(ctx)
	if err != nil {
		return "", err
	}
	return a.lib.pathString(ctx, parentID, name, delim)
}

func (a *Album) photoIDs(ctx context.Context) ([]string, error) {
	ids, err := a.lib.callStrings(ctx, "albumPhotos", a.id)
	if err != nil {
		return nil, fmt.Errorf("list photos in album %s: %w", a.UUID(), err)
	}
	return ids, nil
}

// Photos returns the photos in the album.
func (a *Album) Photos(ctx context.Context) ([]*Photo, error) {
	ids, err := a.photoIDs(ctx)
	if err != nil {
		return nil, err
	}
	return a.lib.photosFromIDs(ids), nil
}

// Add adds library photos to the album and returns the added photos.
func (a *Album) Add(ctx context.Context, photos []*Photo) ([]*Photo, error) {
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.id)
	}
	return a.addIDs(ctx, ids)
}

func (a *Album) addIDs(ctx context.Context, ids []string) ([]*Photo, error) {
	added, err := a.lib.callStrings(ctx, "albumAdd", a.id, ids)
	if err != nil {
		return nil, fmt.Errorf("add photos to album %s: %w", a.UUID(), err)
	}
	return a.lib.photosFromIDs(added), nil
}

// ImportPhotos imports files straight into the album.
func (a *Album) ImportPhotos(ctx context.Context, paths []string, skipDuplicateCheck bool) ([]*Photo, error) {
	return a.lib.ImportPhotos(ctx, paths, a, skipDuplicateCheck)
}

// Export exports every photo in the album to dest.
func (a *Album) Export(ctx context.Context, dest string, opts ExportOptions) ([]string, error) {
	photos, err := a.Photos(ctx)
	if err != nil {
		return nil, err
	}
	reveal := opts.RevealInFinder
	opts.RevealInFinder = false
	var exported []string
	for _, p := range photos {
		paths, err := a.lib.ExportPhoto(ctx, p, dest, opts)
		if err != nil {
			return exported, err
		}
		exported = append(exported, paths...)
	}
	if reveal && len(exported) > 0 {
		if err := a.lib.RevealInFinder(ctx, exported); err != nil {
			return exported, err
		}
	}
	return exported, nil
}

// RemoveByID removes photos from the album. Photos offers no scripting
// command for this, so the album is rebuilt: a temporary album is created
// in the same folder, the remaining photos are added to it, the original is
// deleted and the new album takes its name. The handle is re-pointed at the
// new album.
func (a *Album) RemoveByID(ctx context.Context, photoIDs []string) (*Album, error) {
	drop := make(map[string]struct{}, len(photoIDs))
	for _, id := range photoIDs {
		drop[BareUUID(id)] = struct{}{}
	}

	name, err := a.Name(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := a.Parent(ctx)
	if err != nil {
		return nil, err
	}
	current, err := a.photoIDs(ctx)
	if err != nil {
		return nil, err
	}
	keep := make([]string, 0, len(current))
	for _, id := range current {
		if _, ok := drop[BareUUID(id)]; !ok {
			keep = append(keep, id)
		}
	}

	tempName, err := a.lib.TempAlbumName(ctx)
	if err != nil {
		return nil, err
	}
	replacement, err := a.lib.CreateAlbum(ctx, tempName, parent)
	if err != nil {
		return nil, err
	}
	if len(keep) > 0 {
		if _, err := replacement.addIDs(ctx, keep); err != nil {
			return nil, a.discardReplacement(ctx, replacement, err)
		}
	}
	if err := a.lib.DeleteAlbum(ctx, a); err != nil {
		return nil, a.discardReplacement(ctx, replacement, err)
	}
	if err := replacement.SetName(ctx, name); err != nil {
		return nil, fmt.Errorf("rename album %s: %w", replacement.UUID(), err)
	}

	a.lib.logger.Info("album rebuilt without removed photos",
		logging.String("album", name),
		logging.String("old_uuid", a.UUID()),
		logging.String(logging.FieldUUID, replacement.UUID()),
		logging.Int("removed", len(current)-len(keep)),
	)
	a.id = replacement.id
	return a, nil
}

// discardReplacement deletes a half-built replacement while the original
// album is still intact, and returns cause.
func (a *Album) discardReplacement(ctx context.Context, replacement *Album, cause error) error {
	if err := a.lib.DeleteAlbum(ctx, replacement); err != nil {
		a.lib.logger.Warn("temporary album left behind",
			logging.String(logging.FieldUUID, replacement.UUID()),
			logging.Error(err),
		)
	}
	return cause
}

// Remove removes photos from the album; see RemoveByID.
func (a *Album) Remove(ctx context.Context, photos []*Photo) (*Album, error) {
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.id)
	}
	return a.RemoveByID(ctx, ids)
}

// Spotlight reveals the album in the Photos window.
func (a *Album) Spotlight(ctx context.Context) error {
	_, err := a.lib.caller.Call(ctx, "albumSpotlight", a.id)
	return err
}

// Count returns the number of photos in the album.
func (a *Album) Count(ctx context.Context) (int, error) {
	return a.lib.callInt(ctx, "albumCount", a.id)
}
