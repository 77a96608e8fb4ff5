package photos

import (
	"context"
	"fmt"
	"time"

	"photoscript/internal/applescript"
)

// Photo is a handle on a Photos media item.
type Photo struct {
	lib *Library
	id  string
}

func (p *Photo) UUID() string { return BareUUID(p.id) }

func (p *Photo) ID() string { return p.id }

// Name is the photo title, "" when unset.
func (p *Photo) Name(ctx context.Context) (string, error) {
	return p.lib.callString(ctx, "photoName", p.id)
}

func (p *Photo) SetName(ctx context.Context, name string) error {
	_, err := p.lib.caller.Call(ctx, "photoSetName", p.id, name)
	return err
}

func (p *Photo) Description(ctx context.Context) (string, error) {
	return p.lib.callString(ctx, "photoDescription", p.id)
}

func (p *Photo) SetDescription(ctx context.Context, description string) error {
	_, err := p.lib.caller.Call(ctx, "photoSetDescription", p.id, description)
	return err
}

// Keywords returns the photo keywords. Photos answers a bare string for a
// single keyword and missing value for none; both are returned as a slice.
func (p *Photo) Keywords(ctx context.Context) ([]string, error) {
	keywords, err := p.lib.callStrings(ctx, "photoKeywords", p.id)
	if err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}

// SetKeywords replaces the photo keywords. nil clears them.
func (p *Photo) SetKeywords(ctx context.Context, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	_, err := p.lib.caller.Call(ctx, "photoSetKeywords", p.id, keywords)
	return err
}

func (p *Photo) Favorite(ctx context.Context) (bool, error) {
	return p.lib.callBool(ctx, "photoFavorite", p.id)
}

func (p *Photo) SetFavorite(ctx context.Context, favorite bool) error {
	_, err := p.lib.caller.Call(ctx, "photoSetFavorite", p.id, favorite)
	return err
}

// Height in pixels.
func (p *Photo) Height(ctx context.Context) (int, error) {
	return p.lib.callInt(ctx, "photoHeight", p.id)
}

// Width in pixels.
func (p *Photo) Width(ctx context.Context) (int, error) {
	return p.lib.callInt(ctx, "photoWidth", p.id)
}

// Altitude returns the GPS altitude in meters, or nil when the photo has none.
func (p *Photo) Altitude(ctx context.Context) (*float64, error) {
	v, err := p.lib.caller.Call(ctx, "photoAltitude", p.id)
	if err != nil {
		return nil, err
	}
	f, ok, err := applescript.AsFloat(v)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

// Location is a GPS coordinate. A nil field is unset.
type Location struct {
	Latitude  *float64
	Longitude *float64
}

// Valid reports whether the set coordinates are in range.
func (l Location) Valid() bool {
	if l.Latitude != nil && (*l.Latitude < -90 || *l.Latitude > 90) {
		return false
	}
	if l.Longitude != nil && (*l.Longitude < -180 || *l.Longitude > 180) {
		return false
	}
	return true
}

func (p *Photo) Location(ctx context.Context) (Location, error) {
	v, err := p.lib.caller.Call(ctx, "photoLocation", p.id)
	if err != nil {
		return Location{}, err
	}
	items, err := applescript.AsList(v)
	if err != nil {
		return Location{}, err
	}
	if len(items) == 0 {
		return Location{}, nil
	}
	if len(items) != 2 {
		return Location{}, fmt.Errorf("photo location: expected 2 values, got %d", len(items))
	}
	var loc Location
	if lat, ok, err := applescript.AsFloat(items[0]); err != nil {
		return Location{}, err
	} else if ok {
		loc.Latitude = &lat
	}
	if lon, ok, err := applescript.AsFloat(items[1]); err != nil {
		return Location{}, err
	} else if ok {
		loc.Longitude = &lon
	}
	return loc, nil
}

// SetLocation sets the GPS coordinate. nil clears it.
func (p *Photo) SetLocation(ctx context.Context, loc *Location) error {
	var lat, lon *float64
	if loc != nil {
		if !loc.Valid() {
			return fmt.Errorf("latitude must be in -90..90 and longitude in -180..180: %w", ErrInvalidLocation)
		}
		lat, lon = loc.Latitude, loc.Longitude
	}
	_, err := p.lib.caller.Call(ctx, "photoSetLocation", p.id, lat, lon)
	return err
}

// Date returns the photo date as a local wall-clock time. Photos stores no
// zone, so the result is in time.Local. The zero time means no date.
func (p *Photo) Date(ctx context.Context) (time.Time, error) {
	v, err := p.lib.caller.Call(ctx, "photoDate", p.id)
	if err != nil {
		return time.Time{}, err
	}
	if applescript.IsMissing(v) {
		return time.Time{}, nil
	}
	items, err := applescript.AsList(v)
	if err != nil {
		return time.Time{}, err
	}
	if len(items) != 4 {
		return time.Time{}, fmt.Errorf("photo date: expected 4 components, got %d", len(items))
	}
	parts := make([]int, 4)
	for i, item := range items {
		if parts[i], err = applescript.AsInt(item); err != nil {
			return time.Time{}, fmt.Errorf("photo date: %w", err)
		}
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, parts[3], 0, time.Local), nil
}

// SetDate sets the photo date from t's wall-clock fields, ignoring its zone.
func (p *Photo) SetDate(ctx context.Context, t time.Time) error {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	_, err := p.lib.caller.Call(ctx, "photoSetDate", p.id, t.Year(), int(t.Month()), t.Day(), secs)
	return err
}

// Filename is the name of the original file.
func (p *Photo) Filename(ctx context.Context) (string, error) {
	return p.lib.callString(ctx, "photoFilename", p.id)
}

// Albums returns the albums that contain the photo.
func (p *Photo) Albums(ctx context.Context) ([]*Album, error) {
	ids, err := p.lib.callStrings(ctx, "photoAlbums", p.id)
	if err != nil {
		return nil, err
	}
	albums := make([]*Album, 0, len(ids))
	for _, id := range ids {
		albums = append(albums, &Album{lib: p.lib, id: id})
	}
	return albums, nil
}

// Export exports the photo to dest; see Library.ExportPhoto.
func (p *Photo) Export(ctx context.Context, dest string, opts ExportOptions) ([]string, error) {
	return p.lib.ExportPhoto(ctx, p, dest, opts)
}

// Duplicate duplicates the photo in the library and returns the copy.
func (p *Photo) Duplicate(ctx context.Context) (*Photo, error) {
	id, err := p.lib.callString(ctx, "photoDuplicate", p.id)
	if err != nil {
		return nil, fmt.Errorf("duplicate photo %s: %w", p.UUID(), err)
	}
	return &Photo{lib: p.lib, id: id}, nil
}

func (p *Photo) Spotlight(ctx context.Context) error {
	_, err := p.lib.caller.Call(ctx, "photoSpotlight", p.id)
	return err
}
