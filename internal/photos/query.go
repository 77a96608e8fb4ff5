package photos

import (
	"context"
	"fmt"
	"iter"
)

// PhotoQuery selects photos. At most one field may be set; the zero value
// selects every photo in the library.
type PhotoQuery struct {
	// Search is passed to the Photos search field.
	Search string
	// UUIDs are validated one by one as they are yielded.
	UUIDs []string
	// Range works like a half-open slice over the library: [n] is the first
	// n photos and [start, stop] is start..stop-1.
	Range []int
}

func (q PhotoQuery) selectors() int {
	n := 0
	if q.Search != "" {
		n++
	}
	if len(q.UUIDs) > 0 {
		n++
	}
	if len(q.Range) > 0 {
		n++
	}
	return n
}

// Photos yields the photos selected by q. Walks over the whole library or a
// range fetch ids chunkSize at a time.
func (l *Library) Photos(ctx context.Context, q PhotoQuery) iter.Seq2[*Photo, error] {
	return func(yield func(*Photo, error) bool) {
		if q.selectors() > 1 {
			yield(nil, ErrConflictingQuery)
			return
		}
		switch {
		case q.Search != "":
			ids, err := l.callStrings(ctx, "photosLibrarySearchPhotos", q.Search)
			if err != nil {
				yield(nil, fmt.Errorf("search photos: %w", err))
				return
			}
			for _, p := range l.photosFromIDs(ids) {
				if !yield(p, nil) {
					return
				}
			}
		case len(q.UUIDs) > 0:
			for _, id := range q.UUIDs {
				if !yield(l.PhotoByUUID(ctx, id)) {
					return
				}
			}
		case len(q.Range) > 0:
			count, err := l.Count(ctx)
			if err != nil {
				yield(nil, fmt.Errorf("count photos: %w", err))
				return
			}
			start, stop, err := resolveRange(q.Range, count)
			if err != nil {
				yield(nil, err)
				return
			}
			l.walk(ctx, start+1, stop, yield)
		default:
			count, err := l.Count(ctx)
			if err != nil {
				yield(nil, fmt.Errorf("count photos: %w", err))
				return
			}
			l.walk(ctx, 1, count, yield)
		}
	}
}

func resolveRange(r []int, count int) (int, int, error) {
	var start, stop int
	switch len(r) {
	case 1:
		stop = r[0]
	case 2:
		start, stop = r[0], r[1]
	default:
		return 0, 0, fmt.Errorf("range must have 1 or 2 elements, got %d: %w", len(r), ErrInvalidRange)
	}
	if start > stop {
		return 0, 0, fmt.Errorf("start %d after stop %d: %w", start, stop, ErrInvalidRange)
	}
	if start < 0 || start > count-1 || stop < 1 || stop > count {
		return 0, 0, fmt.Errorf("valid range is start 0 to %d, stop 1 to %d: %w", count-1, count, ErrInvalidRange)
	}
	return start, stop, nil
}

// walk yields the photos at 1-based inclusive positions first..last.
func (l *Library) walk(ctx context.Context, first, last int, yield func(*Photo, error) bool) {
	for lo := first; lo <= last; lo += l.chunkSize {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		hi := min(lo+l.chunkSize-1, last)
		ids, err := l.callStrings(ctx, "photosLibraryGetPhotoByRange", lo, hi)
		if err != nil {
			yield(nil, fmt.Errorf("get photos %d-%d: %w", lo, hi, err))
			return
		}
		for _, p := range l.photosFromIDs(ids) {
			if !yield(p, nil) {
				return
			}
		}
	}
}
