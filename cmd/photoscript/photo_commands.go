package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"photoscript/internal/photos"
)

type photoRow struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

type photoDetail struct {
	UUID        string    `json:"uuid" yaml:"uuid"`
	Name        string    `json:"name" yaml:"name"`
	Filename    string    `json:"filename" yaml:"filename"`
	Description string    `json:"description" yaml:"description"`
	Keywords    []string  `json:"keywords" yaml:"keywords"`
	Favorite    bool      `json:"favorite" yaml:"favorite"`
	Date        time.Time `json:"date" yaml:"date"`
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	Latitude    *float64  `json:"latitude" yaml:"latitude"`
	Longitude   *float64  `json:"longitude" yaml:"longitude"`
	Altitude    *float64  `json:"altitude" yaml:"altitude"`
	Albums      []string  `json:"albums" yaml:"albums"`
}

func renderPhotoList(c context.Context, ctx *commandContext, cmd *cobra.Command, items []*photos.Photo) error {
	rows := make([]photoRow, 0, len(items))
	for _, p := range items {
		name, err := p.Name(c)
		if err != nil {
			return err
		}
		rows = append(rows, photoRow{UUID: p.UUID(), Name: name})
	}
	return ctx.render(cmd, rows, func() string {
		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			table = append(table, []string{r.UUID, r.Name})
		}
		return renderTable([]string{"UUID", "Name"}, table, nil)
	})
}

func newPhotosCommand(ctx *commandContext) *cobra.Command {
	var (
		search string
		uuids  []string
		span   []int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List photos in the library",
		Long: "List photos in the library. Without flags every photo is listed; " +
			"--search, --uuid and --range are mutually exclusive.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				query := photos.PhotoQuery{Search: search, UUIDs: uuids, Range: span}
				var items []*photos.Photo
				for p, err := range lib.Photos(c, query) {
					if err != nil {
						return err
					}
					items = append(items, p)
					if limit > 0 && len(items) >= limit {
						break
					}
				}
				return renderPhotoList(c, ctx, cmd, items)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Text for the Photos search field")
	cmd.Flags().StringSliceVar(&uuids, "uuid", nil, "Photo UUIDs to list")
	cmd.Flags().IntSliceVar(&span, "range", nil, "Slice of the library: N or START,STOP")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many photos (0 lists all)")
	return cmd
}

func newSelectionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "selection",
		Short: "List the photos selected in Photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				items, err := lib.Selection(c)
				if err != nil {
					return err
				}
				return renderPhotoList(c, ctx, cmd, items)
			})
		},
	}
}

func newFavoritesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List photos in the Favorites album",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.Favorites(c)
				if err != nil {
					return err
				}
				items, err := album.Photos(c)
				if err != nil {
					return err
				}
				return renderPhotoList(c, ctx, cmd, items)
			})
		},
	}
}

func newPhotoCommand(ctx *commandContext) *cobra.Command {
	photoCmd := &cobra.Command{
		Use:   "photo",
		Short: "Inspect or edit a single photo by UUID",
	}
	photoCmd.AddCommand(newPhotoShowCommand(ctx))
	photoCmd.AddCommand(newPhotoSetCommand(ctx))
	photoCmd.AddCommand(newPhotoExportCommand(ctx))
	photoCmd.AddCommand(&cobra.Command{
		Use:   "duplicate <uuid>",
		Short: "Duplicate a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				photo, err := lib.PhotoByUUID(c, args[0])
				if err != nil {
					return err
				}
				dup, err := photo.Duplicate(c)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dup.UUID())
				return nil
			})
		},
	})
	photoCmd.AddCommand(&cobra.Command{
		Use:   "spotlight <uuid>",
		Short: "Reveal a photo in the Photos window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				photo, err := lib.PhotoByUUID(c, args[0])
				if err != nil {
					return err
				}
				return photo.Spotlight(c)
			})
		},
	})
	return photoCmd
}

func newPhotoShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show photo properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				photo, err := lib.PhotoByUUID(c, args[0])
				if err != nil {
					return err
				}
				detail, err := describePhoto(c, photo)
				if err != nil {
					return err
				}
				return ctx.render(cmd, detail, func() string { return renderPhotoDetail(detail) })
			})
		},
	}
}

func describePhoto(ctx context.Context, photo *photos.Photo) (photoDetail, error) {
	d := photoDetail{UUID: photo.UUID()}
	var err error
	if d.Name, err = photo.Name(ctx); err != nil {
		return d, err
	}
	if d.Filename, err = photo.Filename(ctx); err != nil {
		return d, err
	}
	if d.Description, err = photo.Description(ctx); err != nil {
		return d, err
	}
	if d.Keywords, err = photo.Keywords(ctx); err != nil {
		return d, err
	}
	if d.Favorite, err = photo.Favorite(ctx); err != nil {
		return d, err
	}
	if d.Date, err = photo.Date(ctx); err != nil {
		return d, err
	}
	if d.Width, err = photo.Width(ctx); err != nil {
		return d, err
	}
	if d.Height, err = photo.Height(ctx); err != nil {
		return d, err
	}
	loc, err := photo.Location(ctx)
	if err != nil {
		return d, err
	}
	d.Latitude, d.Longitude = loc.Latitude, loc.Longitude
	if d.Altitude, err = photo.Altitude(ctx); err != nil {
		return d, err
	}
	albums, err := photo.Albums(ctx)
	if err != nil {
		return d, err
	}
	d.Albums = make([]string, 0, len(albums))
	for _, album := range albums {
		path, err := album.PathString(ctx, "/")
		if err != nil {
			return d, err
		}
		d.Albums = append(d.Albums, path)
	}
	return d, nil
}

func renderPhotoDetail(d photoDetail) string {
	date := ""
	if !d.Date.IsZero() {
		date = d.Date.Format(time.DateTime)
	}
	return renderFields([]field{
		{"uuid", d.UUID},
		{"name", d.Name},
		{"filename", d.Filename},
		{"description", d.Description},
		{"keywords", strings.Join(d.Keywords, ", ")},
		{"favorite", yesNo(d.Favorite)},
		{"date", date},
		{"size", fmt.Sprintf("%dx%d", d.Width, d.Height)},
		{"location", formatCoordinates(d.Latitude, d.Longitude)},
		{"altitude", formatOptional(d.Altitude)},
		{"albums", strings.Join(d.Albums, ", ")},
	})
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatCoordinates(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return formatOptional(lat) + ", " + formatOptional(lon)
}

func newPhotoSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name          string
		description   string
		keywords      []string
		favorite      bool
		location      []float64
		clearLocation bool
		date          string
	)
	cmd := &cobra.Command{
		Use:   "set <uuid>",
		Short: "Change photo properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("location") && clearLocation {
				return errors.New("--location and --clear-location are mutually exclusive")
			}
			var loc *photos.Location
			if flags.Changed("location") {
				if len(location) != 2 {
					return errors.New("--location takes LAT,LON")
				}
				loc = &photos.Location{Latitude: &location[0], Longitude: &location[1]}
				if !loc.Valid() {
					return fmt.Errorf("location %v: %w", location, photos.ErrInvalidLocation)
				}
			}
			var when time.Time
			if flags.Changed("date") {
				var err error
				if when, err = parseDate(date); err != nil {
					return err
				}
			}

			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				photo, err := lib.PhotoByUUID(c, args[0])
				if err != nil {
					return err
				}
				var changed []string
				if flags.Changed("name") {
					if err := photo.SetName(c, name); err != nil {
						return err
					}
					changed = append(changed, "name")
				}
				if flags.Changed("description") {
					if err := photo.SetDescription(c, description); err != nil {
						return err
					}
					changed = append(changed, "description")
				}
				if flags.Changed("keywords") {
					if err := photo.SetKeywords(c, keywords); err != nil {
						return err
					}
					changed = append(changed, "keywords")
				}
				if flags.Changed("favorite") {
					if err := photo.SetFavorite(c, favorite); err != nil {
						return err
					}
					changed = append(changed, "favorite")
				}
				if loc != nil || clearLocation {
					if err := photo.SetLocation(c, loc); err != nil {
						return err
					}
					changed = append(changed, "location")
				}
				if flags.Changed("date") {
					if err := photo.SetDate(c, when); err != nil {
						return err
					}
					changed = append(changed, "date")
				}
				if len(changed) == 0 {
					return errors.New("nothing to change; pass at least one property flag")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", photo.UUID(), strings.Join(changed, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "Keywords; an empty value clears them")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark or unmark as favorite")
	cmd.Flags().Float64SliceVar(&location, "location", nil, "Latitude and longitude: LAT,LON")
	cmd.Flags().BoolVar(&clearLocation, "clear-location", false, "Remove the location")
	cmd.Flags().StringVar(&date, "date", "", "Capture date, RFC 3339 or YYYY-MM-DD HH:MM:SS in local time")
	return cmd
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func newPhotoExportCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export <uuid>",
		Short: "Export a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				photo, err := lib.PhotoByUUID(c, args[0])
				if err != nil {
					return err
				}
				opts, dest, err := ctx.exportOptions(cmd, flags)
				if err != nil {
					return err
				}
				paths, err := photo.Export(c, dest, opts)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
