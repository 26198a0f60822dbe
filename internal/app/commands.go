package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"photolib/internal/imaging"
	"photolib/internal/photos"
)

// command is one CLI subcommand.
type command struct {
	short string
	run   func(ctx context.Context, client *photos.Client, args []string) error
}

var commands = map[string]command{
	"albums": {"list all albums", cmdAlbums},
	"create": {"create a new album", cmdCreate},
	"import": {"save an image file into an album", cmdImport},
	"export": {"write an album's images to a directory", cmdExport},
	"status": {"show client diagnostics", cmdStatus},
}

// commandOrder fixes the usage listing order.
var commandOrder = []string{"albums", "create", "import", "export", "status"}

func cmdAlbums(ctx context.Context, client *photos.Client, args []string) error {
	fs := flag.NewFlagSet("albums", flag.ContinueOnError)
	userOnly := fs.Bool("user", false, "list only user-created albums")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		albums []photos.Album
		err    error
	)
	if *userOnly {
		albums, err = client.UserAlbums(ctx)
	} else {
		albums, err = client.Albums(ctx)
	}
	if err != nil {
		return err
	}
	for _, album := range albums {
		fmt.Printf("%-12s %-30s %d\n", album.Kind, album.Title, album.AssetCount)
	}
	return nil
}

func cmdCreate(ctx context.Context, client *photos.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: photolib create <name>")
	}
	album, err := client.CreateAlbum(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("created album %q (%s)\n", album.Title, album.ID)
	return nil
}

func cmdImport(ctx context.Context, client *photos.Client, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	albumName := fs.String("album", "", "target album name (created if absent)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *albumName == "" {
		return errors.New("usage: photolib import -album <name> <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	img, mimeType, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	slog.Debug("decoded image file",
		"path", fs.Arg(0),
		"type", mimeType,
		"size", humanize.Bytes(uint64(len(data))),
	)

	ok, err := client.SaveImage(ctx, img, *albumName)
	if !ok {
		// The flag is authoritative; err may be nil even on failure.
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		return errors.New("save image failed")
	}
	fmt.Printf("saved %s into %q\n", filepath.Base(fs.Arg(0)), *albumName)
	return nil
}

func cmdExport(ctx context.Context, client *photos.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outDir := fs.String("o", ".", "output directory")
	count := fs.Int("count", 0, "maximum number of images (0 = all)")
	oldest := fs.Bool("oldest", false, "oldest first instead of newest first")
	async := fs.Bool("async", false, "write images as they are decoded instead of all at once")
	width := fs.Int("width", 0, "target width (0 = native)")
	height := fs.Int("height", 0, "target height (0 = native)")
	fill := fs.Bool("fill", false, "crop to fill the target size instead of fitting inside it")
	fast := fs.Bool("fast", false, "favor decode speed over quality")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: photolib export [flags] <album>")
	}

	album, err := findAlbum(ctx, client, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}

	imgOpts := photos.ImageOptions{
		ContentMode:  photos.ContentModeFit,
		Quality:      photos.QualityHigh,
		AllowNetwork: true,
		Synchronous:  !*async,
	}
	if *fill {
		imgOpts.ContentMode = photos.ContentModeFill
	}
	if *fast {
		imgOpts.Quality = photos.QualityFast
	}
	fetchOpts := photos.FetchOptions{
		NewestFirst: !*oldest,
		Count:       *count,
		Size:        photos.Size{Width: *width, Height: *height},
	}

	written := 0
	for result := range client.Images(ctx, *album, imgOpts, fetchOpts) {
		if result.Failed() {
			return fmt.Errorf("failed to fetch images from album %q", album.Title)
		}
		if items, ok := result.Items(); ok {
			for _, decoded := range items {
				if err := writeImage(*outDir, decoded); err != nil {
					return err
				}
				written++
			}
		}
		if item, ok := result.Item(); ok {
			if err := writeImage(*outDir, item); err != nil {
				return err
			}
			written++
		}
	}
	fmt.Printf("wrote %d images to %s\n", written, *outDir)
	return nil
}

// findAlbum resolves an album by exact title without creating it.
func findAlbum(ctx context.Context, client *photos.Client, title string) (*photos.Album, error) {
	albums, err := client.Albums(ctx)
	if err != nil {
		return nil, err
	}
	for _, album := range albums {
		if album.Title == title {
			return &album, nil
		}
	}
	return nil, fmt.Errorf("album %q not found", title)
}

func writeImage(dir string, decoded photos.DecodedImage) error {
	data, err := imaging.Encode(decoded.Image, imaging.MIMETypePNG)
	if err != nil {
		return err
	}
	name := string(decoded.Asset.ID) + ".png"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return err
	}
	slog.Info("wrote image",
		"name", name,
		"size", humanize.Bytes(uint64(len(data))),
	)
	return nil
}

func cmdStatus(ctx context.Context, client *photos.Client, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	diag := client.Diagnostics()
	fmt.Printf("library configured:      %t\n", diag.LibraryConfigured)
	fmt.Printf("memory cache configured: %t\n", diag.MemoryCacheConfigured)
	fmt.Printf("image store configured:  %t\n", diag.ImageStoreConfigured)
	if diag.LibraryConnectedError != nil {
		fmt.Printf("library connectivity:    %v\n", diag.LibraryConnectedError)
	} else {
		fmt.Printf("library connectivity:    ok\n")
	}
	return nil
}
