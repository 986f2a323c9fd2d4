// Command rsli-extract extracts entries from an RsLi archive to disk, or
// bundles them into a single tar.gz or cpio archive.
package main

import (
	"archive/tar"
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	cpio "github.com/cavaliercoder/go-cpio"
	"github.com/google/renameio"
	"github.com/klauspost/pgzip"
	"github.com/orcaman/writerseeker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/rsli/rsli"
	"github.com/rsli/rsli/internal/cliutil"
)

var (
	outDir         = flag.String("out", ".", "directory to extract entries into")
	bundle         = flag.String("bundle", "", `if set, write all entries into a single archive instead: "tar.gz" or "cpio"`)
	bundlePath     = flag.String("bundle_out", "bundle", "path to write -bundle to")
	allowAOTrailer = flag.Bool("allow_ao_trailer", false, "tolerate an AO trailer chunk after the last payload")
	allowEOFPlus1  = flag.Bool("allow_deflate_eof_plus_one", false, "tolerate the DEFLATE EOF+1 quirk")
)

func extractToDir(ctx context.Context, lib *rsli.Library) error {
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	entries := lib.Entries()

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range entries {
		i := i // copy
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			data, err := lib.Load(i)
			if err != nil {
				return xerrors.Errorf("load %s: %w", entries[i].Name, err)
			}
			dest := filepath.Join(*outDir, entries[i].Name)
			if err := renameio.WriteFile(dest, data, 0644); err != nil {
				return xerrors.Errorf("write %s: %w", dest, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

func extractBundle(lib *rsli.Library) error {
	var ws writerseeker.WriterSeeker

	switch *bundle {
	case "tar.gz":
		gz := pgzip.NewWriter(&ws)
		tw := tar.NewWriter(gz)
		for i, e := range lib.Entries() {
			data, err := lib.Load(i)
			if err != nil {
				return xerrors.Errorf("load %s: %w", e.Name, err)
			}
			hdr := &tar.Header{Name: e.Name, Mode: 0644, Size: int64(len(data))}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if _, err := tw.Write(data); err != nil {
				return err
			}
		}
		if err := tw.Close(); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}

	case "cpio":
		cw := cpio.NewWriter(&ws)
		for i, e := range lib.Entries() {
			data, err := lib.Load(i)
			if err != nil {
				return xerrors.Errorf("load %s: %w", e.Name, err)
			}
			hdr := &cpio.Header{
				Name: e.Name,
				Mode: 0644,
				Size: int64(len(data)),
			}
			if err := cw.WriteHeader(hdr); err != nil {
				return err
			}
			if _, err := cw.Write(data); err != nil {
				return err
			}
		}
		if err := cw.Close(); err != nil {
			return err
		}

	default:
		return xerrors.Errorf("unknown -bundle format %q, want tar.gz or cpio", *bundle)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(ws.Reader()); err != nil {
		return err
	}
	return renameio.WriteFile(*bundlePath, buf.Bytes(), 0644)
}

func run() error {
	flag.Parse()
	if flag.NArg() != 1 {
		return xerrors.Errorf("usage: rsli-extract [-out dir | -bundle tar.gz|cpio] <archive.rsl>")
	}

	lib, err := rsli.OpenFile(flag.Arg(0), rsli.Config{
		AllowAOTrailer:         *allowAOTrailer,
		AllowDeflateEOFPlusOne: *allowEOFPlus1,
	})
	if err != nil {
		return xerrors.Errorf("open: %w", err)
	}
	defer lib.Close()

	if *bundle != "" {
		return extractBundle(lib)
	}

	ctx, cancel := cliutil.InterruptibleContext()
	defer cancel()
	return extractToDir(ctx, lib)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
