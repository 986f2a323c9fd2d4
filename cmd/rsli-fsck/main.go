// Command rsli-fsck validates the structural integrity of an RsLi
// archive: that every entry decodes to its declared size, without
// actually keeping the decoded bytes around.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"golang.org/x/xerrors"

	"github.com/rsli/rsli"
)

var (
	allowAOTrailer = flag.Bool("allow_ao_trailer", false, "tolerate an AO trailer chunk after the last payload")
	allowEOFPlus1  = flag.Bool("allow_deflate_eof_plus_one", false, "tolerate the DEFLATE EOF+1 quirk")
	verbose        = flag.Bool("v", false, "print one line per entry, not just failures")
)

func run() error {
	flag.Parse()
	if flag.NArg() != 1 {
		return xerrors.Errorf("usage: rsli-fsck [-v] <archive.rsl>")
	}

	lib, err := rsli.OpenFile(flag.Arg(0), rsli.Config{
		AllowAOTrailer:         *allowAOTrailer,
		AllowDeflateEOFPlusOne: *allowEOFPlus1,
	})
	if err != nil {
		return xerrors.Errorf("open: %w", err)
	}
	defer lib.Close()

	entries := lib.Entries()
	var failures int
	for i, e := range entries {
		data, err := lib.Load(i)
		switch {
		case err != nil:
			failures++
			var ee *rsli.EntryError
			if errors.As(err, &ee) {
				fmt.Printf("FAIL %s: %v\n", e.Name, ee.Err)
			} else {
				fmt.Printf("FAIL %s: %v\n", e.Name, err)
			}
		case uint32(len(data)) != e.UnpackedSize:
			failures++
			fmt.Printf("FAIL %s: got %d bytes, want %d\n", e.Name, len(data), e.UnpackedSize)
		case *verbose:
			fmt.Printf("ok   %s (%d bytes)\n", e.Name, len(data))
		}
	}

	if lib.HasTrailer() && !*allowAOTrailer {
		fmt.Println("note: file extends past the last payload but -allow_ao_trailer is off")
	}

	if failures > 0 {
		return xerrors.Errorf("%d of %d entries failed", failures, len(entries))
	}
	fmt.Printf("%d entries OK\n", len(entries))
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
