// Command rsli-ls lists the entries of an RsLi archive.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"golang.org/x/xerrors"

	"github.com/rsli/rsli"
)

var (
	long           = flag.Bool("l", false, "long listing: method, packed/unpacked sizes, offset")
	allowAOTrailer = flag.Bool("allow_ao_trailer", false, "tolerate an AO trailer chunk after the last payload")
)

func methodName(m uint16) string {
	switch m & 0x1E0 {
	case 0x000:
		return "none"
	case 0x020:
		return "xor"
	case 0x040:
		return "lzss"
	case 0x060:
		return "xor+lzss"
	case 0x080:
		return "lzhuf"
	case 0x0A0:
		return "xor+lzhuf"
	case 0x100:
		return "deflate"
	default:
		return "unknown"
	}
}

func run() error {
	flag.Parse()
	if flag.NArg() != 1 {
		return xerrors.Errorf("usage: rsli-ls [-l] <archive.rsl>")
	}

	lib, err := rsli.OpenFile(flag.Arg(0), rsli.Config{AllowAOTrailer: *allowAOTrailer})
	if err != nil {
		return xerrors.Errorf("open: %w", err)
	}
	defer lib.Close()

	entries := lib.Entries()

	// When stdout is not a terminal (e.g. piped into another tool),
	// print one name per line with no column alignment so downstream
	// tools don't have to strip padding.
	if !*long || !isatty.IsTerminal(os.Stdout.Fd()) {
		for _, e := range entries {
			fmt.Println(e.Name)
		}
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tPACKED\tUNPACKED\tOFFSET")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t0x%x\n", e.Name, methodName(e.PackMethod), e.PackedSize, e.UnpackedSize, e.DataOffset)
	}
	return tw.Flush()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
