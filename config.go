package rsli

// Config holds the open-time quirk toggles (spec.md §3, "Open
// configuration"). The core never guesses at these: callers must state
// them explicitly so archives authored by different engine variants
// don't silently drift in behavior.
type Config struct {
	// AllowAOTrailer permits an out-of-directory AO trailer chunk to
	// follow the last payload. When false, any bytes past the last
	// entry's declared data_offset+packed_size are treated as
	// unaccounted-for file content rather than a known accommodation;
	// Open still succeeds (the core never mistakes a trailer for
	// directory corruption), but no trailer metadata is surfaced.
	AllowAOTrailer bool

	// AllowDeflateEOFPlusOne tolerates a raw-DEFLATE entry whose final
	// block's bit-level terminator falls one byte short of the entry's
	// declared packed_size (the source engine's bit consumer discards
	// one byte it never needed). When false, any entry exhibiting the
	// quirk fails with ErrDeflateEOFPlusOneQuirkRejected.
	AllowDeflateEOFPlusOne bool
}

// DefaultConfig returns the conservative configuration: no quirk
// accommodations enabled.
func DefaultConfig() Config {
	return Config{}
}
