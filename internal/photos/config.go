package photos

import "github.com/dustin/go-humanize"

// MemoryCacheConfig holds configuration values for the in-memory image cache
// tier.
//
// It is organized to take advantage of TOML parsing, however this package
// does not handle parsing and has no expectation on how it will be
// initialized.
type MemoryCacheConfig struct {
	UseMemoryCache  bool
	MemoryCacheSize HumanBytes
}

// HumanBytes is a custom type to decode human-readable byte values into an
// integer.
type HumanBytes uint64

// UnmarshalText implements toml.TextUnmarshaler.
func (h *HumanBytes) UnmarshalText(text []byte) error {
	nbytes, err := humanize.ParseBytes(string(text))
	*h = HumanBytes(nbytes)
	return err
}

// String converts the integer back into a human-readable representation.
func (h *HumanBytes) String() string {
	if h == nil {
		return ""
	}
	return humanize.Bytes(uint64(*h))
}
