package primitive

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/errs"
)

// stringPad is the byte EVIO uses to pad a packed string array to a
// 4-byte boundary (spec.md §3 "Strings"): 0x04, distinct from the NUL
// terminator between strings.
const stringPad = 0x04

// PackStrings encodes a slice of strings as NUL-terminated entries
// concatenated together, padded with 0x04 bytes so the result is
// 4-byte aligned and always ends with at least one 0x04.
func PackStrings(strs []string) []byte {
	n := 0
	for _, s := range strs {
		n += len(s) + 1 // + NUL terminator
	}

	pad := dtype.Pad(n)
	if pad == 0 {
		// Spec requires at least one trailing 0x04 even when already aligned.
		pad = 4
	}

	out := make([]byte, 0, n+pad)
	for _, s := range strs {
		out = append(out, s...)
		out = append(out, 0x00)
	}
	for i := 0; i < pad; i++ {
		out = append(out, stringPad)
	}

	return out
}

// ParseStrings decodes a packed string array produced by PackStrings.
//
// A single NUL-terminated string with no trailing 0x04 is accepted as a
// legacy single-string form (spec.md §3).
func ParseStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var strs []string
	start := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case 0x00:
			strs = append(strs, string(data[start:i]))
			start = i + 1
		case stringPad:
			if start == i && len(strs) > 0 {
				// Trailing padding run following the last NUL: done.
				return strs, nil
			}
			if start < i {
				// A 0x04 encountered before any NUL: malformed unless this
				// is the legacy single-string form with no terminator at
				// all, which never hits this branch (no 0x00 was seen).
				return nil, fmt.Errorf("%w: padding byte before string terminator", errs.ErrFormat)
			}
			return strs, nil
		}
	}

	// No 0x04 encountered: legacy single NUL-terminated string, or an
	// unterminated final entry (accepted as that entry's value).
	if start < len(data) {
		strs = append(strs, string(data[start:]))
	}

	return strs, nil
}
