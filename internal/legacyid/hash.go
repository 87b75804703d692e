// Package legacyid maps the numeric identifiers used by the older admin
// client onto entity UUIDs.
package legacyid

import "unicode/utf16"

// Hash returns the numeric identifier the legacy client derives from an id
// string: a 31-multiplier hash over UTF-16 code units with 32-bit wraparound,
// made non-negative.
func Hash(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return n
}
