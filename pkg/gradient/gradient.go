// Package gradient derives a stable presentation variant from an opaque
// product identifier. The same id must yield the same variant on every page
// that renders it, so the mapping is a pure function of the id.
package gradient

import "strconv"

// PaletteSize is the number of presentation variants.
const PaletteSize = 9

// Palette holds the CSS gradients rendered for products without artwork,
// indexed by Index(id).
var Palette = [PaletteSize]string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"linear-gradient(135deg, #43e97b 0%, #38f9d7 100%)",
	"linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
	"linear-gradient(135deg, #30cfd0 0%, #330867 100%)",
	"linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
	"linear-gradient(135deg, #ff9a9e 0%, #fecfef 100%)",
	"linear-gradient(135deg, #ffecd2 0%, #fcb69f 100%)",
}

// Index maps an opaque id to [0, PaletteSize). Identifiers that are plain
// base-10 integers use their value directly; anything else (UUIDs) is folded
// through a rolling 32-bit hash so the dispersion is even across the palette.
func Index(id string) int {
	return indexIn(id, PaletteSize)
}

// Gradient returns the palette entry for the given id.
func Gradient(id string) string {
	return Palette[Index(id)]
}

func indexIn(id string, palette int) int {
	if palette <= 0 {
		return 0
	}
	if n, err := strconv.ParseUint(id, 10, 32); err == nil {
		return int(n % uint64(palette))
	}

	// Rolling hash with int32 wraparound: h = h*31 + c, kept in signed
	// 32-bit range to stay stable against the legacy formula.
	var h int32
	for _, c := range id {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		// -MinInt32 overflows; it also happens to be 0 mod 2^31.
		if h == -2147483648 {
			h = 0
		} else {
			h = -h
		}
	}
	return int(h) % palette
}
