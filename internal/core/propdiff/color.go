package propdiff

import (
	"math"
	"strconv"
	"strings"
)

// RGBA is a parsed CSS color. Alpha is 0..1.
type RGBA struct {
	R, G, B float64
	A       float64
}

// ParseColor understands the syntaxes the capture layer actually emits:
// #rgb, #rrggbb, rgb(...), rgba(...) and the transparent keyword.
// The second return is false for anything else; callers must treat an
// unparseable value as "different", never as an error.
func ParseColor(value string) (RGBA, bool) {
	v := strings.TrimSpace(strings.ToLower(value))

	switch {
	case v == "transparent" || v == "":
		return RGBA{}, true

	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])

	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseRGBParts(v[5:len(v)-1], true)

	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGBParts(v[4:len(v)-1], false)
	}

	return RGBA{}, false
}

func parseHex(hex string) (RGBA, bool) {
	if len(hex) == 3 {
		// #abc is shorthand for #aabbcc
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGBA{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	return RGBA{
		R: float64(n >> 16 & 0xff),
		G: float64(n >> 8 & 0xff),
		B: float64(n & 0xff),
		A: 1,
	}, true
}

func parseRGBParts(inner string, hasAlpha bool) (RGBA, bool) {
	parts := strings.Split(inner, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return RGBA{}, false
	}

	vals := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGBA{}, false
		}
		vals[i] = f
	}

	c := RGBA{R: vals[0], G: vals[1], B: vals[2], A: 1}
	if hasAlpha {
		c.A = vals[3]
	}
	return c, true
}

// ColorDistance is the Euclidean distance between two colors in RGB
// space (0 .. ~441). Alpha is deliberately excluded; the differ handles
// transparency separately.
func ColorDistance(a, b RGBA) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// LeadingNumber parses the leading numeric component of a CSS value
// ("16px" -> 16, "1.5rem" -> 1.5, "-4px" -> -4).
func LeadingNumber(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	end := 0
	for end < len(v) {
		c := v[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(v[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
