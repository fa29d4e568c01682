package imaging

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult is one category's display colour in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// StyleEntry is one line of a colour style file.
type StyleEntry struct {
	Value int
	Color color.RGBA
	Label string
}

// ColorMap maps category labels to display colours. The zero value is an
// empty map that resolves every category to the fallback colour.
type ColorMap struct {
	entries []StyleEntry
	byLabel map[string]color.RGBA
}

// FallbackColor is used for categories missing from the style file.
var FallbackColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// LoadColorMap reads a colour style file from path. See ParseColorMap.
func LoadColorMap(path string) (*ColorMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open style file: %w", err)
	}
	defer f.Close()

	cm, err := ParseColorMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cm, nil
}

// ParseColorMap reads a colour style (QGIS colour-ramp export) from r.
//
// # Format
//
// One entry per line:
//
//	value,R,G,B,A,label
//
// R, G, B and A are 0-255. The label is everything after the fifth comma and
// must match the category name. Blank lines, lines starting with '#' and the
// "INTERPOLATION:" header are skipped. Lines with fewer than six fields are
// ignored; numeric fields that do not parse are an error. A later entry for
// the same label replaces an earlier one.
func ParseColorMap(r io.Reader) (*ColorMap, error) {
	cm := &ColorMap{byLabel: make(map[string]color.RGBA)}
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "INTERPOLATION:") {
			continue
		}
		parts := strings.SplitN(line, ",", 6)
		if len(parts) < 6 {
			continue
		}

		var nums [5]int
		for i := 0; i < 5; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", lineNo, i+1, err)
			}
			if i > 0 && (n < 0 || n > 255) {
				return nil, fmt.Errorf("line %d: channel value %d out of range", lineNo, n)
			}
			nums[i] = n
		}

		e := StyleEntry{
			Value: nums[0],
			Color: color.RGBA{R: uint8(nums[1]), G: uint8(nums[2]), B: uint8(nums[3]), A: uint8(nums[4])},
			Label: strings.TrimSpace(parts[5]),
		}
		cm.entries = append(cm.entries, e)
		cm.byLabel[e.Label] = e.Color
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read style: %w", err)
	}
	return cm, nil
}

// Color returns the colour for category, or FallbackColor.
func (cm *ColorMap) Color(category string) color.RGBA {
	if cm != nil {
		if c, ok := cm.byLabel[category]; ok {
			return c
		}
	}
	return FallbackColor
}

// Has reports whether category has its own colour.
func (cm *ColorMap) Has(category string) bool {
	if cm == nil {
		return false
	}
	_, ok := cm.byLabel[category]
	return ok
}

// Entries returns the parsed style lines in file order.
func (cm *ColorMap) Entries() []StyleEntry {
	if cm == nil {
		return nil
	}
	return append([]StyleEntry(nil), cm.entries...)
}

// Describe returns the colour for category in hex, RGBA and HSL form.
func (cm *ColorMap) Describe(category string) ColorResult {
	return describeColor(cm.Color(category))
}

// describeColor converts through go-colorful, which works on straight
// (non-premultiplied) RGB; the alpha is carried separately.
func describeColor(c color.RGBA) ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}
