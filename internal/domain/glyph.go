package domain

import "fmt"

// Glyph packs a display character and its 24-bit RGB color into one
// uint32: bits [0:8] hold the character, bits [8:32] the color. The
// packed form serializes as a plain number in snapshots and saves.
type Glyph uint32

const (
	glyphShiftColor = 8
	glyphMaskChar   = 0xFF
	glyphMaskColor  = 0xFFFFFF
)

// MakeGlyph builds a Glyph from a 0xRRGGBB color and an ASCII character.
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&glyphMaskColor)<<glyphShiftColor | uint32(char)&glyphMaskChar)
}

// Char extracts the display character.
func (g Glyph) Char() byte {
	return byte(g & glyphMaskChar)
}

// Color extracts the 0xRRGGBB color.
func (g Glyph) Color() uint32 {
	return uint32(g>>glyphShiftColor) & glyphMaskColor
}

// HexColor renders the color as "#RRGGBB" for clients.
func (g Glyph) HexColor() string {
	return fmt.Sprintf("#%06X", g.Color())
}

func (g Glyph) String() string {
	char := g.Char()
	charStr := string([]byte{char})
	if char < 32 || char > 126 {
		charStr = fmt.Sprintf("\\x%02X", char)
	}
	return fmt.Sprintf("Glyph{char='%s', color=%s}", charStr, g.HexColor())
}
