// gpu_text.go - P8SCII text rendering and the built-in/custom font engine
//
// Grounded on terminal_output.go/terminal_io.go's line-oriented character
// writer for the overall "consume bytes, track cursor/attribute state"
// shape; the control-code table itself comes from spec.md §4.4 and
// original_source/src/core/real8_gfx.cpp's print routine.

package main

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontEngine owns the built-in 4x6 glyph table plus access to a
// cart-supplied custom font region in RAM. There is no 5x6 table: every
// built-in glyph comes from the 4x6 one.
type FontEngine struct {
	mem *Memory
}

func NewFontEngine(mem *Memory) *FontEngine { return &FontEngine{mem: mem} }

// glyph4x6 returns the 6 row-bytes (low 4 bits significant) for an ASCII
// printable character in the built-in narrow font.
func (f *FontEngine) glyph4x6(ch byte) [6]byte {
	if g, ok := builtinFont4x6[ch]; ok {
		return g
	}
	return builtinFont4x6[' ']
}

// customGlyphAt reads one 8x8 glyph (8 bytes) from the custom-font memory
// region pointed to by cf_gfx (spec.md §4.4's custom font layout).
func (f *FontEngine) customGlyphAt(cfGfx int, index int) [8]byte {
	var g [8]byte
	base := cfGfx + index*8
	for i := 0; i < 8; i++ {
		g[i] = f.mem.Peek(base + i)
	}
	return g
}

// printState tracks P8SCII parsing state across a single Print call.
type printState struct {
	x, y       int
	startX     int
	fg, bg     byte
	bgSolid    bool
	useCursor  bool
	wide, tall bool
	stripey    bool
	invert     bool
	customFont bool
}

// Print consumes str as P8SCII and draws glyphs starting at (x,y) in color
// col. If useCursor is true, x/y come from (and are written back to) the
// GpuState cursor, and a trailing newline is applied after the call.
func (g *GpuEngine) Print(str string, x, y int, col byte, useCursor bool) int {
	ps := &printState{x: x, y: y, startX: x, fg: col, bg: 0, useCursor: useCursor}
	i := 0
	for i < len(str) {
		c := str[i]
		if c < 32 {
			adv := g.handleControl(ps, str, i)
			i += adv
			continue
		}
		g.drawGlyph(ps, c)
		i++
	}
	if useCursor {
		g.st.CursorX = ps.startX
		g.st.CursorY = ps.y + 6
	}
	return ps.x
}

func (g *GpuEngine) glyphAdvance(ps *printState) int {
	if ps.wide {
		return 8
	}
	return 4
}

func (g *GpuEngine) drawGlyph(ps *printState, ch byte) {
	rows := g.font.glyph4x6(ch)
	for ry := 0; ry < 6; ry++ {
		row := rows[ry]
		for rx := 0; rx < 4; rx++ {
			if ps.stripey && rx&1 == 1 {
				continue
			}
			set := (row>>uint(3-rx))&1 != 0
			px, py := ps.x+rx, ps.y+ry
			if ps.invert {
				set = !set
			}
			if set {
				sx, sy := g.camAdjust(px, py)
				g.writePixel(sx, sy, ps.fg)
			} else if ps.bgSolid {
				sx, sy := g.camAdjust(px, py)
				g.writePixel(sx, sy, ps.bg)
			}
		}
	}
	ps.x += g.glyphAdvance(ps)
}

// handleControl processes one P8SCII control code starting at str[i] (str[i]
// itself is the control byte); returns how many bytes were consumed.
func (g *GpuEngine) handleControl(ps *printState, str string, i int) int {
	c := str[i]
	rest := str[i+1:]
	switch c {
	case '\f': // set foreground color
		if len(rest) > 0 {
			ps.fg = hexDigit(rest[0])
			return 2
		}
	case 2: // "\#": set background color
		if len(rest) > 0 {
			if rest[0] == '-' {
				ps.bgSolid = false
				return 2
			}
			ps.bg = hexDigit(rest[0])
			ps.bgSolid = true
			return 2
		}
	case 3: // "\-": move x
		if len(rest) > 0 {
			ps.x += int(base36(rest[0])) - 16
			return 2
		}
	case 4: // "\|": move y
		if len(rest) > 0 {
			ps.y += int(base36(rest[0])) - 16
			return 2
		}
	case 5: // "\+": move x and y
		if len(rest) > 1 {
			ps.x += int(base36(rest[0])) - 16
			ps.y += int(base36(rest[1])) - 16
			return 3
		}
	case 1: // "\*": repeat the next character
		if len(rest) > 1 {
			count := int(base36(rest[0]))
			ch := rest[1]
			for n := 0; n < count; n++ {
				g.drawGlyph(ps, ch)
			}
			return 3
		}
	case 6: // "\^": special command
		return 1 + g.handleCaret(ps, rest)
	case 14:
		ps.customFont = true
		return 1
	case 15:
		ps.customFont = false
		return 1
	}
	return 1
}

func (g *GpuEngine) handleCaret(ps *printState, rest string) int {
	if rest == "" {
		return 0
	}
	switch rest[0] {
	case 'c':
		if len(rest) > 1 {
			g.Cls(hexDigit(rest[1]))
			ps.x, ps.y = 0, 0
			ps.startX = 0
			return 2
		}
	case 'g':
		ps.startX = ps.x
		return 1
	case 'h':
		ps.x, ps.y = ps.startX, ps.y
		return 1
	case 'j':
		if len(rest) > 2 {
			ps.x = int(base36(rest[1])) * 4
			ps.y = int(base36(rest[2])) * 4
			return 3
		}
	case 'w':
		ps.wide = true
		return 1
	case 't':
		ps.tall = true
		return 1
	case 'p':
		ps.wide, ps.tall = true, true
		return 1
	case '=':
		ps.stripey = true
		return 1
	case 'i':
		ps.invert = !ps.invert
		return 1
	case '#':
		ps.bgSolid = true
		return 1
	case '$':
		return 1
	case '!': // memcpy raw bytes to RAM until end of string
		if len(rest) >= 5 {
			addr := hex4(rest[1:5])
			data := rest[5:]
			g.mem.RegionCopy(addr, []byte(data))
			return 5 + len(data)
		}
	case '@':
		if len(rest) >= 9 {
			addr := hex4(rest[1:5])
			size := hex4(rest[5:9])
			end := 9 + size
			if end > len(rest) {
				end = len(rest)
			}
			g.mem.RegionCopy(addr, []byte(rest[9:end]))
			return end
		}
	}
	return 1
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func hex4(s string) int {
	v := 0
	for i := 0; i < 4 && i < len(s); i++ {
		v = v*16 + int(hexDigit(s[i]))
	}
	return v
}

func base36(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'z':
		return c - 'a' + 10
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 10
	}
	return 0
}

// builtinFont4x6 is a minimal 4x6 glyph table covering ASCII 32..126. Each
// entry is 6 rows with the glyph bits left-justified in the low 4 bits.
// Rasterized at init time from golang.org/x/image/font/basicfont.Face7x13,
// nearest-sampled down to the console's 4x6 cell, rather than shipping a
// pixel-exact replica of the reference console's hand-drawn font.
var builtinFont4x6 = buildBuiltinFont()

func buildBuiltinFont() map[byte][6]byte {
	face := basicfont.Face7x13
	cellW, cellH, ascent := face.Width, face.Height, face.Ascent

	m := make(map[byte][6]byte, 96)
	for ch := byte(32); ch < 127; ch++ {
		canvas := image.NewAlpha(image.Rect(0, 0, cellW, cellH))
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.Alpha{A: 0xFF}),
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(rune(ch)))

		var rows [6]byte
		for gy := 0; gy < 6; gy++ {
			sy := gy * cellH / 6
			var bits byte
			for gx := 0; gx < 4; gx++ {
				sx := gx * cellW / 4
				if canvas.AlphaAt(sx, sy).A > 0x40 {
					bits |= 1 << uint(3-gx)
				}
			}
			rows[gy] = bits
		}
		m[ch] = rows
	}
	return m
}
