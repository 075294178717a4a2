// gpu_raster.go - clipped rasterizer primitives
//
// Grounded on video_chip.go's blitter register shape and the teacher's
// convention of camera-adjusting coordinates once before touching the
// framebuffer. All primitives funnel through writePixel so the clip
// invariant, fill pattern and draw mask are enforced in exactly one place.

package main

// GpuEngine rasterizes primitives into a Framebuffer under a GpuState.
type GpuEngine struct {
	fb   *Framebuffer
	st   *GpuState
	pal  *Palette
	mem  *Memory
	font *FontEngine
}

// NewGpuEngine wires a rasterizer to its framebuffer, draw state, palette
// and memory (for spr/map/tline tile lookups).
func NewGpuEngine(fb *Framebuffer, st *GpuState, pal *Palette, mem *Memory) *GpuEngine {
	return &GpuEngine{fb: fb, st: st, pal: pal, mem: mem, font: NewFontEngine(mem)}
}

// camAdjust translates a coordinate pair by (-cameraX,-cameraY).
func (g *GpuEngine) camAdjust(x, y int) (int, int) {
	return x - g.st.CameraX, y - g.st.CameraY
}

func (g *GpuEngine) inClip(x, y int) bool {
	return x >= g.st.ClipX0 && x < g.st.ClipX1 && y >= g.st.ClipY0 && y < g.st.ClipY1
}

// writePixel is the single choke point every primitive funnels through: it
// enforces the clip invariant (§8 property 1), the fill-pattern lattice,
// the per-nibble draw mask, and the draw-palette remap.
func (g *GpuEngine) writePixel(x, y int, color byte) {
	if !g.inClip(x, y) {
		return
	}
	if !g.st.FillBit(x, y) {
		return
	}
	remapped := g.pal.Draw[color&0xF]
	if g.st.DrawMask == 0xFF {
		g.fb.Set(x, y, remapped)
		return
	}
	old := g.fb.Get(x, y)
	var mask byte
	if x&1 == 0 {
		mask = g.st.DrawMask & 0x0F
	} else {
		mask = (g.st.DrawMask >> 4) & 0x0F
	}
	g.fb.Set(x, y, (old&^mask)|(remapped&mask))
}

// Cls fills the framebuffer with color c and resets the cursor.
func (g *GpuEngine) Cls(c byte) {
	g.fb.Fill(g.pal.Draw[c&0xF])
	g.st.CursorX, g.st.CursorY = 0, 0
}

// Pset draws one pixel at logical (x,y).
func (g *GpuEngine) Pset(x, y int, c byte) {
	sx, sy := g.camAdjust(x, y)
	g.writePixel(sx, sy, c)
}

// Pget returns the raw framebuffer value after camera translation, with no
// inverse palette remap (Open Question decision, SPEC_FULL.md).
func (g *GpuEngine) Pget(x, y int) byte {
	sx, sy := g.camAdjust(x, y)
	return g.fb.Get(sx, sy)
}

// Line draws a Cohen-Sutherland-clipped Bresenham line, and records the
// endpoint so a follow-up Line(x1,y1) call with omitted start can continue
// from it.
func (g *GpuEngine) Line(x0, y0, x1, y1 int, c byte) {
	sx0, sy0 := g.camAdjust(x0, y0)
	sx1, sy1 := g.camAdjust(x1, y1)
	g.st.LastLineX, g.st.LastLineY = x1, y1
	g.st.HasLastLine = true

	cx0, cy0, cx1, cy1, ok := g.clipLine(sx0, sy0, sx1, sy1)
	if !ok {
		return
	}
	if cy0 == cy1 && g.st.FillPattern == 0xFFFFFFFF && g.st.DrawMask == 0xFF {
		if cx0 > cx1 {
			cx0, cx1 = cx1, cx0
		}
		remapped := g.pal.Draw[c&0xF]
		for x := cx0; x <= cx1; x++ {
			if g.inClip(x, cy0) {
				g.fb.Set(x, cy0, remapped)
			}
		}
		return
	}
	g.bresenham(cx0, cy0, cx1, cy1, c)
}

// LineContinue draws from the last recorded endpoint to (x1,y1).
func (g *GpuEngine) LineContinue(x1, y1 int, c byte) {
	if !g.st.HasLastLine {
		g.Pset(x1, y1, c)
		return
	}
	g.Line(g.st.LastLineX, g.st.LastLineY, x1, y1, c)
}

func (g *GpuEngine) bresenham(x0, y0, x1, y1 int, c byte) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		g.writePixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine applies Cohen-Sutherland clipping against the current clip rect
// using 64-bit intermediates to avoid overflow on extreme coordinates.
func (g *GpuEngine) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	xmin, ymin := g.st.ClipX0, g.st.ClipY0
	xmax, ymax := g.st.ClipX1-1, g.st.ClipY1-1
	outcode := func(x, y int) int {
		code := 0
		if x < xmin {
			code |= 1
		} else if x > xmax {
			code |= 2
		}
		if y < ymin {
			code |= 4
		} else if y > ymax {
			code |= 8
		}
		return code
	}
	oc0, oc1 := outcode(x0, y0), outcode(x1, y1)
	for {
		if oc0|oc1 == 0 {
			return x0, y0, x1, y1, true
		}
		if oc0&oc1 != 0 {
			return 0, 0, 0, 0, false
		}
		outside := oc0
		if outside == 0 {
			outside = oc1
		}
		var x, y int
		dx64 := int64(x1 - x0)
		dy64 := int64(y1 - y0)
		switch {
		case outside&8 != 0:
			x = x0 + int(dx64*int64(ymax-y0)/maxInt64(dy64, 1))
			y = ymax
		case outside&4 != 0:
			x = x0 + int(dx64*int64(ymin-y0)/maxInt64(dy64, 1))
			y = ymin
		case outside&2 != 0:
			y = y0 + int(dy64*int64(xmax-x0)/maxInt64(dx64, 1))
			x = xmax
		default:
			y = y0 + int(dy64*int64(xmin-x0)/maxInt64(dx64, 1))
			x = xmin
		}
		if outside == oc0 {
			x0, y0 = x, y
			oc0 = outcode(x0, y0)
		} else {
			x1, y1 = x, y
			oc1 = outcode(x1, y1)
		}
	}
}

func maxInt64(v, floor int64) int64 {
	if v == 0 {
		return floor
	}
	return v
}

// Rect draws the four edges of an unfilled rectangle.
func (g *GpuEngine) Rect(x0, y0, x1, y1 int, c byte) {
	g.Line(x0, y0, x1, y0, c)
	g.Line(x0, y1, x1, y1, c)
	g.Line(x0, y0, x0, y1, c)
	g.Line(x1, y0, x1, y1, c)
}

// RectFill scanline-fills a rectangle.
func (g *GpuEngine) RectFill(x0, y0, x1, y1 int, c byte) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	sx0, sy0 := g.camAdjust(x0, y0)
	sx1, sy1 := g.camAdjust(x1, y1)
	for y := sy0; y <= sy1; y++ {
		for x := sx0; x <= sx1; x++ {
			g.writePixel(x, y, c)
		}
	}
}

// RRect draws a rounded rectangle outline; radius r is clamped to
// min(w,h)/2 - 1 and corners are filled by midpoint-circle iteration.
func (g *GpuEngine) RRect(x0, y0, x1, y1, r int, c byte) {
	g.roundedRect(x0, y0, x1, y1, r, c, false)
}

// RRectFill draws a filled rounded rectangle.
func (g *GpuEngine) RRectFill(x0, y0, x1, y1, r int, c byte) {
	g.roundedRect(x0, y0, x1, y1, r, c, true)
}

func (g *GpuEngine) roundedRect(x0, y0, x1, y1, r int, c byte, fill bool) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0+1, y1-y0+1
	if maxR := minInt(w, h)/2 - 1; r > maxR {
		r = maxR
	}
	if r < 0 {
		r = 0
	}
	if fill {
		g.RectFill(x0+r, y0, x1-r, y1, c)
		g.RectFill(x0, y0+r, x0+r-1, y1-r, c)
		g.RectFill(x1-r+1, y0+r, x1, y1-r, c)
	} else {
		g.Line(x0+r, y0, x1-r, y0, c)
		g.Line(x0+r, y1, x1-r, y1, c)
		g.Line(x0, y0+r, x0, y1-r, c)
		g.Line(x1, y0+r, x1, y1-r, c)
	}
	corners := [4][2]int{
		{x0 + r, y0 + r}, {x1 - r, y0 + r}, {x0 + r, y1 - r}, {x1 - r, y1 - r},
	}
	quadMask := [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for i, cc := range corners {
		g.quarterCircle(cc[0], cc[1], r, quadMask[i][0], quadMask[i][1], c, fill)
	}
}

func (g *GpuEngine) quarterCircle(cx, cy, r, qx, qy int, c byte, fill bool) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}}
		for _, p := range pts {
			px, py := cx+qx*p[0], cy+qy*p[1]
			if fill {
				if qx < 0 {
					g.hspan(cx, px, py, c)
				} else {
					g.hspan(px, cx, py, c)
				}
			} else {
				sx, sy := g.camAdjust(px, py)
				g.writePixel(sx, sy, c)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (g *GpuEngine) hspan(x0, x1, y int, c byte) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	sy := y - g.st.CameraY
	for x := x0; x <= x1; x++ {
		sx := x - g.st.CameraX
		g.writePixel(sx, sy, c)
	}
}

// Circ draws a midpoint circle outline.
func (g *GpuEngine) Circ(cx, cy, r int, c byte) {
	g.midpointCircle(cx, cy, r, c, false)
}

// CircFill draws a filled circle via per-scanline horizontal runs.
func (g *GpuEngine) CircFill(cx, cy, r int, c byte) {
	g.midpointCircle(cx, cy, r, c, true)
}

func (g *GpuEngine) midpointCircle(cx, cy, r int, c byte, fill bool) {
	if r < 0 {
		return
	}
	x, y := r, 0
	err := 1 - r
	plot := func(x, y int) {
		sx, sy := g.camAdjust(x, y)
		g.writePixel(sx, sy, c)
	}
	for x >= y {
		if fill {
			g.hspan(cx-x, cx+x, cy+y, c)
			g.hspan(cx-x, cx+x, cy-y, c)
			g.hspan(cx-y, cx+y, cy+x, c)
			g.hspan(cx-y, cx+y, cy-x, c)
		} else {
			plot(cx+x, cy+y)
			plot(cx-x, cy+y)
			plot(cx+x, cy-y)
			plot(cx-x, cy-y)
			plot(cx+y, cy+x)
			plot(cx-y, cy+x)
			plot(cx+y, cy-x)
			plot(cx-y, cy-x)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// Oval draws a Bresenham ellipse outline inscribed in [x0,y0]-[x1,y1] using
// four-way symmetry (one point per quadrant at each step).
func (g *GpuEngine) Oval(x0, y0, x1, y1 int, c byte) {
	g.ellipse(x0, y0, x1, y1, c, false)
}

// OvalFill draws a filled ellipse.
func (g *GpuEngine) OvalFill(x0, y0, x1, y1 int, c byte) {
	g.ellipse(x0, y0, x1, y1, c, true)
}

func (g *GpuEngine) ellipse(x0, y0, x1, y1 int, c byte, fill bool) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2, (y1-y0)/2
	if rx == 0 && ry == 0 {
		g.Pset(cx, cy, c)
		return
	}
	plot := func(x, y int) {
		sx, sy := g.camAdjust(x, y)
		g.writePixel(sx, sy, c)
	}
	x, y := 0, ry
	rx2, ry2 := rx*rx, ry*ry
	twoRx2, twoRy2 := 2*rx2, 2*ry2
	px, py := 0, twoRx2*y

	drawPoints := func(x, y int) {
		if fill {
			g.hspan(cx-x, cx+x, cy+y, c)
			g.hspan(cx-x, cx+x, cy-y, c)
		} else {
			plot(cx+x, cy+y)
			plot(cx-x, cy+y)
			plot(cx+x, cy-y)
			plot(cx-x, cy-y)
		}
	}

	// region 1
	p := ry2 - rx2*ry + rx2/4
	for px < py {
		drawPoints(x, y)
		x++
		px += twoRy2
		if p < 0 {
			p += ry2 + px
		} else {
			y--
			py -= twoRx2
			p += ry2 + px - py
		}
	}
	// region 2
	p = ry2*(x*2+1)*(x*2+1)/4 + rx2*(y-1)*(y-1) - rx2*ry2
	for y >= 0 {
		drawPoints(x, y)
		y--
		py -= twoRx2
		if p > 0 {
			p += rx2 - py
		} else {
			x++
			px += twoRy2
			p += rx2 - py + px
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
