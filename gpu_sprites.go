// gpu_sprites.go - sprite, stretched-blit, map and textured-line rendering
//
// Grounded on video_compositor.go's blit-with-flip/transparency shape.

package main

// spritePixel reads the color index at sprite-sheet pixel (sx,sy) (packed
// 2 pixels/byte, low nibble = even X).
func (g *GpuEngine) spritePixel(sx, sy int) byte {
	addr := AddrGfx + sy*(ScreenW/2) + sx/2
	b := g.mem.Peek(addr)
	if sx&1 == 0 {
		return b & 0xF
	}
	return (b >> 4) & 0xF
}

// Spr blits an n-tile sprite (w,h in 8px tiles) at (x,y), honoring
// horizontal/vertical flip and per-pixel transparency via PaltMap.
func (g *GpuEngine) Spr(n int, x, y, w, h int, flipX, flipY bool) {
	baseX := (n % 16) * 8
	baseY := (n / 16) * 8
	pw, ph := w*8, h*8
	for dy := 0; dy < ph; dy++ {
		for dx := 0; dx < pw; dx++ {
			sx, sy := dx, dy
			if flipX {
				sx = pw - 1 - dx
			}
			if flipY {
				sy = ph - 1 - dy
			}
			col := g.spritePixel(baseX+sx, baseY+sy)
			if g.st.PaltMap[col&0xF] {
				continue
			}
			cx, cy := g.camAdjust(x+dx, y+dy)
			g.writePixel(cx, cy, col)
		}
	}
}

// Sspr stretches a source rectangle of the sprite sheet to a destination
// rectangle using Q16.16 u/v accumulators. When source and destination
// sizes match, both steps are exactly 1 and the result equals an unscaled
// blit; there is no separate code path for that case.
func (g *GpuEngine) Sspr(sx, sy, sw, sh, dx, dy, dw, dh int, flipX, flipY bool) {
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return
	}
	ustep := NumFromInt(sw).Div(NumFromInt(dw))
	vstep := NumFromInt(sh).Div(NumFromInt(dh))
	v := NumFromInt(0)
	for row := 0; row < dh; row++ {
		u := NumFromInt(0)
		srcY := v.Int()
		if flipY {
			srcY = sh - 1 - srcY
		}
		for col := 0; col < dw; col++ {
			srcX := u.Int()
			if flipX {
				srcX = sw - 1 - srcX
			}
			col8 := g.spritePixel(sx+srcX, sy+srcY)
			if !g.st.PaltMap[col8&0xF] {
				cx, cy := g.camAdjust(dx+col, dy+row)
				g.writePixel(cx, cy, col8)
			}
			u = u.Add(ustep)
		}
		v = v.Add(vstep)
	}
}

// MGet reads the map tile index at (mx,my).
func (g *GpuEngine) MGet(mx, my int) byte {
	return g.mem.Peek(g.mem.hw.MapAddr(mx, my))
}

// MSet writes the map tile index at (mx,my).
func (g *GpuEngine) MSet(mx, my int, v byte) {
	g.mem.Poke(g.mem.hw.MapAddr(mx, my), v)
}

// FGet reads the sprite-flags byte for sprite n (or just the bit at index
// b, per PICO-8's fget(n,b) overload).
func (g *GpuEngine) FGet(n int) byte {
	return g.mem.Peek(AddrSpriteFlag + (n & 0xFF))
}

func (g *GpuEngine) FGetBit(n, b int) bool {
	return (g.FGet(n)>>uint(b&7))&1 != 0
}

// FSet writes the sprite-flags byte for sprite n.
func (g *GpuEngine) FSet(n int, v byte) {
	g.mem.Poke(AddrSpriteFlag+(n&0xFF), v)
}

// Map draws map tiles t=mget(mx+i,my+j) at (sx+8i, sy+8j). Tile 0 is always
// skipped. If layer != -1 the tile draws only when sprite_flags[t]&layer != 0.
func (g *GpuEngine) Map(mx, my, sx, sy, w, h, layer int) {
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			t := int(g.MGet(mx+i, my+j))
			if t == 0 {
				continue
			}
			if layer != -1 {
				if int(g.FGet(t))&layer == 0 {
					continue
				}
			}
			g.Spr(t, sx+8*i, sy+8*j, 1, 1, false, false)
		}
	}
}

// TLine rasterizes a line from (x0,y0) to (x1,y1), sampling the map at
// (mx,my) stepped by (mdx,mdy) in Q16.16 per pixel, wrapping at 128, and
// honoring the transparency mask.
func (g *GpuEngine) TLine(x0, y0, x1, y1 int, mx, my, mdx, mdy Num) {
	sx0, sy0 := g.camAdjust(x0, y0)
	sx1, sy1 := g.camAdjust(x1, y1)
	dx := abs(sx1 - sx0)
	dy := -abs(sy1 - sy0)
	stepX, stepY := 1, 1
	if sx0 > sx1 {
		stepX = -1
	}
	if sy0 > sy1 {
		stepY = -1
	}
	err := dx + dy
	cx, cy := sx0, sy0
	mxc, myc := mx, my
	for {
		tileX := wrapMap(mxc.Int())
		tileY := wrapMap(myc.Int())
		t := int(g.MGet(tileX/8, tileY/8))
		if t != 0 {
			col := g.spritePixel((t%16)*8+tileX%8, (t/16)*8+tileY%8)
			if !g.st.PaltMap[col&0xF] {
				g.writePixel(cx, cy, col)
			}
		}
		if cx == sx1 && cy == sy1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			cx += stepX
			mxc = mxc.Add(mdx)
		}
		if e2 <= dx {
			err += dx
			cy += stepY
			myc = myc.Add(mdy)
		}
	}
}

func wrapMap(v int) int {
	v %= 128
	if v < 0 {
		v += 128
	}
	return v
}
