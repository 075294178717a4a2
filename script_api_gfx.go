// script_api_gfx.go - graphics console API bindings (cls, pset, spr, print, ...)
//
// Grounded on gpu_raster.go/gpu_sprites.go/gpu_text.go's already-built
// GpuEngine methods; this file is purely the gopher-lua argument-marshaling
// layer over them, in the same "thin Lua shim calling a Go engine method"
// shape the bridge uses for every other subsystem.

package main

import lua "github.com/yuin/gopher-lua"

func (sb *ScriptBridge) registerGfxAPI() {
	gpu := sb.vm.Gpu

	sb.reg("cls", func(L *lua.LState) int {
		gpu.Cls(byte(argInt(L, 1, 0)))
		return 0
	})
	sb.reg("pset", func(L *lua.LState) int {
		x, y := argInt(L, 1, 0), argInt(L, 2, 0)
		col := byte(argInt(L, 3, int(gpu.st.PenColor)))
		gpu.Pset(x, y, col)
		return 0
	})
	sb.reg("pget", func(L *lua.LState) int {
		x, y := argInt(L, 1, 0), argInt(L, 2, 0)
		L.Push(lua.LNumber(gpu.Pget(x, y)))
		return 1
	})
	sb.reg("color", func(L *lua.LState) int {
		gpu.st.PenColor = byte(argInt(L, 1, 6))
		return 0
	})
	sb.reg("line", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			gpu.st.HasLastLine = false
			return 0
		}
		x0, y0 := argInt(L, 1, 0), argInt(L, 2, 0)
		if L.GetTop() < 4 {
			col := byte(argInt(L, 3, int(gpu.st.PenColor)))
			gpu.LineContinue(x0, y0, col)
			return 0
		}
		x1, y1 := argInt(L, 3, 0), argInt(L, 4, 0)
		col := byte(argInt(L, 5, int(gpu.st.PenColor)))
		gpu.Line(x0, y0, x1, y1, col)
		return 0
	})
	sb.reg("rect", func(L *lua.LState) int {
		gpu.Rect(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), byte(argInt(L, 5, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("rectfill", func(L *lua.LState) int {
		gpu.RectFill(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), byte(argInt(L, 5, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("rrect", func(L *lua.LState) int {
		gpu.RRect(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), argInt(L, 5, 0), byte(argInt(L, 6, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("rrectfill", func(L *lua.LState) int {
		gpu.RRectFill(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), argInt(L, 5, 0), byte(argInt(L, 6, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("circ", func(L *lua.LState) int {
		gpu.Circ(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 4), byte(argInt(L, 4, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("circfill", func(L *lua.LState) int {
		gpu.CircFill(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 4), byte(argInt(L, 4, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("oval", func(L *lua.LState) int {
		gpu.Oval(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), byte(argInt(L, 5, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("ovalfill", func(L *lua.LState) int {
		gpu.OvalFill(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0), argInt(L, 4, 0), byte(argInt(L, 5, int(gpu.st.PenColor))))
		return 0
	})
	sb.reg("spr", func(L *lua.LState) int {
		n := argInt(L, 1, 0)
		x, y := argInt(L, 2, 0), argInt(L, 3, 0)
		w := argInt(L, 4, 1)
		h := argInt(L, 5, 1)
		fx, fy := argBool(L, 6, false), argBool(L, 7, false)
		gpu.Spr(n, x, y, w, h, fx, fy)
		return 0
	})
	sb.reg("sspr", func(L *lua.LState) int {
		sx, sy := argInt(L, 1, 0), argInt(L, 2, 0)
		sw, sh := argInt(L, 3, 0), argInt(L, 4, 0)
		dx, dy := argInt(L, 5, sx), argInt(L, 6, sy)
		dw, dh := argInt(L, 7, sw), argInt(L, 8, sh)
		fx, fy := argBool(L, 9, false), argBool(L, 10, false)
		gpu.Sspr(sx, sy, sw, sh, dx, dy, dw, dh, fx, fy)
		return 0
	})
	sb.reg("map", func(L *lua.LState) int {
		mx, my := argInt(L, 1, 0), argInt(L, 2, 0)
		sx, sy := argInt(L, 3, 0), argInt(L, 4, 0)
		w, h := argInt(L, 5, 128), argInt(L, 6, 64)
		layer := argInt(L, 7, -1)
		gpu.Map(mx, my, sx, sy, w, h, layer)
		return 0
	})
	sb.reg("mget", func(L *lua.LState) int {
		L.Push(lua.LNumber(gpu.MGet(argInt(L, 1, 0), argInt(L, 2, 0))))
		return 1
	})
	sb.reg("mset", func(L *lua.LState) int {
		gpu.MSet(argInt(L, 1, 0), argInt(L, 2, 0), byte(argInt(L, 3, 0)))
		return 0
	})
	sb.reg("fget", func(L *lua.LState) int {
		n := argInt(L, 1, 0)
		if L.GetTop() >= 2 {
			L.Push(lua.LBool(gpu.FGetBit(n, argInt(L, 2, 0))))
		} else {
			L.Push(lua.LNumber(gpu.FGet(n)))
		}
		return 1
	})
	sb.reg("fset", func(L *lua.LState) int {
		n := argInt(L, 1, 0)
		if L.GetTop() >= 3 {
			bit := byte(1) << uint(argInt(L, 2, 0)&7)
			flags := gpu.FGet(n)
			if argBool(L, 3, false) {
				flags |= bit
			} else {
				flags &^= bit
			}
			gpu.FSet(n, flags)
		} else {
			gpu.FSet(n, byte(argInt(L, 2, 0)))
		}
		return 0
	})
	sb.reg("tline", func(L *lua.LState) int {
		x0, y0 := argInt(L, 1, 0), argInt(L, 2, 0)
		x1, y1 := argInt(L, 3, 0), argInt(L, 4, 0)
		mx, my := argNum(L, 5, 0), argNum(L, 6, 0)
		mdx := argNum(L, 7, NumFromFloat(1.0/8))
		mdy := argNum(L, 8, 0)
		gpu.TLine(x0, y0, x1, y1, mx, my, mdx, mdy)
		return 0
	})
	sb.reg("clip", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			gpu.st.ClipX0, gpu.st.ClipY0 = 0, 0
			gpu.st.ClipX1, gpu.st.ClipY1 = 128, 128
			return 0
		}
		gpu.st.ClipX0 = argInt(L, 1, 0)
		gpu.st.ClipY0 = argInt(L, 2, 0)
		gpu.st.ClipX1 = gpu.st.ClipX0 + argInt(L, 3, 128)
		gpu.st.ClipY1 = gpu.st.ClipY0 + argInt(L, 4, 128)
		return 0
	})
	sb.reg("camera", func(L *lua.LState) int {
		gpu.st.CameraX = argInt(L, 1, 0)
		gpu.st.CameraY = argInt(L, 2, 0)
		return 0
	})
	sb.reg("pal", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			sb.vm.Mem.pal.Reset()
			return 0
		}
		c0, c1 := argInt(L, 1, 0), argInt(L, 2, 0)
		target := argInt(L, 3, 0)
		sb.vm.Mem.SetPal(c0, byte(c1), target == 1)
		return 0
	})
	sb.reg("palt", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			for i := range gpu.st.PaltMap {
				gpu.st.PaltMap[i] = i == 0
			}
			return 0
		}
		c := argInt(L, 1, 0)
		t := argBool(L, 2, false)
		sb.vm.Mem.SetPalt(c, t)
		return 0
	})
	sb.reg("fillp", func(L *lua.LState) int {
		p := argInt(L, 1, 0)
		gpu.st.FillPattern = uint32(uint16(p))
		return 0
	})
	sb.reg("cursor", func(L *lua.LState) int {
		gpu.st.CursorX = argInt(L, 1, 0)
		gpu.st.CursorY = argInt(L, 2, 0)
		if L.GetTop() >= 3 {
			gpu.st.PenColor = byte(argInt(L, 3, int(gpu.st.PenColor)))
		}
		return 0
	})
	sb.reg("print", func(L *lua.LState) int {
		s := argStr(L, 1, "")
		useCursor := L.GetTop() < 2
		x := argInt(L, 2, gpu.st.CursorX)
		y := argInt(L, 3, gpu.st.CursorY)
		col := byte(argInt(L, 4, int(gpu.st.PenColor)))
		w := gpu.Print(s, x, y, col, useCursor)
		L.Push(lua.LNumber(w))
		return 1
	})
}
