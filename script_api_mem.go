// script_api_mem.go - memory/cart data console API bindings (peek/poke/...)
//
// Grounded on memory.go's already-built Memory methods; this file is the
// gopher-lua argument-marshaling layer over them.

package main

import lua "github.com/yuin/gopher-lua"

func (sb *ScriptBridge) registerMemAPI() {
	mem := sb.vm.Mem

	sb.reg("peek", func(L *lua.LState) int {
		addr := argInt(L, 1, 0)
		n := argInt(L, 2, 1)
		if n <= 1 {
			L.Push(lua.LNumber(mem.Peek(addr)))
			return 1
		}
		for i := 0; i < n; i++ {
			L.Push(lua.LNumber(mem.Peek(addr + i)))
		}
		return n
	})
	sb.reg("peek2", func(L *lua.LState) int {
		L.Push(lua.LNumber(mem.Peek2(argInt(L, 1, 0))))
		return 1
	})
	sb.reg("peek4", func(L *lua.LState) int {
		pushNum(L, mem.Peek4Num(argInt(L, 1, 0)))
		return 1
	})
	sb.reg("poke", func(L *lua.LState) int {
		addr := argInt(L, 1, 0)
		for i := 2; i <= L.GetTop(); i++ {
			mem.Poke(addr+(i-2), byte(argInt(L, i, 0)))
		}
		return 0
	})
	sb.reg("poke2", func(L *lua.LState) int {
		mem.Poke2(argInt(L, 1, 0), uint16(argInt(L, 2, 0)))
		return 0
	})
	sb.reg("poke4", func(L *lua.LState) int {
		mem.Poke4(argInt(L, 1, 0), uint32(argNum(L, 2, 0).Bits()))
		return 0
	})
	sb.reg("memcpy", func(L *lua.LState) int {
		mem.Memcpy(argInt(L, 1, 0), argInt(L, 2, 0), argInt(L, 3, 0))
		return 0
	})
	sb.reg("memset", func(L *lua.LState) int {
		mem.Memset(argInt(L, 1, 0), byte(argInt(L, 2, 0)), argInt(L, 3, 0))
		return 0
	})
	sb.reg("reload", func(L *lua.LState) int {
		destAddr := argInt(L, 1, 0)
		srcAddr := argInt(L, 2, 0)
		length := argInt(L, 3, RAMSize)
		if sb.vm.CurrentCart != nil {
			var cartRAM Memory
			sb.vm.CurrentCart.ToRAM(&cartRAM)
			data := cartRAM.RegionRead(srcAddr, length)
			mem.RegionCopy(destAddr, data)
		}
		return 0
	})
	sb.reg("cstore", func(L *lua.LState) int {
		srcAddr := argInt(L, 1, 0)
		destAddr := argInt(L, 2, 0)
		length := argInt(L, 3, RAMSize)
		_, _, _ = srcAddr, destAddr, length
		if sb.vm.CurrentCart != nil {
			err := sb.vm.Persist.SaveCartOverwrite(sb.vm.CurrentCart, mem, srcAddr, destAddr, length)
			_ = err // best-effort like the console's own silent failure mode
		}
		return 0
	})
}
