// script_api_sys.go - system/input/misc console API bindings (btn, stat,
// time, menuitem, extcmd, ...)
//
// Grounded on terminal_io.go's convention of exposing host facilities
// (clock, input, misc control) as a small flat function set, generalized
// here to the console's system-call surface (spec.md §4.7/§4.8).

package main

import lua "github.com/yuin/gopher-lua"

func (sb *ScriptBridge) registerSysAPI() {
	in := sb.vm.Input

	sb.reg("btn", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			L.Push(lua.LNumber(in.BtnBits(0)))
			return 1
		}
		i := argInt(L, 1, 0)
		p := argInt(L, 2, 0)
		L.Push(lua.LBool(in.Btn(i, p)))
		return 1
	})
	sb.reg("btnp", func(L *lua.LState) int {
		if L.GetTop() == 0 {
			L.Push(lua.LNumber(in.BtnpBits(0)))
			return 1
		}
		i := argInt(L, 1, 0)
		p := argInt(L, 2, 0)
		L.Push(lua.LBool(in.Btnp(i, p)))
		return 1
	})
	sb.reg("stat", func(L *lua.LState) int {
		id := argInt(L, 1, 0)
		res := sb.vm.Stat(id)
		switch res.kind {
		case 's':
			L.Push(lua.LString(res.str))
		case 'b':
			L.Push(lua.LBool(res.b))
		default:
			L.Push(lua.LNumber(res.num))
		}
		return 1
	})
	sb.reg("time", func(L *lua.LState) int {
		L.Push(lua.LNumber(sb.vm.Driver.ElapsedSeconds()))
		return 1
	})
	sb.reg("t", func(L *lua.LState) int {
		L.Push(lua.LNumber(sb.vm.Driver.ElapsedSeconds()))
		return 1
	})
	sb.reg("flip", func(L *lua.LState) int {
		sb.vm.Driver.RequestFlip()
		return 0
	})
	sb.reg("menuitem", func(L *lua.LState) int {
		idx := argInt(L, 1, 0)
		label := argStr(L, 2, "")
		var cb *lua.LFunction
		if fn, ok := L.Get(3).(*lua.LFunction); ok {
			cb = fn
		}
		sb.vm.RegisterMenuItem(idx, label, sb, cb)
		return 0
	})
	sb.reg("extcmd", func(L *lua.LState) int {
		cmd := argStr(L, 1, "")
		sb.vm.ExtCmd(cmd)
		return 0
	})
	sb.reg("cartdata", func(L *lua.LState) int {
		id := argStr(L, 1, "")
		ok := sb.vm.Persist.OpenCartData(id)
		L.Push(lua.LBool(ok))
		return 1
	})
	sb.reg("dget", func(L *lua.LState) int {
		idx := argInt(L, 1, 0)
		pushNum(L, sb.vm.Persist.DataGet(idx))
		return 1
	})
	sb.reg("dset", func(L *lua.LState) int {
		idx := argInt(L, 1, 0)
		v := argNum(L, 2, 0)
		sb.vm.Persist.DataSet(idx, v)
		return 0
	})
	sb.reg("run", func(L *lua.LState) int {
		sb.vm.RequestRun()
		return 0
	})
	sb.reg("reset", func(L *lua.LState) int {
		sb.vm.RequestReset()
		return 0
	})
	sb.reg("shutdown", func(L *lua.LState) int {
		sb.vm.RequestShutdown()
		return 0
	})
	sb.reg("trace", func(L *lua.LState) int {
		msg := argStr(L, 1, "")
		sb.vm.Log.Printf("trace: %s", msg)
		return 0
	})
	sb.reg("printh", func(L *lua.LState) int {
		sb.vm.Log.Println(argStr(L, 1, ""))
		return 0
	})
}
