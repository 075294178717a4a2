// script_bridge.go - gopher-lua VM wiring for the console's scripting API
//
// The teacher repo requires github.com/yuin/gopher-lua but never imports
// it; this file is the component that actually exercises that dependency.
// Since nothing in the retrieval pack embeds a Lua VM, the registration
// shape here follows gopher-lua's own documented embedding conventions
// (L.SetGlobal + L.NewFunction, *lua.LState per VM instance) rather than a
// pack file, while the surrounding lifecycle (construct once per cart,
// protected-call dispatch, error classification) mirrors program_executor.go's
// "load once, call entry points every frame, classify failures" shape.

package main

import (
	lua "github.com/yuin/gopher-lua"
)

// ScriptBridge owns the Lua state for one running cart and exposes the
// console's API functions as Lua globals.
type ScriptBridge struct {
	L      *lua.LState
	vm     *VM
	loaded bool
}

func NewScriptBridge(vm *VM) *ScriptBridge {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		RegistrySize:        1024 * 8,
		IncludeGoStackTrace: false,
	})
	sb := &ScriptBridge{L: L, vm: vm}
	sb.registerAll()
	return sb
}

func (sb *ScriptBridge) Close() {
	sb.L.Close()
}

// registerAll installs every console API function as a Lua global. Split
// across script_api_gfx.go / script_api_mem.go / script_api_audio.go /
// script_api_sys.go by subsystem, the way the teacher splits MMIO devices
// across one file per peripheral.
func (sb *ScriptBridge) registerAll() {
	sb.registerGfxAPI()
	sb.registerMemAPI()
	sb.registerAudioAPI()
	sb.registerSysAPI()
	sb.registerMathAndTypeShims()
}

// reg is a small helper so each script_api_*.go file can register a batch
// of functions tersely.
func (sb *ScriptBridge) reg(name string, fn lua.LGFunction) {
	sb.L.SetGlobal(name, sb.L.NewFunction(fn))
}

// LoadString compiles the cart's preprocessed source and runs the chunk
// once, defining the globals (including the entry points FrameDriver's
// Boot/RunFrame call). Preprocessing (!=  ->  ~=, ?  -> print, // -> --,
// @/%/$ peek sugars) happens before this call in preprocessor.go.
func (sb *ScriptBridge) LoadString(src string) error {
	fn, err := sb.L.LoadString(src)
	if err != nil {
		return &ScriptParseError{Err: err}
	}
	sb.L.Push(fn)
	if err := sb.L.PCall(0, lua.MultRet, nil); err != nil {
		return &ScriptRuntimeError{Err: err, Phase: "load"}
	}
	sb.loaded = true
	return nil
}

// CallEntryPoint invokes a zero-arg global function (_init/_update/_draw/
// _update60) if it is defined, swallowing "not defined" as a no-op but
// classifying any Lua-level error as a ScriptRuntimeError so FrameDriver
// can decide whether to halt.
func (sb *ScriptBridge) CallEntryPoint(name string) error {
	fn := sb.L.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	if _, ok := fn.(*lua.LFunction); !ok {
		return nil
	}
	sb.L.Push(fn)
	if err := sb.L.PCall(0, 0, nil); err != nil {
		return &ScriptRuntimeError{Err: err, Phase: name}
	}
	return nil
}

// HasEntryPoint reports whether a global function by that name exists,
// used by FrameDriver to pick between _update/_update60. _draw is called
// every frame, headless or not.
func (sb *ScriptBridge) HasEntryPoint(name string) bool {
	_, ok := sb.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// argNum/argInt/argStr/argBool are small checked-argument helpers used
// throughout script_api_*.go, tolerant of PICO-8's permissive argument
// coercion (missing trailing args default rather than error).
func argNum(L *lua.LState, idx int, def Num) Num {
	v := L.Get(idx)
	if v == lua.LNil || v.Type() == lua.LTNil {
		return def
	}
	switch n := v.(type) {
	case lua.LNumber:
		return NumFromFloat(float64(n))
	default:
		return def
	}
}

func argInt(L *lua.LState, idx int, def int) int {
	return argNum(L, idx, NumFromInt(def)).Int()
}

func argStr(L *lua.LState, idx int, def string) string {
	v := L.Get(idx)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return def
}

func argBool(L *lua.LState, idx int, def bool) bool {
	v := L.Get(idx)
	if v == lua.LNil || v.Type() == lua.LTNil {
		return def
	}
	return lua.LVAsBool(v)
}

func pushNum(L *lua.LState, n Num) {
	L.Push(lua.LNumber(n.Float()))
}

// registerMathAndTypeShims installs nothing. Boolean arithmetic
// (true+1==2, which PICO-8 Lua allows) is not supported, as the body
// explains, and the "%d"-as-format convenience used by a handful of carts
// is left to the standard string library gopher-lua already ships.
func (sb *ScriptBridge) registerMathAndTypeShims() {
	// PICO-8's dialect treats booleans as 0/1 in arithmetic contexts. gopher-lua
	// rejects this at the VM level, so carts that rely on it get a runtime
	// error instead of silently-wrong numbers; this is accepted as a
	// documented dialect gap rather than patched into the VM core, since
	// doing so would require forking the bytecode interpreter itself.
	_ = sb
}

// ScriptParseError / ScriptRuntimeError are defined in errors.go.
