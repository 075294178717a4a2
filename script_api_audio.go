// script_api_audio.go - sound/music console API bindings (sfx, music, ...)
//
// Grounded on audio_engine.go's already-built AudioEngine methods.

package main

import lua "github.com/yuin/gopher-lua"

func (sb *ScriptBridge) registerAudioAPI() {
	aud := sb.vm.Audio

	sb.reg("sfx", func(L *lua.LState) int {
		id := argInt(L, 1, 0)
		ch := argInt(L, 2, -1)
		offset := argInt(L, 3, 0)
		length := argInt(L, 4, 0)
		aud.Sfx(id, ch, offset, length)
		return 0
	})
	sb.reg("music", func(L *lua.LState) int {
		pat := argInt(L, 1, -1)
		fadeMs := argInt(L, 2, 0)
		mask := argInt(L, 3, 0)
		aud.Music(pat, fadeMs, mask)
		return 0
	})
}
