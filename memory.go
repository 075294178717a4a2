// memory.go - 32KiB memory-mapped RAM model
//
// Grounded on the teacher's memory_bus.go SystemBus/IORegion pattern: a
// single authoritative backing store plus a synchronous dispatcher that
// fires on writes into a register range. PICO-8's memory map is fixed, not
// a registration table, so the dispatcher here is a hardcoded range check
// rather than the teacher's generic page-keyed map.

package main

import "sync"

// Memory is the VM's 32KiB address space with named overlapping regions and
// the sprite-sheet/screen-RAM aliasing rule from spec.md §4.3.
type Memory struct {
	mu  sync.Mutex
	raw [RAMSize]byte

	hw   HardwareState
	pal  Palette
	gfx  *GpuState
	fb   *Framebuffer
}

// NewMemory constructs a zeroed address space wired to the given GPU state
// and framebuffer (for the screen-RAM <-> framebuffer coherence rule).
func NewMemory(gfx *GpuState, fb *Framebuffer) *Memory {
	m := &Memory{gfx: gfx, fb: fb}
	m.hw.Reset()
	m.pal.Reset()
	return m
}

// Reset zeroes RAM and all cached hardware state.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.raw {
		m.raw[i] = 0
	}
	m.hw.Reset()
	m.pal.Reset()
}

func (m *Memory) mappingActive() bool {
	return m.hw.SpriteBase == 0x60 || m.hw.ScreenBase == 0
}

// Peek reads one byte honoring the sprite/screen aliasing rule.
func (m *Memory) Peek(addr int) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peekLocked(addr)
}

func (m *Memory) peekLocked(addr int) byte {
	if addr < 0 || addr >= RAMSize {
		return 0
	}
	if m.mappingActive() {
		switch {
		case addr >= AddrGfx && addr < AddrGfxEnd:
			return m.reconstructScreenByteLocked(addr + 0x6000)
		case addr >= AddrScreen && addr < AddrScreenEnd:
			if m.hw.SpriteBase == 0x60 {
				return m.raw[addr-0x6000]
			}
			return m.reconstructScreenByteLocked(addr)
		}
	}
	if addr >= AddrScreen && addr < AddrScreenEnd {
		return m.reconstructScreenByteLocked(addr)
	}
	return m.raw[addr]
}

// reconstructScreenByteLocked returns the packed byte for screen address
// addr (in [0x6000,0x8000)), pulling from the framebuffer when the RAM
// mirror might be stale, and caching the result back into RAM.
func (m *Memory) reconstructScreenByteLocked(addr int) byte {
	off := addr - AddrScreen
	y := off / (ScreenW / 2)
	x := (off % (ScreenW / 2)) * 2
	lo := m.fb.Get(x, y) & 0xF
	hi := m.fb.Get(x+1, y) & 0xF
	b := lo | (hi << 4)
	m.raw[addr] = b
	return b
}

// Poke writes one byte, honoring aliasing and keeping the framebuffer
// mirror coherent, then runs the register-sync pass if addr falls in the
// hardware register window.
func (m *Memory) Poke(addr int, v byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pokeLocked(addr, v)
}

func (m *Memory) pokeLocked(addr int, v byte) {
	if addr < 0 || addr >= RAMSize {
		return
	}
	target := addr
	if m.mappingActive() {
		switch {
		case addr >= AddrGfx && addr < AddrGfxEnd:
			target = addr + 0x6000
		case addr >= AddrScreen && addr < AddrScreenEnd && m.hw.SpriteBase == 0x60:
			target = addr - 0x6000
		}
	}
	m.raw[target] = v
	if target >= AddrScreen && target < AddrScreenEnd {
		m.syncFramebufferFromByteLocked(target, v)
	}
	if addr >= AddrDrawPal && addr < AddrRegsEnd {
		m.registerSyncLocked(addr, addr+1)
	}
}

func (m *Memory) syncFramebufferFromByteLocked(addr int, v byte) {
	off := addr - AddrScreen
	y := off / (ScreenW / 2)
	x := (off % (ScreenW / 2)) * 2
	m.fb.Set(x, y, v&0xF)
	m.fb.Set(x+1, y, (v>>4)&0xF)
}

// Peek2/Peek4 read little-endian multi-byte values.
func (m *Memory) Peek2(addr int) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	lo := m.peekLocked(addr)
	hi := m.peekLocked(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (m *Memory) Peek4(addr int) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(m.peekLocked(addr+i)) << (8 * i)
	}
	return v
}

// Peek4Num returns a Q16.16 Num built directly from 4 bytes at addr.
func (m *Memory) Peek4Num(addr int) Num {
	return Num(NumFromBits(int32(m.Peek4(addr))))
}

// Poke2/Poke4 write little-endian multi-byte values (added per
// SPEC_FULL's supplemented-features list: symmetry with peek2/peek4).
func (m *Memory) Poke2(addr int, v uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pokeLocked(addr, byte(v))
	m.pokeLocked(addr+1, byte(v>>8))
}

func (m *Memory) Poke4(addr int, v uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < 4; i++ {
		m.pokeLocked(addr+i, byte(v>>(8*i)))
	}
}

// PokeMany writes consecutive bytes starting at addr (poke's documented
// multi-value form).
func (m *Memory) PokeMany(addr int, vs []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range vs {
		m.pokeLocked(addr+i, v)
	}
}

// PeekN reads n consecutive bytes starting at addr (peek's n-result form).
func (m *Memory) PeekN(addr, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = m.peekLocked(addr + i)
	}
	return out
}

// Memcpy copies length bytes from src to dst, memmove-style (safe for
// overlap), reconstructing from the framebuffer when the source range
// touches screen RAM.
func (m *Memory) Memcpy(dst, src, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if length <= 0 {
		return
	}
	buf := make([]byte, length)
	for i := 0; i < length; i++ {
		buf[i] = m.peekLocked(src + i)
	}
	for i := 0; i < length; i++ {
		m.pokeLocked(dst+i, buf[i])
	}
}

// Memset fills length bytes starting at dst with v, poking one byte at a
// time; there is no separate fast path for solid-color fills.
func (m *Memory) Memset(dst int, v byte, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < length; i++ {
		m.pokeLocked(dst+i, v)
	}
}

// RegionCopy is a convenience used by CartImage / save-state code to bulk
// write a region without going through per-byte register-sync (the caller
// is expected to call SyncAllRegisters afterward if needed).
func (m *Memory) RegionCopy(dst int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.raw[dst:dst+len(data)], data)
}

// RegionRead copies length bytes out of RAM directly (no aliasing), used by
// save-state snapshotting.
func (m *Memory) RegionRead(src int, length int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, length)
	copy(out, m.raw[src:src+length])
	return out
}

// SyncAllRegisters re-runs the register-sync pass over the whole hardware
// register window; used after a bulk load (cart reset, loadState).
func (m *Memory) SyncAllRegisters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerSyncLocked(AddrDrawPal, AddrRegsEnd)
}

// registerSyncLocked updates cached state (palette maps, clip, camera,
// transparency mask, draw mask, mapping registers) for the touched byte
// range. The pass is idempotent and bounded to [lo,hi).
func (m *Memory) registerSyncLocked(lo, hi int) {
	if overlap(lo, hi, AddrDrawPal, AddrDrawPalEnd) {
		for i := 0; i < 16; i++ {
			m.pal.Draw[i] = m.raw[AddrDrawPal+i] & 0x1F
		}
	}
	if overlap(lo, hi, AddrScreenPal, AddrScreenPalEnd) {
		for i := 0; i < 16; i++ {
			m.pal.Screen[i] = m.raw[AddrScreenPal+i] & 0x1F
		}
	}
	if overlap(lo, hi, AddrClip, AddrClipEnd) {
		m.gfx.ClipX0 = int(m.raw[AddrClip])
		m.gfx.ClipY0 = int(m.raw[AddrClip+1])
		m.gfx.ClipX1 = int(m.raw[AddrClip+2])
		m.gfx.ClipY1 = int(m.raw[AddrClip+3])
	}
	if overlap(lo, hi, AddrCamera, AddrCameraEnd) {
		m.gfx.CameraX = int(int16(uint16(m.raw[AddrCamera]) | uint16(m.raw[AddrCamera+1])<<8))
		m.gfx.CameraY = int(int16(uint16(m.raw[AddrCamera+2]) | uint16(m.raw[AddrCamera+3])<<8))
	}
	if overlap(lo, hi, AddrScreenMode, AddrScreenMode+1) {
		m.gfx.ScreenMode = m.raw[AddrScreenMode]
	}
	if overlap(lo, hi, AddrDevkit, AddrDevkit+1) {
		m.gfx.Devkit = m.raw[AddrDevkit]
	}
	if overlap(lo, hi, AddrMapRegs, AddrMapRegsEnd) {
		m.hw.SpriteBase = m.raw[AddrMapRegs]
		m.hw.ScreenBase = m.raw[AddrMapRegs+1]
		m.hw.MapBase = m.raw[AddrMapRegs+2]
		m.hw.MapWidth = m.raw[AddrMapRegs+3]
	}
	if overlap(lo, hi, AddrTransMask, AddrTransMaskEnd) {
		mask := uint16(m.raw[AddrTransMask]) | uint16(m.raw[AddrTransMask+1])<<8
		for i := 0; i < 16; i++ {
			m.gfx.PaltMap[i] = (mask>>i)&1 != 0
		}
		m.gfx.TransMask = mask
	}
	if overlap(lo, hi, AddrDrawMask, AddrDrawMask+1) {
		m.gfx.DrawMask = m.raw[AddrDrawMask]
	}
}

func overlap(lo, hi, rlo, rhi int) bool { return lo < rhi && hi > rlo }

// SetPalt synchronizes the transparency mask representation back into RAM
// when ScriptBridge mutates it via palt() rather than a direct poke, so the
// two representations (16-bit mask, palt_map[16]) never drift apart.
func (m *Memory) SetPalt(idx int, transparent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mask := uint16(m.raw[AddrTransMask]) | uint16(m.raw[AddrTransMask+1])<<8
	if transparent {
		mask |= 1 << uint(idx)
	} else {
		mask &^= 1 << uint(idx)
	}
	m.raw[AddrTransMask] = byte(mask)
	m.raw[AddrTransMask+1] = byte(mask >> 8)
	m.registerSyncLocked(AddrTransMask, AddrTransMaskEnd)
}

// SetPal writes one draw- or screen-palette entry, keeping RAM authoritative.
func (m *Memory) SetPal(idx int, color byte, isScreen bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isScreen {
		m.raw[AddrScreenPal+idx] = color
		m.registerSyncLocked(AddrScreenPal, AddrScreenPalEnd)
	} else {
		m.raw[AddrDrawPal+idx] = color
		m.registerSyncLocked(AddrDrawPal, AddrDrawPalEnd)
	}
}

// HardwareStateSnapshot returns a copy of the cached mapping-register view.
func (m *Memory) HardwareStateSnapshot() HardwareState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hw
}
