package main

import "testing"

func newTestMemory() *Memory {
	gfx := &GpuState{}
	gfx.Reset()
	fb := &Framebuffer{}
	return NewMemory(gfx, fb)
}

func TestPeekPokeByte(t *testing.T) {
	m := newTestMemory()
	m.Poke(0x4300, 0x42)
	if got := m.Peek(0x4300); got != 0x42 {
		t.Fatalf("got %#x, want 0x42", got)
	}
}

func TestPeekPoke2(t *testing.T) {
	m := newTestMemory()
	m.Poke2(0x4300, 0x1234)
	if got := m.Peek2(0x4300); got != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", got)
	}
}

func TestPeekPoke4(t *testing.T) {
	m := newTestMemory()
	m.Poke4(0x4300, 0xdeadbeef)
	if got := m.Peek4(0x4300); got != 0xdeadbeef {
		t.Fatalf("got %#x, want 0xdeadbeef", got)
	}
}

func TestMemcpy(t *testing.T) {
	m := newTestMemory()
	m.PokeMany(0x4300, []byte{1, 2, 3, 4})
	m.Memcpy(0x4400, 0x4300, 4)
	got := m.PeekN(0x4400, 4)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMemset(t *testing.T) {
	m := newTestMemory()
	m.Memset(0x4300, 0xAB, 3)
	got := m.PeekN(0x4300, 3)
	for _, b := range got {
		if b != 0xAB {
			t.Fatalf("got %v, want all 0xAB", got)
		}
	}
}

func TestRegionReadWriteRoundtrip(t *testing.T) {
	m := newTestMemory()
	data := []byte{9, 8, 7, 6, 5}
	m.RegionCopy(0x4300, data)
	got := m.RegionRead(0x4300, len(data))
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("got %v, want %v", got, data)
		}
	}
}
