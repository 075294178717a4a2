package main

import "testing"

func TestParseP8TextLuaSection(t *testing.T) {
	src := "pico-8 cartridge // http://www.pico-8.com\n" +
		"version 42\n" +
		"__lua__\n" +
		"function _init()\n" +
		"end\n"
	c, err := ParseP8Text(src, "test.p8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Code != "function _init()\nend\n" {
		t.Fatalf("got code %q", c.Code)
	}
}

func TestParseP8TextGfxSection(t *testing.T) {
	src := "pico-8 cartridge\n" +
		"__gfx__\n" +
		"0123456789abcdef" + strRepeat("0", 112) + "\n"
	c, err := ParseP8Text(src, "test.p8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// nibbles stored low-nibble-first per byte: "01" -> byte 0x10.
	if c.Gfx[0] != 0x10 {
		t.Fatalf("got %#x, want 0x10", c.Gfx[0])
	}
	if c.Gfx[1] != 0x32 {
		t.Fatalf("got %#x, want 0x32", c.Gfx[1])
	}
}

func TestParseP8TextMusicSection(t *testing.T) {
	src := "pico-8 cartridge\n" +
		"__music__\n" +
		"00 01 02 03 44\n"
	c, err := ParseP8Text(src, "test.p8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x44}
	for i, w := range want {
		if c.Music[i] != w {
			t.Fatalf("got %v, want %v", c.Music[:4], want)
		}
	}
}

func strRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
