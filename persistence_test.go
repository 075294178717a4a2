package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCartDataRoundtrip(t *testing.T) {
	p := NewPersistence(t.TempDir())
	if !p.OpenCartData("mygame") {
		t.Fatal("expected OpenCartData to succeed")
	}
	p.DataSet(0, NumFromInt(42))
	p.DataSet(63, NumFromInt(-7))

	p2 := NewPersistence(p.baseDir)
	if !p2.OpenCartData("mygame") {
		t.Fatal("expected reopen to succeed")
	}
	if got := p2.DataGet(0); got.Int() != 42 {
		t.Fatalf("slot 0: got %d, want 42", got.Int())
	}
	if got := p2.DataGet(63); got.Int() != -7 {
		t.Fatalf("slot 63: got %d, want -7", got.Int())
	}
}

func TestCartDataRejectsUnsafeID(t *testing.T) {
	p := NewPersistence(t.TempDir())
	if p.OpenCartData("../escape") {
		t.Fatal("expected path-escaping id to be rejected")
	}
}

func TestSaveStateLoadStateRoundtrip(t *testing.T) {
	var snap StateSnapshot
	snap.RAM[0] = 0xAB
	snap.GPU.Reset()
	snap.GPU.CursorX = 7
	snap.GPU.CursorY = -3
	snap.Pal.Reset()
	snap.HW.Reset()

	path := filepath.Join(t.TempDir(), "test.r8state")
	if err := SaveState(path, &snap); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got.RAM[0] != 0xAB {
		t.Fatalf("RAM[0]: got %#x, want 0xAB", got.RAM[0])
	}
	if got.GPU.CursorX != 7 || got.GPU.CursorY != -3 {
		t.Fatalf("GPU cursor: got (%d,%d), want (7,-3)", got.GPU.CursorX, got.GPU.CursorY)
	}
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.r8state")
	if err := os.WriteFile(path, []byte("not a save state"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := LoadState(path); err == nil {
		t.Fatal("expected error for corrupt header")
	}
}
