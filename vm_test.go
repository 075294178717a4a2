package main

import "testing"

func newTestVM(t *testing.T) *VM {
	t.Helper()
	cfg := &Config{CartDataDir: t.TempDir(), Headless: true, ExtraArgs: []string{"--debug", "level3"}}
	vm, err := NewVM(cfg)
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	return vm
}

func TestStatVersionAndCmdline(t *testing.T) {
	vm := newTestVM(t)
	if got := vm.Stat(5); got.kind != 'n' || got.num != 41 {
		t.Fatalf("stat(5): got %+v, want numeric 41", got)
	}
	if got := vm.Stat(6); got.kind != 's' || got.str != "--debug level3" {
		t.Fatalf("stat(6): got %+v, want %q", got, "--debug level3")
	}
}

func TestStatCartLabelAndPath(t *testing.T) {
	vm := newTestVM(t)
	if got := vm.Stat(100); got.kind != 's' || got.str != "" {
		t.Fatalf("stat(100) with no cart loaded: got %+v, want empty string", got)
	}
	vm.CurrentCart = &CartImage{Path: "/carts/mygame.p8"}
	if got := vm.Stat(100); got.str != "mygame.p8" {
		t.Fatalf("stat(100): got %q, want %q", got.str, "mygame.p8")
	}
	if got := vm.Stat(124); got.str != "/carts/mygame.p8" {
		t.Fatalf("stat(124): got %q, want %q", got.str, "/carts/mygame.p8")
	}
}

func TestStatMemUsageIsPositive(t *testing.T) {
	vm := newTestVM(t)
	got := vm.Stat(0)
	if got.kind != 'n' || got.num <= 0 {
		t.Fatalf("stat(0): got %+v, want a positive KB figure", got)
	}
}

func TestStatMouseGatedByDevkitFlag(t *testing.T) {
	vm := newTestVM(t)
	vm.Mouse.UpdateFrame(64, 32, MouseButtonLeft, 1, 2)

	if got := vm.Stat(32); got.num != 0 {
		t.Fatalf("stat(32) without devkit flag: got %+v, want 0", got)
	}
	if got := vm.Stat(34); got.num != 0 {
		t.Fatalf("stat(34) without devkit flag: got %+v, want 0", got)
	}

	vm.Mem.Poke(AddrDevkit, 0x01)
	if got := vm.Stat(32); got.num != 64 {
		t.Fatalf("stat(32) with devkit flag: got %+v, want 64", got)
	}
	if got := vm.Stat(33); got.num != 32 {
		t.Fatalf("stat(33) with devkit flag: got %+v, want 32", got)
	}
	if got := vm.Stat(34); got.num != MouseButtonLeft {
		t.Fatalf("stat(34) with devkit flag: got %+v, want %d", got, MouseButtonLeft)
	}
	// relative motion (38/39) additionally needs the pointer-lock bit.
	if got := vm.Stat(38); got.num != 0 {
		t.Fatalf("stat(38) without ptr_lock: got %+v, want 0", got)
	}
	vm.Mem.Poke(AddrDevkit, 0x01|0x04)
	if got := vm.Stat(38); got.num != 64 {
		t.Fatalf("stat(38) with ptr_lock: got %+v, want 64 (delta from 0)", got)
	}
}

func TestStatControllerCountIsFixedPoint(t *testing.T) {
	vm := newTestVM(t)
	vm.Mouse.UpdateFrame(0, 0, 0, 0, 2)
	got := vm.Stat(29)
	want := 2.0 / 65536.0
	if got.num != want {
		t.Fatalf("stat(29): got %v, want %v", got.num, want)
	}
}
