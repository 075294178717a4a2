// main.go - real8vm entry point
//
// Grounded on the teacher's main.go: validate args, construct peripherals
// in dependency order (here delegated to NewVM), load the requested
// program, then hand control to the video backend's run loop. The
// reference console's single positional cart-path argument replaces the
// teacher's CPU-mode/filename pair.

package main

import (
	"fmt"
	"os"
)

func main() {
	cfg, err := ParseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	vm, err := NewVM(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize virtual machine: %v\n", err)
		os.Exit(1)
	}
	defer vm.Close()

	vm.Audio.SetVolumes(cfg.VolumeSfx, cfg.VolumeMusic)

	if err := vm.LoadCart(cfg.CartPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load cart: %v\n", err)
		os.Exit(1)
	}

	if cfg.Headless {
		runHeadless(vm)
		return
	}

	if err := vm.VideoOut.Start("real8vm"); err != nil {
		fmt.Fprintf(os.Stderr, "video backend error: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless drives the frame loop directly without opening a window, for
// scripted testing and CI (spec.md's headless Non-goal excludes a GUI but
// not a programmatic entry point).
func runHeadless(vm *VM) {
	for i := 0; i < 300; i++ {
		if !vm.Driver.RunFrame() {
			if halted, herr := vm.Driver.Halted(); halted {
				fmt.Fprintf(os.Stderr, "cart halted: %v\n", herr)
			}
			return
		}
	}
}
