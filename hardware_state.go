// hardware_state.go - cached view of the mapping registers
//
// Grounded on registers.go's memory-map reference table style: a single
// place documenting which RAM bytes back which cached field, so reads don't
// re-decode the mapping registers on every access.

package main

// HardwareState mirrors the mapping registers at 0x5F54..0x5F58: sprite
// base (0x00 or 0x60), screen base (0x60 or 0x00), map base, and map width.
type HardwareState struct {
	SpriteBase byte
	ScreenBase byte
	MapBase    byte
	MapWidth   byte
}

// Reset restores the default (unmapped) configuration: sprite sheet at
// 0x0000, screen RAM at 0x6000, map at its default bank, default width 128.
func (h *HardwareState) Reset() {
	h.SpriteBase = 0x00
	h.ScreenBase = 0x60
	h.MapBase = 0x00
	h.MapWidth = 128
}

// MapAddr returns the absolute RAM address of map column,row given the
// current map-width register. The map-base register is not applied: the
// map always starts at AddrMap.
func (h *HardwareState) MapAddr(col, row int) int {
	width := int(h.MapWidth)
	if width == 0 {
		width = 128
	}
	return AddrMap + row*width + col
}
