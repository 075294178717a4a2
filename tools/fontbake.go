// fontbake.go - bake a PNG glyph sheet into a Go source table
// (bakedFont4x6) in the same 6-row, 4-bit layout as gpu_text.go's
// builtinFont4x6; gpu_text.go does not use the generated table
//
// Adapted from font2rgba.go's "decode PNG, rewrite pixels into a
// blitter-ready form, regenerate an asset the main module ships" shape;
// retargeted from an RGBA-with-alpha-keying blitter asset to a packed
// 4-bits-per-row bitmap font table, and from a hardcoded development-machine
// path to a CLI argument.
//
// Usage: go run ./tools/fontbake.go <sheet.png> <cols> <rows> > font_table.go
// The sheet is expected to hold one glyph per cols x rows cell, each cell
// at least 4x6 pixels, ASCII 32.. in reading order; a pixel counts as "set"
// if its red channel is below 128.

package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: fontbake <sheet.png> <cols> <rows>")
		os.Exit(1)
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(1)
	}

	cols, _ := strconv.Atoi(os.Args[2])
	rows, _ := strconv.Atoi(os.Args[3])
	if cols <= 0 || rows <= 0 {
		fmt.Fprintln(os.Stderr, "cols/rows must be positive")
		os.Exit(1)
	}

	b := img.Bounds()
	cellW, cellH := b.Dx()/cols, b.Dy()/rows

	fmt.Println("// Code generated by tools/fontbake.go. DO NOT EDIT.")
	fmt.Println()
	fmt.Println("package main")
	fmt.Println()
	fmt.Println("var bakedFont4x6 = map[byte][6]byte{")

	ch := byte(32)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var glyph [6]byte
			ox, oy := b.Min.X+col*cellW, b.Min.Y+row*cellH
			for gy := 0; gy < 6 && gy < cellH; gy++ {
				var bits byte
				for gx := 0; gx < 4 && gx < cellW; gx++ {
					r, _, _, _ := img.At(ox+gx, oy+gy).RGBA()
					if byte(r>>8) < 128 {
						bits |= 1 << uint(3-gx)
					}
				}
				glyph[gy] = bits
			}
			fmt.Printf("\t%d: {%d, %d, %d, %d, %d, %d},\n", ch,
				glyph[0], glyph[1], glyph[2], glyph[3], glyph[4], glyph[5])
			ch++
		}
	}
	fmt.Println("}")
}
