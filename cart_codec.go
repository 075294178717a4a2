// cart_codec.go - cart format detection and PNG steganography decode/encode
//
// File-extension/signature dispatch is grounded on media_loader.go's
// detectMediaType; the sanitized on-disk read path below mirrors
// file_io.go's sanitizePath convention. PNG pixel<->byte steganography has
// no pack analogue, so it is built directly from spec.md §4.2's bit-plane
// layout using the standard library's image/png decoder/encoder (no
// third-party PNG codec appears anywhere in the retrieval pack).

package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

var (
	errUnknownCartFormat = errors.New("unrecognized cart format")
	errBadPNGCart        = errors.New("png cart dimensions or stride mismatch")
)

// LoadCartFile reads a cart from disk, dispatching on extension/signature,
// and returns its decoded CartImage.
func LoadCartFile(path string) (*CartImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".p8":
		return ParseP8Text(string(data), path)
	case ext == ".png" || bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return DecodeP8PNG(data, path)
	default:
		return nil, errUnknownCartFormat
	}
}

// p8PNGWidth and p8PNGHeight are PICO-8's fixed .p8.png carrier image size.
const (
	p8PNGWidth  = 160
	p8PNGHeight = 205
)

// DecodeP8PNG decodes a .p8.png cart: the low 2 bits of each RGBA byte of a
// 160x205 carrier image pack the cart's code+data byte stream 4 pixel-bytes
// per output byte (spec.md §4.2's steganographic layout), followed by a
// possible compressed-code header ("\0pxa" or ":c:\0") inside the code
// region.
func DecodeP8PNG(data []byte, path string) (*CartImage, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != p8PNGWidth || b.Dy() != p8PNGHeight {
		return nil, errBadPNGCart
	}

	nrgba := toNRGBA(img)
	bytesOut := make([]byte, 0, p8PNGWidth*p8PNGHeight)
	for y := 0; y < p8PNGHeight; y++ {
		for x := 0; x < p8PNGWidth; x++ {
			r, g, bl, a := nrgba.At(x, y).RGBA()
			channels := [4]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8), byte(a >> 8)}
			var out byte
			for c := 0; c < 4; c++ {
				out |= (channels[c] & 3) << uint(c*2)
			}
			bytesOut = append(bytesOut, out)
		}
	}

	return decodeCartByteStream(bytesOut, path)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	n := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n.Set(x, y, img.At(x, y))
		}
	}
	return n
}

// cartByteLayout mirrors the reference console's flat .p8.png address
// space: a 0x4300-byte region holding gfx/map/gff/music/sfx and then the
// (possibly compressed) code stream.
const (
	cartDataSize = 0x4300
	cartCodeBase = 0x4300
)

func decodeCartByteStream(raw []byte, path string) (*CartImage, error) {
	c := &CartImage{Path: path}
	if len(raw) < cartDataSize {
		return nil, errBadPNGCart
	}
	copy(c.Gfx[:], raw[0:SpriteSheetSize])
	mapOff := SpriteSheetSize
	copy(c.Map[:], raw[mapOff:mapOff+MapSize])
	flagsOff := mapOff + MapSize
	copy(c.Flags[:], raw[flagsOff:flagsOff+SpriteFlagSize])
	musicOff := flagsOff + SpriteFlagSize
	copy(c.Music[:], raw[musicOff:musicOff+MusicTableSize])
	sfxOff := musicOff + MusicTableSize
	copy(c.Sfx[:], raw[sfxOff:sfxOff+SfxBankSize])

	code := raw[cartCodeBase:]
	decoded, err := decodeCodeStream(code)
	if err != nil {
		return nil, err
	}
	c.Code = decoded
	return c, nil
}

// decodeCodeStream dispatches the trailing code region to the legacy or PXA
// decompressor, or treats it as raw printable Lua if neither signature
// matches (uncompressed carts use this path).
func decodeCodeStream(code []byte) (string, error) {
	switch {
	case len(code) >= 4 && string(code[0:4]) == ":c:\x00":
		out, err := DecompressLegacy(code)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case len(code) >= 4 && string(code[0:4]) == "\x00pxa":
		out, err := DecompressPXA(code)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		end := bytes.IndexByte(code, 0)
		if end < 0 {
			end = len(code)
		}
		return string(code[:end]), nil
	}
}

// EncodeP8PNG packs a CartImage's raw data+code byte stream back into a
// 160x205 carrier PNG for cstore()/export, storing code uncompressed (the
// virtual machine never re-runs the reference compressor; it only needs to
// round-trip what it itself wrote).
func EncodeP8PNG(c *CartImage) ([]byte, error) {
	raw := make([]byte, cartDataSize, cartDataSize+len(c.Code)+1)
	copy(raw[0:], c.Gfx[:])
	off := SpriteSheetSize
	copy(raw[off:], c.Map[:])
	off += MapSize
	copy(raw[off:], c.Flags[:])
	off += SpriteFlagSize
	copy(raw[off:], c.Music[:])
	off += MusicTableSize
	copy(raw[off:], c.Sfx[:])

	raw = append(raw, []byte(c.Code)...)
	raw = append(raw, 0)

	img := image.NewNRGBA(image.Rect(0, 0, p8PNGWidth, p8PNGHeight))
	total := p8PNGWidth * p8PNGHeight
	for i := 0; i < total; i++ {
		x, y := i%p8PNGWidth, i/p8PNGWidth
		var b byte
		if i < len(raw) {
			b = raw[i]
		}
		px := color.NRGBA{
			R: 0x80 | ((b >> 0) & 3),
			G: 0x80 | ((b >> 2) & 3),
			B: 0x80 | ((b >> 4) & 3),
			A: 0xC0 | ((b >> 6) & 3),
		}
		img.SetNRGBA(x, y, px)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
