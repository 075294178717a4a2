// video_backend.go - ebiten v2 host video/input backend
//
// Grounded on video_backend_ebiten.go's "own an ebiten.Game, run it on a
// goroutine, expose a host-agnostic push/pull surface to the rest of the
// engine" shape, retargeted from that file's raw-RGBA framebuffer blit and
// keyboard-paste-event model to the console's 128x128 indexed framebuffer
// and per-player 6-button dpad polling.

package main

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// keymapEntry binds one logical button to a primary and alternate key for
// player 0 (the only player with a physical keyboard mapping; players 1-7
// are gamepad-only).
type keymapEntry struct {
	key ebiten.Key
	alt ebiten.Key
}

var player0Keymap = [buttonCount]keymapEntry{
	ButtonLeft:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	ButtonRight: {ebiten.KeyArrowRight, ebiten.KeyD},
	ButtonUp:    {ebiten.KeyArrowUp, ebiten.KeyW},
	ButtonDown:  {ebiten.KeyArrowDown, ebiten.KeyS},
	ButtonO:     {ebiten.KeyZ, ebiten.KeyC},
	ButtonX:     {ebiten.KeyX, ebiten.KeyV},
}

// VideoBackend owns the ebiten window, converts the 128x128 indexed
// framebuffer to an RGBA texture each draw, and feeds InputState from
// keyboard + gamepad polling.
type VideoBackend struct {
	mu       sync.Mutex
	fb       *Framebuffer
	pal      *Palette
	in       *InputState
	mouse    *MouseState
	img      *ebiten.Image
	scale    int
	running  bool
	pixelBuf []byte
}

func NewVideoBackend(fb *Framebuffer, pal *Palette, in *InputState, mouse *MouseState) *VideoBackend {
	return &VideoBackend{
		fb:       fb,
		pal:      pal,
		in:       in,
		mouse:    mouse,
		scale:    4,
		img:      ebiten.NewImage(ScreenW, ScreenH),
		pixelBuf: make([]byte, ScreenW*ScreenH*4),
	}
}

// Start launches the ebiten game loop on the calling goroutine; ebiten
// requires this to be the process's main goroutine.
func (vb *VideoBackend) Start(title string) error {
	vb.running = true
	ebiten.SetWindowSize(ScreenW*vb.scale, ScreenH*vb.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(vb)
}

// Update implements ebiten.Game: poll input once per host frame.
func (vb *VideoBackend) Update() error {
	var raw [8][buttonCount]bool
	for b := 0; b < buttonCount; b++ {
		entry := player0Keymap[b]
		raw[0][b] = ebiten.IsKeyPressed(entry.key) || ebiten.IsKeyPressed(entry.alt)
	}
	for p, id := range ebiten.AppendGamepadIDs(nil) {
		if p+1 >= 8 {
			break
		}
		raw[p+1][ButtonLeft] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
		raw[p+1][ButtonRight] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
		raw[p+1][ButtonUp] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop)
		raw[p+1][ButtonDown] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
		raw[p+1][ButtonO] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		raw[p+1][ButtonX] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
	}
	vb.in.BeginFrame(raw)

	mx, my := ebiten.CursorPosition()
	if mx < 0 {
		mx = 0
	} else if mx > ScreenW-1 {
		mx = ScreenW - 1
	}
	if my < 0 {
		my = 0
	} else if my > ScreenH-1 {
		my = ScreenH - 1
	}
	buttons := 0
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= MouseButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= MouseButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= MouseButtonMiddle
	}
	_, wheelY := ebiten.Wheel()
	wheel := 0
	switch {
	case wheelY > 0:
		wheel = 1
	case wheelY < 0:
		wheel = -1
	}
	vb.mouse.UpdateFrame(mx, my, buttons, wheel, len(ebiten.AppendGamepadIDs(nil)))
	return nil
}

// Draw implements ebiten.Game: blit the indexed framebuffer through the
// screen palette into the ebiten texture.
func (vb *VideoBackend) Draw(screen *ebiten.Image) {
	vb.mu.Lock()
	pal := *vb.pal
	vb.mu.Unlock()

	for y := 0; y < ScreenH; y++ {
		for x := 0; x < ScreenW; x++ {
			idx := vb.fb.Get(x, y)
			rgb := pico8Palette[pal.Screen[idx&0xF]&0xF]
			off := (y*ScreenW + x) * 4
			vb.pixelBuf[off] = rgb.R
			vb.pixelBuf[off+1] = rgb.G
			vb.pixelBuf[off+2] = rgb.B
			vb.pixelBuf[off+3] = 0xFF
		}
	}
	vb.img.WritePixels(vb.pixelBuf)
	screen.DrawImage(vb.img, nil)
}

func (vb *VideoBackend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenW, ScreenH
}

// pico8Palette is the reference console's fixed 16-color system palette
// (spec.md §4.3).
var pico8Palette = [16]color.RGBA{
	{0, 0, 0, 255}, {29, 43, 83, 255}, {126, 37, 83, 255}, {0, 135, 81, 255},
	{171, 82, 54, 255}, {95, 87, 79, 255}, {194, 195, 199, 255}, {255, 241, 232, 255},
	{255, 0, 77, 255}, {255, 163, 0, 255}, {255, 236, 39, 255}, {0, 228, 54, 255},
	{41, 173, 255, 255}, {131, 118, 156, 255}, {255, 119, 168, 255}, {255, 204, 170, 255},
}
