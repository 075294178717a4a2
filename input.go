// input.go - per-player button state, edge detection and auto-repeat
//
// Grounded on video_backend_ebiten.go's input-polling shape (poll host
// state once per frame, expose edge/held queries to the rest of the
// engine) but generalized from that file's keyboard-event stream to the
// 6-button (left/right/up/down/o/x) per-player dpad model of spec.md §4.7.

package main

import "sync"

const (
	ButtonLeft = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonO
	ButtonX
	buttonCount
)

// btnp auto-repeat timing, in frames at 30fps (spec.md §8 property 5):
// btnp fires on the first held frame, then on every 4th frame once the
// button has been held longer than 15 frames (frames 19, 23, 27, ...).
const (
	repeatDelayFrames  = 15
	repeatIntervalFrames = 4
)

// PlayerState tracks one player's held-duration counters.
type PlayerState struct {
	heldFrames [buttonCount]int // 0 = not held; N = held for N frames (1-based)
}

// InputState holds up to 8 players' button state, snapshotted once per
// frame by the host backend via BeginFrame.
type InputState struct {
	mu      sync.Mutex
	players [8]PlayerState
}

func NewInputState() *InputState { return &InputState{} }

// BeginFrame advances held-duration counters for the frame about to run,
// given the host's freshly-polled raw boolean state for each player/button.
func (in *InputState) BeginFrame(raw [8][buttonCount]bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for p := 0; p < 8; p++ {
		for b := 0; b < buttonCount; b++ {
			if raw[p][b] {
				in.players[p].heldFrames[b]++
			} else {
				in.players[p].heldFrames[b] = 0
			}
		}
	}
}

// Btn implements btn(i, p): true if button i is currently held for player p.
func (in *InputState) Btn(i, p int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if p < 0 || p >= 8 || i < 0 || i >= buttonCount {
		return false
	}
	return in.players[p].heldFrames[i] > 0
}

// BtnBits implements btn() with no args: bitmask of all 6 buttons for
// player 0.
func (in *InputState) BtnBits(p int) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	if p < 0 || p >= 8 {
		return 0
	}
	bits := 0
	for b := 0; b < buttonCount; b++ {
		if in.players[p].heldFrames[b] > 0 {
			bits |= 1 << uint(b)
		}
	}
	return bits
}

// Btnp implements btnp(i, p): true on the press edge, and again on each
// auto-repeat tick after the button has been held past repeatDelayFrames.
func (in *InputState) Btnp(i, p int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if p < 0 || p >= 8 || i < 0 || i >= buttonCount {
		return false
	}
	n := in.players[p].heldFrames[i]
	if n == 1 {
		return true
	}
	if n <= repeatDelayFrames {
		return false
	}
	return (n-repeatDelayFrames)%repeatIntervalFrames == 0
}

// BtnpBits implements btnp() with no args for player 0.
func (in *InputState) BtnpBits(p int) int {
	bits := 0
	for b := 0; b < buttonCount; b++ {
		if in.Btnp(b, p) {
			bits |= 1 << uint(b)
		}
	}
	return bits
}

// Mouse button bits as packed by stat(34): bit0 left, bit1 right, bit2 middle.
const (
	MouseButtonLeft   = 1 << 0
	MouseButtonRight  = 1 << 1
	MouseButtonMiddle = 1 << 2
)

// MouseState holds the host-polled pointer position, buttons, wheel and
// connected-gamepad count, snapshotted once per host frame by VideoBackend
// and read by VM.Stat to back stat(29), the devkit-gated stat() ids 32-39 and
// the getMouseState() host capability (spec.md §6).
type MouseState struct {
	mu         sync.Mutex
	x, y       int
	buttons    int
	wheel      int
	relX, relY int
	gamepads   int
}

func NewMouseState() *MouseState { return &MouseState{} }

// UpdateFrame records one host frame's polled pointer/gamepad state,
// deriving the relative motion from the previous frame's position.
func (ms *MouseState) UpdateFrame(x, y, buttons, wheel, gamepads int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.relX = x - ms.x
	ms.relY = y - ms.y
	ms.x, ms.y = x, y
	ms.buttons = buttons
	ms.wheel = wheel
	ms.gamepads = gamepads
}

// Get returns the current snapshot: position, buttons, wheel delta,
// relative motion since the previous frame, and connected gamepad count.
func (ms *MouseState) Get() (x, y, buttons, wheel, relX, relY, gamepads int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.x, ms.y, ms.buttons, ms.wheel, ms.relX, ms.relY, ms.gamepads
}
