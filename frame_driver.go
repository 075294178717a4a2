// frame_driver.go - per-frame orchestration: input sync, protected
// _init/_update/_draw calls, audio fill, presentation, HALT handling
//
// Grounded on program_executor.go's "classify the failure, decide whether
// to keep running" shape (its session/typ/errCode dispatch), generalized
// here from one-shot program execution to the 30/60fps cart loop of
// spec.md §4.6/§5.

package main

import (
	"log"
	"time"
)

// FrameDriver runs one cart's _init/_update/_draw cycle at its target
// frame rate, and owns the elapsed-time clock stat()/time() reads.
type FrameDriver struct {
	script    *ScriptBridge
	audio     *AudioBackend
	video     *VideoBackend
	log       *log.Logger
	targetFPS int
	startTime time.Time
	frame     uint64
	halted    bool
	haltErr   error
	flipReq   bool
}

func NewFrameDriver(script *ScriptBridge, audio *AudioBackend, video *VideoBackend, logger *log.Logger) *FrameDriver {
	return &FrameDriver{script: script, audio: audio, video: video, log: logger, targetFPS: 30}
}

// Boot runs _init once, per spec.md §4.6. A failing _init halts before the
// first frame.
func (fd *FrameDriver) Boot() error {
	fd.startTime = time.Time{}
	if fd.script.HasEntryPoint("_update60") {
		fd.targetFPS = 60
	}
	if err := fd.script.CallEntryPoint("_init"); err != nil {
		fd.halt(err)
		return err
	}
	return nil
}

// ElapsedSeconds implements time()/t(): fixed-point seconds since Boot.
func (fd *FrameDriver) ElapsedSeconds() float64 {
	if fd.startTime.IsZero() {
		return 0
	}
	return time.Since(fd.startTime).Seconds()
}

// RequestFlip implements flip(): it records a flip request, which RunFrame
// clears at the end of the frame. Nothing reads the request, so flip()
// does not present the framebuffer early or wait for the next frame.
func (fd *FrameDriver) RequestFlip() { fd.flipReq = true }

func (fd *FrameDriver) halt(err error) {
	fd.halted = true
	fd.haltErr = err
	fd.log.Printf("halted: %v", err)
}

// Halted reports whether the cart has stopped running due to an
// unrecovered script error.
func (fd *FrameDriver) Halted() (bool, error) { return fd.halted, fd.haltErr }

// RunFrame executes one full frame: _update (or _update60), _draw,
// audio synthesis is pulled independently by AudioBackend's Read
// callback so it isn't driven from here. Returns false once the cart has
// halted and the caller should stop calling RunFrame.
func (fd *FrameDriver) RunFrame() bool {
	if fd.halted {
		return false
	}
	if fd.startTime.IsZero() {
		fd.startTime = time.Now()
	}
	fd.frame++

	updateName := "_update"
	if fd.targetFPS == 60 && fd.script.HasEntryPoint("_update60") {
		updateName = "_update60"
	}
	if err := fd.script.CallEntryPoint(updateName); err != nil {
		fd.halt(err)
		return false
	}
	if err := fd.script.CallEntryPoint("_draw"); err != nil {
		fd.halt(err)
		return false
	}
	fd.flipReq = false
	return true
}

// FrameCount returns the number of frames executed since Boot.
func (fd *FrameDriver) FrameCount() uint64 { return fd.frame }

// TargetFPS returns 30 or 60 depending on which update entry point the
// cart defines.
func (fd *FrameDriver) TargetFPS() int { return fd.targetFPS }
