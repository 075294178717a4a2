// audio_backend.go - oto v3 host audio output
//
// Grounded on audio_backend_oto.go's OtoPlayer: an io.Reader pulled by oto's
// own mixer goroutine, with an atomic pointer to the engine so the hot Read
// path never takes a lock, retargeted from that file's ring-buffer
// SoundChip source to AudioEngine.Fill's per-sample synthesis.

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// AudioBackend drives an AudioEngine through an oto player, producing
// signed-16-bit mono audio at SampleRate.
type AudioBackend struct {
	ctx     *oto.Context
	player  *oto.Player
	engine  atomic.Pointer[AudioEngine]
	fps     atomic.Int64
	started bool
	scratch []int16
	mu      sync.Mutex
}

func NewAudioBackend() (*AudioBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	ab := &AudioBackend{ctx: ctx}
	ab.fps.Store(60)
	return ab, nil
}

// Attach wires the backend to the engine it should pull samples from and
// starts playback.
func (ab *AudioBackend) Attach(engine *AudioEngine, targetFPS int) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.engine.Store(engine)
	ab.fps.Store(int64(targetFPS))
	if ab.player == nil {
		ab.player = ab.ctx.NewPlayer(ab)
		ab.scratch = make([]int16, SampleRate)
	}
	if !ab.started {
		ab.player.Play()
		ab.started = true
	}
}

// Read implements io.Reader for oto's pull model: p is a byte buffer of
// signed-16-bit LE mono samples to fill.
func (ab *AudioBackend) Read(p []byte) (int, error) {
	engine := ab.engine.Load()
	if engine == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := len(p) / 2
	if cap(ab.scratch) < n {
		ab.scratch = make([]int16, n)
	}
	samples := ab.scratch[:n]
	engine.Fill(samples, n, int(ab.fps.Load()))
	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:n*2])
	return n * 2, nil
}

func (ab *AudioBackend) Stop() {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	if ab.started && ab.player != nil {
		ab.player.Close()
		ab.started = false
	}
}

func (ab *AudioBackend) Close() {
	ab.Stop()
}
