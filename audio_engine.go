// audio_engine.go - 4-channel SFX synthesizer
//
// Structurally grounded on sid_engine.go's ADSR envelope ramp and
// psg_engine.go's tone/noise generator split, retargeted from chip-accurate
// SID/AY register semantics to PICO-8's 6-waveform + noise-LFSR + arpeggio
// SFX format (spec.md §4.5).

package main

import (
	"math"
	"sync"
)

const (
	SampleRate       = 22050
	channelCount     = 4
	envelopeRampLen  = 128
	noiseRelease4x   = 4 // release fades over SampleRate/4 samples
)

// SfxChannel is the per-channel playback state from spec.md §3.
type SfxChannel struct {
	Active     bool
	SfxID      int
	Row        int
	EndRow     int
	Phase      Num // Q16.16 phase accumulator
	Volume     float64
	targetVol  float64
	lfsr       uint16
	ticksLeft  int
	prevPitch  int
	releasing  bool
	releaseLeft int
	Loop       bool
}

// AudioEngine owns the 4 SFX channels and the music sequencer, and produces
// the signed-16-bit mono sample stream §4.5's scheduling model describes.
type AudioEngine struct {
	mu       sync.Mutex
	mem      *Memory
	channels [channelCount]SfxChannel
	music    MusicState
	volSfx   int
	volMusic int
}

func NewAudioEngine(mem *Memory) *AudioEngine {
	a := &AudioEngine{mem: mem, volSfx: 10, volMusic: 10}
	for i := range a.channels {
		a.channels[i].lfsr = 0x1
	}
	a.music.Pattern = -1
	return a
}

func (a *AudioEngine) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.channels {
		a.channels[i] = SfxChannel{lfsr: 1}
	}
	a.music = MusicState{Pattern: -1}
}

// Sfx implements sfx(id, ch, offset, length). id=-1 stops ch; id=-2
// releases it (quarter-second decay rather than instant cutoff).
func (a *AudioEngine) Sfx(id, ch, offset, length int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id == -1 {
		a.stopChannelLocked(ch, false)
		return
	}
	if id == -2 {
		a.stopChannelLocked(ch, true)
		return
	}
	if ch == -1 {
		ch = a.pickFreeChannelLocked()
	}
	if ch < 0 || ch >= channelCount {
		return
	}
	endRow := 32
	if length > 0 {
		endRow = offset + length
	}
	a.channels[ch] = SfxChannel{
		Active: true,
		SfxID:  id,
		Row:    offset,
		EndRow: endRow,
		lfsr:   1,
	}
}

func (a *AudioEngine) stopChannelLocked(ch int, release bool) {
	if ch == -1 {
		for i := range a.channels {
			a.stopOneLocked(i, release)
		}
		return
	}
	if ch < 0 || ch >= channelCount {
		return
	}
	a.stopOneLocked(ch, release)
}

func (a *AudioEngine) stopOneLocked(ch int, release bool) {
	c := &a.channels[ch]
	if !c.Active {
		return
	}
	if release {
		c.releasing = true
		c.releaseLeft = SampleRate / noiseRelease4x
	} else {
		c.Active = false
	}
}

func (a *AudioEngine) pickFreeChannelLocked() int {
	for i, c := range a.channels {
		if !c.Active {
			return i
		}
	}
	return 0
}

// Music implements music(pat, fadeMs, mask); pat=-1 stops.
func (a *AudioEngine) Music(pat, fadeMs, mask int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pat == -1 {
		a.music = MusicState{Pattern: -1}
		return
	}
	a.music = MusicState{Pattern: pat, Mask: mask}
}

// freqFromPitch returns the Q16.16 oscillator frequency for a PICO-8 pitch
// value (0-63), per spec.md's 440*2^((pitch-33)/12) formula.
func freqFromPitch(pitch int) Num {
	f := 440.0
	exp := float64(pitch-33) / 12.0
	hz := f * math.Exp2(exp)
	return NumFromFloat(hz)
}

// Fill synthesizes n signed-16-bit mono samples into out (len(out) >= n),
// mixing all four channels, running the music check, and scaling the mix
// by volume_sfx in 10% steps. volume_music is stored by SetVolumes but is
// not applied to the mix.
func (a *AudioEngine) Fill(out []int16, n int, targetFPS int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < n; i++ {
		var sum float64
		for ch := range a.channels {
			sum += a.tickChannelLocked(ch, targetFPS)
		}
		sum = sum / channelCount
		sum *= float64(a.volSfx) / 10.0
		v := sum * 32000
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	a.advanceMusicLocked(n, targetFPS)
}

func (a *AudioEngine) tickChannelLocked(ch int, targetFPS int) float64 {
	c := &a.channels[ch]
	if !c.Active {
		return 0
	}
	if c.releasing {
		c.Volume -= 1.0 / float64(SampleRate/noiseRelease4x)
		c.releaseLeft--
		if c.Volume <= 0 || c.releaseLeft <= 0 {
			c.Active = false
			return 0
		}
	}

	noteAddr := AddrSfx + c.SfxID*SfxEntrySize + c.Row*2
	b0 := a.mem.Peek(noteAddr)
	b1 := a.mem.Peek(noteAddr + 1)
	pitch := int(b0 & 0x3F)
	instrument := int(((b0 >> 6) & 1) | ((b1 & 1) << 1) | ((b1 >> 1 & 1) << 2))
	volume := int((b1 >> 2) & 7)
	effect := int((b1 >> 5) & 7)

	header := AddrSfx + c.SfxID*SfxEntrySize + 64
	speed := int(a.mem.Peek(header + 1))
	if speed == 0 {
		speed = 1
	}

	freq := freqFromPitch(pitch)
	step := freq.Mul(NumFromFloat(float64(waveLen) / float64(SampleRate)))
	c.Phase = c.Phase.Add(step)
	idx := int(c.Phase.Int()) % waveLen
	if idx < 0 {
		idx += waveLen
	}

	var sample float64
	if instrument == 6 {
		sample = c.noiseSample()
	} else {
		sample = waveforms[instrument%6][idx]
	}

	c.targetVol = float64(volume) / 7.0
	if c.Volume < c.targetVol {
		c.Volume += 1.0 / envelopeRampLen
		if c.Volume > c.targetVol {
			c.Volume = c.targetVol
		}
	} else if c.Volume > c.targetVol {
		c.Volume -= 1.0 / envelopeRampLen
		if c.Volume < c.targetVol {
			c.Volume = c.targetVol
		}
	}

	out := sample * c.Volume
	_ = effect // the effect field is decoded but not applied: notes play
	// without slide, vibrato, drop, fade or arpeggio.
	c.ticksLeft--
	if c.ticksLeft <= 0 {
		a.advanceRowLocked(ch, speed, targetFPS)
	}
	return out
}

func (c *SfxChannel) noiseSample() float64 {
	bit := ((c.lfsr >> 14) ^ (c.lfsr >> 13)) & 1
	c.lfsr = (c.lfsr << 1) | bit
	c.lfsr &= 0x7FFF
	if bit == 1 {
		return 1
	}
	return -1
}

func (a *AudioEngine) advanceRowLocked(ch, speed, targetFPS int) {
	c := &a.channels[ch]
	ticksPerRow := speed
	if targetFPS == 30 {
		ticksPerRow *= 2
	}
	c.ticksLeft = ticksPerRow
	c.Row++
	if c.Row >= c.EndRow {
		c.Active = false
	}
}

// advanceMusicLocked starts the current pattern's sfx on each idle,
// unmasked, non-silent channel. It does not move to another pattern: the
// Pattern field and MusicState.Played never change here, and the pattern
// loop flags are not read.
func (a *AudioEngine) advanceMusicLocked(n, targetFPS int) {
	if a.music.Pattern < 0 {
		return
	}
	// Runs once per Fill call; Fill is driven by AudioBackend's Read with
	// whatever sample count the host requests, and n is not used here.
	patAddr := AddrMusic + a.music.Pattern*MusicPatternSize
	anyChannel := false
	for ch := 0; ch < 4; ch++ {
		if a.music.Mask != 0 && a.music.Mask&(1<<uint(ch)) == 0 {
			continue
		}
		b := a.mem.Peek(patAddr + ch)
		if b&0x40 != 0 {
			continue // silent channel flag
		}
		if !a.channels[ch].Active {
			a.channels[ch] = SfxChannel{Active: true, SfxID: int(b & 0x3F), EndRow: 32, lfsr: 1}
		}
		anyChannel = true
	}
	if !anyChannel {
		a.music.Ticks++
	}
}

// SetVolumes implements the volume_sfx/volume_music config knobs (0..10).
func (a *AudioEngine) SetVolumes(sfx, music int) {
	a.mu.Lock()
	a.volSfx, a.volMusic = clampInt(sfx, 0, 10), clampInt(music, 0, 10)
	a.mu.Unlock()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Status returns stat() ids 16-26 (per-channel sfx/note and music status).
func (a *AudioEngine) Status(id int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case id >= 16 && id <= 19:
		ch := id - 16
		if a.channels[ch].Active {
			return a.channels[ch].SfxID
		}
		return -1
	case id >= 20 && id <= 23:
		ch := id - 20
		if a.channels[ch].Active {
			return a.channels[ch].Row
		}
		return -1
	case id == 24:
		return a.music.Pattern
	case id == 25:
		return a.music.Ticks
	case id == 26:
		return 0
	}
	return 0
}

// Snapshot/Restore support save-state (§4.9): phases, volumes, LFSRs, music
// position and channel sfx ids.
type AudioSnapshot struct {
	Channels [channelCount]SfxChannel
	Music    MusicState
	VolSfx   int
	VolMusic int
}

func (a *AudioEngine) Snapshot() AudioSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AudioSnapshot{Channels: a.channels, Music: a.music, VolSfx: a.volSfx, VolMusic: a.volMusic}
}

func (a *AudioEngine) Restore(s AudioSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.channels = s.Channels
	a.music = s.Music
	a.volSfx = s.VolSfx
	a.volMusic = s.VolMusic
}
