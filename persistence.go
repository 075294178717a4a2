// persistence.go - cartdata 64-slot storage and save-state snapshot/restore
//
// Grounded on debug_snapshot.go's magic+version+gzip-compressed binary
// envelope and file_io.go's sanitizePath convention for the on-disk base
// directory, retargeted from whole-machine CPU snapshots to the console's
// RAM+GPU-state+audio-state save-state (spec.md §4.9; script globals are
// not saved) and to its per-cart 64-int32 cartdata files.

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	stateMagic   = "R8VM"
	stateVersion = 1

	cartDataSlots = 64
)

// Persistence owns the cartdata working set and save-state I/O for one VM,
// rooted at a sanitized base directory the same way FileIODevice restricts
// file operations in the teacher.
type Persistence struct {
	baseDir    string
	cartDataID string
	cartData   [cartDataSlots]int32
	dirty      bool
}

func NewPersistence(baseDir string) *Persistence {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		absBase = baseDir
	}
	return &Persistence{baseDir: absBase}
}

func (p *Persistence) sanitizeName(name string) (string, bool) {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return "", false
	}
	return filepath.Join(p.baseDir, "cdata_"+name+".dat"), true
}

// OpenCartData implements cartdata(id): loads (or creates) the 64-slot
// persistent int32 array for this id, flushing any previously open one.
func (p *Persistence) OpenCartData(id string) bool {
	path, ok := p.sanitizeName(id)
	if !ok {
		return false
	}
	if p.cartDataID != "" && p.dirty {
		p.flushCartData()
	}
	p.cartDataID = id
	p.cartData = [cartDataSlots]int32{}
	p.dirty = false

	data, err := os.ReadFile(path)
	if err != nil {
		return true // new, empty cartdata is still a success per spec.md
	}
	r := bytes.NewReader(data)
	for i := 0; i < cartDataSlots && r.Len() >= 4; i++ {
		var v int32
		binary.Read(r, binary.BigEndian, &v)
		p.cartData[i] = v
	}
	return true
}

func (p *Persistence) DataGet(idx int) Num {
	if idx < 0 || idx >= cartDataSlots {
		return 0
	}
	return NumFromBits(p.cartData[idx])
}

func (p *Persistence) DataSet(idx int, v Num) {
	if idx < 0 || idx >= cartDataSlots || p.cartDataID == "" {
		return
	}
	p.cartData[idx] = v.Bits()
	p.dirty = true
	p.flushCartData()
}

func (p *Persistence) flushCartData() {
	path, ok := p.sanitizeName(p.cartDataID)
	if !ok {
		return
	}
	var buf bytes.Buffer
	for _, v := range p.cartData {
		binary.Write(&buf, binary.BigEndian, v)
	}
	os.WriteFile(path, buf.Bytes(), 0644)
	p.dirty = false
}

// SaveCartOverwrite implements cstore(): copies length bytes of RAM from
// srcAddr into the cart's image at destAddr, replaces *cart with the
// result, and writes the whole updated image (RAMSize bytes, laid out as
// ToRAM does) to the sidecar file cart.Path + ".cstore". The cart's own
// .p8/.p8.png file is never rewritten.
func (p *Persistence) SaveCartOverwrite(cart *CartImage, mem *Memory, srcAddr, destAddr, length int) error {
	data := mem.RegionRead(srcAddr, length)

	tmp := &Memory{}
	cart.ToRAM(tmp)
	tmp.RegionCopy(destAddr, data)
	updated := tmp.RegionRead(0, RAMSize)

	var img CartImage
	img.Path = cart.Path
	copy(img.Gfx[:], updated[0:SpriteSheetSize])
	off := SpriteSheetSize
	copy(img.Map[:], updated[off:off+MapSize])
	off += MapSize
	copy(img.Flags[:], updated[off:off+SpriteFlagSize])
	off += SpriteFlagSize
	copy(img.Music[:], updated[off:off+MusicTableSize])
	off += MusicTableSize
	copy(img.Sfx[:], updated[off:off+SfxBankSize])
	img.Code = cart.Code
	*cart = img

	sidecar := cart.Path + ".cstore"
	return os.WriteFile(sidecar, updated, 0644)
}

// StateSnapshot is the full save-state payload: RAM, GPU draw state,
// audio engine state, and hardware register cache.
type StateSnapshot struct {
	RAM   [RAMSize]byte
	GPU   GpuState
	Pal   Palette
	Audio AudioSnapshot
	HW    HardwareState
}

// writeI32/readI32 pin platform-independent int widths for save-state
// fields that are `int` in memory (binary.Write/Read reject plain int).
func writeI32(w io.Writer, v int) { binary.Write(w, binary.BigEndian, int32(v)) }
func readI32(r io.Reader) int {
	var v int32
	binary.Read(r, binary.BigEndian, &v)
	return int(v)
}
func writeBool(w io.Writer, v bool) {
	var b byte
	if v {
		b = 1
	}
	w.Write([]byte{b})
}
func readBool(r io.Reader) bool {
	var b [1]byte
	r.Read(b[:])
	return b[0] != 0
}

func marshalGpuState(w io.Writer, g *GpuState) {
	w.Write([]byte{g.PenColor})
	writeI32(w, g.CursorX)
	writeI32(w, g.CursorY)
	writeI32(w, g.ClipX0)
	writeI32(w, g.ClipY0)
	writeI32(w, g.ClipX1)
	writeI32(w, g.ClipY1)
	writeI32(w, g.CameraX)
	writeI32(w, g.CameraY)
	binary.Write(w, binary.BigEndian, g.FillPattern)
	w.Write([]byte{g.DrawMask})
	for _, v := range g.PaltMap {
		writeBool(w, v)
	}
	binary.Write(w, binary.BigEndian, g.TransMask)
	w.Write([]byte{g.ScreenMode, g.Devkit})
	writeI32(w, g.LastLineX)
	writeI32(w, g.LastLineY)
	writeBool(w, g.HasLastLine)
}

func unmarshalGpuState(r io.Reader, g *GpuState) {
	var b [1]byte
	r.Read(b[:])
	g.PenColor = b[0]
	g.CursorX = readI32(r)
	g.CursorY = readI32(r)
	g.ClipX0 = readI32(r)
	g.ClipY0 = readI32(r)
	g.ClipX1 = readI32(r)
	g.ClipY1 = readI32(r)
	g.CameraX = readI32(r)
	g.CameraY = readI32(r)
	binary.Read(r, binary.BigEndian, &g.FillPattern)
	r.Read(b[:])
	g.DrawMask = b[0]
	for i := range g.PaltMap {
		g.PaltMap[i] = readBool(r)
	}
	binary.Read(r, binary.BigEndian, &g.TransMask)
	var b2 [2]byte
	r.Read(b2[:])
	g.ScreenMode, g.Devkit = b2[0], b2[1]
	g.LastLineX = readI32(r)
	g.LastLineY = readI32(r)
	g.HasLastLine = readBool(r)
}

func marshalSfxChannel(w io.Writer, c *SfxChannel) {
	writeBool(w, c.Active)
	writeI32(w, c.SfxID)
	writeI32(w, c.Row)
	writeI32(w, c.EndRow)
	binary.Write(w, binary.BigEndian, int32(c.Phase.Bits()))
	binary.Write(w, binary.BigEndian, c.Volume)
	binary.Write(w, binary.BigEndian, c.targetVol)
	binary.Write(w, binary.BigEndian, c.lfsr)
	writeI32(w, c.ticksLeft)
	writeI32(w, c.prevPitch)
	writeBool(w, c.releasing)
	writeI32(w, c.releaseLeft)
	writeBool(w, c.Loop)
}

func unmarshalSfxChannel(r io.Reader, c *SfxChannel) {
	c.Active = readBool(r)
	c.SfxID = readI32(r)
	c.Row = readI32(r)
	c.EndRow = readI32(r)
	var bits int32
	binary.Read(r, binary.BigEndian, &bits)
	c.Phase = NumFromBits(bits)
	binary.Read(r, binary.BigEndian, &c.Volume)
	binary.Read(r, binary.BigEndian, &c.targetVol)
	binary.Read(r, binary.BigEndian, &c.lfsr)
	c.ticksLeft = readI32(r)
	c.prevPitch = readI32(r)
	c.releasing = readBool(r)
	c.releaseLeft = readI32(r)
	c.Loop = readBool(r)
}

func marshalAudioSnapshot(w io.Writer, a *AudioSnapshot) {
	for i := range a.Channels {
		marshalSfxChannel(w, &a.Channels[i])
	}
	writeI32(w, a.Music.Pattern)
	writeI32(w, a.Music.Played)
	writeI32(w, a.Music.Ticks)
	writeI32(w, a.Music.Mask)
	writeI32(w, a.VolSfx)
	writeI32(w, a.VolMusic)
}

func unmarshalAudioSnapshot(r io.Reader, a *AudioSnapshot) {
	for i := range a.Channels {
		unmarshalSfxChannel(r, &a.Channels[i])
	}
	a.Music.Pattern = readI32(r)
	a.Music.Played = readI32(r)
	a.Music.Ticks = readI32(r)
	a.Music.Mask = readI32(r)
	a.VolSfx = readI32(r)
	a.VolMusic = readI32(r)
}

// SaveState serializes a StateSnapshot to path using the magic+version+gzip
// envelope shape debug_snapshot.go uses for whole-machine snapshots.
func SaveState(path string, snap *StateSnapshot) error {
	var body bytes.Buffer
	body.Write(snap.RAM[:])
	marshalGpuState(&body, &snap.GPU)
	if err := binary.Write(&body, binary.BigEndian, snap.Pal); err != nil {
		return &StateError{Op: "save", Err: err}
	}
	marshalAudioSnapshot(&body, &snap.Audio)
	if err := binary.Write(&body, binary.BigEndian, snap.HW); err != nil {
		return &StateError{Op: "save", Err: err}
	}

	var out bytes.Buffer
	out.WriteString(stateMagic)
	binary.Write(&out, binary.BigEndian, uint32(stateVersion))
	binary.Write(&out, binary.BigEndian, uint32(body.Len()))

	gz := gzip.NewWriter(&out)
	if _, err := gz.Write(body.Bytes()); err != nil {
		return &StateError{Op: "save", Err: err}
	}
	if err := gz.Close(); err != nil {
		return &StateError{Op: "save", Err: err}
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return &StateError{Op: "save", Err: err}
	}
	return nil
}

// LoadState reads and decompresses a StateSnapshot written by SaveState.
func LoadState(path string) (*StateSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StateError{Op: "load", Err: err}
	}
	r := bytes.NewReader(data)
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != stateMagic {
		return nil, &StateError{Op: "load", Err: errors.New("bad state magic")}
	}
	var version, rawLen uint32
	binary.Read(r, binary.BigEndian, &version)
	binary.Read(r, binary.BigEndian, &rawLen)
	if version != stateVersion {
		return nil, &StateError{Op: "load", Err: fmt.Errorf("unsupported state version %d", version)}
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &StateError{Op: "load", Err: err}
	}
	defer gz.Close()
	body, err := io.ReadAll(gz)
	if err != nil {
		return nil, &StateError{Op: "load", Err: err}
	}

	br := bytes.NewReader(body)
	snap := &StateSnapshot{}
	if _, err := io.ReadFull(br, snap.RAM[:]); err != nil {
		return nil, &StateError{Op: "load", Err: err}
	}
	unmarshalGpuState(br, &snap.GPU)
	binary.Read(br, binary.BigEndian, &snap.Pal)
	unmarshalAudioSnapshot(br, &snap.Audio)
	binary.Read(br, binary.BigEndian, &snap.HW)
	return snap, nil
}
