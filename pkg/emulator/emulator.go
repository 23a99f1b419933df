// Package emulator owns the single emulation session and presents
// platform-agnostic operations backed by calls into the native core.
package emulator

import (
	"path/filepath"
	"strings"

	"github.com/giongto35/mgba-mcp/pkg/config"
	"github.com/giongto35/mgba-mcp/pkg/emulator/image"
	"github.com/giongto35/mgba-mcp/pkg/logger"
	"github.com/giongto35/mgba-mcp/pkg/os"
)

// Emulator holds the one live session. Exactly one session exists at a
// time; loading a new ROM releases the previous core first. Callers are
// expected to serialize access, the protocol adapter never overlaps calls.
type Emulator struct {
	conf    config.Emulator
	log     *logger.Logger
	newCore CoreFactory

	core     Core
	platform Platform
	romPath  string

	// full framebuffer dimensions
	videoW, videoH int
	// visible window used to crop screenshots
	screenX, screenY int
	screenW, screenH int

	heldKeys  uint32
	savestate []byte
}

// RomInfo is the metadata returned by a successful load.
type RomInfo struct {
	Title    string
	Platform string
	Width    int
	Height   int
	RomPath  string
}

// Info is a snapshot of the session state.
type Info struct {
	Loaded     bool
	RomPath    string
	Platform   Platform
	FrameCount uint32
	Width      int
	Height     int
}

// Register is one named CPU register value. Returned as an ordered
// slice so snapshots render in a stable register-file order.
type Register struct {
	Name  string
	Value uint32
}

func New(conf config.Emulator, newCore CoreFactory, log *logger.Logger) *Emulator {
	return &Emulator{
		conf:    conf,
		log:     log.Extend(log.With().Str("m", "emu")),
		newCore: newCore,
	}
}

// Loaded tells if a ROM is loaded.
func (e *Emulator) Loaded() bool { return e.core != nil }

// Platform returns the platform tag of the current session.
func (e *Emulator) Platform() Platform { return e.platform }

// FrameCount reads the current frame counter from the core,
// zero when no session exists.
func (e *Emulator) FrameCount() uint32 {
	if e.core == nil {
		return 0
	}
	return e.core.FrameCounter()
}

// HeldButtons returns the currently held input bitmask.
func (e *Emulator) HeldButtons() uint32 { return e.heldKeys }

// LoadROM loads a ROM file, replacing any prior session. The previous
// core is released only after the new one came up, so a failed load
// keeps the old session intact.
func (e *Emulator) LoadROM(romPath, biosPath string) (*RomInfo, error) {
	if !os.Exists(romPath) {
		return nil, errf("ROM file not found: %s", romPath)
	}

	ext := strings.ToLower(filepath.Ext(romPath))
	if !e.conf.SupportsRom(ext) {
		return nil, errf("unsupported ROM extension: %s", ext)
	}
	platform := PlatformGB
	if ext == ".gba" {
		platform = PlatformGBA
	}

	core, err := e.newCore(platform)
	if err != nil {
		return nil, errf("failed to create %s core: %v", platform, err)
	}
	if err := core.LoadFile(romPath); err != nil {
		core.Close()
		return nil, errf("failed to load ROM: %s", romPath)
	}

	if bios := firstOf(biosPath, e.conf.Bios); bios != "" {
		if err := core.LoadBIOS(bios); err != nil {
			e.log.Warn().Err(err).Msgf("BIOS load skipped: %v", bios)
		}
	}

	// the renderer writes into our buffer from the first reset on
	w, h := core.AttachVideoBuffer()
	core.Reset()
	sw, sh := core.CurrentVideoSize()

	if e.core != nil {
		e.core.Close()
	}
	e.core = core
	e.platform = platform
	e.romPath = romPath
	e.videoW, e.videoH = w, h
	e.screenX, e.screenY = 0, 0
	e.screenW, e.screenH = sw, sh
	e.heldKeys = 0
	e.savestate = nil

	title := strings.TrimSpace(core.GameTitle())
	if title == "" {
		title = "Unknown"
	}
	e.log.Info().Msgf("loaded %s (%s) %dx%d", title, platform, sw, sh)

	return &RomInfo{
		Title:    title,
		Platform: platform.String(),
		Width:    firstDim(sw, w),
		Height:   firstDim(sh, h),
		RomPath:  romPath,
	}, nil
}

// Reset resets the core and clears the held-button mask.
func (e *Emulator) Reset() error {
	if e.core == nil {
		return ErrNoSession
	}
	e.core.Reset()
	e.heldKeys = 0
	return nil
}

// RunFrames runs exactly count full frames synchronously and returns
// the resulting frame counter. count must be positive.
func (e *Emulator) RunFrames(count int) (uint32, error) {
	if e.core == nil {
		return 0, ErrNoSession
	}
	if count <= 0 {
		return 0, errf("invalid frame count: %d", count)
	}
	for i := 0; i < count; i++ {
		e.core.RunFrame()
	}
	return e.core.FrameCounter(), nil
}

// Step executes a single CPU instruction.
func (e *Emulator) Step() error {
	if e.core == nil {
		return ErrNoSession
	}
	e.core.Step()
	return nil
}

// PressButton sets the button bit, runs frames, then clears the bit.
// Only the affected bit is ORed in and ANDed out, the held mask of the
// other buttons is not disturbed.
func (e *Emulator) PressButton(button string, frames int) error {
	if e.core == nil {
		return ErrNoSession
	}
	if frames <= 0 {
		return errf("invalid frame count: %d", frames)
	}
	mask, err := e.platform.buttonMask(button)
	if err != nil {
		return err
	}
	e.core.AddKeys(mask)
	for i := 0; i < frames; i++ {
		e.core.RunFrame()
	}
	e.core.ClearKeys(mask)
	return nil
}

// HoldButtons adds buttons to the held mask (additive OR).
func (e *Emulator) HoldButtons(buttons []string) error {
	if e.core == nil {
		return ErrNoSession
	}
	mask, err := e.platform.buttonsMask(buttons)
	if err != nil {
		return err
	}
	e.heldKeys |= mask
	e.core.SetKeys(e.heldKeys)
	return nil
}

// ReleaseButtons removes the given buttons from the held mask,
// or all of them when the list is nil.
func (e *Emulator) ReleaseButtons(buttons []string) error {
	if e.core == nil {
		return ErrNoSession
	}
	if buttons == nil {
		e.heldKeys = 0
	} else {
		mask, err := e.platform.buttonsMask(buttons)
		if err != nil {
			return err
		}
		e.heldKeys &^= mask
	}
	e.core.SetKeys(e.heldKeys)
	return nil
}

// SetButtons replaces the held mask with exactly the given buttons.
func (e *Emulator) SetButtons(buttons []string) error {
	if e.core == nil {
		return ErrNoSession
	}
	mask, err := e.platform.buttonsMask(buttons)
	if err != nil {
		return err
	}
	e.heldKeys = mask
	e.core.SetKeys(e.heldKeys)
	return nil
}

// ClearButtons releases all buttons.
func (e *Emulator) ClearButtons() error {
	if e.core == nil {
		return ErrNoSession
	}
	e.heldKeys = 0
	e.core.SetKeys(0)
	return nil
}

// Screenshot reads the framebuffer, crops it to the visible window and
// encodes it as a PNG.
func (e *Emulator) Screenshot() ([]byte, error) {
	if e.core == nil {
		return nil, ErrNoSession
	}
	if e.videoW <= 0 || e.videoH <= 0 {
		return nil, errf("video buffer not initialized")
	}
	img := image.ToRGBA(e.core.VideoBuffer(), e.videoW, e.videoH)
	if e.screenW > 0 && e.screenH > 0 {
		img = image.Crop(img, e.screenX, e.screenY, e.screenW, e.screenH)
	}
	png, err := image.EncodePNG(img)
	if err != nil {
		return nil, errf("failed to encode screenshot: %v", err)
	}
	return png, nil
}

// ScreenshotBase64 returns the screenshot PNG base64-encoded for transport.
func (e *Emulator) ScreenshotBase64() (string, error) {
	png, err := e.Screenshot()
	if err != nil {
		return "", err
	}
	return image.Base64(png), nil
}

// ReadMemory reads length bytes through the core's bus interface.
// Per-byte faults read as zero and a non-positive length yields an
// empty result, the call itself never fails once a session exists.
func (e *Emulator) ReadMemory(addr uint32, length int) ([]uint8, error) {
	if e.core == nil {
		return nil, ErrNoSession
	}
	if length <= 0 {
		return []uint8{}, nil
	}
	values := make([]uint8, 0, length)
	for i := 0; i < length; i++ {
		v, err := e.core.BusRead8(addr + uint32(i))
		if err != nil {
			v = 0
		}
		values = append(values, v)
	}
	return values, nil
}

// WriteMemory writes bytes through the bus. A failing byte aborts with
// the failing address; bytes already written stay written.
func (e *Emulator) WriteMemory(addr uint32, values []uint8) error {
	if e.core == nil {
		return ErrNoSession
	}
	for i, v := range values {
		a := addr + uint32(i)
		if err := e.core.BusWrite8(a, v); err != nil {
			return errf("failed to write to address 0x%X: %v", a, err)
		}
	}
	return nil
}

// ReadU8 reads a single byte from memory.
func (e *Emulator) ReadU8(addr uint32) (uint8, error) {
	v, err := e.ReadMemory(addr, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// ReadU16 reads a 16-bit little-endian value straight off the bus.
func (e *Emulator) ReadU16(addr uint32) (uint16, error) {
	if e.core == nil {
		return 0, ErrNoSession
	}
	return e.core.BusRead16(addr), nil
}

// ReadU32 reads a 32-bit little-endian value straight off the bus.
func (e *Emulator) ReadU32(addr uint32) (uint32, error) {
	if e.core == nil {
		return 0, ErrNoSession
	}
	return e.core.BusRead32(addr), nil
}

// SaveState serializes the core state and caches the blob for a later
// implicit LoadState.
func (e *Emulator) SaveState() ([]byte, error) {
	if e.core == nil {
		return nil, ErrNoSession
	}
	state, err := e.core.SaveState()
	if err != nil {
		return nil, errf("failed to save state: %v", err)
	}
	e.savestate = state
	return state, nil
}

// LoadState restores core state from the given blob, or from the last
// SaveState when state is nil. Undersized buffers are rejected before
// any session state is touched.
func (e *Emulator) LoadState(state []byte) error {
	if e.core == nil {
		return ErrNoSession
	}
	if state == nil {
		state = e.savestate
	}
	if state == nil {
		return errf("no savestate available")
	}
	if expected := e.core.StateSize(); len(state) < expected {
		return errf("state data too small: %d < %d", len(state), expected)
	}
	if err := e.core.LoadState(state); err != nil {
		return errf("failed to load state: %v", err)
	}
	return nil
}

// Info returns a snapshot of the session.
func (e *Emulator) Info() Info {
	if e.core == nil {
		return Info{}
	}
	return Info{
		Loaded:     true,
		RomPath:    e.romPath,
		Platform:   e.platform,
		FrameCount: e.core.FrameCounter(),
		Width:      e.videoW,
		Height:     e.videoH,
	}
}

// Close releases the core and clears all session fields.
func (e *Emulator) Close() {
	if e.core != nil {
		e.core.Close()
	}
	e.core = nil
	e.romPath = ""
	e.videoW, e.videoH = 0, 0
	e.screenW, e.screenH = 0, 0
	e.heldKeys = 0
	e.savestate = nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDim(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
