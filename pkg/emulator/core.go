package emulator

// Platform tags the loaded ROM family. Button sets, register files and
// sprite geometry all hang off this tag, set once at load time.
type Platform int

const (
	PlatformGB Platform = iota
	PlatformGBA
)

func (p Platform) String() string {
	if p == PlatformGBA {
		return "GBA"
	}
	return "GB/GBC"
}

// Core is the native emulation engine behind the facade. The real
// implementation binds libmgba through cgo (pkg/emulator/mgba); tests
// substitute a fake.
type Core interface {
	// LoadFile loads a ROM file into the core.
	LoadFile(path string) error
	// LoadBIOS loads a BIOS image. Optional, the core falls back to HLE.
	LoadBIOS(path string) error
	// AttachVideoBuffer allocates the pixel framebuffer sized to the
	// core's base resolution and hands it to the renderer. Returns the
	// buffer dimensions. Must be called before the first Reset.
	AttachVideoBuffer() (w, h int)
	// CurrentVideoSize returns the visible window dimensions.
	CurrentVideoSize() (w, h int)
	// VideoBuffer returns a copy of the raw 4-byte-per-pixel framebuffer.
	VideoBuffer() []byte

	GameTitle() string
	GameCode() string

	Reset()
	RunFrame()
	// Step executes a single CPU instruction.
	Step()
	FrameCounter() uint32

	SetKeys(keys uint32)
	AddKeys(keys uint32)
	ClearKeys(keys uint32)

	BusRead8(addr uint32) (uint8, error)
	BusRead16(addr uint32) uint16
	BusRead32(addr uint32) uint32
	BusWrite8(addr uint32, v uint8) error

	StateSize() int
	SaveState() ([]byte, error)
	LoadState(state []byte) error

	// ARMRegisters returns the 16 general registers and CPSR (GBA).
	ARMRegisters() (gprs [16]uint32, cpsr uint32)
	// SM83Registers returns a, f, b, c, d, e, h, l plus sp and pc (GB).
	SM83Registers() (regs [8]uint8, sp, pc uint16)

	Close()
}

// CoreFactory creates a core for the platform of the ROM being loaded.
type CoreFactory func(p Platform) (Core, error)
