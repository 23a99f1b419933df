// Package mgba binds the native mGBA core library through cgo. It is
// the only package that talks to the emulation engine directly;
// everything else goes through the emulator facade.
package mgba

/*
#cgo LDFLAGS: -lmgba
#include <stdlib.h>
#include <fcntl.h>
#include <mgba/core/core.h>
#include <mgba-util/vfs.h>

bool mgbamcp_core_init(struct mCore* core);
void mgbamcp_core_deinit(struct mCore* core);
void mgbamcp_core_base_video_size(struct mCore* core, unsigned* w, unsigned* h);
void mgbamcp_core_current_video_size(struct mCore* core, unsigned* w, unsigned* h);
void mgbamcp_core_set_video_buffer(struct mCore* core, color_t* buf, size_t stride);
bool mgbamcp_core_load_bios(struct mCore* core, struct VFile* vf);
void mgbamcp_core_reset(struct mCore* core);
void mgbamcp_core_run_frame(struct mCore* core);
void mgbamcp_core_step(struct mCore* core);
uint32_t mgbamcp_core_frame_counter(struct mCore* core);
void mgbamcp_core_get_game_title(struct mCore* core, char* title);
void mgbamcp_core_get_game_code(struct mCore* core, char* code);
void mgbamcp_core_set_keys(struct mCore* core, uint32_t keys);
void mgbamcp_core_add_keys(struct mCore* core, uint32_t keys);
void mgbamcp_core_clear_keys(struct mCore* core, uint32_t keys);
uint8_t mgbamcp_core_bus_read8(struct mCore* core, uint32_t addr);
uint16_t mgbamcp_core_bus_read16(struct mCore* core, uint32_t addr);
uint32_t mgbamcp_core_bus_read32(struct mCore* core, uint32_t addr);
void mgbamcp_core_bus_write8(struct mCore* core, uint32_t addr, uint8_t v);
size_t mgbamcp_core_state_size(struct mCore* core);
bool mgbamcp_core_save_state(struct mCore* core, void* state);
bool mgbamcp_core_load_state(struct mCore* core, const void* state);
void mgbamcp_arm_regs(struct mCore* core, int32_t* out, uint32_t* cpsr);
void mgbamcp_sm83_regs(struct mCore* core, uint8_t* out, uint16_t* sp, uint16_t* pc);
*/
import "C"
import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"github.com/giongto35/mgba-mcp/pkg/emulator"
)

// Core wraps one native mCore instance. The video buffer is
// C-allocated because the renderer keeps writing into it between
// calls, which rules out Go-managed memory.
type Core struct {
	ptr      *C.struct_mCore
	videoBuf unsafe.Pointer
	vw, vh   int
}

// Factory adapts NewCore to the facade's CoreFactory.
func Factory() emulator.CoreFactory {
	return func(p emulator.Platform) (emulator.Core, error) { return NewCore(p) }
}

// NewCore creates and initializes a core for the platform.
func NewCore(p emulator.Platform) (*Core, error) {
	var ptr *C.struct_mCore
	if p == emulator.PlatformGBA {
		ptr = C.mCoreCreate(C.mPLATFORM_GBA)
	} else {
		ptr = C.mCoreCreate(C.mPLATFORM_GB)
	}
	if ptr == nil {
		return nil, fmt.Errorf("could not create core for platform %s", p)
	}
	if !C.mgbamcp_core_init(ptr) {
		return nil, errors.New("could not initialize core")
	}
	C.mCoreInitConfig(ptr, nil)
	return &Core{ptr: ptr}, nil
}

func (c *Core) LoadFile(path string) error {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	if !C.mCoreLoadFile(c.ptr, cs) {
		return fmt.Errorf("could not load file %s", path)
	}
	return nil
}

func (c *Core) LoadBIOS(path string) error {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	vf := C.VFileOpen(cs, C.O_RDONLY)
	if vf == nil {
		return fmt.Errorf("could not open BIOS file %s", path)
	}
	if !C.mgbamcp_core_load_bios(c.ptr, vf) {
		return fmt.Errorf("core rejected BIOS file %s", path)
	}
	return nil
}

// AttachVideoBuffer allocates the framebuffer at the core's base video
// size and hands it to the renderer. Must run before the first reset.
func (c *Core) AttachVideoBuffer() (int, int) {
	var w, h C.unsigned
	C.mgbamcp_core_base_video_size(c.ptr, &w, &h)
	c.vw, c.vh = int(w), int(h)
	if c.videoBuf != nil {
		C.free(c.videoBuf)
	}
	c.videoBuf = C.calloc(C.size_t(c.vw*c.vh), 4)
	C.mgbamcp_core_set_video_buffer(c.ptr, (*C.color_t)(c.videoBuf), C.size_t(c.vw))
	return c.vw, c.vh
}

func (c *Core) CurrentVideoSize() (int, int) {
	var w, h C.unsigned
	C.mgbamcp_core_current_video_size(c.ptr, &w, &h)
	return int(w), int(h)
}

func (c *Core) VideoBuffer() []byte {
	if c.videoBuf == nil {
		return nil
	}
	return C.GoBytes(c.videoBuf, C.int(c.vw*c.vh*4))
}

func (c *Core) GameTitle() string {
	var title [16]byte
	C.mgbamcp_core_get_game_title(c.ptr, (*C.char)(unsafe.Pointer(&title[0])))
	return string(bytes.TrimRight(title[:], "\x00"))
}

func (c *Core) GameCode() string {
	var code [8]byte
	C.mgbamcp_core_get_game_code(c.ptr, (*C.char)(unsafe.Pointer(&code[0])))
	return string(bytes.TrimRight(code[:], "\x00"))
}

func (c *Core) Reset()               { C.mgbamcp_core_reset(c.ptr) }
func (c *Core) RunFrame()            { C.mgbamcp_core_run_frame(c.ptr) }
func (c *Core) Step()                { C.mgbamcp_core_step(c.ptr) }
func (c *Core) FrameCounter() uint32 { return uint32(C.mgbamcp_core_frame_counter(c.ptr)) }

func (c *Core) SetKeys(keys uint32)   { C.mgbamcp_core_set_keys(c.ptr, C.uint32_t(keys)) }
func (c *Core) AddKeys(keys uint32)   { C.mgbamcp_core_add_keys(c.ptr, C.uint32_t(keys)) }
func (c *Core) ClearKeys(keys uint32) { C.mgbamcp_core_clear_keys(c.ptr, C.uint32_t(keys)) }

// The native bus interface cannot signal faults, unmapped access reads
// as open bus. The error returns exist for the facade's contract.
func (c *Core) BusRead8(addr uint32) (uint8, error) {
	return uint8(C.mgbamcp_core_bus_read8(c.ptr, C.uint32_t(addr))), nil
}

func (c *Core) BusRead16(addr uint32) uint16 {
	return uint16(C.mgbamcp_core_bus_read16(c.ptr, C.uint32_t(addr)))
}

func (c *Core) BusRead32(addr uint32) uint32 {
	return uint32(C.mgbamcp_core_bus_read32(c.ptr, C.uint32_t(addr)))
}

func (c *Core) BusWrite8(addr uint32, v uint8) error {
	C.mgbamcp_core_bus_write8(c.ptr, C.uint32_t(addr), C.uint8_t(v))
	return nil
}

func (c *Core) StateSize() int { return int(C.mgbamcp_core_state_size(c.ptr)) }

func (c *Core) SaveState() ([]byte, error) {
	size := C.mgbamcp_core_state_size(c.ptr)
	buf := C.malloc(size)
	defer C.free(buf)
	if !C.mgbamcp_core_save_state(c.ptr, buf) {
		return nil, errors.New("mCore saveState failed")
	}
	return C.GoBytes(buf, C.int(size)), nil
}

func (c *Core) LoadState(state []byte) error {
	if len(state) == 0 {
		return errors.New("empty state")
	}
	if !C.mgbamcp_core_load_state(c.ptr, unsafe.Pointer(&state[0])) {
		return errors.New("mCore loadState failed")
	}
	return nil
}

func (c *Core) ARMRegisters() ([16]uint32, uint32) {
	var gprs [16]int32
	var cpsr C.uint32_t
	C.mgbamcp_arm_regs(c.ptr, (*C.int32_t)(unsafe.Pointer(&gprs[0])), &cpsr)
	var out [16]uint32
	for i, v := range gprs {
		out[i] = uint32(v)
	}
	return out, uint32(cpsr)
}

func (c *Core) SM83Registers() ([8]uint8, uint16, uint16) {
	var regs [8]uint8
	var sp, pc C.uint16_t
	C.mgbamcp_sm83_regs(c.ptr, (*C.uint8_t)(unsafe.Pointer(&regs[0])), &sp, &pc)
	return regs, uint16(sp), uint16(pc)
}

// Close deinitializes the core and frees the framebuffer.
func (c *Core) Close() {
	if c.ptr == nil {
		return
	}
	C.mCoreConfigDeinit(&c.ptr.config)
	C.mgbamcp_core_deinit(c.ptr)
	c.ptr = nil
	if c.videoBuf != nil {
		C.free(c.videoBuf)
		c.videoBuf = nil
	}
}
