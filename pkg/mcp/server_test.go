package mcp

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giongto35/mgba-mcp/pkg/config"
	"github.com/giongto35/mgba-mcp/pkg/emulator"
	"github.com/giongto35/mgba-mcp/pkg/logger"
)

// stubCore is a pure Go core so the adapter is testable without libmgba.
type stubCore struct {
	frames uint32
	keys   uint32
	mem    map[uint32]uint8
	state  []byte
}

func newStubCore() *stubCore { return &stubCore{mem: map[uint32]uint8{}} }

func (c *stubCore) LoadFile(string) error        { return nil }
func (c *stubCore) LoadBIOS(string) error        { return nil }
func (c *stubCore) AttachVideoBuffer() (int, int) { return 160, 144 }
func (c *stubCore) CurrentVideoSize() (int, int)  { return 160, 144 }
func (c *stubCore) VideoBuffer() []byte           { return make([]byte, 160*144*4) }
func (c *stubCore) GameTitle() string             { return "STUBGAME" }
func (c *stubCore) GameCode() string              { return "STUB" }
func (c *stubCore) Reset()                        { c.frames = 0 }
func (c *stubCore) RunFrame()                     { c.frames++ }
func (c *stubCore) Step()                         {}
func (c *stubCore) FrameCounter() uint32          { return c.frames }
func (c *stubCore) SetKeys(keys uint32)           { c.keys = keys }
func (c *stubCore) AddKeys(keys uint32)           { c.keys |= keys }
func (c *stubCore) ClearKeys(keys uint32)         { c.keys &^= keys }

func (c *stubCore) BusRead8(addr uint32) (uint8, error) { return c.mem[addr], nil }
func (c *stubCore) BusRead16(addr uint32) uint16 {
	return uint16(c.mem[addr]) | uint16(c.mem[addr+1])<<8
}
func (c *stubCore) BusRead32(addr uint32) uint32 {
	return uint32(c.BusRead16(addr)) | uint32(c.BusRead16(addr+2))<<16
}
func (c *stubCore) BusWrite8(addr uint32, v uint8) error {
	c.mem[addr] = v
	return nil
}

func (c *stubCore) StateSize() int { return 32 }
func (c *stubCore) SaveState() ([]byte, error) {
	state := make([]byte, 32)
	binary.LittleEndian.PutUint32(state, c.frames)
	return state, nil
}
func (c *stubCore) LoadState(state []byte) error {
	c.frames = binary.LittleEndian.Uint32(state)
	return nil
}

func (c *stubCore) ARMRegisters() ([16]uint32, uint32) { return [16]uint32{}, 0x1F }
func (c *stubCore) SM83Registers() ([8]uint8, uint16, uint16) {
	return [8]uint8{0x01}, 0xFFFE, 0x0100
}
func (c *stubCore) Close() {}

func testServer(t *testing.T) (*Server, *emulator.Emulator, *stubCore) {
	t.Helper()
	core := newStubCore()
	conf := config.Config{
		Emulator: config.Emulator{WarmupFrames: 2, Supported: []string{".gb", ".gbc", ".gba"}},
		Server:   config.Server{Name: "mgba-mcp", Version: "test"},
	}
	log := logger.New(false)
	emu := emulator.New(conf.Emulator, func(emulator.Platform) (emulator.Core, error) {
		return core, nil
	}, log)
	return New(emu, conf, log), emu, core
}

func loadTestRom(t *testing.T, s *Server) {
	t.Helper()
	rom := filepath.Join(t.TempDir(), "game.gb")
	if err := os.WriteFile(rom, []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	res := s.Call("load_rom", map[string]any{"rom_path": rom})
	if res.IsError {
		t.Fatalf("load_rom failed: %s", resultText(res))
	}
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func hasImage(res *mcp.CallToolResult) bool {
	for _, c := range res.Content {
		if _, ok := c.(mcp.ImageContent); ok {
			return true
		}
	}
	return false
}

func TestUnknownToolDegradesToText(t *testing.T) {
	s, _, _ := testServer(t)
	res := s.Call("bogus_tool", nil)
	if !res.IsError {
		t.Error("unknown tool did not flag an error")
	}
	if !strings.Contains(resultText(res), "Unknown tool: bogus_tool") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestNoSessionGuard(t *testing.T) {
	s, _, _ := testServer(t)
	for _, name := range []string{
		"run_frames", "press_button", "hold_buttons", "release_buttons",
		"take_screenshot", "read_memory", "write_memory", "save_state",
		"load_state", "get_registers", "dump_oam", "reset",
	} {
		res := s.Call(name, map[string]any{})
		if !res.IsError || !strings.Contains(resultText(res), "No ROM loaded. Call load_rom first.") {
			t.Errorf("%s: got %q", name, resultText(res))
		}
	}
}

func TestGetInfoWorksWithoutSession(t *testing.T) {
	s, _, _ := testServer(t)
	res := s.Call("get_info", nil)
	if res.IsError {
		t.Fatalf("get_info failed: %s", resultText(res))
	}
	var info struct {
		Loaded   bool    `json:"loaded"`
		Platform *string `json:"platform"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &info); err != nil {
		t.Fatal(err)
	}
	if info.Loaded || info.Platform != nil {
		t.Errorf("info = %+v", info)
	}
}

func TestLoadRomResponse(t *testing.T) {
	s, emu, _ := testServer(t)
	loadTestRom(t, s)

	res := s.Call("get_info", nil)
	var info struct {
		Loaded     bool    `json:"loaded"`
		FrameCount uint32  `json:"frame_count"`
		Platform   *string `json:"platform"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &info); err != nil {
		t.Fatal(err)
	}
	if !info.Loaded || info.Platform == nil || *info.Platform != "GB/GBC" {
		t.Errorf("info = %+v", info)
	}
	// warm-up frames run right after load
	if info.FrameCount != 2 || emu.FrameCount() != 2 {
		t.Errorf("frame count = %d, want 2", info.FrameCount)
	}
}

func TestLoadRomAttachesImage(t *testing.T) {
	s, _, _ := testServer(t)
	rom := filepath.Join(t.TempDir(), "game.gb")
	if err := os.WriteFile(rom, []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	res := s.Call("load_rom", map[string]any{"rom_path": rom})
	if res.IsError {
		t.Fatalf("load_rom failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Loaded ROM: STUBGAME (GB/GBC)") {
		t.Errorf("text = %q", resultText(res))
	}
	if !strings.Contains(resultText(res), "Resolution: 160x144") {
		t.Errorf("text = %q", resultText(res))
	}
	if !hasImage(res) {
		t.Error("no image content attached")
	}
}

func TestLoadRomMissingFile(t *testing.T) {
	s, _, _ := testServer(t)
	res := s.Call("load_rom", map[string]any{"rom_path": "/nowhere/game.gb"})
	if !res.IsError || !strings.Contains(resultText(res), "ROM file not found") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestRunFrames(t *testing.T) {
	s, _, _ := testServer(t)
	loadTestRom(t, s)
	res := s.Call("run_frames", map[string]any{"frames": float64(5)})
	if res.IsError {
		t.Fatalf("run_frames failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Ran 5 frames. Now at frame 7.") {
		t.Errorf("text = %q", resultText(res))
	}
	if !hasImage(res) {
		t.Error("no image content attached")
	}

	res = s.Call("run_frames", map[string]any{"frames": float64(0)})
	if !res.IsError || !strings.Contains(resultText(res), "invalid frame count") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestPressButton(t *testing.T) {
	s, emu, core := testServer(t)
	loadTestRom(t, s)
	if err := emu.HoldButtons([]string{"up"}); err != nil {
		t.Fatal(err)
	}
	res := s.Call("press_button", map[string]any{"button": "a", "frames": float64(3)})
	if res.IsError {
		t.Fatalf("press_button failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Pressed a for 3 frames.") {
		t.Errorf("text = %q", resultText(res))
	}
	// a press must not disturb the held mask
	if emu.HeldButtons() != 1<<emulator.ButtonUp || core.keys != 1<<emulator.ButtonUp {
		t.Errorf("held = %#x, core keys = %#x", emu.HeldButtons(), core.keys)
	}

	res = s.Call("press_button", map[string]any{"button": "nope"})
	if !res.IsError || !strings.Contains(resultText(res), "invalid button") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestHoldButtonsIsAdditive(t *testing.T) {
	s, emu, _ := testServer(t)
	loadTestRom(t, s)
	if res := s.Call("hold_buttons", map[string]any{"buttons": []any{"a"}}); res.IsError {
		t.Fatalf("hold_buttons failed: %s", resultText(res))
	}
	res := s.Call("hold_buttons", map[string]any{"buttons": []any{"up"}})
	if !strings.Contains(resultText(res), "Holding buttons: up") {
		t.Errorf("text = %q", resultText(res))
	}
	want := uint32(1<<emulator.ButtonA | 1<<emulator.ButtonUp)
	if emu.HeldButtons() != want {
		t.Errorf("held = %#x, want %#x", emu.HeldButtons(), want)
	}

	if res := s.Call("release_buttons", nil); !strings.Contains(resultText(res), "Released all buttons.") {
		t.Errorf("text = %q", resultText(res))
	}
	if emu.HeldButtons() != 0 {
		t.Errorf("held = %#x after release", emu.HeldButtons())
	}
}

func TestReadMemoryFormatting(t *testing.T) {
	s, _, core := testServer(t)
	loadTestRom(t, s)
	core.mem[0xC000] = 0xAA
	core.mem[0xC001] = 0xBB

	res := s.Call("read_memory", map[string]any{"address": "0xC000", "length": float64(2)})
	if res.IsError {
		t.Fatalf("read_memory failed: %s", resultText(res))
	}
	var dump struct {
		Address string `json:"address"`
		Length  int    `json:"length"`
		Hex     string `json:"hex"`
		Values  []int  `json:"values"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Address != "0xC000" || dump.Length != 2 || dump.Hex != "AA BB" {
		t.Errorf("dump = %+v", dump)
	}
	if len(dump.Values) != 2 || dump.Values[0] != 0xAA || dump.Values[1] != 0xBB {
		t.Errorf("values = %v", dump.Values)
	}
}

func TestWriteMemory(t *testing.T) {
	s, _, core := testServer(t)
	loadTestRom(t, s)
	res := s.Call("write_memory", map[string]any{
		"address": float64(0xC000),
		"values":  []any{float64(1), float64(2)},
	})
	if !strings.Contains(resultText(res), "Wrote 2 bytes to 0xC000") {
		t.Errorf("text = %q", resultText(res))
	}
	if core.mem[0xC000] != 1 || core.mem[0xC001] != 2 {
		t.Errorf("mem = %v", core.mem)
	}
}

func TestSaveLoadState(t *testing.T) {
	s, _, _ := testServer(t)
	loadTestRom(t, s)
	res := s.Call("save_state", nil)
	if !strings.Contains(resultText(res), "Saved state (32 bytes) at frame 2") {
		t.Errorf("text = %q", resultText(res))
	}

	if res := s.Call("run_frames", map[string]any{"frames": float64(10)}); res.IsError {
		t.Fatalf("run_frames failed: %s", resultText(res))
	}
	res = s.Call("load_state", nil)
	if !strings.Contains(resultText(res), "Loaded state. Now at frame 2.") {
		t.Errorf("text = %q", resultText(res))
	}
	if !hasImage(res) {
		t.Error("no image content attached")
	}
}

func TestLoadStateWithoutSave(t *testing.T) {
	s, _, _ := testServer(t)
	loadTestRom(t, s)
	res := s.Call("load_state", nil)
	if !res.IsError || !strings.Contains(resultText(res), "no savestate available") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestGetRegistersKeepsOrder(t *testing.T) {
	s, _, _ := testServer(t)
	loadTestRom(t, s)
	res := s.Call("get_registers", nil)
	if res.IsError {
		t.Fatalf("get_registers failed: %s", resultText(res))
	}
	text := resultText(res)
	var regs map[string]string
	if err := json.Unmarshal([]byte(text), &regs); err != nil {
		t.Fatal(err)
	}
	if regs["pc"] != "0x0100" || regs["sp"] != "0xFFFE" || regs["a"] != "0x0001" {
		t.Errorf("regs = %v", regs)
	}
	// register-file order, not the alphabetical order of a marshaled map
	if strings.Index(text, `"a"`) > strings.Index(text, `"f"`) ||
		strings.Index(text, `"sp"`) > strings.Index(text, `"pc"`) {
		t.Errorf("register order lost:\n%s", text)
	}
}

func TestDumpOamActiveOnly(t *testing.T) {
	s, _, core := testServer(t)
	loadTestRom(t, s)
	// one on-screen sprite at OAM slot 0, the rest stay at y=0 (hidden)
	core.mem[0xFE00] = 80 // y
	core.mem[0xFE01] = 40 // x

	res := s.Call("dump_oam", nil)
	var dump struct {
		Count   int `json:"count"`
		Sprites []struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"sprites"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Count != 1 || len(dump.Sprites) != 1 {
		t.Fatalf("dump = %+v", dump)
	}
	if dump.Sprites[0].X != 32 || dump.Sprites[0].Y != 64 {
		t.Errorf("sprite = %+v", dump.Sprites[0])
	}

	res = s.Call("dump_oam", map[string]any{"active_only": false})
	if err := json.Unmarshal([]byte(resultText(res)), &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Count != 40 {
		t.Errorf("count = %d, want all 40", dump.Count)
	}
}

func TestReset(t *testing.T) {
	s, emu, _ := testServer(t)
	loadTestRom(t, s)
	if err := emu.HoldButtons([]string{"a"}); err != nil {
		t.Fatal(err)
	}
	res := s.Call("reset", nil)
	if !strings.Contains(resultText(res), "Reset emulator.") {
		t.Errorf("text = %q", resultText(res))
	}
	if !hasImage(res) {
		t.Error("no image content attached")
	}
	// reset drops held buttons and restarts the counter (plus one
	// frame of auto-advance)
	if emu.HeldButtons() != 0 {
		t.Errorf("held = %#x after reset", emu.HeldButtons())
	}
	if emu.FrameCount() != 1 {
		t.Errorf("frame count = %d, want 1", emu.FrameCount())
	}
}

func TestToolCatalogue(t *testing.T) {
	tools := Tools()
	if len(tools) != 14 {
		t.Fatalf("tool count = %d, want 14", len(tools))
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
	}
	for _, name := range []string{
		"load_rom", "run_frames", "press_button", "hold_buttons",
		"release_buttons", "take_screenshot", "read_memory", "write_memory",
		"save_state", "load_state", "get_registers", "dump_oam",
		"reset", "get_info",
	} {
		if !seen[name] {
			t.Errorf("catalogue misses %s", name)
		}
	}
}
