// Package mcp adapts the emulator facade to the Model Context Protocol:
// a static tool catalogue served over stdio, with every failure rendered
// as a text error response instead of a protocol-level fault.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/giongto35/mgba-mcp/pkg/config"
	"github.com/giongto35/mgba-mcp/pkg/emulator"
	"github.com/giongto35/mgba-mcp/pkg/logger"
	"github.com/giongto35/mgba-mcp/pkg/monitoring"
)

type Server struct {
	emu  *emulator.Emulator
	conf config.Config
	log  *logger.Logger
	mcp  *server.MCPServer
}

func New(emu *emulator.Emulator, conf config.Config, log *logger.Logger) *Server {
	s := &Server{
		emu:  emu,
		conf: conf,
		log:  log.Extend(log.With().Str("m", "mcp")),
	}
	srv := server.NewMCPServer(conf.Server.Name, conf.Server.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, tool := range Tools() {
		name := tool.Name
		srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.Call(name, req.GetArguments()), nil
		})
	}
	s.mcp = srv
	return s
}

// Run blocks serving the stdio transport until it closes.
func (s *Server) Run() error { return server.ServeStdio(s.mcp) }

// Call dispatches a single tool invocation by name. Facade errors come
// back as their message, anything else (bad arguments, panics) as an
// "Unexpected error" text, so the transport never sees a failure.
func (s *Server) Call(name string, args map[string]any) (res *mcp.CallToolResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Msgf("tool %s panicked: %v", name, r)
			res = errorResult("Unexpected error: %v", r)
		}
		outcome := "ok"
		if res != nil && res.IsError {
			outcome = "error"
		}
		monitoring.ToolCalls.WithLabelValues(name, outcome).Inc()
		monitoring.ToolSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	r, err := s.call(name, args)
	if err != nil {
		var emuErr *emulator.Error
		if errors.As(err, &emuErr) {
			return errorResult("%s", emuErr.Msg)
		}
		s.log.Error().Err(err).Msgf("tool %s failed", name)
		return errorResult("Unexpected error: %v", err)
	}
	return r
}

func (s *Server) call(name string, args map[string]any) (*mcp.CallToolResult, error) {
	s.log.Debug().Msgf("tool call %s", name)

	switch name {
	case "load_rom", "get_info":
	default:
		if !s.emu.Loaded() {
			return errorResult("No ROM loaded. Call load_rom first."), nil
		}
	}

	switch name {
	case "load_rom":
		return s.loadRom(args)
	case "run_frames":
		return s.runFrames(args)
	case "press_button":
		return s.pressButton(args)
	case "hold_buttons":
		return s.holdButtons(args)
	case "release_buttons":
		if err := s.emu.ClearButtons(); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText("Released all buttons."), nil
	case "take_screenshot":
		return s.screenshot(fmt.Sprintf("Screenshot at frame %d.", s.emu.FrameCount()))
	case "read_memory":
		return s.readMemory(args)
	case "write_memory":
		return s.writeMemory(args)
	case "save_state":
		state, err := s.emu.SaveState()
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(fmt.Sprintf("Saved state (%d bytes) at frame %d",
			len(state), s.emu.FrameCount())), nil
	case "load_state":
		if err := s.emu.LoadState(nil); err != nil {
			return nil, err
		}
		return s.screenshot(fmt.Sprintf("Loaded state. Now at frame %d.", s.emu.FrameCount()))
	case "get_registers":
		return s.registers()
	case "dump_oam":
		return s.dumpOam(args)
	case "reset":
		if err := s.emu.Reset(); err != nil {
			return nil, err
		}
		if _, err := s.emu.RunFrames(1); err != nil {
			return nil, err
		}
		monitoring.FramesRun.Inc()
		return s.screenshot("Reset emulator.")
	case "get_info":
		return s.info()
	default:
		return errorResult("Unknown tool: %s", name), nil
	}
}

func (s *Server) loadRom(args map[string]any) (*mcp.CallToolResult, error) {
	romPath, err := argString(args, "rom_path")
	if err != nil {
		return nil, err
	}
	info, err := s.emu.LoadROM(romPath, optString(args, "bios_path"))
	if err != nil {
		return nil, err
	}
	if warm := s.conf.Emulator.WarmupFrames; warm > 0 {
		if _, err := s.emu.RunFrames(warm); err != nil {
			return nil, err
		}
		monitoring.FramesRun.Add(float64(warm))
	}
	return s.screenshot(fmt.Sprintf("Loaded ROM: %s (%s)\nResolution: %dx%d",
		info.Title, info.Platform, info.Width, info.Height))
}

func (s *Server) runFrames(args map[string]any) (*mcp.CallToolResult, error) {
	frames := argInt(args, "frames", 1)
	frame, err := s.emu.RunFrames(frames)
	if err != nil {
		return nil, err
	}
	monitoring.FramesRun.Add(float64(frames))
	return s.screenshot(fmt.Sprintf("Ran %d frames. Now at frame %d.", frames, frame))
}

func (s *Server) pressButton(args map[string]any) (*mcp.CallToolResult, error) {
	button, err := argString(args, "button")
	if err != nil {
		return nil, err
	}
	frames := argInt(args, "frames", 1)
	if err := s.emu.PressButton(button, frames); err != nil {
		return nil, err
	}
	monitoring.FramesRun.Add(float64(frames))
	return s.screenshot(fmt.Sprintf("Pressed %s for %d frames.", button, frames))
}

func (s *Server) holdButtons(args map[string]any) (*mcp.CallToolResult, error) {
	buttons, err := argStringList(args, "buttons")
	if err != nil {
		return nil, err
	}
	if err := s.emu.HoldButtons(buttons); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText("Holding buttons: " + strings.Join(buttons, ", ")), nil
}

func (s *Server) readMemory(args map[string]any) (*mcp.CallToolResult, error) {
	addr, err := parseAddress(args, "address")
	if err != nil {
		return nil, err
	}
	length := argInt(args, "length", 1)
	values, err := s.emu.ReadMemory(addr, length)
	if err != nil {
		return nil, err
	}
	hex := make([]string, len(values))
	ints := make([]int, len(values))
	for i, v := range values {
		hex[i] = fmt.Sprintf("%02X", v)
		ints[i] = int(v)
	}
	return jsonResult(struct {
		Address string `json:"address"`
		Length  int    `json:"length"`
		Hex     string `json:"hex"`
		Values  []int  `json:"values"`
	}{
		Address: fmt.Sprintf("0x%04X", addr),
		Length:  length,
		Hex:     strings.Join(hex, " "),
		Values:  ints,
	})
}

func (s *Server) writeMemory(args map[string]any) (*mcp.CallToolResult, error) {
	addr, err := parseAddress(args, "address")
	if err != nil {
		return nil, err
	}
	values, err := argByteList(args, "values")
	if err != nil {
		return nil, err
	}
	if err := s.emu.WriteMemory(addr, values); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d bytes to 0x%04X", len(values), addr)), nil
}

// registers renders the register file as a JSON object by hand to keep
// the platform's register order, map marshaling would sort the keys.
func (s *Server) registers() (*mcp.CallToolResult, error) {
	regs, err := s.emu.Registers()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, r := range regs {
		fmt.Fprintf(&b, "  %q: %q", r.Name, fmt.Sprintf("0x%04X", r.Value))
		if i < len(regs)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('}')
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) dumpOam(args map[string]any) (*mcp.CallToolResult, error) {
	sprites, err := s.emu.DumpOAM()
	if err != nil {
		return nil, err
	}
	if argBool(args, "active_only", true) {
		visible := sprites[:0]
		for _, sp := range sprites {
			if sp.Visible() {
				visible = append(visible, sp)
			}
		}
		sprites = visible
	}
	return jsonResult(struct {
		Count   int               `json:"count"`
		Sprites []emulator.Sprite `json:"sprites"`
	}{Count: len(sprites), Sprites: sprites})
}

func (s *Server) info() (*mcp.CallToolResult, error) {
	info := s.emu.Info()
	resp := struct {
		Loaded     bool    `json:"loaded"`
		FrameCount uint32  `json:"frame_count"`
		RomPath    string  `json:"rom_path,omitempty"`
		Platform   *string `json:"platform"`
	}{Loaded: info.Loaded, FrameCount: info.FrameCount, RomPath: info.RomPath}
	if info.Loaded {
		p := info.Platform.String()
		resp.Platform = &p
	}
	return jsonResult(resp)
}

// screenshot captures the current frame and attaches it to a text result.
func (s *Server) screenshot(text string) (*mcp.CallToolResult, error) {
	shot, err := s.emu.ScreenshotBase64()
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultImage(text, shot, "image/png"), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + fmt.Sprintf(format, args...))
}
