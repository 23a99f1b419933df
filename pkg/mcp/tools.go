package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tools is the static tool catalogue. Names, descriptions and schemas
// are fixed, there is no dynamic registration.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("load_rom",
			mcp.WithDescription("Load a Game Boy or GBA ROM file. Must be called before other operations."),
			mcp.WithString("rom_path", mcp.Required(),
				mcp.Description("Path to the ROM file (.gb, .gbc, .gba)")),
			mcp.WithString("bios_path",
				mcp.Description("Optional path to BIOS file")),
		),
		mcp.NewTool("run_frames",
			mcp.WithDescription("Run the emulator for N frames and return a screenshot."),
			mcp.WithNumber("frames", mcp.DefaultNumber(1),
				mcp.Description("Number of frames to run (default: 1)")),
		),
		mcp.NewTool("press_button",
			mcp.WithDescription("Press a button for N frames. Buttons: a, b, start, select, up, down, left, right (and l, r for GBA)."),
			mcp.WithString("button", mcp.Required(),
				mcp.Description("Button to press"),
				mcp.Enum("a", "b", "select", "start", "up", "down", "left", "right", "l", "r")),
			mcp.WithNumber("frames", mcp.DefaultNumber(1),
				mcp.Description("Frames to hold the button (default: 1)")),
		),
		mcp.NewTool("hold_buttons",
			mcp.WithDescription("Set buttons to be held continuously until cleared."),
			mcp.WithArray("buttons", mcp.Required(),
				mcp.Description("List of buttons to hold"),
				mcp.Items(map[string]any{"type": "string"})),
		),
		mcp.NewTool("release_buttons",
			mcp.WithDescription("Release all held buttons."),
		),
		mcp.NewTool("take_screenshot",
			mcp.WithDescription("Capture the current screen."),
		),
		mcp.NewTool("read_memory",
			mcp.WithDescription("Read bytes from a memory address."),
			mcp.WithNumber("address", mcp.Required(),
				mcp.Description("Memory address (also accepts a hex string like '0xC000')")),
			mcp.WithNumber("length", mcp.DefaultNumber(1),
				mcp.Description("Number of bytes to read (default: 1)")),
		),
		mcp.NewTool("write_memory",
			mcp.WithDescription("Write bytes to a memory address."),
			mcp.WithNumber("address", mcp.Required(),
				mcp.Description("Memory address")),
			mcp.WithArray("values", mcp.Required(),
				mcp.Description("Byte values to write (0-255)"),
				mcp.Items(map[string]any{"type": "integer"})),
		),
		mcp.NewTool("save_state",
			mcp.WithDescription("Save the current emulator state."),
		),
		mcp.NewTool("load_state",
			mcp.WithDescription("Load a previously saved state."),
		),
		mcp.NewTool("get_registers",
			mcp.WithDescription("Get CPU register values."),
		),
		mcp.NewTool("dump_oam",
			mcp.WithDescription("Dump sprite (OAM) data."),
			mcp.WithBoolean("active_only", mcp.DefaultBool(true),
				mcp.Description("Only show sprites on screen (default: true)")),
		),
		mcp.NewTool("reset",
			mcp.WithDescription("Reset the emulator to the beginning of the ROM."),
		),
		mcp.NewTool("get_info",
			mcp.WithDescription("Get current emulator state info (ROM loaded, frame count, etc)."),
		),
	}
}
