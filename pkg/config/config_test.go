package config

import (
	"os"
	"testing"
)

func TestConfigEnv(t *testing.T) {
	var out Config

	_ = os.Setenv("MGBA_MCP_EMULATOR_WARMUPFRAMES", "33")
	defer func() { _ = os.Unsetenv("MGBA_MCP_EMULATOR_WARMUPFRAMES") }()

	if err := LoadConfigEnv(&out); err != nil {
		t.Fatal(err)
	}
	if out.Emulator.WarmupFrames != 33 {
		t.Errorf("warmup frames %v is not 33", out.Emulator.WarmupFrames)
	}
	if out.Server.Name != "mgba-mcp" {
		t.Errorf("unexpected default server name: %v", out.Server.Name)
	}
}

func TestSupportsRom(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".gb", true},
		{".GBA", true},
		{".gbc", true},
		{".nes", false},
		{"", false},
	}
	e := Emulator{Supported: []string{".gb", ".gbc", ".gba"}}
	for _, test := range tests {
		if got := e.SupportsRom(test.ext); got != test.want {
			t.Errorf("SupportsRom(%q) = %v, want %v", test.ext, got, test.want)
		}
	}
}
