package config

import (
	"flag"
	"strings"
)

type Config struct {
	App        App
	Emulator   Emulator
	Monitoring Monitoring
	Server     Server
}

type App struct {
	Debug bool
	// path of the single-instance lock file, empty disables locking
	LockFile string
}

type Server struct {
	Name    string `fig:"name" default:"mgba-mcp"`
	Version string `fig:"version" default:"0.1.0"`
}

type Emulator struct {
	// frames to run right after a ROM load before the first capture
	WarmupFrames int `fig:"warmupframes" default:"10"`
	// default BIOS file used when load_rom gets no explicit bios_path
	Bios      string
	Supported []string `fig:"supported" default:"[.gb,.gbc,.gba]"`
}

type Monitoring struct {
	Port             int    `fig:"port" default:"6601"`
	URLPrefix        string `fig:"urlprefix"`
	MetricEnabled    bool   `fig:"metricenabled"`
	ProfilingEnabled bool   `fig:"profilingenabled"`
}

func (m *Monitoring) IsEnabled() bool { return m.MetricEnabled || m.ProfilingEnabled }

// allows custom config path
var configPath string

func NewConfig() (conf Config) {
	if err := LoadConfig(&conf, configPath); err != nil {
		panic(err)
	}
	return
}

// ParseFlags registers runtime flag overrides on the default flag set
// with defaults taken from the current config values. The caller parses.
func (c *Config) ParseFlags() {
	flag.BoolVar(&c.App.Debug, "debug", c.App.Debug, "Enable debug logging")
	flag.StringVar(&c.App.LockFile, "lock", c.App.LockFile, "Single instance lock file path")
	flag.StringVar(&c.Emulator.Bios, "bios", c.Emulator.Bios, "Default BIOS file path")
	flag.IntVar(&c.Emulator.WarmupFrames, "warmup", c.Emulator.WarmupFrames, "Frames to run after a ROM load")
	flag.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	flag.BoolVar(&c.Monitoring.MetricEnabled, "monitoring.metrics", c.Monitoring.MetricEnabled, "Enable Prometheus metrics")
	flag.BoolVar(&c.Monitoring.ProfilingEnabled, "monitoring.pprof", c.Monitoring.ProfilingEnabled, "Enable pprof endpoints")
	flag.StringVar(&configPath, "conf", configPath, "Set custom configuration file path")
}

// SupportsRom tells if the ROM file extension is a known one.
func (e Emulator) SupportsRom(ext string) bool {
	ext = strings.ToLower(ext)
	for _, x := range e.Supported {
		if x == ext {
			return true
		}
	}
	return false
}
