package main

import (
	"context"
	goflag "flag"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/giongto35/mgba-mcp/pkg/config"
	"github.com/giongto35/mgba-mcp/pkg/emulator"
	"github.com/giongto35/mgba-mcp/pkg/emulator/mgba"
	"github.com/giongto35/mgba-mcp/pkg/logger"
	"github.com/giongto35/mgba-mcp/pkg/mcp"
	"github.com/giongto35/mgba-mcp/pkg/monitoring"
	"github.com/giongto35/mgba-mcp/pkg/os"
)

var Version = "0.1.0"

func main() {
	conf := config.NewConfig()
	conf.ParseFlags()
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()

	// stdout carries the protocol, all logging goes to stderr
	log := logger.NewConsole(conf.App.Debug, "mgba", false)
	log.Info().Msgf("version: %v", Version)
	log.Debug().Msgf("config: %+v", conf)

	if conf.App.LockFile != "" {
		lock, err := os.NewFileLock(conf.App.LockFile)
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't create the instance lock")
		}
		if err := lock.Lock(); err != nil {
			log.Fatal().Err(err).Msg("another instance holds the lock")
		}
		defer func() { _ = lock.Unlock() }()
	}

	mgba.SetLogger(log)

	emu := emulator.New(conf.Emulator, mgba.Factory(), log)
	defer emu.Close()

	var mon *monitoring.Monitoring
	if conf.Monitoring.IsEnabled() {
		mon = monitoring.New(conf.Monitoring, log)
		mon.Run()
	}

	srv := mcp.New(emu, conf, log)
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Run() }()

	select {
	case err := <-serveDone:
		if err != nil {
			log.Error().Err(err).Msg("transport closed with an error")
		}
	case <-os.ExpectTermination():
		log.Info().Msg("termination signal")
	}

	if mon != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = mon.Shutdown(ctx)
		cancel()
	}
	log.Info().Msg("shutdown")
}
