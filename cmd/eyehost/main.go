// Command eyehost loads a driver config and keeps it running until
// interrupted, logging aggregate status on a fixed tick.
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/podo-os/eye"
)

func main() {
	configPath := flag.String("config", "cameras.yaml", "path to the driver config YAML")
	statusEvery := flag.Duration("status-every", 5*time.Second, "interval between status log lines")
	export := flag.Bool("export", true, "start the export server on launch")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	driver, err := eye.MakeDriverFromFile(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("failed to build driver")
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Error().Err(err).Msg("driver close reported an error")
		}
	}()

	if *export {
		if err := driver.WakeUp(); err != nil {
			log.Fatal().Err(err).Msg("failed to start export server")
		}
	}

	for _, name := range driver.Names() {
		reader, err := driver.Get(name)
		if err != nil {
			log.Fatal().Err(err).Str("reader", name).Msg("unreachable: just enumerated")
		}
		if err := reader.Start(); err != nil {
			log.Error().Err(err).Str("reader", name).Msg("reader failed to start")
			continue
		}
		log.Info().Str("reader", name).Bool("export", reader.IsExport()).Msg("reader started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*statusEvery)
	defer ticker.Stop()

	log.Info().Strs("readers", driver.Names()).Msg("eyehost running — press Ctrl+C to stop")

	for {
		select {
		case sig := <-sigCh:
			log.Info().Stringer("signal", sig.(syscall.Signal)).Msg("received signal, shutting down")
			return
		case <-ticker.C:
			log.Info().Stringer("status", driver.Status()).Msg("driver status")
		}
	}
}
