package main

import (
	_ "embed"
	"flag"
	"os"
	"strings"

	"webnote/pkg/config"
	"webnote/pkg/log"
	"webnote/pkg/server"
	"webnote/pkg/store/notedir"
)

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if _, err := os.Stat(cfg.StaticRoot); os.IsNotExist(err) {
		log.Warn().Str("static_root", cfg.StaticRoot).Msg("Static root does not exist, assets will 404")
	}

	noteStore, err := notedir.New(cfg.SavePath, cfg.FileLimit, cfg.SingleFileSizeLimit)
	if err != nil {
		log.Fatal().Err(err).Str("save_path", cfg.SavePath).Msg("Failed to prepare save directory")
	}

	srv := server.NewNoteServer(cfg.SavePath, cfg.StaticRoot, strings.TrimSpace(Version), noteStore)

	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	os.Exit(0)
}
