package main

import (
	"flag"
	"log"

	"github.com/thisisniagahub/quran-agent/internal/app"
	"github.com/thisisniagahub/quran-agent/internal/config"
	"github.com/thisisniagahub/quran-agent/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: quran-agent [-config dir] alignment.json [alignment.json ...]")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := application.Run(flag.Args()); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
}
