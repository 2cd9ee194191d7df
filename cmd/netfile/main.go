package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"netfile/internal/config"
	"netfile/internal/logging"
	"netfile/internal/menu"
	"netfile/internal/resource"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.Configure(cfg.Logging)

	notifyInterrupt(func() {
		fmt.Println("\n\nterminated by user.")
		os.Exit(0)
	})

	opts := []resource.Option{
		resource.WithUserAgent(cfg.HTTP.UserAgent),
		resource.WithTimeouts(
			time.Duration(cfg.HTTP.ProbeTimeout)*time.Second,
			time.Duration(cfg.HTTP.FetchTimeout)*time.Second,
		),
	}
	menu.New(os.Stdin, os.Stdout, opts...).Run()
}
