package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cliphist/internal/clipboard"
	"cliphist/internal/config"
	"cliphist/internal/server"
	"cliphist/internal/service"
	"cliphist/internal/snippets"
	"cliphist/internal/storage"
)

func main() {
	// Configuration flags
	var (
		dataDir  = flag.String("data", "", "Data directory (default: ~/.cliphist)")
		port     = flag.Int("port", 8931, "HTTP API port")
		interval = flag.Duration("poll", 500*time.Millisecond, "Clipboard poll interval")
		pasteCmd = flag.String("paste-cmd", "", "Command sending a paste keystroke (e.g. \"xdotool key ctrl+v\")")
		noSnip   = flag.Bool("no-snippets", false, "Disable the snippets store")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)

	flag.Parse()

	// Set up the data directory
	if *dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dataDir = filepath.Join(homeDir, ".cliphist")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	pid := server.NewPIDFile(*dataDir)
	if err := pid.Acquire(); err != nil {
		log.Fatalf("Another instance appears to be running: %v", err)
	}
	defer pid.Remove()

	settings, err := config.Load(*dataDir)
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
	}

	// Clipboard access
	var pasteArgs []string
	if *pasteCmd != "" {
		pasteArgs = strings.Fields(*pasteCmd)
	}
	accessor, err := clipboard.NewCommandAccessor(pasteArgs)
	if err != nil {
		log.Fatalf("Failed to set up clipboard access: %v", err)
	}
	var paster clipboard.Paster
	if accessor.PasteSupported() {
		paster = accessor
	}

	// Snippets collaborator, optional
	var snipStore *snippets.Store
	if !*noSnip {
		snipStore, err = snippets.New(filepath.Join(*dataDir, "snippets.db"))
		if err != nil {
			log.Printf("Snippets store unavailable: %v", err)
		}
	}

	svc := service.New(service.Options{
		DataDir:  *dataDir,
		Monitor:  clipboard.NewPollMonitor(accessor, *interval),
		Accessor: accessor,
		Paster:   paster,
		Snippets: snipStore,
		Bridge:   storage.NewJSONFile(*dataDir),
		Settings: settings,
	})

	srv := server.New(svc, server.Config{Port: *port})
	svc.RegisterHandler(srv.Hub())

	if err := svc.Start(); err != nil {
		log.Fatalf("Failed to start history service: %v", err)
	}
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}

	if *verbose {
		log.Printf("cliphistd started")
		log.Printf("Data directory: %s", *dataDir)
		log.Printf("History limit: %d", settings.HistoryLimit)
		log.Printf("Persistence: %v", settings.Persist)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// Clean shutdown
	if *verbose {
		log.Println("Shutting down...")
	}
	if err := srv.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
	if err := svc.Stop(); err != nil {
		log.Printf("Error stopping service: %v", err)
	}
}
