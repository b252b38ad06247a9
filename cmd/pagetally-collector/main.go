package main

import (
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pagetally/pagetally/internal/config"
	"github.com/pagetally/pagetally/internal/database"
	"github.com/pagetally/pagetally/internal/logging"
	"github.com/pagetally/pagetally/internal/server"
)

func main() {
	// app data dir: platform-specific
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		log.Fatal("Failed to get user home directory:", err)
	}

	var applicationDirectory string
	switch runtime.GOOS {
	case "darwin":
		applicationDirectory = filepath.Join(homeDirectory, "Library", "Application Support", "Pagetally")
	case "windows":
		applicationDirectory = filepath.Join(homeDirectory, "AppData", "Roaming", "Pagetally")
	default: // linux and others
		applicationDirectory = filepath.Join(homeDirectory, ".local", "share", "pagetally")
	}
	if err := os.MkdirAll(applicationDirectory, 0o755); err != nil {
		log.Fatal("Failed to create application directory:", err)
	}

	configPath := os.Getenv("PAGETALLY_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(applicationDirectory, config.DefaultFileName)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}

	databasePath := cfg.Database.Path
	if databasePath == "" {
		databasePath = filepath.Join(applicationDirectory, "hits.db")
	}

	// Initialize database
	db, err := database.NewDatabase(databasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Address precedence: env over config file over default
	serverAddress := os.Getenv("PAGETALLY_ADDRESS")
	if serverAddress == "" {
		serverAddress = cfg.Server.Address
	}

	// Initialize and start server
	srv := server.NewServer(db, serverAddress, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
