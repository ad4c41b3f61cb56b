package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamepulse/internal/config"
	"gamepulse/internal/database"
	"gamepulse/internal/ingest"
	"gamepulse/internal/services/itch"
	"gamepulse/internal/services/steam"
	"gamepulse/internal/services/steamspy"
	"gamepulse/internal/services/twitch"
	"gamepulse/internal/services/youtube"

	"github.com/joho/godotenv"
)

var (
	once     = flag.Bool("once", true, "run a single collection pass and exit")
	interval = flag.Duration("interval", 6*time.Hour, "pause between passes when -once=false")
	maxGames = flag.Int("max-games", 0, "cap the number of top-list games fetched (0 = all)")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	runner := ingest.NewRunner(
		db,
		steamspy.NewClient(),
		steam.NewClient(cfg.SteamAPIKey),
		itch.NewClient(),
		youtube.NewClient(cfg.YouTubeAPIKey),
		twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret),
	)
	if *maxGames > 0 {
		runner.SetMaxGames(*maxGames)
	}

	if *once {
		if _, err := runner.Run(context.Background()); err != nil {
			log.Fatalf("Ingestion run failed: %v", err)
		}
		return
	}

	// Scheduling between passes only; overlap protection is left to whatever
	// invokes this binary.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	log.Printf("Fetcher started, interval %s (PID %d)", *interval, os.Getpid())
	if _, err := runner.Run(context.Background()); err != nil {
		log.Printf("Ingestion run failed: %v", err)
	}

	for {
		select {
		case <-sigChan:
			log.Println("Shutting down fetcher")
			return
		case <-ticker.C:
			if _, err := runner.Run(context.Background()); err != nil {
				log.Printf("Ingestion run failed: %v", err)
			}
		}
	}
}
