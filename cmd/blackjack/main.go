package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/calvinwijaya/blackjack/internal/api"
	"github.com/calvinwijaya/blackjack/internal/config"
	"github.com/calvinwijaya/blackjack/internal/console"
	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/calvinwijaya/blackjack/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create data directory if it doesn't exist
	if cfg.Store == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	profiles, err := store.Open(cfg.Store, cfg.DSN)
	if err != nil {
		log.Printf("Warning: Failed to open %s store: %v", cfg.Store, err)
		log.Println("Continuing with in-memory profiles")
		profiles = store.NewMemoryStore()
	}
	defer profiles.Close()

	term := console.New(os.Stdin, os.Stdout)
	term.Welcome()

	var opts []game.Option
	if cfg.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Seed))
	}
	opts = append(opts, game.WithListener(term))
	g := game.NewGame(opts...)

	names := cfg.Players
	if len(names) == 0 {
		name, err := term.AskName()
		if err != nil && !errors.Is(err, io.EOF) {
			log.Fatalf("Failed to read player name: %v", err)
		}
		names = []string{name}
	}

	for _, name := range names {
		p, err := store.Register(profiles, name)
		if err != nil {
			log.Fatalf("Failed to register %q: %v", name, err)
		}
		if g.AddPlayer(p.ID, p.Username) == nil {
			log.Fatalf("No seat left for %q", p.Username)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var srv *http.Server
	if cfg.Listen != "" {
		hub := api.NewHub()
		go hub.Run(ctx)
		g.AddListener(hub)
		log.Println("WebSocket hub started")

		srv = api.NewServer(cfg.Listen, api.NewRouter(api.NewHandlers(profiles, hub), cfg.FrontendURL))
		go func() {
			log.Printf("Starting spectator server on %s", cfg.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server error: %v", err)
			}
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Run(term)
	}()

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, io.EOF) {
			log.Printf("Game ended: %v", err)
		}
	case <-stop:
		log.Println("Interrupted")
	}

	if srv != nil {
		log.Println("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}
}
