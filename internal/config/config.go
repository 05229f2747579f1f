package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/calvinwijaya/blackjack/internal/store"
	"github.com/joho/godotenv"
)

// Config holds everything the blackjack binary needs to start
type Config struct {
	Players     []string // usernames to seat; empty means ask on the console
	Listen      string   // spectator server address; empty disables it
	FrontendURL string   // allowed CORS origin for the spectator page
	Store       string   // memory, sqlite3, postgres or redis
	DSN         string   // sqlite file, postgres connection string or redis url
	Seed        int64    // 0 means seed from the clock
}

// Load reads an optional .env file, then parses flags whose defaults come
// from the environment. Flags win over the environment.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	seed, err := envInt64("BLACKJACK_SEED")
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("blackjack", flag.ContinueOnError)
	var (
		players  = fs.String("players", os.Getenv("BLACKJACK_PLAYERS"), "Comma separated player names")
		listen   = fs.String("listen", os.Getenv("BLACKJACK_LISTEN"), "Spectator server address, e.g. :8080")
		frontend = fs.String("frontend", envOr("BLACKJACK_FRONTEND", "http://localhost:5173"), "Frontend URL for CORS")
		driver   = fs.String("store", envOr("BLACKJACK_STORE", store.DriverMemory), "Profile store: memory, sqlite3, postgres or redis")
		dbPath   = fs.String("db", envOr("DATABASE_URL", "./data/blackjack.db"), "Database path or connection string")
		redisURL = fs.String("redis", envOr("REDIS_URL", "redis://localhost:6379/0"), "Redis URL")
		seedFlag = fs.Int64("seed", seed, "Shuffle seed, 0 for random")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Players:     splitNames(*players),
		Listen:      *listen,
		FrontendURL: *frontend,
		Store:       *driver,
		Seed:        *seedFlag,
	}

	switch cfg.Store {
	case store.DriverRedis:
		cfg.DSN = *redisURL
	case store.DriverSQLite, store.DriverPostgres:
		cfg.DSN = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the table cannot run with
func (c *Config) Validate() error {
	switch c.Store {
	case store.DriverMemory, store.DriverSQLite, store.DriverPostgres, store.DriverRedis:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if len(c.Players) > game.MaxPlayers {
		return fmt.Errorf("%d players cannot be dealt from one deck, at most %d", len(c.Players), game.MaxPlayers)
	}

	seen := make(map[string]bool, len(c.Players))
	for _, name := range c.Players {
		if seen[name] {
			return fmt.Errorf("player %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
