package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinwijaya/blackjack/internal/db"
	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("profile not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

type Profile = db.Profile

// Store defines the interface for player profile storage
type Store interface {
	// SaveProfile inserts or updates a profile
	SaveProfile(p *Profile) error

	// GetProfile retrieves a profile by ID
	GetProfile(id string) (*Profile, error)

	// GetProfileByName retrieves a profile by username
	GetProfileByName(username string) (*Profile, error)

	// ListProfiles returns every profile ordered by username
	ListProfiles() ([]*Profile, error)

	// DeleteProfile removes a profile
	DeleteProfile(id string) error

	Close() error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = db.DriverSQLite
	DriverPostgres = db.DriverPostgres
	DriverRedis    = "redis"
)

// Open builds the store for a driver. dsn is the sqlite file, the postgres
// connection string or the redis URL; the memory store ignores it.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
		database, err := db.NewDatabase(driver, dsn)
		if err != nil {
			return nil, err
		}
		return NewDatabaseStore(database), nil
	case DriverRedis:
		return NewRedisStore(dsn)
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// Register returns the profile for a username, creating it on first sight.
// Returning players get their LastSeen refreshed.
func Register(s Store, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = game.DefaultUsername
	}

	now := time.Now()
	p, err := s.GetProfileByName(username)
	switch {
	case errors.Is(err, ErrNotFound):
		p = &Profile{
			ID:        uuid.New().String(),
			Username:  username,
			CreatedAt: now,
			LastSeen:  now,
		}
	case err != nil:
		return nil, err
	default:
		p.LastSeen = now
	}

	if err := s.SaveProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}
