package store

import (
	"github.com/calvinwijaya/blackjack/internal/db"
)

// DatabaseStore is a database implementation of profile storage
type DatabaseStore struct {
	db *db.Database
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.Database) *DatabaseStore {
	return &DatabaseStore{
		db: database,
	}
}

// SaveProfile saves a profile to the database
func (s *DatabaseStore) SaveProfile(p *Profile) error {
	existing, err := s.db.GetProfileByName(p.Username)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != p.ID {
		return ErrDuplicateUsername
	}
	return s.db.SaveProfile(p)
}

// GetProfile retrieves a profile by ID
func (s *DatabaseStore) GetProfile(id string) (*Profile, error) {
	p, err := s.db.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// GetProfileByName retrieves a profile by username
func (s *DatabaseStore) GetProfileByName(username string) (*Profile, error) {
	p, err := s.db.GetProfileByName(username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListProfiles returns all profiles in the database
func (s *DatabaseStore) ListProfiles() ([]*Profile, error) {
	return s.db.ListProfiles()
}

// DeleteProfile removes a profile from the database
func (s *DatabaseStore) DeleteProfile(id string) error {
	removed, err := s.db.DeleteProfile(id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) Close() error {
	return s.db.Close()
}
