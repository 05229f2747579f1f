package store

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of profile storage
type MemoryStore struct {
	profiles map[string]Profile
	names    map[string]string // username -> id
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		names:    make(map[string]string),
	}
}

// SaveProfile saves a copy of the profile
func (s *MemoryStore) SaveProfile(p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, taken := s.names[p.Username]; taken && id != p.ID {
		return ErrDuplicateUsername
	}

	// Drop the old name if the profile was renamed
	if old, exists := s.profiles[p.ID]; exists && old.Username != p.Username {
		delete(s.names, old.Username)
	}

	s.profiles[p.ID] = *p
	s.names[p.Username] = p.ID
	return nil
}

// GetProfile retrieves a profile by ID
func (s *MemoryStore) GetProfile(id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.profiles[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &p, nil
}

// GetProfileByName retrieves a profile by username
func (s *MemoryStore) GetProfileByName(username string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.names[username]
	if !exists {
		return nil, ErrNotFound
	}
	p := s.profiles[id]
	return &p, nil
}

// ListProfiles returns all profiles in the store
func (s *MemoryStore) ListProfiles() ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		p := p
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Username < profiles[j].Username
	})

	return profiles, nil
}

// DeleteProfile removes a profile from the store
func (s *MemoryStore) DeleteProfile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return ErrNotFound
	}

	delete(s.profiles, id)
	delete(s.names, p.Username)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
