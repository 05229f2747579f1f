package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "blackjack:"

// RedisStore keeps each profile in a hash plus a username index hash and a
// set of all profile IDs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the server at url (redis://host:port/db)
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: redisPrefix}, nil
}

func (s *RedisStore) profileKey(id string) string { return s.prefix + "profile:" + id }
func (s *RedisStore) namesKey() string           { return s.prefix + "profiles:byname" }
func (s *RedisStore) idsKey() string             { return s.prefix + "profiles" }

// SaveProfile saves a profile and keeps the username index in step
func (s *RedisStore) SaveProfile(p *Profile) error {
	ctx := context.Background()

	id, err := s.client.HGet(ctx, s.namesKey(), p.Username).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil && id != p.ID {
		return ErrDuplicateUsername
	}

	old, err := s.GetProfile(p.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if old != nil && old.Username != p.Username {
			pipe.HDel(ctx, s.namesKey(), old.Username)
		}
		pipe.HSet(ctx, s.profileKey(p.ID), map[string]interface{}{
			"id":         p.ID,
			"username":   p.Username,
			"created_at": p.CreatedAt.UnixMilli(),
			"last_seen":  p.LastSeen.UnixMilli(),
		})
		pipe.HSet(ctx, s.namesKey(), p.Username, p.ID)
		pipe.SAdd(ctx, s.idsKey(), p.ID)
		return nil
	})
	return err
}

// GetProfile retrieves a profile by ID
func (s *RedisStore) GetProfile(id string) (*Profile, error) {
	fields, err := s.client.HGetAll(context.Background(), s.profileKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("profile %s: bad created_at: %w", id, err)
	}
	lastSeen, err := strconv.ParseInt(fields["last_seen"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("profile %s: bad last_seen: %w", id, err)
	}

	return &Profile{
		ID:        fields["id"],
		Username:  fields["username"],
		CreatedAt: time.UnixMilli(createdAt),
		LastSeen:  time.UnixMilli(lastSeen),
	}, nil
}

// GetProfileByName retrieves a profile by username
func (s *RedisStore) GetProfileByName(username string) (*Profile, error) {
	id, err := s.client.HGet(context.Background(), s.namesKey(), username).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetProfile(id)
}

// ListProfiles returns every profile ordered by username
func (s *RedisStore) ListProfiles() ([]*Profile, error) {
	ids, err := s.client.SMembers(context.Background(), s.idsKey()).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProfile(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Username < profiles[j].Username
	})
	return profiles, nil
}

// DeleteProfile removes a profile and its index entries
func (s *RedisStore) DeleteProfile(id string) error {
	p, err := s.GetProfile(id)
	if err != nil {
		return err
	}

	ctx := context.Background()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.profileKey(id))
		pipe.HDel(ctx, s.namesKey(), p.Username)
		pipe.SRem(ctx, s.idsKey(), id)
		return nil
	})
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
