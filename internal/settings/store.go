package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wordplaylabs/wordquest/internal/session"
)

// Store persists each player's last-used quiz settings in Redis so they
// follow the child across devices. Reads fall back to defaults when unset.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("settings:%s", userID.String())
}

// Defaults returns the settings used before a player ever saves any.
func Defaults() session.Settings {
	s := session.Settings{}
	_ = s.Normalize()
	return s
}

// Get returns the player's saved settings, or defaults when unset.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (session.Settings, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return Defaults(), nil
	}
	if err != nil {
		return session.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	var settings session.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return session.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Normalize(); err != nil {
		// Stored value predates a rule change; fall back rather than error.
		return Defaults(), nil
	}
	return settings, nil
}

// Put validates and saves the player's settings.
func (s *Store) Put(ctx context.Context, userID uuid.UUID, settings session.Settings) error {
	if err := settings.Normalize(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
