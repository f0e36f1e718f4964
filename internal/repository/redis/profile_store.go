package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"linkbio/internal/client"
	"linkbio/internal/models"
)

const profileKey = "profile"

// ProfileStore persists the single profile record as JSON.
type ProfileStore struct {
	client kvClient
}

func NewProfileStore(client *client.RedisClient) *ProfileStore {
	return &ProfileStore{client: client}
}

// Get returns the stored profile; found is false when none was saved yet.
func (s *ProfileStore) Get(ctx context.Context) (models.Profile, bool, error) {
	raw, err := s.client.Get(ctx, profileKey)
	if err != nil {
		if errors.Is(err, client.ErrKeyNotFound) {
			return models.Profile{}, false, nil
		}
		return models.Profile{}, false, fmt.Errorf("failed to read profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.Profile{}, false, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, true, nil
}

// Set stores the profile, replacing whatever was there.
func (s *ProfileStore) Set(ctx context.Context, p models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.client.Set(ctx, profileKey, raw, 0); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}
