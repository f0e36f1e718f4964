package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"linkbio/internal/client"
	"linkbio/internal/models"
)

const (
	linkPrefix   = "link:"
	linkOrderKey = "links:order"
)

// LinkStore persists links as per-id JSON records plus an ordering list.
type LinkStore struct {
	client kvClient
}

func NewLinkStore(client *client.RedisClient) *LinkStore {
	return &LinkStore{client: client}
}

// List returns all links in display order. Ids whose record is missing
// (deleted out of band) are skipped.
func (s *LinkStore) List(ctx context.Context) ([]models.Link, error) {
	ids, err := s.client.LRange(ctx, linkOrderKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read link order: %w", err)
	}
	if len(ids) == 0 {
		return []models.Link{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = linkPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	links := make([]models.Link, 0, len(ids))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var link models.Link
		if err := json.Unmarshal([]byte(raw), &link); err != nil {
			continue
		}
		link.ID = ids[i]
		links = append(links, link)
	}
	return links, nil
}

// Create stores a new link and appends its id to the order list.
func (s *LinkStore) Create(ctx context.Context, link models.Link) error {
	if err := s.put(ctx, link); err != nil {
		return err
	}
	if err := s.client.RPush(ctx, linkOrderKey, link.ID); err != nil {
		return fmt.Errorf("failed to append link to order: %w", err)
	}
	return nil
}

// Update overwrites an existing link record. Order is untouched.
func (s *LinkStore) Update(ctx context.Context, link models.Link) error {
	return s.put(ctx, link)
}

// Delete removes the link record and its order entry.
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, linkPrefix+id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if err := s.client.LRem(ctx, linkOrderKey, 0, id); err != nil {
		return fmt.Errorf("failed to remove link from order: %w", err)
	}
	return nil
}

// SetOrder replaces the ordering list wholesale.
func (s *LinkStore) SetOrder(ctx context.Context, ids []string) error {
	if err := s.client.Del(ctx, linkOrderKey); err != nil {
		return fmt.Errorf("failed to clear link order: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	if err := s.client.RPush(ctx, linkOrderKey, values...); err != nil {
		return fmt.Errorf("failed to store link order: %w", err)
	}
	return nil
}

func (s *LinkStore) put(ctx context.Context, link models.Link) error {
	record := struct {
		Icon  string `json:"icon"`
		Title string `json:"title"`
		URL   string `json:"url"`
	}{link.Icon, link.Title, link.URL}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}
	if err := s.client.Set(ctx, linkPrefix+link.ID, raw, 0); err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}
	return nil
}
