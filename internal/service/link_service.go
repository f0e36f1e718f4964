package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/models"
)

const (
	maxTitleLen = 100
	maxIconLen  = 200
	// Icons are either an http(s) URL or a short emoji; anything longer
	// that isn't a URL is rejected.
	maxEmojiIconLen = 5
)

// LinkRepository is the persistence surface the link service needs.
type LinkRepository interface {
	List(ctx context.Context) ([]models.Link, error)
	Create(ctx context.Context, link models.Link) error
	Update(ctx context.Context, link models.Link) error
	Delete(ctx context.Context, id string) error
	SetOrder(ctx context.Context, ids []string) error
}

// LinkService validates and manages the link list.
type LinkService struct {
	links  LinkRepository
	logger *zap.Logger
}

func NewLinkService(links LinkRepository, logger *zap.Logger) *LinkService {
	return &LinkService{links: links, logger: logger}
}

func (s *LinkService) List(ctx context.Context) ([]models.Link, error) {
	return s.links.List(ctx)
}

// Create validates and stores a new link, returning its generated id.
func (s *LinkService) Create(ctx context.Context, icon, title, rawURL string) (string, error) {
	link, err := buildLink(icon, title, rawURL)
	if err != nil {
		return "", err
	}
	link.ID = uuid.NewString()

	if err := s.links.Create(ctx, link); err != nil {
		return "", fmt.Errorf("failed to create link: %w", err)
	}
	s.logger.Info("Link created", zap.String("link_id", link.ID))
	return link.ID, nil
}

// Update validates and overwrites the link with the given id.
func (s *LinkService) Update(ctx context.Context, id, icon, title, rawURL string) error {
	if id == "" {
		return validationError("missing link id")
	}
	link, err := buildLink(icon, title, rawURL)
	if err != nil {
		return err
	}
	link.ID = id

	if err := s.links.Update(ctx, link); err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

func (s *LinkService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationError("missing link id")
	}
	if err := s.links.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	s.logger.Info("Link deleted", zap.String("link_id", id))
	return nil
}

// Reorder replaces the display order with the submitted id list.
func (s *LinkService) Reorder(ctx context.Context, ids []string) error {
	if ids == nil {
		return validationError("missing order list")
	}
	if err := s.links.SetOrder(ctx, ids); err != nil {
		return fmt.Errorf("failed to reorder links: %w", err)
	}
	return nil
}

func buildLink(icon, title, rawURL string) (models.Link, error) {
	title = sanitizeText(title, maxTitleLen)
	icon = sanitizeText(icon, maxIconLen)

	safeURL, ok := validateHTTPURL(rawURL)
	if title == "" || !ok {
		return models.Link{}, validationError("missing fields or invalid URL")
	}
	if icon != "" && !isHTTPURL(icon) && len([]rune(icon)) > maxEmojiIconLen {
		return models.Link{}, validationError("invalid icon")
	}

	return models.Link{Icon: icon, Title: title, URL: safeURL}, nil
}
