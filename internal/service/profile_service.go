package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"linkbio/internal/models"
)

const (
	maxNameLen = 50
	maxBioLen  = 500
)

// ProfileRepository is the persistence surface the profile service needs.
type ProfileRepository interface {
	Get(ctx context.Context) (models.Profile, bool, error)
	Set(ctx context.Context, p models.Profile) error
}

// ProfileService owns the profile record and the public view.
type ProfileService struct {
	profiles ProfileRepository
	links    LinkRepository
	logger   *zap.Logger
}

func NewProfileService(profiles ProfileRepository, links LinkRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		links:    links,
		logger:   logger,
	}
}

// Update sanitizes and stores the profile. Avatar and background URLs must
// be http/https when present.
func (s *ProfileService) Update(ctx context.Context, p models.Profile) error {
	p.Name = sanitizeText(p.Name, maxNameLen)
	p.Bio = sanitizeText(p.Bio, maxBioLen)

	if p.AvatarURL != "" {
		normalized, ok := validateHTTPURL(p.AvatarURL)
		if !ok {
			return validationError("avatar URL must be http or https")
		}
		p.AvatarURL = normalized
	}
	if p.BackgroundURL != "" {
		normalized, ok := validateHTTPURL(p.BackgroundURL)
		if !ok {
			return validationError("background URL must be http or https")
		}
		p.BackgroundURL = normalized
	}

	if err := s.profiles.Set(ctx, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Info("Profile updated")
	return nil
}

// View is the public page payload: profile plus ordered links, fetched
// concurrently.
type View struct {
	Authed  bool           `json:"authed"`
	Profile models.Profile `json:"profile"`
	Links   []models.Link  `json:"links"`
}

// GetView assembles the public view. A missing profile falls back to the
// default placeholder.
func (s *ProfileService) GetView(ctx context.Context, authed bool) (View, error) {
	view := View{Authed: authed}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, found, err := s.profiles.Get(ctx)
		if err != nil {
			return err
		}
		if !found {
			profile = models.DefaultProfile()
		}
		view.Profile = profile
		return nil
	})
	g.Go(func() error {
		links, err := s.links.List(ctx)
		if err != nil {
			return err
		}
		view.Links = links
		return nil
	})

	if err := g.Wait(); err != nil {
		return View{}, fmt.Errorf("failed to load view: %w", err)
	}
	return view, nil
}
