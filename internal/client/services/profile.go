package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/cache"
	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

const profileKey = "profile"

type ProfileService interface {
	Get(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, p models.Profile) (*models.Profile, error)
}

type profileService struct {
	client client.Client
	cache  *cache.Cache
}

func NewProfileService(client client.Client, c *cache.Cache) ProfileService {
	return &profileService{client: client, cache: c}
}

func (s *profileService) Get(ctx context.Context) (*models.Profile, error) {
	return cache.Load(ctx, s.cache, profileKey, s.client.GetProfile)
}

func (s *profileService) Update(ctx context.Context, p models.Profile) (*models.Profile, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	switch {
	case p.FullName == "":
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	case !validEmail(p.Email):
		return nil, fmt.Errorf("%w: %q is not an email address", ErrInvalidInput, p.Email)
	case p.ExpectedSalary < 0:
		return nil, fmt.Errorf("%w: negative expected salary", ErrInvalidInput)
	}

	var skills []string
	for _, sk := range p.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	p.Skills = skills

	out, err := s.client.UpdateProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update profile error: %w", err)
	}
	s.cache.Invalidate(profileKey)
	return out, nil
}
