package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/cache"
	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

const jobsPrefix = "jobs:"

// DefaultPageSize is used when a search does not set a limit.
const DefaultPageSize = 20

type JobService interface {
	Search(ctx context.Context, f models.JobFilter) (*models.Page[models.Job], error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Save(ctx context.Context, id string) error
	Unsave(ctx context.Context, id string) error
	Saved(ctx context.Context) ([]models.Job, error)
}

type jobService struct {
	client client.Client
	cache  *cache.Cache
}

func NewJobService(client client.Client, c *cache.Cache) JobService {
	return &jobService{client: client, cache: c}
}

func requireID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s id is required", ErrInvalidInput, kind)
	}
	return id, nil
}

func (s *jobService) Search(ctx context.Context, f models.JobFilter) (*models.Page[models.Job], error) {
	if f.SalaryMin < 0 || f.Page < 0 || f.Limit < 0 {
		return nil, fmt.Errorf("%w: negative filter value", ErrInvalidInput)
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}

	key := jobsPrefix + "search:" + f.Values().Encode()
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.Job], error) {
		return s.client.ListJobs(ctx, f)
	})
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	id, err := requireID("job", id)
	if err != nil {
		return nil, err
	}
	return cache.Load(ctx, s.cache, jobsPrefix+"get:"+id, func(ctx context.Context) (*models.Job, error) {
		return s.client.GetJob(ctx, id)
	})
}

func (s *jobService) Save(ctx context.Context, id string) error {
	id, err := requireID("job", id)
	if err != nil {
		return err
	}
	if err := s.client.SaveJob(ctx, id); err != nil {
		return fmt.Errorf("save job error: %w", err)
	}
	s.cache.Invalidate(jobsPrefix)
	return nil
}

func (s *jobService) Unsave(ctx context.Context, id string) error {
	id, err := requireID("job", id)
	if err != nil {
		return err
	}
	if err := s.client.UnsaveJob(ctx, id); err != nil {
		return fmt.Errorf("unsave job error: %w", err)
	}
	s.cache.Invalidate(jobsPrefix)
	return nil
}

func (s *jobService) Saved(ctx context.Context) ([]models.Job, error) {
	return cache.Load(ctx, s.cache, jobsPrefix+"saved", s.client.SavedJobs)
}
