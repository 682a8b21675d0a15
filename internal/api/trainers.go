package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type TrainersService struct {
	client *Client
}

func (s *TrainersService) List(ctx context.Context) ([]domain.Trainer, error) {
	var out []domain.Trainer
	if err := s.client.get(ctx, "/gym/trainers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrainersService) Active(ctx context.Context) ([]domain.Trainer, error) {
	var out []domain.Trainer
	if err := s.client.get(ctx, "/gym/trainers/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrainersService) Get(ctx context.Context, id int64) (*domain.Trainer, error) {
	var out domain.Trainer
	if err := s.client.get(ctx, fmt.Sprintf("/gym/trainers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TrainersService) Create(ctx context.Context, t domain.Trainer) (*domain.Trainer, error) {
	var out domain.Trainer
	if err := s.client.post(ctx, "/gym/trainers", nil, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TrainersService) Update(ctx context.Context, id int64, t domain.Trainer) (*domain.Trainer, error) {
	var out domain.Trainer
	if err := s.client.put(ctx, fmt.Sprintf("/gym/trainers/%d", id), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TrainersService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/gym/trainers/%d", id))
}

func (s *TrainersService) BySpecialization(ctx context.Context, specialization string) ([]domain.Trainer, error) {
	var out []domain.Trainer
	path := "/gym/trainers/specialization/" + url.PathEscape(specialization)
	if err := s.client.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrainersService) TopRated(ctx context.Context) ([]domain.Trainer, error) {
	var out []domain.Trainer
	if err := s.client.get(ctx, "/gym/trainers/top-rated", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
