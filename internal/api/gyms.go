package api

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type GymsService struct {
	client *Client
}

func (s *GymsService) List(ctx context.Context) ([]domain.Gym, error) {
	var out []domain.Gym
	if err := s.client.get(ctx, "/gym/gyms/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GymsService) Active(ctx context.Context) ([]domain.Gym, error) {
	var out []domain.Gym
	if err := s.client.get(ctx, "/gym/gyms/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GymsService) Get(ctx context.Context, id int64) (*domain.Gym, error) {
	var out domain.Gym
	if err := s.client.get(ctx, fmt.Sprintf("/gym/gyms/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GymsService) Create(ctx context.Context, g domain.Gym) (*domain.Gym, error) {
	var out domain.Gym
	if err := s.client.post(ctx, "/gym/gyms/create", nil, g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GymsService) Update(ctx context.Context, id int64, g domain.Gym) (*domain.Gym, error) {
	var out domain.Gym
	if err := s.client.put(ctx, fmt.Sprintf("/gym/gyms/%d", id), g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GymsService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/gym/gyms/%d", id))
}

type DashboardService struct {
	client *Client
}

func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := s.client.get(ctx, "/gym/dashboard/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
