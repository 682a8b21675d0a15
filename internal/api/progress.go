package api

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type ProgressService struct {
	client *Client
}

func (s *ProgressService) List(ctx context.Context) ([]domain.ProgressEntry, error) {
	var out []domain.ProgressEntry
	if err := s.client.get(ctx, "/gym/progress", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProgressService) ByMember(ctx context.Context, memberID int64) ([]domain.ProgressEntry, error) {
	var out []domain.ProgressEntry
	if err := s.client.get(ctx, fmt.Sprintf("/gym/progress/member/%d", memberID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProgressService) Record(ctx context.Context, entry domain.ProgressEntry) (*domain.ProgressEntry, error) {
	var out domain.ProgressEntry
	if err := s.client.post(ctx, "/gym/progress", nil, entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProgressService) Update(ctx context.Context, id int64, entry domain.ProgressEntry) (*domain.ProgressEntry, error) {
	var out domain.ProgressEntry
	if err := s.client.put(ctx, fmt.Sprintf("/gym/progress/%d", id), entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProgressService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/gym/progress/%d", id))
}
