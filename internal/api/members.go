package api

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type MembersService struct {
	client *Client
}

func (s *MembersService) List(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	if err := s.client.get(ctx, "/gym/members/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MembersService) Get(ctx context.Context, id int64) (*domain.Member, error) {
	var out domain.Member
	if err := s.client.get(ctx, fmt.Sprintf("/gym/members/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MembersService) Create(ctx context.Context, m domain.Member) (*domain.Member, error) {
	var out domain.Member
	if err := s.client.post(ctx, "/gym/members", nil, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
