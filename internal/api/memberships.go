package api

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type PlansService struct {
	client *Client
}

func (s *PlansService) List(ctx context.Context) ([]domain.MembershipPlan, error) {
	var out []domain.MembershipPlan
	if err := s.client.get(ctx, "/gym/membership-plans", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PlansService) Get(ctx context.Context, id int64) (*domain.MembershipPlan, error) {
	var out domain.MembershipPlan
	if err := s.client.get(ctx, fmt.Sprintf("/gym/membership-plans/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PlansService) Create(ctx context.Context, p domain.MembershipPlan) (*domain.MembershipPlan, error) {
	var out domain.MembershipPlan
	if err := s.client.post(ctx, "/gym/membership-plans", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PlansService) Update(ctx context.Context, id int64, p domain.MembershipPlan) (*domain.MembershipPlan, error) {
	var out domain.MembershipPlan
	if err := s.client.put(ctx, fmt.Sprintf("/gym/membership-plans/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PlansService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/gym/membership-plans/%d", id))
}

type MembershipsService struct {
	client *Client
}

// Assign links a member to a plan for a paid period.
func (s *MembershipsService) Assign(ctx context.Context, form domain.AssignMembershipRequest) (*domain.MemberMembership, error) {
	var out domain.MemberMembership
	if err := s.client.post(ctx, "/gym/member-memberships", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MembershipsService) ByMember(ctx context.Context, memberID int64) ([]domain.MemberMembership, error) {
	var out []domain.MemberMembership
	if err := s.client.get(ctx, fmt.Sprintf("/gym/member-memberships/member/%d", memberID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
