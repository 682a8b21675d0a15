package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type PaymentsService struct {
	client *Client
}

func (s *PaymentsService) List(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := s.client.get(ctx, "/gym/payments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentsService) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	var out domain.Payment
	if err := s.client.get(ctx, fmt.Sprintf("/gym/payments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentsService) ByMember(ctx context.Context, memberID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := s.client.get(ctx, fmt.Sprintf("/gym/payments/member/%d", memberID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentsService) Create(ctx context.Context, form domain.PaymentForm) (*domain.Payment, error) {
	var out domain.Payment
	if err := s.client.post(ctx, "/gym/payments", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentsService) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Payment, error) {
	q := url.Values{"status": {string(status)}}
	var out domain.Payment
	if err := s.client.patch(ctx, fmt.Sprintf("/gym/payments/%d/status", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentsService) Summary(ctx context.Context) (*domain.PaymentSummary, error) {
	var out domain.PaymentSummary
	if err := s.client.get(ctx, "/gym/payments/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
