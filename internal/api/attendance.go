package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type AttendanceService struct {
	client *Client
}

func (s *AttendanceService) List(ctx context.Context) ([]domain.Attendance, error) {
	var out []domain.Attendance
	if err := s.client.get(ctx, "/gym/attendance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AttendanceService) ByMember(ctx context.Context, memberID int64) ([]domain.Attendance, error) {
	var out []domain.Attendance
	if err := s.client.get(ctx, fmt.Sprintf("/gym/attendance/member/%d", memberID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AttendanceService) CheckIn(ctx context.Context, form domain.CheckInRequest) (*domain.Attendance, error) {
	var out domain.Attendance
	if err := s.client.post(ctx, "/gym/attendance/checkin", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckOut closes the member's open visit. The backend rejects a check-out
// without a matching open check-in.
func (s *AttendanceService) CheckOut(ctx context.Context, memberID int64) (*domain.Attendance, error) {
	var out domain.Attendance
	if err := s.client.post(ctx, "/gym/attendance/checkout", nil, domain.CheckOutRequest{MemberID: memberID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AttendanceService) ByDateRange(ctx context.Context, start, end string) ([]domain.Attendance, error) {
	q := url.Values{"startDate": {start}, "endDate": {end}}
	var out []domain.Attendance
	if err := s.client.get(ctx, "/gym/attendance/date-range", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
