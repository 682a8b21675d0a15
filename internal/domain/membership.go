package domain

type MembershipPlan struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	DurationMonths int      `json:"durationMonths"`
	Features       []string `json:"features"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// MemberMembership links a member to a plan for a paid period.
type MemberMembership struct {
	ID          int64   `json:"id"`
	MemberID    int64   `json:"memberId"`
	PlanID      int64   `json:"planId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	AmountPaid  float64 `json:"amountPaid"`
	GymID       int64   `json:"gymId"`
	Status      string  `json:"status"`
	AutoRenewal bool    `json:"autoRenewal"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type AssignMembershipRequest struct {
	MemberID    int64   `json:"memberId"`
	PlanID      int64   `json:"planId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	AmountPaid  float64 `json:"amountPaid"`
	AutoRenewal bool    `json:"autoRenewal"`
}
