package domain

type Gym struct {
	ID          int64  `json:"id"`
	GymCode     string `json:"gymCode,omitempty"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	OpeningTime string `json:"openingTime,omitempty"`
	ClosingTime string `json:"closingTime,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ProgressEntry struct {
	ID              int64   `json:"id"`
	MemberID        int64   `json:"memberId"`
	MeasurementDate string  `json:"measurementDate"`
	Weight          float64 `json:"weight"`
	Height          float64 `json:"height"`
	BodyFat         float64 `json:"bodyFat"`
	MuscleMass      float64 `json:"muscleMass"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type DashboardSummary struct {
	TotalMembers             int     `json:"totalMembers"`
	ActiveMembers            int     `json:"activeMembers"`
	TotalPaymentsCurrentMonth float64 `json:"totalPaymentsCurrentMonth"`
	ExpiringMembersCount     int     `json:"expiringMembersCount"`
	PendingPayments          int     `json:"pendingPayments"`
	TodayAttendance          int     `json:"todayAttendance"`
}
