package domain

type AttendanceMethod string

const (
	AttendanceQR        AttendanceMethod = "QR"
	AttendanceBiometric AttendanceMethod = "BIOMETRIC"
	AttendanceManual    AttendanceMethod = "MANUAL"
)

type Attendance struct {
	ID        int64            `json:"id"`
	MemberID  int64            `json:"memberId"`
	CheckIn   string           `json:"checkIn"`
	CheckOut  string           `json:"checkOut,omitempty"`
	Method    AttendanceMethod `json:"method"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

// Open reports whether the visit has a check-in without a matching check-out.
func (a Attendance) Open() bool {
	return a.CheckIn != "" && a.CheckOut == ""
}

type CheckInRequest struct {
	MemberID int64            `json:"memberId"`
	Method   AttendanceMethod `json:"method"`
	Notes    string           `json:"notes,omitempty"`
}

type CheckOutRequest struct {
	MemberID int64 `json:"memberId"`
}
