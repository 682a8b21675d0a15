package domain

type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayUPI          PaymentMethod = "UPI"
	PayCard         PaymentMethod = "CARD"
	PayOnline       PaymentMethod = "ONLINE"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	MemberName    string        `json:"memberName,omitempty"`
	MembershipID  *int64        `json:"membershipId,omitempty"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        PaymentStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
	PaymentDate   string        `json:"paymentDate"`
	DueDate       string        `json:"dueDate,omitempty"`
	CreatedAt     string        `json:"createdAt"`
}

type PaymentForm struct {
	UserID        int64         `json:"userId"`
	MembershipID  *int64        `json:"membershipId,omitempty"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TransactionID string        `json:"transactionId,omitempty"`
	Status        PaymentStatus `json:"status"`
	PaymentDate   string        `json:"paymentDate"`
	DueDate       string        `json:"dueDate,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

type PaymentSummary struct {
	CurrentMonthAmount float64 `json:"currentMonthAmount"`
	TodayRevenue       float64 `json:"todayRevenue"`
	TotalOverdueAmount float64 `json:"totalOverdueAmount"`
	PendingAmount      float64 `json:"pendingAmount"`
}
