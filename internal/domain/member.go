package domain

type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberInactive  MemberStatus = "INACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberExpired   MemberStatus = "EXPIRED"
)

type Member struct {
	ID                       int64        `json:"id"`
	MemberCode               string       `json:"memberCode"`
	FirstName                string       `json:"firstName"`
	LastName                 string       `json:"lastName"`
	Email                    string       `json:"email"`
	Phone                    string       `json:"phone"`
	DateOfBirth              string       `json:"dateOfBirth"`
	Gender                   string       `json:"gender"`
	Address                  string       `json:"address"`
	City                     string       `json:"city"`
	State                    string       `json:"state"`
	Pincode                  string       `json:"pincode"`
	EmergencyContactName     string       `json:"emergencyContactName"`
	EmergencyContactPhone    string       `json:"emergencyContactPhone"`
	EmergencyContactRelation string       `json:"emergencyContactRelation"`
	MedicalConditions        string       `json:"medicalConditions"`
	Allergies                string       `json:"allergies"`
	FitnessGoals             string       `json:"fitnessGoals"`
	GymID                    int64        `json:"gymId"`
	UserID                   int64        `json:"userId"`
	Status                   MemberStatus `json:"status"`
	JoinDate                 string       `json:"joinDate"`
	CreatedAt                string       `json:"createdAt"`
	UpdatedAt                string       `json:"updatedAt"`
}

func (m Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
