package domain

type Trainer struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Specialization  string  `json:"specialization"`
	ExperienceYears int     `json:"experienceYears"`
	HourlyRate      float64 `json:"hourlyRate"`
	Bio             string  `json:"bio"`
	Location        string  `json:"location"`
	Certifications  string  `json:"certifications"`
	Schedule        string  `json:"schedule"`
	Rating          float64 `json:"rating,omitempty"`
	TotalRatings    int     `json:"totalRatings,omitempty"`
	IsActive        bool    `json:"isActive"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}
