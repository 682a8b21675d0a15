package stubserver

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type user struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Name         string
	Role         string
	GymID        *int64
	MemberID     int64
}

// refreshSession tracks one issued refresh token. Tokens are single use:
// a successful rotation revokes the old one.
type refreshSession struct {
	UserID  int64
	Revoked bool
}

type store struct {
	mu sync.RWMutex

	users    map[string]*user
	sessions map[string]*refreshSession

	members     []domain.Member
	trainers    []domain.Trainer
	plans       []domain.MembershipPlan
	memberships []domain.MemberMembership
	attendance  []domain.Attendance
	payments    []domain.Payment
	progress    []domain.ProgressEntry
	gyms        []domain.Gym

	nextID map[string]int64
}

func newStore() *store {
	s := &store{
		users:    make(map[string]*user),
		sessions: make(map[string]*refreshSession),
		nextID:   make(map[string]int64),
	}
	s.seed()
	return s
}

func (s *store) allocate(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

func hashPassword(pw string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

func (s *store) seed() {
	now := time.Now().UTC().Format(time.RFC3339)
	gymOne := int64(1)

	s.users["admin"] = &user{ID: 1, Username: "admin", PasswordHash: hashPassword("admin123"), Name: "Site Administrator", Role: "ADMIN"}
	s.users["manager"] = &user{ID: 2, Username: "manager", PasswordHash: hashPassword("manager123"), Name: "Meera Kulkarni", Role: "MANAGER", GymID: &gymOne}
	s.users["frontdesk"] = &user{ID: 3, Username: "frontdesk", PasswordHash: hashPassword("frontdesk123"), Name: "Rohit Shetty", Role: "RECEPTIONIST", GymID: &gymOne}
	s.users["trainer"] = &user{ID: 4, Username: "trainer", PasswordHash: hashPassword("trainer123"), Name: "Anil Yadav", Role: "TRAINER", GymID: &gymOne}
	s.users["member"] = &user{ID: 5, Username: "member", PasswordHash: hashPassword("member123"), Name: "Priya Nair", Role: "MEMBER", GymID: &gymOne, MemberID: 1}
	s.nextID["user"] = 5

	s.gyms = []domain.Gym{
		{ID: 1, GymCode: "BLR-001", Name: "Iron Temple Indiranagar", City: "Bengaluru", State: "Karnataka", OpeningTime: "05:30", ClosingTime: "22:30", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, GymCode: "BLR-002", Name: "Iron Temple Koramangala", City: "Bengaluru", State: "Karnataka", OpeningTime: "06:00", ClosingTime: "22:00", IsActive: false, CreatedAt: now, UpdatedAt: now},
	}
	s.nextID["gym"] = 2

	s.members = []domain.Member{
		{ID: 1, MemberCode: "MEM-0001", FirstName: "Priya", LastName: "Nair", Email: "priya@example.com", Phone: "9800000001", GymID: 1, UserID: 5, Status: domain.MemberActive, JoinDate: "2026-01-10", CreatedAt: now, UpdatedAt: now},
		{ID: 2, MemberCode: "MEM-0002", FirstName: "Karan", LastName: "Mehta", Email: "karan@example.com", Phone: "9800000002", GymID: 1, Status: domain.MemberActive, JoinDate: "2026-03-02", CreatedAt: now, UpdatedAt: now},
		{ID: 3, MemberCode: "MEM-0003", FirstName: "Sana", LastName: "Khan", Email: "sana@example.com", Phone: "9800000003", GymID: 1, Status: domain.MemberExpired, JoinDate: "2025-07-21", CreatedAt: now, UpdatedAt: now},
	}
	s.nextID["member"] = 3

	s.trainers = []domain.Trainer{
		{ID: 1, FirstName: "Anil", LastName: "Yadav", Email: "anil@example.com", Specialization: "Strength", ExperienceYears: 8, HourlyRate: 900, Rating: 4.7, TotalRatings: 41, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, FirstName: "Divya", LastName: "Rao", Email: "divya@example.com", Specialization: "Yoga", ExperienceYears: 5, HourlyRate: 700, Rating: 4.9, TotalRatings: 65, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 3, FirstName: "Vikram", LastName: "Singh", Email: "vikram@example.com", Specialization: "CrossFit", ExperienceYears: 3, HourlyRate: 650, Rating: 4.1, TotalRatings: 12, IsActive: false, CreatedAt: now, UpdatedAt: now},
	}
	s.nextID["trainer"] = 3

	s.plans = []domain.MembershipPlan{
		{ID: 1, Name: "Monthly", Description: "Full gym access", Price: 1500, DurationMonths: 1, Features: []string{"Gym floor", "Locker"}, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Quarterly", Description: "Full access plus one PT session", Price: 4000, DurationMonths: 3, Features: []string{"Gym floor", "Locker", "1 PT session"}, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Name: "Annual", Description: "Everything included", Price: 14000, DurationMonths: 12, Features: []string{"Gym floor", "Locker", "Group classes", "4 PT sessions"}, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	s.nextID["plan"] = 3

	s.memberships = []domain.MemberMembership{
		{ID: 1, MemberID: 1, PlanID: 3, StartDate: "2026-01-10", EndDate: "2027-01-10", AmountPaid: 14000, GymID: 1, Status: "ACTIVE", CreatedAt: now, UpdatedAt: now},
		{ID: 2, MemberID: 2, PlanID: 1, StartDate: "2026-08-02", EndDate: "2026-09-02", AmountPaid: 1500, GymID: 1, Status: "ACTIVE", AutoRenewal: true, CreatedAt: now, UpdatedAt: now},
	}
	s.nextID["membership"] = 2

	today := time.Now().UTC().Format("2006-01-02")
	s.attendance = []domain.Attendance{
		{ID: 1, MemberID: 1, CheckIn: today + "T07:05:00Z", CheckOut: today + "T08:20:00Z", Method: domain.AttendanceQR, CreatedAt: now},
		{ID: 2, MemberID: 2, CheckIn: today + "T18:40:00Z", Method: domain.AttendanceManual, Notes: "forgot card", CreatedAt: now},
	}
	s.nextID["attendance"] = 2

	s.payments = []domain.Payment{
		{ID: 1, UserID: 5, MemberName: "Priya Nair", Amount: 14000, PaymentMethod: domain.PayUPI, Status: domain.PaymentCompleted, PaymentDate: "2026-01-10", CreatedAt: now},
		{ID: 2, UserID: 2, MemberName: "Karan Mehta", Amount: 1500, PaymentMethod: domain.PayCash, Status: domain.PaymentPending, PaymentDate: today, DueDate: "2026-09-05", CreatedAt: now},
	}
	s.nextID["payment"] = 2

	s.progress = []domain.ProgressEntry{
		{ID: 1, MemberID: 1, MeasurementDate: "2026-07-01", Weight: 62.5, Height: 164, BodyFat: 24.1, MuscleMass: 41.3, CreatedAt: now},
		{ID: 2, MemberID: 1, MeasurementDate: "2026-08-01", Weight: 61.2, Height: 164, BodyFat: 23.0, MuscleMass: 41.9, Notes: "steady cut", CreatedAt: now},
	}
	s.nextID["progress"] = 2
}

func (s *store) authenticate(username, password string) (*user, bool) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(username)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

func (s *store) userByID(id int64) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *store) addUser(u *user) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return false
	}
	u.ID = s.allocate("user")
	s.users[key] = u
	return true
}

func (s *store) rememberSession(jti string, userID int64) {
	s.mu.Lock()
	s.sessions[jti] = &refreshSession{UserID: userID}
	s.mu.Unlock()
}

// consumeSession revokes a refresh token and reports whether it was live.
func (s *store) consumeSession(jti string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[jti]
	if !ok || sess.Revoked {
		return 0, false
	}
	sess.Revoked = true
	return sess.UserID, true
}

func (s *store) revokeSession(jti string) {
	s.mu.Lock()
	if sess, ok := s.sessions[jti]; ok {
		sess.Revoked = true
	}
	s.mu.Unlock()
}

// revokeUserSessions revokes every refresh token issued to a user. Logout
// identifies the caller by access token, so revocation is per user rather
// than per token.
func (s *store) revokeUserSessions(userID int64) {
	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Revoked = true
		}
	}
	s.mu.Unlock()
}
