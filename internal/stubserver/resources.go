package stubserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

func urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
	}
	return id, ok
}

// members

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.members)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, m := range s.data.members {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Member not found")
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var m domain.Member
	if !decodeBody(w, r, &m) {
		return
	}
	if m.FirstName == "" || m.Phone == "" {
		writeError(w, http.StatusBadRequest, "firstName and phone are required")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	m.ID = s.data.allocate("member")
	m.MemberCode = fmt.Sprintf("MEM-%04d", m.ID)
	if m.Status == "" {
		m.Status = domain.MemberActive
	}
	if m.JoinDate == "" {
		m.JoinDate = time.Now().UTC().Format("2006-01-02")
	}
	m.CreatedAt, m.UpdatedAt = nowStamp(), nowStamp()
	s.data.members = append(s.data.members, m)
	writeJSON(w, http.StatusCreated, m)
}

// trainers

func (s *Server) listTrainers(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.trainers)
}

func (s *Server) listActiveTrainers(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Trainer{}
	for _, t := range s.data.trainers {
		if t.IsActive {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listTopRatedTrainers(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Trainer{}
	for _, t := range s.data.trainers {
		if t.IsActive && t.Rating >= 4.5 {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listTrainersBySpecialization(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Trainer{}
	for _, t := range s.data.trainers {
		if strings.EqualFold(t.Specialization, name) {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, t := range s.data.trainers {
		if t.ID == id {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Trainer not found")
}

func (s *Server) createTrainer(w http.ResponseWriter, r *http.Request) {
	var t domain.Trainer
	if !decodeBody(w, r, &t) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	t.ID = s.data.allocate("trainer")
	t.IsActive = true
	t.CreatedAt, t.UpdatedAt = nowStamp(), nowStamp()
	s.data.trainers = append(s.data.trainers, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var t domain.Trainer
	if !decodeBody(w, r, &t) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.trainers {
		if s.data.trainers[i].ID == id {
			t.ID = id
			t.CreatedAt = s.data.trainers[i].CreatedAt
			t.UpdatedAt = nowStamp()
			s.data.trainers[i] = t
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Trainer not found")
}

func (s *Server) deleteTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.trainers {
		if s.data.trainers[i].ID == id {
			s.data.trainers = append(s.data.trainers[:i], s.data.trainers[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Trainer not found")
}

// membership plans

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.plans)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, p := range s.data.plans {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Plan not found")
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var p domain.MembershipPlan
	if !decodeBody(w, r, &p) {
		return
	}
	if p.Name == "" || p.DurationMonths <= 0 {
		writeError(w, http.StatusBadRequest, "name and durationMonths are required")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p.ID = s.data.allocate("plan")
	p.IsActive = true
	p.CreatedAt, p.UpdatedAt = nowStamp(), nowStamp()
	s.data.plans = append(s.data.plans, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p domain.MembershipPlan
	if !decodeBody(w, r, &p) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.plans {
		if s.data.plans[i].ID == id {
			p.ID = id
			p.CreatedAt = s.data.plans[i].CreatedAt
			p.UpdatedAt = nowStamp()
			s.data.plans[i] = p
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Plan not found")
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.plans {
		if s.data.plans[i].ID == id {
			s.data.plans = append(s.data.plans[:i], s.data.plans[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Plan not found")
}

// member memberships

func (s *Server) assignMembership(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignMembershipRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	var member *domain.Member
	for i := range s.data.members {
		if s.data.members[i].ID == req.MemberID {
			member = &s.data.members[i]
			break
		}
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	planFound := false
	for _, p := range s.data.plans {
		if p.ID == req.PlanID {
			planFound = true
			break
		}
	}
	if !planFound {
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	mm := domain.MemberMembership{
		ID:          s.data.allocate("membership"),
		MemberID:    req.MemberID,
		PlanID:      req.PlanID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AmountPaid:  req.AmountPaid,
		GymID:       member.GymID,
		Status:      "ACTIVE",
		AutoRenewal: req.AutoRenewal,
		CreatedAt:   nowStamp(),
		UpdatedAt:   nowStamp(),
	}
	s.data.memberships = append(s.data.memberships, mm)
	writeJSON(w, http.StatusCreated, mm)
}

func (s *Server) membershipsByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.MemberMembership{}
	for _, mm := range s.data.memberships {
		if mm.MemberID == id {
			out = append(out, mm)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// attendance

func (s *Server) listAttendance(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.attendance)
}

func (s *Server) attendanceByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Attendance{}
	for _, a := range s.data.attendance {
		if a.MemberID == id {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) attendanceByDateRange(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Attendance{}
	for _, a := range s.data.attendance {
		day := a.CheckIn
		if len(day) >= 10 {
			day = day[:10]
		}
		if day >= start && day <= end {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, a := range s.data.attendance {
		if a.MemberID == req.MemberID && a.Open() {
			writeError(w, http.StatusConflict, "Member already has an open visit")
			return
		}
	}
	method := req.Method
	if method == "" {
		method = domain.AttendanceManual
	}
	a := domain.Attendance{
		ID:        s.data.allocate("attendance"),
		MemberID:  req.MemberID,
		CheckIn:   nowStamp(),
		Method:    method,
		Notes:     req.Notes,
		CreatedAt: nowStamp(),
	}
	s.data.attendance = append(s.data.attendance, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) checkOut(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckOutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.attendance {
		if s.data.attendance[i].MemberID == req.MemberID && s.data.attendance[i].Open() {
			s.data.attendance[i].CheckOut = nowStamp()
			writeJSON(w, http.StatusOK, s.data.attendance[i])
			return
		}
	}
	writeError(w, http.StatusConflict, "No open check-in for member")
}

// payments

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.payments)
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, p := range s.data.payments {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Payment not found")
}

func (s *Server) paymentsByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Payment{}
	for _, p := range s.data.payments {
		if p.UserID == id {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var form domain.PaymentForm
	if !decodeBody(w, r, &form) {
		return
	}
	if form.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	status := form.Status
	if status == "" {
		status = domain.PaymentPending
	}
	p := domain.Payment{
		ID:            s.data.allocate("payment"),
		UserID:        form.UserID,
		MembershipID:  form.MembershipID,
		Amount:        form.Amount,
		PaymentMethod: form.PaymentMethod,
		Status:        status,
		Notes:         form.Notes,
		TransactionID: form.TransactionID,
		PaymentDate:   form.PaymentDate,
		DueDate:       form.DueDate,
		CreatedAt:     nowStamp(),
	}
	if p.PaymentDate == "" {
		p.PaymentDate = time.Now().UTC().Format("2006-01-02")
	}
	s.data.payments = append(s.data.payments, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	status := domain.PaymentStatus(r.URL.Query().Get("status"))
	switch status {
	case domain.PaymentPending, domain.PaymentCompleted, domain.PaymentFailed, domain.PaymentRefunded:
	default:
		writeError(w, http.StatusBadRequest, "invalid payment status")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.payments {
		if s.data.payments[i].ID == id {
			s.data.payments[i].Status = status
			writeJSON(w, http.StatusOK, s.data.payments[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Payment not found")
}

func (s *Server) paymentSummary(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	month := time.Now().UTC().Format("2006-01")
	today := time.Now().UTC().Format("2006-01-02")
	var sum domain.PaymentSummary
	for _, p := range s.data.payments {
		switch p.Status {
		case domain.PaymentCompleted:
			if strings.HasPrefix(p.PaymentDate, month) {
				sum.CurrentMonthAmount += p.Amount
			}
			if p.PaymentDate == today {
				sum.TodayRevenue += p.Amount
			}
		case domain.PaymentPending:
			sum.PendingAmount += p.Amount
			if p.DueDate != "" && p.DueDate < today {
				sum.TotalOverdueAmount += p.Amount
			}
		}
	}
	writeJSON(w, http.StatusOK, sum)
}

// progress

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.progress)
}

func (s *Server) progressByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.ProgressEntry{}
	for _, e := range s.data.progress {
		if e.MemberID == id {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request) {
	var e domain.ProgressEntry
	if !decodeBody(w, r, &e) {
		return
	}
	if e.MemberID == 0 {
		writeError(w, http.StatusBadRequest, "memberId is required")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	e.ID = s.data.allocate("progress")
	if e.MeasurementDate == "" {
		e.MeasurementDate = time.Now().UTC().Format("2006-01-02")
	}
	e.CreatedAt = nowStamp()
	s.data.progress = append(s.data.progress, e)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var e domain.ProgressEntry
	if !decodeBody(w, r, &e) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.progress {
		if s.data.progress[i].ID == id {
			e.ID = id
			e.CreatedAt = s.data.progress[i].CreatedAt
			s.data.progress[i] = e
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Progress entry not found")
}

func (s *Server) deleteProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.progress {
		if s.data.progress[i].ID == id {
			s.data.progress = append(s.data.progress[:i], s.data.progress[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Progress entry not found")
}

// gyms

func (s *Server) listGyms(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.data.gyms)
}

func (s *Server) listActiveGyms(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	out := []domain.Gym{}
	for _, g := range s.data.gyms {
		if g.IsActive {
			out = append(out, g)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getGym(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, g := range s.data.gyms {
		if g.ID == id {
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Gym not found")
}

func (s *Server) createGym(w http.ResponseWriter, r *http.Request) {
	var g domain.Gym
	if !decodeBody(w, r, &g) {
		return
	}
	if g.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	g.ID = s.data.allocate("gym")
	if g.GymCode == "" {
		g.GymCode = fmt.Sprintf("GYM-%03d", g.ID)
	}
	g.IsActive = true
	g.CreatedAt, g.UpdatedAt = nowStamp(), nowStamp()
	s.data.gyms = append(s.data.gyms, g)
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) updateGym(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var g domain.Gym
	if !decodeBody(w, r, &g) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.gyms {
		if s.data.gyms[i].ID == id {
			g.ID = id
			g.CreatedAt = s.data.gyms[i].CreatedAt
			g.UpdatedAt = nowStamp()
			s.data.gyms[i] = g
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Gym not found")
}

func (s *Server) deleteGym(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.gyms {
		if s.data.gyms[i].ID == id {
			s.data.gyms = append(s.data.gyms[:i], s.data.gyms[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Gym not found")
}

// dashboard

func (s *Server) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	month := time.Now().UTC().Format("2006-01")
	today := time.Now().UTC().Format("2006-01-02")
	monthEnd := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")

	var sum domain.DashboardSummary
	sum.TotalMembers = len(s.data.members)
	for _, m := range s.data.members {
		if m.Status == domain.MemberActive {
			sum.ActiveMembers++
		}
	}
	for _, p := range s.data.payments {
		if p.Status == domain.PaymentCompleted && strings.HasPrefix(p.PaymentDate, month) {
			sum.TotalPaymentsCurrentMonth += p.Amount
		}
		if p.Status == domain.PaymentPending {
			sum.PendingPayments++
		}
	}
	for _, mm := range s.data.memberships {
		if mm.Status == "ACTIVE" && mm.EndDate >= today && mm.EndDate <= monthEnd {
			sum.ExpiringMembersCount++
		}
	}
	for _, a := range s.data.attendance {
		if strings.HasPrefix(a.CheckIn, today) {
			sum.TodayAttendance++
		}
	}
	writeJSON(w, http.StatusOK, sum)
}
