// Package stubserver is a self-contained gym CRM backend used by the
// devserver command and the integration tests. It speaks the same wire
// contract as the real backend, with an in-memory dataset behind it.
package stubserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/gym-crm-cli/internal/rbac"
	"github.com/sandeepkv93/gym-crm-cli/internal/security"
)

type Options struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	Logger         *slog.Logger
	EnableOTelHTTP bool
}

type Server struct {
	jwt    *security.JWTManager
	data   *store
	log    *slog.Logger
	opts   Options
	router http.Handler
}

func New(opts Options) *Server {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		jwt:  security.NewJWTManager("gym-crm", "gym-clients", opts.AccessSecret, opts.RefreshSecret),
		data: newStore(),
		log:  opts.Logger,
		opts: opts,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/gym", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
			r.Post("/register", s.handleRegister)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.With(s.require(rbac.ViewAllMembers)).Get("/members/all", s.listMembers)
			r.With(s.require(rbac.ViewMemberDetails)).Get("/members/{id}", s.getMember)
			r.With(s.require(rbac.CreateMember)).Post("/members", s.createMember)

			r.Route("/trainers", func(r chi.Router) {
				r.With(s.require(rbac.ViewTrainers)).Get("/", s.listTrainers)
				r.With(s.require(rbac.ViewTrainers)).Get("/active", s.listActiveTrainers)
				r.With(s.require(rbac.ViewTrainers)).Get("/top-rated", s.listTopRatedTrainers)
				r.With(s.require(rbac.ViewTrainers)).Get("/specialization/{name}", s.listTrainersBySpecialization)
				r.With(s.require(rbac.ViewTrainers)).Get("/{id}", s.getTrainer)
				r.With(s.require(rbac.ManageTrainers)).Post("/", s.createTrainer)
				r.With(s.require(rbac.ManageTrainers)).Put("/{id}", s.updateTrainer)
				r.With(s.require(rbac.ManageTrainers)).Delete("/{id}", s.deleteTrainer)
			})

			r.Route("/membership-plans", func(r chi.Router) {
				r.With(s.require(rbac.ViewMemberships)).Get("/", s.listPlans)
				r.With(s.require(rbac.ViewMemberships)).Get("/{id}", s.getPlan)
				r.With(s.require(rbac.CreateMembershipPlan)).Post("/", s.createPlan)
				r.With(s.require(rbac.CreateMembershipPlan)).Put("/{id}", s.updatePlan)
				r.With(s.require(rbac.CreateMembershipPlan)).Delete("/{id}", s.deletePlan)
			})

			r.With(s.require(rbac.AssignMembership)).Post("/member-memberships", s.assignMembership)
			r.With(s.require(rbac.ViewMemberships)).Get("/member-memberships/member/{id}", s.membershipsByMember)

			r.Route("/attendance", func(r chi.Router) {
				r.With(s.require(rbac.ViewAttendance)).Get("/", s.listAttendance)
				r.With(s.require(rbac.ViewAttendance)).Get("/member/{id}", s.attendanceByMember)
				r.With(s.require(rbac.ViewAttendance)).Get("/date-range", s.attendanceByDateRange)
				r.With(s.require(rbac.ViewAttendance)).Post("/checkin", s.checkIn)
				r.With(s.require(rbac.ViewAttendance)).Post("/checkout", s.checkOut)
			})

			r.Route("/payments", func(r chi.Router) {
				r.With(s.require(rbac.ViewPayments)).Get("/", s.listPayments)
				r.With(s.require(rbac.ViewFinancials)).Get("/summary", s.paymentSummary)
				r.With(s.require(rbac.ViewPayments)).Get("/member/{id}", s.paymentsByMember)
				r.With(s.require(rbac.ViewPayments)).Get("/{id}", s.getPayment)
				r.With(s.require(rbac.RecordPayment)).Post("/", s.createPayment)
				r.With(s.require(rbac.RecordPayment)).Patch("/{id}/status", s.updatePaymentStatus)
			})

			r.Route("/progress", func(r chi.Router) {
				r.With(s.require(rbac.ViewProgress)).Get("/", s.listProgress)
				r.With(s.require(rbac.ViewProgress)).Get("/member/{id}", s.progressByMember)
				r.With(s.require(rbac.UpdateProgress)).Post("/", s.recordProgress)
				r.With(s.require(rbac.UpdateProgress)).Put("/{id}", s.updateProgress)
				r.With(s.require(rbac.UpdateProgress)).Delete("/{id}", s.deleteProgress)
			})

			r.Route("/gyms", func(r chi.Router) {
				r.With(s.require(rbac.ViewGyms)).Get("/all", s.listGyms)
				r.With(s.require(rbac.ViewGyms)).Get("/active", s.listActiveGyms)
				r.With(s.require(rbac.ViewGyms)).Get("/{id}", s.getGym)
				r.With(s.require(rbac.ManageGyms)).Post("/create", s.createGym)
				r.With(s.require(rbac.ManageGyms)).Put("/{id}", s.updateGym)
				r.With(s.require(rbac.ManageGyms)).Delete("/{id}", s.deleteGym)
			})

			r.With(s.require(rbac.ViewDashboard)).Get("/dashboard/summary", s.dashboardSummary)
		})
	})

	var h http.Handler = r
	if s.opts.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the backend's flat error shape.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
