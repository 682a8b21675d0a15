package stubserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, ok := s.data.authenticate(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	resp, err := s.issueTokens(u)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign tokens", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("refreshToken")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	claims, err := s.jwt.ParseRefreshToken(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	userID, live := s.data.consumeSession(claims.ID)
	if !live {
		writeError(w, http.StatusUnauthorized, "Refresh token has been revoked")
		return
	}
	u, ok := s.data.userByID(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown session user")
		return
	}
	resp, err := s.issueTokens(u)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign tokens", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	// Logout is idempotent. A bad or already revoked token still succeeds.
	if claims, err := s.jwt.ParseAccessToken(raw); err == nil {
		s.data.revokeUserSessions(claims.UserID())
	} else if claims, err := s.jwt.ParseRefreshToken(raw); err == nil {
		s.data.revokeSession(claims.ID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = "MEMBER"
	}
	u := &user{
		Username:     req.Username,
		PasswordHash: hashPassword(req.Password),
		Name:         req.FirstName + " " + req.LastName,
		Role:         role,
		GymID:        req.GymID,
	}
	if !s.data.addUser(u) {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}
	resp, err := s.issueTokens(u)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign tokens", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) issueTokens(u *user) (*domain.AuthResponse, error) {
	access, err := s.jwt.SignAccessToken(u.ID, u.Username, u.Role, u.GymID, s.opts.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.SignRefreshToken(u.ID, s.opts.RefreshTTL)
	if err != nil {
		return nil, err
	}
	claims, err := s.jwt.ParseRefreshToken(refresh)
	if err != nil {
		return nil, err
	}
	s.data.rememberSession(claims.ID, u.ID)
	return &domain.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.opts.AccessTTL.Seconds()),
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Name:         u.Name,
		MemberID:     u.MemberID,
		GymID:        u.GymID,
	}, nil
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
