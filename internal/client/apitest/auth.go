package apitest

import (
	"encoding/json"
	"net/http"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// handleLogin обрабатывает POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	u := s.findByEmail(req.Email)
	var (
		user       pkgapi.User
		generation = s.generation
	)
	if u != nil {
		user = u.User
	}
	ok := u != nil && u.password == req.Password
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Inactive user")
		return
	}

	token, expiresIn, err := issueToken(s.tokens, user.ID, string(user.Role), generation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, pkgapi.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		User:        user,
	})
}

// handleRegister обрабатывает POST /api/v1/auth/register.
// Как и настоящий сервер, токен не выдает.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == pkgapi.RoleAdmin {
		writeError(w, http.StatusBadRequest, "Cannot register as admin")
		return
	}
	if len(req.Password) < 8 {
		writeValidationError(w, "password", "String should have at least 8 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(req.Email) != nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	u := s.newAccount(req.Email, req.Password, req.Role)
	u.Username = req.Username
	u.FullName = req.FullName
	if u.Role == pkgapi.RoleSeller {
		approved := false
		u.IsSellerApproved = &approved
	}

	writeJSON(w, http.StatusCreated, u.User)
}

// handleMe обрабатывает GET /api/v1/users/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.users[currentUserID(r)].User
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

// handleUpdateMe обрабатывает PUT /api/v1/users/me
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUserID(r)]
	if req.Email != nil && *req.Email != u.Email {
		if s.findByEmail(*req.Email) != nil {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		u.Email = *req.Email
	}
	if req.Username != nil {
		u.Username = req.Username
	}
	if req.FullName != nil {
		u.FullName = req.FullName
	}

	writeJSON(w, http.StatusOK, u.User)
}
