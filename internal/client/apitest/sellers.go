package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// handleApply обрабатывает POST /api/v1/sellers/apply
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.SellerApplication
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.TermsAccepted {
		writeError(w, http.StatusBadRequest, "You must accept the terms and conditions")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUserID(r)]
	if u.application != nil {
		writeError(w, http.StatusBadRequest, "Application already submitted")
		return
	}

	u.application = &req
	u.appliedAt = time.Now().UTC()
	u.Role = pkgapi.RoleSeller
	approved := false
	u.IsSellerApproved = &approved

	writeJSON(w, http.StatusOK, applicationResponse(u))
}

// handleApplicationStatus обрабатывает GET /api/v1/sellers/application-status
func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUserID(r)]
	if u.application == nil {
		writeError(w, http.StatusNotFound, "No seller application found")
		return
	}
	writeJSON(w, http.StatusOK, applicationResponse(u))
}

// handleSellerProfile обрабатывает GET /api/v1/sellers/profile
func (s *Server) handleSellerProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUserID(r)]
	if u.Role != pkgapi.RoleSeller {
		writeError(w, http.StatusForbidden, "Not a seller")
		return
	}
	writeJSON(w, http.StatusOK, s.profile(u))
}

// handleAdminList обрабатывает GET /api/v1/admin/sellers
func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	status := pkgapi.ApplicationStatus(r.URL.Query().Get("status"))

	s.mu.Lock()
	items := []pkgapi.SellerApplicationResponse{}
	for id := int64(1); id < s.nextUserID; id++ {
		u, ok := s.users[id]
		if !ok || u.application == nil {
			continue
		}
		app := applicationResponse(u)
		if status != "" && app.Status != status {
			continue
		}
		items = append(items, app)
	}
	s.mu.Unlock()

	q := r.URL.Query()
	writeJSON(w, http.StatusOK, paginate(items, q.Get("skip"), q.Get("limit")))
}

// handleAdminReview обрабатывает PATCH /api/v1/admin/sellers/{id}/approve
func (s *Server) handleAdminReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeValidationError(w, "user_id", "Input should be a valid integer")
		return
	}

	var req pkgapi.SellerApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Seller not found")
		return
	}
	if u.Role != pkgapi.RoleSeller || u.application == nil {
		writeError(w, http.StatusBadRequest, "User is not a seller applicant")
		return
	}

	switch req.Status {
	case pkgapi.ApplicationApproved:
		approved := true
		u.IsSellerApproved = &approved
	case pkgapi.ApplicationRejected:
		// Отклоненная заявка возвращает пользователя в покупатели
		approved := false
		u.IsSellerApproved = &approved
		u.Role = pkgapi.RoleBuyer
	default:
		writeError(w, http.StatusBadRequest, "Invalid status. Must be 'approved' or 'rejected'")
		return
	}

	resp := applicationResponse(u)
	resp.Status = req.Status
	writeJSON(w, http.StatusOK, resp)
}

// handleAdminDetails обрабатывает GET /api/v1/admin/sellers/{id}
func (s *Server) handleAdminDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeValidationError(w, "user_id", "Input should be a valid integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.Role != pkgapi.RoleSeller {
		writeError(w, http.StatusNotFound, "Seller not found")
		return
	}
	writeJSON(w, http.StatusOK, s.profile(u))
}

// applicationResponse вызывается под s.mu
func applicationResponse(u *account) pkgapi.SellerApplicationResponse {
	status := pkgapi.ApplicationPending
	switch {
	case u.Role != pkgapi.RoleSeller:
		status = pkgapi.ApplicationRejected
	case u.ApprovedSeller():
		status = pkgapi.ApplicationApproved
	}

	return pkgapi.SellerApplicationResponse{
		ID:            u.ID,
		Email:         u.Email,
		StoreName:     u.application.StoreName,
		SellerBio:     u.application.SellerBio,
		SellerAddress: u.application.SellerAddress,
		SellerTaxID:   u.application.SellerTaxID,
		Status:        status,
		CreatedAt:     u.appliedAt,
	}
}

// profile вызывается под s.mu
func (s *Server) profile(u *account) pkgapi.SellerProfile {
	p := pkgapi.SellerProfile{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		FullName:         u.FullName,
		IsSellerApproved: u.ApprovedSeller(),
		SellerVerified:   u.ApprovedSeller(),
		CreatedAt:        u.appliedAt,
	}
	if u.application != nil {
		p.StoreName = &u.application.StoreName
		p.SellerBio = &u.application.SellerBio
		p.SellerAddress = &u.application.SellerAddress
		p.SellerTaxID = u.application.SellerTaxID
	}
	for _, product := range s.products {
		if product.SellerID == u.ID {
			p.TotalProducts++
			p.TotalSales += float64(product.SoldCount) * product.Price
		}
	}
	return p
}
