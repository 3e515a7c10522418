package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

// AdminHandler exposes the catalog, coupon and payment management surface.
// Every route requires an admin session; the upstream services stay the
// source of truth for validation.
type AdminHandler struct {
	session *identity.Session
	catalog *clients.CatalogClient
	coupons *clients.CouponsClient
	payment *clients.PaymentClient
	users   *clients.AuthClient
}

func NewAdminHandler(session *identity.Session, catalog *clients.CatalogClient, coupons *clients.CouponsClient, payment *clients.PaymentClient, users *clients.AuthClient) *AdminHandler {
	return &AdminHandler{session: session, catalog: catalog, coupons: coupons, payment: payment, users: users}
}

// requireAdmin writes the rejection and reports whether the request may
// proceed.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	u := h.session.Current()
	if u == nil {
		writeError(w, r, http.StatusUnauthorized, "login required")
		return false
	}
	if u.Role != "admin" {
		writeError(w, r, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var p clients.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := h.catalog.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "product service request failed")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing product id")
		return
	}
	var p clients.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = cart.ID(id)
	out, err := h.catalog.Update(r.Context(), p)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "product service request failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing product id")
		return
	}
	if err := h.catalog.Delete(r.Context(), cart.ID(id)); err != nil {
		writeError(w, r, http.StatusBadGateway, "product service request failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "coupon service request failed")
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *AdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var c clients.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := h.coupons.Create(r.Context(), c)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "coupon service request failed")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *AdminHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing coupon id")
		return
	}
	var c clients.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	c.ID = id
	out, err := h.coupons.Update(r.Context(), c)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "coupon service request failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing coupon id")
		return
	}
	if err := h.coupons.Delete(r.Context(), id); err != nil {
		writeError(w, r, http.StatusBadGateway, "coupon service request failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.users.Users(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "auth service request failed")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing user id")
		return
	}
	var req clients.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.users.UpdateUser(r.Context(), id, req)
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, "auth service request failed")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing user id")
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, "auth service request failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	payments, err := h.payment.Payments(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "payment service request failed")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *AdminHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing payment id")
		return
	}
	p, err := h.payment.Payment(r.Context(), id)
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, "payment service request failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
