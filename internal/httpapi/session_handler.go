package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

// Registrar creates accounts on the auth service. Satisfied by
// *clients.AuthClient.
type Registrar interface {
	Register(ctx context.Context, req clients.RegisterRequest) (identity.User, error)
}

type SessionHandler struct {
	session   *identity.Session
	mgr       *cart.Manager
	registrar Registrar
	log       *zap.Logger
}

func NewSessionHandler(session *identity.Session, mgr *cart.Manager, registrar Registrar, log *zap.Logger) *SessionHandler {
	return &SessionHandler{session: session, mgr: mgr, registrar: registrar, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	u := h.session.Current()
	if u == nil {
		writeError(w, r, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Login authenticates and then replaces the local cart with the user's
// remote cart. The prior anonymous cart is discarded, not merged.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.session.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "login failed")
		return
	}

	// Cart stays at its last known good state if the fetch fails; the UI can
	// retry via GET /api/cart.
	if err := h.mgr.Refresh(r.Context()); err != nil {
		h.log.Warn("cart refresh after login failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, u)
}

// Register creates an account. It does not log the new user in; the UI
// follows up with a login call.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body clients.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.registrar.Register(r.Context(), body)
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
			writeError(w, r, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, r, http.StatusBadGateway, "auth service request failed")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Logout drops the session and tears the cart down.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())

	// Identity is gone, so this clears the local cart and its snapshot.
	if err := h.mgr.Clear(r.Context()); err != nil {
		h.log.Warn("cart clear after logout failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
