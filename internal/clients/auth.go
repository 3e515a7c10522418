package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

// AuthClient talks to the auth service. Token and session issuance are owned
// by that service; this gateway only exchanges credentials for a user.
type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

// RegisterRequest carries the fields the auth service expects on signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userDTO tolerates a numeric user id on the wire.
type userDTO struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}

func (d userDTO) user() identity.User {
	return identity.User{
		ID:    d.ID.String(),
		Name:  d.Name,
		Email: d.Email,
		Role:  d.Role,
	}
}

func (ac *AuthClient) Login(ctx context.Context, email, password string) (identity.User, error) {
	var dto userDTO
	err := ac.c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &dto)
	if err != nil {
		return identity.User{}, err
	}
	return dto.user(), nil
}

func (ac *AuthClient) Register(ctx context.Context, req RegisterRequest) (identity.User, error) {
	var dto userDTO
	if err := ac.c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &dto); err != nil {
		return identity.User{}, err
	}
	return dto.user(), nil
}

// UpdateUserRequest carries the account fields editable through the user
// management surface.
type UpdateUserRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func (ac *AuthClient) Users(ctx context.Context) ([]identity.User, error) {
	var dtos []userDTO
	if err := ac.c.doJSON(ctx, http.MethodGet, "/api/users", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]identity.User, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.user())
	}
	return out, nil
}

func (ac *AuthClient) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (identity.User, error) {
	var dto userDTO
	if err := ac.c.doJSON(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), req, &dto); err != nil {
		return identity.User{}, err
	}
	return dto.user(), nil
}

func (ac *AuthClient) DeleteUser(ctx context.Context, id string) error {
	return ac.c.doJSON(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}
