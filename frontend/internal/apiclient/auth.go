package apiclient

import (
	"context"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
)

func (c *APIClient) Signup(ctx context.Context, req api.SignupRequest) error {
	return c.call(ctx, http.MethodPost, "/v1/auth/signup", "", req, nil)
}

// Login returns the access token issued by the backend.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp api.LoginResponse
	err := c.call(ctx, http.MethodPost, "/v1/auth/login", "", api.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Refresh exchanges token for a new one carrying the current admin flag.
func (c *APIClient) Refresh(ctx context.Context, token string) (string, error) {
	var resp api.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/refresh", token, nil, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}
