package apiclient

import (
	"context"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

// Profile fetches the signed-in user's profile. A missing profile is not an
// error: it comes back as nil so the caller can decide what to do with it.
func (c *APIClient) Profile(ctx context.Context, token string, id domain.UserId) (*domain.Profile, error) {
	var resp api.ProfileResponse
	err := c.call(ctx, http.MethodGet, "/v1/profile", token, nil, &resp)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Profile.Id != id {
		return nil, errors.Forbidden("Profile belongs to another user")
	}
	return &resp.Profile, nil
}

func (c *APIClient) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (domain.Profile, error) {
	var resp api.ProfileResponse
	if err := c.call(ctx, http.MethodPut, "/v1/profile", token, req, &resp); err != nil {
		return domain.Profile{}, err
	}
	return resp.Profile, nil
}
