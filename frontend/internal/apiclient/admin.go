package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

// Users lists profiles, optionally only those with status.
func (c *APIClient) Users(ctx context.Context, token string, status *domain.Status) ([]api.AdminUser, error) {
	path := "/v1/admin/users"
	if status != nil {
		path += "?" + url.Values{"status": {string(*status)}}.Encode()
	}
	var resp api.AdminUsersResponse
	if err := c.call(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *APIClient) Stats(ctx context.Context, token string) (api.AdminStatsResponse, error) {
	var resp api.AdminStatsResponse
	err := c.call(ctx, http.MethodGet, "/v1/admin/stats", token, nil, &resp)
	return resp, err
}

// Moderate applies one of verify, reject, ban or activate.
func (c *APIClient) Moderate(ctx context.Context, token string, id domain.UserId, action string) (api.AdminUser, error) {
	var resp api.AdminUser
	path := "/v1/admin/users/" + url.PathEscape(id.String()) + "/" + url.PathEscape(action)
	err := c.call(ctx, http.MethodPost, path, token, nil, &resp)
	return resp, err
}

func (c *APIClient) Requests(ctx context.Context, token string) ([]domain.BloodRequest, error) {
	var resp api.BloodRequestsResponse
	if err := c.call(ctx, http.MethodGet, "/v1/requests", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

func (c *APIClient) CreateRequest(ctx context.Context, token string, req api.CreateBloodRequestRequest) (domain.BloodRequest, error) {
	var resp api.BloodRequestResponse
	err := c.call(ctx, http.MethodPost, "/v1/admin/requests", token, req, &resp)
	return resp.Request, err
}

func (c *APIClient) MatchRequest(ctx context.Context, token string, id domain.RequestId) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/requests/"+url.PathEscape(id)+"/match", token, nil, nil)
}

func (c *APIClient) CompleteRequest(ctx context.Context, token string, id domain.RequestId) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/requests/"+url.PathEscape(id)+"/complete", token, nil, nil)
}

func (c *APIClient) DeleteRequest(ctx context.Context, token string, id domain.RequestId) error {
	return c.call(ctx, http.MethodDelete, "/v1/admin/requests/"+url.PathEscape(id), token, nil, nil)
}
