package apiclient

import (
	"context"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

// Donors fetches the unfiltered donor list. Filtering happens client side.
func (c *APIClient) Donors(ctx context.Context, token string) ([]domain.Donor, error) {
	var resp api.DonorsResponse
	if err := c.call(ctx, http.MethodGet, "/v1/donors", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Donors, nil
}

// DonorLoader binds token so the client can feed a donor.Directory.
func (c *APIClient) DonorLoader(token string) donor.Loader {
	return donorLoader{client: c, token: token}
}

type donorLoader struct {
	client *APIClient
	token  string
}

func (l donorLoader) Donors(ctx context.Context) ([]domain.Donor, error) {
	return l.client.Donors(ctx, l.token)
}
