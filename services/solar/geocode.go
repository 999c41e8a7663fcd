package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"solarbot/models"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GeocodeResponse is the part of the Google Geocoding response we read.
type GeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeClient resolves addresses through the Google Geocoding API.
type GeocodeClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewGeocodeClient(apiKey string) *GeocodeClient {
	return &GeocodeClient{
		APIKey:     apiKey,
		BaseURL:    defaultGeocodeURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GeocodeClient) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	if g.APIKey == "" {
		return models.Coordinates{}, fmt.Errorf("geocode: API key not configured")
	}
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, err
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body GeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.Coordinates{}, ErrAddressNotFound
	default:
		return models.Coordinates{}, fmt.Errorf("geocode: status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return models.Coordinates{}, ErrAddressNotFound
	}

	first := body.Results[0]
	return models.Coordinates{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
