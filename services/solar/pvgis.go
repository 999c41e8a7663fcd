package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const DefaultPVGISURL = "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc"

type pvgisResponse struct {
	Outputs struct {
		Totals struct {
			Fixed struct {
				EY float64 `json:"E_y"`
			} `json:"fixed"`
		} `json:"totals"`
	} `json:"outputs"`
}

// PVGISClient queries the EU PVGIS PVcalc endpoint for the yearly yield of a
// 1 kWp system with 14% system loss.
type PVGISClient struct {
	BaseURL    string
	HTTPClient *http.Client
	// Limiter throttles outgoing calls; PVGIS enforces a per-IP rate limit.
	Limiter *rate.Limiter
}

func NewPVGISClient(baseURL string) *PVGISClient {
	if baseURL == "" {
		baseURL = DefaultPVGISURL
	}
	return &PVGISClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		Limiter:    rate.NewLimiter(rate.Limit(25), 5),
	}
}

// YearlyYield returns kWh per kWp and year at the given location.
func (p *PVGISClient) YearlyYield(ctx context.Context, lat, lng float64) (float64, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("peakpower", "1")
	q.Set("loss", "14")
	q.Set("outputformat", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pvgis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrNoSolarData
	}

	var body pvgisResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("pvgis: decode response: %w", err)
	}
	if body.Outputs.Totals.Fixed.EY <= 0 {
		return 0, ErrNoSolarData
	}
	return body.Outputs.Totals.Fixed.EY, nil
}
