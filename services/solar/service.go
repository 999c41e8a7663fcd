package solar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"solarbot/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const locationCachePrefix = "solar:loc:"

// Geocoder resolves a street address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// YieldSource reports the yearly yield of 1 kWp at a location.
type YieldSource interface {
	YearlyYield(ctx context.Context, lat, lng float64) (float64, error)
}

// Estimator is the solar_panel_calculations backend.
type Estimator struct {
	Geocoder Geocoder
	Yield    YieldSource
	// Cache stores geocode and yield per address; nil disables caching.
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *zap.Logger
}

func NewEstimator(geo Geocoder, yield YieldSource, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{Geocoder: geo, Yield: yield, Cache: cache, CacheTTL: ttl, Logger: logger}
}

type cachedLocation struct {
	Location    models.Coordinates `json:"location"`
	YieldPerKWp float64            `json:"yieldPerKwp"`
}

// Estimate geocodes address, looks up the local yield and applies the German
// economics for monthlyBill.
func (e *Estimator) Estimate(ctx context.Context, address string, monthlyBill float64) (models.SolarEstimate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.SolarEstimate{}, ErrAddressNotFound
	}
	if monthlyBill <= 0 {
		return models.SolarEstimate{}, ErrInvalidBill
	}

	loc, err := e.locate(ctx, address)
	if err != nil {
		return models.SolarEstimate{}, err
	}

	econ := CalculateGermanSolar(monthlyBill)
	est := models.SolarEstimate{
		Address:        address,
		Location:       loc.Location,
		MonthlyBill:    monthlyBill,
		YieldPerKWp:    round(loc.YieldPerKWp, 2),
		YearlyYieldKWh: round(loc.YieldPerKWp*econ.RecommendedSizeKWp, 2),
		Economics:      econ,
	}
	est.Summary = FormatSummary(est)

	e.Logger.Info("Solar estimate computed",
		zap.String("address", address),
		zap.Float64("sizeKWp", econ.RecommendedSizeKWp),
		zap.Float64("paybackYears", econ.PaybackYears),
	)
	return est, nil
}

func (e *Estimator) locate(ctx context.Context, address string) (cachedLocation, error) {
	key := locationCachePrefix + strings.ToLower(address)
	if e.Cache != nil {
		data, err := e.Cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			var cl cachedLocation
			if json.Unmarshal([]byte(data), &cl) == nil {
				return cl, nil
			}
		case !errors.Is(err, redis.Nil):
			e.Logger.Warn("Solar cache read failed", zap.Error(err))
		}
	}

	coords, err := e.Geocoder.Geocode(ctx, address)
	if err != nil {
		return cachedLocation{}, err
	}
	yield, err := e.Yield.YearlyYield(ctx, coords.Lat, coords.Lng)
	if err != nil {
		return cachedLocation{}, fmt.Errorf("solar yield for %s: %w", address, err)
	}
	cl := cachedLocation{Location: coords, YieldPerKWp: yield}

	if e.Cache != nil {
		if b, err := json.Marshal(cl); err == nil {
			if err := e.Cache.Set(ctx, key, b, e.CacheTTL).Err(); err != nil {
				e.Logger.Warn("Solar cache write failed", zap.Error(err))
			}
		}
	}
	return cl, nil
}
