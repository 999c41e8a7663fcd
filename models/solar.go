package models

// Coordinates is a geocoded location.
type Coordinates struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// SolarEconomics holds the German market estimate for a household.
type SolarEconomics struct {
	YearlyConsumptionKWh float64 `json:"yearly_consumption_kwh"`
	RecommendedSizeKWp   float64 `json:"recommended_size_kwp"`
	EstimatedCost        float64 `json:"estimated_cost"`
	YearlySavings        float64 `json:"yearly_savings"`
	PaybackYears         float64 `json:"payback_years"`
}

// SolarEstimate is the result of the solar_panel_calculations tool.
type SolarEstimate struct {
	Address        string         `json:"address"`
	Location       Coordinates    `json:"location"`
	MonthlyBill    float64        `json:"monthly_bill"`
	YieldPerKWp    float64        `json:"yield_per_kwp"`    // kWh per kWp and year, from PVGIS
	YearlyYieldKWh float64        `json:"yearly_yield_kwh"` // YieldPerKWp * RecommendedSizeKWp
	Economics      SolarEconomics `json:"economics"`
	Summary        string         `json:"summary"`
}
