package solar

import (
	"fmt"
	"math"
	"strings"

	"solarbot/models"
)

// German market assumptions.
const (
	ElectricityPrice  = 0.40 // €/kWh
	FeedInTariff      = 0.08 // €/kWh
	InstallCostPerKWp = 1500 // €
	// KWhPerKWp sizes the system: one kWp per 1000 kWh of yearly consumption.
	KWhPerKWp = 1000
)

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// CalculateGermanSolar derives system size, cost, savings and payback from a
// monthly electricity bill in euro.
func CalculateGermanSolar(monthlyBill float64) models.SolarEconomics {
	consumption := monthlyBill / ElectricityPrice * 12
	size := consumption / KWhPerKWp
	cost := size * InstallCostPerKWp
	savings := consumption * (ElectricityPrice - FeedInTariff)

	econ := models.SolarEconomics{
		YearlyConsumptionKWh: round(consumption, 2),
		RecommendedSizeKWp:   round(size, 2),
		EstimatedCost:        round(cost, 2),
		YearlySavings:        round(savings, 2),
	}
	if savings > 0 {
		econ.PaybackYears = round(cost/savings, 1)
	}
	return econ
}

// FormatSummary renders the customer-facing German analysis.
func FormatSummary(est models.SolarEstimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Basierend auf Ihrer Adresse %s und den monatlichen Stromkosten von %s€\n", est.Address, num(est.MonthlyBill))
	b.WriteString("hier Ihre persönliche Solaranalyse:\n\n")
	b.WriteString("📊 EMPFOHLENE ANLAGENGRÖSSE\n")
	fmt.Fprintf(&b, "➡️ %s kWp\n\n", num(est.Economics.RecommendedSizeKWp))
	b.WriteString("💰 KOSTEN & ERSPARNIS\n")
	fmt.Fprintf(&b, "➡️ Geschätzte Installationskosten: %s€\n", num(est.Economics.EstimatedCost))
	fmt.Fprintf(&b, "➡️ Jährliche Ersparnis: %s€\n", num(est.Economics.YearlySavings))
	fmt.Fprintf(&b, "➡️ Amortisationszeit: %s Jahre\n\n", num(est.Economics.PaybackYears))
	b.WriteString("⚡ LEISTUNG\n")
	fmt.Fprintf(&b, "➡️ Jährliche Produktion: %s kWh\n\n", num(est.YearlyYieldKWh))
	b.WriteString("📍 STANDORT\n")
	fmt.Fprintf(&b, "➡️ Breitengrad: %.5f\n", est.Location.Lat)
	fmt.Fprintf(&b, "➡️ Längengrad: %.5f\n", est.Location.Lng)
	return b.String()
}

// num prints with a German decimal comma and at most two decimals.
func num(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	return strings.Replace(s, ".", ",", 1)
}
