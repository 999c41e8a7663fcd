package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"solarbot/models"
	"solarbot/services/booking"
	"solarbot/services/solar"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const (
	ToolSolarCalculations = "solar_panel_calculations"
	ToolCheckAvailability = "check_availability"
	ToolCreateAppointment = "create_appointment"
	ToolSuggestTime       = "suggest_appointment_time"
)

func stringParam(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func solarTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        ToolSolarCalculations,
			Description: "Berechnet Solarpotential, Anlagengröße, Kosten und Amortisation für eine deutsche Adresse.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"address":      stringParam("Vollständige Adresse des Gebäudes"),
					"monthly_bill": {Type: genai.TypeNumber, Description: "Monatliche Stromkosten in Euro"},
				},
				Required: []string{"address", "monthly_bill"},
			},
		}},
	}}
}

func calendarTools() []*genai.Tool {
	isoTime := "Zeitpunkt im ISO-8601-Format, z.B. 2024-11-19T14:00:00+01:00"
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        ToolCheckAvailability,
				Description: "Prüft, ob ein Zeitraum innerhalb der Geschäftszeiten liegt und im Kalender frei ist.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_time": stringParam(isoTime),
						"end_time":   stringParam(isoTime),
					},
					Required: []string{"start_time", "end_time"},
				},
			},
			{
				Name:        ToolCreateAppointment,
				Description: "Bucht ein 60-minütiges Beratungsgespräch. Liefert bei Konflikten alternative Termine.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"summary":     stringParam("Titel des Termins"),
						"description": stringParam("Beschreibung des Termins"),
						"start_time":  stringParam(isoTime),
						"end_time":    stringParam(isoTime),
						"email":       stringParam("E-Mail-Adresse des Kunden"),
					},
					Required: []string{"start_time", "end_time", "email"},
				},
			},
			{
				Name:        ToolSuggestTime,
				Description: "Leitet aus einer freien Terminanfrage wie 'Mittwoch um 15 Uhr' den nächsten passenden Termin ab.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"message": stringParam("Die Terminanfrage des Kunden im Wortlaut"),
					},
					Required: []string{"message"},
				},
			},
		},
	}}
}

// SolarEstimator is the backend of solar_panel_calculations.
type SolarEstimator interface {
	Estimate(ctx context.Context, address string, monthlyBill float64) (models.SolarEstimate, error)
}

// ToolOutcome is the result of one function call. Booking is set whenever
// create_appointment ran, including FAULT outcomes.
type ToolOutcome struct {
	Response map[string]any
	Booking  *models.BookingResult
	Email    string
}

// ToolDispatcher executes the function calls requested by the assistants.
type ToolDispatcher struct {
	Booking  booking.AppointmentService
	Parser   *booking.AppointmentRequestParser
	Solar    SolarEstimator
	Location *time.Location
	Logger   *zap.Logger
}

func NewToolDispatcher(svc booking.AppointmentService, parser *booking.AppointmentRequestParser, est SolarEstimator, loc *time.Location, logger *zap.Logger) *ToolDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolDispatcher{Booking: svc, Parser: parser, Solar: est, Location: loc, Logger: logger}
}

// Dispatch never returns an error: failures are reported to the model inside
// the response so it can explain them to the customer.
func (d *ToolDispatcher) Dispatch(ctx context.Context, call genai.FunctionCall) ToolOutcome {
	d.Logger.Info("Executing tool", zap.String("tool", call.Name))

	var out ToolOutcome
	switch call.Name {
	case ToolSolarCalculations:
		out = d.solarCalculations(ctx, call.Args)
	case ToolCheckAvailability:
		out = d.checkAvailability(ctx, call.Args)
	case ToolCreateAppointment:
		out = d.createAppointment(ctx, call.Args)
	case ToolSuggestTime:
		out = d.suggestTime(call.Args)
	default:
		out = errorOutcome(fmt.Sprintf("Unbekannte Funktion: %s", call.Name))
	}
	out.Response = jsonObject(out.Response)
	return out
}

func (d *ToolDispatcher) solarCalculations(ctx context.Context, args map[string]any) ToolOutcome {
	address := argString(args, "address")
	bill, err := argFloat(args, "monthly_bill")
	if address == "" || err != nil {
		return errorOutcome("Bitte Adresse und monatliche Stromkosten angeben.")
	}

	est, err := d.Solar.Estimate(ctx, address, bill)
	switch {
	case errors.Is(err, solar.ErrAddressNotFound):
		return errorOutcome("Adresse konnte nicht gefunden werden.")
	case errors.Is(err, solar.ErrNoSolarData):
		return errorOutcome("Keine Solardaten für diesen Standort verfügbar.")
	case errors.Is(err, solar.ErrInvalidBill):
		return errorOutcome("Die monatlichen Stromkosten müssen größer als 0 sein.")
	case err != nil:
		d.Logger.Error("solar_panel_calculations failed", zap.String("address", address), zap.Error(err))
		return errorOutcome("Berechnungsfehler, bitte später erneut versuchen.")
	}
	return ToolOutcome{Response: map[string]any{
		"raw_data":         est,
		"formatted_output": est.Summary,
	}}
}

func (d *ToolDispatcher) checkAvailability(ctx context.Context, args map[string]any) ToolOutcome {
	iv, err := d.interval(args)
	if err != nil {
		return errorOutcome(err.Error())
	}

	res, err := d.Booking.CheckAvailability(ctx, iv)
	if err != nil {
		d.Logger.Error("check_availability failed", zap.Error(err))
		return ToolOutcome{Response: map[string]any{"status": string(models.BookingFault), "message": calendarFaultMessage}}
	}

	resp := map[string]any{
		"available": res.Available,
		"requested": GermanSlot(iv),
	}
	switch res.Reason {
	case models.ReasonOutsideHours:
		resp["reason"] = res.Reason
		resp["message"] = outsideHoursMessage
	case models.ReasonConflict:
		resp["reason"] = res.Reason
		resp["message"] = "Der Zeitraum ist bereits belegt."
	default:
		resp["message"] = "Der Termin ist verfügbar."
	}
	return ToolOutcome{Response: resp}
}

func (d *ToolDispatcher) createAppointment(ctx context.Context, args map[string]any) ToolOutcome {
	iv, err := d.interval(args)
	if err != nil {
		return errorOutcome(err.Error())
	}
	req := models.AppointmentRequest{
		Summary:       argString(args, "summary"),
		Description:   argString(args, "description"),
		Interval:      iv,
		AttendeeEmail: argString(args, "email"),
	}
	if req.Summary == "" {
		req.Summary = AppointmentSummary
	}
	if req.Description == "" {
		req.Description = AppointmentDescription
	}

	result, err := d.Booking.CreateAppointment(ctx, req)
	if err != nil {
		d.Logger.Error("create_appointment failed", zap.Time("start", iv.Start), zap.Error(err))
		result = models.BookingResult{Status: models.BookingFault, Interval: iv, Message: calendarFaultMessage}
	}

	resp := map[string]any{"status": string(result.Status)}
	switch result.Status {
	case models.BookingBooked:
		resp["event_id"] = result.EventID
		resp["html_link"] = result.HTMLLink
		resp["message"] = ConfirmationMessage(result, req.AttendeeEmail)
	case models.BookingRejected:
		resp["reason"] = result.Reason
		if result.Reason == models.ReasonOutsideHours {
			resp["message"] = outsideHoursMessage
		} else {
			alts := make([]map[string]string, 0, len(result.Alternatives))
			for _, a := range result.Alternatives {
				alts = append(alts, map[string]string{
					"start_time": a.Start.Format(time.RFC3339),
					"end_time":   a.End.Format(time.RFC3339),
					"display":    GermanSlot(a),
				})
			}
			resp["alternatives"] = alts
			resp["message"] = UnavailableMessage(iv, result.Alternatives)
		}
	case models.BookingFault:
		resp["message"] = result.Message
	}
	return ToolOutcome{Response: resp, Booking: &result, Email: req.AttendeeEmail}
}

func (d *ToolDispatcher) suggestTime(args map[string]any) ToolOutcome {
	msg := argString(args, "message")
	parsed, iv := d.Parser.ResolveInterval(msg)
	return ToolOutcome{Response: map[string]any{
		"weekday":    germanWeekdays[parsed.Weekday],
		"start_time": iv.Start.Format(time.RFC3339),
		"end_time":   iv.End.Format(time.RFC3339),
		"display":    GermanSlot(iv),
	}}
}

// interval reads start_time and end_time. Timestamps without an offset are
// taken as business-local time.
func (d *ToolDispatcher) interval(args map[string]any) (models.TimeInterval, error) {
	start, err := booking.ParseTimestamp(argString(args, "start_time"), d.Location)
	if err != nil {
		return models.TimeInterval{}, fmt.Errorf("Ungültige Startzeit: %s", argString(args, "start_time"))
	}
	end, err := booking.ParseTimestamp(argString(args, "end_time"), d.Location)
	if err != nil {
		end = start.Add(booking.SlotDuration)
	}
	iv, err := models.NewTimeInterval(start, end)
	if err != nil {
		return models.TimeInterval{}, errors.New("Die Endzeit muss nach der Startzeit liegen.")
	}
	return iv, nil
}

func errorOutcome(msg string) ToolOutcome {
	return ToolOutcome{Response: map[string]any{"error": msg}}
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func argFloat(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(strings.Replace(strings.TrimSuffix(strings.TrimSpace(v), "€"), ",", ".", 1)), 64)
	default:
		return 0, fmt.Errorf("%s missing", key)
	}
}

// jsonObject reduces v to maps, slices and scalars so the SDK can encode it
// as a protobuf Struct.
func jsonObject(v map[string]any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "internal encoding error"}
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{"error": "internal encoding error"}
	}
	return out
}
