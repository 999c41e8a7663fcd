package handlers

import (
	"errors"
	"net/http"
	"time"

	"solarbot/models"
	"solarbot/services/booking"
	"solarbot/services/calendar"
	ai "solarbot/services/intelligence"
	"solarbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	Booking  booking.AppointmentService
	Parser   *booking.AppointmentRequestParser
	Location *time.Location
	Logger   *zap.Logger
}

func NewCalendarHandler(svc booking.AppointmentService, parser *booking.AppointmentRequestParser, loc *time.Location, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Booking: svc, Parser: parser, Location: loc, Logger: logger}
}

type intervalRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"`
}

type appointmentRequest struct {
	intervalRequest
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"omitempty,email"`
}

type suggestRequest struct {
	Message string `json:"message" binding:"required"`
}

type slotResponse struct {
	Start   time.Time `json:"start_time"`
	End     time.Time `json:"end_time"`
	Display string    `json:"display"`
}

// interval parses the request window. A missing end defaults to one hour
// after the start.
func (h *CalendarHandler) interval(r intervalRequest) (models.TimeInterval, error) {
	start, err := booking.ParseTimestamp(r.StartTime, h.Location)
	if err != nil {
		return models.TimeInterval{}, err
	}
	end := start.Add(booking.SlotDuration)
	if r.EndTime != "" {
		if end, err = booking.ParseTimestamp(r.EndTime, h.Location); err != nil {
			return models.TimeInterval{}, err
		}
	}
	return models.NewTimeInterval(start, end)
}

// Availability reports whether a window is bookable.
func (h *CalendarHandler) Availability(c *gin.Context) {
	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid availability request", err.Error())
		return
	}
	iv, err := h.interval(req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid time window", err.Error())
		return
	}

	res, err := h.Booking.CheckAvailability(c.Request.Context(), iv)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateAppointment books a 60 minute consultation.
func (h *CalendarHandler) CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment request", err.Error())
		return
	}
	iv, err := h.interval(req.intervalRequest)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid time window", err.Error())
		return
	}

	appt := models.AppointmentRequest{
		Summary:       req.Summary,
		Description:   req.Description,
		Interval:      iv,
		AttendeeEmail: req.Email,
	}
	if appt.Summary == "" {
		appt.Summary = ai.AppointmentSummary
	}
	if appt.Description == "" {
		appt.Description = ai.AppointmentDescription
	}

	ctx := booking.WithOrigin(c.Request.Context(), booking.Origin{Source: "api"})
	result, err := h.Booking.CreateAppointment(ctx, appt)
	if err == nil {
		err = booking.RejectionError(result)
	}
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Suggest resolves a free-text request like "Mittwoch um 15 Uhr" to a slot.
func (h *CalendarHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid suggest request", err.Error())
		return
	}
	_, iv := h.Parser.ResolveInterval(req.Message)
	c.JSON(http.StatusOK, slotResponse{Start: iv.Start, End: iv.End, Display: ai.GermanSlot(iv)})
}

func (h *CalendarHandler) writeBookingError(c *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var conflictErr *booking.ConflictError
	var authErr *calendar.AuthError
	var remoteErr *calendar.RemoteServiceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Requested time is outside business hours",
			"reason":  validationErr.Reason,
			"details": validationErr.Message,
		})
	case errors.As(err, &conflictErr):
		alts := make([]slotResponse, 0, len(conflictErr.Alternatives))
		for _, a := range conflictErr.Alternatives {
			alts = append(alts, slotResponse{Start: a.Start, End: a.End, Display: ai.GermanSlot(a)})
		}
		c.JSON(http.StatusConflict, gin.H{
			"message":      "Requested time is not available",
			"reason":       models.ReasonConflict,
			"alternatives": alts,
		})
	case errors.As(err, &authErr):
		utils.JSONError(c, http.StatusServiceUnavailable, "Calendar credentials unavailable", "")
		h.Logger.Error("Calendar auth failure", zap.Error(err))
	case errors.As(err, &remoteErr):
		utils.JSONError(c, http.StatusBadGateway, "Calendar service error", "")
		h.Logger.Error("Calendar remote failure", zap.Error(err))
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "")
		h.Logger.Error("Calendar request failed", zap.Error(err))
	}
}
