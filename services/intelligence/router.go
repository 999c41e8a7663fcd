package ai

import (
	"strings"

	"solarbot/models"
)

var calendarKeywords = []string{
	"termin",
	"beratungstermin",
	"beratungsgespräch",
	"treffen",
	"kalender",
	"uhrzeit",
	"vereinbaren",
	"buchen",
}

// DetectAssistant routes a message. An explicit kind wins; otherwise a
// calendar keyword in the message or anywhere in the thread history selects
// the calendar assistant.
func DetectAssistant(message string, history []models.ChatTurn, explicit models.AssistantKind) models.AssistantKind {
	switch explicit {
	case models.AssistantCalendar, models.AssistantSolar:
		return explicit
	}

	if containsCalendarKeyword(message) {
		return models.AssistantCalendar
	}
	for _, turn := range history {
		if containsCalendarKeyword(turn.Text) {
			return models.AssistantCalendar
		}
	}
	return models.AssistantSolar
}

func containsCalendarKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range calendarKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
