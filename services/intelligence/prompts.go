package ai

import (
	"fmt"
	"strings"
	"time"

	"solarbot/models"
	"solarbot/services/booking"
)

var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

// GermanDate formats t as "Dienstag, 19.11.2024".
func GermanDate(t time.Time) string {
	return germanWeekdays[t.Weekday()] + ", " + t.Format("02.01.2006")
}

// GermanSlot formats an interval as "Dienstag, 19.11.2024 um 14:00 Uhr".
func GermanSlot(iv models.TimeInterval) string {
	return fmt.Sprintf("%s um %s Uhr", GermanDate(iv.Start), iv.Start.Format("15:04"))
}

const SolarInstructions = `Du bist ein hilfreicher Assistent für Solaranlagen-Beratung.
Du kannst das Solarpotential für deutsche Adressen berechnen und Kunden dabei helfen,
die Wirtschaftlichkeit einer Solaranlage einzuschätzen.
Frage nach der Adresse und den monatlichen Stromkosten und nutze dann solar_panel_calculations.
Wenn der Kunde einen Beratungstermin möchte, frage nach Wunschtag, Uhrzeit und E-Mail-Adresse.`

const AppointmentSummary = "Solar-Beratungsgespräch"

const AppointmentDescription = `Solar-Beratungsgespräch

Was Sie erwartet:
- Analyse Ihres Stromverbrauchs
- Berechnung des Solarpotentials
- Individuelle Wirtschaftlichkeitsberechnung
- Fördermöglichkeiten und Finanzierung
- Konkrete nächste Schritte

Bitte bringen Sie mit:
- Aktuelle Stromrechnung
- Grundriss oder Fotos des Daches (falls vorhanden)
- Fragen und Anliegen

Bei Verhinderung bitten wir um rechtzeitige Absage.

Hinweis: Das Beratungsgespräch ist kostenlos und unverbindlich.`

// CalendarInstructions renders the scheduling assistant's system prompt for
// the given moment in the business timezone.
func CalendarInstructions(now time.Time) string {
	nextTuesday := booking.NextOccurrence(now, time.Tuesday, 0, 0).Format("02.01.2006")
	today := now.Format("02.01.2006")

	return `Du bist ein hilfreicher Assistent für die Terminplanung von Solar-Beratungsgesprächen.
Das aktuelle Datum ist ` + today + ` (` + germanWeekdays[now.Weekday()] + `).
Der nächste verfügbare Dienstag ist der ` + nextTuesday + `.

ALLGEMEINE REGELN:
- Beratungsgespräche dauern standardmäßig 60 Minuten
- Termine sind nur werktags (Montag-Freitag) möglich
- Termine sind nur zwischen 9:00 und 17:00 Uhr möglich
- Der letzte Termin des Tages beginnt um 16:00 Uhr
- Mittagspause ist von 12:00-13:00 Uhr (keine Termine in dieser Zeit)

DATUMSVERARBEITUNG:
- Wenn ein Kunde "nächsten Dienstag" sagt, bedeutet das den ` + nextTuesday + `
- Verwende immer das aktuelle Jahr für Terminanfragen
- Bei unklaren Datumsangaben nutze suggest_appointment_time oder frage nach dem genauen Datum

TERMINANFRAGEN:
1. Prüfe zuerst die gewünschte Zeit mit check_availability
2. Bei Verfügbarkeit, erstelle den Termin mit create_appointment
3. Bei Nicht-Verfügbarkeit, schlage die von create_appointment gelieferten Alternativen vor
- Bestätige immer die E-Mail-Adresse des Kunden vor der Buchung

TERMINERSTELLUNG:
- summary: "` + AppointmentSummary + `"
- Zeiten immer im ISO-Format (z.B. 2024-11-19T14:00:00+01:00), Zeitzone Europe/Berlin
- Mit dem Kunden auf Deutsch und im deutschen Datumsformat kommunizieren`
}

// ConfirmationMessage is sent when the model cannot phrase the booking
// confirmation itself.
func ConfirmationMessage(result models.BookingResult, email string) string {
	var b strings.Builder
	b.WriteString("Ihr Beratungsgespräch ist bestätigt:\n")
	fmt.Fprintf(&b, "📅 %s\n", GermanDate(result.Interval.Start))
	fmt.Fprintf(&b, "⏱️ %s Uhr (60 Minuten)\n", result.Interval.Start.Format("15:04"))
	b.WriteString("📍 Online oder vor Ort (nach Absprache)\n")
	if email != "" {
		fmt.Fprintf(&b, "✉️ Eine Bestätigung wurde an %s gesendet.\n", email)
	}
	b.WriteString("\nVielen Dank für Ihr Interesse an einer Solaranlage!")
	return b.String()
}

// UnavailableMessage lists alternatives for a conflicting request.
func UnavailableMessage(requested models.TimeInterval, alternatives []models.TimeInterval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leider ist der gewünschte Termin am %s um %s Uhr bereits vergeben.\n",
		GermanDate(requested.Start), requested.Start.Format("15:04"))
	if len(alternatives) == 0 {
		b.WriteString("\nIn den nächsten Stunden ist leider kein Termin frei. Nennen Sie mir gern einen anderen Tag.")
		return b.String()
	}
	b.WriteString("\nAlternative Termine:\n")
	for _, alt := range alternatives {
		fmt.Fprintf(&b, "- %s\n", GermanSlot(alt))
	}
	b.WriteString("\nWelcher Termin würde Ihnen besser passen?")
	return b.String()
}

const outsideHoursMessage = "Termine sind nur Montag bis Freitag zwischen 9:00 und 17:00 Uhr möglich, " +
	"mit Mittagspause von 12:00 bis 13:00 Uhr. Der letzte Termin beginnt um 16:00 Uhr."

const calendarFaultMessage = "Der Kalender ist gerade nicht erreichbar. Bitte versuchen Sie es in einigen Minuten erneut."

const bookedFallbackMessage = "Der Termin wurde erfolgreich erstellt. Bitte prüfen Sie Ihre E-Mail für die Details."
