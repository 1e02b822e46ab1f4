package receipt

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parkada/internal/models"
)

// ErrSessionNotCompleted indicates a receipt was requested for a session
// that has not been billed yet.
var ErrSessionNotCompleted = errors.New("receipt: session not completed")

const (
	vatRate       = 0.12
	width         = 42
	timeLayout    = "01/02/2006 03:04 PM"
	supportEmail  = "support@parkada.com"
	operatorTIN   = "999-999-999-999"
	operatorCity  = "Philippines, Metro Manila"
	operatorName  = "PARKADA"
	operatorMotto = "Smart Parking Solutions"
)

// Render produces the plain-text parking receipt for a completed session.
// Billed hours are whole hours, floored at one, which is why the billed
// figure can exceed the actual duration line above it. The 12% VAT is
// added on top of the billed subtotal.
func Render(session *models.ParkingSession, issuedAt time.Time) (string, error) {
	if session.Status != models.StatusCompleted || session.EndTime == nil ||
		session.Duration == nil || session.TotalCost == nil {
		return "", ErrSessionNotCompleted
	}

	billedHours := math.Max(1, math.Ceil(*session.Duration))

	var b strings.Builder
	center(&b, operatorName)
	center(&b, operatorMotto)
	center(&b, operatorCity)
	center(&b, "TIN: "+operatorTIN)
	center(&b, "Contact: "+supportEmail)
	center(&b, "Date Issued: "+issuedAt.Format(timeLayout))
	rule(&b)

	line(&b, "PARKING RECEIPT", "#"+Number(session.ID))
	rule(&b)

	line(&b, "Location:", session.ParkingSpotName)
	if session.Location.Address != "" && session.Location.Address != session.ParkingSpotName {
		line(&b, "Address:", session.Location.Address)
	}
	line(&b, "Customer:", session.UserName)
	line(&b, "Email:", session.UserEmail)
	rule(&b)

	line(&b, "Time In:", session.StartTime.Format(timeLayout))
	line(&b, "Time Out:", session.EndTime.Format(timeLayout))
	line(&b, "Duration:", fmt.Sprintf("%.2f hrs", *session.Duration))
	line(&b, "Billed Hours:", fmt.Sprintf("%.0f hr(s)", billedHours))
	line(&b, "Hourly Rate:", peso(session.HourlyRate))
	rule(&b)

	// VAT is charged on top of the parking fee, not carved out of it.
	line(&b, "SUBTOTAL:", peso(*session.TotalCost))
	line(&b, "VAT (12%):", peso(models.Round2(*session.TotalCost*vatRate)))
	line(&b, "TOTAL AMOUNT:", peso(models.Round2(*session.TotalCost*(1+vatRate))))
	rule(&b)

	center(&b, "Receipt No.: "+Number(session.ID))
	center(&b, "Please keep this receipt")
	center(&b, "for your records.")
	return b.String(), nil
}

// Number derives the printed receipt number from a session id.
func Number(sessionID string) string {
	tail := sessionID
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "PK" + strings.ToUpper(tail)
}

func peso(amount float64) string {
	return fmt.Sprintf("₱%.2f", amount)
}

func center(b *strings.Builder, s string) {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(s)
	b.WriteByte('\n')
}

func line(b *strings.Builder, label, value string) {
	gap := width - len([]rune(label)) - len([]rune(value))
	if gap < 1 {
		gap = 1
	}
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(value)
	b.WriteByte('\n')
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", width))
	b.WriteByte('\n')
}
