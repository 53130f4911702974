package presenter

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

const (
	DefaultDisplayName = "Партнер"
	DefaultInitials    = "П"
	InvalidDate        = "Invalid Date"

	phoneRegion = "RU"
)

var statusLabels = map[entity.LeadStatus]string{
	entity.LeadStatusPending:    "⏳ Ожидает",
	entity.LeadStatusProcessing: "🔄 В работе",
	entity.LeadStatusCompleted:  "✅ Завершена",
	entity.LeadStatusCancelled:  "❌ Отменена",
}

// StatusLabel maps a lead status to its display label. Unknown statuses are
// returned unchanged.
func StatusLabel(status entity.LeadStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a backend timestamp the way ru-RU dates read
// (dd.mm.yyyy). Unparseable input yields InvalidDate.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return InvalidDate
}

func FormatMoney(amount float64) string {
	return FormatNumber(amount) + " ₽"
}

func FormatCount(n float64) string {
	return FormatNumber(n)
}

// FormatNumber prints n the way a JavaScript number converts to text:
// shortest round-trip digits, exponent form from 1e21 up and below 1e-6.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if abs := math.Abs(n); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// FormatPhone renders parseable numbers in international format and returns
// anything else trimmed but untouched.
func FormatPhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// Initials takes the first letter of each name, upper-cased.
func Initials(firstName, lastName string) string {
	initials := firstRune(firstName) + firstRune(lastName)
	if initials == "" {
		return DefaultInitials
	}
	return initials
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// FullName joins first and last name, trimmed of surrounding whitespace.
func FullName(firstName, lastName string) string {
	return strings.TrimSpace(firstName + " " + lastName)
}

// DisplayName falls back to the username, then to DefaultDisplayName.
func DisplayName(u entity.HostUser) string {
	if name := FullName(u.FirstName, u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return DefaultDisplayName
}
