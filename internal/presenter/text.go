package presenter

import (
	"fmt"
	"html"
	"strings"
)

// RenderText renders the dashboard as a Telegram HTML message.
func RenderText(s State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 <b>%s</b> (%s)\n", html.EscapeString(s.UserName), html.EscapeString(s.UserInitials))
	if s.UserPhone != "" {
		fmt.Fprintf(&b, "📱 %s\n", html.EscapeString(s.UserPhone))
	}
	if s.UserEmail != "" {
		fmt.Fprintf(&b, "✉️ %s\n", html.EscapeString(s.UserEmail))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "💰 <b>Баланс:</b> %s\n", html.EscapeString(orDash(s.Balance)))
	fmt.Fprintf(&b, "📋 <b>Всего заявок:</b> %s\n", html.EscapeString(orDash(s.TotalLeads)))
	fmt.Fprintf(&b, "🤝 <b>Сделок:</b> %s\n", html.EscapeString(orDash(s.CompletedDeals)))
	fmt.Fprintf(&b, "📈 <b>Заработано:</b> %s\n", html.EscapeString(orDash(s.Earnings)))

	if len(s.Leads) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	for _, item := range s.Leads {
		if item.Placeholder {
			fmt.Fprintf(&b, "<b>%s</b>\n%s\n", html.EscapeString(item.Title), html.EscapeString(item.Subtitle))
			continue
		}
		fmt.Fprintf(&b, "<b>%s</b> · %s\n%s · %s\n",
			html.EscapeString(item.Title),
			html.EscapeString(item.StatusLabel),
			html.EscapeString(item.Subtitle),
			html.EscapeString(item.Date),
		)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
