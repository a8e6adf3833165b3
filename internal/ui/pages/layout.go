// Пакет pages — server-side rendered страницы реестра (templ-компоненты).
package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/zhilfond/housing-registry/internal/domain/rbac"
)

// PageData — общие данные каждой страницы: кто вошёл и flash-уведомление.
type PageData struct {
	Title    string
	Username string
	Role     string
	Flash    string
}

// esc — сокращение для HTML-экранирования динамических значений.
func esc(s string) string {
	return templ.EscapeString(s)
}

// layout оборачивает содержимое страницы в общий каркас:
// навигация по роли, flash-блок, подключение стилей.
func layout(data PageData, body func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html><html lang=\"ru\"><head><meta charset=\"utf-8\">")
		sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		fmt.Fprintf(&sb, "<title>%s — Реестр жилого фонда</title>", esc(data.Title))
		sb.WriteString("<link rel=\"stylesheet\" href=\"/static/css/style.css\">")
		sb.WriteString("</head><body>")

		sb.WriteString("<header class=\"topbar\"><div class=\"brand\">Реестр жилого фонда</div><nav>")
		if data.Username != "" {
			sb.WriteString("<a href=\"/tenants\">Жильцы</a>")
			if rbac.IsAdmin(data.Role) {
				sb.WriteString("<a href=\"/address/add\">Добавить адрес</a>")
				sb.WriteString("<a href=\"/tenant/add\">Добавить жильца</a>")
				sb.WriteString("<a href=\"/district_report\">Отчёт по району</a>")
				sb.WriteString("<a href=\"/certificates\">Архив справок</a>")
			}
			fmt.Fprintf(&sb, "<span class=\"user\">%s (%s)</span>", esc(data.Username), esc(data.Role))
			sb.WriteString("<a href=\"/logout\">Выход</a>")
		} else {
			sb.WriteString("<a href=\"/login\">Вход</a>")
			sb.WriteString("<a href=\"/register\">Регистрация</a>")
		}
		sb.WriteString("</nav></header>")

		if data.Flash != "" {
			fmt.Fprintf(&sb, "<div class=\"flash\">%s</div>", esc(data.Flash))
		}

		sb.WriteString("<main class=\"content\">")
		body(&sb)
		sb.WriteString("</main></body></html>")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
