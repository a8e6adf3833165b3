package pages

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// dateLayout — отображение календарных дат в таблицах.
const dateLayout = "02.01.2006"

// TenantsData — данные страницы списка жильцов.
type TenantsData struct {
	PageData
	Tenants []model.TenantWithAddress
	// CanMutate — показывать ли кнопки редактирования/удаления (admin).
	CanMutate bool
}

// Tenants — страница списка жильцов.
func Tenants(data TenantsData) templ.Component {
	data.Title = "Жильцы"
	return layout(data.PageData, func(sb *strings.Builder) {
		sb.WriteString("<h1>Жильцы</h1>")
		if len(data.Tenants) == 0 {
			sb.WriteString("<p>Записей нет.</p>")
			return
		}

		sb.WriteString("<table class=\"list\"><thead><tr>")
		sb.WriteString("<th>ФИО</th><th>Адрес</th><th>Паспорт</th><th>Телефон</th><th>Дата регистрации</th><th></th>")
		sb.WriteString("</tr></thead><tbody>")
		for i := range data.Tenants {
			t := &data.Tenants[i]
			sb.WriteString("<tr>")
			fmt.Fprintf(sb, "<td>%s</td>", esc(t.FullName()))
			fmt.Fprintf(sb, "<td>%s</td>", esc(t.AddressLabel()))

			passport := t.PassportNumber
			if t.PassportSeries != nil {
				passport = *t.PassportSeries + " " + passport
			}
			fmt.Fprintf(sb, "<td>%s</td>", esc(passport))

			phone := "—"
			if t.Phone != nil {
				phone = *t.Phone
			}
			fmt.Fprintf(sb, "<td>%s</td>", esc(phone))
			fmt.Fprintf(sb, "<td>%s</td>", t.RegistrationDate.Format(dateLayout))

			sb.WriteString("<td class=\"actions\">")
			fmt.Fprintf(sb, "<a href=\"/tenant/%d/certificate\">Справка</a>", t.ID)
			if data.CanMutate {
				fmt.Fprintf(sb, "<a href=\"/tenant/edit/%d\">Изменить</a>", t.ID)
				fmt.Fprintf(sb, "<form method=\"post\" action=\"/tenant/delete/%d\" class=\"inline\"><button type=\"submit\">Удалить</button></form>", t.ID)
				fmt.Fprintf(sb, "<a href=\"/address/edit/%d\">Адрес</a>", t.Apartment.ID)
				fmt.Fprintf(sb, "<form method=\"post\" action=\"/address/delete/%d\" class=\"inline\"><button type=\"submit\">Удалить адрес</button></form>", t.Apartment.ID)
			}
			sb.WriteString("</td></tr>")
		}
		sb.WriteString("</tbody></table>")
	})
}
