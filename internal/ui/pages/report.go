package pages

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// sortOptions — варианты сортировки отчёта в порядке отображения.
var sortOptions = []struct {
	Key   string
	Label string
}{
	{model.SortNameAsc, "По названию (А–Я)"},
	{model.SortNameDesc, "По названию (Я–А)"},
	{model.SortTenantsAsc, "По числу жильцов (возр.)"},
	{model.SortTenantsDesc, "По числу жильцов (убыв.)"},
	{model.SortApartmentsAsc, "По числу квартир (возр.)"},
	{model.SortApartmentsDesc, "По числу квартир (убыв.)"},
	{model.SortBuildingsAsc, "По числу домов (возр.)"},
	{model.SortBuildingsDesc, "По числу домов (убыв.)"},
}

// ReportData — данные страницы сводного отчёта по району.
type ReportData struct {
	PageData
	Report *model.DistrictReport
}

// DistrictReport — страница сводного отчёта: улицы → дома → квартиры → жильцы.
func DistrictReport(data ReportData) templ.Component {
	data.Title = "Отчёт по району"
	return layout(data.PageData, func(sb *strings.Builder) {
		sb.WriteString("<h1>Сводный отчёт по району</h1>")

		sb.WriteString("<form method=\"get\" action=\"/district_report\" class=\"sort\">")
		sb.WriteString("<label>Сортировка улиц<select name=\"sort_street\" onchange=\"this.form.submit()\">")
		for _, opt := range sortOptions {
			selected := ""
			if opt.Key == data.Report.SortKey {
				selected = " selected"
			}
			fmt.Fprintf(sb, "<option value=\"%s\"%s>%s</option>", opt.Key, selected, opt.Label)
		}
		sb.WriteString("</select></label>")
		sb.WriteString("<noscript><button type=\"submit\">Применить</button></noscript>")
		sb.WriteString("</form>")

		if len(data.Report.Streets) == 0 {
			sb.WriteString("<p>Реестр пуст.</p>")
			return
		}

		for si := range data.Report.Streets {
			street := &data.Report.Streets[si]
			fmt.Fprintf(sb, "<section class=\"street\"><h2>ул. %s</h2>", esc(street.Street.Name))
			fmt.Fprintf(sb, "<p class=\"totals\">Домов: %d · Квартир: %d · Жильцов: %d</p>",
				street.BuildingCount, street.ApartmentCount, street.TotalTenants)

			for bi := range street.Buildings {
				building := &street.Buildings[bi]
				fmt.Fprintf(sb, "<div class=\"building\"><h3>Дом %s (квартир: %d)</h3>",
					esc(building.Building.Number), building.ApartmentCount)

				for ai := range building.Apartments {
					apt := &building.Apartments[ai]
					status := "свободна"
					if apt.IsOccupied {
						status = "занята"
					}
					rooms := "—"
					if apt.Apartment.Rooms != nil {
						rooms = fmt.Sprintf("%d", *apt.Apartment.Rooms)
					}
					fmt.Fprintf(sb, "<div class=\"apartment\"><h4>Кв. %s — %s</h4>", esc(apt.Apartment.Number), status)
					fmt.Fprintf(sb, "<p>Площадь: %.2f м² · Комнат: %s · Собственность: %s</p>",
						apt.Apartment.Area, rooms, esc(apt.Apartment.OwnershipType))

					if len(apt.Tenants) > 0 {
						sb.WriteString("<ul class=\"tenants\">")
						for ti := range apt.Tenants {
							tenant := &apt.Tenants[ti]
							fmt.Fprintf(sb, "<li>%s (рег. %s)</li>",
								esc(tenant.FullName()), tenant.RegistrationDate.Format(dateLayout))
						}
						sb.WriteString("</ul>")
					}
					sb.WriteString("</div>")
				}
				sb.WriteString("</div>")
			}
			sb.WriteString("</section>")
		}
	})
}
