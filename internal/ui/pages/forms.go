package pages

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// AddressFormData — данные формы адреса (добавление и редактирование).
type AddressFormData struct {
	PageData
	Error string
	// ApartmentID — id квартиры при редактировании; 0 при добавлении.
	ApartmentID     int64
	StreetName      string
	BuildingNumber  string
	ApartmentNumber string
	Area            string
	Rooms           string
	OwnershipType   string
}

// AddressForm — страница формы адреса.
func AddressForm(data AddressFormData) templ.Component {
	title := "Добавить адрес"
	action := "/address/add"
	if data.ApartmentID != 0 {
		title = "Изменить адрес"
		action = fmt.Sprintf("/address/edit/%d", data.ApartmentID)
	}
	data.Title = title

	return layout(data.PageData, func(sb *strings.Builder) {
		fmt.Fprintf(sb, "<h1>%s</h1>", title)
		if data.Error != "" {
			fmt.Fprintf(sb, "<div class=\"error\">%s</div>", esc(data.Error))
		}
		fmt.Fprintf(sb, "<form method=\"post\" action=\"%s\" class=\"form\">", action)
		fmt.Fprintf(sb, "<label>Улица<input type=\"text\" name=\"street_name\" value=\"%s\" required></label>", esc(data.StreetName))
		fmt.Fprintf(sb, "<label>Дом<input type=\"text\" name=\"building_number\" value=\"%s\" required></label>", esc(data.BuildingNumber))
		fmt.Fprintf(sb, "<label>Квартира<input type=\"text\" name=\"apartment_number\" value=\"%s\" required></label>", esc(data.ApartmentNumber))
		fmt.Fprintf(sb, "<label>Площадь, м²<input type=\"number\" name=\"area\" value=\"%s\" step=\"0.01\" min=\"0.01\" required></label>", esc(data.Area))
		fmt.Fprintf(sb, "<label>Комнат<input type=\"number\" name=\"rooms\" value=\"%s\" min=\"0\"></label>", esc(data.Rooms))
		fmt.Fprintf(sb, "<label>Форма собственности<input type=\"text\" name=\"ownership_type\" value=\"%s\" required></label>", esc(data.OwnershipType))
		sb.WriteString("<button type=\"submit\">Сохранить</button>")
		sb.WriteString("</form>")
	})
}

// TenantFormData — данные формы жильца (добавление и редактирование).
type TenantFormData struct {
	PageData
	Error string
	// TenantID — id жильца при редактировании; 0 при добавлении.
	TenantID         int64
	FullName         string
	ApartmentID      int64
	Apartments       []model.ApartmentOption
	PassportSeries   string
	PassportNumber   string
	Phone            string
	RegistrationDate string
}

// TenantForm — страница формы жильца с выбором квартиры.
func TenantForm(data TenantFormData) templ.Component {
	title := "Добавить жильца"
	action := "/tenant/add"
	if data.TenantID != 0 {
		title = "Изменить жильца"
		action = fmt.Sprintf("/tenant/edit/%d", data.TenantID)
	}
	data.Title = title

	return layout(data.PageData, func(sb *strings.Builder) {
		fmt.Fprintf(sb, "<h1>%s</h1>", title)
		if data.Error != "" {
			fmt.Fprintf(sb, "<div class=\"error\">%s</div>", esc(data.Error))
		}
		fmt.Fprintf(sb, "<form method=\"post\" action=\"%s\" class=\"form\">", action)
		fmt.Fprintf(sb, "<label>Полное имя (имя и фамилия)<input type=\"text\" name=\"full_name\" value=\"%s\" placeholder=\"Иван Петренко\" required></label>", esc(data.FullName))

		sb.WriteString("<label>Квартира<select name=\"apartment_id\" required>")
		sb.WriteString("<option value=\"\">— выберите квартиру —</option>")
		for i := range data.Apartments {
			opt := &data.Apartments[i]
			selected := ""
			if opt.ID == data.ApartmentID {
				selected = " selected"
			}
			fmt.Fprintf(sb, "<option value=\"%d\"%s>%s</option>", opt.ID, selected, esc(opt.Label()))
		}
		sb.WriteString("</select></label>")

		fmt.Fprintf(sb, "<label>Серия паспорта<input type=\"text\" name=\"passport_series\" value=\"%s\"></label>", esc(data.PassportSeries))
		fmt.Fprintf(sb, "<label>Номер паспорта<input type=\"text\" name=\"passport_number\" value=\"%s\" required></label>", esc(data.PassportNumber))
		fmt.Fprintf(sb, "<label>Телефон<input type=\"text\" name=\"phone\" value=\"%s\"></label>", esc(data.Phone))
		fmt.Fprintf(sb, "<label>Дата регистрации<input type=\"date\" name=\"registration_date\" value=\"%s\" required></label>", esc(data.RegistrationDate))
		sb.WriteString("<button type=\"submit\">Сохранить</button>")
		sb.WriteString("</form>")
	})
}
