// Пакет pdf — генерация PDF-справки о жилищных условиях жильца.
// Чистое преобразование данных в байты документа: реестр не изменяется.
// Порядок полей, подписи и формат дат (dd.mm.yyyy) фиксированы — от них
// зависит архив и отображение.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Плейсхолдер для неизвестного количества комнат.
const unknownPlaceholder = "—"

// Формат дат в справке: день.месяц.год с ведущими нулями.
const dateLayout = "02.01.2006"

// CertificateData — данные справки с полностью разрешённой адресной цепочкой.
type CertificateData struct {
	FullName string
	// Серия паспорта; пустая строка — серия не указана
	PassportSeries string
	PassportNumber string
	StreetName     string
	BuildingNumber string
	ApartmentNumber string
	// Площадь в квадратных метрах
	Area float64
	// Количество комнат; nil — не указано
	Rooms         *int
	OwnershipType string
	RegistrationDate time.Time
	// Дата выдачи (проставляется при генерации)
	IssuedAt time.Time
}

// FormatPassport собирает поле паспорта: "<серия> №<номер>".
// При пустой серии — "№<номер>" без ведущего пробела.
func FormatPassport(series, number string) string {
	if series == "" {
		return "№" + number
	}
	return series + " №" + number
}

// certificateRows возвращает строки таблицы справки в фиксированном порядке.
func certificateRows(data CertificateData) [][2]string {
	rooms := unknownPlaceholder
	if data.Rooms != nil {
		rooms = fmt.Sprintf("%d", *data.Rooms)
	}

	return [][2]string{
		{"Full Name:", data.FullName},
		{"Passport:", FormatPassport(data.PassportSeries, data.PassportNumber)},
		{"Address:", fmt.Sprintf("st. %s, bld. %s, apt. %s",
			data.StreetName, data.BuildingNumber, data.ApartmentNumber)},
		{"Area:", fmt.Sprintf("%.2f m²", data.Area)},
		{"Number of Rooms:", rooms},
		{"Ownership Type:", data.OwnershipType},
		{"Registration Date:", data.RegistrationDate.Format(dateLayout)},
	}
}

// Certificate рендерит PDF-справку: заголовок, таблица ключ/значение,
// дата выдачи и строка для подписи.
func Certificate(data CertificateData) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// Заголовок
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "HOUSING CERTIFICATE", "", 1, "C", false, 0, "")
	doc.Ln(10)

	// Таблица ключ/значение с рамкой
	doc.SetFont("Helvetica", "", 10)
	for _, row := range certificateRows(data) {
		doc.CellFormat(55, 8, tr(row[0]), "1", 0, "L", false, 0, "")
		doc.CellFormat(110, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	doc.Ln(12)
	doc.CellFormat(0, 6, "Issue Date: "+data.IssuedAt.Format(dateLayout), "", 1, "L", false, 0, "")
	doc.Ln(4)
	doc.CellFormat(0, 6, "Signature: _________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка генерации PDF: %w", err)
	}
	return buf.Bytes(), nil
}
