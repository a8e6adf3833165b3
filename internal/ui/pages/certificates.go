package pages

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/zhilfond/housing-registry/internal/couchdb"
)

// CertificatesData — данные страницы архива справок.
type CertificatesData struct {
	PageData
	Documents []couchdb.Document
}

// Certificates — страница архива выданных справок.
func Certificates(data CertificatesData) templ.Component {
	data.Title = "Архив справок"
	return layout(data.PageData, func(sb *strings.Builder) {
		sb.WriteString("<h1>Архив справок</h1>")
		if len(data.Documents) == 0 {
			sb.WriteString("<p>Справки ещё не выдавались.</p>")
			return
		}

		sb.WriteString("<table class=\"list\"><thead><tr>")
		sb.WriteString("<th>Документ</th><th>Жилец</th><th>Выдана</th><th></th>")
		sb.WriteString("</tr></thead><tbody>")
		for i := range data.Documents {
			doc := &data.Documents[i]
			sb.WriteString("<tr>")
			fmt.Fprintf(sb, "<td>%s</td>", esc(doc.FirstAttachmentName()))
			fmt.Fprintf(sb, "<td>#%d</td>", doc.TenantID)
			fmt.Fprintf(sb, "<td>%s</td>", esc(doc.CreatedAt))
			fmt.Fprintf(sb, "<td><a href=\"/certificates/%s\">Скачать</a></td>", esc(doc.ID))
			sb.WriteString("</tr>")
		}
		sb.WriteString("</tbody></table>")
	})
}
