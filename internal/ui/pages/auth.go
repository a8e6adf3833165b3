package pages

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// LoginData — данные страницы входа.
type LoginData struct {
	Flash string
	Error string
}

// Login — страница входа.
func Login(data LoginData) templ.Component {
	return layout(PageData{Title: "Вход", Flash: data.Flash}, func(sb *strings.Builder) {
		sb.WriteString("<h1>Вход</h1>")
		if data.Error != "" {
			fmt.Fprintf(sb, "<div class=\"error\">%s</div>", esc(data.Error))
		}
		sb.WriteString("<form method=\"post\" action=\"/login\" class=\"form\">")
		sb.WriteString("<label>Имя пользователя<input type=\"text\" name=\"username\" required></label>")
		sb.WriteString("<label>Пароль<input type=\"password\" name=\"password\" required></label>")
		sb.WriteString("<button type=\"submit\">Войти</button>")
		sb.WriteString("</form>")
		sb.WriteString("<p>Нет учётной записи? <a href=\"/register\">Зарегистрироваться</a></p>")
	})
}

// RegisterData — данные страницы регистрации.
type RegisterData struct {
	Error    string
	Username string
	FullName string
}

// Register — страница самостоятельной регистрации жильца.
func Register(data RegisterData) templ.Component {
	return layout(PageData{Title: "Регистрация"}, func(sb *strings.Builder) {
		sb.WriteString("<h1>Регистрация</h1>")
		sb.WriteString("<p>Учётная запись привязывается к жильцу реестра по полному имени.</p>")
		if data.Error != "" {
			fmt.Fprintf(sb, "<div class=\"error\">%s</div>", esc(data.Error))
		}
		sb.WriteString("<form method=\"post\" action=\"/register\" class=\"form\">")
		fmt.Fprintf(sb, "<label>Имя пользователя<input type=\"text\" name=\"username\" value=\"%s\" required></label>", esc(data.Username))
		sb.WriteString("<label>Пароль<input type=\"password\" name=\"password\" required></label>")
		fmt.Fprintf(sb, "<label>Полное имя (имя и фамилия)<input type=\"text\" name=\"full_name\" value=\"%s\" placeholder=\"Иван Петренко\" required></label>", esc(data.FullName))
		sb.WriteString("<button type=\"submit\">Зарегистрироваться</button>")
		sb.WriteString("</form>")
		sb.WriteString("<p>Уже есть учётная запись? <a href=\"/login\">Войти</a></p>")
	})
}
