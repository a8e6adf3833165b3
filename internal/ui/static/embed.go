// Пакет static — встроенные статические ресурсы UI реестра.
// Файлы встраиваются в бинарник через //go:embed и раздаются через HTTP.
package static

import (
	"embed"
	"net/http"
)

// content — встроенная файловая система со статическими ресурсами.
//
//go:embed css/style.css
var content embed.FS

// FileSystem возвращает http.FileSystem для обработки запросов к /static/*.
// Файлы доступны по путям вида /static/css/style.css.
func FileSystem() http.FileSystem {
	return http.FS(content)
}
