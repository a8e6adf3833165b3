// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrDataIntegrity — нарушена ссылочная целостность реестра
	// (например, у жильца не разрешается адресная цепочка).
	ErrDataIntegrity = errors.New("нарушение целостности данных реестра")
	// ErrStorageUnavailable — хранилище (реестр или архив) недоступно.
	ErrStorageUnavailable = errors.New("хранилище недоступно")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
)
