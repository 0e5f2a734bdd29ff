// Package middlewarectx содержит HTTP middleware запросного конвейера:
// проверку JWT внешнего провайдера аутентификации, проверку
// административных прав и ограничение частоты запросов.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для email пользователя в контексте
	User Key = "email"
	// Name — ключ для отображаемого имени пользователя в контексте
	Name Key = "name"
	// Admin — ключ признака административных прав в контексте
	Admin Key = "admin"
)
