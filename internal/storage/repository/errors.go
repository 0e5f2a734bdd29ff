package repository

import "errors"

// Сигнальные ошибки хранилища. Сервисы пробрасывают их наверх, обработчики
// отображают в HTTP-статусы: NotFound, Conflict и отказ по квоте.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrSessionNotFound         = errors.New("session not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentExists           = errors.New("transaction id already submitted")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrQuotaExceeded           = errors.New("monthly consultation quota exceeded")
)
