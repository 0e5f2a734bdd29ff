// Package models содержит доменные структуры консультационного сервиса:
// пользователей, платежи, консультационные сессии и вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// User представляет пользователя сервиса.
//
// Поле MonthlyConsultations ведёт счёт консультаций только для бесплатного
// тарифа; при смене календарного месяца счётчик обнуляется.
type User struct {
	ID                     int        `json:"id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	Credits                int        `json:"credits"`
	IsPremium              bool       `json:"isPremium"`
	PremiumExpiresAt       *time.Time `json:"premiumExpiresAt,omitempty"`
	IsAdmin                bool       `json:"isAdmin"`
	MonthlyConsultations   int        `json:"monthlyConsultations"`
	ConsultationsResetDate *time.Time `json:"consultationsResetDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}
