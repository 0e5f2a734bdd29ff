package models

import "time"

// Статусы платежа. Переходы только pending -> approved и pending -> rejected,
// каждый ровно один раз.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Payment представляет заявку на оплату, поданную пользователем
// для ручной проверки администратором.
type Payment struct {
	ID              int        `json:"id"`
	TransactionID   string     `json:"transactionId"`
	UserEmail       string     `json:"userEmail"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// SubmitPaymentRequest используется для приёма заявки на оплату из JSON-запроса.
type SubmitPaymentRequest struct {
	TransactionID string `json:"transactionId" validate:"required"` // Идентификатор UPI-транзакции
	Amount        string `json:"amount" validate:"required"`        // Сумма, как её указал пользователь
}

// ApprovePaymentRequest используется для приёма решения администратора об одобрении.
type ApprovePaymentRequest struct {
	PaymentID int `json:"paymentId" validate:"required,gt=0"`
}

// RejectPaymentRequest используется для приёма решения администратора об отклонении.
// Причина отклонения обязательна.
type RejectPaymentRequest struct {
	PaymentID int    `json:"paymentId" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required"`
}
