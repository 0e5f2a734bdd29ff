package models

import "time"

// ConsultationSession представляет консультационную сессию пользователя
// с выбранным специалистом. Переписка и анализы лабораторных отчётов
// хранятся упорядоченными списками и только дополняются.
type ConsultationSession struct {
	ID              int                 `json:"id"`
	SessionID       string              `json:"sessionId"`
	CreatedBy       string              `json:"createdBy"`
	Notes           string              `json:"notes"`
	SelectedDoctor  *DoctorAgent        `json:"selectedDoctor,omitempty"`
	Conversation    []ConversationTurn  `json:"conversation,omitempty"`
	Report          *SessionReport      `json:"report,omitempty"`
	UploadedReports []LabReportAnalysis `json:"uploadedReports,omitempty"`
	CreatedOn       time.Time           `json:"createdOn"`
}

// ConversationTurn одна реплика переписки: роль user или assistant.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionReport структурированный итоговый отчёт по консультации,
// сгенерированный ассистентом из переписки.
type SessionReport struct {
	SessionID            string   `json:"sessionId"`
	Agent                string   `json:"agent"`
	User                 string   `json:"user"`
	Timestamp            string   `json:"timestamp"`
	ChiefComplaint       string   `json:"chiefComplaint"`
	Summary              string   `json:"summary"`
	Symptoms             []string `json:"symptoms"`
	Duration             string   `json:"duration"`
	Severity             string   `json:"severity"`
	MedicationsMentioned []string `json:"medicationsMentioned"`
	Recommendations      []string `json:"recommendations"`
	RiskLevel            string   `json:"riskLevel"`
}

// LabTestResult один показатель лабораторного отчёта с оценкой риска.
type LabTestResult struct {
	TestName       string `json:"testName"`
	Value          string `json:"value"`
	ReferenceRange string `json:"referenceRange"`
	Unit           string `json:"unit"`
	RiskLevel      string `json:"riskLevel"`
	Explanation    string `json:"explanation"`
}

// LabReportAnalysis результат анализа загруженного лабораторного отчёта.
type LabReportAnalysis struct {
	ReportName          string          `json:"reportName"`
	UploadedAt          time.Time       `json:"uploadedAt"`
	ReportType          string          `json:"reportType"`
	ReportDate          string          `json:"reportDate"`
	TestResults         []LabTestResult `json:"testResults"`
	OverallRiskLevel    string          `json:"overallRiskLevel"`
	DoctorExplanation   string          `json:"doctorExplanation"`
	KeyFindings         []string        `json:"keyFindings"`
	Recommendations     []string        `json:"recommendations"`
	WarningSignsToWatch []string        `json:"warningSignsToWatch"`
}

// CreateSessionRequest используется для приёма данных новой сессии из JSON-запроса.
type CreateSessionRequest struct {
	Notes          string       `json:"notes" validate:"required"`
	SelectedDoctor *DoctorAgent `json:"selectedDoctor" validate:"required"`
}

// ChatMessageRequest используется для приёма сообщения в рамках сессии.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// GeneralChatRequest используется для приёма сообщения общего чата
// вне консультационной сессии.
type GeneralChatRequest struct {
	Message string             `json:"message" validate:"required"`
	History []ConversationTurn `json:"history"`
}

// UploadLabReportRequest используется для приёма текста лабораторного отчёта.
type UploadLabReportRequest struct {
	ReportName string `json:"reportName" validate:"required"`
	ReportText string `json:"reportText" validate:"required"`
}
