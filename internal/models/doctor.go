package models

// DoctorAgent описывает виртуального специалиста: персона для консультации
// с собственным промптом и голосом. Персоны с SubscriptionRequired=true
// доступны только премиум-пользователям.
type DoctorAgent struct {
	ID                   int    `json:"id"`
	Specialist           string `json:"specialist"`
	Description          string `json:"description"`
	Image                string `json:"image"`
	AgentPrompt          string `json:"agentPrompt"`
	VoiceID              string `json:"voiceId"`
	AssistantID          string `json:"assistantId"`
	SubscriptionRequired bool   `json:"subscriptionRequired"`
}

// SuggestDoctorsRequest используется для приёма жалоб пользователя,
// по которым подбираются специалисты.
type SuggestDoctorsRequest struct {
	Notes string `json:"notes" validate:"required"`
}
